// Package format houses low-level decoders for the Dreamcast boot sector
// (IP.BIN) and the constants that locate patchable regions inside it. Like
// the rest of cdikit it works on byte slices already in memory.
package format

var (
	// HardwareSignature is the prefix of the hardware ID field of every
	// valid IP.BIN.
	//   0x00  "SEGA SEGAKATANA "
	HardwareSignature = []byte("SEGA SEGAKATANA")
)

// IP.BIN meta information layout. All fields are space padded ASCII unless
// noted otherwise.
//
//	Offset  Size  Description
//	------  ----  ----------------------------------------------------------
//	 0x000   16   Hardware ID ("SEGA SEGAKATANA ")
//	 0x010   16   Maker ID ("SEGA ENTERPRISES")
//	 0x020   16   Device information (CRC + "GD-ROM1/1")
//	 0x030    8   Area symbols ("JUE")
//	 0x038    8   Peripherals; byte 0x03E carries the WinCE flag
//	 0x040   10   Product number
//	 0x04A    6   Product version
//	 0x050   16   Release date (YYYYMMDD)
//	 0x060   16   Boot filename ("1ST_READ.BIN")
//	 0x070   16   Software company (Shift-JIS)
//	 0x080  128   Software title (Shift-JIS)
const (
	IPHardwareIDOffset   = 0x000
	IPMakerIDOffset      = 0x010
	IPDeviceInfoOffset   = 0x020
	IPAreaSymbolsOffset  = 0x030
	IPPeripheralsOffset  = 0x038
	IPProductNoOffset    = 0x040
	IPVersionOffset      = 0x04A
	IPReleaseDateOffset  = 0x050
	IPBootFilenameOffset = 0x060
	IPCompanyOffset      = 0x070
	IPTitleOffset        = 0x080

	// IPMetaSize is the size of the meta information block.
	IPMetaSize = 0x100

	// IPSize is the size of a complete boot sector.
	IPSize = 0x8000

	// WinCEFlagOffset is the byte that marks a boot binary as a Windows CE
	// kernel image.
	WinCEFlagOffset = 0x3E
	// WinCEFlagCleared is the value that marks a plain 1ST_READ.BIN boot.
	WinCEFlagCleared = '0'

	// LogoOffset is where the boot logo (MR image) lives inside IP.BIN.
	LogoOffset = 0x3820
	// LogoMaxSize is the space available for the logo before it starts
	// overwriting the bootstrap that follows it.
	LogoMaxSize = 8192
)

// WinCE binary layout used by the 0WINCEOS.BIN -> 1ST_READ.BIN conversion.
const (
	// WinCEHeaderSize is the leading block stripped from 0WINCEOS.BIN.
	WinCEHeaderSize = 0x800
	// WinCETrailerChunk is the size of the block duplicated at the end of a
	// converted binary.
	WinCETrailerChunk = 0x800
	// WinCEMinSize is the smallest binary the conversion can inspect.
	WinCEMinSize = 0x1000
)
