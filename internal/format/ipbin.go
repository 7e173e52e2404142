package format

import (
	"bytes"
	"fmt"

	"github.com/joshuapare/cdikit/internal/buf"
	"golang.org/x/text/encoding/japanese"
)

// IPHeader captures the meta information block at the start of IP.BIN.
type IPHeader struct {
	HardwareID   string
	MakerID      string
	DeviceInfo   string
	AreaSymbols  string
	Peripherals  string
	ProductNo    string
	Version      string
	ReleaseDate  string
	BootFilename string
	Company      string
	Title        string

	// WinCE is true when the WinCE flag byte is set to anything other than '0'.
	WinCE bool
}

// ParseIPHeader validates and extracts the meta information from an IP.BIN
// image.
func ParseIPHeader(b []byte) (IPHeader, error) {
	if len(b) < IPMetaSize {
		return IPHeader{}, fmt.Errorf("ip.bin header: %w", ErrTruncated)
	}
	if !bytes.HasPrefix(b, HardwareSignature) {
		return IPHeader{}, fmt.Errorf("ip.bin header: %w", ErrSignatureMismatch)
	}

	company, err := decodeSJIS(field(b, IPCompanyOffset, 16))
	if err != nil {
		return IPHeader{}, fmt.Errorf("ip.bin company: %w", err)
	}
	title, err := decodeSJIS(field(b, IPTitleOffset, 128))
	if err != nil {
		return IPHeader{}, fmt.Errorf("ip.bin title: %w", err)
	}

	return IPHeader{
		HardwareID:   ascii(field(b, IPHardwareIDOffset, 16)),
		MakerID:      ascii(field(b, IPMakerIDOffset, 16)),
		DeviceInfo:   ascii(field(b, IPDeviceInfoOffset, 16)),
		AreaSymbols:  ascii(field(b, IPAreaSymbolsOffset, 8)),
		Peripherals:  ascii(field(b, IPPeripheralsOffset, 8)),
		ProductNo:    ascii(field(b, IPProductNoOffset, 10)),
		Version:      ascii(field(b, IPVersionOffset, 6)),
		ReleaseDate:  ascii(field(b, IPReleaseDateOffset, 16)),
		BootFilename: ascii(field(b, IPBootFilenameOffset, 16)),
		Company:      company,
		Title:        title,
		WinCE:        b[WinCEFlagOffset] != WinCEFlagCleared,
	}, nil
}

// field returns b[off:off+n]; callers have already checked IPMetaSize.
func field(b []byte, off, n int) []byte {
	s, _ := buf.Slice(b, off, n)
	return s
}

func trim(b []byte) []byte {
	return bytes.TrimRight(b, " \x00")
}

func ascii(b []byte) string {
	return string(trim(b))
}

func decodeSJIS(b []byte) (string, error) {
	out, err := japanese.ShiftJIS.NewDecoder().Bytes(trim(b))
	if err != nil {
		return "", err
	}
	return string(out), nil
}
