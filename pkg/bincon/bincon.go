// Package bincon converts Windows CE boot binaries (0WINCEOS.BIN) into the
// plain 1ST_READ.BIN layout and clears the WinCE flag in IP.BIN.
package bincon

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joshuapare/cdikit/internal/format"
	"github.com/joshuapare/cdikit/internal/logger"
	"github.com/joshuapare/cdikit/internal/writer"
	"github.com/joshuapare/cdikit/pkg/types"
)

// DefaultOutputName is the file written when no output path is given.
const DefaultOutputName = "1ST_READ.BIN"

// ErrAlreadyConverted is returned when the binary already ends with the
// duplicated trailer a conversion appends.
var ErrAlreadyConverted = &types.Error{Kind: types.ErrKindState, Msg: "bincon: binary is already in converted format"}

// IsConverted reports whether b already carries a duplicated trailing chunk.
func IsConverted(b []byte) (bool, error) {
	n := len(b)
	if n < format.WinCEMinSize {
		return false, fmt.Errorf("wince binary (%d bytes): %w", n, format.ErrTruncated)
	}
	tail := b[n-format.WinCETrailerChunk:]
	prev := b[n-2*format.WinCETrailerChunk : n-format.WinCETrailerChunk]
	return bytes.Equal(prev, tail), nil
}

// Convert strips the WinCE header and appends a copy of the second-to-last
// chunk of what remains. The input is not modified.
func Convert(in []byte) ([]byte, error) {
	converted, err := IsConverted(in)
	if err != nil {
		return nil, err
	}
	if converted {
		return nil, ErrAlreadyConverted
	}

	body := in[format.WinCEHeaderSize:]
	n := len(body)
	start := max(0, n-2*format.WinCETrailerChunk)
	trailer := body[start : n-format.WinCETrailerChunk]

	out := make([]byte, 0, n+len(trailer))
	out = append(out, body...)
	out = append(out, trailer...)
	return out, nil
}

// RemoveWinCEFlag clears the WinCE flag of an IP.BIN in place. changed is
// false when the flag was already clear.
func RemoveWinCEFlag(ip []byte) (changed bool, err error) {
	if len(ip) <= format.WinCEFlagOffset {
		return false, fmt.Errorf("ip.bin (%d bytes): %w", len(ip), format.ErrTruncated)
	}
	if ip[format.WinCEFlagOffset] == format.WinCEFlagCleared {
		return false, nil
	}
	ip[format.WinCEFlagOffset] = format.WinCEFlagCleared
	return true, nil
}

// Result summarizes a file conversion.
type Result struct {
	FlagRemoved bool
	Output      string
}

// ConvertFile clears the WinCE flag in ipPath and converts binPath. The
// converted binary goes to outPath (1ST_READ.BIN next to binPath when empty),
// or replaces binPath when replace is set.
func ConvertFile(binPath, ipPath, outPath string, replace bool) (*Result, error) {
	log := logger.WithFile(binPath)
	res := &Result{}

	ip, err := os.ReadFile(ipPath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", ipPath, err)
	}
	changed, err := RemoveWinCEFlag(ip)
	if err != nil {
		return nil, fmt.Errorf("modify %s: %w", ipPath, err)
	}
	if changed {
		if err := (&writer.FileWriter{Path: ipPath}).WriteImage(ip); err != nil {
			return nil, fmt.Errorf("write %s: %w", ipPath, err)
		}
		res.FlagRemoved = true
		logger.WithFile(ipPath).Info("removed WinCE flag (set byte 0x3E to 0x30)")
	} else {
		logger.WithFile(ipPath).Info("WinCE flag already removed")
	}

	in, err := os.ReadFile(binPath)
	if err != nil {
		return res, fmt.Errorf("read %s: %w", binPath, err)
	}
	out, err := Convert(in)
	if err != nil {
		return res, fmt.Errorf("convert %s: %w", binPath, err)
	}

	switch {
	case replace:
		outPath = binPath
	case outPath == "":
		outPath = filepath.Join(filepath.Dir(binPath), DefaultOutputName)
	}
	if err := (&writer.FileWriter{Path: outPath}).WriteImage(out); err != nil {
		return res, fmt.Errorf("write %s: %w", outPath, err)
	}
	res.Output = outPath
	log.WithField("output", outPath).Info("converted WinCE binary")

	return res, nil
}
