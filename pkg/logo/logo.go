// Package logo inserts an MR boot logo into an IP.BIN boot sector.
package logo

import (
	"fmt"
	"os"

	"github.com/joshuapare/cdikit/internal/format"
	"github.com/joshuapare/cdikit/internal/logger"
	"github.com/joshuapare/cdikit/internal/writer"
	"github.com/joshuapare/cdikit/pkg/types"
)

// ErrOversizedLogo is reported when a logo does not fit in the space
// reserved for it. The logo is still inserted.
var ErrOversizedLogo = &types.Error{
	Kind: types.ErrKindFormat,
	Msg:  "logo: image is larger than 8192 bytes and will corrupt a normal ip.bin",
}

// Inject writes mr into ip at format.LogoOffset and returns the resulting
// boot sector. ip is extended with zero bytes when it is too short, matching
// a seek past end of file. ip itself is modified when it is long enough.
func Inject(ip, mr []byte) []byte {
	end := format.LogoOffset + len(mr)
	if len(ip) < end {
		grown := make([]byte, end)
		copy(grown, ip)
		ip = grown
	}
	copy(ip[format.LogoOffset:end], mr)
	return ip
}

// Oversized reports whether mr exceeds the logo area.
func Oversized(mr []byte) bool { return len(mr) > format.LogoMaxSize }

// Result summarizes a logo injection.
type Result struct {
	LogoSize int
	IPSize   int
	Warnings []error
}

// InjectFile inserts the logo at mrPath into the IP.BIN at ipPath.
func InjectFile(mrPath, ipPath string) (*Result, error) {
	mr, err := os.ReadFile(mrPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", mrPath, err)
	}
	ip, err := os.ReadFile(ipPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open IP.BIN file %s: %w", ipPath, err)
	}

	log := logger.WithFile(ipPath).WithField("logo", mrPath)
	res := &Result{LogoSize: len(mr)}
	if Oversized(mr) {
		res.Warnings = append(res.Warnings, ErrOversizedLogo)
		log.WithField("size", len(mr)).Warn("logo is larger than 8192 bytes, inserting anyway")
	}

	out := Inject(ip, mr)
	if err := (&writer.FileWriter{Path: ipPath}).WriteImage(out); err != nil {
		return nil, fmt.Errorf("failed to write logo data to %s: %w", ipPath, err)
	}
	res.IPSize = len(out)
	log.Info("logo injection completed")

	return res, nil
}
