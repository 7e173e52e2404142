//go:build !unix

package mmfile

import "os"

// Map reads the entire file; there is no mapping to fault on these
// platforms, so cleanup is always a no-op.
func Map(path string) ([]byte, func() error, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	return data, func() error { return nil }, nil
}
