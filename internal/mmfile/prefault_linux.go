//go:build linux

package mmfile

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// PreFault loads every page of data. MADV_POPULATE_READ (Linux 5.14+)
// reports inaccessible pages as an error; older kernels fall back to reading
// each page under Guard.
func PreFault(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	err := unix.Madvise(data, unix.MADV_POPULATE_READ)
	if err == nil {
		return nil
	}
	if !errors.Is(err, unix.EINVAL) && !errors.Is(err, unix.ENOSYS) {
		return fmt.Errorf("%w: %w", ErrMappingFault, err)
	}
	return touch(data)
}
