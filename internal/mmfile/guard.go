package mmfile

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"
)

// ErrMappingFault is returned when mapped pages can no longer be read,
// typically because the file was truncated by another process.
var ErrMappingFault = errors.New("mmfile: mapped file became inaccessible")

// faultAddr is implemented by the runtime error raised for a memory fault
// while SetPanicOnFault is enabled.
type faultAddr interface{ Addr() uintptr }

// Guard runs fn with faults on mapped memory turned into ErrMappingFault.
// Other panics propagate unchanged.
func Guard(fn func()) (err error) {
	old := debug.SetPanicOnFault(true)
	defer debug.SetPanicOnFault(old)

	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if f, ok := r.(faultAddr); ok {
			err = fmt.Errorf("%w (fault at 0x%x)", ErrMappingFault, f.Addr())
			return
		}
		panic(r)
	}()

	fn()
	return nil
}

// touch reads one byte per page so every page is faulted in under Guard.
func touch(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	pageSize := os.Getpagesize()
	var sink byte
	err := Guard(func() {
		for i := 0; i < len(data); i += pageSize {
			sink ^= data[i]
		}
		sink ^= data[len(data)-1]
	})
	_ = sink
	return err
}
