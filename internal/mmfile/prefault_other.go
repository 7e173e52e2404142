//go:build !linux

package mmfile

// PreFault loads every page of data by reading it under Guard.
func PreFault(data []byte) error {
	return touch(data)
}
