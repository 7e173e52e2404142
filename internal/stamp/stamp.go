// Package stamp formats the build date stamps used in image names.
package stamp

import (
	"strings"
	"time"
)

const (
	stampLayout = "20060102-150405"
	dateLayout  = "20060102"

	// ImageExt is the extension of built disc images.
	ImageExt = ".cdi"
)

// Stamp formats t as YYYYMMDD-HHMMSS.
func Stamp(t time.Time) string { return t.Format(stampLayout) }

// BuildDate formats t as YYYYMMDD.
func BuildDate(t time.Time) string { return t.Format(dateLayout) }

// ImageName returns "<volume>-<YYYYMMDD>.cdi".
func ImageName(volume string, t time.Time) string {
	return volume + "-" + BuildDate(t) + ImageExt
}

// TempName returns the name used for an image while it is being moved into
// place.
func TempName(volume string, t time.Time) string {
	return strings.TrimSuffix(ImageName(volume, t), ImageExt) + ".tmp"
}
