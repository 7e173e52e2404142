// Package mmfile provides read-only access to disc image files for preview
// scans. On unix the file is memory mapped; elsewhere it is read into memory.
//
// A mapping faults when the file is truncated underneath it. Map pre-faults
// every page before returning, and callers that scan a mapping run the scan
// inside Guard so a later truncation surfaces as ErrMappingFault.
package mmfile
