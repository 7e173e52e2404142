// Package patcher applies boot binary patches to files on disk.
//
// It is the file-facing side of package patch: it expands target patterns,
// reads each file, runs a scan and, in write mode, replaces the file
// atomically when at least one finding was applied.
//
// # Quick Start
//
// Preview HACK3 on every binary in a data directory:
//
//	opts := types.DefaultOptions()
//	opts.Hack3 = true
//	results, err := patcher.PatchFiles([]string{"data/*.BIN"}, opts.Config(), nil)
//
// Write the unprotect patch and keep a backup:
//
//	opts := types.DefaultOptions()
//	opts.Unprotect, opts.Write = true, true
//	res, err := patcher.PatchFile("data/1ST_READ.BIN", opts.Config(), &patcher.Options{
//	    CreateBackup: true,
//	})
//
// # Targets
//
// Patterns use doublestar glob syntax ("data/**/*.{bin,BIN}"). A pattern that
// matches nothing is treated as a literal path, and only existing regular files
// are kept.
//
// # Errors
//
// Files are processed one after another. A failure on one file is logged and
// stored in FileResult.Err; the remaining files are still processed. A preview
// of a file that shrinks while it is being scanned fails with
// mmfile.ErrMappingFault instead of crashing the process.
package patcher
