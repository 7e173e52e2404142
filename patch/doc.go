// Package patch implements the in-memory boot binary patcher.
//
// A scan walks a buffer once, left to right. At every offset each rule
// derived from a types.Config is checked in a fixed order (HACK0, HACK1,
// HACK2, UNPROTECT). Matches are reported as types.Finding values and, in
// commit mode, rewritten immediately, so a check at a later offset sees bytes
// an earlier match already replaced.
//
// The package performs no I/O and never logs; pkg/patcher wraps it for files.
//
//	data, _ := os.ReadFile("1ST_READ.BIN")
//	opts := types.DefaultOptions()
//	opts.Hack3, opts.Write = true, true
//	report, err := patch.Apply(data, opts.Config())
package patch
