// Package types defines the shared vocabulary of cdikit: patch
// configuration, the rules derived from it, and the findings a scan reports.
//
// Design goals:
//   - Plain values that are cheap to copy and safe to compare.
//   - No I/O; every type here describes data already in memory.
//   - Typed errors with stable categories so callers can branch on intent.
//
// This package has no dependencies beyond the standard library.
package types
