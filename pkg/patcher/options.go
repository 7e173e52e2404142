package patcher

import (
	"github.com/joshuapare/cdikit/internal/writer"
	"github.com/joshuapare/cdikit/pkg/types"
)

// Options controls how patched files are persisted.
type Options struct {
	// CreateBackup copies the original to BackupPath(path) before it is
	// replaced.
	CreateBackup bool

	// NewWriter returns the sink for a patched file. Nil writes back to path
	// atomically.
	NewWriter func(path string) writer.ImageWriter
}

func (o *Options) writerFor(path string) writer.ImageWriter {
	if o != nil && o.NewWriter != nil {
		return o.NewWriter(path)
	}
	return &writer.FileWriter{Path: path}
}

// FileResult describes the outcome for one target file.
type FileResult struct {
	Path   string
	Size   int
	Report types.Report

	// Written is true when the patched bytes were persisted.
	Written bool
	// Backup is the backup path, if one was created.
	Backup string

	// Err is set by PatchFiles when this file failed.
	Err error
}
