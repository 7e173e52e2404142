package patcher

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/joshuapare/cdikit/internal/logger"
	"github.com/joshuapare/cdikit/internal/mmfile"
	"github.com/joshuapare/cdikit/patch"
	"github.com/joshuapare/cdikit/pkg/types"
)

// PatchFile scans a single file with cfg.
//
// In preview mode the file is mapped read-only and never modified. In commit
// mode an owned copy is scanned and, if any finding was applied, written back
// through the configured writer (atomic temp file + rename by default).
//
// A Config with no variants returns types.ErrNoOpConfiguration without
// touching the file.
func PatchFile(path string, cfg types.Config, opts *Options) (*FileResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := logger.WithFile(path)
	log.Info("processing")

	if !cfg.Commit {
		return previewFile(path, cfg, log)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read file %s: %w", path, err)
	}

	report, err := patch.Apply(data, cfg)
	if err != nil {
		return nil, fmt.Errorf("patch %s: %w", path, err)
	}
	logFindings(log, report)

	res := &FileResult{Path: path, Size: len(data), Report: report}
	if !report.Applied() {
		log.Info("finished, nothing to write")
		return res, nil
	}

	if opts != nil && opts.CreateBackup {
		backupPath := BackupPath(path)
		if err := copyFile(path, backupPath); err != nil {
			return res, fmt.Errorf("failed to create backup at %s: %w", backupPath, err)
		}
		res.Backup = backupPath
	}

	if err := opts.writerFor(path).WriteImage(data); err != nil {
		return res, fmt.Errorf("cannot write file %s: %w", path, err)
	}
	res.Written = true
	log.WithField("findings", len(report.Findings)).Info("successfully patched")

	return res, nil
}

func previewFile(path string, cfg types.Config, log *logrus.Entry) (*FileResult, error) {
	data, cleanup, err := mmfile.Map(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read file %s: %w", path, err)
	}
	defer func() {
		if cerr := cleanup(); cerr != nil {
			log.WithError(cerr).Warn("unmap failed")
		}
	}()

	var report types.Report
	if ferr := mmfile.Guard(func() { report, err = patch.Apply(data, cfg) }); ferr != nil {
		return nil, fmt.Errorf("cannot read file %s: %w", path, ferr)
	}
	if err != nil {
		return nil, fmt.Errorf("patch %s: %w", path, err)
	}
	logFindings(log, report)
	log.Info("finished")

	return &FileResult{Path: path, Size: len(data), Report: report}, nil
}

func logFindings(log *logrus.Entry, report types.Report) {
	for _, f := range report.Findings {
		entry := log.WithFields(logrus.Fields{
			"offset":  fmt.Sprintf("0x%x", f.Offset),
			"variant": f.Variant.String(),
		})
		entry.Infof("found %s (%s)", f.Variant, f.Variant.Describe())
		if f.Applied {
			entry.Debugf("applied %s patch", f.Variant)
		} else {
			entry.Debugf("would apply %s patch (use --write to write)", f.Variant)
		}
	}
}

// PatchFiles expands patterns and patches each resulting file in order.
// Errors that stop the whole run (no-op config, bad pattern, no targets) are
// returned directly; per-file failures are logged and recorded on the
// corresponding FileResult.
func PatchFiles(patterns []string, cfg types.Config, opts *Options) ([]*FileResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	targets, err := ExpandTargets(patterns)
	if err != nil {
		return nil, err
	}

	results := make([]*FileResult, 0, len(targets))
	for _, path := range targets {
		res, err := PatchFile(path, cfg, opts)
		if res == nil {
			res = &FileResult{Path: path}
		}
		if err != nil {
			logger.WithFile(path).WithError(err).Error("error processing file")
			res.Err = err
		}
		results = append(results, res)
	}

	logger.L.WithField("files", len(results)).Info("processing complete")
	return results, nil
}
