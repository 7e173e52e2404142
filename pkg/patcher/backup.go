package patcher

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// BackupSuffix is appended to a target path to name its backup.
const BackupSuffix = ".bak"

// ErrNoBackup is returned when a target has no usable backup.
var ErrNoBackup = errors.New("patcher: backup file not found")

// BackupPath returns the backup location for path.
func BackupPath(path string) string { return path + BackupSuffix }

// ValidateBackup checks that path has a regular, non-empty backup file.
func ValidateBackup(path string) error {
	backupPath := BackupPath(path)

	info, err := os.Stat(backupPath)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s: %w", backupPath, ErrNoBackup)
	}
	if err != nil {
		return fmt.Errorf("failed to stat backup: %w", err)
	}

	if !info.Mode().IsRegular() {
		return fmt.Errorf("backup is not a regular file: %s", backupPath)
	}
	if info.Size() == 0 {
		return fmt.Errorf("backup file is empty: %s", backupPath)
	}

	return nil
}

// RestoreBackup copies the backup of path over path. The backup is kept
// unless remove is set.
func RestoreBackup(path string, remove bool) error {
	if err := ValidateBackup(path); err != nil {
		return err
	}

	backupPath := BackupPath(path)
	if err := copyFile(backupPath, path); err != nil {
		return fmt.Errorf("failed to restore from backup: %w", err)
	}
	if remove {
		if err := os.Remove(backupPath); err != nil {
			return fmt.Errorf("failed to remove backup: %w", err)
		}
	}
	return nil
}
