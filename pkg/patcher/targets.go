package patcher

import (
	"errors"
	"fmt"
	"os"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrNoTargets is returned when no pattern resolves to an existing file.
var ErrNoTargets = errors.New("patcher: no valid target files found")

// ExpandTargets resolves glob patterns to existing regular files. Results
// keep first-seen order without duplicates.
func ExpandTargets(patterns []string) ([]string, error) {
	var candidates []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("expand %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			candidates = append(candidates, pattern)
			continue
		}
		candidates = append(candidates, matches...)
	}

	seen := make(map[string]struct{}, len(candidates))
	var files []string
	for _, c := range candidates {
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		if fileExists(c) {
			files = append(files, c)
		}
	}

	if len(files) == 0 {
		return nil, ErrNoTargets
	}
	return files, nil
}

// fileExists checks if a file exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}
