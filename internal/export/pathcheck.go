// Package export serializes finished halves to binary STL files. Export
// paths are restricted the same way on every surface: files land directly
// in an allowed directory, never behind a symlink or a traversal.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"shellsmith/internal/config"
	"shellsmith/internal/errors"
)

// ValidatePath checks an export destination before anything is written:
// no ".." traversal, an .stl extension, the file directly in an allowed
// directory (no subdirectories), and no symlinks on the parent or the
// file itself.
//
// The "no subdirectories" rule eliminates TOCTOU races where an
// intermediate directory component is swapped for a symlink between
// validation and open. Combined with O_NOFOLLOW on the final component
// this gives complete symlink protection.
func ValidatePath(path string, cfg *config.Config) error {
	if path == "" {
		return errors.NewExport("export path is required")
	}

	if containsTraversal(path) {
		return errors.NewExport("export path must not contain directory traversal (..)")
	}

	cleaned := filepath.Clean(path)
	if filepath.Ext(cleaned) != ".stl" {
		return errors.NewExport("export path must have .stl extension")
	}

	absPath, err := filepath.Abs(cleaned)
	if err != nil {
		return errors.NewExport(fmt.Sprintf("invalid export path: %v", err))
	}

	// Unsafe mode skips the directory restriction, but never the symlink
	// checks: O_NOFOLLOW would reject at open time anyway.
	if cfg != nil && cfg.AllowUnsafePaths {
		return rejectSymlink(absPath)
	}

	allowedDirs, err := getAllowedDirs(cfg)
	if err != nil {
		return err
	}

	parentDir := filepath.Dir(absPath)
	if !isDirectlyInAllowedDir(parentDir, allowedDirs) {
		return errors.NewExport(fmt.Sprintf(
			"file must be directly in an allowed directory (no subdirectories); allowed: %v", allowedDirs))
	}

	if info, err := os.Lstat(parentDir); err == nil {
		if info.Mode()&os.ModeSymlink != 0 {
			return errors.NewExport("parent directory must not be a symlink")
		}
	}

	return rejectSymlink(absPath)
}

func rejectSymlink(absPath string) error {
	if info, err := os.Lstat(absPath); err == nil {
		if info.Mode()&os.ModeSymlink != 0 {
			return errors.NewExport("export path must not be a symlink")
		}
	}
	return nil
}

// getAllowedDirs returns the allowed export directories, absolute and
// cleaned. An allowed directory that is itself a symlink is resolved so
// destinations are matched against the real target.
func getAllowedDirs(cfg *config.Config) ([]string, error) {
	defaultDir, err := DefaultExportsDir()
	if err != nil {
		return nil, err
	}
	dirs := []string{defaultDir}

	if cfg != nil {
		for _, p := range cfg.AllowedPaths {
			if filepath.IsAbs(p) {
				dirs = append(dirs, filepath.Clean(p))
			}
		}
	}

	result := make([]string, 0, len(dirs))
	for _, d := range dirs {
		abs, err := filepath.Abs(filepath.Clean(d))
		if err != nil {
			return nil, errors.NewExport(fmt.Sprintf("invalid allowed path: %v", err))
		}
		if info, err := os.Lstat(abs); err == nil && info.Mode()&os.ModeSymlink != 0 {
			resolved, err := filepath.EvalSymlinks(abs)
			if err != nil {
				return nil, errors.NewExport(fmt.Sprintf("cannot resolve symlink in allowed path: %v", err))
			}
			abs = resolved
		}
		result = append(result, abs)
	}

	return result, nil
}

// isDirectlyInAllowedDir checks that parentDir exactly matches an allowed
// directory. Stricter than "is under": no subdirectories.
func isDirectlyInAllowedDir(parentDir string, allowedDirs []string) bool {
	parentDir = filepath.Clean(parentDir)
	for _, dir := range allowedDirs {
		if parentDir == filepath.Clean(dir) {
			return true
		}
	}
	return false
}

// DefaultExportsDir returns the default exports directory
// (~/.shellsmith/exports).
func DefaultExportsDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", errors.NewInternal(fmt.Errorf("failed to get home directory: %w", err))
	}
	return filepath.Join(homeDir, ".shellsmith", "exports"), nil
}

// containsTraversal checks whether any path component is "..".
func containsTraversal(path string) bool {
	for _, part := range strings.Split(path, string(filepath.Separator)) {
		if part == ".." {
			return true
		}
	}
	// Also check forward slashes on all platforms (user input).
	if filepath.Separator != '/' {
		for _, part := range strings.Split(path, "/") {
			if part == ".." {
				return true
			}
		}
	}
	return false
}

// SanitizeForFilename makes a body name safe for use as a file name.
func SanitizeForFilename(s string) string {
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, "..", "-")

	var result strings.Builder
	for _, r := range s {
		if r >= 32 && r != 127 {
			result.WriteRune(r)
		}
	}
	s = result.String()

	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	s = strings.Trim(s, "-")

	if s == "" {
		s = "unnamed"
	}
	return s
}
