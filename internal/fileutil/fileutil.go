// Package fileutil provides file system utilities.
package fileutil

import (
	"io/fs"
	"os"
	"path/filepath"
)

// Exists checks if a path exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsDir checks if a path is a directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// IsFile checks if a path is a regular file.
func IsFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// EnsureDir creates a directory if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// WriteFile writes content to a file, creating parent directories as needed.
func WriteFile(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := EnsureDir(dir); err != nil {
		return err
	}
	return os.WriteFile(path, content, 0644)
}

// CopyFile copies a file.
func CopyFile(src, dst string) error {
	content, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return WriteFile(dst, content)
}

// CopyTree recursively copies src into dst, skipping directories whose
// basename appears in skipDirs. Symlinks and other non-regular files are
// ignored. The first error encountered stops the copy.
func CopyTree(src, dst string, skipDirs []string) error {
	skip := make(map[string]bool, len(skipDirs))
	for _, d := range skipDirs {
		skip[d] = true
	}

	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}

		if d.IsDir() {
			if rel != "." && skip[d.Name()] {
				return filepath.SkipDir
			}
			return EnsureDir(filepath.Join(dst, rel))
		}

		if !d.Type().IsRegular() {
			return nil
		}

		return CopyFile(path, filepath.Join(dst, rel))
	})
}

// Abs returns the absolute path.
func Abs(path string) (string, error) {
	return filepath.Abs(path)
}

// Rel returns the relative path.
func Rel(basepath, targpath string) (string, error) {
	return filepath.Rel(basepath, targpath)
}
