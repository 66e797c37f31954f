// Package fileutil provides small file and directory helpers shared by the
// pipeline and the CLI.
package fileutil

import (
	"fmt"
	"os"
)

// File permission constants.
const (
	DirPerm  = 0o750 // rwxr-x---: owner full, group read+execute
	FilePerm = 0o644 // rw-r--r--: owner read+write, others read
)

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// EnsureDir creates the directory and any missing parents.
func EnsureDir(path string) error {
	if err := os.MkdirAll(path, DirPerm); err != nil {
		return fmt.Errorf("creating directory %s: %w", path, err)
	}
	return nil
}

// WriteFile writes content to path with the default file permissions.
func WriteFile(path, content string) error {
	// #nosec G306 -- rendered artifacts and temp inputs are meant to be readable
	if err := os.WriteFile(path, []byte(content), FilePerm); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
