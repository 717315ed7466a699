package app

import (
	"os"
	"path/filepath"
	"strings"
)

var fileNameReplacer = strings.NewReplacer(
	"/", "_", `\`, "_", ":", "_", "*", "_", "?", "_",
	`"`, "_", "<", "_", ">", "_", "|", "_", "\x00", "_",
)

// outputPath returns <dir>/<title>.txt with path separators and characters
// reserved on common filesystems replaced.
func outputPath(dir, title string) string {
	name := strings.TrimSpace(fileNameReplacer.Replace(title))
	if name == "" || name == "." || name == ".." {
		name = "untitled"
	}
	return filepath.Join(dir, name+".txt")
}

// openOutput opens the artifact for appending, creating it when missing.
// Existing content is kept.
func openOutput(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, &FileIOError{Path: path, Err: err}
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return nil, &FileIOError{Path: path, Err: err}
	}
	return f, nil
}
