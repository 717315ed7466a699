package app

import (
	"errors"
	"fmt"
)

// ErrDeclined is returned when the user does not confirm the download.
var ErrDeclined = errors.New("download declined")

// ErrEmptyQuery is returned when no search term was supplied.
var ErrEmptyQuery = errors.New("empty search query")

// ExtractionError reports a page that did not contain what a stage expected.
// Stages themselves return empty values; the orchestrator decides which
// empties are fatal.
type ExtractionError struct {
	Stage  string
	URL    string
	Detail string
}

func (e *ExtractionError) Error() string {
	if e.URL != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Stage, e.Detail, e.URL)
	}
	return fmt.Sprintf("%s: %s", e.Stage, e.Detail)
}

// FileIOError wraps a failure to open or write the output file.
type FileIOError struct {
	Path string
	Err  error
}

func (e *FileIOError) Error() string {
	return fmt.Sprintf("output %s: %v", e.Path, e.Err)
}

func (e *FileIOError) Unwrap() error { return e.Err }
