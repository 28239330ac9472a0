package csv2xlsx

import (
	"errors"
	"fmt"
)

// ErrNotDirectory indicates the input path is missing or not a directory.
var ErrNotDirectory = errors.New("not a directory")

// ErrNoInputFiles indicates the input directory holds no CSV files.
var ErrNoInputFiles = errors.New("no CSV files found")

// FileError represents a failure while converting one input file. It never
// aborts a run; the affected sheet is kept as far as it was written.
type FileError struct {
	Path  string
	Sheet string
	Stage string // "create sheet", "open", "read", "write"
	Err   error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("failed to process %s (%s): %v", e.Path, e.Stage, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// NewFileError creates a new FileError.
func NewFileError(path, sheet, stage string, err error) *FileError {
	return &FileError{
		Path:  path,
		Sheet: sheet,
		Stage: stage,
		Err:   err,
	}
}
