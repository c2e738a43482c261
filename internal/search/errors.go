package search

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyQuery rejects a request with nothing to search for
	ErrEmptyQuery = errors.New("search query is empty")
	// ErrNotDirectory rejects a request whose start path is not a directory
	ErrNotDirectory = errors.New("start path is not a directory")
)

// ErrorKind classifies the failures that abort a run
type ErrorKind int

const (
	// ErrNotFound covers paths that vanished or could not be accessed during enumeration
	ErrNotFound ErrorKind = iota + 1
	// ErrScanIO covers files that could not be opened or read while scanning contents
	ErrScanIO
)

func (k ErrorKind) String() string {
	switch k {
	case ErrNotFound:
		return "cannot access"
	case ErrScanIO:
		return "cannot read"
	}
	return "error"
}

// RunError is the single error a failed run reports
type RunError struct {
	Kind ErrorKind
	Path string
	Err  error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Kind, e.Path, e.Err)
}

func (e *RunError) Unwrap() error {
	return e.Err
}

// Message is the one-line text shown to the user when a run fails
func (e *RunError) Message() string {
	return e.Error() + " -- search stopped"
}
