package buffer

import (
	"errors"
	"fmt"
)

var (
	// ErrNoFileName is returned by Save when the buffer has no associated path.
	ErrNoFileName = errors.New("no file name")

	// ErrInvalidUTF8 is wrapped in a LoadError when the file is not valid text.
	ErrInvalidUTF8 = errors.New("file is not valid UTF-8")
)

// LoadError reports a file that could not be read into a buffer.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// SaveError reports a failed write. The buffer contents are left untouched.
type SaveError struct {
	Path string
	Err  error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("save %s: %v", e.Path, e.Err)
}

func (e *SaveError) Unwrap() error {
	return e.Err
}
