package content

import (
	"errors"
	"fmt"
)

// Content errors. They reject a folder selection; the session does not advance.
var (
	ErrMissingHotspotFile = errors.New("missing hotspot file")
	ErrImageRead          = errors.New("images could not be read")
	ErrCountMismatch      = errors.New("image count does not match hotspot record count")
	ErrMalformedRecord    = errors.New("malformed hotspot record")
	ErrInvalidFolder      = errors.New("invalid content folder")
)

// Error carries the folder a content error was found in.
type Error struct {
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
