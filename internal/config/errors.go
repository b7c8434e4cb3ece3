package config

import (
	"errors"
	"fmt"
	"io/fs"
)

// Error represents a configuration error: a missing, unreadable or invalid settings or workspace file.
type Error struct {
	Path    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	prefix := "config error"
	if e.Path != "" {
		prefix = fmt.Sprintf("config error in %s", e.Path)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
