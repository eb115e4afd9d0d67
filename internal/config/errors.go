package config

import (
	"errors"
	"fmt"
)

var (
	// ErrFileNotFound is returned by Load when the file does not exist.
	ErrFileNotFound = errors.New("config file not found")

	// ErrValidationFailed matches every *SettingError.
	ErrValidationFailed = errors.New("validation failed")
)

// ParseError is a TOML syntax or type error. Line and Column are 1-based
// and zero when the decoder did not report a position.
type ParseError struct {
	Path   string
	Line   int
	Column int
	Err    error
}

// Error formats the error as path:line:column: message.
func (e *ParseError) Error() string {
	switch {
	case e.Line > 0 && e.Column > 0:
		return fmt.Sprintf("%s:%d:%d: %v", e.Path, e.Line, e.Column, e.Err)
	case e.Line > 0:
		return fmt.Sprintf("%s:%d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// SettingError rejects one [manager] or [log] value.
type SettingError struct {
	// Setting is the dotted path, e.g. "manager.release_timeout".
	Setting string
	Value   string
	Err     error
}

func (e *SettingError) Error() string {
	return fmt.Sprintf("invalid %s %q: %v", e.Setting, e.Value, e.Err)
}

func (e *SettingError) Unwrap() error { return e.Err }

// Is matches ErrValidationFailed.
func (e *SettingError) Is(target error) bool {
	return target == ErrValidationFailed
}
