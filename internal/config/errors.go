package config

import (
	"errors"
	"fmt"
)

// Errors returned by configuration operations.
var (
	// ErrSettingNotFound indicates the setting path doesn't exist.
	ErrSettingNotFound = errors.New("setting not found")

	// ErrTypeMismatch indicates the value type doesn't match the expected type.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrFileNotFound indicates the configuration file doesn't exist.
	ErrFileNotFound = errors.New("config file not found")

	// ErrInvalidPath indicates an invalid setting path format.
	ErrInvalidPath = errors.New("invalid setting path")

	// ErrInvalidRule indicates a rule that cannot be built.
	ErrInvalidRule = errors.New("invalid rule")

	// ErrNoScripts indicates a rule names a script function but no
	// scripts are loaded.
	ErrNoScripts = errors.New("no scripts loaded")
)

// RuleError locates a rule that failed to build.
type RuleError struct {
	Language string
	// Section and Rule are zero-based indexes.
	Section int
	Rule    int
	Err     error
}

// Error implements the error interface.
func (e *RuleError) Error() string {
	return fmt.Sprintf("languages.%s.sections[%d].rules[%d]: %v", e.Language, e.Section, e.Rule, e.Err)
}

// Unwrap returns the underlying error.
func (e *RuleError) Unwrap() error {
	return e.Err
}

// TypeError is returned when a type conversion fails.
type TypeError struct {
	// Path is the setting path.
	Path string
	// Expected is the expected type name.
	Expected string
	// Actual is the actual type name.
	Actual string
}

// Error implements the error interface.
func (e *TypeError) Error() string {
	return fmt.Sprintf("type error for %s: expected %s, got %s", e.Path, e.Expected, e.Actual)
}

// Is implements error matching for TypeError.
func (e *TypeError) Is(target error) bool {
	return target == ErrTypeMismatch
}
