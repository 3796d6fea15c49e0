package errors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidStationData = errors.New("invalid station data")
	ErrMissingField       = errors.New("missing field")
	ErrMalformedTimestamp = errors.New("malformed timestamp")
	ErrInvalidMember      = errors.New("invalid collection member")
	ErrExport             = errors.New("export failed")
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	ErrNegativeCount      = errors.New("negative stand or bike count")
	ErrEmptyGroupID       = errors.New("empty group id")
)

// MissingFieldError is returned when a raw record lacks a required key
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: %q", ErrMissingField, e.Field)
}

func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField || target == ErrInvalidStationData
}

// MalformedTimestampError is returned when a last update value does not follow
// the YYYY-MM-DD HH:MM:SS layout
type MalformedTimestampError struct {
	Value any
	Err   error
}

func (e *MalformedTimestampError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", ErrMalformedTimestamp, e.Value)
	}
	return fmt.Sprintf("%s: %v: %s", ErrMalformedTimestamp, e.Value, e.Err)
}

func (e *MalformedTimestampError) Is(target error) bool {
	return target == ErrMalformedTimestamp || target == ErrInvalidStationData
}

func (e *MalformedTimestampError) Unwrap() error {
	return e.Err
}

// InvalidMemberError is returned when something other than a station is added to a collection
type InvalidMemberError struct {
	Value any
}

func (e *InvalidMemberError) Error() string {
	return fmt.Sprintf("%s: got %T, want station.Station", ErrInvalidMember, e.Value)
}

func (e *InvalidMemberError) Is(target error) bool {
	return target == ErrInvalidMember
}

// ExportKind tells which step of an export failed
type ExportKind string

const (
	ExportKindSerialization ExportKind = "serialization"
	ExportKindIO            ExportKind = "io"
)

// ExportError describes a failed JSON or file export
// + Path: target file or directory, empty for in-memory serialization
// + Kind: step that failed
// + Err: underlying cause
type ExportError struct {
	Path string
	Kind ExportKind
	Err  error
}

func (e *ExportError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s [%s]: %s", ErrExport, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s [%s] %s: %s", ErrExport, e.Kind, e.Path, e.Err)
}

func (e *ExportError) Is(target error) bool {
	return target == ErrExport
}

func (e *ExportError) Unwrap() error {
	return e.Err
}
