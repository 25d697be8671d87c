// Package errs defines the error taxonomy shared by the tabxl codec packages.
package errs

import (
	"errors"
	"fmt"
)

// ErrInvalidInput indicates a missing or nil caller-supplied value.
var ErrInvalidInput = errors.New("invalid input")

// ErrUnsupportedSourceKind indicates a data source that is neither a table, a table set
// nor a record sequence.
var ErrUnsupportedSourceKind = errors.New("unsupported data source type")

// ErrSchemaResolution indicates a shape with no readable columns.
var ErrSchemaResolution = errors.New("schema resolution failed")

// ErrSerialization indicates a failure while encoding a workbook.
var ErrSerialization = errors.New("serialization failed")

// ErrFileFormat indicates bytes that are not a recognized spreadsheet container.
var ErrFileFormat = errors.New("unrecognized spreadsheet format")

// ErrNotFound indicates the referenced spreadsheet does not exist.
var ErrNotFound = errors.New("file not found")

// UnsupportedSourceError reports the Go type of a rejected data source.
type UnsupportedSourceError struct {
	Type string
}

func (e *UnsupportedSourceError) Error() string {
	return fmt.Sprintf("%v %s. Data source must be a table, a table set, or a record sequence", ErrUnsupportedSourceKind, e.Type)
}

func (e *UnsupportedSourceError) Unwrap() error {
	return ErrUnsupportedSourceKind
}

// SchemaError reports why a shape could not be resolved into columns.
type SchemaError struct {
	Shape  string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%v for %s: %s", ErrSchemaResolution, e.Shape, e.Reason)
}

func (e *SchemaError) Unwrap() error {
	return ErrSchemaResolution
}

// SerializationError wraps the cause of a failed workbook write.
type SerializationError struct {
	Sheet string
	Cell  string // empty for sheet- or workbook-level failures
	Err   error
}

func (e *SerializationError) Error() string {
	switch {
	case e.Sheet == "":
		return fmt.Sprintf("%v: %v", ErrSerialization, e.Err)
	case e.Cell == "":
		return fmt.Sprintf("%v in sheet %q: %v", ErrSerialization, e.Sheet, e.Err)
	}
	return fmt.Sprintf("%v in sheet %q at %s: %v", ErrSerialization, e.Sheet, e.Cell, e.Err)
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrSerialization) hold while Unwrap still exposes the cause.
func (e *SerializationError) Is(target error) bool {
	return target == ErrSerialization
}

// NewSerializationError creates a new SerializationError.
func NewSerializationError(sheet, cell string, err error) *SerializationError {
	return &SerializationError{
		Sheet: sheet,
		Cell:  cell,
		Err:   err,
	}
}

// FileFormatError wraps the decoder failure for an unreadable container.
type FileFormatError struct {
	Name string // container name, "" when reading from memory
	Err  error
}

func (e *FileFormatError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("%v: %v", ErrFileFormat, e.Err)
	}
	return fmt.Sprintf("%v %s: %v", ErrFileFormat, e.Name, e.Err)
}

func (e *FileFormatError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrFileFormat) hold while Unwrap still exposes the cause.
func (e *FileFormatError) Is(target error) bool {
	return target == ErrFileFormat
}
