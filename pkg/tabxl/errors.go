package tabxl

import (
	"errors"
	"fmt"

	"github.com/ukaji3/tabxl-go/pkg/tabxl/errs"
)

// Messages of the two errors below are shown to users verbatim, so they keep
// sentence case and the final period.
var (
	// ErrFileNameEmpty indicates a blank file name.
	//lint:ignore ST1005 user-facing message
	ErrFileNameEmpty = errors.New("File name cannot be null or empty.")

	// ErrDataSourceNotSet indicates a save without a data source.
	//lint:ignore ST1005 user-facing message
	ErrDataSourceNotSet = errors.New("Data source is not set.")
)

// ErrInvalidExtension indicates a file name outside ValidExtensions.
var ErrInvalidExtension = errors.New("invalid file extension")

// Errors of the codec packages, re-exported for callers of this package.
var (
	ErrInvalidInput          = errs.ErrInvalidInput
	ErrUnsupportedSourceKind = errs.ErrUnsupportedSourceKind
	ErrSchemaResolution      = errs.ErrSchemaResolution
	ErrSerialization         = errs.ErrSerialization
	ErrFileFormat            = errs.ErrFileFormat
	ErrNotFound              = errs.ErrNotFound
)

// ExtensionError names a rejected file extension.
type ExtensionError struct {
	Extension string
}

func (e *ExtensionError) Error() string {
	return fmt.Sprintf("File extension %s is not recognized as valid.", e.Extension)
}

// Is makes errors.Is(err, ErrInvalidExtension) hold.
func (e *ExtensionError) Is(target error) bool {
	return target == ErrInvalidExtension
}

// Error represents a failed file operation.
type Error struct {
	Op   string // "save", "load"
	Name string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Name, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new Error.
func NewError(op, name string, err error) *Error {
	return &Error{
		Op:   op,
		Name: name,
		Err:  err,
	}
}
