package loader

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat matches every *FormatError.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrLoadFailure matches every *LoadError.
	ErrLoadFailure = errors.New("failed to load file")

	// ErrNoColumns is returned for inputs without a header row.
	ErrNoColumns = errors.New("no columns to parse from file")
)

// FormatError reports an upload whose suffix is not one of the supported
// formats.
type FormatError struct {
	FileName string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("unsupported file format: %s", e.FileName)
}

func (e *FormatError) Is(target error) bool {
	return target == ErrUnsupportedFormat
}

// LoadError reports a file whose chosen parse path failed. Error returns the
// underlying message unchanged.
type LoadError struct {
	FileName string
	Format   string // csv, txt, xlsx or xls
	Err      error
}

func (e *LoadError) Error() string {
	return e.Err.Error()
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

func (e *LoadError) Is(target error) bool {
	return target == ErrLoadFailure
}

// FieldCountError reports a data row with more fields than the header.
type FieldCountError struct {
	Line     int
	Expected int
	Got      int
}

func (e *FieldCountError) Error() string {
	return fmt.Sprintf("expected %d fields in line %d, saw %d", e.Expected, e.Line, e.Got)
}
