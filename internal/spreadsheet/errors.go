package spreadsheet

import (
	"errors"
	"fmt"
)

// ErrValidation matches every error that rejects a file before parsing.
var ErrValidation = errors.New("spreadsheet validation failed")

type MissingColumnError struct {
	Sheet  string
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("sheet %q is missing required column %s", e.Sheet, e.Column)
}

func (e *MissingColumnError) Is(target error) bool { return target == ErrValidation }

type EmptyFileError struct {
	Sheet string
}

func (e *EmptyFileError) Error() string {
	if e.Sheet == "" {
		return "workbook has no diet sheets"
	}
	return fmt.Sprintf("sheet %q has no data rows", e.Sheet)
}

func (e *EmptyFileError) Is(target error) bool { return target == ErrValidation }

type UnsupportedTypeError struct {
	MimeType string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported file type %q, expected an Excel workbook", e.MimeType)
}

func (e *UnsupportedTypeError) Is(target error) bool { return target == ErrValidation }

// ReadError is returned when the bytes cannot be opened as a workbook.
type ReadError struct {
	Err error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("file could not be read as a spreadsheet: %v", e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

func (e *ReadError) Is(target error) bool { return target == ErrValidation }

// ParseError reports a problem found after the layout was accepted.
// Row is 1-based as shown in spreadsheet software; zero means the whole workbook.
type ParseError struct {
	Sheet  string
	Row    int
	Reason string
}

func (e *ParseError) Error() string {
	switch {
	case e.Sheet == "":
		return "parse error: " + e.Reason
	case e.Row == 0:
		return fmt.Sprintf("parse error in sheet %q: %s", e.Sheet, e.Reason)
	}
	return fmt.Sprintf("parse error in sheet %q row %d: %s", e.Sheet, e.Row, e.Reason)
}
