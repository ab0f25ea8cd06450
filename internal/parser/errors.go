package parser

import "fmt"

// UnrecognizedFormatError is returned when a file has neither the raw payload
// signature nor a readable archive wrapper. The file is unusable; the caller
// skips it and continues with the remaining files.
type UnrecognizedFormatError struct {
	Filename string
}

func (e *UnrecognizedFormatError) Error() string {
	return fmt.Sprintf("unrecognized portfolio file format: %s", e.Filename)
}

// MalformedRecordError is returned when the payload carries the right
// signature but the record tree inside is truncated or corrupt.
type MalformedRecordError struct {
	Filename string
	Reason   string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record in %s: %s", e.Filename, e.Reason)
}
