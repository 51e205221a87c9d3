package macho

import (
	"errors"
	"fmt"
)

var (
	// ErrTruncatedRead is returned when fewer bytes are available at an offset
	// than the structure stored there needs.
	ErrTruncatedRead = errors.New("truncated read")
	// ErrUnrecognizedMagic is returned when the 4 bytes at a classification point
	// are not one of the thin or fat Mach-O magic numbers.
	ErrUnrecognizedMagic = errors.New("unrecognized magic")
	// ErrMalformedLoadCommand is returned for a load command smaller than its own
	// header, or when the command sizes do not add up to the header's total.
	ErrMalformedLoadCommand = errors.New("malformed load command")
	// ErrMalformedFatHeader is returned when a fat header declares more than
	// maxFatArches slices.
	ErrMalformedFatHeader = errors.New("malformed fat header")
)

// FormatError describes a decode failure at an absolute file offset.
// Err is one of the sentinel errors above.
type FormatError struct {
	Off int64
	Msg string
	Err error
}

func (e *FormatError) Error() string {
	msg := e.Err.Error()
	if e.Msg != "" {
		msg += ": " + e.Msg
	}
	return msg + fmt.Sprintf(" at offset %#x", e.Off)
}

func (e *FormatError) Unwrap() error { return e.Err }
