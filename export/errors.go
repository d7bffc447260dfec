package export

import (
	"errors"
	"fmt"
)

// ErrMissingData is returned when no dashboard data was supplied at all; no
// partial export is attempted.
var ErrMissingData = errors.New("no dashboard data available to export")

// ErrUnsupportedFormat is returned before any encoding work begins when the
// requested format string matches no known encoder.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// EncodingError wraps a failure inside one encoder, keeping the format name
// for the user-facing notification.
type EncodingError struct {
	Format string
	Err    error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("encoding %s export failed: %v", e.Format, e.Err)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}
