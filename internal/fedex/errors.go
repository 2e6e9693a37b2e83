package fedex

import "github.com/pkg/errors"

var (
	// ErrMalformedRateReply marks a response whose shape does not match the
	// rate reply schema, as opposed to a carrier-reported failure.
	ErrMalformedRateReply = errors.New("malformed rate reply")

	// ErrUnknownFaultFormat means a failure response carried no message in
	// any of the recognized places.
	ErrUnknownFaultFormat = errors.New("unknown error format")
)

// RateError is returned for every response the carrier did not mark as
// successful. Message is meant for display.
type RateError struct {
	Message string
	Err     error
}

func (e *RateError) Error() string { return e.Message }

func (e *RateError) Unwrap() error { return e.Err }
