package domain

import "errors"

var (
	// ErrLoadFailure is returned when questions could not be fetched.
	ErrLoadFailure = errors.New("failed to load questions")
	// ErrSubmitFailure is returned when a submission could not be scored.
	ErrSubmitFailure = errors.New("failed to submit quiz")
	// ErrValidation marks a malformed submission payload.
	ErrValidation = errors.New("invalid submission")
)

// ValidationError describes why a submission payload was rejected.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
