package model

import "errors"

var (
	// ErrInvalidInput is returned when the scheduling input is empty or cannot be interpreted
	ErrInvalidInput = errors.New("invalid input")

	// ErrMalformedCredits is a soft error: the credits string could not be parsed and the hours-based fallback was used
	ErrMalformedCredits = errors.New("malformed credits")
)
