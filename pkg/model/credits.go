package model

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseCredits splits a "T+L" credits string into theory and lab hours. A string without "+" is all theory;
// anything after a second "+" is ignored.
//
// When the string cannot be parsed the whole hours value is attributed to the course type and
// ErrMalformedCredits is returned together with that fallback, so callers may ignore the error.
func ParseCredits(credits string, hours int, courseType SessionType) (theory, lab int, err error) {
	parts := strings.Split(credits, "+")
	values := make([]int, 2)
	for i, part := range parts[:min(len(parts), 2)] {
		values[i], err = strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			break
		}
	}
	if err == nil {
		return values[0], values[1], nil
	}

	if courseType == Lab {
		return 0, hours, fmt.Errorf("%w: \"%v\"", ErrMalformedCredits, credits)
	}
	return hours, 0, fmt.Errorf("%w: \"%v\"", ErrMalformedCredits, credits)
}
