package nba

import (
	"errors"
	"fmt"
)

var ErrMalformedResponse = errors.New("malformed stats response")

// StatusError is a non-2xx answer from stats.nba.com.
type StatusError struct {
	Endpoint   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.Endpoint, e.StatusCode)
}
