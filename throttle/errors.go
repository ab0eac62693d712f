package throttle

import "fmt"

// FetchFailure is a remote call that raised. It wraps the cause.
type FetchFailure struct {
	Label string
	Err   error
}

func (e *FetchFailure) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Label, e.Err)
}

func (e *FetchFailure) Unwrap() error { return e.Err }
