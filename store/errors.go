package store

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrInvalidKey = errors.New("invalid key")
)

// CacheReadFailure means a cached artifact exists but could not be parsed.
type CacheReadFailure struct {
	Key string
	Err error
}

func (e *CacheReadFailure) Error() string {
	return fmt.Sprintf("read cache %s: %v", e.Key, e.Err)
}

func (e *CacheReadFailure) Unwrap() error { return e.Err }
