package roster

import "errors"

var (
	ErrEmptyRoster   = errors.New("roster is empty")
	ErrInvalidEntity = errors.New("invalid roster entity")
)
