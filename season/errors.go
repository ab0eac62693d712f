package season

import "errors"

var (
	ErrInvalidSeason     = errors.New("invalid season")
	ErrInvalidSeasonType = errors.New("invalid season type")
)
