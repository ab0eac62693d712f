// Package season derives NBA season labels ("2024-25") from calendar dates.
package season

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// A new season is considered started from October onwards.
const startMonth = time.October

var labelRe = regexp.MustCompile(`^(\d{4})-(\d{2})$`)

// Current returns the season label in progress at t.
func Current(t time.Time) string {
	year := t.Year()
	if t.Month() >= startMonth {
		return label(year)
	}
	return label(year - 1)
}

// Previous returns the season before s, decrementing both year components.
func Previous(s string) (string, error) {
	start, err := StartYear(s)
	if err != nil {
		return "", err
	}
	return label(start - 1), nil
}

// StartYear returns the calendar year a season label starts in.
func StartYear(s string) (int, error) {
	m := labelRe.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSeason, s)
	}
	start, _ := strconv.Atoi(m[1])
	end, _ := strconv.Atoi(m[2])
	if (start+1)%100 != end {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSeason, s)
	}
	return start, nil
}

func Valid(s string) bool {
	_, err := StartYear(s)
	return err == nil
}

func label(start int) string {
	return fmt.Sprintf("%d-%02d", start, (start+1)%100)
}

// Clock is the time source for anything that needs "today".
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock reads the wall clock.
var SystemClock Clock = systemClock{}

// FixedClock always reports the same instant.
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }

// Resolver answers season questions relative to its clock.
type Resolver struct {
	clock Clock
}

func NewResolver(clock Clock) *Resolver {
	if clock == nil {
		clock = SystemClock
	}
	return &Resolver{clock: clock}
}

func (r *Resolver) Now() time.Time { return r.clock.Now() }

func (r *Resolver) Current() string { return Current(r.clock.Now()) }

// Recent returns the current and the previous season, newest first.
func (r *Resolver) Recent() []string {
	cur := r.Current()
	prev, _ := Previous(cur)
	return []string{cur, prev}
}
