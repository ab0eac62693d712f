// Package progress carries status messages and progress counts from batch
// work to whatever is displaying it.
package progress

import (
	"context"

	"nbacorpus/logger"
)

type Severity int

const (
	Info Severity = iota
	Success
	Warning
	Failure
)

func (s Severity) String() string {
	switch s {
	case Success:
		return "success"
	case Warning:
		return "warning"
	case Failure:
		return "error"
	default:
		return "info"
	}
}

// Observer receives status text and progress counts.
type Observer interface {
	Status(msg string, sev Severity)
	Advance(current, total int)
}

type nop struct{}

func (nop) Status(string, Severity) {}
func (nop) Advance(int, int)        {}

// Nop drops every update.
var Nop Observer = nop{}

type multi []Observer

func (m multi) Status(msg string, sev Severity) {
	for _, o := range m {
		o.Status(msg, sev)
	}
}

func (m multi) Advance(current, total int) {
	for _, o := range m {
		o.Advance(current, total)
	}
}

// Multi fans updates out to every non-nil observer.
func Multi(observers ...Observer) Observer {
	var m multi
	for _, o := range observers {
		if o != nil {
			m = append(m, o)
		}
	}
	if len(m) == 0 {
		return Nop
	}
	if len(m) == 1 {
		return m[0]
	}
	return m
}

// Log writes statuses to a logger at a level matching their severity.
type Log struct {
	log logger.Logger
}

func NewLog(l logger.Logger) *Log {
	if l == nil {
		l = logger.Nop()
	}
	return &Log{log: l}
}

func (o *Log) Status(msg string, sev Severity) {
	ctx := context.Background()
	switch sev {
	case Warning:
		o.log.Warn(ctx, msg)
	case Failure:
		o.log.Error(ctx, msg)
	default:
		o.log.Info(ctx, msg, logger.String("severity", sev.String()))
	}
}

func (o *Log) Advance(current, total int) {
	o.log.Debug(context.Background(), "progress", logger.Int("current", current), logger.Int("total", total))
}

// Tracker counts steps of one batch against a fixed total.
type Tracker struct {
	observer Observer
	current  int
	total    int
}

func NewTracker(o Observer, total int) *Tracker {
	if o == nil {
		o = Nop
	}
	return &Tracker{observer: o, total: total}
}

// Step records one finished unit of work.
func (t *Tracker) Step() {
	if t == nil {
		return
	}
	t.current++
	if t.total < t.current {
		t.total = t.current
	}
	t.observer.Advance(t.current, t.total)
}

func (t *Tracker) Status(msg string, sev Severity) {
	if t == nil {
		return
	}
	t.observer.Status(msg, sev)
}

func (t *Tracker) Current() int {
	if t == nil {
		return 0
	}
	return t.current
}

func (t *Tracker) Total() int {
	if t == nil {
		return 0
	}
	return t.total
}

// StepTo advances the tracker to n when a unit finished early.
func (t *Tracker) StepTo(n int) {
	if t == nil {
		return
	}
	for t.current < n {
		t.Step()
	}
}
