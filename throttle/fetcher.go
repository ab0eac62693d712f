// Package throttle wraps remote calls in a rate-limited unit of work whose
// failure is returned as a value instead of aborting the batch around it.
package throttle

import (
	"context"
	"fmt"

	"nbacorpus/logger"
	"nbacorpus/progress"
	"nbacorpus/table"
)

// Call is one remote request producing tabular rows.
type Call func(ctx context.Context) (*table.Table, error)

// Result is the outcome of one unit of work. Err is a *FetchFailure when set.
type Result struct {
	Label string
	Rows  *table.Table
	Err   error
}

func (r Result) OK() bool { return r.Err == nil }

// Empty reports whether the unit produced no rows, failed or not.
func (r Result) Empty() bool { return r.Rows.Empty() }

func Fail(label string, err error) Result {
	return Result{Label: label, Err: &FetchFailure{Label: label, Err: err}}
}

type Fetcher struct {
	gate Gate
	log  logger.Logger
}

func NewFetcher(gate Gate, log logger.Logger) *Fetcher {
	if gate == nil {
		gate = NoDelay
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Fetcher{gate: gate, log: log}
}

// Do runs call once, reports it to tr as one step and then waits on the gate.
// Errors and panics from call come back in the Result.
func (f *Fetcher) Do(ctx context.Context, tr *progress.Tracker, label string, call Call) Result {
	tr.Status(label, progress.Info)

	rows, err := invoke(ctx, call)
	tr.Step()

	if waitErr := f.gate.Wait(ctx); waitErr != nil && err == nil {
		f.log.Debug(ctx, "throttle wait interrupted", logger.String("label", label), logger.Error(waitErr))
	}

	if err != nil {
		f.log.Warn(ctx, "fetch failed", logger.String("label", label), logger.Error(err))
		tr.Status(fmt.Sprintf("%s failed: %v", label, err), progress.Warning)
		return Fail(label, err)
	}
	if rows == nil {
		rows = table.New()
	}
	return Result{Label: label, Rows: rows}
}

func invoke(ctx context.Context, call Call) (rows *table.Table, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return call(ctx)
}
