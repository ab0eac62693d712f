package progress

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"nbacorpus/logger"
)

type recorder struct {
	statuses []string
	advances [][2]int
}

func (r *recorder) Status(msg string, sev Severity) {
	r.statuses = append(r.statuses, sev.String()+": "+msg)
}

func (r *recorder) Advance(current, total int) {
	r.advances = append(r.advances, [2]int{current, total})
}

func TestTracker(t *testing.T) {
	rec := &recorder{}
	tr := NewTracker(rec, 2)

	tr.Step()
	tr.Status("LeBron James", Info)
	tr.Step()
	tr.Step()

	require.Equal(t, [][2]int{{1, 2}, {2, 2}, {3, 3}}, rec.advances)
	require.Equal(t, []string{"info: LeBron James"}, rec.statuses)
	require.Equal(t, 3, tr.Current())
}

func TestTrackerStepTo(t *testing.T) {
	rec := &recorder{}
	tr := NewTracker(rec, 6)

	tr.Step()
	tr.StepTo(4)
	tr.StepTo(2)

	require.Equal(t, 4, tr.Current())
	require.Len(t, rec.advances, 4)
}

func TestNilTracker(t *testing.T) {
	var tr *Tracker
	tr.Step()
	tr.Status("ignored", Warning)
	require.Zero(t, tr.Total())
}

func TestMulti(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	m := Multi(a, nil, b)
	m.Status("done", Success)
	m.Advance(1, 1)

	require.Equal(t, a.statuses, b.statuses)
	require.Len(t, b.advances, 1)
	require.Equal(t, Nop, Multi())
	require.Equal(t, Observer(a), Multi(nil, a))
}

func TestLogObserver(t *testing.T) {
	var buf bytes.Buffer
	o := NewLog(logger.New(&buf, slog.LevelInfo))

	o.Status("skipping Joel Embiid", Warning)
	o.Status("saved", Success)

	out := buf.String()
	require.True(t, strings.Contains(out, "level=WARN"), out)
	require.True(t, strings.Contains(out, "severity=success"), out)
}
