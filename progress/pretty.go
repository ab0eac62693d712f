package progress

import (
	"io"
	"sync"
	"time"

	gp "github.com/jedib0t/go-pretty/v6/progress"
)

// Pretty renders progress bars and status lines on a terminal.
type Pretty struct {
	mu      sync.Mutex
	writer  gp.Writer
	tracker *gp.Tracker
	title   string
}

func NewPretty(out io.Writer, title string) *Pretty {
	pw := gp.NewWriter()
	pw.SetOutputWriter(out)
	pw.SetAutoStop(false)
	pw.SetTrackerLength(30)
	pw.SetUpdateFrequency(100 * time.Millisecond)
	pw.SetStyle(gp.StyleDefault)
	pw.Style().Visibility.ETA = true
	pw.Style().Visibility.Value = true
	go pw.Render()
	return &Pretty{writer: pw, title: title}
}

func (p *Pretty) Status(msg string, sev Severity) {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch sev {
	case Warning:
		p.writer.Log("warning: %s", msg)
	case Failure:
		p.writer.Log("error: %s", msg)
	default:
		p.writer.Log("%s", msg)
	}
}

func (p *Pretty) Advance(current, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.tracker == nil || p.tracker.IsDone() {
		p.tracker = &gp.Tracker{Message: p.title, Total: int64(total)}
		p.writer.AppendTracker(p.tracker)
	}
	p.tracker.UpdateTotal(int64(total))
	p.tracker.SetValue(int64(current))
	if current >= total {
		p.tracker.MarkAsDone()
	}
}

// Stop flushes the last frame and stops rendering.
func (p *Pretty) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.tracker != nil && !p.tracker.IsDone() {
		p.tracker.MarkAsDone()
	}
	deadline := time.Now().Add(time.Second)
	for p.writer.IsRenderInProgress() && p.writer.LengthActive() > 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	p.writer.Stop()
}
