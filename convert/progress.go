package convert

import (
	"sync"
)

// Reporter receives coarse progress from a conversion. Report is called
// at most once per source track and must not block for long.
type Reporter interface {
	Report(fraction float64, message string)
}

// ReporterFunc adapts a function to Reporter
type ReporterFunc func(fraction float64, message string)

func (f ReporterFunc) Report(fraction float64, message string) { f(fraction, message) }

type nopReporter struct{}

func (nopReporter) Report(float64, string) {}

// Snapshot is the latest state held by Progress
type Snapshot struct {
	Fraction float64
	Message  string
	Reports  int
}

// Progress is a Reporter that keeps the latest report for readers on
// other goroutines. One writer (the conversion worker), any number of
// readers.
type Progress struct {
	mu   sync.RWMutex
	snap Snapshot

	// Notify readers of updates
	updates chan struct{}
}

// NewProgress creates an empty progress sink
func NewProgress() *Progress {
	return &Progress{
		updates: make(chan struct{}, 1),
	}
}

// Report stores the update and wakes one waiting reader without blocking
func (p *Progress) Report(fraction float64, message string) {
	p.mu.Lock()
	p.snap = Snapshot{
		Fraction: fraction,
		Message:  message,
		Reports:  p.snap.Reports + 1,
	}
	p.mu.Unlock()

	select {
	case p.updates <- struct{}{}:
	default:
	}
}

// Snapshot returns the latest report
func (p *Progress) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snap
}

// Updates signals (coalesced) whenever a report arrives
func (p *Progress) Updates() <-chan struct{} {
	return p.updates
}
