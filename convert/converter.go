package convert

import (
	"context"
	"fmt"
	"runtime"
	rdebug "runtime/debug"
	"time"

	"github.com/pkg/errors"

	"go-midisplit/debug"
	"go-midisplit/midi"
)

const (
	// DefaultCeiling is the soft heap ceiling (1 GiB)
	DefaultCeiling = 1024 << 20

	// DefaultPause is how long the worker rests after a reclamation cycle
	DefaultPause = 50 * time.Millisecond
)

// Converter splits every track of a document by channel, one track at a
// time, keeping the heap under a soft ceiling.
type Converter struct {
	// Ceiling is the soft heap limit in bytes. Above it the worker forces
	// a collection and pauses. Zero disables the check.
	Ceiling uint64

	// HardLimit fails the run with ErrResourceExhausted when the heap is
	// still above it after a reclamation cycle. Zero disables it.
	HardLimit uint64

	Pause    time.Duration
	Progress Reporter

	// Hooks for tests; nil uses the runtime
	heapInUse func() uint64
	reclaim   func()
}

// New creates a converter with the default ceiling and pause
func New(progress Reporter) *Converter {
	return &Converter{
		Ceiling:  DefaultCeiling,
		Pause:    DefaultPause,
		Progress: progress,
	}
}

func (c *Converter) reporter() Reporter {
	if c.Progress == nil {
		return nopReporter{}
	}
	return c.Progress
}

func (c *Converter) sample() uint64 {
	if c.heapInUse != nil {
		return c.heapInUse()
	}
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return ms.HeapAlloc
}

func (c *Converter) collect() {
	if c.reclaim != nil {
		c.reclaim()
		return
	}
	runtime.GC()
	rdebug.FreeOSMemory()
}

// Run converts doc. The returned document holds the split tracks in
// source order, then channel discovery order, with doc's time format.
// Any error aborts the run and no document is returned. ctx is checked
// between tracks.
func (c *Converter) Run(ctx context.Context, doc *midi.Document) (*midi.Document, error) {
	if doc == nil {
		return nil, errors.Wrap(ErrDecodeFailure, "no document")
	}

	report := c.reporter()
	n := len(doc.Tracks)
	out := &midi.Document{
		TimeFormat: doc.TimeFormat,
		Tracks:     make([]midi.Track, 0, n),
	}

	debug.Log("convert", "start: %d tracks, %d events, ceiling %d bytes", n, doc.NumEvents(), c.Ceiling)

	for i, track := range doc.Tracks {
		if err := ctx.Err(); err != nil {
			debug.Error("convert", err, "cancelled before track %d/%d", i+1, n)
			return nil, err
		}

		split, err := SplitTrack(track)
		if err != nil {
			debug.Error("convert", err, "track %d/%d failed", i+1, n)
			return nil, errors.Wrapf(err, "track %d", i)
		}
		if len(split) > 1 {
			debug.Log("convert", "track %d/%d split into %d tracks", i+1, n, len(split))
		}
		out.Tracks = append(out.Tracks, split...)

		inUse, err := c.relieve(ctx)
		if err != nil {
			debug.Error("memory", err, "track %d/%d", i+1, n)
			return nil, errors.Wrapf(err, "after track %d", i)
		}

		channels := len(track.Channels())
		report.Report(float64(i+1)/float64(n), statusLine(i, n, channels, inUse))
		debug.LogEvery(64, "convert", "heap %s", megabytes(inUse))
	}

	if n == 0 {
		report.Report(1, "no tracks")
	}

	debug.Log("convert", "done: %d tracks in, %d tracks out", n, len(out.Tracks))
	return out, nil
}

// relieve samples the heap and runs a reclamation cycle when it is over
// the ceiling. It returns the heap size used for the status line.
func (c *Converter) relieve(ctx context.Context) (uint64, error) {
	inUse := c.sample()
	if c.Ceiling == 0 || inUse <= c.Ceiling {
		return inUse, nil
	}

	debug.Log("memory", "heap %s over ceiling %s, collecting", megabytes(inUse), megabytes(c.Ceiling))
	c.collect()

	if c.Pause > 0 {
		timer := time.NewTimer(c.Pause)
		select {
		case <-ctx.Done():
			timer.Stop()
			return inUse, ctx.Err()
		case <-timer.C:
		}
	}

	inUse = c.sample()
	if c.HardLimit > 0 && inUse > c.HardLimit {
		return inUse, errors.Wrapf(ErrResourceExhausted, "heap %s over hard limit %s", megabytes(inUse), megabytes(c.HardLimit))
	}
	return inUse, nil
}

func statusLine(i, n, channels int, inUse uint64) string {
	split := "1 channel"
	switch {
	case channels == 0:
		split = "no channel events"
	case channels > 1:
		split = fmt.Sprintf("split into %d channels", channels)
	}
	return fmt.Sprintf("track %d/%d (%s), memory %s", i+1, n, split, megabytes(inUse))
}

func megabytes(b uint64) string {
	return fmt.Sprintf("%.2f MB", float64(b)/(1024*1024))
}

// Job is a conversion running on a background worker
type Job struct {
	done chan struct{}
	doc  *midi.Document
	err  error
}

// Start runs the conversion on its own goroutine
func (c *Converter) Start(ctx context.Context, doc *midi.Document) *Job {
	j := &Job{done: make(chan struct{})}
	go func() {
		defer close(j.done)
		j.doc, j.err = c.Run(ctx, doc)
	}()
	return j
}

// Done is closed when the conversion finishes
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Wait blocks until the conversion finishes and returns its result
func (j *Job) Wait() (*midi.Document, error) {
	<-j.done
	return j.doc, j.err
}
