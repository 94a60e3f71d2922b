package convert

import (
	"iter"

	"go-midisplit/midi"
)

// TimedEvent pairs an event with its absolute tick in the source track
type TimedEvent struct {
	Event midi.Event
	Time  int64
}

// Materialize yields the events of track with absolute times. The time of
// each event is the running sum of its own delta and all earlier ones.
func Materialize(track midi.Track) iter.Seq[TimedEvent] {
	return func(yield func(TimedEvent) bool) {
		var now int64
		for _, ev := range track {
			now += ev.Delta
			if !yield(TimedEvent{Event: ev, Time: now}) {
				return
			}
		}
	}
}

// Collect materializes a whole track into a slice
func Collect(track midi.Track) []TimedEvent {
	out := make([]TimedEvent, 0, len(track))
	for te := range Materialize(track) {
		out = append(out, te)
	}
	return out
}
