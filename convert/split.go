package convert

import (
	"sort"

	"github.com/pkg/errors"

	"go-midisplit/midi"
)

// Channels returns the distinct channels referenced by channel events,
// in the order they are first seen.
func Channels(events []TimedEvent) []uint8 {
	var seen [16]bool
	var out []uint8
	for _, te := range events {
		ch, ok := te.Event.ChannelOf()
		if !ok || seen[ch&0x0F] {
			continue
		}
		seen[ch&0x0F] = true
		out = append(out, ch)
	}
	return out
}

// Split partitions a materialized track by channel. With at most one
// channel the whole track is the only partition. Otherwise each channel
// gets every non-channel event plus its own channel events, ordered by
// absolute time with ties kept in source order.
func Split(events []TimedEvent) [][]TimedEvent {
	channels := Channels(events)
	if len(channels) <= 1 {
		return [][]TimedEvent{sortByTime(events)}
	}

	parts := make([][]TimedEvent, 0, len(channels))
	for _, c := range channels {
		parts = append(parts, partition(events, c))
	}
	return parts
}

func partition(events []TimedEvent, channel uint8) []TimedEvent {
	part := make([]TimedEvent, 0, len(events))
	for _, te := range events {
		if ch, ok := te.Event.ChannelOf(); ok && ch != channel {
			continue
		}
		part = append(part, te)
	}
	return sortByTime(part)
}

func sortByTime(events []TimedEvent) []TimedEvent {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Time < events[j].Time
	})
	return events
}

// Requantize rebuilds a track from a time-ordered partition. Each delta is
// the gap to the previous event (0 before the first) and every event is
// cloned with its new delta.
func Requantize(part []TimedEvent) (midi.Track, error) {
	track := make(midi.Track, 0, len(part))
	var prev int64
	for i, te := range part {
		delta := te.Time - prev
		if delta < 0 || delta > midi.MaxDelta {
			return nil, errors.Wrapf(ErrArithmeticAnomaly, "event %d: delta %d (at tick %d, previous %d)", i, delta, te.Time, prev)
		}
		track = append(track, te.Event.WithDelta(delta))
		prev = te.Time
	}
	return track, nil
}

// SplitTrack materializes, splits and requantizes one source track. The
// result has one track per channel (discovery order), or exactly one
// track when the source uses at most one channel. An empty source track
// yields one empty track.
func SplitTrack(track midi.Track) ([]midi.Track, error) {
	events := Collect(track)
	parts := Split(events)

	out := make([]midi.Track, 0, len(parts))
	for i, part := range parts {
		t, err := Requantize(part)
		if err != nil {
			return nil, errors.Wrapf(err, "partition %d", i)
		}
		out = append(out, t)
		parts[i] = nil
	}
	return out, nil
}
