package midi

import (
	"gitlab.com/gomidi/midi/v2/smf"
)

// Kind tags what an Event carries
type Kind uint8

const (
	KindChannel Kind = iota // note on/off, CC, program change...
	KindMeta                // 0xFF meta events (tempo, names, end of track)
	KindSysEx               // 0xF0 / 0xF7 system exclusive
)

func (k Kind) String() string {
	switch k {
	case KindChannel:
		return "channel"
	case KindMeta:
		return "meta"
	case KindSysEx:
		return "sysex"
	}
	return "unknown"
}

// Event is one message of a track plus its delta time.
// Channel is only meaningful when Kind == KindChannel.
type Event struct {
	Delta   int64
	Kind    Kind
	Channel uint8
	Message smf.Message
}

// NewEvent classifies a raw message
func NewEvent(delta int64, msg smf.Message) Event {
	ev := Event{Delta: delta, Message: msg}

	var ch uint8
	switch {
	case msg.GetChannel(&ch):
		ev.Kind = KindChannel
		ev.Channel = ch
	case len(msg) > 0 && msg[0] == 0xFF:
		ev.Kind = KindMeta
	default:
		ev.Kind = KindSysEx
	}
	return ev
}

// ChannelOf returns the channel of a channel event
func (e Event) ChannelOf() (uint8, bool) {
	if e.Kind != KindChannel {
		return 0, false
	}
	return e.Channel, true
}

// WithDelta returns a copy of the event with its own payload and a new delta
func (e Event) WithDelta(delta int64) Event {
	clone := e
	clone.Delta = delta
	clone.Message = append(smf.Message(nil), e.Message...)
	return clone
}

// IsEndOfTrack reports whether the event is the end-of-track meta
func (e Event) IsEndOfTrack() bool {
	return e.Kind == KindMeta && e.Message.Is(smf.MetaEndOfTrackMsg)
}

func (e Event) String() string {
	return e.Message.String()
}

// Track is an ordered list of delta-timed events
type Track []Event

// Channels returns the distinct channels of the track in discovery order
func (t Track) Channels() []uint8 {
	var seen [16]bool
	var out []uint8
	for _, ev := range t {
		ch, ok := ev.ChannelOf()
		if !ok || seen[ch&0x0F] {
			continue
		}
		seen[ch&0x0F] = true
		out = append(out, ch)
	}
	return out
}

// Duration is the absolute tick of the last event
func (t Track) Duration() int64 {
	var total int64
	for _, ev := range t {
		total += ev.Delta
	}
	return total
}

// Document is a decoded MIDI file: tracks plus the time division
type Document struct {
	TimeFormat smf.TimeFormat
	Tracks     []Track
}

// NumEvents counts events across all tracks
func (d *Document) NumEvents() int {
	n := 0
	for _, t := range d.Tracks {
		n += len(t)
	}
	return n
}
