package midi

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

func TestNewEventKinds(t *testing.T) {
	tests := []struct {
		name    string
		msg     smf.Message
		kind    Kind
		channel uint8
	}{
		{"note on", smf.Message(gomidi.NoteOn(7, 60, 100)), KindChannel, 7},
		{"control change", smf.Message(gomidi.ControlChange(15, 7, 90)), KindChannel, 15},
		{"program change", smf.Message(gomidi.ProgramChange(3, 12)), KindChannel, 3},
		{"tempo", smf.MetaTempo(120), KindMeta, 0},
		{"track name", smf.MetaTrackSequenceName("bass"), KindMeta, 0},
		{"sysex", smf.Message{0xF0, 0x03, 0x7E, 0x7F, 0xF7}, KindSysEx, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := NewEvent(12, tt.msg)
			if ev.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", ev.Kind, tt.kind)
			}
			ch, ok := ev.ChannelOf()
			if ok != (tt.kind == KindChannel) {
				t.Errorf("ChannelOf ok = %v", ok)
			}
			if ok && ch != tt.channel {
				t.Errorf("channel = %d, want %d", ch, tt.channel)
			}
			if ev.Delta != 12 {
				t.Errorf("Delta = %d, want 12", ev.Delta)
			}
		})
	}
}

func TestWithDeltaCopiesPayload(t *testing.T) {
	ev := NewEvent(5, smf.Message(gomidi.NoteOn(0, 60, 100)))
	clone := ev.WithDelta(99)

	if clone.Delta != 99 || ev.Delta != 5 {
		t.Errorf("deltas = %d/%d, want 99/5", clone.Delta, ev.Delta)
	}
	clone.Message[1] = 61
	if ev.Message[1] != 60 {
		t.Error("clone shares payload with source")
	}
}

func TestTrackChannelsAndDuration(t *testing.T) {
	tr := Track{
		NewEvent(0, smf.MetaTrackSequenceName("x")),
		NewEvent(10, smf.Message(gomidi.NoteOn(4, 60, 100))),
		NewEvent(5, smf.Message(gomidi.NoteOn(1, 60, 100))),
		NewEvent(5, smf.Message(gomidi.NoteOff(4, 60))),
	}

	if got := tr.Channels(); !bytes.Equal(got, []uint8{4, 1}) {
		t.Errorf("Channels = %v, want [4 1]", got)
	}
	if got := tr.Duration(); got != 20 {
		t.Errorf("Duration = %d, want 20", got)
	}
}

func sampleDocument() *Document {
	return &Document{
		TimeFormat: smf.MetricTicks(480),
		Tracks: []Track{
			{
				NewEvent(0, smf.MetaTrackSequenceName("conductor")),
				NewEvent(0, smf.MetaTempo(100)),
			},
			{
				NewEvent(0, smf.Message(gomidi.NoteOn(0, 60, 100))),
				NewEvent(480, smf.Message(gomidi.NoteOff(0, 60))),
				NewEvent(0, smf.Message{0xFF, 0x2F, 0x00}),
			},
		},
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTo(&buf, sampleDocument()); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}

	doc, err := ReadFrom(&buf)
	if err != nil {
		t.Fatalf("ReadFrom: %v", err)
	}

	if doc.TimeFormat != smf.MetricTicks(480) {
		t.Errorf("TimeFormat = %v, want 480", doc.TimeFormat)
	}
	if len(doc.Tracks) != 2 {
		t.Fatalf("got %d tracks, want 2", len(doc.Tracks))
	}

	t0 := doc.Tracks[0]
	if len(t0) < 2 || t0[0].Kind != KindMeta || t0[1].Kind != KindMeta {
		t.Errorf("track 0 = %v, want two meta events first", t0)
	}

	t1 := doc.Tracks[1]
	if len(t1) < 2 {
		t.Fatalf("track 1 has %d events, want at least 2", len(t1))
	}
	if t1[1].Delta != 480 {
		t.Errorf("track 1 delta = %d, want 480", t1[1].Delta)
	}
	if ch, ok := t1[0].ChannelOf(); !ok || ch != 0 {
		t.Errorf("track 1 first event channel = %d, %v", ch, ok)
	}
}

func TestToSMFClosesTracks(t *testing.T) {
	s, err := ToSMF(sampleDocument())
	if err != nil {
		t.Fatalf("ToSMF: %v", err)
	}
	for i, tr := range s.Tracks {
		if len(tr) == 0 || !tr[len(tr)-1].Message.Is(smf.MetaEndOfTrackMsg) {
			t.Errorf("track %d not closed", i)
		}
	}
	// The already closed track keeps a single end-of-track
	if len(s.Tracks[1]) != 3 {
		t.Errorf("track 1 has %d events, want 3", len(s.Tracks[1]))
	}
}

func TestToSMFRejectsNegativeDelta(t *testing.T) {
	doc := &Document{
		TimeFormat: smf.MetricTicks(96),
		Tracks:     []Track{{NewEvent(-1, smf.Message(gomidi.NoteOn(0, 60, 100)))}},
	}
	if _, err := ToSMF(doc); err == nil {
		t.Error("expected error for negative delta")
	}
}

func TestWriteFileReplacesDestination(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.mid")
	if err := os.WriteFile(path, []byte("stale"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := WriteFile(path, sampleDocument()); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	doc, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(doc.Tracks) != 2 {
		t.Errorf("got %d tracks, want 2", len(doc.Tracks))
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %d entries", len(entries))
	}
}

func TestReadFileGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.mid")
	if err := os.WriteFile(path, []byte("not a midi file"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadFile(path); err == nil {
		t.Error("expected decode error")
	}
}

func TestWriteFileMode(t *testing.T) {
	dir := t.TempDir()

	// os.WriteFile applies the same umask, so it gives the expected bits
	ref := filepath.Join(dir, "ref")
	if err := os.WriteFile(ref, nil, 0644); err != nil {
		t.Fatal(err)
	}
	want, err := os.Stat(ref)
	if err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"new.mid", "ref"} {
		path := filepath.Join(dir, name)
		if err := WriteFile(path, sampleDocument()); err != nil {
			t.Fatalf("WriteFile %s: %v", name, err)
		}
		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if got := info.Mode().Perm(); got != want.Mode().Perm() {
			t.Errorf("%s mode = %v, want %v", name, got, want.Mode().Perm())
		}
		if info.Mode().Perm()&0600 != 0600 {
			t.Errorf("%s mode = %v, owner cannot read and write", name, info.Mode().Perm())
		}
	}
}
