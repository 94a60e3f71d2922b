package midi

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2/smf"
)

// MaxDelta is the largest delta a variable length quantity can hold
const MaxDelta = 0x0FFFFFFF

// ReadFile decodes a standard MIDI file from disk
func ReadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := ReadFrom(f)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", filepath.Base(path))
	}
	return doc, nil
}

// ReadFrom decodes a standard MIDI file from r
func ReadFrom(r io.Reader) (*Document, error) {
	s, err := smf.ReadFrom(r)
	if err != nil {
		return nil, err
	}
	return FromSMF(s), nil
}

// FromSMF converts a gomidi SMF into a Document
func FromSMF(s *smf.SMF) *Document {
	doc := &Document{
		TimeFormat: s.TimeFormat,
		Tracks:     make([]Track, 0, len(s.Tracks)),
	}
	for _, st := range s.Tracks {
		t := make(Track, 0, len(st))
		for _, ev := range st {
			t = append(t, NewEvent(int64(ev.Delta), ev.Message))
		}
		doc.Tracks = append(doc.Tracks, t)
	}
	return doc
}

// ToSMF converts a Document into a format 1 SMF. Tracks missing an
// end-of-track meta get one appended.
func ToSMF(doc *Document) (*smf.SMF, error) {
	out := smf.NewSMF1()
	out.TimeFormat = doc.TimeFormat

	for i, t := range doc.Tracks {
		st := make(smf.Track, 0, len(t)+1)
		for j, ev := range t {
			if ev.Delta < 0 || ev.Delta > MaxDelta {
				return nil, errors.Errorf("track %d event %d: delta %d out of range", i, j, ev.Delta)
			}
			st = append(st, smf.Event{
				Delta:   uint32(ev.Delta),
				Message: ev.Message,
			})
		}
		if len(t) == 0 || !t[len(t)-1].IsEndOfTrack() {
			st.Close(0)
		}
		out.Add(st)
	}
	return out, nil
}

// WriteTo encodes doc as a standard MIDI file
func WriteTo(w io.Writer, doc *Document) error {
	s, err := ToSMF(doc)
	if err != nil {
		return err
	}
	_, err = s.WriteTo(w)
	return err
}

// WriteFile encodes doc and replaces path with mode 0644 (less umask).
// The bytes go to a synced temporary sibling that is renamed over path,
// so a failed write never leaves a partial file.
func WriteFile(path string, doc *Document) error {
	var buf bytes.Buffer
	if err := WriteTo(&buf, doc); err != nil {
		return errors.Wrap(err, "encode")
	}
	if err := renameio.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return errors.Wrapf(err, "write %s", filepath.Base(path))
	}
	return nil
}
