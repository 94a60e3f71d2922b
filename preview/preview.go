// Package preview draws a piano roll of a document, one horizontal lane
// per track, so a split can be checked by eye.
package preview

import (
	"github.com/fogleman/gg"

	"go-midisplit/midi"
	"go-midisplit/theme"
)

// Options sizes the image
type Options struct {
	Width      int
	LaneHeight int
}

// Note is a sounding note recovered from a track
type Note struct {
	Key        uint8
	Start, End int64
}

// Notes pairs note starts with their ends. Notes still held at the end of
// the track end at its last tick.
func Notes(t midi.Track) []Note {
	var notes []Note
	open := make(map[[2]uint8][]int64)

	var now int64
	for _, ev := range t {
		now += ev.Delta
		if ev.Kind != midi.KindChannel {
			continue
		}
		var ch, key, vel uint8
		switch {
		case ev.Message.GetNoteStart(&ch, &key, &vel):
			k := [2]uint8{ch, key}
			open[k] = append(open[k], now)
		case ev.Message.GetNoteEnd(&ch, &key):
			k := [2]uint8{ch, key}
			starts := open[k]
			if len(starts) == 0 {
				continue
			}
			notes = append(notes, Note{Key: key, Start: starts[0], End: now})
			open[k] = starts[1:]
		}
	}

	for k, starts := range open {
		for _, s := range starts {
			notes = append(notes, Note{Key: k[1], Start: s, End: now})
		}
	}
	return notes
}

func setRGB(dc *gg.Context, c theme.RGB) {
	dc.SetRGB255(int(c[0]), int(c[1]), int(c[2]))
}

// Render draws doc into a new context
func Render(doc *midi.Document, th *theme.Theme, opts Options) *gg.Context {
	if opts.Width <= 0 {
		opts.Width = 1600
	}
	if opts.LaneHeight <= 0 {
		opts.LaneHeight = 96
	}
	lanes := max(1, len(doc.Tracks))
	height := lanes * opts.LaneHeight
	dc := gg.NewContext(opts.Width, height)

	dc.SetRGB(0.07, 0.07, 0.09)
	dc.Clear()

	var length int64 = 1
	for _, t := range doc.Tracks {
		length = max(length, t.Duration())
	}
	xScale := float64(opts.Width) / float64(length)
	keyH := float64(opts.LaneHeight) / 128

	colors := th.Palette.Spread(lanes)
	for i, t := range doc.Tracks {
		top := float64(i * opts.LaneHeight)

		// lane separator
		dc.SetRGBA(1, 1, 1, 0.15)
		dc.SetLineWidth(0.5)
		dc.DrawLine(0, top, float64(opts.Width), top)
		dc.Stroke()

		setRGB(dc, colors[i])
		for _, n := range Notes(t) {
			x := float64(n.Start) * xScale
			w := max(1, float64(n.End-n.Start)*xScale)
			y := top + float64(127-int(n.Key))*keyH
			dc.DrawRectangle(x, y, w, max(1, keyH))
			dc.Fill()
		}
	}
	return dc
}

// WritePNG renders doc to a PNG file
func WritePNG(path string, doc *midi.Document, th *theme.Theme, opts Options) error {
	return Render(doc, th, opts).SavePNG(path)
}
