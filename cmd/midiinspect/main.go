package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go-midisplit/convert"
	"go-midisplit/midi"
)

func main() {
	if len(os.Args) < 3 {
		usage(os.Stdout)
		return
	}

	doc, err := midi.ReadFile(os.Args[2])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	switch os.Args[1] {
	case "tracks":
		listTracks(os.Stdout, doc)
	case "channels":
		listChannels(os.Stdout, doc)
	case "events":
		dumpEvents(os.Stdout, doc)
	default:
		usage(os.Stdout)
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "MIDI Inspect")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Usage: midiinspect <command> <file.mid>")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  tracks    - List tracks with event counts and length")
	fmt.Fprintln(w, "  channels  - Show the channels used by each track and the split result")
	fmt.Fprintln(w, "  events    - Dump every event with its absolute tick")
}

func listTracks(w io.Writer, doc *midi.Document) {
	fmt.Fprintf(w, "=== %d tracks, time format %v ===\n", len(doc.Tracks), doc.TimeFormat)
	for i, t := range doc.Tracks {
		fmt.Fprintf(w, "  %d: %d events, %d ticks\n", i, len(t), t.Duration())
	}
}

func listChannels(w io.Writer, doc *midi.Document) {
	total := 0
	for i, t := range doc.Tracks {
		chs := t.Channels()
		n := max(1, len(chs))
		total += n

		names := make([]string, len(chs))
		for j, ch := range chs {
			names[j] = fmt.Sprintf("%d", ch)
		}
		list := strings.Join(names, ",")
		if list == "" {
			list = "-"
		}
		fmt.Fprintf(w, "  %d: channels [%s] -> %d track(s)\n", i, list, n)
	}
	fmt.Fprintf(w, "\n%d tracks in, %d tracks after split\n", len(doc.Tracks), total)
}

func dumpEvents(w io.Writer, doc *midi.Document) {
	for i, t := range doc.Tracks {
		fmt.Fprintf(w, "Track %d (%d events):\n", i, len(t))
		for te := range convert.Materialize(t) {
			ev := te.Event
			if ch, ok := ev.ChannelOf(); ok {
				fmt.Fprintf(w, "  %8d  ch%-2d  %s\n", te.Time, ch, ev)
				continue
			}
			fmt.Fprintf(w, "  %8d  %-5s %s\n", te.Time, ev.Kind, ev)
		}
	}
}
