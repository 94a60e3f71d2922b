package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"go-midisplit/config"
	"go-midisplit/convert"
	"go-midisplit/debug"
	"go-midisplit/midi"
	"go-midisplit/preview"
	"go-midisplit/theme"
	"go-midisplit/tui"
	"go-midisplit/widgets"
)

// conversion is one input file taken through read, split and write
type conversion struct {
	input   string
	output  string
	preview string
	cfg     *config.Config
	theme   *theme.Theme
	report  convert.Reporter
}

func (c *conversion) run(ctx context.Context) (string, error) {
	doc, err := midi.ReadFile(c.input)
	if err != nil {
		return "", fmt.Errorf("%w: %w", convert.ErrDecodeFailure, err)
	}
	debug.Log("main", "read %s: %d tracks, %d events", c.input, len(doc.Tracks), doc.NumEvents())

	conv := convert.New(c.report)
	conv.Ceiling = c.cfg.Ceiling()
	conv.HardLimit = c.cfg.HardLimit()
	conv.Pause = c.cfg.ReclaimPause()

	out, err := conv.Run(ctx, doc)
	if err != nil {
		return "", err
	}

	// Nothing touches the destination until the whole document is built
	if err := midi.WriteFile(c.output, out); err != nil {
		return "", errors.Wrapf(err, "write %s", c.output)
	}
	debug.Log("main", "wrote %s: %d tracks", c.output, len(out.Tracks))

	if c.preview != "" {
		opts := preview.Options{Width: c.cfg.Preview.Width, LaneHeight: c.cfg.Preview.LaneHeight}
		if err := preview.WritePNG(c.preview, out, c.theme, opts); err != nil {
			return "", errors.Wrapf(err, "preview %s", c.preview)
		}
	}

	return fmt.Sprintf("%d tracks in, %d tracks out, saved to %s", len(doc.Tracks), len(out.Tracks), c.output), nil
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.DebugLog {
		if err := debug.Enable(); err != nil {
			return fmt.Errorf("debug log: %w", err)
		}
	}

	th := theme.New(nil)
	if flags.palette != "" {
		p, err := theme.LoadGPL(flags.palette)
		if err != nil {
			return err
		}
		th = theme.New(p)
	}

	input := args[0]
	if _, err := os.Stat(input); err != nil {
		return err
	}

	c := &conversion{
		input:   input,
		output:  flags.output,
		preview: flags.preview,
		cfg:     cfg,
		theme:   th,
	}
	if c.output == "" {
		c.output = cfg.OutputPath(input)
	}

	if flags.noTUI {
		return runPlain(cmd.Context(), c, cmd.OutOrStdout())
	}
	return runTUI(c)
}

func runTUI(c *conversion) error {
	progress := convert.NewProgress()
	c.report = progress

	m := tui.NewModel(progress, c.theme, filepath.Base(c.input), c.run)
	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return m.Err()
}

// lineReporter prints one progress line per track
type lineReporter struct {
	w io.Writer
}

func (r lineReporter) Report(fraction float64, message string) {
	fmt.Fprintf(r.w, "%s %s %s\n", widgets.PlainProgressBar(fraction, 20), widgets.RenderPercent(fraction), message)
}

func runPlain(ctx context.Context, c *conversion, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	c.report = lineReporter{w: w}

	start := time.Now()
	fmt.Fprintf(w, "reading %s...\n", c.input)
	summary, err := c.run(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s (%s)\n", summary, time.Since(start).Truncate(time.Millisecond))
	return nil
}
