package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-midisplit/convert"
	"go-midisplit/theme"
	"go-midisplit/widgets"
)

// Task is the work the view waits on. It returns a one-line summary.
type Task func(ctx context.Context) (string, error)

type Model struct {
	Progress *convert.Progress
	Theme    *theme.Theme
	Title    string

	task    Task
	ctx     context.Context
	cancel  context.CancelFunc
	started time.Time
	now     time.Time
	width   int

	done    bool
	summary string
	err     error
}

type UpdateMsg struct{}

type tickMsg time.Time

type doneMsg struct {
	summary string
	err     error
}

func NewModel(progress *convert.Progress, th *theme.Theme, title string, task Task) *Model {
	ctx, cancel := context.WithCancel(context.Background())
	now := time.Now()
	return &Model{
		Progress: progress,
		Theme:    th,
		Title:    title,
		task:     task,
		ctx:      ctx,
		cancel:   cancel,
		started:  now,
		now:      now,
		width:    40,
	}
}

// ListenForUpdates waits for the next progress report. It returns nil
// once ctx is done.
func ListenForUpdates(ctx context.Context, progress *convert.Progress) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-progress.Updates():
			return UpdateMsg{}
		case <-ctx.Done():
			return nil
		}
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func runTask(ctx context.Context, task Task) tea.Cmd {
	return func() tea.Msg {
		summary, err := task(ctx)
		return doneMsg{summary: summary, err: err}
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		runTask(m.ctx, m.task),
		ListenForUpdates(m.ctx, m.Progress),
		tick(),
	)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if m.done {
				return m, tea.Quit
			}
			// The worker notices at the next track boundary
			m.cancel()
		}

	case tea.WindowSizeMsg:
		m.width = min(60, max(10, msg.Width-30))

	case UpdateMsg:
		if m.done {
			return m, nil
		}
		return m, ListenForUpdates(m.ctx, m.Progress)

	case tickMsg:
		if m.done {
			return m, nil
		}
		m.now = time.Time(msg)
		return m, tick()

	case doneMsg:
		m.done = true
		m.now = time.Now()
		m.summary = msg.summary
		m.err = msg.err
		m.cancel()
		return m, tea.Quit
	}

	return m, nil
}

// Err returns the task error once the program has exited
func (m *Model) Err() error {
	return m.err
}

// Elapsed is the time since the model was created, frozen when done
func (m *Model) Elapsed() time.Duration {
	return m.now.Sub(m.started).Truncate(time.Second)
}

// stage names what the worker is doing, from the last report
func (m *Model) stage(s convert.Snapshot) string {
	switch {
	case s.Reports == 0:
		return "reading MIDI file..."
	case s.Fraction >= 1:
		return "writing file..."
	}
	return s.Message
}

func (m *Model) View() string {
	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent()).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	fgStyle := lipgloss.NewStyle().Foreground(m.Theme.FG())

	s := m.Progress.Snapshot()

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(headerStyle.Render(m.Title))
	out.WriteString(dimStyle.Render(fmt.Sprintf("  %s", formatElapsed(m.Elapsed()))))
	out.WriteString("\n\n")

	if m.done {
		if m.err != nil {
			errStyle := lipgloss.NewStyle().Foreground(m.Theme.Error())
			out.WriteString(errStyle.Render(fmt.Sprintf("%c conversion failed: %v", m.Theme.Symbols.Failed, m.err)))
		} else {
			okStyle := lipgloss.NewStyle().Foreground(m.Theme.Success())
			out.WriteString(okStyle.Render(fmt.Sprintf("%c %s", m.Theme.Symbols.Done, m.summary)))
		}
		out.WriteString("\n")
		return out.String()
	}

	out.WriteString(widgets.RenderProgressBar(m.Theme, s.Fraction, m.width))
	out.WriteString(" ")
	out.WriteString(fgStyle.Render(widgets.RenderPercent(s.Fraction)))
	out.WriteString("\n")
	out.WriteString(fgStyle.Render(m.stage(s)))
	out.WriteString("\n\n")
	out.WriteString(dimStyle.Render(widgets.RenderKeyHelp([]widgets.KeyBinding{
		{Key: "q", Desc: "cancel"},
	})))
	out.WriteString("\n")

	return out.String()
}

func formatElapsed(d time.Duration) string {
	return fmt.Sprintf("%02d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}
