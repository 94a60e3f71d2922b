package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"go-midisplit/theme"
)

// RenderCell renders a single colored bar cell
func RenderCell(color theme.RGB, r rune) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(rgbToHex(color)))
	return style.Render(string(r))
}

// RenderProgressBar renders a bar width cells wide. Filled cells take
// their color from the palette position along the bar.
func RenderProgressBar(th *theme.Theme, fraction float64, width int) string {
	if width <= 0 {
		return ""
	}
	fraction = clamp(fraction)
	filled := int(fraction * float64(width))

	var out strings.Builder
	for i := 0; i < width; i++ {
		if i < filled {
			out.WriteString(RenderCell(th.RGB(float64(i)/float64(width)), th.Symbols.BarFull))
		} else {
			out.WriteString(RenderCell(th.RGB(theme.RoleMuted), th.Symbols.BarEmpty))
		}
	}
	return out.String()
}

// RenderPercent formats fraction as "100%"
func RenderPercent(fraction float64) string {
	return fmt.Sprintf("%3d%%", int(clamp(fraction)*100))
}

// PlainProgressBar renders the bar without styling (for --no-tui output)
func PlainProgressBar(fraction float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(clamp(fraction) * float64(width))
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}

// RenderKeyHelp formats key bindings in a friendly way
func RenderKeyHelp(keys []KeyBinding) string {
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s:%s", k.Key, k.Desc))
	}
	return strings.Join(parts, "  ")
}

// KeyBinding is a single key and its description
type KeyBinding struct {
	Key  string
	Desc string
}

func clamp(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

func rgbToHex(c theme.RGB) string {
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}
