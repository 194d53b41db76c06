// Package style holds the lipgloss styles used by fanout's terminal output.
package style

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(HeadingColor).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	LabelStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Width(8)

	PositiveBarStyle = lipgloss.NewStyle().
				Foreground(PositiveColor)

	NegativeBarStyle = lipgloss.NewStyle().
				Foreground(NegativeColor)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)
)

// ColorEnabled reports whether w should receive ANSI colors.
func ColorEnabled(w io.Writer, noColor bool) bool {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Configure sets the global lipgloss color profile for output going to w.
func Configure(w io.Writer, noColor bool) {
	if ColorEnabled(w, noColor) {
		lipgloss.SetColorProfile(termenv.EnvColorProfile())
		return
	}
	lipgloss.SetColorProfile(termenv.Ascii)
}

// Bar renders value in [-1, 1] as a centered horizontal bar of the given
// half-width. Values outside the range are clamped.
func Bar(value float64, halfWidth int) string {
	if halfWidth <= 0 {
		return ""
	}
	if value > 1 {
		value = 1
	}
	if value < -1 {
		value = -1
	}

	n := int(value*float64(halfWidth) + sign(value)*0.5)
	left := strings.Repeat(" ", halfWidth)
	right := strings.Repeat(" ", halfWidth)
	switch {
	case n > 0:
		right = PositiveBarStyle.Render(strings.Repeat("█", n)) + strings.Repeat(" ", halfWidth-n)
	case n < 0:
		left = strings.Repeat(" ", halfWidth+n) + NegativeBarStyle.Render(strings.Repeat("█", -n))
	}
	return left + MutedStyle.Render("│") + right
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
