package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/thesyncim/journey/pkg/journey"
)

var (
	colorWhite = lipgloss.AdaptiveColor{Light: "0", Dark: "15"}
	colorDim   = lipgloss.AdaptiveColor{Light: "242", Dark: "240"}
	colorGreen = lipgloss.AdaptiveColor{Light: "28", Dark: "40"}
	colorRed   = lipgloss.AdaptiveColor{Light: "160", Dark: "196"}
	colorCyan  = lipgloss.AdaptiveColor{Light: "30", Dark: "45"}
)

var (
	styleBrand   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleLabel   = lipgloss.NewStyle().Foreground(colorDim)
	styleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	styleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleError   = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
	styleHint    = lipgloss.NewStyle().Foreground(colorDim)
)

// styledLine renders a report line with a colored status word.
func styledLine(e journey.Entry) string {
	line := journey.Line(e)
	if e.Passed {
		return styleSuccess.Render("PASS") + strings.TrimPrefix(line, "PASS")
	}
	return styleError.Render("FAIL") + strings.TrimPrefix(line, "FAIL")
}
