package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/brianlovin/hn-cli-sub000/internal/config"
)

// renderSettings lists every knob with its current value; cursor marks the
// one +/- will change.
func renderSettings(cfg config.FilterConfig, cursor, width int) string {
	var lines []string
	lines = append(lines, DebugHeaderStyle.Render("Settings"), "")
	for i, k := range config.Knobs() {
		line := fmt.Sprintf("%-24s %8s   (%s–%s)", k.Label, formatKnob(k.Value(&cfg), k.Step),
			formatKnob(k.Min, k.Step), formatKnob(k.Max, k.Step))
		if i == cursor {
			line = SettingsSelected.Render("› " + line)
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	lines = append(lines, "", ItemMeta.Render("j/k select · +/- adjust · s close · r refresh with new settings"))
	return SettingsPanel.Width(min(max(width-4, 20), 72)).Render(strings.Join(lines, "\n"))
}

func formatKnob(v, step float64) string {
	if step < 1 {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return strconv.FormatFloat(v, 'f', 0, 64)
}
