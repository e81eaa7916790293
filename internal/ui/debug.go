package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/brianlovin/hn-cli-sub000/internal/otel"
)

// debugPanelChrome is the number of lines DebugPanel's border and padding
// take up.
const debugPanelChrome = 4

// debugOverlay renders generation and fetch counters plus recent events.
// Returns "" when ring is nil.
func debugOverlay(ring *otel.Ring, width, height int, now time.Time) string {
	if ring == nil {
		return ""
	}
	c := ring.Counts()

	lines := []string{
		DebugHeaderStyle.Render("Counters"),
		fmt.Sprintf("  Fetches:     %d items, %d errors, %d dropped",
			c[otel.KindFetchComplete], c[otel.KindFetchError], c[otel.KindItemDropped]),
		fmt.Sprintf("  Generations: %d started, %d complete, %d errors",
			c[otel.KindGenStart], c[otel.KindGenComplete], c[otel.KindGenError]),
		fmt.Sprintf("  Discarded:   %d stale, %d rejected, %d cancelled",
			c[otel.KindGenStale], c[otel.KindGenRejected], c[otel.KindGenCancel]),
		fmt.Sprintf("  Cache:       %d errors", c[otel.KindCacheError]),
		"",
		DebugHeaderStyle.Render("Recent Events"),
	}
	for _, e := range ring.Last(20) {
		line := fmt.Sprintf("  %6s  %-15s", formatElapsed(now.Sub(e.Time)), e.Kind)
		if e.ItemID != 0 {
			line += fmt.Sprintf("  #%d", e.ItemID)
		}
		if e.Task != "" {
			line += " " + e.Task
		}
		if e.Msg != "" {
			line += "  " + ansi.Truncate(e.Msg, 40, "…")
		}
		if e.Err != "" {
			line += "  ERR:" + ansi.Truncate(e.Err, 30, "…")
		}
		lines = append(lines, line)
	}

	if limit := max(height-debugPanelChrome, 1); len(lines) > limit {
		lines = lines[:limit]
	}
	return DebugPanel.Width(min(max(width-4, 20), 76)).Render(strings.Join(lines, "\n"))
}

// formatElapsed is a compact duration for event ages. Negative values
// (clock skew) read as 0ms.
func formatElapsed(d time.Duration) string {
	switch {
	case d < 0:
		return "0ms"
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return fmt.Sprintf("%.0fm", d.Minutes())
	}
}
