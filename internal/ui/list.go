package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/brianlovin/hn-cli-sub000/internal/model"
)

// linesPerItem is the height of one list entry: title and meta line.
const linesPerItem = 2

// RenderList renders the ranked stories, keeping the cursor visible.
// Read stories are dimmed.
func RenderList(items []model.Item, read map[int]bool, cursor, width, height int, now time.Time) string {
	if len(items) == 0 {
		return HelpStyle.Render("No stories to display. Press 'r' to refresh.")
	}

	visible := max(height/linesPerItem, 1)
	offset := calcScrollOffset(len(items), cursor, visible)

	var b strings.Builder
	for i := offset; i < len(items) && i < offset+visible; i++ {
		b.WriteString(renderItemLines(items[i], i, i == cursor, read[items[i].ID], width, now))
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// calcScrollOffset returns the first index to draw so that cursor falls
// inside a window of visible entries.
func calcScrollOffset(n, cursor, visible int) int {
	if n == 0 || cursor < 0 || visible <= 0 {
		return 0
	}
	cursor = min(cursor, n-1)
	if cursor >= visible {
		return cursor - visible + 1
	}
	return 0
}

func renderItemLines(item model.Item, index int, selected, read bool, width int, now time.Time) string {
	badge := RankBadge.Render(fmt.Sprintf("%d.", index+1))
	titleWidth := max(width-4, 10)
	title := ansi.Truncate(item.Title, titleWidth, "…")

	style := NormalItem
	switch {
	case selected:
		style = SelectedItem
		if read {
			style = style.Foreground(colorSecondary).Bold(false)
		}
	case read:
		style = ReadItem
	}

	meta := fmt.Sprintf("%d pts · %d comments · %s", item.Points(), item.CommentCount, formatAgo(now.Sub(item.CreatedAt)))
	if item.Domain != "" {
		meta += " · " + item.Domain
	}
	meta = ansi.Truncate(meta, titleWidth, "…")

	return badge + style.Render(title) + "\n    " + ItemMeta.Render(meta)
}

// formatAgo renders an age as a compact relative time.
func formatAgo(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 48*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

// StatusInfo is what the status bar shows.
type StatusInfo struct {
	Count     int
	Cursor    int
	FetchedAt time.Time
	Loading   bool
	Provider  string
	Message   string
	Err       error
	Hints     [][2]string // key, description
}

// RenderStatusBar renders the bottom line.
func RenderStatusBar(s StatusInfo, width int, now time.Time) string {
	var parts []string
	if s.Count > 0 {
		parts = append(parts, fmt.Sprintf("%d/%d", s.Cursor+1, s.Count))
	}
	switch {
	case s.Loading:
		parts = append(parts, "refreshing…")
	case !s.FetchedAt.IsZero():
		parts = append(parts, "updated "+formatAgo(now.Sub(s.FetchedAt)))
	}
	if s.Provider != "" {
		parts = append(parts, s.Provider)
	} else {
		parts = append(parts, "no AI provider")
	}

	left := StatusBarText.Render(strings.Join(parts, " · "))
	switch {
	case s.Err != nil:
		left += "  " + ErrorStyle.Render("Error: "+s.Err.Error())
	case s.Message != "":
		left += "  " + s.Message
	}

	var keys []string
	for _, h := range s.Hints {
		keys = append(keys, StatusBarKey.Render(h[0])+StatusBarText.Render(":"+h[1]))
	}
	line := left
	if len(keys) > 0 {
		line += "  " + strings.Join(keys, " ")
	}
	return StatusBar.Width(width).Render(ansi.Truncate(line, max(width-2, 1), "…"))
}
