package ui

import "github.com/charmbracelet/lipgloss"

// Colors used in the application.
var (
	colorPrimary   = lipgloss.Color("208") // HN orange
	colorSecondary = lipgloss.Color("241") // Gray
	colorMuted     = lipgloss.Color("240") // Darker gray
	colorHighlight = lipgloss.Color("212") // Pink
	colorSuccess   = lipgloss.Color("78")  // Green
	colorError     = lipgloss.Color("196")
)

// SelectedItem style for the highlighted story title.
var SelectedItem = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("236"))

// NormalItem style for unread story titles.
var NormalItem = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255"))

// ReadItem style for stories already opened.
var ReadItem = lipgloss.NewStyle().
	Foreground(colorSecondary)

// ItemMeta style for the points/comments line under a title.
var ItemMeta = lipgloss.NewStyle().
	Foreground(colorMuted)

// RankBadge style for the position number in the list.
var RankBadge = lipgloss.NewStyle().
	Foreground(colorPrimary).
	Width(4)

// PaneDivider separates the list from the detail pane.
var PaneDivider = lipgloss.NewStyle().
	Foreground(lipgloss.Color("236"))

// DetailTitle style for the story title in the detail pane.
var DetailTitle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255"))

// SectionHeader style for "Summary", "Discussion" and "Chat".
var SectionHeader = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorPrimary).
	MarginTop(1)

// CommentAuthor style for comment bylines.
var CommentAuthor = lipgloss.NewStyle().
	Foreground(colorHighlight)

// ActiveRoot marks the root comment n/p navigates to.
var ActiveRoot = lipgloss.NewStyle().
	Foreground(colorPrimary).
	Bold(true)

// UserMessage style for the reader's chat turns.
var UserMessage = lipgloss.NewStyle().
	Foreground(colorSuccess).
	Bold(true)

// AssistantMessage style for the model's chat turns.
var AssistantMessage = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)

// Suggestion style for numbered suggested questions.
var Suggestion = lipgloss.NewStyle().
	Foreground(colorSecondary).
	Italic(true)

// StatusBar style for the bottom status bar.
var StatusBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// StatusBarKey style for key hints in status bar.
var StatusBarKey = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)

// StatusBarText style for descriptive text in status bar.
var StatusBarText = lipgloss.NewStyle().
	Foreground(colorSecondary)

// ErrorStyle for displaying errors.
var ErrorStyle = lipgloss.NewStyle().
	Foreground(colorError).
	Bold(true)

// HelpStyle for help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(colorMuted).
	Padding(1, 2)

// SettingsPanel frames the settings list.
var SettingsPanel = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorPrimary).
	Padding(1, 2)

// SettingsSelected style for the knob under the cursor.
var SettingsSelected = lipgloss.NewStyle().
	Foreground(colorPrimary).
	Bold(true)

// DebugPanel frames the event overlay.
var DebugPanel = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorMuted).
	Padding(1, 2)

// DebugHeaderStyle for section headers in the debug overlay.
var DebugHeaderStyle = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)
