// Package ui provides the Bubble Tea TUI for hn.
package ui

// ReadLoaded carries read flags for the current item list.
type ReadLoaded struct {
	Read map[int]bool
	Err  error
}

// ItemMarkedRead is sent once an opened item is recorded as read.
type ItemMarkedRead struct {
	ID int
}

// SettingsSaved reports the outcome of writing settings.json.
type SettingsSaved struct {
	Err error
}

// CachesCleared is sent after the cache files are removed.
type CachesCleared struct{}
