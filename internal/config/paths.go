// Package config loads hn's settings, credentials and on-disk locations.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const appDir = "hn-cli"

// Paths are the directories hn reads and writes.
type Paths struct {
	ConfigDir    string // settings.json, config.yaml
	DataDir      string // durable caches, history db, logs
	EphemeralDir string // session snapshot; wiped by reboots
}

// DefaultPaths resolves the standard locations. HN_CLI_HOME, when set,
// replaces both the config and data directories.
func DefaultPaths() (Paths, error) {
	eph := filepath.Join(os.TempDir(), appDir)

	if home := os.Getenv("HN_CLI_HOME"); home != "" {
		return Paths{ConfigDir: home, DataDir: home, EphemeralDir: eph}, nil
	}

	cfgDir, err := os.UserConfigDir()
	if err != nil {
		return Paths{}, fmt.Errorf("config dir: %w", err)
	}
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return Paths{}, fmt.Errorf("cache dir: %w", err)
	}
	return Paths{
		ConfigDir:    filepath.Join(cfgDir, appDir),
		DataDir:      filepath.Join(cacheDir, appDir),
		EphemeralDir: eph,
	}, nil
}

// Ensure creates every directory.
func (p Paths) Ensure() error {
	for _, dir := range []string{p.ConfigDir, p.DataDir, p.EphemeralDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

func (p Paths) SettingsFile() string    { return filepath.Join(p.ConfigDir, "settings.json") }
func (p Paths) CredentialsFile() string { return filepath.Join(p.ConfigDir, "config.yaml") }
func (p Paths) LogDir() string          { return filepath.Join(p.DataDir, "logs") }
func (p Paths) EventLog() string        { return filepath.Join(p.DataDir, "events.jsonl") }
func (p Paths) HistoryDB() string       { return filepath.Join(p.DataDir, "history.db") }
