// Package prefs persists operator preferences for the console.
// Preferences are stored in ~/.config/reclamos/prefs.toml.
package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/reclamos/internal/config"
	"github.com/five82/reclamos/internal/status"
)

// Prefs holds operator preferences.
type Prefs struct {
	Theme        string `toml:"theme"`
	StatusFilter string `toml:"status_filter"`
	Sector       string `toml:"sector"`
}

const (
	defaultPrefsPath = "~/.config/reclamos/prefs.toml"
	defaultTheme     = "Nightfox"
)

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Status returns the saved status filter, or "" (all) when unset or invalid.
func (p Prefs) Status() status.Status {
	s, ok := status.Parse(p.StatusFilter)
	if !ok {
		return ""
	}
	return s
}

// Load reads preferences from the given path, falling back to defaults on
// any problem. Preferences are never worth refusing to start over.
func Load(path string) (Prefs, error) {
	prefs := Prefs{Theme: defaultTheme}

	resolved, err := resolvePath(path)
	if err != nil {
		return prefs, nil
	}

	bytes, err := os.ReadFile(resolved)
	if err != nil {
		return prefs, nil
	}

	if err := toml.Unmarshal(bytes, &prefs); err != nil {
		return Prefs{Theme: defaultTheme}, nil
	}

	if strings.TrimSpace(prefs.Theme) == "" {
		prefs.Theme = defaultTheme
	}
	if prefs.StatusFilter != "" && prefs.Status() == "" {
		prefs.StatusFilter = ""
	}
	prefs.Sector = strings.TrimSpace(prefs.Sector)

	return prefs, nil
}

// Save writes preferences to the given path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	bytes, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	if err := os.WriteFile(resolved, bytes, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}

	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return config.ExpandPath(defaultPrefsPath)
	}
	return config.ExpandPath(path)
}
