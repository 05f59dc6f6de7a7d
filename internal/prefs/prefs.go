// Package prefs persists the layout preference flag across sessions, the
// client-side analog of browser-local storage.
package prefs

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const fileName = "prefs.json"

// Prefs holds the persisted UI preferences.
type Prefs struct {
	SidebarOpen bool `json:"sidebarOpen"`
}

// Default returns the preferences used when nothing was persisted yet.
func Default() Prefs {
	return Prefs{SidebarOpen: true}
}

// Dir returns the preference directory. dir overrides the user config
// directory when non-empty, which the tests use.
func Dir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve user config dir: %w", err)
	}
	return filepath.Join(base, "stockdesk"), nil
}

// Load reads the persisted preferences, falling back to defaults when no
// file exists yet.
func Load(dir string) (Prefs, error) {
	resolved, err := Dir(dir)
	if err != nil {
		return Default(), err
	}
	data, err := os.ReadFile(filepath.Join(resolved, fileName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("failed to read preferences: %w", err)
	}
	p := Default()
	if err := json.Unmarshal(data, &p); err != nil {
		return Default(), fmt.Errorf("failed to parse preferences: %w", err)
	}
	return p, nil
}

// Save writes the preferences, creating the directory if needed.
func Save(dir string, p Prefs) error {
	resolved, err := Dir(dir)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(resolved, 0o755); err != nil {
		return fmt.Errorf("failed to create preference dir: %w", err)
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}
	if err := os.WriteFile(filepath.Join(resolved, fileName), data, 0o644); err != nil {
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	return nil
}
