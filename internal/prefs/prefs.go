// Package prefs persists the small set of choices a user makes inside the TUI.
// Preferences live in ~/.config/aula/prefs.toml, separate from config.toml so
// the TUI never rewrites a hand-edited config.
package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/tecnojuy/aula/internal/config"
)

// Prefs holds user preferences.
type Prefs struct {
	Theme        string `toml:"theme"`
	UploadFolder string `toml:"upload_folder"`
}

const (
	defaultPrefsPath    = "~/.config/aula/prefs.toml"
	defaultTheme        = "Nightfox"
	defaultUploadFolder = "courses"
)

// Default returns the preferences used before anything is saved.
func Default() Prefs {
	return Prefs{Theme: defaultTheme, UploadFolder: defaultUploadFolder}
}

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// normalize fills blanks with defaults. Folders are stored without
// surrounding slashes because the storage proxy joins them itself.
func (p Prefs) normalize() Prefs {
	p.Theme = strings.TrimSpace(p.Theme)
	if p.Theme == "" {
		p.Theme = defaultTheme
	}
	p.UploadFolder = strings.Trim(strings.TrimSpace(p.UploadFolder), "/")
	if p.UploadFolder == "" {
		p.UploadFolder = defaultUploadFolder
	}
	return p
}

// Load reads preferences from path. Missing, unreadable or malformed files
// yield the defaults; preferences are never worth failing startup over.
func Load(path string) (Prefs, error) {
	file, err := location(path)
	if err != nil {
		return Default(), nil
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return Default(), nil
	}
	var p Prefs
	if err := toml.Unmarshal(data, &p); err != nil {
		return Default(), nil
	}
	return p.normalize(), nil
}

// Save writes preferences to path through a temp file and rename, so a crash
// mid-write leaves the previous file intact.
func Save(path string, p Prefs) error {
	file, err := location(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	dir := filepath.Dir(file)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}
	data, err := toml.Marshal(p.normalize())
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".prefs-*.toml")
	if err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := os.Rename(tmp.Name(), file); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}

func location(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		path = defaultPrefsPath
	}
	return config.ExpandPath(path)
}
