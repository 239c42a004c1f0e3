// Package settings persists dashboard preferences to a YAML file under
// the user config directory.
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	appDirName   = "ppgdash"
	settingsFile = "settings.yaml"

	defaultServerURL  = "http://localhost:3000"
	defaultFontFamily = "Monospace"
	defaultFontSize   = 12
)

// Appearance selects the color scheme.
type Appearance string

const (
	AppearanceSystem Appearance = "system"
	AppearanceDark   Appearance = "dark"
	AppearanceLight  Appearance = "light"
)

// Label returns a human-readable label for display.
func (a Appearance) Label() string {
	switch a {
	case AppearanceDark:
		return "Dark"
	case AppearanceLight:
		return "Light"
	default:
		return "System"
	}
}

// AppSettings holds the dashboard's persisted preferences.
type AppSettings struct {
	ServerURL   string     `yaml:"server_url"`
	BearerToken string     `yaml:"bearer_token,omitempty"`
	FontFamily  string     `yaml:"font_family"`
	FontSize    int        `yaml:"font_size"`
	Appearance  Appearance `yaml:"appearance"`
}

// Default returns settings used when no file exists yet.
func Default() AppSettings {
	return AppSettings{
		ServerURL:  defaultServerURL,
		FontFamily: defaultFontFamily,
		FontSize:   defaultFontSize,
		Appearance: AppearanceSystem,
	}
}

// Path returns the settings file location.
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, appDirName, settingsFile), nil
}

// Load reads settings from path. An empty path uses Path(). A missing
// file is not an error; defaults are returned.
func Load(path string) (AppSettings, error) {
	s := Default()
	if path == "" {
		var err error
		path, err = Path()
		if err != nil {
			return s, err
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return s, fmt.Errorf("read settings: %w", err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Default(), fmt.Errorf("parse settings: %w", err)
	}
	s.fillDefaults()
	return s, nil
}

// Save writes settings to path, creating parent directories as needed.
// An empty path uses Path().
func Save(path string, s AppSettings) error {
	if path == "" {
		var err error
		path, err = Path()
		if err != nil {
			return err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

func (s *AppSettings) fillDefaults() {
	if s.ServerURL == "" {
		s.ServerURL = defaultServerURL
	}
	if s.FontFamily == "" {
		s.FontFamily = defaultFontFamily
	}
	if s.FontSize <= 0 {
		s.FontSize = defaultFontSize
	}
	if s.Appearance == "" {
		s.Appearance = AppearanceSystem
	}
}
