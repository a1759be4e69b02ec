// Package config is the YAML-backed application configuration, covering the
// page chrome, the day and hour selection, the color palette and the preview
// server.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"schedgen/internal/model"
	"schedgen/internal/schedule"
)

// Preset is one named palette entry offered to events.
type Preset struct {
	Name string `yaml:"name" json:"name"`
	Hex  string `yaml:"hex" json:"hex"`
}

// BasicAuthConfig holds HTTP Basic Auth credentials for the preview server.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// Config is the top-level application configuration.
type Config struct {
	// Title is the heading printed across the top of the page.
	Title string `yaml:"title" json:"title"`

	// DisplayName, when set, is appended to the title as "<title> - <name>".
	DisplayName string `yaml:"display_name" json:"display_name"`

	// Footer is the note printed along the bottom edge of the page.
	Footer string `yaml:"footer" json:"footer"`

	// Days lists the weekday names to render, in display order.
	Days []string `yaml:"days" json:"days"`

	// EndHour is the last grid hour in 24-hour form (18 through 23). The
	// grid always starts at 8 AM.
	EndHour int `yaml:"end_hour" json:"end_hour"`

	// Output is the default path for the generated PDF.
	Output string `yaml:"output" json:"output"`

	// Presets is the ordered color palette offered to events.
	Presets []Preset `yaml:"presets" json:"presets"`

	// DefaultColor names the preset used when an event gives no color or an
	// unknown one.
	DefaultColor string `yaml:"default_color" json:"default_color"`

	// Listen is the HTTP listen address for the preview server.
	Listen string `yaml:"listen" json:"listen"`

	// BasicAuth, if non-nil, enables HTTP Basic Authentication on all
	// preview endpoints except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

// DefaultConfig returns an in-memory default configuration: the classic fall
// office-hours page, Monday through Friday, 8 AM to 6 PM.
func DefaultConfig() *Config {
	return &Config{
		Title:        "Fall 2025 Schedule",
		Footer:       "Please knock if door is closed during office hours",
		Days:         weekdayNames(),
		EndHour:      18,
		Output:       "schedule.pdf",
		Presets:      DefaultPresets(),
		DefaultColor: "Blue",
		Listen:       "127.0.0.1:8080",
		BasicAuth:    nil,
	}
}

// DefaultPresets is the built-in palette, in menu order.
func DefaultPresets() []Preset {
	return []Preset{
		{Name: "ETSU Gold", Hex: "#ffc423"},
		{Name: "ETSU Blue", Hex: "#002d62"},
		{Name: "Blue", Hex: "#3498db"},
		{Name: "Orange", Hex: "#e67e22"},
		{Name: "Green", Hex: "#27ae60"},
		{Name: "Purple", Hex: "#9b59b6"},
		{Name: "Red", Hex: "#e74c3c"},
		{Name: "Teal", Hex: "#1abc9c"},
		{Name: "Yellow", Hex: "#f1c40f"},
		{Name: "Gray", Hex: "#7f8c8d"},
	}
}

func weekdayNames() []string {
	names := make([]string, 0, len(model.Weekdays))
	for _, d := range model.Weekdays {
		names = append(names, d.String())
	}
	return names
}

// Normalize fills in missing or zero values with defaults so that partially
// filled configs still behave correctly.
func (c *Config) Normalize() {
	if c.Title == "" {
		c.Title = "Fall 2025 Schedule"
	}
	if c.Footer == "" {
		c.Footer = "Please knock if door is closed during office hours"
	}
	if len(c.Days) == 0 {
		c.Days = weekdayNames()
	}
	if !model.ValidEndHour(c.EndHour) {
		c.EndHour = 18
	}
	if c.Output == "" {
		c.Output = "schedule.pdf"
	}
	if len(c.Presets) == 0 {
		c.Presets = DefaultPresets()
	}
	if c.DefaultColor == "" {
		c.DefaultColor = "Blue"
	}
	if c.Listen == "" {
		c.Listen = "127.0.0.1:8080"
	}
}

// Palette builds the event color palette from the configured presets.
func (c *Config) Palette() schedule.Palette {
	presets := make([]schedule.Preset, 0, len(c.Presets))
	for _, p := range c.Presets {
		presets = append(presets, schedule.Preset{Name: p.Name, Hex: p.Hex})
	}
	return schedule.NewPalette(presets, c.DefaultColor)
}

// ScheduleConfig converts the day and hour selection into the model form
// used by the layout engine. Unknown day names fail here, before any
// rendering starts.
func (c *Config) ScheduleConfig() (model.ScheduleConfig, error) {
	days, err := model.DaysFromNames(c.Days)
	if err != nil {
		return model.ScheduleConfig{}, fmt.Errorf("config: %w", err)
	}
	return model.ScheduleConfig{
		Days:        days,
		StartHour:   model.StartHour,
		EndHour:     c.EndHour,
		DisplayName: c.DisplayName,
	}, nil
}

// Load loads configuration from the given YAML path. If the file does not
// exist, a default config is written there (parent directories included) and
// returned, so a first run leaves an editable file behind.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Return cfg alongside the error so the caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes cfg to path atomically: marshal to YAML, write a temp file in
// the same directory, chmod 0600, rename over the target. The parent
// directory is created if needed.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".schedgen-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Save delegates to the package-level Save so call sites holding a *Config
// read naturally:
//
//	cfg, _ := config.Load(path)
//	// ... mutate cfg ...
//	if err := cfg.Save(path); err != nil { ... }
func (c *Config) Save(path string) error {
	return Save(path, c)
}
