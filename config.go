package scratchcard

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the top-level app configuration, read from YAML.
type Config struct {
	Window      WindowConfig      `yaml:"window"`
	Grid        GridConfig        `yaml:"grid"`
	Modal       ModalConfig       `yaml:"modal"`
	Images      ImagesConfig      `yaml:"images"`
	Persistence PersistenceConfig `yaml:"persistence"`

	Interaction   string  `yaml:"interaction"` // modal | grid
	Overlay       string  `yaml:"overlay"`     // #RRGGBB or #RRGGBBAA
	EraseRadius   float64 `yaml:"erase_radius"`
	Debug         bool    `yaml:"debug"`
	ScreenshotDir string  `yaml:"screenshot_dir"`
	Script        string  `yaml:"script"` // optional JSON test script
}

// WindowConfig sizes the game window.
type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// GridConfig lays out the card grid.
type GridConfig struct {
	Columns    int `yaml:"columns"`
	CardWidth  int `yaml:"card_width"`
	CardHeight int `yaml:"card_height"`
	Gap        int `yaml:"gap"`
}

// ModalConfig sizes the modal's scratch area.
type ModalConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// ImagesConfig lists the hidden images. Files wins over Dir scanning.
type ImagesConfig struct {
	Dir   string   `yaml:"dir"`
	Files []string `yaml:"files"`
}

// PersistenceConfig selects where progress is kept.
type PersistenceConfig struct {
	Enabled bool   `yaml:"enabled"` // initial toggle state
	Backend string `yaml:"backend"` // file | sqlite | memory
	Path    string `yaml:"path"`    // directory for file, database file for sqlite
}

// Persistence backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// DefaultConfig returns a configuration with every default applied.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// LoadConfig reads a YAML configuration file. An empty path returns the
// defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scratchcard: read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML configuration and applies defaults.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("scratchcard: parse config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Window.Title == "" {
		c.Window.Title = "Scratch Cards"
	}
	if c.Window.Width <= 0 {
		c.Window.Width = 960
	}
	if c.Window.Height <= 0 {
		c.Window.Height = 720
	}
	if c.Grid.Columns <= 0 {
		c.Grid.Columns = 5
	}
	if c.Grid.CardWidth <= 0 {
		c.Grid.CardWidth = 160
	}
	if c.Grid.CardHeight <= 0 {
		c.Grid.CardHeight = 160
	}
	if c.Grid.Gap < 0 {
		c.Grid.Gap = 0
	} else if c.Grid.Gap == 0 {
		c.Grid.Gap = 16
	}
	if c.Modal.Width <= 0 {
		c.Modal.Width = 480
	}
	if c.Modal.Height <= 0 {
		c.Modal.Height = 480
	}
	if c.Images.Dir == "" {
		c.Images.Dir = "images"
	}
	if c.Persistence.Backend == "" {
		c.Persistence.Backend = BackendFile
	}
	if c.Persistence.Path == "" {
		c.Persistence.Path = defaultStorePath(c.Persistence.Backend)
	}
	if c.Interaction == "" {
		c.Interaction = ModeModal.String()
	}
	if c.Overlay == "" {
		c.Overlay = "#bbbbbb"
	}
	if c.EraseRadius <= 0 {
		c.EraseRadius = EraseRadius
	}
	if c.ScreenshotDir == "" {
		c.ScreenshotDir = "screenshots"
	}
}

func defaultStorePath(backend string) string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	dir = filepath.Join(dir, "scratchcard")
	if backend == BackendSQLite {
		return filepath.Join(dir, "progress.db")
	}
	return dir
}

// Validate reports configuration values that cannot be used.
func (c *Config) Validate() error {
	switch c.Persistence.Backend {
	case BackendFile, BackendSQLite, BackendMemory:
	default:
		return fmt.Errorf("scratchcard: unknown persistence backend %q", c.Persistence.Backend)
	}
	if _, err := ParseMode(c.Interaction); err != nil {
		return err
	}
	if _, err := ParseColor(c.Overlay); err != nil {
		return fmt.Errorf("scratchcard: overlay: %w", err)
	}
	return nil
}

// Mode returns the configured interaction mode.
func (c *Config) Mode() Mode {
	m, _ := ParseMode(c.Interaction)
	return m
}

// OverlayColor returns the configured overlay color, or ColorOverlay when
// it does not parse.
func (c *Config) OverlayColor() Color {
	col, err := ParseColor(c.Overlay)
	if err != nil {
		return ColorOverlay
	}
	return col
}

// ParseMode parses "modal" or "grid".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "modal":
		return ModeModal, nil
	case "grid":
		return ModeGrid, nil
	}
	return ModeModal, fmt.Errorf("scratchcard: unknown interaction mode %q", s)
}

// ParseColor parses #RRGGBB or #RRGGBBAA.
func ParseColor(s string) (Color, error) {
	if !strings.HasPrefix(s, "#") {
		return Color{}, fmt.Errorf("color must start with #")
	}
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 && len(hex) != 8 {
		return Color{}, fmt.Errorf("invalid hex length")
	}
	val, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, err
	}
	if len(hex) == 6 {
		val = val<<8 | 0xff
	}
	return Color{
		R: float64(val>>24&0xff) / 255,
		G: float64(val>>16&0xff) / 255,
		B: float64(val>>8&0xff) / 255,
		A: float64(val&0xff) / 255,
	}, nil
}

// imageExts are the extensions ImageList picks up when scanning a directory.
var imageExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true, ".bmp": true,
}

// ImageList returns the configured image identifiers in gallery order:
// Images.Files as given, otherwise every image in Images.Dir sorted by name.
// Identifiers are relative to Images.Dir.
func (c *Config) ImageList() ([]string, error) {
	if len(c.Images.Files) > 0 {
		return append([]string(nil), c.Images.Files...), nil
	}
	entries, err := os.ReadDir(c.Images.Dir)
	if err != nil {
		return nil, fmt.Errorf("scratchcard: list images: %w", err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !imageExts[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		out = append(out, e.Name())
	}
	sort.Strings(out)
	return out, nil
}
