// Package config loads LocalNotes settings from a TOML file over built-in
// defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"MyLocalNotes/internal/document"
	"MyLocalNotes/internal/raster"
	"MyLocalNotes/internal/state"
)

type Share struct {
	Port      int  `toml:"port"`
	Advertise bool `toml:"advertise"`
}

type Page struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

type Config struct {
	StoreDir     string          `toml:"store_dir"`
	BackingScale float64         `toml:"backing_scale"`
	Blank        Page            `toml:"blank"`
	EraseMode    state.EraseMode `toml:"erase_mode"`
	LogLevel     string          `toml:"log_level"`
	Share        Share           `toml:"share"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return Config{
		StoreDir:     filepath.Join(dir, "localnotes", "notebooks"),
		BackingScale: raster.DefaultScale,
		Blank:        Page{Width: document.BlankWidth, Height: document.BlankHeight},
		EraseMode:    state.ErasePixel,
		LogLevel:     "info",
		Share:        Share{Port: 8888, Advertise: true},
	}
}

// Load reads path over the defaults. A missing file is not an error when
// optional is set.
func Load(path string, optional bool) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		slog.Warn("unknown config keys", "component", "config", "path", path, "keys", undecoded)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.StoreDir == "" {
		return errors.New("store_dir is empty")
	}
	if c.BackingScale <= 0 {
		return fmt.Errorf("backing_scale %g must be positive", c.BackingScale)
	}
	if c.Blank.Width <= 0 || c.Blank.Height <= 0 {
		return fmt.Errorf("blank page %gx%g must be positive", c.Blank.Width, c.Blank.Height)
	}
	if !c.EraseMode.Valid() {
		return fmt.Errorf("erase_mode %q must be pixel or stroke", c.EraseMode)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.Share.Port <= 0 || c.Share.Port > 65535 {
		return fmt.Errorf("share.port %d out of range", c.Share.Port)
	}
	return nil
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("log_level %q: %w", c.LogLevel, err)
	}
	return l, nil
}
