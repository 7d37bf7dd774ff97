package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/SoiletsAce/ContentSync/internal/mapping"
)

// Config represents the optional contentsync configuration file.
type Config struct {
	Defaults DefaultsConfig `toml:"defaults"`
	Regions  RegionsConfig  `toml:"regions"`
	Mapping  MappingConfig  `toml:"mapping"`
	Exclude  ExcludeConfig  `toml:"exclude"`
	Theme    ThemeConfig    `toml:"theme"`
}

// DefaultsConfig holds persistent flag defaults.
type DefaultsConfig struct {
	Languages    []string `toml:"languages"`
	Workers      *int     `toml:"workers"`
	Backup       *bool    `toml:"backup"`
	BackupFormat *string  `toml:"backup_format"`
	Report       *bool    `toml:"report"`
	BWLimit      *string  `toml:"bwlimit"`
	Canonical    *string  `toml:"canonical"`
}

// RegionsConfig overrides the ordered list of synchronized regions.
type RegionsConfig struct {
	Names []string `toml:"names"`
}

// MappingConfig extends the built-in fallback tables.
type MappingConfig struct {
	DefaultLanguage *string                      `toml:"default_language"`
	TourKeyword     *string                      `toml:"tour_keyword"`
	Directories     map[string]map[string]string `toml:"directories"`
	Files           map[string]map[string]string `toml:"files"`
	Tour            map[string]map[string]string `toml:"tour"`
	Generic         []mapping.Substitution       `toml:"generic"`
}

// ExcludeConfig adds entries to the built-in denylists.
type ExcludeConfig struct {
	Files []string `toml:"files"`
	Dirs  []string `toml:"dirs"`
}

// ThemeConfig holds optional color overrides.
type ThemeConfig struct {
	Green  *string `toml:"green"`
	Yellow *string `toml:"yellow"`
	Red    *string `toml:"red"`
	Blue   *string `toml:"blue"`
	Muted  *string `toml:"muted"`
	Bright *string `toml:"bright"`
}

// Path returns the resolved path to the config file.
func Path() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "contentsync", "config.toml")
}

// Load reads the config file from the XDG path. Returns a zero Config
// (no error) if the file does not exist. Config is always optional.
func Load() (Config, error) {
	path := Path()
	if path == "" {
		return Config{}, nil
	}
	cfg, err := LoadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Config{}, nil
	}
	return cfg, err
}

// LoadFile reads the config file at path. Unlike Load, a missing file is an
// error. Unknown keys are rejected so typos in table names surface early.
func LoadFile(path string) (Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, err
		}
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("parse %s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Defaults.Workers != nil && *c.Defaults.Workers < 0 {
		return fmt.Errorf("defaults.workers must not be negative, got %d", *c.Defaults.Workers)
	}
	if c.Defaults.Canonical != nil {
		if _, err := mapping.NormalizeLanguage(*c.Defaults.Canonical); err != nil {
			return fmt.Errorf("defaults.canonical: %w", err)
		}
	}
	for i, g := range c.Mapping.Generic {
		if g.From == "" {
			return fmt.Errorf("mapping.generic[%d]: empty from", i)
		}
	}
	return nil
}

// Tables returns the built-in fallback tables with the file's mapping
// section laid over them.
func (c Config) Tables() mapping.Tables {
	var o mapping.Tables
	if c.Defaults.Canonical != nil {
		// validate has already accepted the code.
		o.Canonical, _ = mapping.NormalizeLanguage(*c.Defaults.Canonical)
	}
	if c.Mapping.DefaultLanguage != nil {
		o.DefaultLanguage = *c.Mapping.DefaultLanguage
	}
	if c.Mapping.TourKeyword != nil {
		o.TourKeyword = *c.Mapping.TourKeyword
	}
	o.Directories = c.Mapping.Directories
	o.Files = c.Mapping.Files
	o.Tour = c.Mapping.Tour
	o.Generic = c.Mapping.Generic
	return mapping.DefaultTables().Merge(o)
}
