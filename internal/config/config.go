// Package config loads tool settings from flags, environment and an
// optional adbtool.yaml, and knows where the agent keeps its databases.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/illarion/adbtool/internal/storage"
	"github.com/illarion/adbtool/internal/valuefmt"
	"github.com/spf13/viper"
)

// Engine names
const (
	EngineLevelDB = "leveldb"
	EngineBolt    = "bolt"
)

// Database directory names inside the agent's conf directory
const (
	DatabaseADB = "adb"
	DatabaseUDB = "udb"
)

var ErrDatabaseNotFound = errors.New("couldn't find your database path automatically, supply a --path option instead")

// Config holds the resolved settings
type Config struct {
	Path           string          `mapstructure:"path"`
	Database       string          `mapstructure:"database"`
	Engine         string          `mapstructure:"engine"`
	MacSerial      string          `mapstructure:"mac_serial"`
	LinuxSerial    string          `mapstructure:"linux_serial"`
	Format         valuefmt.Format `mapstructure:"format"`
	ComparatorName string          `mapstructure:"comparator_name"`
	Verbose        bool            `mapstructure:"verbose"`
}

// New returns a viper instance with the tool's defaults and search paths
func New() *viper.Viper {
	v := viper.New()
	v.SetConfigName("adbtool")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.adbtool")
	v.AddConfigPath("/etc/adbtool")

	v.SetDefault("path", "")
	v.SetDefault("database", DatabaseADB)
	v.SetDefault("engine", EngineLevelDB)
	v.SetDefault("mac_serial", "")
	v.SetDefault("linux_serial", "")
	v.SetDefault("format", string(valuefmt.Raw))
	v.SetDefault("comparator_name", storage.DefaultComparerName)
	v.SetDefault("verbose", false)

	v.SetEnvPrefix("ADBTOOL")
	v.AutomaticEnv()
	return v
}

// Load reads the config file if one exists and decodes all settings
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks enumerated settings
func (c *Config) Validate() error {
	switch c.Database {
	case DatabaseADB, DatabaseUDB:
	default:
		return fmt.Errorf("unknown database %q (want adb or udb)", c.Database)
	}
	switch c.Engine {
	case EngineLevelDB, EngineBolt:
	default:
		return fmt.Errorf("unknown engine %q (want leveldb or bolt)", c.Engine)
	}
	return c.Format.Set(string(c.Format))
}

// Env supplies the environment DatabasePaths consults
type Env func(key string) string

// DatabasePaths lists where the agent keeps dirName on goos, most specific first
func DatabasePaths(goos string, env Env, dirName string) []string {
	conf := filepath.Join("CrashPlan", "conf", dirName)

	switch goos {
	case "darwin":
		var paths []string
		if home := env("HOME"); home != "" {
			paths = append(paths, filepath.Join(home, "Library", "Application Support", conf))
		}
		return append(paths, filepath.Join("/Library", "Application Support", conf))
	case "windows":
		var paths []string
		for _, key := range []string{"LOCALAPPDATA", "ProgramData"} {
			if dir := env(key); dir != "" {
				paths = append(paths, filepath.Join(dir, conf))
			}
		}
		return paths
	default:
		return []string{filepath.Join("/usr/local/crashplan/conf", dirName)}
	}
}

// Locate returns the first candidate path that is an existing directory
func Locate(paths []string) (string, error) {
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			return p, nil
		}
	}
	return "", ErrDatabaseNotFound
}

// ResolvePath returns the configured path, or locates the agent database
func (c *Config) ResolvePath(goos string, env Env) (string, error) {
	if c.Path != "" {
		return c.Path, nil
	}
	return Locate(DatabasePaths(goos, env, c.Database))
}
