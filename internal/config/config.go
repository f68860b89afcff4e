package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

// EnvPrefix prefixes every environment override, e.g. SALESBOARD_SERVER_ADDR.
const EnvPrefix = "SALESBOARD_"

// Config holds all salesboard configuration.
type Config struct {
	General    GeneralConfig    `toml:"general" envPrefix:"GENERAL_"`
	Appearance AppearanceConfig `toml:"appearance" envPrefix:"APPEARANCE_"`
	Server     ServerConfig     `toml:"server" envPrefix:"SERVER_"`
	Archive    ArchiveConfig    `toml:"archive" envPrefix:"ARCHIVE_"`
	Logging    LoggingConfig    `toml:"logging" envPrefix:"LOGGING_"`
}

// GeneralConfig holds ledger and formatting defaults.
type GeneralConfig struct {
	DefaultTarget  float64 `toml:"default_target" env:"DEFAULT_TARGET"`
	CurrencySymbol string  `toml:"currency_symbol" env:"CURRENCY_SYMBOL"`
	Locale         string  `toml:"locale" env:"LOCALE"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme" env:"THEME"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Addr         string   `toml:"addr" env:"ADDR"`
	SessionTTL   Duration `toml:"session_ttl" env:"SESSION_TTL"`
	EventsBuffer int      `toml:"events_buffer" env:"EVENTS_BUFFER"`
	PIDFile      string   `toml:"pid_file,omitempty" env:"PID_FILE"`
}

// ArchiveConfig holds the snapshot archive location.
type ArchiveConfig struct {
	Path string `toml:"path,omitempty" env:"PATH"`
}

// LoggingConfig holds slog handler settings.
type LoggingConfig struct {
	Level  string `toml:"level" env:"LEVEL"`
	Format string `toml:"format" env:"FORMAT"`
}

// Duration is a time.Duration that reads and writes as a string like "30m".
type Duration struct {
	time.Duration
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return fmt.Errorf("parsing duration %q: %w", b, err)
	}
	d.Duration = v
	return nil
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			DefaultTarget:  50000,
			CurrencySymbol: "₹",
			Locale:         "en",
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Server: ServerConfig{
			Addr:         "127.0.0.1:8787",
			SessionTTL:   Duration{30 * time.Minute},
			EventsBuffer: 200,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "salesboard")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "salesboard")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// DataDir returns the XDG-compliant data directory used for the archive and pid file.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "salesboard")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "salesboard")
}

// ArchivePath returns the configured archive path, or the default under DataDir.
func (c Config) ArchivePath() string {
	if c.Archive.Path != "" {
		return c.Archive.Path
	}
	return filepath.Join(DataDir(), "archive.db")
}

// PIDPath returns the configured server pid file, or the default under DataDir.
func (c Config) PIDPath() string {
	if c.Server.PIDFile != "" {
		return c.Server.PIDFile
	}
	return filepath.Join(DataDir(), "serve.pid")
}

// Load reads the config file, returning defaults if it doesn't exist,
// then applies environment overrides.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil && !os.IsNotExist(err) {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err == nil {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	}

	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ApplyEnv overlays SALESBOARD_* environment variables onto cfg.
// Unset variables leave the existing value alone.
func ApplyEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return nil
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
