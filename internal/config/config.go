// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/vmunix/flixcase/internal/transcode"
)

// Config is the root configuration structure.
type Config struct {
	Library LibraryConfig `toml:"library"`
	Encoder EncoderConfig `toml:"encoder"`
	Resume  ResumeConfig  `toml:"resume"`
	Server  ServerConfig  `toml:"server"`
	History HistoryConfig `toml:"history"`
	Log     LogConfig     `toml:"log"`
}

type LibraryConfig struct {
	Root     string `toml:"root"`
	Database string `toml:"database"` // relative paths resolve against Root
}

type EncoderConfig struct {
	FFmpeg           string `toml:"ffmpeg"`
	FFprobe          string `toml:"ffprobe"`
	HWAccel          string `toml:"hwaccel"`
	VAAPIDevice      string `toml:"vaapi_device"`
	DefaultPreset    string `toml:"default_preset"`
	DiagnosticsLimit int    `toml:"diagnostics_limit"`
}

type ResumeConfig struct {
	Limit int `toml:"limit"`
}

type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// HistoryConfig controls how long import events are kept. Zero keeps
// them forever.
type HistoryConfig struct {
	RetentionDays int `toml:"retention_days"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Defaults.
const (
	DefaultLibraryRoot = "./library"
	DefaultDatabase    = "catalog.db"
	DefaultHWAccel     = "auto"
	DefaultVAAPIDevice = "/dev/dri/renderD128"
	DefaultPreset      = "balanced"
	DefaultResumeLimit = 20
	DefaultHost        = "127.0.0.1"
	DefaultPort        = 8485
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"
	DefaultRetention   = 90 // days
	defaultDiagnostics = transcode.DefaultDiagnosticsLimit
)

// Default returns the built-in configuration used when no file is found.
func Default() *Config {
	cfg := &Config{History: HistoryConfig{RetentionDays: DefaultRetention}}
	cfg.applyDefaults()
	return cfg
}

// Load reads, substitutes, parses, and validates a config file.
// Relative library roots resolve against the directory holding the file.
func Load(path string) (*Config, error) {
	cfg, err := LoadWithoutValidation(path)
	if err != nil {
		return nil, err
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, &ConfigError{Path: path, Errors: errs}
	}
	return cfg, nil
}

// LoadWithoutValidation loads config without running validation.
func LoadWithoutValidation(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	content, missing := substituteEnvVars(string(data))
	if len(missing) > 0 {
		return nil, &ConfigError{Path: path, Missing: missing}
	}

	// Keys absent from the file keep these values, so an explicit 0 differs
	// from an omitted retention.
	cfg := Config{History: HistoryConfig{RetentionDays: DefaultRetention}}
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()

	if !filepath.IsAbs(cfg.Library.Root) {
		cfg.Library.Root = filepath.Join(filepath.Dir(path), cfg.Library.Root)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Library.Root == "" {
		c.Library.Root = DefaultLibraryRoot
	}
	if c.Library.Database == "" {
		c.Library.Database = DefaultDatabase
	}
	if c.Encoder.HWAccel == "" {
		c.Encoder.HWAccel = DefaultHWAccel
	}
	if c.Encoder.VAAPIDevice == "" {
		c.Encoder.VAAPIDevice = DefaultVAAPIDevice
	}
	if c.Encoder.DefaultPreset == "" {
		c.Encoder.DefaultPreset = DefaultPreset
	}
	if c.Encoder.DiagnosticsLimit == 0 {
		c.Encoder.DiagnosticsLimit = defaultDiagnostics
	}
	if c.Resume.Limit == 0 {
		c.Resume.Limit = DefaultResumeLimit
	}
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
}

// DatabasePath returns the catalog database location.
func (c *Config) DatabasePath() string {
	if filepath.IsAbs(c.Library.Database) {
		return c.Library.Database
	}
	return filepath.Join(c.Library.Root, c.Library.Database)
}

// Addr returns the API listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// EventRetention returns the history retention window, 0 for unlimited.
func (c *Config) EventRetention() time.Duration {
	return time.Duration(c.History.RetentionDays) * 24 * time.Hour
}

// TranscodeConfig converts the encoder section. Call after Validate.
func (c *Config) TranscodeConfig() transcode.Config {
	accel, _ := transcode.ParseHWAccel(c.Encoder.HWAccel)
	return transcode.Config{
		FFmpeg:           c.Encoder.FFmpeg,
		FFprobe:          c.Encoder.FFprobe,
		HWAccel:          accel,
		VAAPIDevice:      c.Encoder.VAAPIDevice,
		DiagnosticsLimit: c.Encoder.DiagnosticsLimit,
	}
}

// envVarPattern matches ${VAR}, ${VAR:-default}, and ${VAR:?message}.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?:(:-|:\?)([^}]*))?\}`)

// substituteEnvVars expands variable references outside of comment lines.
// References that cannot be resolved are left in place and reported in
// missing.
func substituteEnvVars(content string) (string, []string) {
	var missing []string
	lines := strings.SplitAfter(content, "\n")
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		var m []string
		lines[i], m = substituteLine(line)
		missing = append(missing, m...)
	}
	return strings.Join(lines, ""), missing
}

func substituteLine(line string) (string, []string) {
	var missing []string
	result := envVarPattern.ReplaceAllStringFunc(line, func(match string) string {
		parts := envVarPattern.FindStringSubmatch(match)
		name, op, arg := parts[1], parts[2], parts[3]
		value, ok := os.LookupEnv(name)

		switch op {
		case ":-":
			if value == "" {
				return arg
			}
			return value
		case ":?":
			if value == "" {
				missing = append(missing, name+": "+arg)
				return match
			}
			return value
		default:
			if !ok {
				missing = append(missing, name)
				return match
			}
			return value
		}
	})
	return result, missing
}
