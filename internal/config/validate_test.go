// internal/config/validate_test.go
package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate_Default(t *testing.T) {
	assert.Empty(t, Default().Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"empty root", func(c *Config) { c.Library.Root = " " }, "library.root"},
		{"empty database", func(c *Config) { c.Library.Database = "" }, "library.database"},
		{"bad hwaccel", func(c *Config) { c.Encoder.HWAccel = "cuda" }, "encoder.hwaccel"},
		{"unknown preset", func(c *Config) { c.Encoder.DefaultPreset = "ultra" }, "encoder.default_preset"},
		{"negative diagnostics", func(c *Config) { c.Encoder.DiagnosticsLimit = -1 }, "encoder.diagnostics_limit"},
		{"negative resume limit", func(c *Config) { c.Resume.Limit = -5 }, "resume.limit"},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"negative port", func(c *Config) { c.Server.Port = -1 }, "server.port"},
		{"negative retention", func(c *Config) { c.History.RetentionDays = -1 }, "history.retention_days"},
		{"log level", func(c *Config) { c.Log.Level = "verbose" }, "log.level"},
		{"log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			errs := cfg.Validate()
			assert.True(t, containsError(errs, tt.want), "expected %s error, got %v", tt.want, errs)
		})
	}
}

func TestValidate_HWAccelCaseInsensitive(t *testing.T) {
	cfg := Default()
	cfg.Encoder.HWAccel = "VAAPI"
	assert.Empty(t, cfg.Validate())
}

func TestValidate_AllPresetsAccepted(t *testing.T) {
	for _, p := range []string{"copy", "lossless", "high", "balanced", "space_saver"} {
		cfg := Default()
		cfg.Encoder.DefaultPreset = p
		assert.Empty(t, cfg.Validate(), "preset %s", p)
	}
}

func containsError(errs []string, substr string) bool {
	for _, e := range errs {
		if strings.Contains(e, substr) {
			return true
		}
	}
	return false
}
