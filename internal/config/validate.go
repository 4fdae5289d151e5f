// internal/config/validate.go
package config

import (
	"fmt"
	"strings"

	"github.com/vmunix/flixcase/internal/transcode"
)

// Validate checks the config for errors.
// Returns a slice of validation error messages.
func (c *Config) Validate() []string {
	var errs []string

	if strings.TrimSpace(c.Library.Root) == "" {
		errs = append(errs, "library.root is required")
	}
	if strings.TrimSpace(c.Library.Database) == "" {
		errs = append(errs, "library.database is required")
	}

	if _, err := transcode.ParseHWAccel(c.Encoder.HWAccel); err != nil {
		errs = append(errs, fmt.Sprintf("encoder.hwaccel: %q is not one of auto, none, nvidia, qsv, vaapi, videotoolbox", c.Encoder.HWAccel))
	}
	if c.Encoder.DefaultPreset != "" {
		if _, err := transcode.LookupPreset(c.Encoder.DefaultPreset); err != nil {
			errs = append(errs, fmt.Sprintf("encoder.default_preset: unknown preset %q", c.Encoder.DefaultPreset))
		}
	}
	if c.Encoder.DiagnosticsLimit < 0 {
		errs = append(errs, "encoder.diagnostics_limit must not be negative")
	}

	if c.Resume.Limit < 0 {
		errs = append(errs, "resume.limit must not be negative")
	}

	if c.History.RetentionDays < 0 {
		errs = append(errs, "history.retention_days must not be negative")
	}

	if c.Server.Port != 0 && (c.Server.Port < 1 || c.Server.Port > 65535) {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}

	if c.Log.Level != "" {
		switch strings.ToLower(c.Log.Level) {
		case "debug", "info", "warn", "error":
		default:
			errs = append(errs, fmt.Sprintf("log.level must be debug, info, warn, or error, got %q", c.Log.Level))
		}
	}
	if c.Log.Format != "" && c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, fmt.Sprintf("log.format must be text or json, got %q", c.Log.Format))
	}

	return errs
}
