// internal/config/error.go
package config

import (
	"errors"
	"strings"
)

// ErrInvalid matches every *ConfigError with errors.Is.
var ErrInvalid = errors.New("invalid config")

// ConfigError collects everything wrong with one config file.
type ConfigError struct {
	Path    string
	Missing []string // unresolved ${VAR} references, "NAME" or "NAME: message"
	Errors  []string // failed validation rules
}

func (e *ConfigError) Error() string {
	if !e.HasErrors() {
		return ""
	}

	var b strings.Builder
	if len(e.Missing) > 0 {
		b.WriteString("missing environment variables: ")
		b.WriteString(strings.Join(e.Missing, ", "))
	}
	if len(e.Errors) > 0 {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("validation failed:")
		for _, msg := range e.Errors {
			b.WriteString("\n  - ")
			b.WriteString(msg)
		}
	}
	return b.String()
}

// Is reports ErrInvalid as a match.
func (e *ConfigError) Is(target error) bool { return target == ErrInvalid }

// HasErrors reports whether any variable or rule failed.
func (e *ConfigError) HasErrors() bool {
	return len(e.Missing) > 0 || len(e.Errors) > 0
}
