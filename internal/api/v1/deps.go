package v1

import (
	"errors"
	"log/slog"

	"github.com/vmunix/flixcase/internal/catalog"
	"github.com/vmunix/flixcase/internal/events"
	"github.com/vmunix/flixcase/internal/library"
)

// ErrMissingDependency is returned when a required dependency is nil.
var ErrMissingDependency = errors.New("missing required dependency")

// ServerDeps contains all dependencies for the API server.
// Required dependencies must be non-nil; optional dependencies may be nil.
type ServerDeps struct {
	// Required dependencies
	Catalog *catalog.Store

	// Optional dependencies (nil if not configured)
	Library  *library.Library // status free space
	EventLog *events.EventLog // import history
	Registry *events.Registry // history summaries; DefaultRegistry when nil
	Logger   *slog.Logger

	ResumeLimit int
}

// Validate checks that all required dependencies are provided.
func (d ServerDeps) Validate() error {
	if d.Catalog == nil {
		return errors.Join(ErrMissingDependency, errors.New("catalog store is required"))
	}
	return nil
}
