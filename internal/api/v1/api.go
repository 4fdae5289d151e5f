// Package v1 implements the JSON API over the catalog used by media players.
package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/vmunix/flixcase/internal/catalog"
	"github.com/vmunix/flixcase/internal/events"
)

// Server is the v1 API server.
type Server struct {
	deps   ServerDeps
	logger *slog.Logger
}

// New creates a new v1 API server.
func New(deps ServerDeps) (*Server, error) {
	if err := deps.Validate(); err != nil {
		return nil, err
	}
	if deps.Registry == nil {
		deps.Registry = events.DefaultRegistry()
	}
	if deps.ResumeLimit <= 0 {
		deps.ResumeLimit = catalog.DefaultResumeLimit
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{deps: deps, logger: logger.With("component", "api")}, nil
}

// RegisterRoutes registers API routes on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	// Movies
	mux.HandleFunc("GET /api/v1/movies", s.listMovies)
	mux.HandleFunc("GET /api/v1/movies/{id}", s.getMovie)
	mux.HandleFunc("PUT /api/v1/movies/{id}/playback", s.updateMoviePlayback)

	// Shows
	mux.HandleFunc("GET /api/v1/shows", s.listShows)
	mux.HandleFunc("GET /api/v1/shows/titles", s.listShowTitles)
	mux.HandleFunc("GET /api/v1/shows/{id}", s.getShow)
	mux.HandleFunc("GET /api/v1/episodes/{id}", s.getEpisode)
	mux.HandleFunc("PUT /api/v1/episodes/{id}/playback", s.updateEpisodePlayback)

	// Continue watching
	mux.HandleFunc("GET /api/v1/resume", s.listResume)

	// Settings
	mux.HandleFunc("GET /api/v1/settings", s.listSettings)
	mux.HandleFunc("GET /api/v1/settings/{key}", s.getSetting)
	mux.HandleFunc("PUT /api/v1/settings/{key}", s.putSetting)

	// System
	mux.HandleFunc("GET /api/v1/presets", s.listPresets)
	mux.HandleFunc("GET /api/v1/status", s.getStatus)
	mux.HandleFunc("GET /api/v1/history", s.requireEventLog(s.listHistory))
}

// Handler returns the routes wrapped with request logging and metrics.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return instrument(mux, s.logger)
}

// Error response
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

const (
	codeNotFound    = "NOT_FOUND"
	codeInvalidID   = "INVALID_ID"
	codeValidation  = "VALIDATION"
	codeInvalidJSON = "INVALID_JSON"
	codeDBError     = "DB_ERROR"
	codeUnavailable = "SERVICE_UNAVAILABLE"
)

func writeError(w http.ResponseWriter, code int, errCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: message, Code: errCode})
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

// writeStoreError maps catalog errors to responses. what names the entity
// in not-found messages.
func (s *Server) writeStoreError(w http.ResponseWriter, r *http.Request, what string, err error) {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, what+" not found")
	case errors.Is(err, catalog.ErrValidation):
		writeError(w, http.StatusBadRequest, codeValidation, err.Error())
	default:
		s.logger.Error("catalog request failed", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, codeDBError, err.Error())
	}
}

// pathID extracts a positive integer ID from the URL path.
func pathID(r *http.Request, name string) (int64, error) {
	idStr := r.PathValue(name)
	if idStr == "" {
		return 0, fmt.Errorf("missing path parameter: %s", name)
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid %s: %q", name, idStr)
	}
	return id, nil
}

// queryInt extracts an optional integer from query string.
func queryInt(r *http.Request, name string, defaultVal int) (int, error) {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal, nil
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return i, nil
}

// sortParams reads sort and order. Title sorts default to ascending, date
// sorts to newest first.
func sortParams(r *http.Request) (catalog.SortKey, bool, error) {
	key := catalog.ParseSortKey(r.URL.Query().Get("sort"))
	switch order := r.URL.Query().Get("order"); order {
	case "":
		return key, key == catalog.SortTitle, nil
	case "asc":
		return key, true, nil
	case "desc":
		return key, false, nil
	default:
		return key, false, fmt.Errorf("order must be asc or desc, got %q", order)
	}
}
