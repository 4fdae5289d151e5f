package v1

import (
	"encoding/json"
	"net/http"

	"github.com/vmunix/flixcase/internal/transcode"
)

func (s *Server) listResume(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", s.deps.ResumeLimit)
	if err != nil || limit < 1 {
		writeError(w, http.StatusBadRequest, codeValidation, "limit must be a positive integer")
		return
	}

	items, err := s.deps.Catalog.ContinueWatching(limit)
	if err != nil {
		s.writeStoreError(w, r, "item", err)
		return
	}

	resp := listResponse[resumeItemResponse]{Items: make([]resumeItemResponse, len(items)), Total: len(items)}
	for i, item := range items {
		resp.Items[i] = resumeToResponse(item)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) listSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.deps.Catalog.Settings()
	if err != nil {
		s.writeStoreError(w, r, "setting", err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) getSetting(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	settings, err := s.deps.Catalog.Settings()
	if err != nil {
		s.writeStoreError(w, r, "setting", err)
		return
	}
	value, ok := settings[key]
	if !ok {
		writeError(w, http.StatusNotFound, codeNotFound, "setting not found")
		return
	}
	writeJSON(w, http.StatusOK, settingResponse{Key: key, Value: value})
}

func (s *Server) putSetting(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	var req settingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidJSON, err.Error())
		return
	}
	if req.Value == nil {
		writeError(w, http.StatusBadRequest, codeValidation, "value is required")
		return
	}

	if err := s.deps.Catalog.SetSetting(key, *req.Value); err != nil {
		s.writeStoreError(w, r, "setting", err)
		return
	}
	writeJSON(w, http.StatusOK, settingResponse{Key: key, Value: *req.Value})
}

func (s *Server) listPresets(w http.ResponseWriter, r *http.Request) {
	presets := transcode.Presets()
	resp := listResponse[presetResponse]{Items: make([]presetResponse, len(presets)), Total: len(presets)}
	for i, p := range presets {
		resp.Items[i] = presetResponse{
			Key:          p.Key,
			Name:         p.Name,
			Description:  p.Description,
			VideoCodec:   p.VideoCodec,
			Quality:      p.Quality,
			AudioCodec:   p.AudioCodec,
			AudioBitrate: p.AudioBitrate,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) getStatus(w http.ResponseWriter, r *http.Request) {
	movies, err := s.deps.Catalog.CountMovies()
	if err != nil {
		s.writeStoreError(w, r, "movie", err)
		return
	}
	shows, err := s.deps.Catalog.CountShows()
	if err != nil {
		s.writeStoreError(w, r, "show", err)
		return
	}

	resp := statusResponse{Status: "ok", Movies: movies, Shows: shows}
	if lib := s.deps.Library; lib != nil {
		resp.LibraryRoot = lib.Root()
		if space, err := lib.FreeSpace(); err == nil {
			resp.FreeBytes, resp.TotalBytes = &space.Free, &space.Total
		} else {
			s.logger.Warn("free space unavailable", "root", lib.Root(), "error", err)
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
