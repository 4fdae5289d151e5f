package v1

import (
	"encoding/json"
	"net/http"

	"github.com/vmunix/flixcase/internal/events"
)

const maxHistoryLimit = 1000

// listHistory returns persisted import events, newest first, or the full
// event sequence of one import when operation is given.
func (s *Server) listHistory(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 50)
	if err != nil || limit < 1 {
		writeError(w, http.StatusBadRequest, codeValidation, "limit must be a positive integer")
		return
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	var raw []events.RawEvent
	if op := r.URL.Query().Get("operation"); op != "" {
		raw, err = s.deps.EventLog.ForOperation(r.Context(), op)
	} else {
		raw, err = s.deps.EventLog.Recent(r.Context(), limit)
	}
	if err != nil {
		s.logger.Error("read event log", "error", err)
		writeError(w, http.StatusInternalServerError, codeDBError, err.Error())
		return
	}

	resp := listResponse[eventResponse]{Items: make([]eventResponse, len(raw)), Total: len(raw)}
	for i, e := range raw {
		resp.Items[i] = eventResponse{
			ID:         e.ID,
			Type:       e.EventType,
			EntityType: e.EntityType,
			EntityID:   e.EntityID,
			Summary:    s.deps.Registry.Describe(e),
			OccurredAt: e.OccurredAt,
			Payload:    json.RawMessage(e.Payload),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
