package v1

import (
	"encoding/json"
	"net/http"
)

// positionUpdater is the pair of store writes for one playable kind.
type positionUpdater struct {
	what     string
	duration func(id int64, seconds float64) error
	position func(id int64, seconds float64) error
	reload   func(id int64) (any, error)
}

func (s *Server) updateMoviePlayback(w http.ResponseWriter, r *http.Request) {
	s.updatePlayback(w, r, positionUpdater{
		what:     "movie",
		duration: s.deps.Catalog.UpdateMovieDuration,
		position: s.deps.Catalog.UpdateMoviePosition,
		reload: func(id int64) (any, error) {
			m, err := s.deps.Catalog.GetMovie(id)
			if err != nil {
				return nil, err
			}
			return movieToResponse(m), nil
		},
	})
}

func (s *Server) updateEpisodePlayback(w http.ResponseWriter, r *http.Request) {
	s.updatePlayback(w, r, positionUpdater{
		what:     "episode",
		duration: s.deps.Catalog.UpdateEpisodeDuration,
		position: s.deps.Catalog.UpdateEpisodePosition,
		reload: func(id int64) (any, error) {
			ep, err := s.deps.Catalog.GetEpisode(id)
			if err != nil {
				return nil, err
			}
			return episodeToResponse(ep), nil
		},
	})
}

func (s *Server) updatePlayback(w http.ResponseWriter, r *http.Request, u positionUpdater) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
		return
	}

	var req playbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidJSON, err.Error())
		return
	}

	position := 0.0
	switch {
	case req.Finished:
	case req.Position != nil:
		position = *req.Position
	default:
		writeError(w, http.StatusBadRequest, codeValidation, "position is required unless finished is set")
		return
	}

	if req.Duration != nil {
		if err := u.duration(id, *req.Duration); err != nil {
			s.writeStoreError(w, r, u.what, err)
			return
		}
	}
	if err := u.position(id, position); err != nil {
		s.writeStoreError(w, r, u.what, err)
		return
	}

	item, err := u.reload(id)
	if err != nil {
		s.writeStoreError(w, r, u.what, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}
