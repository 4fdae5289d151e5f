package v1

import (
	"net/http"

	"github.com/vmunix/flixcase/internal/catalog"
)

func (s *Server) listShows(w http.ResponseWriter, r *http.Request) {
	key, asc, err := sortParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, err.Error())
		return
	}

	shows, err := s.deps.Catalog.ListShows(catalog.ShowQuery{
		Sort:      key,
		Ascending: asc,
		Search:    r.URL.Query().Get("q"),
	})
	if err != nil {
		s.writeStoreError(w, r, "show", err)
		return
	}

	resp := listResponse[showResponse]{Items: make([]showResponse, len(shows)), Total: len(shows)}
	for i, sh := range shows {
		resp.Items[i] = showToResponse(sh)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) getShow(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
		return
	}

	sh, err := s.deps.Catalog.GetShow(id)
	if err != nil {
		s.writeStoreError(w, r, "show", err)
		return
	}
	writeJSON(w, http.StatusOK, showToResponse(sh))
}

func (s *Server) listShowTitles(w http.ResponseWriter, r *http.Request) {
	titles, err := s.deps.Catalog.ListShowTitles()
	if err != nil {
		s.writeStoreError(w, r, "show", err)
		return
	}

	resp := listResponse[showTitleResponse]{Items: make([]showTitleResponse, len(titles)), Total: len(titles)}
	for i, t := range titles {
		resp.Items[i] = showTitleResponse{ID: t.ID, Title: t.Title}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) getEpisode(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
		return
	}

	ep, err := s.deps.Catalog.GetEpisode(id)
	if err != nil {
		s.writeStoreError(w, r, "episode", err)
		return
	}
	writeJSON(w, http.StatusOK, episodeToResponse(ep))
}
