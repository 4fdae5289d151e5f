package v1

import (
	"net/http"

	"github.com/vmunix/flixcase/internal/catalog"
)

func (s *Server) listMovies(w http.ResponseWriter, r *http.Request) {
	key, asc, err := sortParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, err.Error())
		return
	}

	movies, err := s.deps.Catalog.ListMovies(catalog.MovieQuery{
		Sort:      key,
		Ascending: asc,
		Search:    r.URL.Query().Get("q"),
	})
	if err != nil {
		s.writeStoreError(w, r, "movie", err)
		return
	}

	resp := listResponse[movieResponse]{Items: make([]movieResponse, len(movies)), Total: len(movies)}
	for i, m := range movies {
		resp.Items[i] = movieToResponse(m)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) getMovie(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
		return
	}

	m, err := s.deps.Catalog.GetMovie(id)
	if err != nil {
		s.writeStoreError(w, r, "movie", err)
		return
	}
	writeJSON(w, http.StatusOK, movieToResponse(m))
}
