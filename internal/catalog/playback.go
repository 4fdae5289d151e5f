package catalog

import (
	"fmt"
	"time"
)

// Position writes also stamp played_at, which orders ContinueWatching.
// Updates on an unknown id return ErrNotFound; negative, NaN or infinite
// values return ErrValidation.

func updatePosition(q querier, now func() time.Time, table string, id int64, seconds float64) error {
	if !validSeconds(seconds) {
		return invalid("position must be a non-negative number of seconds, got %v", seconds)
	}
	result, err := q.Exec("UPDATE "+table+" SET position = ?, played_at = ? WHERE id = ?",
		seconds, now().UnixNano(), id)
	if err != nil {
		return fmt.Errorf("update %s %d position: %w", table, id, mapSQLiteError(err))
	}
	return checkAffected(result, "update "+table+" position", id)
}

func updateDuration(q querier, table string, id int64, seconds float64) error {
	if !validSeconds(seconds) {
		return invalid("duration must be a non-negative number of seconds, got %v", seconds)
	}
	result, err := q.Exec("UPDATE "+table+" SET duration = ? WHERE id = ?", seconds, id)
	if err != nil {
		return fmt.Errorf("update %s %d duration: %w", table, id, mapSQLiteError(err))
	}
	return checkAffected(result, "update "+table+" duration", id)
}

// UpdateMoviePosition records the playback position of a movie in seconds.
func (s *Store) UpdateMoviePosition(id int64, seconds float64) error {
	return updatePosition(s.db, s.now, "movies", id, seconds)
}

// UpdateMovieDuration records the observed duration of a movie in seconds.
func (s *Store) UpdateMovieDuration(id int64, seconds float64) error {
	return updateDuration(s.db, "movies", id, seconds)
}

// UpdateEpisodePosition records the playback position of an episode in seconds.
func (s *Store) UpdateEpisodePosition(id int64, seconds float64) error {
	return updatePosition(s.db, s.now, "episodes", id, seconds)
}

// UpdateEpisodeDuration records the observed duration of an episode in seconds.
func (s *Store) UpdateEpisodeDuration(id int64, seconds float64) error {
	return updateDuration(s.db, "episodes", id, seconds)
}

// UpdateMovieDuration records a movie duration within a transaction.
func (t *Tx) UpdateMovieDuration(id int64, seconds float64) error {
	return updateDuration(t.tx, "movies", id, seconds)
}

// UpdateEpisodeDuration records an episode duration within a transaction.
func (t *Tx) UpdateEpisodeDuration(id int64, seconds float64) error {
	return updateDuration(t.tx, "episodes", id, seconds)
}
