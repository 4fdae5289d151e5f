package catalog

import (
	"database/sql"
	"fmt"
	"strings"
)

const movieColumns = "id, title, media_path, thumb_path, added_at, position, duration, played_at"

func scanMovie(sc scanner) (*Movie, error) {
	m := &Movie{}
	var played sql.NullInt64
	if err := sc.Scan(&m.ID, &m.Title, &m.MediaPath, &m.ThumbPath, &m.AddedAt, &m.Position, &m.Duration, &played); err != nil {
		return nil, err
	}
	m.PlayedAt = nullTime(played)
	return m, nil
}

func createMovie(t *Tx, m *Movie) error {
	m.Title = strings.TrimSpace(m.Title)
	if m.Title == "" {
		return invalid("movie title is required")
	}
	if m.MediaPath == "" {
		return invalid("movie media path is required")
	}

	now := t.now().UTC()
	result, err := t.tx.Exec(`
		INSERT INTO movies (title, media_path, thumb_path, added_at)
		VALUES (?, ?, ?, ?)`,
		m.Title, m.MediaPath, m.ThumbPath, now,
	)
	if err != nil {
		return fmt.Errorf("insert movie: %w", mapSQLiteError(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	for i := range m.Subtitles {
		sub := &m.Subtitles[i]
		sub.MovieID = id
		if err := addSubtitle(t.tx, sub); err != nil {
			return err
		}
	}

	m.ID = id
	m.AddedAt = now
	m.Position = 0
	m.Duration = 0
	m.PlayedAt = nil
	return nil
}

func addSubtitle(q querier, sub *Subtitle) error {
	embedded := 0
	if sub.Embedded {
		embedded = 1
	}
	result, err := q.Exec(`
		INSERT INTO subtitles (movie_id, path, label, embedded, track_index)
		VALUES (?, ?, ?, ?, ?)`,
		sub.MovieID, sub.Path, sub.Label, embedded, sub.TrackIndex,
	)
	if err != nil {
		return fmt.Errorf("insert subtitle for movie %d: %w", sub.MovieID, mapSQLiteError(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	sub.ID = id
	return nil
}

// CreateMovie inserts a movie and its subtitles as one unit.
// Sets ID and AddedAt on the movie and ID/MovieID on each subtitle.
// If any insert fails nothing is written.
func (s *Store) CreateMovie(m *Movie) error {
	return s.inTx(func(tx *Tx) error { return createMovie(tx, m) })
}

// CreateMovie inserts a movie and its subtitles within a transaction.
func (t *Tx) CreateMovie(m *Movie) error { return createMovie(t, m) }

func getMovie(q querier, id int64) (*Movie, error) {
	m, err := scanMovie(q.QueryRow("SELECT "+movieColumns+" FROM movies WHERE id = ?", id))
	if err != nil {
		return nil, fmt.Errorf("get movie %d: %w", id, mapSQLiteError(err))
	}
	subs, err := movieSubtitles(q, id)
	if err != nil {
		return nil, err
	}
	m.Subtitles = subs
	return m, nil
}

func movieSubtitles(q querier, movieID int64) ([]Subtitle, error) {
	rows, err := q.Query(`
		SELECT id, movie_id, path, label, embedded, track_index
		FROM subtitles WHERE movie_id = ? ORDER BY id`, movieID)
	if err != nil {
		return nil, fmt.Errorf("list subtitles for movie %d: %w", movieID, err)
	}
	defer func() { _ = rows.Close() }()

	var subs []Subtitle
	for rows.Next() {
		sub, err := scanSubtitle(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subtitles: %w", err)
	}
	return subs, nil
}

func scanSubtitle(sc scanner) (Subtitle, error) {
	var sub Subtitle
	var embedded int
	if err := sc.Scan(&sub.ID, &sub.MovieID, &sub.Path, &sub.Label, &embedded, &sub.TrackIndex); err != nil {
		return sub, fmt.Errorf("scan subtitle: %w", err)
	}
	sub.Embedded = embedded != 0
	return sub, nil
}

// GetMovie retrieves a movie with its subtitles.
// Returns ErrNotFound if the movie does not exist.
func (s *Store) GetMovie(id int64) (*Movie, error) { return getMovie(s.db, id) }

// GetMovie retrieves a movie within a transaction.
func (t *Tx) GetMovie(id int64) (*Movie, error) { return getMovie(t.tx, id) }

func listMovies(q querier, mq MovieQuery) ([]*Movie, error) {
	where := ""
	var args []any
	if mq.Search != "" {
		where = ` WHERE title LIKE ? ESCAPE '\'`
		args = append(args, likePattern(mq.Search))
	}

	rows, err := q.Query("SELECT "+movieColumns+" FROM movies"+where+orderBy("", mq.Sort, mq.Ascending), args...)
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var movies []*Movie
	byID := make(map[int64]*Movie)
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movie: %w", err)
		}
		movies = append(movies, m)
		byID[m.ID] = m
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate movies: %w", err)
	}
	if len(movies) == 0 {
		return movies, nil
	}

	// Subtitles for every listed movie in one pass, using the same filter.
	subRows, err := q.Query(`
		SELECT s.id, s.movie_id, s.path, s.label, s.embedded, s.track_index
		FROM subtitles s JOIN movies ON movies.id = s.movie_id`+where+`
		ORDER BY s.movie_id, s.id`, args...)
	if err != nil {
		return nil, fmt.Errorf("list subtitles: %w", err)
	}
	defer func() { _ = subRows.Close() }()
	for subRows.Next() {
		sub, err := scanSubtitle(subRows)
		if err != nil {
			return nil, err
		}
		if m, ok := byID[sub.MovieID]; ok {
			m.Subtitles = append(m.Subtitles, sub)
		}
	}
	if err := subRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subtitles: %w", err)
	}
	return movies, nil
}

// ListMovies returns movies, with their subtitles, in the requested order.
func (s *Store) ListMovies(mq MovieQuery) ([]*Movie, error) { return listMovies(s.db, mq) }

// ListMovies returns movies within a transaction.
func (t *Tx) ListMovies(mq MovieQuery) ([]*Movie, error) { return listMovies(t.tx, mq) }

// SearchMovies returns movies whose title contains query, ignoring case.
func (s *Store) SearchMovies(query string, key SortKey, asc bool) ([]*Movie, error) {
	return listMovies(s.db, MovieQuery{Sort: key, Ascending: asc, Search: query})
}

func renameMovie(q querier, id int64, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return invalid("movie title is required")
	}
	result, err := q.Exec("UPDATE movies SET title = ? WHERE id = ?", title, id)
	if err != nil {
		return fmt.Errorf("rename movie %d: %w", id, mapSQLiteError(err))
	}
	return checkAffected(result, "rename movie", id)
}

// RenameMovie changes a movie's title. Files on disk are not moved.
func (s *Store) RenameMovie(id int64, title string) error { return renameMovie(s.db, id, title) }

// RenameMovie changes a movie's title within a transaction.
func (t *Tx) RenameMovie(id int64, title string) error { return renameMovie(t.tx, id, title) }

func deleteMovie(t *Tx, id int64) (*Movie, error) {
	m, err := getMovie(t.tx, id)
	if err != nil {
		return nil, err
	}
	if _, err := t.tx.Exec("DELETE FROM movies WHERE id = ?", id); err != nil {
		return nil, fmt.Errorf("delete movie %d: %w", id, mapSQLiteError(err))
	}
	return m, nil
}

// DeleteMovie removes a movie and its subtitles, returning the deleted row so
// the caller can remove the files it referenced.
// Returns ErrNotFound if the movie does not exist.
func (s *Store) DeleteMovie(id int64) (*Movie, error) {
	var m *Movie
	err := s.inTx(func(tx *Tx) error {
		var err error
		m, err = deleteMovie(tx, id)
		return err
	})
	return m, err
}

// DeleteMovie removes a movie within a transaction.
func (t *Tx) DeleteMovie(id int64) (*Movie, error) { return deleteMovie(t, id) }

// CountMovies returns the number of movies in the catalog.
func (s *Store) CountMovies() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM movies").Scan(&n); err != nil {
		return 0, fmt.Errorf("count movies: %w", err)
	}
	return n, nil
}
