package catalog

import (
	"fmt"
	"strings"
	"time"
)

func createShow(q querier, now func() time.Time, sh *Show) error {
	sh.Title = strings.TrimSpace(sh.Title)
	if sh.Title == "" {
		return invalid("show title is required")
	}
	added := now().UTC()
	result, err := q.Exec(`
		INSERT INTO shows (title, dir, thumb_path, added_at) VALUES (?, ?, ?, ?)`,
		sh.Title, sh.Dir, sh.ThumbPath, added,
	)
	if err != nil {
		return fmt.Errorf("insert show: %w", mapSQLiteError(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	sh.ID = id
	sh.AddedAt = added
	return nil
}

// CreateShow inserts a show. Sets ID and AddedAt.
func (s *Store) CreateShow(sh *Show) error { return createShow(s.db, s.now, sh) }

// CreateShow inserts a show within a transaction.
func (t *Tx) CreateShow(sh *Show) error { return createShow(t.tx, t.now, sh) }

func getShowRow(q querier, id int64) (*Show, error) {
	sh := &Show{}
	err := q.QueryRow("SELECT id, title, dir, thumb_path, added_at FROM shows WHERE id = ?", id).
		Scan(&sh.ID, &sh.Title, &sh.Dir, &sh.ThumbPath, &sh.AddedAt)
	if err != nil {
		return nil, fmt.Errorf("get show %d: %w", id, mapSQLiteError(err))
	}
	return sh, nil
}

// getShow loads the show with its seasons and episodes, both ascending by number.
func getShow(q querier, id int64) (*Show, error) {
	sh, err := getShowRow(q, id)
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(`
		SELECT id, show_id, season_number, added_at
		FROM seasons WHERE show_id = ? ORDER BY season_number`, id)
	if err != nil {
		return nil, fmt.Errorf("list seasons for show %d: %w", id, err)
	}
	defer func() { _ = rows.Close() }()

	byID := make(map[int64]*Season)
	for rows.Next() {
		se := &Season{}
		if err := rows.Scan(&se.ID, &se.ShowID, &se.Number, &se.AddedAt); err != nil {
			return nil, fmt.Errorf("scan season: %w", err)
		}
		sh.Seasons = append(sh.Seasons, se)
		byID[se.ID] = se
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate seasons: %w", err)
	}

	epRows, err := q.Query(`
		SELECT `+episodeColumnsAs("e")+`
		FROM episodes e JOIN seasons se ON se.id = e.season_id
		WHERE se.show_id = ?
		ORDER BY se.season_number, e.episode_number`, id)
	if err != nil {
		return nil, fmt.Errorf("list episodes for show %d: %w", id, err)
	}
	defer func() { _ = epRows.Close() }()
	for epRows.Next() {
		ep, err := scanEpisode(epRows)
		if err != nil {
			return nil, fmt.Errorf("scan episode: %w", err)
		}
		if se, ok := byID[ep.SeasonID]; ok {
			se.Episodes = append(se.Episodes, ep)
		}
	}
	if err := epRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate episodes: %w", err)
	}
	sh.SeasonCount = len(sh.Seasons)
	for _, se := range sh.Seasons {
		sh.EpisodeCount += len(se.Episodes)
	}
	return sh, nil
}

// GetShow retrieves a show with its full season and episode tree.
// Returns ErrNotFound if the show does not exist.
func (s *Store) GetShow(id int64) (*Show, error) { return getShow(s.db, id) }

// GetShow retrieves a show within a transaction.
func (t *Tx) GetShow(id int64) (*Show, error) { return getShow(t.tx, id) }

func listShows(q querier, sq ShowQuery) ([]*Show, error) {
	where := ""
	var args []any
	if sq.Search != "" {
		where = ` WHERE shows.title LIKE ? ESCAPE '\'`
		args = append(args, likePattern(sq.Search))
	}

	query := `
		SELECT shows.id, shows.title, shows.dir, shows.thumb_path, shows.added_at,
			(SELECT COUNT(*) FROM seasons WHERE seasons.show_id = shows.id),
			(SELECT COUNT(*) FROM episodes JOIN seasons ON seasons.id = episodes.season_id
				WHERE seasons.show_id = shows.id)
		FROM shows` + where + orderBy("shows.", sq.Sort, sq.Ascending)

	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list shows: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var shows []*Show
	for rows.Next() {
		sh := &Show{}
		if err := rows.Scan(&sh.ID, &sh.Title, &sh.Dir, &sh.ThumbPath, &sh.AddedAt, &sh.SeasonCount, &sh.EpisodeCount); err != nil {
			return nil, fmt.Errorf("scan show: %w", err)
		}
		shows = append(shows, sh)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate shows: %w", err)
	}
	return shows, nil
}

// ListShows returns shows with season and episode counts, without the tree.
func (s *Store) ListShows(sq ShowQuery) ([]*Show, error) { return listShows(s.db, sq) }

// SearchShows returns shows whose title contains query, ignoring case.
func (s *Store) SearchShows(query string, key SortKey, asc bool) ([]*Show, error) {
	return listShows(s.db, ShowQuery{Sort: key, Ascending: asc, Search: query})
}

// ListShowTitles returns every show's id and title ordered by title, ignoring case.
func (s *Store) ListShowTitles() ([]ShowTitle, error) {
	rows, err := s.db.Query("SELECT id, title FROM shows ORDER BY title COLLATE NOCASE, id")
	if err != nil {
		return nil, fmt.Errorf("list show titles: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []ShowTitle
	for rows.Next() {
		var st ShowTitle
		if err := rows.Scan(&st.ID, &st.Title); err != nil {
			return nil, fmt.Errorf("scan show title: %w", err)
		}
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate show titles: %w", err)
	}
	return out, nil
}

func renameShow(q querier, id int64, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return invalid("show title is required")
	}
	result, err := q.Exec("UPDATE shows SET title = ? WHERE id = ?", title, id)
	if err != nil {
		return fmt.Errorf("rename show %d: %w", id, mapSQLiteError(err))
	}
	return checkAffected(result, "rename show", id)
}

// RenameShow changes a show's title.
func (s *Store) RenameShow(id int64, title string) error { return renameShow(s.db, id, title) }

// RenameShow changes a show's title within a transaction.
func (t *Tx) RenameShow(id int64, title string) error { return renameShow(t.tx, id, title) }

func setShowThumb(q querier, id int64, thumb string) error {
	result, err := q.Exec("UPDATE shows SET thumb_path = ? WHERE id = ?", thumb, id)
	if err != nil {
		return fmt.Errorf("set show %d thumbnail: %w", id, mapSQLiteError(err))
	}
	return checkAffected(result, "set show thumbnail", id)
}

func setShowDir(q querier, id int64, dir string) error {
	result, err := q.Exec("UPDATE shows SET dir = ? WHERE id = ?", dir, id)
	if err != nil {
		return fmt.Errorf("set show %d directory: %w", id, mapSQLiteError(err))
	}
	return checkAffected(result, "set show directory", id)
}

// SetShowDir records the library folder of a show within a transaction.
func (t *Tx) SetShowDir(id int64, dir string) error { return setShowDir(t.tx, id, dir) }

// SetShowThumbnail records the poster path of a show within a transaction.
func (t *Tx) SetShowThumbnail(id int64, thumb string) error { return setShowThumb(t.tx, id, thumb) }

func deleteShow(t *Tx, id int64) (*Show, error) {
	sh, err := getShow(t.tx, id)
	if err != nil {
		return nil, err
	}
	if _, err := t.tx.Exec("DELETE FROM shows WHERE id = ?", id); err != nil {
		return nil, fmt.Errorf("delete show %d: %w", id, mapSQLiteError(err))
	}
	return sh, nil
}

// DeleteShow removes a show with all of its seasons and episodes and returns
// the deleted tree. Returns ErrNotFound if the show does not exist.
func (s *Store) DeleteShow(id int64) (*Show, error) {
	var sh *Show
	err := s.inTx(func(tx *Tx) error {
		var err error
		sh, err = deleteShow(tx, id)
		return err
	})
	return sh, err
}

// DeleteShow removes a show within a transaction.
func (t *Tx) DeleteShow(id int64) (*Show, error) { return deleteShow(t, id) }

// CountShows returns the number of shows in the catalog.
func (s *Store) CountShows() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM shows").Scan(&n); err != nil {
		return 0, fmt.Errorf("count shows: %w", err)
	}
	return n, nil
}
