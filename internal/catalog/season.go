package catalog

import (
	"fmt"
	"time"
)

func createSeason(q querier, now func() time.Time, se *Season) error {
	if se.Number < 1 {
		return invalid("season number must be at least 1, got %d", se.Number)
	}
	added := now().UTC()
	result, err := q.Exec(`
		INSERT INTO seasons (show_id, season_number, added_at) VALUES (?, ?, ?)`,
		se.ShowID, se.Number, added,
	)
	if err != nil {
		return fmt.Errorf("insert season %d of show %d: %w", se.Number, se.ShowID, mapSQLiteError(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	se.ID = id
	se.AddedAt = added
	return nil
}

// CreateSeason inserts a season. A season number already used by the show
// returns ErrDuplicate; an unknown show returns ErrConstraint.
func (s *Store) CreateSeason(se *Season) error { return createSeason(s.db, s.now, se) }

// CreateSeason inserts a season within a transaction.
func (t *Tx) CreateSeason(se *Season) error { return createSeason(t.tx, t.now, se) }

func getSeason(q querier, id int64) (*Season, error) {
	se := &Season{}
	err := q.QueryRow("SELECT id, show_id, season_number, added_at FROM seasons WHERE id = ?", id).
		Scan(&se.ID, &se.ShowID, &se.Number, &se.AddedAt)
	if err != nil {
		return nil, fmt.Errorf("get season %d: %w", id, mapSQLiteError(err))
	}
	eps, err := listEpisodes(q, id)
	if err != nil {
		return nil, err
	}
	se.Episodes = eps
	return se, nil
}

// GetSeason retrieves a season with its episodes.
func (s *Store) GetSeason(id int64) (*Season, error) { return getSeason(s.db, id) }

// GetSeason retrieves a season within a transaction.
func (t *Tx) GetSeason(id int64) (*Season, error) { return getSeason(t.tx, id) }

func nextSeasonNumber(q querier, showID int64) (int, error) {
	if _, err := getShowRow(q, showID); err != nil {
		return 0, err
	}
	var next int
	err := q.QueryRow("SELECT COALESCE(MAX(season_number), 0) + 1 FROM seasons WHERE show_id = ?", showID).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("next season number for show %d: %w", showID, err)
	}
	return next, nil
}

// NextSeasonNumber returns one more than the highest season number of the
// show, or 1 when it has none. Gaps are not filled.
func (s *Store) NextSeasonNumber(showID int64) (int, error) { return nextSeasonNumber(s.db, showID) }

// NextSeasonNumber returns the next season number within a transaction.
func (t *Tx) NextSeasonNumber(showID int64) (int, error) { return nextSeasonNumber(t.tx, showID) }
