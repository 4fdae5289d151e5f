package catalog

import (
	"database/sql"
	"fmt"
	"strings"
)

func episodeColumnsAs(alias string) string {
	cols := []string{"id", "season_id", "episode_number", "title", "media_path", "position", "duration", "played_at"}
	for i, c := range cols {
		cols[i] = alias + "." + c
	}
	return strings.Join(cols, ", ")
}

func scanEpisode(sc scanner) (*Episode, error) {
	ep := &Episode{}
	var played sql.NullInt64
	if err := sc.Scan(&ep.ID, &ep.SeasonID, &ep.Number, &ep.Title, &ep.MediaPath, &ep.Position, &ep.Duration, &played); err != nil {
		return nil, err
	}
	ep.PlayedAt = nullTime(played)
	return ep, nil
}

func createEpisode(q querier, ep *Episode) error {
	if ep.Number < 1 {
		return invalid("episode number must be at least 1, got %d", ep.Number)
	}
	if ep.MediaPath == "" {
		return invalid("episode media path is required")
	}
	ep.Title = strings.TrimSpace(ep.Title)
	result, err := q.Exec(`
		INSERT INTO episodes (season_id, episode_number, title, media_path)
		VALUES (?, ?, ?, ?)`,
		ep.SeasonID, ep.Number, ep.Title, ep.MediaPath,
	)
	if err != nil {
		return fmt.Errorf("insert episode %d of season %d: %w", ep.Number, ep.SeasonID, mapSQLiteError(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	ep.ID = id
	ep.Position = 0
	ep.Duration = 0
	ep.PlayedAt = nil
	return nil
}

// CreateEpisode inserts an episode. An episode number already used in the
// season returns ErrDuplicate.
func (s *Store) CreateEpisode(ep *Episode) error { return createEpisode(s.db, ep) }

// CreateEpisode inserts an episode within a transaction.
func (t *Tx) CreateEpisode(ep *Episode) error { return createEpisode(t.tx, ep) }

func getEpisode(q querier, id int64) (*Episode, error) {
	ep, err := scanEpisode(q.QueryRow("SELECT "+episodeColumnsAs("e")+" FROM episodes e WHERE e.id = ?", id))
	if err != nil {
		return nil, fmt.Errorf("get episode %d: %w", id, mapSQLiteError(err))
	}
	return ep, nil
}

// GetEpisode retrieves an episode by ID.
func (s *Store) GetEpisode(id int64) (*Episode, error) { return getEpisode(s.db, id) }

// GetEpisode retrieves an episode within a transaction.
func (t *Tx) GetEpisode(id int64) (*Episode, error) { return getEpisode(t.tx, id) }

func listEpisodes(q querier, seasonID int64) ([]*Episode, error) {
	rows, err := q.Query(`
		SELECT `+episodeColumnsAs("e")+` FROM episodes e
		WHERE e.season_id = ? ORDER BY e.episode_number`, seasonID)
	if err != nil {
		return nil, fmt.Errorf("list episodes for season %d: %w", seasonID, err)
	}
	defer func() { _ = rows.Close() }()

	var eps []*Episode
	for rows.Next() {
		ep, err := scanEpisode(rows)
		if err != nil {
			return nil, fmt.Errorf("scan episode: %w", err)
		}
		eps = append(eps, ep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate episodes: %w", err)
	}
	return eps, nil
}
