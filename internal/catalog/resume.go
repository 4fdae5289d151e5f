package catalog

import (
	"database/sql"
	"fmt"
)

// Kind tags a playable item.
type Kind string

const (
	KindMovie   Kind = "movie"
	KindEpisode Kind = "episode"
)

// ParseKind validates a kind string.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindMovie, KindEpisode:
		return Kind(s), nil
	}
	return "", invalid("unknown item kind %q", s)
}

// Playable is either a movie or an episode with its parent show and season.
// Exactly one of Movie and Episode is set, matching Kind.
type Playable struct {
	Kind    Kind
	Movie   *Movie
	Episode *Episode

	// Set for episodes only.
	ShowID        int64
	ShowTitle     string
	ShowThumbnail string
	SeasonNumber  int
}

// ResumeItem is one entry of the continue-watching view.
type ResumeItem = Playable

// ID returns the id of the underlying movie or episode.
func (p Playable) ID() int64 {
	if p.Kind == KindEpisode {
		return p.Episode.ID
	}
	return p.Movie.ID
}

// Title returns a display title. Episodes use "Show SxxEyy - Title".
func (p Playable) Title() string {
	if p.Kind == KindMovie {
		return p.Movie.Title
	}
	t := fmt.Sprintf("%s S%02dE%02d", p.ShowTitle, p.SeasonNumber, p.Episode.Number)
	if p.Episode.Title != "" {
		t += " - " + p.Episode.Title
	}
	return t
}

// MediaPath returns the library-relative media path.
func (p Playable) MediaPath() string {
	if p.Kind == KindEpisode {
		return p.Episode.MediaPath
	}
	return p.Movie.MediaPath
}

// Progress returns position and duration in seconds.
func (p Playable) Progress() (position, duration float64) {
	if p.Kind == KindEpisode {
		return p.Episode.Position, p.Episode.Duration
	}
	return p.Movie.Position, p.Movie.Duration
}

func getEpisodePlayable(q querier, id int64) (*Playable, error) {
	p := &Playable{Kind: KindEpisode, Episode: &Episode{}}
	var played sql.NullInt64
	ep := p.Episode
	err := q.QueryRow(`
		SELECT `+episodeColumnsAs("e")+`, sh.id, sh.title, sh.thumb_path, se.season_number
		FROM episodes e
		JOIN seasons se ON se.id = e.season_id
		JOIN shows sh ON sh.id = se.show_id
		WHERE e.id = ?`, id,
	).Scan(&ep.ID, &ep.SeasonID, &ep.Number, &ep.Title, &ep.MediaPath, &ep.Position, &ep.Duration, &played,
		&p.ShowID, &p.ShowTitle, &p.ShowThumbnail, &p.SeasonNumber)
	if err != nil {
		return nil, fmt.Errorf("get episode %d: %w", id, mapSQLiteError(err))
	}
	ep.PlayedAt = nullTime(played)
	return p, nil
}

func getPlayable(q querier, kind Kind, id int64) (*Playable, error) {
	switch kind {
	case KindMovie:
		m, err := getMovie(q, id)
		if err != nil {
			return nil, err
		}
		return &Playable{Kind: KindMovie, Movie: m}, nil
	case KindEpisode:
		return getEpisodePlayable(q, id)
	}
	return nil, invalid("unknown item kind %q", kind)
}

// GetPlayable loads a movie or an episode with its parent context.
func (s *Store) GetPlayable(kind Kind, id int64) (*Playable, error) {
	return getPlayable(s.db, kind, id)
}

type resumeRef struct {
	kind Kind
	id   int64
}

// ContinueWatching returns started but unfinished movies and episodes, most
// recently played first. An item qualifies when 0 < position < duration.
// limit <= 0 uses DefaultResumeLimit.
func (s *Store) ContinueWatching(limit int) ([]ResumeItem, error) {
	if limit <= 0 {
		limit = DefaultResumeLimit
	}

	rows, err := s.db.Query(`
		SELECT 'movie' AS kind, id, played_at FROM movies
		WHERE position > 0 AND duration > 0 AND position < duration
		UNION ALL
		SELECT 'episode' AS kind, id, played_at FROM episodes
		WHERE position > 0 AND duration > 0 AND position < duration
		ORDER BY played_at DESC, kind DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("continue watching: %w", err)
	}
	defer func() { _ = rows.Close() }()

	// Collect refs first so hydration does not run while rows hold a connection.
	var refs []resumeRef
	for rows.Next() {
		var ref resumeRef
		var kind string
		var played sql.NullInt64
		if err := rows.Scan(&kind, &ref.id, &played); err != nil {
			return nil, fmt.Errorf("scan resume item: %w", err)
		}
		ref.kind = Kind(kind)
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate resume items: %w", err)
	}
	_ = rows.Close()

	items := make([]ResumeItem, 0, len(refs))
	for _, ref := range refs {
		p, err := getPlayable(s.db, ref.kind, ref.id)
		if err != nil {
			return nil, fmt.Errorf("load resume item: %w", err)
		}
		items = append(items, *p)
	}
	return items, nil
}
