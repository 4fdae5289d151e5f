package catalog

import (
	"path/filepath"
	"testing"
	"time"
)

// stepClock returns a strictly increasing time on every call.
type stepClock struct {
	t    time.Time
	step time.Duration
}

func (c *stepClock) Now() time.Time {
	c.t = c.t.Add(c.step)
	return c.t
}

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	clock := &stepClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), step: time.Second}
	store.now = clock.Now
	return store
}

func createTestMovie(t *testing.T, store *Store, title string) *Movie {
	t.Helper()
	m := &Movie{Title: title, MediaPath: "movies/" + title + "/movie.mp4"}
	if err := store.CreateMovie(m); err != nil {
		t.Fatalf("create movie %q: %v", title, err)
	}
	return m
}

func createTestShow(t *testing.T, store *Store, title string) *Show {
	t.Helper()
	sh := &Show{Title: title, Dir: "movies/show", ThumbPath: "movies/show/poster.jpg"}
	if err := store.CreateShow(sh); err != nil {
		t.Fatalf("create show %q: %v", title, err)
	}
	return sh
}

func createTestSeason(t *testing.T, store *Store, showID int64, number int) *Season {
	t.Helper()
	se := &Season{ShowID: showID, Number: number}
	if err := store.CreateSeason(se); err != nil {
		t.Fatalf("create season %d: %v", number, err)
	}
	return se
}

func createTestEpisode(t *testing.T, store *Store, seasonID int64, number int) *Episode {
	t.Helper()
	ep := &Episode{SeasonID: seasonID, Number: number, Title: "Episode", MediaPath: "movies/show/ep/episode.mkv"}
	if err := store.CreateEpisode(ep); err != nil {
		t.Fatalf("create episode %d: %v", number, err)
	}
	return ep
}

func movieIDs(ms []*Movie) []int64 {
	ids := make([]int64, len(ms))
	for i, m := range ms {
		ids[i] = m.ID
	}
	return ids
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
