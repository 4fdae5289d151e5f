package catalog

import (
	"errors"
	"testing"
)

func setPlayback(t *testing.T, store *Store, movieID int64, pos, dur float64) {
	t.Helper()
	if err := store.UpdateMovieDuration(movieID, dur); err != nil {
		t.Fatalf("UpdateMovieDuration: %v", err)
	}
	if err := store.UpdateMoviePosition(movieID, pos); err != nil {
		t.Fatalf("UpdateMoviePosition: %v", err)
	}
}

func TestStore_ContinueWatching_Selection(t *testing.T) {
	store := setupTestStore(t)
	unstarted := createTestMovie(t, store, "Unstarted")
	finished := createTestMovie(t, store, "Finished")
	past := createTestMovie(t, store, "Past End")
	unknownDur := createTestMovie(t, store, "Unknown Duration")
	inProgress := createTestMovie(t, store, "In Progress")

	setPlayback(t, store, unstarted.ID, 0, 100)
	setPlayback(t, store, finished.ID, 100, 100)
	setPlayback(t, store, past.ID, 120, 100)
	setPlayback(t, store, unknownDur.ID, 30, 0)
	setPlayback(t, store, inProgress.ID, 50, 100)

	items, err := store.ContinueWatching(0)
	if err != nil {
		t.Fatalf("ContinueWatching: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d: %+v", len(items), items)
	}
	if items[0].Kind != KindMovie || items[0].Movie.ID != inProgress.ID {
		t.Errorf("unexpected item %+v", items[0])
	}
}

func TestStore_ContinueWatching_RecencyAcrossKinds(t *testing.T) {
	store := setupTestStore(t)
	m := createTestMovie(t, store, "Movie")
	sh := createTestShow(t, store, "Show")
	se := createTestSeason(t, store, sh.ID, 3)
	ep := createTestEpisode(t, store, se.ID, 7)

	setPlayback(t, store, m.ID, 10, 100) // T1
	if err := store.UpdateEpisodeDuration(ep.ID, 1200); err != nil {
		t.Fatalf("UpdateEpisodeDuration: %v", err)
	}
	if err := store.UpdateEpisodePosition(ep.ID, 60); err != nil { // T2
		t.Fatalf("UpdateEpisodePosition: %v", err)
	}

	items, err := store.ContinueWatching(10)
	if err != nil {
		t.Fatalf("ContinueWatching: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	first := items[0]
	if first.Kind != KindEpisode || first.Episode.ID != ep.ID {
		t.Fatalf("expected episode first, got %+v", first)
	}
	if first.ShowID != sh.ID || first.ShowTitle != "Show" || first.ShowThumbnail != sh.ThumbPath || first.SeasonNumber != 3 {
		t.Errorf("episode annotations = %+v", first)
	}
	if first.Title() != "Show S03E07 - Episode" {
		t.Errorf("Title() = %q", first.Title())
	}

	// Touching the movie again moves it to the front.
	if err := store.UpdateMoviePosition(m.ID, 20); err != nil {
		t.Fatalf("UpdateMoviePosition: %v", err)
	}
	items, err = store.ContinueWatching(10)
	if err != nil {
		t.Fatalf("ContinueWatching: %v", err)
	}
	if items[0].Kind != KindMovie || items[0].Movie.ID != m.ID {
		t.Errorf("expected movie first after update, got %+v", items[0])
	}
}

func TestStore_ContinueWatching_Limit(t *testing.T) {
	store := setupTestStore(t)
	var last *Movie
	for _, title := range []string{"A", "B", "C", "D"} {
		last = createTestMovie(t, store, title)
		setPlayback(t, store, last.ID, 1, 10)
	}

	items, err := store.ContinueWatching(2)
	if err != nil {
		t.Fatalf("ContinueWatching: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].ID() != last.ID {
		t.Errorf("most recent first: got %d, want %d", items[0].ID(), last.ID)
	}
}

func TestStore_GetPlayable(t *testing.T) {
	store := setupTestStore(t)
	m := createTestMovie(t, store, "Film")
	sh := createTestShow(t, store, "Show")
	se := createTestSeason(t, store, sh.ID, 1)
	ep := createTestEpisode(t, store, se.ID, 2)

	p, err := store.GetPlayable(KindMovie, m.ID)
	if err != nil {
		t.Fatalf("GetPlayable movie: %v", err)
	}
	if p.MediaPath() != m.MediaPath || p.Title() != "Film" {
		t.Errorf("movie playable = %+v", p)
	}

	p, err = store.GetPlayable(KindEpisode, ep.ID)
	if err != nil {
		t.Fatalf("GetPlayable episode: %v", err)
	}
	if p.ID() != ep.ID || p.ShowID != sh.ID || p.SeasonNumber != 1 {
		t.Errorf("episode playable = %+v", p)
	}

	if _, err := store.GetPlayable(KindEpisode, 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown episode: expected ErrNotFound, got %v", err)
	}
	if _, err := ParseKind("trailer"); !errors.Is(err, ErrValidation) {
		t.Errorf("ParseKind: expected ErrValidation, got %v", err)
	}
}
