package catalog

import (
	"errors"
	"testing"
)

func TestStore_GetShow_Tree(t *testing.T) {
	store := setupTestStore(t)
	sh := createTestShow(t, store, "Breaking Bad")

	s2 := createTestSeason(t, store, sh.ID, 2)
	s1 := createTestSeason(t, store, sh.ID, 1)
	for _, n := range []int{3, 1, 2} {
		createTestEpisode(t, store, s1.ID, n)
	}
	createTestEpisode(t, store, s2.ID, 1)

	got, err := store.GetShow(sh.ID)
	if err != nil {
		t.Fatalf("GetShow: %v", err)
	}
	if got.Title != "Breaking Bad" || got.ThumbPath != sh.ThumbPath {
		t.Errorf("show = %+v", got)
	}
	if len(got.Seasons) != 2 {
		t.Fatalf("expected 2 seasons, got %d", len(got.Seasons))
	}
	if got.Seasons[0].Number != 1 || got.Seasons[1].Number != 2 {
		t.Errorf("season order = %d,%d, want 1,2", got.Seasons[0].Number, got.Seasons[1].Number)
	}
	eps := got.Seasons[0].Episodes
	if len(eps) != 3 {
		t.Fatalf("expected 3 episodes in season 1, got %d", len(eps))
	}
	for i, ep := range eps {
		if ep.Number != i+1 {
			t.Errorf("episode %d has number %d", i, ep.Number)
		}
		if ep.SeasonID != s1.ID {
			t.Errorf("episode %d in season %d, want %d", ep.Number, ep.SeasonID, s1.ID)
		}
	}
	if len(got.Seasons[1].Episodes) != 1 {
		t.Errorf("expected 1 episode in season 2, got %d", len(got.Seasons[1].Episodes))
	}
	if got.SeasonCount != 2 || got.EpisodeCount != 4 {
		t.Errorf("counts = %d seasons, %d episodes, want 2 and 4", got.SeasonCount, got.EpisodeCount)
	}
}

func TestStore_CreateSeason_Constraints(t *testing.T) {
	store := setupTestStore(t)
	sh := createTestShow(t, store, "Show")
	createTestSeason(t, store, sh.ID, 1)

	if err := store.CreateSeason(&Season{ShowID: sh.ID, Number: 1}); !errors.Is(err, ErrDuplicate) {
		t.Errorf("duplicate season: expected ErrDuplicate, got %v", err)
	}
	if err := store.CreateSeason(&Season{ShowID: sh.ID, Number: 0}); !errors.Is(err, ErrValidation) {
		t.Errorf("season 0: expected ErrValidation, got %v", err)
	}
	if err := store.CreateSeason(&Season{ShowID: 999, Number: 1}); !errors.Is(err, ErrConstraint) {
		t.Errorf("unknown show: expected ErrConstraint, got %v", err)
	}

	// The same number is fine on a different show.
	other := createTestShow(t, store, "Other")
	if err := store.CreateSeason(&Season{ShowID: other.ID, Number: 1}); err != nil {
		t.Errorf("season 1 of another show: %v", err)
	}
}

func TestStore_CreateEpisode_Constraints(t *testing.T) {
	store := setupTestStore(t)
	sh := createTestShow(t, store, "Show")
	se := createTestSeason(t, store, sh.ID, 1)
	createTestEpisode(t, store, se.ID, 1)

	dup := &Episode{SeasonID: se.ID, Number: 1, MediaPath: "movies/show/s01e01/episode.mkv"}
	if err := store.CreateEpisode(dup); !errors.Is(err, ErrDuplicate) {
		t.Errorf("duplicate episode: expected ErrDuplicate, got %v", err)
	}
	zero := &Episode{SeasonID: se.ID, Number: 0, MediaPath: "x"}
	if err := store.CreateEpisode(zero); !errors.Is(err, ErrValidation) {
		t.Errorf("episode 0: expected ErrValidation, got %v", err)
	}
	noPath := &Episode{SeasonID: se.ID, Number: 2}
	if err := store.CreateEpisode(noPath); !errors.Is(err, ErrValidation) {
		t.Errorf("empty path: expected ErrValidation, got %v", err)
	}
}

func TestStore_NextSeasonNumber(t *testing.T) {
	store := setupTestStore(t)
	sh := createTestShow(t, store, "Show")

	next, err := store.NextSeasonNumber(sh.ID)
	if err != nil {
		t.Fatalf("NextSeasonNumber: %v", err)
	}
	if next != 1 {
		t.Errorf("empty show: got %d, want 1", next)
	}

	for _, n := range []int{1, 2, 4} {
		createTestSeason(t, store, sh.ID, n)
	}
	next, err = store.NextSeasonNumber(sh.ID)
	if err != nil {
		t.Fatalf("NextSeasonNumber: %v", err)
	}
	if next != 5 {
		t.Errorf("seasons {1,2,4}: got %d, want 5", next)
	}

	if _, err := store.NextSeasonNumber(999); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown show: expected ErrNotFound, got %v", err)
	}
}

func TestStore_DeleteShow_Cascades(t *testing.T) {
	store := setupTestStore(t)
	sh := createTestShow(t, store, "Gone")
	se := createTestSeason(t, store, sh.ID, 1)
	ep := createTestEpisode(t, store, se.ID, 1)
	createTestEpisode(t, store, se.ID, 2)

	keep := createTestShow(t, store, "Kept")
	keepSeason := createTestSeason(t, store, keep.ID, 1)
	createTestEpisode(t, store, keepSeason.ID, 1)

	deleted, err := store.DeleteShow(sh.ID)
	if err != nil {
		t.Fatalf("DeleteShow: %v", err)
	}
	if len(deleted.Seasons) != 1 || len(deleted.Seasons[0].Episodes) != 2 {
		t.Errorf("snapshot should carry the full tree, got %+v", deleted)
	}

	if _, err := store.GetShow(sh.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetShow after delete: expected ErrNotFound, got %v", err)
	}
	if _, err := store.GetSeason(se.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetSeason after delete: expected ErrNotFound, got %v", err)
	}
	if _, err := store.GetEpisode(ep.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetEpisode after delete: expected ErrNotFound, got %v", err)
	}

	var orphans int
	err = store.DB().QueryRow(`
		SELECT COUNT(*) FROM episodes WHERE season_id NOT IN (SELECT id FROM seasons)`).Scan(&orphans)
	if err != nil {
		t.Fatalf("count orphans: %v", err)
	}
	if orphans != 0 {
		t.Errorf("%d orphaned episodes remain", orphans)
	}

	kept, err := store.GetShow(keep.ID)
	if err != nil {
		t.Fatalf("GetShow kept: %v", err)
	}
	if kept.EpisodeCount != 1 {
		t.Errorf("other show lost episodes: %d", kept.EpisodeCount)
	}
}

func TestStore_ListShows(t *testing.T) {
	store := setupTestStore(t)
	b := createTestShow(t, store, "better call saul")
	a := createTestShow(t, store, "Andor")
	se := createTestSeason(t, store, b.ID, 1)
	createTestEpisode(t, store, se.ID, 1)
	createTestEpisode(t, store, se.ID, 2)

	shows, err := store.ListShows(ShowQuery{Sort: SortTitle, Ascending: true})
	if err != nil {
		t.Fatalf("ListShows: %v", err)
	}
	if len(shows) != 2 || shows[0].ID != a.ID || shows[1].ID != b.ID {
		t.Fatalf("unexpected order: %+v", shows)
	}
	if shows[1].SeasonCount != 1 || shows[1].EpisodeCount != 2 {
		t.Errorf("counts = %d/%d, want 1/2", shows[1].SeasonCount, shows[1].EpisodeCount)
	}
	if shows[0].Seasons != nil {
		t.Error("ListShows should not load the season tree")
	}

	byDate, err := store.ListShows(ShowQuery{Sort: SortDateAdded})
	if err != nil {
		t.Fatalf("ListShows by date: %v", err)
	}
	if byDate[0].ID != a.ID {
		t.Errorf("newest first: got %d, want %d", byDate[0].ID, a.ID)
	}

	found, err := store.SearchShows("SAUL", SortTitle, true)
	if err != nil {
		t.Fatalf("SearchShows: %v", err)
	}
	if len(found) != 1 || found[0].ID != b.ID {
		t.Errorf("SearchShows = %+v", found)
	}
}

func TestStore_ListShowTitles(t *testing.T) {
	store := setupTestStore(t)
	createTestShow(t, store, "zorro")
	createTestShow(t, store, "Alf")
	createTestShow(t, store, "mash")

	titles, err := store.ListShowTitles()
	if err != nil {
		t.Fatalf("ListShowTitles: %v", err)
	}
	want := []string{"Alf", "mash", "zorro"}
	if len(titles) != len(want) {
		t.Fatalf("got %d titles, want %d", len(titles), len(want))
	}
	for i, st := range titles {
		if st.Title != want[i] {
			t.Errorf("titles[%d] = %q, want %q", i, st.Title, want[i])
		}
	}
}

func TestStore_RenameShow(t *testing.T) {
	store := setupTestStore(t)
	sh := createTestShow(t, store, "Old")

	if err := store.RenameShow(sh.ID, "New"); err != nil {
		t.Fatalf("RenameShow: %v", err)
	}
	got, err := store.GetShow(sh.ID)
	if err != nil {
		t.Fatalf("GetShow: %v", err)
	}
	if got.Title != "New" {
		t.Errorf("title = %q, want New", got.Title)
	}
	if err := store.RenameShow(999, "X"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown id: expected ErrNotFound, got %v", err)
	}

	n, err := store.CountShows()
	if err != nil {
		t.Fatalf("CountShows: %v", err)
	}
	if n != 1 {
		t.Errorf("CountShows = %d, want 1", n)
	}
}

func TestTx_SetShowThumbnail(t *testing.T) {
	store := setupTestStore(t)
	sh := &Show{Title: "Bare", Dir: "movies/bare"}
	if err := store.CreateShow(sh); err != nil {
		t.Fatalf("CreateShow: %v", err)
	}

	tx, err := store.Begin()
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := tx.SetShowThumbnail(sh.ID, "movies/bare/poster.png"); err != nil {
		t.Fatalf("SetShowThumbnail: %v", err)
	}
	if err := tx.SetShowThumbnail(999, "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown id: expected ErrNotFound, got %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	got, err := store.GetShow(sh.ID)
	if err != nil {
		t.Fatalf("GetShow: %v", err)
	}
	if got.Dir != "movies/bare" || got.ThumbPath != "movies/bare/poster.png" {
		t.Errorf("show = %+v", got)
	}
	shows, err := store.ListShows(ShowQuery{})
	if err != nil {
		t.Fatalf("ListShows: %v", err)
	}
	if len(shows) != 1 || shows[0].Dir != "movies/bare" {
		t.Errorf("listed shows = %+v", shows)
	}
}
