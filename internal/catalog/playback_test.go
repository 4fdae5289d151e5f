package catalog

import (
	"errors"
	"math"
	"testing"
)

func TestStore_UpdateMoviePlayback(t *testing.T) {
	store := setupTestStore(t)
	m := createTestMovie(t, store, "Film")

	if err := store.UpdateMovieDuration(m.ID, 5400); err != nil {
		t.Fatalf("UpdateMovieDuration: %v", err)
	}
	if err := store.UpdateMoviePosition(m.ID, 61.5); err != nil {
		t.Fatalf("UpdateMoviePosition: %v", err)
	}
	// Idempotent.
	if err := store.UpdateMoviePosition(m.ID, 61.5); err != nil {
		t.Fatalf("UpdateMoviePosition again: %v", err)
	}

	got, err := store.GetMovie(m.ID)
	if err != nil {
		t.Fatalf("GetMovie: %v", err)
	}
	if got.Position != 61.5 || got.Duration != 5400 {
		t.Errorf("position/duration = %v/%v, want 61.5/5400", got.Position, got.Duration)
	}
	if got.PlayedAt == nil {
		t.Error("PlayedAt should be set by a position update")
	}
}

func TestStore_UpdatePlayback_Errors(t *testing.T) {
	store := setupTestStore(t)
	m := createTestMovie(t, store, "Film")

	tests := []struct {
		name string
		fn   func() error
		want error
	}{
		{"movie position unknown id", func() error { return store.UpdateMoviePosition(999, 1) }, ErrNotFound},
		{"movie duration unknown id", func() error { return store.UpdateMovieDuration(999, 1) }, ErrNotFound},
		{"episode position unknown id", func() error { return store.UpdateEpisodePosition(999, 1) }, ErrNotFound},
		{"episode duration unknown id", func() error { return store.UpdateEpisodeDuration(999, 1) }, ErrNotFound},
		{"negative position", func() error { return store.UpdateMoviePosition(m.ID, -1) }, ErrValidation},
		{"negative duration", func() error { return store.UpdateMovieDuration(m.ID, -0.5) }, ErrValidation},
		{"NaN position", func() error { return store.UpdateMoviePosition(m.ID, math.NaN()) }, ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.fn(); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestStore_UpdateEpisodePlayback(t *testing.T) {
	store := setupTestStore(t)
	sh := createTestShow(t, store, "Show")
	se := createTestSeason(t, store, sh.ID, 1)
	ep := createTestEpisode(t, store, se.ID, 1)

	if err := store.UpdateEpisodeDuration(ep.ID, 1320); err != nil {
		t.Fatalf("UpdateEpisodeDuration: %v", err)
	}
	if err := store.UpdateEpisodePosition(ep.ID, 300); err != nil {
		t.Fatalf("UpdateEpisodePosition: %v", err)
	}
	got, err := store.GetEpisode(ep.ID)
	if err != nil {
		t.Fatalf("GetEpisode: %v", err)
	}
	if got.Position != 300 || got.Duration != 1320 || got.PlayedAt == nil {
		t.Errorf("episode playback = %v/%v played=%v", got.Position, got.Duration, got.PlayedAt)
	}
}
