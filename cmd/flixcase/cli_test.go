package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/flixcase/internal/catalog"
	"github.com/vmunix/flixcase/internal/config"
	"github.com/vmunix/flixcase/internal/importer"
)

// resetFlags restores every flag to its default so commands can run
// repeatedly in one process.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	configPath, jsonOutput, verbose = "", false, false

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

// setupCLI writes a config with the copy preset so imports need no ffmpeg.
func setupCLI(t *testing.T) (cfgPath, libRoot string) {
	t.Helper()
	dir := t.TempDir()
	libRoot = filepath.Join(dir, "library")
	cfgPath = filepath.Join(dir, "config.toml")
	content := fmt.Sprintf(`
[library]
root = %q

[encoder]
default_preset = "copy"
hwaccel = "none"
`, libRoot)
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o644))
	return cfgPath, libRoot
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCLI_MovieLifecycle(t *testing.T) {
	cfg, lib := setupCLI(t)
	src := writeFile(t, filepath.Join(t.TempDir(), "The.Matrix.1999.mp4"), "not really a video")

	out, err := runCLI(t, "--config", cfg, "movie", "add", src, "--embedded-subs=false")
	require.NoError(t, err)
	assert.Contains(t, out, "importing The Matrix 1999 (preset copy)")
	assert.Contains(t, out, `Added movie #1 "The Matrix 1999"`)

	out, err = runCLI(t, "--config", cfg, "--json", "movie", "list")
	require.NoError(t, err)
	var movies []catalog.Movie
	require.NoError(t, json.Unmarshal([]byte(out), &movies))
	require.Len(t, movies, 1)
	assert.Equal(t, "The Matrix 1999", movies[0].Title)

	data, err := os.ReadFile(filepath.Join(lib, filepath.FromSlash(movies[0].MediaPath)))
	require.NoError(t, err)
	assert.Equal(t, "not really a video", string(data))

	out, err = runCLI(t, "--config", cfg, "playback", "movie", "1", "--position", "600", "--duration", "5400")
	require.NoError(t, err)
	assert.Contains(t, out, "10:00 / 1:30:00")

	out, err = runCLI(t, "--config", cfg, "resume")
	require.NoError(t, err)
	assert.Contains(t, out, "The Matrix 1999")

	_, err = runCLI(t, "--config", cfg, "playback", "movie", "1", "--finished")
	require.NoError(t, err)
	out, err = runCLI(t, "--config", cfg, "resume")
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing to resume.")

	out, err = runCLI(t, "--config", cfg, "movie", "rename", "1", "The", "Matrix")
	require.NoError(t, err)
	assert.Contains(t, out, `Renamed movie #1 to "The Matrix"`)

	out, err = runCLI(t, "--config", cfg, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "import.completed")

	out, err = runCLI(t, "--config", cfg, "movie", "rm", "1")
	require.NoError(t, err)
	assert.Contains(t, out, `Deleted movie #1 "The Matrix"`)
	assert.NoFileExists(t, filepath.Join(lib, filepath.FromSlash(movies[0].MediaPath)))

	_, err = runCLI(t, "--config", cfg, "movie", "info", "1")
	require.ErrorIs(t, err, catalog.ErrNotFound)
	assert.Equal(t, 2, exitCode(err))
}

func TestCLI_ShowSeasons(t *testing.T) {
	cfg, _ := setupCLI(t)
	src := t.TempDir()
	for _, name := range []string{"Episode 10.mkv", "Episode 2.mkv", "Episode 1.mkv", "notes.txt"} {
		writeFile(t, filepath.Join(src, name), name)
	}

	out, err := runCLI(t, "--config", cfg, "show", "add", src, "--title", "Test Show")
	require.NoError(t, err)
	assert.Contains(t, out, "Test Show season 1: 3 committed, 0 skipped")

	out, err = runCLI(t, "--config", cfg, "--json", "show", "info", "1")
	require.NoError(t, err)
	var show catalog.Show
	require.NoError(t, json.Unmarshal([]byte(out), &show))
	require.Len(t, show.Seasons, 1)
	eps := show.Seasons[0].Episodes
	require.Len(t, eps, 3)
	assert.Equal(t, "Episode 1", eps[0].Title)
	assert.Equal(t, "Episode 2", eps[1].Title)
	assert.Equal(t, "Episode 10", eps[2].Title)

	out, err = runCLI(t, "--config", cfg, "show", "add", filepath.Join(src, "Episode 1.mkv"), "--show", "test show")
	require.NoError(t, err)
	assert.Contains(t, out, `Adding to show #1 "Test Show"`)
	assert.Contains(t, out, "Test Show season 2: 1 committed")

	poster := writeFile(t, filepath.Join(t.TempDir(), "cover.jpg"), "jpg")
	_, err = runCLI(t, "--config", cfg, "show", "add", filepath.Join(src, "Episode 2.mkv"), "--show-id", "1", "--poster", poster)
	require.NoError(t, err)
	out, err = runCLI(t, "--config", cfg, "--json", "show", "info", "1")
	require.NoError(t, err)
	show = catalog.Show{}
	require.NoError(t, json.Unmarshal([]byte(out), &show))
	assert.Equal(t, "movies/test-show/poster.jpg", show.ThumbPath)
	assert.Equal(t, "movies/test-show", show.Dir)

	out, err = runCLI(t, "--config", cfg, "show", "titles")
	require.NoError(t, err)
	assert.Equal(t, "1\tTest Show\n", out)

	_, err = runCLI(t, "--config", cfg, "show", "add", src, "--show", "Completely Different")
	require.ErrorIs(t, err, catalog.ErrNotFound)

	out, err = runCLI(t, "--config", cfg, "show", "rm", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "(3 seasons, 5 episodes)")
}

func TestCLI_Settings(t *testing.T) {
	cfg, _ := setupCLI(t)

	_, err := runCLI(t, "--config", cfg, "settings", "set", "theme", "dark")
	require.NoError(t, err)

	out, err := runCLI(t, "--config", cfg, "settings", "get", "theme")
	require.NoError(t, err)
	assert.Equal(t, "dark\n", out)

	out, err = runCLI(t, "--config", cfg, "settings", "get", "volume", "--default", "80")
	require.NoError(t, err)
	assert.Equal(t, "80\n", out)

	out, err = runCLI(t, "--config", cfg, "settings")
	require.NoError(t, err)
	assert.Equal(t, "theme = dark\n", out)
}

func TestCLI_Init(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "conf", "config.toml")
	lib := filepath.Join(dir, "media")

	out, err := runCLI(t, "init", "--path", cfg, "--library", lib)
	require.NoError(t, err)
	assert.Contains(t, out, "Library: "+lib)
	assert.FileExists(t, cfg)
	assert.FileExists(t, filepath.Join(lib, "catalog.db"))

	_, err = runCLI(t, "init", "--path", cfg, "--library", lib)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config already exists")
}

func TestCLI_InitDefaultConfig(t *testing.T) {
	dir := t.TempDir()
	lib := filepath.Join(dir, "media")
	t.Setenv("FLIXCASE_LIBRARY", lib)
	cfg := filepath.Join(dir, "config.toml")

	out, err := runCLI(t, "init", "--path", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "Library: "+lib)
	assert.FileExists(t, filepath.Join(lib, "catalog.db"))

	out, err = runCLI(t, "--config", cfg, "movie", "list")
	require.NoError(t, err)
	assert.Equal(t, "No movies found.\n", out)
}

func TestCLI_StatusAndPresets(t *testing.T) {
	cfg, lib := setupCLI(t)

	out, err := runCLI(t, "--config", cfg, "--json", "status")
	require.NoError(t, err)
	var r statusReport
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, cfg, r.Config)
	assert.Equal(t, lib, r.Library)
	assert.Zero(t, r.Movies)
	assert.Equal(t, "none", r.HWAccel)

	out, err = runCLI(t, "--config", cfg, "presets")
	require.NoError(t, err)
	assert.Contains(t, out, "copy *")
	assert.Contains(t, out, "space_saver")
}

func TestCLI_PlaybackRequiresPosition(t *testing.T) {
	cfg, _ := setupCLI(t)
	_, err := runCLI(t, "--config", cfg, "playback", "episode", "1")
	require.ErrorIs(t, err, catalog.ErrValidation)
}

func TestMatchShow(t *testing.T) {
	shows := []catalog.ShowTitle{
		{ID: 1, Title: "Breaking Bad"},
		{ID: 2, Title: "Better Call Saul"},
		{ID: 3, Title: "The Office"},
	}

	tests := []struct {
		name  string
		query string
		want  int64
	}{
		{"exact ignoring case", "better call saul", 2},
		{"typo", "Breakng Bad", 1},
		{"without article", "Office", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := matchShow(shows, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.ID)
		})
	}

	_, err := matchShow(shows, "Star Trek Deep Space Nine")
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	_, err = matchShow(nil, "Anything")
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestEpisodeFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b", "ep 2.mkv"), "")
	writeFile(t, filepath.Join(dir, "b", "ep 10.mkv"), "")
	writeFile(t, filepath.Join(dir, "b", "ep 1-sample.mkv"), "")
	single := writeFile(t, filepath.Join(dir, "a", "ep 1.mp4"), "")

	files, err := episodeFiles([]string{filepath.Join(dir, "b"), single})
	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, "ep 1.mp4", filepath.Base(files[0]))
	assert.Equal(t, "ep 2.mkv", filepath.Base(files[1]))
	assert.Equal(t, "ep 10.mkv", filepath.Base(files[2]))

	_, err = episodeFiles([]string{t.TempDir()})
	assert.ErrorIs(t, err, catalog.ErrValidation)

	_, err = episodeFiles([]string{filepath.Join(dir, "missing.mkv")})
	assert.Error(t, err)
}

func TestSortFlags(t *testing.T) {
	tests := []struct {
		args    []string
		wantKey catalog.SortKey
		wantAsc bool
	}{
		{nil, catalog.SortDateAdded, false},
		{[]string{"--sort", "title"}, catalog.SortTitle, true},
		{[]string{"--sort", "title", "--desc"}, catalog.SortTitle, false},
		{[]string{"--asc"}, catalog.SortDateAdded, true},
	}
	for _, tt := range tests {
		cmd := &cobra.Command{}
		addSortFlags(cmd)
		require.NoError(t, cmd.ParseFlags(tt.args))
		key, asc := sortFlags(cmd)
		assert.Equal(t, tt.wantKey, key, "%v", tt.args)
		assert.Equal(t, tt.wantAsc, asc, "%v", tt.args)
	}
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 130, exitCode(fmt.Errorf("wrapped: %w", importer.ErrCancelled)))
	assert.Equal(t, 2, exitCode(catalog.ErrValidation))
	assert.Equal(t, 2, exitCode(fmt.Errorf("movie 3: %w", catalog.ErrNotFound)))
	assert.Equal(t, 2, exitCode(&config.ConfigError{Errors: []string{"bad"}}))
	assert.Equal(t, 3, exitCode(importer.ErrLibraryBusy))
	assert.Equal(t, 1, exitCode(os.ErrPermission))
}
