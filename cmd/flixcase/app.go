package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vmunix/flixcase/internal/catalog"
	"github.com/vmunix/flixcase/internal/config"
	"github.com/vmunix/flixcase/internal/events"
	"github.com/vmunix/flixcase/internal/importer"
	"github.com/vmunix/flixcase/internal/library"
	"github.com/vmunix/flixcase/internal/transcode"
)

// app holds everything a command needs, wired from one config.
type app struct {
	cfg        *config.Config
	configPath string // empty in portable mode
	logger     *slog.Logger
	lib        *library.Library
	store      *catalog.Store
	evlog      *events.EventLog
	bus        *events.Bus
	tr         *transcode.Transcoder
	imp        *importer.Importer
}

// loadConfig resolves --config, then the discovery order, then portable
// defaults.
func loadConfig() (*config.Config, string, error) {
	path := configPath
	if path == "" {
		found, err := config.Discover()
		switch {
		case errors.Is(err, config.ErrNotFound):
			return config.Portable(), "", nil
		case err != nil:
			return nil, "", err
		}
		path = found
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, path, nil
}

// openApp loads config and opens the library and catalog. Commands other
// than serve log at warn unless --verbose so progress output stays readable.
func openApp(cmd *cobra.Command, serving bool) (*app, error) {
	cfg, path, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logCfg := cfg.Log
	switch {
	case verbose:
		logCfg.Level = "debug"
	case !serving:
		logCfg.Level = "warn"
	}
	logger := logCfg.NewLogger(cmd.ErrOrStderr())

	lib, err := library.New(cfg.Library.Root)
	if err != nil {
		return nil, err
	}
	if err := lib.Init(); err != nil {
		return nil, err
	}
	dbPath := cfg.DatabasePath()
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create catalog dir: %w", err)
	}
	store, err := catalog.Open(dbPath)
	if err != nil {
		return nil, err
	}

	evlog := events.NewEventLog(store.DB())
	bus := events.NewBus(evlog, logger)
	tr := transcode.New(cfg.TranscodeConfig(), logger)
	imp := importer.New(importer.Deps{
		Catalog:    store,
		Library:    lib,
		Transcoder: tr,
		Bus:        bus,
	}, logger)

	logger.Debug("app opened", "config", path, "library", lib.Root(), "catalog", dbPath)
	return &app{
		cfg:        cfg,
		configPath: path,
		logger:     logger,
		lib:        lib,
		store:      store,
		evlog:      evlog,
		bus:        bus,
		tr:         tr,
		imp:        imp,
	}, nil
}

func (a *app) Close() error {
	_ = a.bus.Close()
	return a.store.Close()
}

// withApp opens the app for the duration of fn.
func withApp(cmd *cobra.Command, fn func(*app) error) error {
	a, err := openApp(cmd, false)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()
	return fn(a)
}

// exitCode maps command errors to process exit status.
func exitCode(err error) int {
	switch {
	case errors.Is(err, importer.ErrCancelled):
		return 130
	case errors.Is(err, catalog.ErrValidation), errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, config.ErrInvalid):
		return 2
	case errors.Is(err, importer.ErrLibraryBusy):
		return 3
	default:
		return 1
	}
}
