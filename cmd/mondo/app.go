package main

import (
	"fmt"

	"github.com/mondohq/mondo/internal/anilist"
	"github.com/mondohq/mondo/internal/config"
	"github.com/mondohq/mondo/internal/database"
	"github.com/mondohq/mondo/internal/library"
	"github.com/mondohq/mondo/internal/logging"
	"github.com/mondohq/mondo/internal/match"
	"github.com/mondohq/mondo/internal/paths"
	"github.com/mondohq/mondo/internal/player"
)

// app bundles the wired-up components every command needs.
type app struct {
	cfg    *config.Config
	logger *logging.Logger
	client *anilist.Client
	cache  *database.ListDB
	list   *database.ListStore
	store  *library.Store
	player *player.Launcher
}

// newApp loads config and wires the component graph.
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("unable to load config: %w", err)
	}

	logCfg := logging.Config{
		Level:      cfg.Logging.Level,
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
	}
	if verbose {
		logCfg.Level = "debug"
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		return nil, fmt.Errorf("unable to create logger: %w", err)
	}

	client := anilist.NewClient(anilist.Config{
		Username: cfg.AniList.Username,
		Token:    cfg.AniList.Token,
		Endpoint: cfg.AniList.Endpoint,
	})

	cache, err := database.Open()
	if err != nil {
		logger.Close()
		return nil, fmt.Errorf("unable to open list cache: %w", err)
	}

	list := database.NewListStore(client, cache, logger)
	engine := match.NewEngine(list,
		match.WithThreshold(cfg.Library.MatchThreshold),
		match.WithLogger(logger))

	storePath, err := paths.AnimeFoldersPath()
	if err != nil {
		cache.Close()
		logger.Close()
		return nil, fmt.Errorf("unable to get store path: %w", err)
	}
	store := library.Open(storePath, engine, list, logger)

	launcher := player.New(cfg.Player.Command, cfg.Player.Args, logger)

	return &app{
		cfg:    cfg,
		logger: logger,
		client: client,
		cache:  cache,
		list:   list,
		store:  store,
		player: launcher,
	}, nil
}

// Close releases the app's resources.
func (a *app) Close() {
	a.cache.Close()
	a.logger.Close()
}
