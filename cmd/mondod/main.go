// mondod is the background service: it serves the local HTTP API and keeps
// tracked folders matched as files arrive on disk.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mondohq/mondo/internal/anilist"
	"github.com/mondohq/mondo/internal/api"
	"github.com/mondohq/mondo/internal/config"
	"github.com/mondohq/mondo/internal/database"
	"github.com/mondohq/mondo/internal/library"
	"github.com/mondohq/mondo/internal/logging"
	"github.com/mondohq/mondo/internal/match"
	"github.com/mondohq/mondo/internal/paths"
	"github.com/mondohq/mondo/internal/player"
	"github.com/mondohq/mondo/internal/watcher"
)

var version = "dev" // Set by build flags: -ldflags="-X main.version=1.0.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "mondod",
		Short: "Mondo daemon service",
		Long: `Mondod runs in the background serving the local API and watching
tracked folders. New or renamed video files trigger a re-match of the owning
folder, so the library stays in sync without manual rescans.`,
		RunE: runDaemon,
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runDaemon(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("unable to load config: %w", err)
	}

	logger, err := logging.New(logging.Config{
		Level:      cfg.Logging.Level,
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
	})
	if err != nil {
		return fmt.Errorf("unable to create logger: %w", err)
	}
	defer logger.Close()

	client := anilist.NewClient(anilist.Config{
		Username: cfg.AniList.Username,
		Token:    cfg.AniList.Token,
		Endpoint: cfg.AniList.Endpoint,
	})

	cache, err := database.Open()
	if err != nil {
		return fmt.Errorf("unable to open list cache: %w", err)
	}
	defer cache.Close()

	list := database.NewListStore(client, cache, logger)
	engine := match.NewEngine(list,
		match.WithThreshold(cfg.Library.MatchThreshold),
		match.WithLogger(logger))

	storePath, err := paths.AnimeFoldersPath()
	if err != nil {
		return fmt.Errorf("unable to get store path: %w", err)
	}
	store := library.Open(storePath, engine, list, logger)

	launcher := player.New(cfg.Player.Command, cfg.Player.Args, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 2)

	server := api.NewServer(store, list, client, launcher, cfg, logger, version)
	go func() {
		errCh <- server.Serve(ctx)
	}()

	w, err := watcher.NewWatcher(&rematcher{store: store, logger: logger}, logger)
	if err != nil {
		return err
	}
	defer w.Close()

	var roots []string
	for _, root := range store.Folders() {
		roots = append(roots, root.Path)
	}
	if len(roots) > 0 {
		if err := w.Watch(roots); err != nil {
			return err
		}
		go func() {
			errCh <- w.Start(ctx)
		}()
	} else {
		logger.Info("daemon", "no tracked folders, watcher idle")
	}

	logger.Info("daemon", "mondod started", logging.F("version", version))

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

// rematcher re-runs folder matching when files change under a tracked root.
type rematcher struct {
	store  *library.Store
	logger *logging.Logger
}

func (r *rematcher) RootChanged(ctx context.Context, root string) error {
	r.logger.Info("daemon", "re-matching folder", logging.F("path", root))
	return r.store.AddFolder(ctx, root)
}
