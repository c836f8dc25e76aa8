// Package api exposes the folder store, watch-list, and playback operations
// over a local HTTP API for frontend clients.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/mondohq/mondo/internal/anilist"
	"github.com/mondohq/mondo/internal/config"
	"github.com/mondohq/mondo/internal/database"
	"github.com/mondohq/mondo/internal/library"
	"github.com/mondohq/mondo/internal/logging"
	"github.com/mondohq/mondo/internal/player"
)

// Server implements the HTTP API.
type Server struct {
	store   *library.Store
	list    *database.ListStore
	client  *anilist.Client
	player  *player.Launcher
	cfg     *config.Config
	logger  *logging.Logger
	version string
}

// NewServer creates an API server over the given components.
func NewServer(store *library.Store, list *database.ListStore, client *anilist.Client, launcher *player.Launcher, cfg *config.Config, logger *logging.Logger, version string) *Server {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Server{
		store:   store,
		list:    list,
		client:  client,
		player:  launcher,
		cfg:     cfg,
		logger:  logger,
		version: version,
	}
}

// Handler returns the HTTP handler with CORS and API routes.
func (s *Server) Handler() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.API.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Mount("/api/v1", s.apiRouter())

	return r
}

func (s *Server) apiRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.SetHeader("Content-Type", "application/json"))

	r.Get("/health", s.handleHealth)

	r.Get("/folders", s.handleListFolders)
	r.Post("/folders", s.handleAddFolder)
	r.Delete("/folders", s.handleRemoveFolder)
	r.Post("/folders/assign", s.handleAssignFolder)

	r.Get("/watching", s.handleWatching)
	r.Post("/sync", s.handleSync)

	r.Route("/media/{mediaID}", func(r chi.Router) {
		r.Get("/folder", s.handleMediaFolder)
		r.Delete("/folder", s.handleUnassignFolder)
		r.Get("/episodes/{episode}", s.handleEpisodePath)
		r.Post("/play", s.handlePlay)
		r.Post("/progress", s.handleProgress)
	})

	return r
}

// Serve runs the API server until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.API.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Info("api", "api listening", logging.F("addr", s.cfg.API.Addr))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
