package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	handlers "github.com/de-tools/shopping-atlas/pkg/handlers/dashboard"
	atlasmiddleware "github.com/de-tools/shopping-atlas/pkg/server/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

const defaultShutdownTimeout = 10 * time.Second

type WebAPI struct {
	logger          *zerolog.Logger
	server          *http.Server
	shutdownTimeout time.Duration
}

type Dependencies struct {
	Dashboard handlers.Dashboard
}

type Config struct {
	Addr            string
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
	Dependencies    Dependencies
}

func NewWebAPI(logger zerolog.Logger, config Config) *WebAPI {
	timeout := config.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}

	return &WebAPI{
		logger:          &logger,
		shutdownTimeout: timeout,
		server: &http.Server{
			Addr:              config.Addr,
			Handler:           ConfigureRouter(logger, config),
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// ConfigureRouter mounts the dashboard API under /api/v1.
func ConfigureRouter(logger zerolog.Logger, config Config) http.Handler {
	h := handlers.NewHandler(config.Dependencies.Dashboard)

	router := chi.NewRouter()
	router.Use(atlasmiddleware.Logger(&logger))
	router.Use(middleware.Recoverer)
	router.Use(cors.New(cors.Options{
		AllowedOrigins: config.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{atlasmiddleware.RequestIDHeader},
	}).Handler)

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/filters", h.GetFilters)
		r.Get("/dashboard", h.GetDashboard)
		r.Post("/dashboard", h.PostDashboard)
		r.Get("/dashboard/rows", h.GetRows)
		r.Get("/charts/{chart}.png", h.GetChart)
		r.Get("/export.xlsx", h.GetExport)
	})

	return router
}

func (w *WebAPI) Start() error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-shutdown:
		w.logger.Info().Msg("shutdown initiated")

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), w.shutdownTimeout)
		defer cancel()

		err := w.server.Shutdown(ctx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}

		if err != nil {
			return err
		}
	}

	return nil
}
