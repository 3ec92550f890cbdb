package app

import (
	"context"
	"fmt"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/socialmedia-server/internal/config"
	"github.com/vovakirdan/socialmedia-server/internal/service/accounts"
	"github.com/vovakirdan/socialmedia-server/internal/service/messages"
	"github.com/vovakirdan/socialmedia-server/internal/store"
	"github.com/vovakirdan/socialmedia-server/internal/store/memory"
	"github.com/vovakirdan/socialmedia-server/internal/store/migrations"
	"github.com/vovakirdan/socialmedia-server/internal/store/sqldb"
	transporthttp "github.com/vovakirdan/socialmedia-server/internal/transport/http"
)

// App wires together store, services and transport layers.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	store           store.Store
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg *config.Config, logger *zerolog.Logger) (*App, error) {
	st, err := OpenStore(cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	accountService := accounts.New(st)
	messageService := messages.New(st)
	server := transporthttp.NewServer(accountService, messageService, cfg, logger)

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		store:           st,
		log:             logger,
	}, nil
}

// OpenStore opens the configured store and applies migrations when enabled.
func OpenStore(cfg config.DatabaseConfig, logger *zerolog.Logger) (store.Store, error) {
	if cfg.Driver == config.DriverMemory {
		logger.Info().Msg("using in-memory store")
		return memory.New(), nil
	}

	st, err := sqldb.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}

	if cfg.AutoMigrate {
		if err := migrations.Up(st.DB(), st.DriverName()); err != nil {
			_ = st.Close()
			return nil, fmt.Errorf("migrate store: %w", err)
		}
		logger.Info().Str("driver", cfg.Driver).Msg("schema up to date")
	}

	logger.Info().Str("driver", cfg.Driver).Msg("database initialized")
	return st, nil
}

// Handler exposes the HTTP handler, mainly for tests.
func (a *App) Handler() stdhttp.Handler {
	return a.server.Handler
}

// Run starts the HTTP server and blocks until context cancellation or fatal error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go func() {
		a.log.Info().Str("addr", a.server.Addr).Msg("http server listening")
		if err := a.server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		a.cleanup()
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.cleanup()
			return err
		}

		a.cleanup()
		return <-serverErr
	}
}

// cleanup closes database and other resources.
func (a *App) cleanup() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close store")
		} else {
			a.log.Info().Msg("store closed")
		}
	}
}
