// Package app assembles the service at startup: storage, cache, services and
// the HTTP server, wired once with explicit constructors.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/httplog/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	api "github.com/shortly-app/shortly/internal/api/http"
	rediscache "github.com/shortly-app/shortly/internal/cache/redis"
	"github.com/shortly-app/shortly/internal/config"
	"github.com/shortly-app/shortly/internal/database/postgres"
	"github.com/shortly-app/shortly/internal/notification"
	"github.com/shortly-app/shortly/internal/service"
	pg "github.com/shortly-app/shortly/pkg/postgres"
)

func Run(ctx context.Context, cfg *config.Config) error {
	const op = "app.Run"

	logger := httplog.NewLogger("shortly", httplog.Options{
		LogLevel: slog.LevelInfo,
		JSON:     cfg.Env == config.EnvProd,
		Concise:  cfg.Env != config.EnvProd,
	})

	db, err := pg.New(
		ctx,
		cfg.Postgres.DSN(),
		pg.WithConnMaxIdleTime(cfg.Postgres.ConnMaxIdleTime),
		pg.WithConnMaxLifetime(cfg.Postgres.ConnMaxLifetime),
		pg.WithMaxIdleConns(cfg.Postgres.MaxIdleConns),
		pg.WithMaxOpenConns(cfg.Postgres.MaxOpenConns),
	)
	if err != nil {
		return fmt.Errorf("%s: failed to connect to database: %w", op, err)
	}
	defer db.Close()

	if err := pg.RunMigrations("file://migrations", cfg.Postgres.DSN()); err != nil {
		return fmt.Errorf("%s: failed to run migrations: %w", op, err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Username: cfg.Redis.Username,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	linkSvc := service.NewLinkService(
		logger.Logger,
		postgres.NewLinkRepository(db),
		service.WithCache(rediscache.NewLinkCache(redisClient, cfg.Redis.TTL)),
		service.WithHashLength(cfg.HashLength),
		service.WithPageSize(cfg.PageSize),
		service.WithResolveTimeout(cfg.ResolveTimeout),
		service.WithClickTimeout(cfg.ClickTimeout),
	)

	userSvc := service.NewUserService(
		logger.Logger,
		postgres.NewUserRepository(db),
		service.WithUserPageSize(cfg.PageSize),
		service.WithNotifier(notification.NewSMTPNotifier(
			cfg.SMTP.Host,
			cfg.SMTP.Port,
			cfg.SMTP.Username,
			cfg.SMTP.Password,
			cfg.SMTP.From,
		)),
	)

	server := &http.Server{
		Addr:           cfg.HTTPServer.Addr(),
		Handler:        api.NewRouter(logger, linkSvc, userSvc, cfg.Auth.Secret),
		ReadTimeout:    cfg.HTTPServer.ReadTimeout,
		WriteTimeout:   cfg.HTTPServer.WriteTimeout,
		IdleTimeout:    cfg.HTTPServer.IdleTimeout,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error

		switch cfg.Env {
		case config.EnvProd:
			err = server.ListenAndServeTLS(cfg.HTTPServer.CertFile, cfg.HTTPServer.KeyFile)
		default:
			err = server.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%s: server error occurred: %w", op, err)
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		if err := server.Shutdown(context.Background()); err != nil {
			return fmt.Errorf("%s: failed to shutdown server: %w", op, err)
		}

		// Drain pending click increments before the process exits.
		linkSvc.Close()

		return nil
	})

	return g.Wait()
}
