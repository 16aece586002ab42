package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/99minutos/accounts-api/internal/api"
	"github.com/99minutos/accounts-api/internal/api/handler"
	"github.com/99minutos/accounts-api/internal/core/security"
	"github.com/99minutos/accounts-api/internal/core/service"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API until SIGINT or SIGTERM",
		Action: func(c *cli.Context) error {
			return serve(c.Context)
		},
	}
}

func serve(ctx context.Context) error {
	cfg, log, err := setup(ctx)
	if err != nil {
		return err
	}

	store, err := openStore(ctx, cfg, log, cfg.Store.AutoMigrate)
	if err != nil {
		return err
	}
	defer store.Close(context.Background())

	idempotency, redisPing, closeRedis, err := openIdempotency(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeRedis()

	hasher := security.NewPasswordHasher(cfg.Auth.BcryptCost)
	tokens, err := security.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.JWTAlgorithm)
	if err != nil {
		return err
	}
	auth, err := service.NewAuthService(store.repo, hasher, tokens, cfg.Auth.TokenTTL, log)
	if err != nil {
		return err
	}
	accounts := service.NewAccountService(store.repo, hasher, idempotency, log)

	checks := map[string]handler.PingFunc{cfg.Store.Driver: store.repo.Ping}
	if redisPing != nil {
		checks["redis"] = redisPing
	}

	e := api.NewRouter(api.Dependencies{
		Auth:     auth,
		Accounts: accounts,
		Checks:   checks,
		Logger:   log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.Store.Driver).
			Str("jwt_algorithm", tokens.Algorithm()).
			Msg("accounts api listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
