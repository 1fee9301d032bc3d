package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"skateswap/internal/app/di"
	"skateswap/internal/app/router"
	"skateswap/internal/config"
	authadapters "skateswap/internal/feature/auth/adapters"
	authhandler "skateswap/internal/feature/auth/transport/handler"
	authusecase "skateswap/internal/feature/auth/usecase"
	platformdb "skateswap/internal/platform/db"
	jwtmw "skateswap/internal/platform/jwt"
	"skateswap/internal/platform/mail"
	platformredis "skateswap/internal/platform/redis"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.SetDefault(cfg.NewLogger(os.Stdout))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// db
	db, err := platformdb.Open(cfg.DB, authadapters.Models()...)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()

	// Redis
	var rdb *redisv9.Client
	if cfg.Redis.Enabled() {
		if tmp, err := platformredis.NewRedisClient(ctx, cfg.Redis); err != nil {
			slog.Warn("Redis unavailable. Running without profile cache.", "error", err)
		} else {
			rdb = tmp
			defer func() {
				if err := rdb.Close(); err != nil {
					slog.Error("failed to close Redis client", "error", err)
				}
			}()
		}
	}

	// Repository
	store := di.NewCredentialStore(db, rdb, cfg.ProfileCacheTTL)

	// Token / mail
	opts := cfg.UsecaseOptions()
	tokens, err := jwtmw.NewTokenService(cfg.Auth.JWTSecret)
	if err != nil {
		return err
	}
	sender, err := di.NewMailSender(cfg.Mail)
	if err != nil {
		return err
	}
	mailer := mail.NewAuthMailer(sender, cfg.FrontendURL, opts.VerificationTTL, opts.ResetTTL)

	// Usecase
	authUC := authusecase.NewAuthUsecase(store, tokens, mailer, opts)
	profileUC := authusecase.NewProfileUsecase(store)

	// ルータ生成
	r := router.NewRouter(router.Deps{
		Auth:           authhandler.NewAuthHandler(authUC),
		Profile:        authhandler.NewProfileHandler(profileUC),
		Verifier:       tokens,
		DB:             sqlDB,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("server listening", "addr", srv.Addr, "policy", opts.Policy)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		slog.Info("shutting down server")
		return srv.Shutdown(shutdownCtx)
	})
	if cfg.TokenSweepInterval > 0 {
		sweeper := authusecase.NewTokenSweeper(store)
		g.Go(func() error {
			err := sweeper.Run(gctx, cfg.TokenSweepInterval)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}

	return g.Wait()
}
