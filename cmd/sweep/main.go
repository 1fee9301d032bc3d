package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"skateswap/internal/config"
	authadapters "skateswap/internal/feature/auth/adapters"
	authusecase "skateswap/internal/feature/auth/usecase"
	platformdb "skateswap/internal/platform/db"
)

// 期限切れ・使用済みトークンを一度だけ削除するバッチ（Cloud Scheduler / cron から起動）
func main() {
	timeout := flag.Duration("timeout", 2*time.Minute, "sweep timeout")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(cfg.NewLogger(os.Stdout))

	db, err := platformdb.Open(cfg.DB, authadapters.Models()...)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	sqlDB, err := db.DB()
	if err != nil {
		slog.Error("failed to get sql.DB", "error", err)
		os.Exit(1)
	}
	defer func() { _ = sqlDB.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	sweeper := authusecase.NewTokenSweeper(authadapters.NewCredentialStore(db))
	n, err := sweeper.SweepOnce(ctx)
	if err != nil {
		slog.Error("token sweep failed", "error", err)
		os.Exit(1)
	}
	slog.Info("token sweep completed", "deleted", n)
}
