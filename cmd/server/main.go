package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"go-mafia/internal/config"
	"go-mafia/internal/server"
)

func main() {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	srv := server.New(cfg, log)
	if err := srv.Run(ctx); err != nil {
		log.Error("server exited", "err", err)
		os.Exit(1)
	}
}
