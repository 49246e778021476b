package main

import (
	"context"
	"fmt"
	"log"
	"newsnotifier/internal/app"
	"newsnotifier/internal/config"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	cfg, err := config.Load(config.Path())
	if err != nil {
		log.Fatalf("FATAL: could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("FATAL: invalid config: %v", err)
	}
	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("FATAL: could not init app: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = application.Run(ctx)
	stop()
	application.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, "notifier failed:", err)
		os.Exit(1)
	}
}
