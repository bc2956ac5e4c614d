package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/goliatone/go-landing/internal/app"
	"github.com/goliatone/go-landing/internal/config"
	"github.com/goliatone/go-landing/pkg/logger"
)

type serveCmd struct {
	Addr string `help:"Override LANDING_ADDR."`
}

func (cmd *serveCmd) Run(ctx context.Context, root *cli) error {
	cfg, err := config.Load(root.Env...)
	if err != nil {
		return err
	}
	if cmd.Addr != "" {
		cfg.Addr = cmd.Addr
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	a, err := app.Build(ctx, cfg)
	if err != nil {
		return fmt.Errorf("landingctl: build server: %w", err)
	}

	errs := make(chan error, 1)
	go func() {
		logger.Info("Listening", map[string]interface{}{"addr": cfg.Addr})
		errs <- a.Listen()
	}()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(signals)

	select {
	case err := <-errs:
		_ = a.Close()
		return err
	case sig := <-signals:
		logger.Info("Shutting down", map[string]interface{}{"signal": sig.String()})
		return a.Close()
	}
}
