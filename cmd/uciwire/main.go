package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/park285/uciwire/internal/config"
	"github.com/park285/uciwire/internal/console"
	"github.com/park285/uciwire/internal/greedy"
	"github.com/park285/uciwire/internal/obslog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	if err := obslog.Init(obslog.Options{Level: cfg.Log.Level, File: cfg.Log.File}); err != nil {
		log.Fatalf("log init error: %v", err)
	}
	defer obslog.Sync()

	opts, err := cfg.OptionMsgs()
	if err != nil {
		log.Fatalf("option catalog error: %v", err)
	}

	eng, err := greedy.New(greedy.Config{
		Name:    cfg.Engine.Name,
		Author:  cfg.Engine.Author,
		About:   cfg.Engine.About,
		OwnBook: cfg.Search.OwnBook,
		Style:   cfg.Search.Style,
		Options: opts,
		Logger:  obslog.L(),
	})
	if err != nil {
		log.Fatalf("engine init error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	obslog.L().Info("engine ready",
		zap.String("name", cfg.Engine.Name),
		zap.Int("movetime_ms", cfg.Search.MoveTimeMillis),
		zap.String("style", cfg.Search.Style))

	c := console.New(console.Config{
		Engine:   eng,
		In:       os.Stdin,
		Out:      os.Stdout,
		Logger:   obslog.L(),
		SetDebug: obslog.SetDebug,
		MoveTime: time.Duration(cfg.Search.MoveTimeMillis) * time.Millisecond,
	})
	if err := c.Run(ctx); err != nil {
		obslog.L().Error("console stopped", zap.Error(err))
		obslog.Sync()
		os.Exit(1)
	}
}
