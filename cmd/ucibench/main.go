package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/park285/uciwire/internal/bench"
	"github.com/park285/uciwire/internal/config"
	"github.com/park285/uciwire/internal/greedy"
	"github.com/park285/uciwire/internal/obslog"
)

func main() {
	moveTime := flag.Duration("movetime", 2*time.Second, "search budget per position")
	concurrency := flag.Int("concurrency", 0, "parallel searches, 0 means one per CPU")
	style := flag.String("style", "", "override the configured engine style")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if *style != "" {
		cfg.Search.Style = *style
	}

	if err := obslog.Init(obslog.Options{Level: cfg.Log.Level, File: cfg.Log.File}); err != nil {
		log.Fatalf("log init error: %v", err)
	}
	defer obslog.Sync()

	opts, err := cfg.OptionMsgs()
	if err != nil {
		log.Fatalf("option catalog error: %v", err)
	}

	// The book is disabled so every suite position goes through an
	// actual search.
	eng, err := greedy.New(greedy.Config{
		Name:    cfg.Engine.Name,
		Author:  cfg.Engine.Author,
		About:   cfg.Engine.About,
		OwnBook: false,
		Style:   cfg.Search.Style,
		Options: opts,
		Logger:  obslog.L(),
	})
	if err != nil {
		log.Fatalf("engine init error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runID := uuid.NewString()
	obslog.L().Info("bench starting",
		zap.String("run_id", runID),
		zap.Duration("movetime", *moveTime),
		zap.Int("concurrency", *concurrency),
		zap.String("style", cfg.Search.Style))

	report, err := bench.Run(ctx, bench.Config{
		Engine:      eng,
		Concurrency: *concurrency,
		MoveTime:    *moveTime,
		Logger:      obslog.L(),
	}, bench.DefaultSuite())
	if err != nil {
		log.Fatalf("bench error: %v", err)
	}

	for _, res := range report.Results {
		fmt.Printf("%-18s bestmove %-6s nodes %-6d in %s\n",
			res.Name, res.BestMove, res.Nodes, res.Elapsed.Round(time.Millisecond))
	}
	fmt.Printf("total %d nodes in %s (%d nps) run=%s\n",
		report.Nodes, report.Elapsed.Round(time.Millisecond), report.NPS(), runID)
}
