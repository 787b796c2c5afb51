// Package bench drives an engine over a fixed suite of positions and
// aggregates node counts, mainly to sanity check search throughput.
package bench

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/park285/uciwire/internal/console"
	"github.com/park285/uciwire/pkg/uci"
)

// Position is one benchmark entry. Moves extend the position the same
// way a position command would.
type Position struct {
	Name  string
	FEN   string
	Moves []string
}

// DefaultSuite covers the opening, middlegame and endgame phases plus
// two tactical spots with a forced best move.
func DefaultSuite() []Position {
	return []Position{
		{Name: "startpos", FEN: uci.StartPosFEN},
		{Name: "open-game", FEN: uci.StartPosFEN, Moves: []string{"e2e4", "e7e5", "g1f3", "b8c6", "f1c4", "f8c5"}},
		{Name: "kiwipete", FEN: "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"},
		{Name: "najdorf", FEN: "rnbqkb1r/1p2pppp/p2p1n2/8/3NP3/2N5/PPP2PPP/R1BQKB1R w KQkq - 0 6"},
		{Name: "closed-middlegame", FEN: "r1bq1rk1/pp2ppbp/2np1np1/8/3NP3/2N1BP2/PPPQ2PP/R3KB1R w - - 0 9"},
		{Name: "pawn-endgame", FEN: "8/8/4k3/8/8/4K3/4P3/8 w - - 0 1"},
		{Name: "hanging-queen", FEN: "k7/8/8/3q4/8/8/7K/3R4 w - - 0 1"},
		{Name: "back-rank", FEN: "6k1/5ppp/8/8/8/8/8/4R2K w - - 0 1"},
	}
}

// Config wires a benchmark run. Engine is required, Concurrency
// defaults to the CPU count and MoveTime of zero leaves each search
// unbounded.
type Config struct {
	Engine      console.Engine
	Concurrency int
	MoveTime    time.Duration
	Logger      *zap.Logger
}

type Report struct {
	Results []PositionResult
	Nodes   uint64
	Elapsed time.Duration
}

type PositionResult struct {
	Name     string
	BestMove string
	Nodes    uint32
	Elapsed  time.Duration
}

// NPS is nodes over wall time for the whole run.
func (r *Report) NPS() uint64 {
	ms := r.Elapsed.Milliseconds()
	if ms <= 0 {
		return r.Nodes * 1000
	}
	return r.Nodes * 1000 / uint64(ms)
}

// Run searches every suite position and aggregates the results. The
// first failing position aborts the run.
func Run(ctx context.Context, cfg Config, suite []Position) (*Report, error) {
	if cfg.Engine == nil {
		return nil, errors.New("bench: engine is required")
	}
	if len(suite) == 0 {
		return nil, errors.New("bench: empty suite")
	}
	for _, pos := range suite {
		if !uci.IsValidFEN(pos.FEN) {
			return nil, fmt.Errorf("bench: position %s has a bad fen %q", pos.Name, pos.FEN)
		}
		for _, mv := range pos.Moves {
			if !uci.IsValidMove(mv) {
				return nil, fmt.Errorf("bench: position %s has a bad move %q", pos.Name, mv)
			}
		}
	}

	workers := cfg.Concurrency
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(suite) {
		workers = len(suite)
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	start := time.Now()
	results := make([]PositionResult, len(suite))
	jobs := make(chan int)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(jobs)
		for i := range suite {
			select {
			case jobs <- i:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for i := range jobs {
				pos := suite[i]
				sctx := gctx
				var cancel context.CancelFunc
				if cfg.MoveTime > 0 {
					sctx, cancel = context.WithTimeout(gctx, cfg.MoveTime)
				}
				res, err := cfg.Engine.Search(sctx, console.SearchRequest{
					FEN:      pos.FEN,
					Moves:    pos.Moves,
					MoveTime: cfg.MoveTime,
				})
				if cancel != nil {
					cancel()
				}
				if err != nil {
					return fmt.Errorf("bench: position %s: %w", pos.Name, err)
				}
				results[i] = PositionResult{
					Name:     pos.Name,
					BestMove: res.BestMove,
					Nodes:    res.Nodes,
					Elapsed:  res.Elapsed,
				}
				log.Debug("position finished",
					zap.String("position", pos.Name),
					zap.String("bestmove", res.BestMove),
					zap.Uint32("nodes", res.Nodes))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{Results: results, Elapsed: time.Since(start)}
	for _, r := range results {
		report.Nodes += uint64(r.Nodes)
	}
	return report, nil
}
