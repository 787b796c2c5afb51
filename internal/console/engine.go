package console

import (
	"context"
	"errors"
	"time"

	"github.com/park285/uciwire/pkg/uci"
)

// ErrUnknownOption marks a setoption id the engine does not recognize.
// The console ignores such options per protocol policy instead of failing.
var ErrUnknownOption = errors.New("console: unknown option")

// Engine is the search collaborator the console drives. Implementations
// must tolerate Search cancellation at any point and return the best move
// found so far.
type Engine interface {
	Identify() (name, author string)
	Options() []uci.OptionMsg
	SetOption(name, value string) error
	NewGame()
	Search(ctx context.Context, req SearchRequest) (SearchResult, error)
}

// SearchRequest describes one search. FEN is always a full position, the
// startpos shorthand is expanded before it gets here. Info may be nil.
type SearchRequest struct {
	FEN      string
	Moves    []string
	MoveTime time.Duration
	Infinite bool
	Info     func(parts []uci.MoveInfo)
}

// SearchResult is the outcome of one search.
type SearchResult struct {
	BestMove string
	Nodes    uint32
	Elapsed  time.Duration
}
