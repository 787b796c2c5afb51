package greedy

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	nchess "github.com/corentings/chess/v2"
	"go.uber.org/zap"

	"github.com/park285/uciwire/internal/console"
	"github.com/park285/uciwire/pkg/uci"
)

const (
	StyleSolid      = "solid"
	StyleBalanced   = "balanced"
	StyleAggressive = "aggressive"
)

const (
	defaultHashMB = 16
	minHashMB     = 1
	maxHashMB     = 1024

	// mateScore sits far above any reachable material balance.
	mateScore = 30000
)

// ErrNoLegalMoves is returned when the searched position is already
// checkmate or stalemate.
var ErrNoLegalMoves = errors.New("greedy: no legal moves in position")

var pieceValues = map[nchess.PieceType]int{
	nchess.Pawn:   100,
	nchess.Knight: 300,
	nchess.Bishop: 300,
	nchess.Rook:   500,
	nchess.Queen:  900,
}

// Engine is a one-ply material counter. It scores every legal move by
// the material balance of the resulting position and plays the best one,
// with the configured style breaking ties.
type Engine struct {
	log  *zap.Logger
	book *Book

	mu       sync.Mutex
	name     string
	author   string
	about    string
	hashMB   int64
	ownBook  bool
	style    string
	options  []uci.OptionMsg
	searches uint64
	nodes    uint64
}

// Config carries the identity and defaults an Engine starts with.
// Options is the catalog advertised during the uci handshake.
type Config struct {
	Name    string
	Author  string
	About   string
	OwnBook bool
	Style   string
	Options []uci.OptionMsg
	Logger  *zap.Logger
}

func New(cfg Config) (*Engine, error) {
	style, err := normalizeStyle(cfg.Style)
	if err != nil {
		return nil, err
	}
	book, err := LoadBook()
	if err != nil {
		return nil, fmt.Errorf("load opening book: %w", err)
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	name := cfg.Name
	if name == "" {
		name = "uciwire"
	}
	author := cfg.Author
	if author == "" {
		author = "unknown"
	}
	return &Engine{
		log:     log,
		book:    book,
		name:    name,
		author:  author,
		about:   cfg.About,
		hashMB:  defaultHashMB,
		ownBook: cfg.OwnBook,
		style:   style,
		options: cfg.Options,
	}, nil
}

func (e *Engine) Identify() (string, string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.name, e.author
}

func (e *Engine) Options() []uci.OptionMsg {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]uci.OptionMsg(nil), e.options...)
}

func (e *Engine) NewGame() {
	e.log.Debug("new game")
}

func (e *Engine) SetOption(name, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch name {
	case "Hash":
		n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil || n < minHashMB || n > maxHashMB {
			return fmt.Errorf("greedy: hash size %q must be between %d and %d", value, minHashMB, maxHashMB)
		}
		e.hashMB = n
	case "OwnBook":
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("greedy: own book value %q is not a boolean", value)
		}
		e.ownBook = b
	case "Style":
		style, err := normalizeStyle(value)
		if err != nil {
			return err
		}
		e.style = style
	case "ClearStats":
		e.searches = 0
		e.nodes = 0
	case "UCI_EngineAbout":
		e.about = value
	default:
		return console.ErrUnknownOption
	}
	return nil
}

// Search runs one pass over the legal moves of the requested position.
// Cancellation stops the scan and the best move found so far is kept.
// With Infinite set the result is held back until the context ends.
func (e *Engine) Search(ctx context.Context, req console.SearchRequest) (console.SearchResult, error) {
	start := time.Now()

	game, err := buildGame(req.FEN, req.Moves)
	if err != nil {
		return console.SearchResult{}, err
	}

	e.mu.Lock()
	ownBook := e.ownBook
	style := e.style
	e.mu.Unlock()

	if ownBook && req.FEN == uci.StartPosFEN {
		if mv, line, ok := e.book.Next(req.Moves); ok {
			emit(req.Info, uci.PV([]string{mv}), uci.Custom("book "+line))
			e.recordSearch(0)
			if req.Infinite {
				<-ctx.Done()
			}
			return console.SearchResult{BestMove: mv, Elapsed: time.Since(start)}, nil
		}
	}

	moves := game.ValidMoves()
	if len(moves) == 0 {
		return console.SearchResult{}, ErrNoLegalMoves
	}

	pov := game.Position().Turn()
	var (
		best      nchess.Move
		bestScore = math.MinInt
		nodes     uint32
	)

	for i := range moves {
		if i > 0 && ctx.Err() != nil {
			break
		}
		mv := moves[i]
		emit(req.Info, uci.Depth(1), uci.CurrMove(mv.String()), uci.CurrMoveNumber(uint32(i+1)))

		score, err := scoreMove(game, mv, pov)
		if err != nil {
			e.log.Warn("skipping unplayable move", zap.String("move", mv.String()), zap.Error(err))
			continue
		}
		nodes++

		if score > bestScore || (score == bestScore && prefer(style, mv, best)) {
			best = mv
			bestScore = score
		}
	}
	if bestScore == math.MinInt {
		return console.SearchResult{}, ErrNoLegalMoves
	}

	elapsed := time.Since(start)
	emit(req.Info,
		uci.Depth(1),
		uci.SelDepth(1),
		uci.Time(uint32(elapsed.Milliseconds())),
		uci.Nodes(nodes),
		uci.NPS(nodesPerSecond(nodes, elapsed)),
		scoreInfo(bestScore),
		uci.PV([]string{best.String()}),
	)
	e.recordSearch(nodes)

	if req.Infinite {
		<-ctx.Done()
	}
	return console.SearchResult{
		BestMove: best.String(),
		Nodes:    nodes,
		Elapsed:  time.Since(start),
	}, nil
}

// buildGame replays the move history on top of the given position.
func buildGame(fen string, moves []string) (*nchess.Game, error) {
	var game *nchess.Game
	if fen == uci.StartPosFEN {
		game = nchess.NewGame()
	} else {
		opt, err := nchess.FEN(fen)
		if err != nil {
			return nil, fmt.Errorf("decode fen %q: %w", fen, err)
		}
		game = nchess.NewGame(opt)
	}
	for _, mv := range moves {
		if err := game.PushNotationMove(mv, nchess.UCINotation{}, nil); err != nil {
			return nil, fmt.Errorf("apply move %s: %w", mv, err)
		}
	}
	return game, nil
}

func scoreMove(game *nchess.Game, mv nchess.Move, pov nchess.Color) (int, error) {
	child := game.Clone()
	if err := child.Move(&mv, nil); err != nil {
		return 0, err
	}
	switch child.Outcome() {
	case nchess.WhiteWon:
		if pov == nchess.White {
			return mateScore, nil
		}
		return -mateScore, nil
	case nchess.BlackWon:
		if pov == nchess.Black {
			return mateScore, nil
		}
		return -mateScore, nil
	case nchess.Draw:
		return 0, nil
	}
	return materialBalance(child, pov), nil
}

// materialBalance scores a position from pov's side. Kings carry no
// value, decided games are handled before this is called.
func materialBalance(game *nchess.Game, pov nchess.Color) int {
	board := game.Position().Board()
	total := 0
	for file := nchess.FileA; file <= nchess.FileH; file++ {
		for rank := nchess.Rank1; rank <= nchess.Rank8; rank++ {
			piece := board.Piece(nchess.NewSquare(file, rank))
			if piece == nchess.NoPiece {
				continue
			}
			value := pieceValues[piece.Type()]
			if value == 0 {
				continue
			}
			if piece.Color() == pov {
				total += value
			} else {
				total -= value
			}
		}
	}
	return total
}

// prefer reports whether cand should replace best on an equal score.
// Aggressive favors captures, solid avoids them, balanced keeps the
// earlier candidate.
func prefer(style string, cand, best nchess.Move) bool {
	switch style {
	case StyleAggressive:
		return isCapture(cand) && !isCapture(best)
	case StyleSolid:
		return !isCapture(cand) && isCapture(best)
	default:
		return false
	}
}

func isCapture(mv nchess.Move) bool {
	return mv.HasTag(nchess.Capture) || mv.HasTag(nchess.EnPassant)
}

func scoreInfo(score int) uci.MoveInfo {
	switch {
	case score >= mateScore:
		return uci.Score{Value: uci.Mate(1)}
	case score <= -mateScore:
		return uci.Score{Value: uci.Mate(-1)}
	default:
		return uci.Score{Value: uci.CP(int32(score))}
	}
}

func nodesPerSecond(nodes uint32, elapsed time.Duration) uint32 {
	ms := elapsed.Milliseconds()
	if ms <= 0 {
		return nodes * 1000
	}
	return uint32(uint64(nodes) * 1000 / uint64(ms))
}

func normalizeStyle(s string) (string, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "" {
		return StyleBalanced, nil
	}
	switch v {
	case StyleSolid, StyleBalanced, StyleAggressive:
		return v, nil
	}
	return "", fmt.Errorf("greedy: style %q is not one of solid, balanced or aggressive", s)
}

func (e *Engine) recordSearch(nodes uint32) {
	e.mu.Lock()
	e.searches++
	e.nodes += uint64(nodes)
	searches, total := e.searches, e.nodes
	e.mu.Unlock()
	e.log.Debug("search recorded",
		zap.Uint64("total_searches", searches),
		zap.Uint64("total_nodes", total))
}

func emit(info func([]uci.MoveInfo), parts ...uci.MoveInfo) {
	if info != nil {
		info(parts)
	}
}
