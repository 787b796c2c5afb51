package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/park285/uciwire/pkg/uci"
)

// Console runs the driver side of the protocol over a line transport,
// conventionally the stdin and stdout of the engine process.
type Console struct {
	in       io.Reader
	out      io.Writer
	eng      Engine
	log      *zap.Logger
	setDebug func(bool)
	moveTime time.Duration

	writeMu sync.Mutex

	mu        sync.Mutex
	position  uci.PositionPayload
	searching bool
	cancel    context.CancelFunc
	done      chan struct{}
}

// Config wires a Console. Engine, In and Out are required.
type Config struct {
	Engine Engine
	In     io.Reader
	Out    io.Writer
	Logger *zap.Logger

	// SetDebug is invoked on every debug command. Optional.
	SetDebug func(bool)

	// MoveTime bounds searches whose go command carries no limit.
	// Zero leaves such searches unbounded until stop.
	MoveTime time.Duration
}

func New(cfg Config) *Console {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Console{
		in:       cfg.In,
		out:      cfg.Out,
		eng:      cfg.Engine,
		log:      log,
		setDebug: cfg.SetDebug,
		moveTime: cfg.MoveTime,
		position: uci.PositionPayload{FEN: uci.StartPosFEN},
	}
}

// Run reads commands until quit, end of input or context cancellation.
// Any in-flight search is cancelled and drained before Run returns.
func (c *Console) Run(ctx context.Context) error {
	// Owning the context here releases the reader goroutine when Run
	// returns through the quit path.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	scanner := bufio.NewScanner(c.in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			c.log.Info("context cancelled, shutting down")
			c.shutdown()
			return nil
		case line, ok := <-lines:
			if !ok {
				c.log.Info("input closed, shutting down")
				c.shutdown()
				select {
				case err := <-scanErr:
					if err != nil {
						return fmt.Errorf("read command: %w", err)
					}
				default:
				}
				return nil
			}
			if quit := c.handleLine(ctx, line); quit {
				c.shutdown()
				return nil
			}
		}
	}
}

func (c *Console) handleLine(ctx context.Context, line string) bool {
	cmd := uci.NewCommand(line)
	ct, ok := cmd.Type()
	if !ok {
		if len(cmd.Tokens) > 0 {
			c.log.Debug("ignoring unknown command", zap.String("verb", cmd.Tokens[0]))
		}
		return false
	}

	switch ct {
	case uci.CommandUci:
		c.handleUci(cmd)
	case uci.CommandDebug:
		c.handleDebug(cmd)
	case uci.CommandIsReady:
		c.handleIsReady(cmd)
	case uci.CommandSetOption:
		c.handleSetOption(cmd)
	case uci.CommandUciNewGame:
		c.handleNewGame(cmd)
	case uci.CommandPosition:
		c.handlePosition(cmd)
	case uci.CommandGo:
		c.handleGo(ctx, cmd)
	case uci.CommandStop:
		c.handleStop(cmd)
	case uci.CommandQuit:
		if err := uci.ParseQuit(cmd); err != nil {
			c.reportParseError(ct, err)
			return false
		}
		c.log.Info("quit received")
		return true
	}
	return false
}

func (c *Console) handleUci(cmd uci.Command) {
	if err := uci.ParseUci(cmd); err != nil {
		c.reportParseError(uci.CommandUci, err)
		return
	}
	name, author := c.eng.Identify()
	c.writeLine(uci.BuildNameMsg(name))
	c.writeLine(uci.BuildAuthorMsg(author))
	for _, opt := range c.eng.Options() {
		c.writeLine(uci.BuildOptionMsg(opt))
	}
	c.writeLine(uci.BuildUciOkMsg())
}

func (c *Console) handleDebug(cmd uci.Command) {
	enabled, err := uci.ParseDebug(cmd)
	if err != nil {
		c.reportParseError(uci.CommandDebug, err)
		return
	}
	if c.setDebug != nil {
		c.setDebug(enabled)
	}
	c.log.Info("debug mode", zap.Bool("enabled", enabled))
}

func (c *Console) handleIsReady(cmd uci.Command) {
	if err := uci.ParseIsReady(cmd); err != nil {
		c.reportParseError(uci.CommandIsReady, err)
		return
	}
	c.writeLine(uci.BuildReadyOkMsg())
}

func (c *Console) handleSetOption(cmd uci.Command) {
	payload, err := uci.ParseSetOption(cmd)
	if err != nil {
		c.reportParseError(uci.CommandSetOption, err)
		return
	}
	switch err := c.eng.SetOption(payload.Name, payload.Value); {
	case errors.Is(err, ErrUnknownOption):
		c.log.Info("ignoring unknown option", zap.String("name", payload.Name))
	case err != nil:
		c.writeLine(uci.BuildInfoMsg([]uci.MoveInfo{uci.Custom(err.Error())}))
		c.log.Warn("option rejected",
			zap.String("name", payload.Name),
			zap.String("value", payload.Value),
			zap.Error(err))
	default:
		c.log.Info("option set",
			zap.String("name", payload.Name),
			zap.String("value", payload.Value))
	}
}

func (c *Console) handleNewGame(cmd uci.Command) {
	if err := uci.ParseUciNewGame(cmd); err != nil {
		c.reportParseError(uci.CommandUciNewGame, err)
		return
	}
	c.stopSearch()
	c.waitSearch()
	c.eng.NewGame()
	c.mu.Lock()
	c.position = uci.PositionPayload{FEN: uci.StartPosFEN}
	c.mu.Unlock()
	c.log.Info("new game")
}

func (c *Console) handlePosition(cmd uci.Command) {
	payload, err := uci.ParsePosition(cmd)
	if err != nil {
		c.reportParseError(uci.CommandPosition, err)
		return
	}
	c.mu.Lock()
	c.position = payload
	c.mu.Unlock()
	c.log.Debug("position set",
		zap.String("fen", payload.FEN),
		zap.Int("moves", len(payload.Moves)))
}

func (c *Console) handleGo(ctx context.Context, cmd uci.Command) {
	payload, err := uci.ParseGo(cmd)
	if err != nil {
		c.reportParseError(uci.CommandGo, err)
		return
	}

	c.mu.Lock()
	if c.searching {
		c.mu.Unlock()
		c.log.Warn("search already running, ignoring go")
		return
	}

	moveTime := time.Duration(payload.MoveTime) * time.Millisecond
	if moveTime == 0 && !payload.Infinite {
		moveTime = c.moveTime
	}

	req := SearchRequest{
		FEN:      c.position.FEN,
		Moves:    c.position.Moves,
		MoveTime: moveTime,
		Infinite: payload.Infinite,
		Info: func(parts []uci.MoveInfo) {
			c.writeLine(uci.BuildInfoMsg(parts))
		},
	}

	var sctx context.Context
	var cancel context.CancelFunc
	if !payload.Infinite && moveTime > 0 {
		sctx, cancel = context.WithTimeout(ctx, moveTime)
	} else {
		sctx, cancel = context.WithCancel(ctx)
	}

	done := make(chan struct{})
	c.searching = true
	c.cancel = cancel
	c.done = done
	c.mu.Unlock()

	searchID := uuid.NewString()
	c.log.Info("search started",
		zap.String("search_id", searchID),
		zap.String("fen", req.FEN),
		zap.Duration("movetime", moveTime),
		zap.Bool("infinite", payload.Infinite))

	go func() {
		defer close(done)
		defer cancel()

		res, err := c.eng.Search(sctx, req)

		c.mu.Lock()
		c.searching = false
		c.cancel = nil
		c.mu.Unlock()

		if err != nil {
			c.writeLine(uci.BuildInfoMsg([]uci.MoveInfo{uci.Custom(err.Error())}))
			c.log.Error("search failed", zap.String("search_id", searchID), zap.Error(err))
			return
		}
		c.writeLine(uci.BuildBestMoveMsg(res.BestMove))
		c.log.Info("search finished",
			zap.String("search_id", searchID),
			zap.String("bestmove", res.BestMove),
			zap.Uint32("nodes", res.Nodes),
			zap.Duration("elapsed", res.Elapsed))
	}()
}

func (c *Console) handleStop(cmd uci.Command) {
	if err := uci.ParseStop(cmd); err != nil {
		c.reportParseError(uci.CommandStop, err)
		return
	}
	c.mu.Lock()
	searching := c.searching
	c.mu.Unlock()
	if !searching {
		c.log.Debug("stop with no active search")
		return
	}
	c.stopSearch()
}

func (c *Console) reportParseError(ct uci.CommandType, err error) {
	c.writeLine(uci.BuildInfoMsg([]uci.MoveInfo{uci.Custom(err.Error())}))
	c.log.Warn("rejected command", zap.Stringer("command", ct), zap.Error(err))
}

// stopSearch cancels the in-flight search, if any. The search goroutine
// still emits its bestmove from whatever it found before the cancel.
func (c *Console) stopSearch() {
	c.mu.Lock()
	cancel := c.cancel
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (c *Console) waitSearch() {
	c.mu.Lock()
	done := c.done
	c.mu.Unlock()
	if done != nil {
		<-done
	}
}

func (c *Console) shutdown() {
	c.stopSearch()
	c.waitSearch()
}

func (c *Console) writeLine(msg string) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if _, err := fmt.Fprintln(c.out, msg); err != nil {
		c.log.Error("write failed", zap.Error(err))
	}
}
