package greedy

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	nchess "github.com/corentings/chess/v2"

	"github.com/park285/uciwire/internal/console"
	"github.com/park285/uciwire/pkg/uci"
)

func newTestEngine(t *testing.T, mutate func(*Config)) *Engine {
	t.Helper()
	cfg := Config{Name: "uciwire test", Author: "nobody", Style: StyleBalanced}
	if mutate != nil {
		mutate(&cfg)
	}
	eng, err := New(cfg)
	if err != nil {
		t.Fatalf("expected engine but got error: %v", err)
	}
	return eng
}

func runSearch(t *testing.T, eng *Engine, req console.SearchRequest) (console.SearchResult, []string) {
	t.Helper()
	var lines []string
	req.Info = func(parts []uci.MoveInfo) {
		lines = append(lines, uci.BuildInfoMsg(parts))
	}
	res, err := eng.Search(context.Background(), req)
	if err != nil {
		t.Fatalf("expected search result but got error: %v", err)
	}
	return res, lines
}

func TestSearchFindsHangingQueen(t *testing.T) {
	eng := newTestEngine(t, nil)
	res, lines := runSearch(t, eng, console.SearchRequest{
		FEN: "k7/8/8/3q4/8/8/7K/3R4 w - - 0 1",
	})
	if res.BestMove != "d1d5" {
		t.Fatalf("expected bestmove d1d5 but got %s", res.BestMove)
	}
	if res.Nodes == 0 {
		t.Fatalf("expected nodes to be counted")
	}
	final := lines[len(lines)-1]
	if !strings.Contains(final, " score cp ") {
		t.Fatalf("expected centipawn score in %q", final)
	}
	if !strings.Contains(final, " pv d1d5") {
		t.Fatalf("expected pv d1d5 in %q", final)
	}
}

func TestSearchFindsMateInOne(t *testing.T) {
	eng := newTestEngine(t, nil)
	res, lines := runSearch(t, eng, console.SearchRequest{
		FEN: "6k1/5ppp/8/8/8/8/8/4R2K w - - 0 1",
	})
	if res.BestMove != "e1e8" {
		t.Fatalf("expected bestmove e1e8 but got %s", res.BestMove)
	}
	final := lines[len(lines)-1]
	if !strings.Contains(final, " score mate 1") {
		t.Fatalf("expected mate score in %q", final)
	}
}

func TestSearchStyleBreaksMateTie(t *testing.T) {
	// Both d1d8 and e1xe8 deliver mate. The quiet rook lift and the
	// knight capture tie on score, so style decides.
	const fen = "k3n3/pp6/8/8/8/8/8/3RR2K w - - 0 1"

	cases := []struct {
		style string
		want  string
	}{
		{StyleAggressive, "e1e8"},
		{StyleSolid, "d1d8"},
	}
	for _, tc := range cases {
		t.Run(tc.style, func(t *testing.T) {
			eng := newTestEngine(t, func(cfg *Config) { cfg.Style = tc.style })
			res, _ := runSearch(t, eng, console.SearchRequest{FEN: fen})
			if res.BestMove != tc.want {
				t.Fatalf("expected bestmove %s but got %s", tc.want, res.BestMove)
			}
		})
	}
}

func TestSearchEmitsCandidateTelemetry(t *testing.T) {
	eng := newTestEngine(t, nil)
	_, lines := runSearch(t, eng, console.SearchRequest{
		FEN: "k7/8/8/3q4/8/8/7K/3R4 w - - 0 1",
	})
	var currmoves int
	for _, line := range lines {
		if strings.Contains(line, " currmove ") {
			currmoves++
		}
	}
	if currmoves == 0 {
		t.Fatalf("expected currmove frames, got lines %v", lines)
	}
	final := lines[len(lines)-1]
	for _, want := range []string{"depth 1", "seldepth 1", " nodes ", " nps ", " time "} {
		if !strings.Contains(final, want) {
			t.Fatalf("expected %q in final frame %q", want, final)
		}
	}
}

func TestSearchPlaysBookLine(t *testing.T) {
	eng := newTestEngine(t, func(cfg *Config) { cfg.OwnBook = true })

	cases := []struct {
		name    string
		history []string
		want    string
		line    string
	}{
		{"fresh game", nil, "e2e4", "italian-game"},
		{"open game", []string{"e2e4", "e7e5"}, "g1f3", "italian-game"},
		{"sicilian", []string{"e2e4", "c7c5"}, "g1f3", "sicilian-najdorf"},
		{"as black", []string{"d2d4"}, "d7d5", "queens-gambit"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, lines := runSearch(t, eng, console.SearchRequest{
				FEN:   uci.StartPosFEN,
				Moves: tc.history,
			})
			if res.BestMove != tc.want {
				t.Fatalf("expected book move %s but got %s", tc.want, res.BestMove)
			}
			if res.Nodes != 0 {
				t.Fatalf("expected no search nodes for a book move, got %d", res.Nodes)
			}
			if len(lines) != 1 || !strings.Contains(lines[0], "string book "+tc.line) {
				t.Fatalf("expected book info frame, got %v", lines)
			}
		})
	}
}

func TestSearchSkipsBookWhenDisabled(t *testing.T) {
	eng := newTestEngine(t, nil)
	res, _ := runSearch(t, eng, console.SearchRequest{FEN: uci.StartPosFEN})
	if res.Nodes != 20 {
		t.Fatalf("expected 20 nodes from the starting position, got %d", res.Nodes)
	}
}

func TestSearchSkipsBookOffStartingPosition(t *testing.T) {
	eng := newTestEngine(t, func(cfg *Config) { cfg.OwnBook = true })
	res, _ := runSearch(t, eng, console.SearchRequest{
		FEN: "k7/8/8/3q4/8/8/7K/3R4 w - - 0 1",
	})
	if res.BestMove != "d1d5" {
		t.Fatalf("expected searched move d1d5 but got %s", res.BestMove)
	}
}

func TestSearchNoLegalMoves(t *testing.T) {
	eng := newTestEngine(t, nil)
	_, err := eng.Search(context.Background(), console.SearchRequest{
		FEN: "k7/8/1Q6/8/8/8/8/7K b - - 0 1",
	})
	if !errors.Is(err, ErrNoLegalMoves) {
		t.Fatalf("expected ErrNoLegalMoves but got %v", err)
	}
}

func TestSearchInfiniteHoldsUntilCancel(t *testing.T) {
	eng := newTestEngine(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()
	res, err := eng.Search(ctx, console.SearchRequest{
		FEN:      uci.StartPosFEN,
		Infinite: true,
	})
	if err != nil {
		t.Fatalf("expected result but got error: %v", err)
	}
	if res.BestMove == "" {
		t.Fatalf("expected a best move after cancel")
	}
	if res.Elapsed < 20*time.Millisecond {
		t.Fatalf("expected search to hold for the cancel, elapsed %v", res.Elapsed)
	}
}

func TestSearchCancelledKeepsFirstCandidate(t *testing.T) {
	eng := newTestEngine(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := eng.Search(ctx, console.SearchRequest{FEN: uci.StartPosFEN})
	if err != nil {
		t.Fatalf("expected result but got error: %v", err)
	}
	if res.BestMove == "" {
		t.Fatalf("expected a best move even when cancelled immediately")
	}
	if res.Nodes != 1 {
		t.Fatalf("expected exactly one node before the cancel took effect, got %d", res.Nodes)
	}
}

func TestSetOption(t *testing.T) {
	cases := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"Hash", "128", false},
		{"Hash", "0", true},
		{"Hash", "2048", true},
		{"Hash", "lots", true},
		{"OwnBook", "false", false},
		{"OwnBook", "true", false},
		{"OwnBook", "perhaps", true},
		{"Style", "aggressive", false},
		{"Style", "SOLID", false},
		{"Style", "reckless", true},
		{"ClearStats", "", false},
		{"UCI_EngineAbout", "uciwire demo engine", false},
	}
	for _, tc := range cases {
		t.Run(tc.name+"="+tc.value, func(t *testing.T) {
			eng := newTestEngine(t, nil)
			err := eng.SetOption(tc.name, tc.value)
			if tc.wantErr && err == nil {
				t.Fatalf("expected error for %s=%s", tc.name, tc.value)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("expected %s=%s to be accepted but got %v", tc.name, tc.value, err)
			}
		})
	}

	eng := newTestEngine(t, nil)
	if err := eng.SetOption("Ponder", "true"); !errors.Is(err, console.ErrUnknownOption) {
		t.Fatalf("expected ErrUnknownOption but got %v", err)
	}
}

func TestSetOptionUpdatesState(t *testing.T) {
	eng := newTestEngine(t, func(cfg *Config) { cfg.OwnBook = true })

	if err := eng.SetOption("OwnBook", "false"); err != nil {
		t.Fatalf("expected OwnBook to be accepted but got %v", err)
	}
	res, _ := runSearch(t, eng, console.SearchRequest{FEN: uci.StartPosFEN})
	if res.Nodes != 20 {
		t.Fatalf("expected a full search after disabling the book, got %d nodes", res.Nodes)
	}

	if err := eng.SetOption("Style", "Aggressive"); err != nil {
		t.Fatalf("expected style change but got %v", err)
	}
	eng.mu.Lock()
	style := eng.style
	eng.mu.Unlock()
	if style != StyleAggressive {
		t.Fatalf("expected style to normalize to aggressive, got %s", style)
	}

	if err := eng.SetOption("UCI_EngineAbout", "about text"); err != nil {
		t.Fatalf("expected about change but got %v", err)
	}
	eng.mu.Lock()
	about := eng.about
	eng.mu.Unlock()
	if about != "about text" {
		t.Fatalf("expected about text to be stored, got %q", about)
	}
}

func TestClearStatsResetsCounters(t *testing.T) {
	eng := newTestEngine(t, nil)
	runSearch(t, eng, console.SearchRequest{FEN: uci.StartPosFEN})

	eng.mu.Lock()
	nodes := eng.nodes
	eng.mu.Unlock()
	if nodes == 0 {
		t.Fatalf("expected node counter to grow after a search")
	}

	if err := eng.SetOption("ClearStats", ""); err != nil {
		t.Fatalf("expected ClearStats to be accepted but got %v", err)
	}
	eng.mu.Lock()
	searches, total := eng.searches, eng.nodes
	eng.mu.Unlock()
	if searches != 0 || total != 0 {
		t.Fatalf("expected counters to reset, got searches=%d nodes=%d", searches, total)
	}
}

func TestPreferStyles(t *testing.T) {
	game, err := buildGame("k7/8/8/3p4/4P3/8/8/K7 w - - 0 1", nil)
	if err != nil {
		t.Fatalf("expected game but got error: %v", err)
	}
	var capture, quiet nchess.Move
	var haveCapture, haveQuiet bool
	for _, mv := range game.ValidMoves() {
		switch mv.String() {
		case "e4d5":
			capture, haveCapture = mv, true
		case "e4e5":
			quiet, haveQuiet = mv, true
		}
	}
	if !haveCapture || !haveQuiet {
		t.Fatalf("expected both e4d5 and e4e5 to be legal")
	}
	if !isCapture(capture) {
		t.Fatalf("expected e4d5 to be a capture")
	}
	if isCapture(quiet) {
		t.Fatalf("expected e4e5 to be quiet")
	}

	if !prefer(StyleAggressive, capture, quiet) {
		t.Fatalf("expected aggressive to take the capture")
	}
	if prefer(StyleAggressive, quiet, capture) {
		t.Fatalf("expected aggressive to keep the capture")
	}
	if !prefer(StyleSolid, quiet, capture) {
		t.Fatalf("expected solid to take the quiet move")
	}
	if prefer(StyleSolid, capture, quiet) {
		t.Fatalf("expected solid to keep the quiet move")
	}
	if prefer(StyleBalanced, capture, quiet) {
		t.Fatalf("expected balanced to keep the earlier candidate")
	}
}

func TestBookNext(t *testing.T) {
	book := &Book{Lines: []BookLine{
		{Name: "first", Moves: []string{"e2e4", "e7e5", "g1f3"}},
		{Name: "second", Moves: []string{"e2e4", "c7c5", "g1f3", "d7d6"}},
	}}

	cases := []struct {
		name     string
		history  []string
		wantMove string
		wantLine string
		wantOK   bool
	}{
		{"empty history", nil, "e2e4", "first", true},
		{"first line", []string{"e2e4", "e7e5"}, "g1f3", "first", true},
		{"second line", []string{"e2e4", "c7c5", "g1f3"}, "d7d6", "second", true},
		{"exhausted line", []string{"e2e4", "e7e5", "g1f3"}, "", "", false},
		{"off book", []string{"b1c3"}, "", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			move, line, ok := book.Next(tc.history)
			if ok != tc.wantOK {
				t.Fatalf("expected ok=%v but got %v", tc.wantOK, ok)
			}
			if move != tc.wantMove || line != tc.wantLine {
				t.Fatalf("expected %s from %s but got %s from %s", tc.wantMove, tc.wantLine, move, line)
			}
		})
	}
}

func TestLoadBook(t *testing.T) {
	book, err := LoadBook()
	if err != nil {
		t.Fatalf("expected embedded book to load but got %v", err)
	}
	if len(book.Lines) == 0 {
		t.Fatalf("expected at least one book line")
	}
	if book.Lines[0].Name != "italian-game" {
		t.Fatalf("expected italian-game to lead the catalog, got %s", book.Lines[0].Name)
	}
}

func TestBuildGame(t *testing.T) {
	game, err := buildGame(uci.StartPosFEN, []string{"e2e4", "e7e5"})
	if err != nil {
		t.Fatalf("expected game but got error: %v", err)
	}
	if game.Position().Turn() != nchess.White {
		t.Fatalf("expected white to move after two plies")
	}

	if _, err := buildGame(uci.StartPosFEN, []string{"e2e5"}); err == nil {
		t.Fatalf("expected illegal move to be rejected")
	}
	if _, err := buildGame("8/8/8/8/8/8/8/9 w - - 0 1", nil); err == nil {
		t.Fatalf("expected malformed fen to be rejected")
	}
}

func TestNewRejectsUnknownStyle(t *testing.T) {
	_, err := New(Config{Name: "x", Author: "y", Style: "bloodthirsty"})
	if err == nil {
		t.Fatalf("expected unknown style to be rejected")
	}
}
