package uci

import "testing"

func TestIsValidMove(t *testing.T) {
	valid := []string{
		"a1a2", "e2e4", "h7h8", "a1a2q", "a1a2r", "a1a2b", "a1a2n",
		"a1a2Q", "a1a2R", "a1a2B", "a1a2N",
	}
	for _, mv := range valid {
		if !IsValidMove(mv) {
			t.Fatalf("expected %q to be a valid move", mv)
		}
	}

	invalid := []string{
		"a1a2x", "a1a2qq", "a1a2k", "", "\n", "o9a2q", "aaaa", "e2e4 ", "i1a2",
	}
	for _, mv := range invalid {
		if IsValidMove(mv) {
			t.Fatalf("expected %q to be rejected", mv)
		}
	}
}

func TestIsValidFEN(t *testing.T) {
	valid := []string{
		StartPosFEN,
		"rnbqkb1r/pppppppp/5n2/8/2PP4/8/PP2PPPP/RNBQKBNR b KQkq c3 0 2",
		"8/8/8/8/8/8/8/8 b - - 0 0",
		"8/8/8/8/8/8/8/8 w kq - 0 1",
		"8/8/8/8/8/8/8/8 w q e3 12 34",
	}
	for _, fen := range valid {
		if !IsValidFEN(fen) {
			t.Fatalf("expected %q to be a valid FEN", fen)
		}
	}

	invalid := []string{
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR",
		"rnbqkb1r/pppppppp/5n2/8/2PP4/8/PP2PPPP/RNBQKBNR b KQkq c3 0",
		"8/8/8/8/8/8/8/8 b - - 0",
		"8/8/8/8/8/8/8/8 b - - 0 0 0",
		"- - - - - -",
		"8/8/8/8/8/8/8/8 x - - 0 1",
		"8/8/8/8/8/8/8/8 w - e9 0 1",
	}
	for _, fen := range invalid {
		if IsValidFEN(fen) {
			t.Fatalf("expected %q to be rejected", fen)
		}
	}
}

// The castling pattern requires a trailing q unless the field is a dash, so
// white-only rights never match.
func TestFENCastlingQuirk(t *testing.T) {
	if !IsValidFEN("8/8/8/8/8/8/8/8 w KQkq - 0 1") {
		t.Fatalf("expected full castling rights to match")
	}
	if IsValidFEN("8/8/8/8/8/8/8/8 w KQ - 0 1") {
		t.Fatalf("expected white-only castling rights to be rejected")
	}
}
