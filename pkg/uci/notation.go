package uci

import "regexp"

// StartPosFEN is the standard chess starting position, substituted for the
// "startpos" shorthand of the position command.
const StartPosFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Compiled once and shared read-only; both patterns are anchored.
var (
	fenRE  = regexp.MustCompile(`^([pnbrqkPNBRQK1-8]{1,8}/?){8}\s+(b|w)\s+(-|K?Q?k?q)\s+(-|[a-h][3-6])\s+(\d+)\s+(\d+)\s*$`)
	moveRE = regexp.MustCompile(`^[a-h][1-8][a-h][1-8][rnbqRNBQ]?$`)
)

// IsValidFEN reports whether s satisfies the FEN grammar of the position
// command: eight rank groups, side to move, castling rights matching
// `-|K?Q?k?q`, en passant target, half-move clock and full-move number.
func IsValidFEN(s string) bool {
	return fenRE.MatchString(s)
}

// IsValidMove reports whether s is a coordinate move such as e2e4 or e7e8q.
func IsValidMove(s string) bool {
	return moveRE.MatchString(s)
}
