package uci

import (
	"strconv"
	"strings"
)

// GoPayload carries the search limits of a go command. When Infinite is set
// the engine searches until it receives stop and MoveTime is meaningless.
type GoPayload struct {
	MoveTime uint64 // milliseconds, 0 when absent
	Infinite bool
}

// SetOptionPayload carries the option id and value of a setoption command.
// Value is empty when the value segment was omitted.
type SetOptionPayload struct {
	Name  string
	Value string
}

// PositionPayload carries the FEN of a position command, after "startpos"
// expansion, and the moves played on it in order.
type PositionPayload struct {
	FEN   string
	Moves []string
}

func parseSingleToken(cmd Command, literal string) error {
	if len(cmd.Tokens) != 1 {
		return InvalidLengthError{Min: 1, Max: 1, Got: len(cmd.Tokens)}
	}
	if cmd.Tokens[0] != literal {
		return InvalidCommandTypeError{Expected: literal, Got: cmd.Tokens[0]}
	}
	return nil
}

// ParseUci validates a bare uci command.
func ParseUci(cmd Command) error {
	return parseSingleToken(cmd, "uci")
}

// ParseIsReady validates a bare isready command.
func ParseIsReady(cmd Command) error {
	return parseSingleToken(cmd, "isready")
}

// ParseUciNewGame validates a bare ucinewgame command.
func ParseUciNewGame(cmd Command) error {
	return parseSingleToken(cmd, "ucinewgame")
}

// ParseStop validates a bare stop command.
func ParseStop(cmd Command) error {
	return parseSingleToken(cmd, "stop")
}

// ParseQuit validates a bare quit command.
func ParseQuit(cmd Command) error {
	return parseSingleToken(cmd, "quit")
}

// ParseDebug extracts the flag from `debug on` or `debug off`.
func ParseDebug(cmd Command) (bool, error) {
	if len(cmd.Tokens) != 2 {
		return false, InvalidLengthError{Min: 2, Max: 2, Got: len(cmd.Tokens)}
	}
	if cmd.Tokens[0] != "debug" {
		return false, InvalidCommandTypeError{Expected: "debug", Got: cmd.Tokens[0]}
	}
	switch cmd.Tokens[1] {
	case "on":
		return true, nil
	case "off":
		return false, nil
	}
	return false, UnknownTokenError{Token: cmd.Tokens[1]}
}

// ParseSetOption extracts the option id and value from a setoption command.
// The tokens after the verb form a keyword stream: "name" and "value" each
// consume the following token, repeats overwrite earlier values. Whether the
// option id itself is known is engine policy and not checked here.
func ParseSetOption(cmd Command) (SetOptionPayload, error) {
	if len(cmd.Tokens) < 3 {
		return SetOptionPayload{}, InvalidLengthError{Min: 3, Max: MaxTokens, Got: len(cmd.Tokens)}
	}
	if cmd.Tokens[0] != "setoption" {
		return SetOptionPayload{}, InvalidCommandTypeError{Expected: "setoption", Got: cmd.Tokens[0]}
	}

	var payload SetOptionPayload
	rest := cmd.Tokens[1:]
	for i := 0; i < len(rest); i++ {
		switch rest[i] {
		case "name":
			if i+1 == len(rest) {
				return SetOptionPayload{}, UnknownTokenError{Token: rest[i]}
			}
			i++
			payload.Name = rest[i]
		case "value":
			if i+1 == len(rest) {
				return SetOptionPayload{}, UnknownTokenError{Token: rest[i]}
			}
			i++
			payload.Value = rest[i]
		default:
			return SetOptionPayload{}, UnknownTokenError{Token: rest[i]}
		}
	}
	return payload, nil
}

// ParseGo extracts search limits from a go command. Only "movetime <ms>" and
// "infinite" are understood; every other keyword, including otherwise legal
// protocol fields such as depth or wtime, is a parse failure.
func ParseGo(cmd Command) (GoPayload, error) {
	if len(cmd.Tokens) < 2 {
		return GoPayload{}, InvalidLengthError{Min: 2, Max: MaxTokens, Got: len(cmd.Tokens)}
	}
	if cmd.Tokens[0] != "go" {
		return GoPayload{}, InvalidCommandTypeError{Expected: "go", Got: cmd.Tokens[0]}
	}

	var payload GoPayload
	rest := cmd.Tokens[1:]
	for i := 0; i < len(rest); i++ {
		switch rest[i] {
		case "movetime":
			if i+1 == len(rest) {
				return GoPayload{}, UnknownTokenError{Token: rest[i]}
			}
			i++
			ms, err := strconv.ParseUint(rest[i], 10, 64)
			if err != nil {
				return GoPayload{}, UnknownTokenError{Token: rest[i]}
			}
			payload.MoveTime = ms
		case "infinite":
			payload.Infinite = true
		default:
			return GoPayload{}, UnknownTokenError{Token: rest[i]}
		}
	}
	return payload, nil
}

// ParsePosition extracts the FEN and move list from a position command.
// The tokens after the verb split at the first "moves" token into a FEN
// segment and a moves segment. The FEN segment is either the single token
// "startpos" (expanded to StartPosFEN), a single literal candidate, or the
// "fen" keyword followed by the six FEN fields, joined with single spaces.
// Whichever branch produced it, the candidate must pass IsValidFEN and
// every move must pass IsValidMove; legality on the board is not checked.
func ParsePosition(cmd Command) (PositionPayload, error) {
	if len(cmd.Tokens) < 2 {
		return PositionPayload{}, InvalidLengthError{Min: 2, Max: MaxTokens, Got: len(cmd.Tokens)}
	}
	if cmd.Tokens[0] != "position" {
		return PositionPayload{}, InvalidCommandTypeError{Expected: "position", Got: cmd.Tokens[0]}
	}

	rest := cmd.Tokens[1:]
	cut := len(rest)
	for i, tok := range rest {
		if tok == "moves" {
			cut = i
			break
		}
	}

	var fen string
	switch cut {
	case 1:
		fen = rest[0]
	case 7:
		fen = strings.Join(rest[1:7], " ")
	default:
		return PositionPayload{}, InvalidLengthError{Min: 7, Max: 7, Got: cut}
	}

	if fen == "startpos" {
		fen = StartPosFEN
	}
	if !IsValidFEN(fen) {
		return PositionPayload{}, UnknownTokenError{Token: fen}
	}

	var moves []string
	if cut < len(rest) {
		moves = append(moves, rest[cut+1:]...)
	}
	for _, mv := range moves {
		if !IsValidMove(mv) {
			return PositionPayload{}, UnknownTokenError{Token: mv}
		}
	}

	return PositionPayload{FEN: fen, Moves: moves}, nil
}
