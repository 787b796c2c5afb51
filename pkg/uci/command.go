package uci

import "strings"

// CommandType identifies one of the nine driver commands the codec accepts.
type CommandType int

const (
	CommandUci CommandType = iota
	CommandDebug
	CommandIsReady
	CommandSetOption
	CommandUciNewGame
	CommandPosition
	CommandGo
	CommandStop
	CommandQuit
)

func (t CommandType) String() string {
	switch t {
	case CommandUci:
		return "uci"
	case CommandDebug:
		return "debug"
	case CommandIsReady:
		return "isready"
	case CommandSetOption:
		return "setoption"
	case CommandUciNewGame:
		return "ucinewgame"
	case CommandPosition:
		return "position"
	case CommandGo:
		return "go"
	case CommandStop:
		return "stop"
	case CommandQuit:
		return "quit"
	}
	return "unknown"
}

// Command is one protocol line split into tokens. The first token selects
// the command type, the remaining tokens carry the payload.
type Command struct {
	Tokens []string
}

// NewCommand tokenizes an input line. Any run of whitespace separates
// tokens; leading and trailing whitespace is dropped, so an empty or
// all-whitespace line yields no tokens.
func NewCommand(line string) Command {
	return Command{Tokens: strings.Fields(line)}
}

// Type classifies the command by exact match of its first token. ok is
// false for an empty line or an unrecognized verb; by protocol policy the
// caller ignores those silently, they are not errors.
func (c Command) Type() (CommandType, bool) {
	if len(c.Tokens) == 0 {
		return 0, false
	}
	switch c.Tokens[0] {
	case "uci":
		return CommandUci, true
	case "debug":
		return CommandDebug, true
	case "isready":
		return CommandIsReady, true
	case "setoption":
		return CommandSetOption, true
	case "ucinewgame":
		return CommandUciNewGame, true
	case "position":
		return CommandPosition, true
	case "go":
		return CommandGo, true
	case "stop":
		return CommandStop, true
	case "quit":
		return CommandQuit, true
	}
	return 0, false
}
