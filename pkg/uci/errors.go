package uci

import (
	"fmt"
	"math"
)

// MaxTokens is the upper bound reported by InvalidLengthError for commands
// that accept any number of trailing tokens.
const MaxTokens = math.MaxInt

// InvalidCommandTypeError reports a first token that does not match the
// literal the attempted parser requires.
type InvalidCommandTypeError struct {
	Expected string
	Got      string
}

func (e InvalidCommandTypeError) Error() string {
	return fmt.Sprintf("Invalid command type. Expected %s, got %s", e.Expected, e.Got)
}

// InvalidLengthError reports a token count outside the accepted bounds of
// the attempted parser.
type InvalidLengthError struct {
	Min int
	Max int
	Got int
}

func (e InvalidLengthError) Error() string {
	return fmt.Sprintf("Invalid length. Expected between %d and %d, got %d", e.Min, e.Max, e.Got)
}

// UnknownTokenError reports a keyword, argument, move or FEN candidate that
// fails its local grammar.
type UnknownTokenError struct {
	Token string
}

func (e UnknownTokenError) Error() string {
	return fmt.Sprintf("Unknown token '%s'", e.Token)
}
