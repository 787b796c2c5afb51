package greedy

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/park285/uciwire/pkg/uci"
)

//go:embed book.yaml
var bookData []byte

// Book is a small embedded repertoire keyed on the move history from
// the standard starting position. Both colors read from the same lines.
type Book struct {
	Lines []BookLine `yaml:"lines"`
}

type BookLine struct {
	Name  string   `yaml:"name"`
	Moves []string `yaml:"moves"`
}

func LoadBook() (*Book, error) {
	var book Book
	if err := yaml.Unmarshal(bookData, &book); err != nil {
		return nil, fmt.Errorf("decode book: %w", err)
	}
	for i, line := range book.Lines {
		if line.Name == "" {
			return nil, fmt.Errorf("book line %d has no name", i)
		}
		if len(line.Moves) == 0 {
			return nil, fmt.Errorf("book line %s has no moves", line.Name)
		}
		for _, mv := range line.Moves {
			if !uci.IsValidMove(mv) {
				return nil, fmt.Errorf("book line %s: bad move %q", line.Name, mv)
			}
		}
	}
	return &book, nil
}

// Next returns the continuation after the given history. The first line
// extending the history wins, so catalog order sets the repertoire.
func (b *Book) Next(history []string) (move, line string, ok bool) {
	for _, l := range b.Lines {
		if len(l.Moves) <= len(history) || !hasPrefix(l.Moves, history) {
			continue
		}
		return l.Moves[len(history)], l.Name, true
	}
	return "", "", false
}

func hasPrefix(line, history []string) bool {
	for i := range history {
		if line[i] != history[i] {
			return false
		}
	}
	return true
}
