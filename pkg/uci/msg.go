package uci

import (
	"fmt"
	"strconv"
	"strings"
)

// MoveInfo is one fragment of search telemetry carried by an info message.
// The sum of allowed variants is closed: the concrete types below are the
// complete set.
type MoveInfo interface {
	moveInfo()
}

// Depth is the search depth in plies.
type Depth uint32

// SelDepth is the selective search depth in plies.
type SelDepth uint32

// Time is the time searched so far in milliseconds.
type Time uint32

// Nodes is the number of nodes searched so far.
type Nodes uint32

// PV is the principal variation in coordinate moves.
type PV []string

// Score is the engine's evaluation from the side to move, optionally
// flagged as a lower or upper bound. Both flags may be set at once.
type Score struct {
	Value      ScoreValue
	LowerBound bool
	UpperBound bool
}

// CurrMove is the move currently being searched.
type CurrMove string

// CurrMoveNumber is the 1-based index of the move currently searched at
// the root.
type CurrMoveNumber uint32

// HashFull is the hash table fill state in permille.
type HashFull uint32

// NPS is the search speed in nodes per second.
type NPS uint32

// TBHits is the number of tablebase hits in the current search.
type TBHits uint32

// CPULoad is the CPU usage in permille.
type CPULoad uint32

// Custom is free-form text. It is always rendered last as a "string"
// fragment no matter where it appears in the input, so it may contain
// reserved protocol keywords.
type Custom string

// Refutation is a move followed by the line that refutes it.
type Refutation []string

// MultiPV is the 1-based index of the principal variation a multi-line
// info message refers to.
type MultiPV uint32

// CurrLine is the line currently calculated by one search task.
type CurrLine struct {
	Task uint32
	Line []string
}

func (Depth) moveInfo()          {}
func (SelDepth) moveInfo()       {}
func (Time) moveInfo()           {}
func (Nodes) moveInfo()          {}
func (PV) moveInfo()             {}
func (Score) moveInfo()          {}
func (CurrMove) moveInfo()       {}
func (CurrMoveNumber) moveInfo() {}
func (HashFull) moveInfo()       {}
func (NPS) moveInfo()            {}
func (TBHits) moveInfo()         {}
func (CPULoad) moveInfo()        {}
func (Custom) moveInfo()         {}
func (Refutation) moveInfo()     {}
func (MultiPV) moveInfo()        {}
func (CurrLine) moveInfo()       {}

// ScoreValue is either a centipawn score or a distance to mate.
type ScoreValue interface {
	scoreValue()
}

// CP is a score in centipawns.
type CP int32

// Mate is a score in moves to mate, not plies. Negative when the side to
// move is getting mated.
type Mate int32

func (CP) scoreValue()   {}
func (Mate) scoreValue() {}

// BuildNameMsg renders an `id name` message.
func BuildNameMsg(name string) string {
	return "id name " + name
}

// BuildAuthorMsg renders an `id author` message.
func BuildAuthorMsg(author string) string {
	return "id author " + author
}

// BuildUciOkMsg renders the uciok handshake terminator.
func BuildUciOkMsg() string {
	return "uciok"
}

// BuildReadyOkMsg renders the readyok synchronization reply.
func BuildReadyOkMsg() string {
	return "readyok"
}

// BuildBestMoveMsg renders a bestmove message for a coordinate move.
func BuildBestMoveMsg(move string) string {
	return "bestmove " + move
}

// BuildInfoMsg renders an info message from telemetry fragments.
//
// Fragments appear in caller order with one exception: a Custom fragment is
// buffered and emitted exactly once at the very end as " string <text>",
// later occurrences replacing earlier ones. None of the outputs carry a
// trailing newline; line termination is the transport's job.
func BuildInfoMsg(info []MoveInfo) string {
	var b strings.Builder
	b.WriteString("info")

	var custom string
	var hasCustom bool

	for _, part := range info {
		switch v := part.(type) {
		case Depth:
			fmt.Fprintf(&b, " depth %d", v)
		case SelDepth:
			fmt.Fprintf(&b, " seldepth %d", v)
		case Time:
			fmt.Fprintf(&b, " time %d", v)
		case Nodes:
			fmt.Fprintf(&b, " nodes %d", v)
		case PV:
			b.WriteString(" pv ")
			b.WriteString(strings.Join(v, " "))
		case Score:
			writeScore(&b, v)
		case CurrMove:
			fmt.Fprintf(&b, " currmove %s", v)
		case CurrMoveNumber:
			fmt.Fprintf(&b, " currmovenumber %d", v)
		case HashFull:
			fmt.Fprintf(&b, " hashfull %d", v)
		case NPS:
			fmt.Fprintf(&b, " nps %d", v)
		case TBHits:
			fmt.Fprintf(&b, " tbhits %d", v)
		case CPULoad:
			fmt.Fprintf(&b, " cpuload %d", v)
		case Custom:
			custom = string(v)
			hasCustom = true
		case Refutation:
			b.WriteString(" refutation ")
			b.WriteString(strings.Join(v, " "))
		case MultiPV:
			fmt.Fprintf(&b, " multipv %d", v)
		case CurrLine:
			fmt.Fprintf(&b, " currline %d %s", v.Task, strings.Join(v.Line, " "))
		}
	}

	if hasCustom {
		b.WriteString(" string ")
		b.WriteString(custom)
	}
	return b.String()
}

func writeScore(b *strings.Builder, s Score) {
	switch v := s.Value.(type) {
	case CP:
		fmt.Fprintf(b, " score cp %d", v)
	case Mate:
		fmt.Fprintf(b, " score mate %d", v)
	}
	if s.LowerBound {
		b.WriteString(" lowerbound")
	}
	if s.UpperBound {
		b.WriteString(" upperbound")
	}
}

// OptionType is the kind of an engine option descriptor.
type OptionType int

const (
	OptionCheck OptionType = iota
	OptionSpin
	OptionCombo
	OptionButton
	OptionString
)

func (t OptionType) String() string {
	switch t {
	case OptionCheck:
		return "check"
	case OptionSpin:
		return "spin"
	case OptionCombo:
		return "combo"
	case OptionButton:
		return "button"
	case OptionString:
		return "string"
	}
	return "unknown"
}

// OptionMsg describes one engine-tunable setting as announced during the
// uci handshake. Min and Max matter only for spin options, Var only for
// combo options, and a button option carries no default.
type OptionMsg struct {
	ID      string
	Type    OptionType
	Default string
	Min     int64
	Max     int64
	Var     []string
}

// NewSpinOption describes an integer option with an inclusive range.
func NewSpinOption(id, def string, min, max int64) OptionMsg {
	return OptionMsg{ID: id, Type: OptionSpin, Default: def, Min: min, Max: max}
}

// NewComboOption describes an option restricted to a fixed set of values.
func NewComboOption(id, def string, vals []string) OptionMsg {
	return OptionMsg{ID: id, Type: OptionCombo, Default: def, Var: vals}
}

// NewButtonOption describes a valueless trigger option.
func NewButtonOption(id string) OptionMsg {
	return OptionMsg{ID: id, Type: OptionButton}
}

// NewStringOption describes a free-text option.
func NewStringOption(id, def string) OptionMsg {
	return OptionMsg{ID: id, Type: OptionString, Default: def}
}

// NewCheckOption describes a boolean option.
func NewCheckOption(id string, def bool) OptionMsg {
	return OptionMsg{ID: id, Type: OptionCheck, Default: strconv.FormatBool(def)}
}

// BuildOptionMsg renders an option descriptor, emitting only the fragments
// relevant to its type: no default for buttons, min/max only for spins with
// a non-degenerate range, var only for combos with at least one value.
func BuildOptionMsg(opt OptionMsg) string {
	var b strings.Builder
	b.WriteString("option name ")
	b.WriteString(opt.ID)
	b.WriteString(" type ")
	b.WriteString(opt.Type.String())

	if opt.Type != OptionButton {
		b.WriteString(" default ")
		b.WriteString(opt.Default)
	}
	if opt.Type == OptionSpin && opt.Min != opt.Max {
		fmt.Fprintf(&b, " min %d max %d", opt.Min, opt.Max)
	}
	if opt.Type == OptionCombo && len(opt.Var) > 0 {
		b.WriteString(" var ")
		b.WriteString(strings.Join(opt.Var, " "))
	}
	return b.String()
}
