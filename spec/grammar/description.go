package grammar

import (
	"fmt"
	"strconv"
	"strings"
)

// SymbolNameEOF is the column name of the end marker.
const SymbolNameEOF = "$"

// Cell encodings of a parse table.
const (
	CellError  = ""
	CellAccept = "acc"
)

// ShiftCell returns the cell meaning "shift and go to the state".
func ShiftCell(state int) string {
	return fmt.Sprintf("s%v", state)
}

// ReduceCell returns the cell meaning "reduce by the rule".
func ReduceCell(rule int) string {
	return fmt.Sprintf("r%v", rule)
}

// GoToCell returns the cell of a GOTO column.
func GoToCell(state int) string {
	return strconv.Itoa(state)
}

type ActionKind string

const (
	ActionKindError  = ActionKind("error")
	ActionKindShift  = ActionKind("shift")
	ActionKindReduce = ActionKind("reduce")
	ActionKindAccept = ActionKind("accept")
)

// DecodeActionCell decodes a cell of an ACTION column. The returned number is a state number for a shift
// action and a rule number for a reduce action.
func DecodeActionCell(cell string) (ActionKind, int, error) {
	switch {
	case cell == CellError:
		return ActionKindError, 0, nil
	case cell == CellAccept:
		return ActionKindAccept, 0, nil
	case strings.HasPrefix(cell, "s"):
		n, err := strconv.Atoi(cell[1:])
		if err != nil || n < 0 {
			return ActionKindError, 0, fmt.Errorf("invalid shift action: %q", cell)
		}
		return ActionKindShift, n, nil
	case strings.HasPrefix(cell, "r"):
		n, err := strconv.Atoi(cell[1:])
		if err != nil || n < 0 {
			return ActionKindError, 0, fmt.Errorf("invalid reduce action: %q", cell)
		}
		return ActionKindReduce, n, nil
	}
	return ActionKindError, 0, fmt.Errorf("invalid action: %q", cell)
}

// DecodeGoToCell decodes a cell of a GOTO column. It returns false for an empty cell.
func DecodeGoToCell(cell string) (int, bool, error) {
	if cell == CellError {
		return 0, false, nil
	}
	n, err := strconv.Atoi(cell)
	if err != nil || n < 0 {
		return 0, false, fmt.Errorf("invalid GOTO entry: %q", cell)
	}
	return n, true, nil
}

type Rule struct {
	Number    int      `json:"number" yaml:"number"`
	LHS       string   `json:"lhs" yaml:"lhs"`
	RHS       []string `json:"rhs" yaml:"rhs"`
	Augmented bool     `json:"augmented,omitempty" yaml:"augmented,omitempty"`
}

func (r *Rule) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v →", r.LHS)
	if len(r.RHS) == 0 {
		fmt.Fprintf(&b, " ε")
	}
	for _, sym := range r.RHS {
		fmt.Fprintf(&b, " %v", sym)
	}
	return b.String()
}

// SymbolSet is FIRST or FOLLOW of a symbol. Empty is true when the set contains ε.
type SymbolSet struct {
	Symbol  string   `json:"symbol" yaml:"symbol"`
	Symbols []string `json:"symbols" yaml:"symbols"`
	Empty   bool     `json:"empty,omitempty" yaml:"empty,omitempty"`
}

type Item struct {
	LHS  string   `json:"lhs" yaml:"lhs"`
	RHS  []string `json:"rhs" yaml:"rhs"`
	Dot  int      `json:"dot" yaml:"dot"`
	Rule int      `json:"rule" yaml:"rule"`
}

func (item *Item) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v →", item.LHS)
	for i, sym := range item.RHS {
		if i == item.Dot {
			fmt.Fprintf(&b, " ・")
		}
		fmt.Fprintf(&b, " %v", sym)
	}
	if item.Dot >= len(item.RHS) {
		fmt.Fprintf(&b, " ・")
	}
	return b.String()
}

type Transition struct {
	Symbol string `json:"symbol" yaml:"symbol"`
	State  int    `json:"state" yaml:"state"`
}

type State struct {
	Number      int           `json:"number" yaml:"number"`
	Items       []*Item       `json:"items" yaml:"items"`
	Transitions []*Transition `json:"transitions" yaml:"transitions"`
}

type Edge struct {
	From   int    `json:"from" yaml:"from"`
	Symbol string `json:"symbol" yaml:"symbol"`
	To     int    `json:"to" yaml:"to"`
}

type Automaton struct {
	States []*State `json:"states" yaml:"states"`
	Edges  []*Edge  `json:"edges" yaml:"edges"`
}

// ParseTable is an ACTION table and a GOTO table put side by side. Columns are terminals, the end marker
// `$`, and non-terminals in that order. Each row corresponds to a state and is aligned to Columns.
type ParseTable struct {
	Columns []string   `json:"columns" yaml:"columns"`
	Rows    [][]string `json:"rows" yaml:"rows"`
}

// Cell returns the cell at the state and column. When the column doesn't exist, it returns false.
func (t *ParseTable) Cell(state int, column string) (string, bool) {
	if state < 0 || state >= len(t.Rows) {
		return "", false
	}
	for i, col := range t.Columns {
		if col == column {
			return t.Rows[state][i], true
		}
	}
	return "", false
}

const (
	ConflictKindShiftReduce  = "shift/reduce"
	ConflictKindReduceReduce = "reduce/reduce"
)

// Conflict records an action dropped while building a parse table. Conflicts never make building fail;
// they are informational only.
type Conflict struct {
	State   int    `json:"state" yaml:"state"`
	Symbol  string `json:"symbol" yaml:"symbol"`
	Kind    string `json:"kind" yaml:"kind"`
	Adopted string `json:"adopted" yaml:"adopted"`
	Dropped string `json:"dropped" yaml:"dropped"`
}

type Description struct {
	StartSymbol          string       `json:"start_symbol" yaml:"start_symbol"`
	AugmentedStartSymbol string       `json:"augmented_start_symbol" yaml:"augmented_start_symbol"`
	Rules                []*Rule      `json:"rules" yaml:"rules"`
	Terminals            []string     `json:"terminals" yaml:"terminals"`
	NonTerminals         []string     `json:"non_terminals" yaml:"non_terminals"`
	First                []*SymbolSet `json:"first" yaml:"first"`
	Follow               []*SymbolSet `json:"follow" yaml:"follow"`
	Automaton            *Automaton   `json:"automaton" yaml:"automaton"`
	ParseTable           *ParseTable  `json:"parse_table" yaml:"parse_table"`
	Conflicts            []*Conflict  `json:"conflicts" yaml:"conflicts"`
}
