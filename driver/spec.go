package driver

import (
	"fmt"

	spec "github.com/nihei9/slrgen/spec/grammar"
)

// grammarImpl reads the parsing table of a description by symbol names.
type grammarImpl struct {
	desc        *spec.Description
	term2Col    map[string]int
	nonTerm2Col map[string]int
}

func NewGrammar(desc *spec.Description) (*grammarImpl, error) {
	if desc.ParseTable == nil || len(desc.ParseTable.Rows) == 0 {
		return nil, fmt.Errorf("a description must have a parsing table")
	}
	if len(desc.Rules) == 0 || !desc.Rules[0].Augmented {
		return nil, fmt.Errorf("a description must have the augmented start rule at 0")
	}

	term2Col := map[string]int{}
	nonTerm2Col := map[string]int{}
	for i, col := range desc.ParseTable.Columns {
		if i <= len(desc.Terminals) {
			term2Col[col] = i
		} else {
			nonTerm2Col[col] = i
		}
	}
	if _, ok := term2Col[spec.SymbolNameEOF]; !ok {
		return nil, fmt.Errorf("a parsing table must have the %v column", spec.SymbolNameEOF)
	}
	for i, row := range desc.ParseTable.Rows {
		if len(row) != len(desc.ParseTable.Columns) {
			return nil, fmt.Errorf("a row of a parsing table has an invalid length; state: %v, want: %v, got: %v", i, len(desc.ParseTable.Columns), len(row))
		}
	}

	return &grammarImpl{
		desc:        desc,
		term2Col:    term2Col,
		nonTerm2Col: nonTerm2Col,
	}, nil
}

func (g *grammarImpl) InitialState() int {
	return 0
}

// Action returns the action on a terminal. An unknown terminal results in the error action.
func (g *grammarImpl) Action(state int, terminal string) (spec.ActionKind, int, error) {
	col, ok := g.term2Col[terminal]
	if !ok {
		return spec.ActionKindError, 0, nil
	}
	return spec.DecodeActionCell(g.desc.ParseTable.Rows[state][col])
}

func (g *grammarImpl) GoTo(state int, lhs string) (int, error) {
	col, ok := g.nonTerm2Col[lhs]
	if !ok {
		return 0, fmt.Errorf("a GOTO column was not found: %v", lhs)
	}
	next, ok, err := spec.DecodeGoToCell(g.desc.ParseTable.Rows[state][col])
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("a GOTO entry is empty; state: %v, symbol: %v", state, lhs)
	}
	return next, nil
}

func (g *grammarImpl) LHS(prod int) string {
	return g.desc.Rules[prod].LHS
}

func (g *grammarImpl) AlternativeSymbolCount(prod int) int {
	return len(g.desc.Rules[prod].RHS)
}

func (g *grammarImpl) RuleCount() int {
	return len(g.desc.Rules)
}

func (g *grammarImpl) StateCount() int {
	return len(g.desc.ParseTable.Rows)
}

// StackGrowthLimit is how far the state stack may grow during reductions between two shifts. Only empty
// alternatives grow it, and a table built from a grammar like A → B A, B → ε can grow it forever.
func (g *grammarImpl) StackGrowthLimit() int {
	return g.RuleCount() * g.StateCount()
}

// Terminals returns the terminals except the EOF symbol.
func (g *grammarImpl) Terminals() []string {
	return g.desc.Terminals
}

func (g *grammarImpl) EOF() string {
	return spec.SymbolNameEOF
}

// ExpectedTerminals returns the terminals having a non-error action in a state, in column order.
func (g *grammarImpl) ExpectedTerminals(state int) []string {
	var terms []string
	for i, cell := range g.desc.ParseTable.Rows[state] {
		if i > len(g.desc.Terminals) {
			break
		}
		if cell == spec.CellError {
			continue
		}
		terms = append(terms, g.desc.ParseTable.Columns[i])
	}
	return terms
}
