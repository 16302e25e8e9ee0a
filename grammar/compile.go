package grammar

import (
	"fmt"
	"strings"

	"github.com/nihei9/slrgen/grammar/symbol"
	spec "github.com/nihei9/slrgen/spec/grammar"
)

// Compile generates the SLR(1) parsing table of a grammar. Conflicts don't make Compile fail; they are
// resolved and listed in the description.
func Compile(gram *Grammar) (*spec.Description, error) {
	symTab := gram.symbolTable.Reader()

	first, err := genFirstSet(gram.productionSet)
	if err != nil {
		return nil, err
	}

	follow, err := genFollowSet(gram.productionSet, first, gram.augmentedStartSymbol)
	if err != nil {
		return nil, err
	}

	automaton, err := genLR0Automaton(gram.productionSet, gram.augmentedStartSymbol)
	if err != nil {
		return nil, err
	}

	tb := &lrTableBuilder{
		automaton: automaton,
		prods:     gram.productionSet,
		follow:    follow,
		symTab:    symTab,
	}
	tab, err := tb.build()
	if err != nil {
		return nil, err
	}

	nonTerms := symTab.NonTerminalSymbols()

	firstSets := make([]*spec.SymbolSet, 0, len(nonTerms))
	for _, sym := range nonTerms {
		e, err := first.find(sym)
		if err != nil {
			return nil, err
		}
		firstSets = append(firstSets, &spec.SymbolSet{
			Symbol:  sym.String(),
			Symbols: symbolTexts(e.list()),
			Empty:   e.empty,
		})
	}

	followSets := make([]*spec.SymbolSet, 0, len(nonTerms))
	for _, sym := range nonTerms {
		e, err := follow.find(sym)
		if err != nil {
			return nil, err
		}
		followSets = append(followSets, &spec.SymbolSet{
			Symbol:  sym.String(),
			Symbols: symbolTexts(e.list()),
		})
	}

	descAutomaton, err := genDescriptionAutomaton(automaton, gram.productionSet)
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(automaton.states))
	for _, state := range automaton.states {
		rows = append(rows, tab.row(state.num))
	}

	conflicts := make([]*spec.Conflict, 0, len(tb.conflicts))
	for _, c := range tb.conflicts {
		conflicts = append(conflicts, genDescriptionConflict(c))
	}

	return &spec.Description{
		StartSymbol:          gram.startSymbol.String(),
		AugmentedStartSymbol: gram.augmentedStartSymbol.String(),
		Rules:                gram.Rules(),
		Terminals:            symTab.TerminalTexts(),
		NonTerminals:         symTab.NonTerminalTexts(),
		First:                firstSets,
		Follow:               followSets,
		Automaton:            descAutomaton,
		ParseTable: &spec.ParseTable{
			Columns: tab.columns(),
			Rows:    rows,
		},
		Conflicts: conflicts,
	}, nil
}

// Analyze parses a grammar text and compiles it.
func Analyze(text string) (*spec.Description, error) {
	gram, err := Parse(strings.NewReader(text))
	if err != nil {
		return nil, err
	}
	return Compile(gram)
}

func genDescriptionAutomaton(automaton *lr0Automaton, prods *productionSet) (*spec.Automaton, error) {
	states := make([]*spec.State, 0, len(automaton.states))
	for _, state := range automaton.states {
		items := make([]*spec.Item, 0, len(state.items))
		for _, item := range state.items {
			prod, ok := prods.findByID(item.prod)
			if !ok {
				return nil, fmt.Errorf("a production was not found: %v", item.prod)
			}
			items = append(items, &spec.Item{
				LHS:  prod.lhs.String(),
				RHS:  symbolTexts(prod.rhs),
				Dot:  item.dot,
				Rule: prod.num.Int(),
			})
		}

		trans := make([]*spec.Transition, 0, len(state.nextSyms))
		for _, sym := range state.nextSyms {
			trans = append(trans, &spec.Transition{
				Symbol: sym.String(),
				State:  state.next[sym].Int(),
			})
		}

		states = append(states, &spec.State{
			Number:      state.num.Int(),
			Items:       items,
			Transitions: trans,
		})
	}

	edges := make([]*spec.Edge, 0, len(automaton.edges))
	for _, e := range automaton.edges {
		edges = append(edges, &spec.Edge{
			From:   e.from.Int(),
			Symbol: e.sym.String(),
			To:     e.to.Int(),
		})
	}

	return &spec.Automaton{
		States: states,
		Edges:  edges,
	}, nil
}

func genDescriptionConflict(c conflict) *spec.Conflict {
	switch c := c.(type) {
	case *shiftReduceConflict:
		return &spec.Conflict{
			State:   c.state.Int(),
			Symbol:  c.sym.String(),
			Kind:    spec.ConflictKindShiftReduce,
			Adopted: c.adopted.cell(),
			Dropped: spec.ReduceCell(c.prodNum.Int()),
		}
	case *reduceReduceConflict:
		return &spec.Conflict{
			State:   c.state.Int(),
			Symbol:  c.sym.String(),
			Kind:    spec.ConflictKindReduceReduce,
			Adopted: spec.ReduceCell(c.prodNum2.Int()),
			Dropped: spec.ReduceCell(c.prodNum1.Int()),
		}
	}
	return nil
}

func symbolTexts(syms []symbol.Symbol) []string {
	texts := make([]string, len(syms))
	for i, sym := range syms {
		texts[i] = sym.String()
	}
	return texts
}
