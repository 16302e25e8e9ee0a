package grammar

import (
	"fmt"

	"github.com/nihei9/slrgen/grammar/symbol"
	spec "github.com/nihei9/slrgen/spec/grammar"
)

type ActionType string

const (
	ActionTypeShift  = ActionType("shift")
	ActionTypeReduce = ActionType("reduce")
	ActionTypeAccept = ActionType("accept")
	ActionTypeError  = ActionType("error")
)

type actionEntry struct {
	ty    ActionType
	state stateNum
	prod  productionNum
}

var actionEntryEmpty = actionEntry{
	ty: ActionTypeError,
}

func newShiftActionEntry(state stateNum) actionEntry {
	return actionEntry{
		ty:    ActionTypeShift,
		state: state,
	}
}

func newReduceActionEntry(prod productionNum) actionEntry {
	return actionEntry{
		ty:   ActionTypeReduce,
		prod: prod,
	}
}

func newAcceptActionEntry() actionEntry {
	return actionEntry{
		ty: ActionTypeAccept,
	}
}

func (e actionEntry) isEmpty() bool {
	return e.ty == ActionTypeError || e.ty == ""
}

func (e actionEntry) describe() (ActionType, stateNum, productionNum) {
	if e.isEmpty() {
		return ActionTypeError, stateNumInitial, productionNumStart
	}
	return e.ty, e.state, e.prod
}

func (e actionEntry) cell() string {
	ty, state, prod := e.describe()
	switch ty {
	case ActionTypeShift:
		return spec.ShiftCell(state.Int())
	case ActionTypeReduce:
		return spec.ReduceCell(prod.Int())
	case ActionTypeAccept:
		return spec.CellAccept
	}
	return spec.CellError
}

type GoToType string

const (
	GoToTypeRegistered = GoToType("registered")
	GoToTypeError      = GoToType("error")
)

// goToEntry is a state number. The initial state is never a target of a transition, so 0 means an empty
// entry.
type goToEntry uint

const goToEntryEmpty = goToEntry(0)

func newGoToEntry(state stateNum) goToEntry {
	return goToEntry(state)
}

func (e goToEntry) describe() (GoToType, stateNum) {
	if e == goToEntryEmpty {
		return GoToTypeError, stateNumInitial
	}
	return GoToTypeRegistered, stateNum(e)
}

func (e goToEntry) cell() string {
	ty, state := e.describe()
	if ty == GoToTypeError {
		return spec.CellError
	}
	return spec.GoToCell(state.Int())
}

type conflict interface {
	conflict()
}

// shiftReduceConflict records a reduce action that lost to a shift or accept action.
type shiftReduceConflict struct {
	state     stateNum
	sym       symbol.Symbol
	adopted   actionEntry
	prodNum   productionNum
	nextState stateNum
}

func (c *shiftReduceConflict) conflict() {
}

// reduceReduceConflict records a reduce action overwritten by a later one. prodNum1 is dropped and
// prodNum2 is adopted.
type reduceReduceConflict struct {
	state    stateNum
	sym      symbol.Symbol
	prodNum1 productionNum
	prodNum2 productionNum
}

func (c *reduceReduceConflict) conflict() {
}

var (
	_ conflict = &shiftReduceConflict{}
	_ conflict = &reduceReduceConflict{}
)

type ParsingTable struct {
	actionTable []actionEntry
	goToTable   []goToEntry
	stateCount  int

	// terminals are the columns of the ACTION table. The last one is always the EOF symbol.
	terminals     []symbol.Symbol
	nonTerminals  []symbol.Symbol
	term2Col      map[symbol.Symbol]int
	nonTerm2Col   map[symbol.Symbol]int
	terminalCount int
	nonTermCount  int
	InitialState  stateNum
}

func newParsingTable(stateCount int, terms []symbol.Symbol, nonTerms []symbol.Symbol) *ParsingTable {
	actionCols := make([]symbol.Symbol, 0, len(terms)+1)
	actionCols = append(actionCols, terms...)
	actionCols = append(actionCols, symbol.SymbolEOF)

	term2Col := make(map[symbol.Symbol]int, len(actionCols))
	for i, sym := range actionCols {
		term2Col[sym] = i
	}
	nonTerm2Col := make(map[symbol.Symbol]int, len(nonTerms))
	for i, sym := range nonTerms {
		nonTerm2Col[sym] = i
	}

	actionTable := make([]actionEntry, stateCount*len(actionCols))
	for i := range actionTable {
		actionTable[i] = actionEntryEmpty
	}

	return &ParsingTable{
		actionTable:   actionTable,
		goToTable:     make([]goToEntry, stateCount*len(nonTerms)),
		stateCount:    stateCount,
		terminals:     actionCols,
		nonTerminals:  nonTerms,
		term2Col:      term2Col,
		nonTerm2Col:   nonTerm2Col,
		terminalCount: len(actionCols),
		nonTermCount:  len(nonTerms),
		InitialState:  stateNumInitial,
	}
}

func (t *ParsingTable) getAction(state stateNum, sym symbol.Symbol) (ActionType, stateNum, productionNum) {
	col, ok := t.term2Col[sym]
	if !ok {
		return ActionTypeError, stateNumInitial, productionNumStart
	}
	return t.readAction(state.Int(), col).describe()
}

func (t *ParsingTable) getGoTo(state stateNum, sym symbol.Symbol) (GoToType, stateNum) {
	col, ok := t.nonTerm2Col[sym]
	if !ok {
		return GoToTypeError, stateNumInitial
	}
	return t.goToTable[state.Int()*t.nonTermCount+col].describe()
}

func (t *ParsingTable) readAction(row int, col int) actionEntry {
	return t.actionTable[row*t.terminalCount+col]
}

func (t *ParsingTable) writeAction(row int, col int, act actionEntry) {
	t.actionTable[row*t.terminalCount+col] = act
}

func (t *ParsingTable) writeGoTo(state stateNum, sym symbol.Symbol, nextState stateNum) error {
	col, ok := t.nonTerm2Col[sym]
	if !ok {
		return fmt.Errorf("a GOTO column was not found; symbol: %v", sym)
	}
	t.goToTable[state.Int()*t.nonTermCount+col] = newGoToEntry(nextState)
	return nil
}

// columns returns the terminals, the EOF symbol, and the non-terminals in that order.
func (t *ParsingTable) columns() []string {
	cols := make([]string, 0, t.terminalCount+t.nonTermCount)
	for _, sym := range t.terminals {
		cols = append(cols, sym.String())
	}
	for _, sym := range t.nonTerminals {
		cols = append(cols, sym.String())
	}
	return cols
}

func (t *ParsingTable) row(state stateNum) []string {
	cells := make([]string, 0, t.terminalCount+t.nonTermCount)
	for col := 0; col < t.terminalCount; col++ {
		cells = append(cells, t.readAction(state.Int(), col).cell())
	}
	for col := 0; col < t.nonTermCount; col++ {
		cells = append(cells, t.goToTable[state.Int()*t.nonTermCount+col].cell())
	}
	return cells
}

type lrTableBuilder struct {
	automaton *lr0Automaton
	prods     *productionSet
	follow    *followSet
	symTab    *symbol.SymbolTableReader

	conflicts []conflict
}

// build fills the table visiting the items of each state in order. A shift or accept action always wins
// against a reduce action, and a later reduce action replaces an earlier one.
func (b *lrTableBuilder) build() (*ParsingTable, error) {
	ptab := newParsingTable(len(b.automaton.states), b.symTab.TerminalSymbols(), b.symTab.NonTerminalSymbols())

	for _, state := range b.automaton.states {
		for _, item := range state.items {
			if !item.reducible {
				nextState, ok := state.next[item.dottedSymbol]
				if !ok {
					return nil, fmt.Errorf("a transition was not found; state: %v, symbol: %v", state.num, item.dottedSymbol)
				}
				if b.symTab.IsTerminal(item.dottedSymbol) {
					b.writeShiftAction(ptab, state.num, item.dottedSymbol, nextState)
					continue
				}
				if b.symTab.IsStart(item.dottedSymbol) {
					// The augmented start symbol has no GOTO column.
					continue
				}
				err := ptab.writeGoTo(state.num, item.dottedSymbol, nextState)
				if err != nil {
					return nil, err
				}
				continue
			}

			if item.accepting {
				b.writeAcceptAction(ptab, state.num)
				continue
			}

			prod, ok := b.prods.findByID(item.prod)
			if !ok {
				return nil, fmt.Errorf("reducible production not found: %v", item.prod)
			}
			flw, err := b.follow.find(prod.lhs)
			if err != nil {
				return nil, err
			}
			lookAhead := flw.list()
			if !flw.eof {
				lookAhead = append(lookAhead, symbol.SymbolEOF)
			}
			for _, a := range lookAhead {
				err := b.writeReduceAction(ptab, state.num, a, prod.num)
				if err != nil {
					return nil, err
				}
			}
		}
	}

	tracer().Infof("parsing table: %v states, %v conflicts", ptab.stateCount, len(b.conflicts))

	return ptab, nil
}

// writeShiftAction writes a shift action to the parsing table. When a shift/reduce conflict occurred,
// we prioritize the shift action.
func (b *lrTableBuilder) writeShiftAction(tab *ParsingTable, state stateNum, sym symbol.Symbol, nextState stateNum) {
	col := tab.term2Col[sym]
	act := tab.readAction(state.Int(), col)
	if ty, _, p := act.describe(); ty == ActionTypeReduce {
		b.conflicts = append(b.conflicts, &shiftReduceConflict{
			state:     state,
			sym:       sym,
			adopted:   newShiftActionEntry(nextState),
			prodNum:   p,
			nextState: nextState,
		})
	}
	tab.writeAction(state.Int(), col, newShiftActionEntry(nextState))
}

func (b *lrTableBuilder) writeAcceptAction(tab *ParsingTable, state stateNum) {
	col := tab.term2Col[symbol.SymbolEOF]
	act := tab.readAction(state.Int(), col)
	if ty, _, p := act.describe(); ty == ActionTypeReduce {
		b.conflicts = append(b.conflicts, &shiftReduceConflict{
			state:   state,
			sym:     symbol.SymbolEOF,
			adopted: newAcceptActionEntry(),
			prodNum: p,
		})
	}
	tab.writeAction(state.Int(), col, newAcceptActionEntry())
}

// writeReduceAction writes a reduce action to the parsing table. A shift or accept action already
// written is kept, and a reduce action already written is replaced.
func (b *lrTableBuilder) writeReduceAction(tab *ParsingTable, state stateNum, sym symbol.Symbol, prod productionNum) error {
	col, ok := tab.term2Col[sym]
	if !ok {
		return fmt.Errorf("an ACTION column was not found; symbol: %v", sym)
	}
	act := tab.readAction(state.Int(), col)
	ty, s, p := act.describe()
	switch ty {
	case ActionTypeReduce:
		if p == prod {
			return nil
		}
		b.conflicts = append(b.conflicts, &reduceReduceConflict{
			state:    state,
			sym:      sym,
			prodNum1: p,
			prodNum2: prod,
		})
	case ActionTypeShift, ActionTypeAccept:
		b.conflicts = append(b.conflicts, &shiftReduceConflict{
			state:     state,
			sym:       sym,
			adopted:   act,
			prodNum:   prod,
			nextState: s,
		})
		return nil
	}
	tab.writeAction(state.Int(), col, newReduceActionEntry(prod))
	return nil
}
