package symbol

import (
	"fmt"

	"github.com/emirpasic/gods/sets/linkedhashset"

	"github.com/nihei9/slrgen/spec"
)

type symbolKind string

const (
	symbolKindNonTerminal = symbolKind("non-terminal")
	symbolKindTerminal    = symbolKind("terminal")
)

func (t symbolKind) String() string {
	return string(t)
}

// Symbol is a grammar symbol. Whether a symbol is a terminal or a non-terminal depends on the grammar,
// so ask a SymbolTableReader.
type Symbol string

const (
	SymbolNil     = Symbol("")
	SymbolEOF     = Symbol(spec.SymbolNameEOF)     // The EOF symbol is treated as a terminal symbol.
	SymbolEpsilon = Symbol(spec.SymbolNameEpsilon) // ε is never registered in a symbol table.
)

func (s Symbol) String() string {
	return string(s)
}

func (s Symbol) IsNil() bool {
	return s == SymbolNil
}

func (s Symbol) IsEOF() bool {
	return s == SymbolEOF
}

// SymbolTable classifies symbols. A symbol is a non-terminal iff it is the LHS of some production, so all
// non-terminals must be registered before terminals. Both kinds keep the order in which they were seen
// first.
type SymbolTable struct {
	start    Symbol
	nonTerms *linkedhashset.Set
	terms    *linkedhashset.Set
}

type SymbolTableWriter struct {
	*SymbolTable
}

type SymbolTableReader struct {
	*SymbolTable
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		start:    SymbolNil,
		nonTerms: linkedhashset.New(),
		terms:    linkedhashset.New(),
	}
}

func (t *SymbolTable) Writer() *SymbolTableWriter {
	return &SymbolTableWriter{
		SymbolTable: t,
	}
}

func (t *SymbolTable) Reader() *SymbolTableReader {
	return &SymbolTableReader{
		SymbolTable: t,
	}
}

// RegisterStartSymbol registers the augmented start symbol.
func (w *SymbolTableWriter) RegisterStartSymbol(text string) (Symbol, error) {
	if !w.start.IsNil() {
		return SymbolNil, fmt.Errorf("a start symbol is already registered: %v", w.start)
	}
	sym, err := w.RegisterNonTerminalSymbol(text)
	if err != nil {
		return SymbolNil, err
	}
	w.start = sym
	return sym, nil
}

func (w *SymbolTableWriter) RegisterNonTerminalSymbol(text string) (Symbol, error) {
	sym, err := checkText(text)
	if err != nil {
		return SymbolNil, err
	}
	if w.terms.Contains(sym) {
		return SymbolNil, fmt.Errorf("a symbol is already registered as a %v: %v", symbolKindTerminal, text)
	}
	w.nonTerms.Add(sym)
	return sym, nil
}

// RegisterTerminalSymbol registers a symbol as a terminal unless it is already a non-terminal. The
// returned bool is true when the symbol is a terminal.
func (w *SymbolTableWriter) RegisterTerminalSymbol(text string) (Symbol, bool, error) {
	sym, err := checkText(text)
	if err != nil {
		return SymbolNil, false, err
	}
	if w.nonTerms.Contains(sym) {
		return sym, false, nil
	}
	w.terms.Add(sym)
	return sym, true, nil
}

func checkText(text string) (Symbol, error) {
	sym := Symbol(text)
	switch sym {
	case SymbolNil, SymbolEOF, SymbolEpsilon:
		return SymbolNil, fmt.Errorf("a reserved symbol cannot be registered: %q", text)
	}
	return sym, nil
}

func (r *SymbolTableReader) ToSymbol(text string) (Symbol, bool) {
	sym := Symbol(text)
	if sym.IsEOF() {
		return sym, true
	}
	if r.nonTerms.Contains(sym) || r.terms.Contains(sym) {
		return sym, true
	}
	return SymbolNil, false
}

func (r *SymbolTableReader) StartSymbol() Symbol {
	return r.start
}

func (r *SymbolTableReader) IsStart(sym Symbol) bool {
	return !sym.IsNil() && sym == r.start
}

func (r *SymbolTableReader) IsNonTerminal(sym Symbol) bool {
	return r.nonTerms.Contains(sym)
}

// IsTerminal returns true for registered terminals and the EOF symbol.
func (r *SymbolTableReader) IsTerminal(sym Symbol) bool {
	if sym.IsEOF() {
		return true
	}
	return r.terms.Contains(sym)
}

// TerminalSymbols returns the terminals in first-seen order. The EOF symbol isn't included.
func (r *SymbolTableReader) TerminalSymbols() []Symbol {
	syms := make([]Symbol, 0, r.terms.Size())
	for _, v := range r.terms.Values() {
		syms = append(syms, v.(Symbol))
	}
	return syms
}

// NonTerminalSymbols returns the non-terminals in first-seen order. The augmented start symbol isn't
// included because it never appears in a GOTO table.
func (r *SymbolTableReader) NonTerminalSymbols() []Symbol {
	syms := make([]Symbol, 0, r.nonTerms.Size())
	for _, v := range r.nonTerms.Values() {
		sym := v.(Symbol)
		if sym == r.start {
			continue
		}
		syms = append(syms, sym)
	}
	return syms
}

func (r *SymbolTableReader) TerminalTexts() []string {
	return toTexts(r.TerminalSymbols())
}

func (r *SymbolTableReader) NonTerminalTexts() []string {
	return toTexts(r.NonTerminalSymbols())
}

func toTexts(syms []Symbol) []string {
	texts := make([]string, len(syms))
	for i, sym := range syms {
		texts[i] = sym.String()
	}
	return texts
}
