package grammar

import (
	"fmt"

	"github.com/emirpasic/gods/sets/linkedhashset"

	"github.com/nihei9/slrgen/grammar/symbol"
)

type firstEntry struct {
	symbols *linkedhashset.Set
	empty   bool
}

func newFirstEntry() *firstEntry {
	return &firstEntry{
		symbols: linkedhashset.New(),
		empty:   false,
	}
}

func (e *firstEntry) add(sym symbol.Symbol) bool {
	if e.symbols.Contains(sym) {
		return false
	}
	e.symbols.Add(sym)
	return true
}

func (e *firstEntry) addEmpty() bool {
	if !e.empty {
		e.empty = true
		return true
	}
	return false
}

func (e *firstEntry) merge(target *firstEntry) bool {
	if target == nil {
		return false
	}
	changed := false
	for _, v := range target.symbols.Values() {
		added := e.add(v.(symbol.Symbol))
		if added {
			changed = true
		}
	}
	if target.empty {
		added := e.addEmpty()
		if added {
			changed = true
		}
	}
	return changed
}

func (e *firstEntry) has(sym symbol.Symbol) bool {
	return e.symbols.Contains(sym)
}

// list returns the terminals of the entry in the order they were added.
func (e *firstEntry) list() []symbol.Symbol {
	syms := make([]symbol.Symbol, 0, e.symbols.Size())
	for _, v := range e.symbols.Values() {
		syms = append(syms, v.(symbol.Symbol))
	}
	return syms
}

// firstSet holds FIRST of every non-terminal. FIRST of a production is taken from its first symbol only;
// a nullable first symbol doesn't let the following symbols contribute.
type firstSet struct {
	set map[symbol.Symbol]*firstEntry
}

func newFirstSet(prods *productionSet) *firstSet {
	fst := &firstSet{
		set: map[symbol.Symbol]*firstEntry{},
	}
	for _, prod := range prods.getAllProductions() {
		if _, ok := fst.set[prod.lhs]; ok {
			continue
		}
		fst.set[prod.lhs] = newFirstEntry()
	}

	return fst
}

// find returns FIRST(sym). For a symbol having no productions, that is a terminal, the entry contains
// only the symbol itself.
func (fst *firstSet) find(sym symbol.Symbol) (*firstEntry, error) {
	if sym.IsNil() {
		return nil, fmt.Errorf("FIRST of the nil symbol is undefined")
	}
	if e, ok := fst.set[sym]; ok {
		return e, nil
	}
	entry := newFirstEntry()
	entry.add(sym)
	return entry, nil
}

type firstComContext struct {
	first *firstSet
}

func newFirstComContext(prods *productionSet) *firstComContext {
	return &firstComContext{
		first: newFirstSet(prods),
	}
}

// genFirstSet computes FIRST sets as a least fixed point. Left recursion adds nothing in a round, so the
// computation terminates on any grammar.
func genFirstSet(prods *productionSet) (*firstSet, error) {
	cc := newFirstComContext(prods)
	rounds := 0
	for {
		more := false
		for _, prod := range prods.getAllProductions() {
			e := cc.first.set[prod.lhs]
			changed, err := genProdFirstEntry(cc, e, prod)
			if err != nil {
				return nil, err
			}
			if changed {
				more = true
			}
		}
		rounds++
		if !more {
			break
		}
	}

	tracer().Debugf("FIRST sets converged after %v rounds", rounds)

	return cc.first, nil
}

func genProdFirstEntry(cc *firstComContext, acc *firstEntry, prod *production) (bool, error) {
	if prod.isEmpty() {
		return acc.addEmpty(), nil
	}

	e, err := cc.first.find(prod.rhs[0])
	if err != nil {
		return false, err
	}
	return acc.merge(e), nil
}
