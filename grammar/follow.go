package grammar

import (
	"fmt"

	"github.com/emirpasic/gods/sets/linkedhashset"

	"github.com/nihei9/slrgen/grammar/symbol"
)

type followEntry struct {
	symbols *linkedhashset.Set
	eof     bool
}

func newFollowEntry() *followEntry {
	return &followEntry{
		symbols: linkedhashset.New(),
		eof:     false,
	}
}

func (e *followEntry) add(sym symbol.Symbol) bool {
	if e.symbols.Contains(sym) {
		return false
	}
	e.symbols.Add(sym)
	return true
}

func (e *followEntry) addEOF() bool {
	if !e.eof {
		e.eof = true
		return true
	}
	return false
}

// merge adds FIRST symbols except ε and FOLLOW symbols including the EOF.
func (e *followEntry) merge(fst *firstEntry, flw *followEntry) bool {
	changed := false

	if fst != nil {
		for _, v := range fst.symbols.Values() {
			added := e.add(v.(symbol.Symbol))
			if added {
				changed = true
			}
		}
	}

	if flw != nil {
		for _, v := range flw.symbols.Values() {
			added := e.add(v.(symbol.Symbol))
			if added {
				changed = true
			}
		}
		if flw.eof {
			added := e.addEOF()
			if added {
				changed = true
			}
		}
	}

	return changed
}

func (e *followEntry) has(sym symbol.Symbol) bool {
	if sym.IsEOF() {
		return e.eof
	}
	return e.symbols.Contains(sym)
}

// list returns the terminals of the entry in the order they were added, followed by the EOF symbol.
func (e *followEntry) list() []symbol.Symbol {
	syms := make([]symbol.Symbol, 0, e.symbols.Size()+1)
	for _, v := range e.symbols.Values() {
		syms = append(syms, v.(symbol.Symbol))
	}
	if e.eof {
		syms = append(syms, symbol.SymbolEOF)
	}
	return syms
}

type followSet struct {
	set map[symbol.Symbol]*followEntry
}

func newFollow(prods *productionSet) *followSet {
	flw := &followSet{
		set: map[symbol.Symbol]*followEntry{},
	}
	for _, prod := range prods.getAllProductions() {
		if _, ok := flw.set[prod.lhs]; ok {
			continue
		}
		flw.set[prod.lhs] = newFollowEntry()
	}
	return flw
}

func (flw *followSet) find(sym symbol.Symbol) (*followEntry, error) {
	e, ok := flw.set[sym]
	if !ok {
		return nil, fmt.Errorf("an entry of FOLLOW was not found; symbol: %s", sym)
	}
	return e, nil
}

type followComContext struct {
	prods    *productionSet
	first    *firstSet
	follow   *followSet
	startSym symbol.Symbol
}

func newFollowComContext(prods *productionSet, first *firstSet, startSym symbol.Symbol) *followComContext {
	return &followComContext{
		prods:    prods,
		first:    first,
		follow:   newFollow(prods),
		startSym: startSym,
	}
}

// genFollowSet computes FOLLOW sets as a least fixed point. Only the symbol immediately following an
// occurrence contributes its FIRST set.
func genFollowSet(prods *productionSet, first *firstSet, startSym symbol.Symbol) (*followSet, error) {
	var ntsyms []symbol.Symbol
	{
		known := map[symbol.Symbol]struct{}{}
		for _, prod := range prods.getAllProductions() {
			if _, ok := known[prod.lhs]; ok {
				continue
			}
			known[prod.lhs] = struct{}{}
			ntsyms = append(ntsyms, prod.lhs)
		}
	}

	cc := newFollowComContext(prods, first, startSym)
	rounds := 0
	for {
		more := false
		for _, ntsym := range ntsyms {
			e, err := cc.follow.find(ntsym)
			if err != nil {
				return nil, err
			}
			changed, err := genFollowEntry(cc, e, ntsym)
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

	tracer().Debugf("FOLLOW sets converged after %v rounds", rounds)

	return cc.follow, nil
}

func genFollowEntry(cc *followComContext, acc *followEntry, ntsym symbol.Symbol) (bool, error) {
	changed := false

	if ntsym == cc.startSym {
		added := acc.addEOF()
		if added {
			changed = true
		}
	}
	for _, prod := range cc.prods.getAllProductions() {
		for i, sym := range prod.rhs {
			if sym != ntsym {
				continue
			}

			if i == prod.rhsLen-1 {
				if prod.lhs == ntsym {
					continue
				}
				flw, err := cc.follow.find(prod.lhs)
				if err != nil {
					return false, err
				}
				added := acc.merge(nil, flw)
				if added {
					changed = true
				}
				continue
			}

			fst, err := cc.first.find(prod.rhs[i+1])
			if err != nil {
				return false, err
			}
			added := acc.merge(fst, nil)
			if added {
				changed = true
			}
			if fst.empty && prod.lhs != ntsym {
				flw, err := cc.follow.find(prod.lhs)
				if err != nil {
					return false, err
				}
				added := acc.merge(nil, flw)
				if added {
					changed = true
				}
			}
		}
	}

	return changed, nil
}
