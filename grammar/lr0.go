package grammar

import (
	"fmt"

	"github.com/nihei9/slrgen/grammar/symbol"
)

type lrEdge struct {
	from stateNum
	sym  symbol.Symbol
	to   stateNum
}

type lr0Automaton struct {
	initialState stateNum

	// states's index means a state number.
	states []*lrState
	edges  []*lrEdge
}

type pendingTransition struct {
	from   stateNum
	sym    symbol.Symbol
	target stateID
}

func genLR0Automaton(prods *productionSet, startSym symbol.Symbol) (*lr0Automaton, error) {
	startProds, ok := prods.findByLHS(startSym)
	if !ok || !startProds[0].isStart() {
		return nil, fmt.Errorf("passed symbol is not a start symbol: %v", startSym)
	}

	initialItem, err := newLR0Item(startProds[0], 0)
	if err != nil {
		return nil, err
	}
	initialItems, err := genLR0Closure([]*lrItem{initialItem}, prods)
	if err != nil {
		return nil, err
	}

	automaton := &lr0Automaton{
		initialState: stateNumInitial,
	}

	currentState := stateNumInitial
	knownStates := map[stateID]stateNum{}
	var pendings []*pendingTransition
	uncheckedItemSets := [][]*lrItem{initialItems}
	for len(uncheckedItemSets) > 0 {
		items := uncheckedItemSets[0]
		uncheckedItemSets = uncheckedItemSets[1:]

		id := genStateID(items)
		if _, known := knownStates[id]; known {
			continue
		}

		state := &lrState{
			id:    id,
			num:   currentState,
			items: items,
			next:  map[symbol.Symbol]stateNum{},
		}
		currentState = currentState.next()
		knownStates[id] = state.num
		automaton.states = append(automaton.states, state)

		tracer().Debugf("state %v: %v items", state.num, len(items))

		for _, sym := range dottedSymbols(items) {
			nextItems, err := genGoTo(items, sym, prods)
			if err != nil {
				return nil, err
			}
			if nextItems == nil {
				continue
			}

			nextID := genStateID(nextItems)
			pendings = append(pendings, &pendingTransition{
				from:   state.num,
				sym:    sym,
				target: nextID,
			})
			if _, known := knownStates[nextID]; !known {
				uncheckedItemSets = append(uncheckedItemSets, nextItems)
			}
		}
	}

	// All states are known at this point, so every target can be resolved to its number.
	for _, p := range pendings {
		to, ok := knownStates[p.target]
		if !ok {
			return nil, fmt.Errorf("a target state was not found; state: %v, symbol: %v", p.from, p.sym)
		}
		from := automaton.states[p.from]
		from.next[p.sym] = to
		from.nextSyms = append(from.nextSyms, p.sym)
		automaton.edges = append(automaton.edges, &lrEdge{
			from: p.from,
			sym:  p.sym,
			to:   to,
		})
	}

	tracer().Infof("LR(0) automaton: %v states, %v edges", len(automaton.states), len(automaton.edges))

	return automaton, nil
}

// dottedSymbols returns the distinct symbols following a dot in the order of the items.
func dottedSymbols(items []*lrItem) []symbol.Symbol {
	var syms []symbol.Symbol
	seen := map[symbol.Symbol]struct{}{}
	for _, item := range items {
		if item.dottedSymbol.IsNil() {
			continue
		}
		if _, ok := seen[item.dottedSymbol]; ok {
			continue
		}
		seen[item.dottedSymbol] = struct{}{}
		syms = append(syms, item.dottedSymbol)
	}
	return syms
}

// genLR0Closure expands items until no new item can be added. Items of a non-terminal following a dot
// are appended in the order of the productions, after the items that produced them.
func genLR0Closure(items []*lrItem, prods *productionSet) ([]*lrItem, error) {
	closure := []*lrItem{}
	knownItems := map[lrItemID]struct{}{}
	uncheckedItems := []*lrItem{}
	for _, item := range items {
		if _, exist := knownItems[item.id]; exist {
			continue
		}
		closure = append(closure, item)
		knownItems[item.id] = struct{}{}
		uncheckedItems = append(uncheckedItems, item)
	}
	for len(uncheckedItems) > 0 {
		nextUncheckedItems := []*lrItem{}
		for _, item := range uncheckedItems {
			if item.dottedSymbol.IsNil() {
				continue
			}

			// A symbol without productions is a terminal.
			ps, ok := prods.findByLHS(item.dottedSymbol)
			if !ok {
				continue
			}
			for _, prod := range ps {
				item, err := newLR0Item(prod, 0)
				if err != nil {
					return nil, err
				}
				if _, exist := knownItems[item.id]; exist {
					continue
				}
				closure = append(closure, item)
				knownItems[item.id] = struct{}{}
				nextUncheckedItems = append(nextUncheckedItems, item)
			}
		}
		uncheckedItems = nextUncheckedItems
	}

	return closure, nil
}

// genGoTo returns the closure of the items reached by reading sym. When no item can read sym, it returns
// nil.
func genGoTo(items []*lrItem, sym symbol.Symbol, prods *productionSet) ([]*lrItem, error) {
	var kItems []*lrItem
	for _, item := range items {
		if item.dottedSymbol.IsNil() || item.dottedSymbol != sym {
			continue
		}
		kItem, err := item.advance(prods)
		if err != nil {
			return nil, err
		}
		kItems = append(kItems, kItem)
	}
	if len(kItems) == 0 {
		return nil, nil
	}

	tracer().Debugf("goto on %v: %v kernel items", sym, len(kItems))

	return genLR0Closure(kItems, prods)
}
