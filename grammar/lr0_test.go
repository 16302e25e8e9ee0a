package grammar

import (
	"fmt"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"

	"github.com/nihei9/slrgen/grammar/symbol"
)

type expectedLRState struct {
	kernelItems    []*lrItem
	nextStates     map[symbol.Symbol]int
	reducibleProds []*production
}

func TestGenLR0Automaton(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.grammar")
	defer teardown()

	src := `
expr -> expr add term | term
term -> term mul factor | factor
factor -> l_paren expr r_paren | id
`

	gram := genActualGrammar(t, src)
	automaton, err := genLR0Automaton(gram.productionSet, gram.augmentedStartSymbol)
	if err != nil {
		t.Fatalf("failed to create a LR0 automaton: %v", err)
	}
	if automaton == nil {
		t.Fatalf("genLR0Automaton returns nil without any error")
	}

	initialState := automaton.states[automaton.initialState]
	if initialState == nil {
		t.Errorf("failed to get an initial status: %v", automaton.initialState)
	}

	genSym := newTestSymbolGenerator(t, gram.symbolTable.Reader())
	genProd := newTestProductionGenerator(t, genSym)
	genLR0Item := newTestLR0ItemGenerator(t, genProd)

	expectedKernels := map[int][]*lrItem{
		0: {
			genLR0Item("expr'", 0, "expr"),
		},
		1: {
			genLR0Item("expr'", 1, "expr"),
			genLR0Item("expr", 1, "expr", "add", "term"),
		},
		2: {
			genLR0Item("expr", 1, "term"),
			genLR0Item("term", 1, "term", "mul", "factor"),
		},
		3: {
			genLR0Item("term", 1, "factor"),
		},
		4: {
			genLR0Item("factor", 1, "l_paren", "expr", "r_paren"),
		},
		5: {
			genLR0Item("factor", 1, "id"),
		},
		6: {
			genLR0Item("expr", 2, "expr", "add", "term"),
		},
		7: {
			genLR0Item("term", 2, "term", "mul", "factor"),
		},
		8: {
			genLR0Item("factor", 2, "l_paren", "expr", "r_paren"),
			genLR0Item("expr", 1, "expr", "add", "term"),
		},
		9: {
			genLR0Item("expr", 3, "expr", "add", "term"),
			genLR0Item("term", 1, "term", "mul", "factor"),
		},
		10: {
			genLR0Item("term", 3, "term", "mul", "factor"),
		},
		11: {
			genLR0Item("factor", 3, "l_paren", "expr", "r_paren"),
		},
	}

	expectedStates := []*expectedLRState{
		{
			kernelItems: expectedKernels[0],
			nextStates: map[symbol.Symbol]int{
				genSym("expr"):    1,
				genSym("term"):    2,
				genSym("factor"):  3,
				genSym("l_paren"): 4,
				genSym("id"):      5,
			},
			reducibleProds: []*production{},
		},
		{
			kernelItems: expectedKernels[1],
			nextStates: map[symbol.Symbol]int{
				genSym("add"): 6,
			},
			reducibleProds: []*production{
				genProd("expr'", "expr"),
			},
		},
		{
			kernelItems: expectedKernels[2],
			nextStates: map[symbol.Symbol]int{
				genSym("mul"): 7,
			},
			reducibleProds: []*production{
				genProd("expr", "term"),
			},
		},
		{
			kernelItems: expectedKernels[3],
			nextStates:  map[symbol.Symbol]int{},
			reducibleProds: []*production{
				genProd("term", "factor"),
			},
		},
		{
			kernelItems: expectedKernels[4],
			nextStates: map[symbol.Symbol]int{
				genSym("expr"):    8,
				genSym("term"):    2,
				genSym("factor"):  3,
				genSym("l_paren"): 4,
				genSym("id"):      5,
			},
			reducibleProds: []*production{},
		},
		{
			kernelItems: expectedKernels[5],
			nextStates:  map[symbol.Symbol]int{},
			reducibleProds: []*production{
				genProd("factor", "id"),
			},
		},
		{
			kernelItems: expectedKernels[6],
			nextStates: map[symbol.Symbol]int{
				genSym("term"):    9,
				genSym("factor"):  3,
				genSym("l_paren"): 4,
				genSym("id"):      5,
			},
			reducibleProds: []*production{},
		},
		{
			kernelItems: expectedKernels[7],
			nextStates: map[symbol.Symbol]int{
				genSym("factor"):  10,
				genSym("l_paren"): 4,
				genSym("id"):      5,
			},
			reducibleProds: []*production{},
		},
		{
			kernelItems: expectedKernels[8],
			nextStates: map[symbol.Symbol]int{
				genSym("add"):     6,
				genSym("r_paren"): 11,
			},
			reducibleProds: []*production{},
		},
		{
			kernelItems: expectedKernels[9],
			nextStates: map[symbol.Symbol]int{
				genSym("mul"): 7,
			},
			reducibleProds: []*production{
				genProd("expr", "expr", "add", "term"),
			},
		},
		{
			kernelItems: expectedKernels[10],
			nextStates:  map[symbol.Symbol]int{},
			reducibleProds: []*production{
				genProd("term", "term", "mul", "factor"),
			},
		},
		{
			kernelItems: expectedKernels[11],
			nextStates:  map[symbol.Symbol]int{},
			reducibleProds: []*production{
				genProd("factor", "l_paren", "expr", "r_paren"),
			},
		},
	}

	testLRAutomaton(t, expectedStates, automaton)
}

func TestGenLR0Automaton_EmptyProduction(t *testing.T) {
	gram := genActualGrammar(t, "A -> ")
	automaton, err := genLR0Automaton(gram.productionSet, gram.augmentedStartSymbol)
	if err != nil {
		t.Fatal(err)
	}

	genSym := newTestSymbolGenerator(t, gram.symbolTable.Reader())
	genProd := newTestProductionGenerator(t, genSym)
	genLR0Item := newTestLR0ItemGenerator(t, genProd)

	expectedStates := []*expectedLRState{
		{
			kernelItems: []*lrItem{
				genLR0Item("A'", 0, "A"),
			},
			nextStates: map[symbol.Symbol]int{
				genSym("A"): 1,
			},
			reducibleProds: []*production{
				genProd("A"),
			},
		},
		{
			kernelItems: []*lrItem{
				genLR0Item("A'", 1, "A"),
			},
			nextStates: map[symbol.Symbol]int{},
			reducibleProds: []*production{
				genProd("A'", "A"),
			},
		},
	}

	testLRAutomaton(t, expectedStates, automaton)
}

func TestGenLR0Closure(t *testing.T) {
	gram := genActualGrammar(t, `
E -> E + T | T
T -> id
`)
	genSym := newTestSymbolGenerator(t, gram.symbolTable.Reader())
	genProd := newTestProductionGenerator(t, genSym)
	genLR0Item := newTestLR0ItemGenerator(t, genProd)

	closure, err := genLR0Closure([]*lrItem{genLR0Item("E'", 0, "E")}, gram.productionSet)
	if err != nil {
		t.Fatal(err)
	}
	expected := []*lrItem{
		genLR0Item("E'", 0, "E"),
		genLR0Item("E", 0, "E", "+", "T"),
		genLR0Item("E", 0, "T"),
		genLR0Item("T", 0, "id"),
	}
	if len(closure) != len(expected) {
		t.Fatalf("unexpected closure size\nwant: %v\ngot: %v", len(expected), len(closure))
	}
	for i, item := range expected {
		if closure[i].id != item.id {
			t.Errorf("unexpected item at %v\nwant: %v\ngot: %v", i, item.id, closure[i].id)
		}
	}

	t.Run("closure is idempotent", func(t *testing.T) {
		again, err := genLR0Closure(closure, gram.productionSet)
		if err != nil {
			t.Fatal(err)
		}
		if len(again) != len(closure) {
			t.Fatalf("closure grew\nwant: %v\ngot: %v", len(closure), len(again))
		}
		for i := range closure {
			if again[i].id != closure[i].id {
				t.Errorf("unexpected item at %v\nwant: %v\ngot: %v", i, closure[i].id, again[i].id)
			}
		}
	})

	t.Run("goto on a symbol no item reads is nil", func(t *testing.T) {
		items, err := genGoTo(closure, genSym("+"), gram.productionSet)
		if err != nil {
			t.Fatal(err)
		}
		if items != nil {
			t.Fatalf("unexpected items: %v", items)
		}
	})
}

func TestGenStateID(t *testing.T) {
	gram := genActualGrammar(t, "S -> a b")
	genSym := newTestSymbolGenerator(t, gram.symbolTable.Reader())
	genProd := newTestProductionGenerator(t, genSym)
	genLR0Item := newTestLR0ItemGenerator(t, genProd)

	i1 := genLR0Item("S", 0, "a", "b")
	i2 := genLR0Item("S", 1, "a", "b")
	i3 := genLR0Item("S", 2, "a", "b")

	if genStateID([]*lrItem{i1, i2}) != genStateID([]*lrItem{i2, i1}) {
		t.Errorf("a state ID must not depend on the order of items")
	}
	if genStateID([]*lrItem{i1, i2}) != genStateID([]*lrItem{i1, i2, i1}) {
		t.Errorf("a state ID must not depend on duplicate items")
	}
	if genStateID([]*lrItem{i1, i2}) == genStateID([]*lrItem{i1, i3}) {
		t.Errorf("different item sets must have different state IDs")
	}
}

func testLRAutomaton(t *testing.T, expected []*expectedLRState, automaton *lr0Automaton) {
	if len(automaton.states) != len(expected) {
		t.Errorf("state count is mismatched; want: %v, got: %v", len(expected), len(automaton.states))
	}

	for i, eState := range expected {
		t.Run(fmt.Sprintf("state #%v", i), func(t *testing.T) {
			if i >= len(automaton.states) {
				t.Fatalf("a state was not found: #%v", i)
			}
			state := automaton.states[i]
			if state.num.Int() != i {
				t.Errorf("unexpected state number; want: %v, got: %v", i, state.num)
			}

			kernels := map[lrItemID]struct{}{}
			for _, item := range state.items {
				if item.dot == 0 && !item.initial {
					continue
				}
				kernels[item.id] = struct{}{}
			}
			if len(kernels) != len(eState.kernelItems) {
				t.Errorf("kernels is mismatched; want: %v, got: %v", len(eState.kernelItems), len(kernels))
			}
			for _, eKItem := range eState.kernelItems {
				if _, ok := kernels[eKItem.id]; !ok {
					t.Errorf("kernel item not found; want: %v", eKItem.id)
				}
			}

			if len(state.next) != len(eState.nextStates) {
				t.Errorf("next state count is mismatched; want: %v, got: %v", len(eState.nextStates), len(state.next))
			}
			for eSym, eNext := range eState.nextStates {
				next, ok := state.next[eSym]
				if !ok {
					t.Errorf("next state was not found; symbol: %v", eSym)
					continue
				}
				if next.Int() != eNext {
					t.Errorf("unexpected next state; symbol: %v, want: %v, got: %v", eSym, eNext, next)
				}
			}

			reducible := map[productionID]struct{}{}
			for _, item := range state.items {
				if item.reducible {
					reducible[item.prod] = struct{}{}
				}
			}
			if len(reducible) != len(eState.reducibleProds) {
				t.Errorf("reducible production count is mismatched; want: %v, got: %v", len(eState.reducibleProds), len(reducible))
			}
			for _, eProd := range eState.reducibleProds {
				if _, ok := reducible[eProd.id]; !ok {
					t.Errorf("reducible production was not found: %v", eProd.id)
				}
			}
		})
	}
}
