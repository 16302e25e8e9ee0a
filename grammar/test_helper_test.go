package grammar

import (
	"sort"
	"strings"
	"testing"

	"github.com/nihei9/slrgen/grammar/symbol"
	ast "github.com/nihei9/slrgen/spec"
)

func genActualGrammar(t *testing.T, src string) *Grammar {
	t.Helper()

	root, err := ast.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	b := GrammarBuilder{
		AST: root,
	}
	gram, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	return gram
}

type testSymbolGenerator func(text string) symbol.Symbol

func newTestSymbolGenerator(t *testing.T, symTab *symbol.SymbolTableReader) testSymbolGenerator {
	return func(text string) symbol.Symbol {
		t.Helper()

		sym, ok := symTab.ToSymbol(text)
		if !ok {
			t.Fatalf("symbol was not found: %v", text)
		}
		return sym
	}
}

type testProductionGenerator func(lhs string, rhs ...string) *production

func newTestProductionGenerator(t *testing.T, genSym testSymbolGenerator) testProductionGenerator {
	return func(lhs string, rhs ...string) *production {
		t.Helper()

		rhsSym := []symbol.Symbol{}
		for _, text := range rhs {
			rhsSym = append(rhsSym, genSym(text))
		}
		prod, err := newProduction(genSym(lhs), rhsSym)
		if err != nil {
			t.Fatalf("failed to create a production: %v", err)
		}

		return prod
	}
}

type testLR0ItemGenerator func(lhs string, dot int, rhs ...string) *lrItem

func newTestLR0ItemGenerator(t *testing.T, genProd testProductionGenerator) testLR0ItemGenerator {
	return func(lhs string, dot int, rhs ...string) *lrItem {
		t.Helper()

		prod := genProd(lhs, rhs...)
		item, err := newLR0Item(prod, dot)
		if err != nil {
			t.Fatalf("failed to create a LR0 item: %v", err)
		}

		return item
	}
}

// equalAsSets compares symbol lists ignoring their order.
func equalAsSets(actual []symbol.Symbol, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}
	a := make([]string, len(actual))
	for i, sym := range actual {
		a[i] = sym.String()
	}
	e := make([]string, len(expected))
	copy(e, expected)
	sort.Strings(a)
	sort.Strings(e)
	for i := range a {
		if a[i] != e[i] {
			return false
		}
	}
	return true
}
