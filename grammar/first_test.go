package grammar

import (
	"testing"
)

type first struct {
	sym     string
	symbols []string
	empty   bool
}

func TestGenFirst(t *testing.T) {
	tests := []struct {
		caption string
		src     string
		first   []first
	}{
		{
			caption: "productions contain only non-empty productions",
			src: `
expr -> expr add term | term
term -> term mul factor | factor
factor -> l_paren expr r_paren | id
`,
			first: []first{
				{sym: "expr'", symbols: []string{"l_paren", "id"}},
				{sym: "expr", symbols: []string{"l_paren", "id"}},
				{sym: "term", symbols: []string{"l_paren", "id"}},
				{sym: "factor", symbols: []string{"l_paren", "id"}},
			},
		},
		{
			caption: "productions contain the empty start production",
			src: `
s ->
`,
			first: []first{
				{sym: "s'", symbols: []string{}, empty: true},
				{sym: "s", symbols: []string{}, empty: true},
			},
		},
		{
			caption: "productions contain an empty production",
			src: `
s -> foo bar
foo -> ε
bar -> b
`,
			first: []first{
				{sym: "s", symbols: []string{}, empty: true},
				{sym: "foo", symbols: []string{}, empty: true},
				{sym: "bar", symbols: []string{"b"}},
			},
		},
		{
			caption: "only the first symbol of a production contributes",
			src: `
s -> a b
a ->
`,
			first: []first{
				{sym: "s", symbols: []string{}, empty: true},
				{sym: "a", symbols: []string{}, empty: true},
			},
		},
		{
			caption: "a nullable non-terminal passes ε up",
			src: `
s -> a x | y
a -> b | ε
b -> c
`,
			first: []first{
				{sym: "s", symbols: []string{"c", "y"}, empty: true},
				{sym: "a", symbols: []string{"c"}, empty: true},
				{sym: "b", symbols: []string{"c"}},
			},
		},
		{
			caption: "the computation terminates on left recursion",
			src: `
a -> a x | b
`,
			first: []first{
				{sym: "a", symbols: []string{"b"}},
			},
		},
		{
			caption: "the computation terminates on mutual left recursion",
			src: `
a -> b x | p
b -> a y | q
`,
			first: []first{
				{sym: "a", symbols: []string{"p", "q"}},
				{sym: "b", symbols: []string{"p", "q"}},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			gram := genActualGrammar(t, tt.src)
			fst, err := genFirstSet(gram.productionSet)
			if err != nil {
				t.Fatal(err)
			}
			if fst == nil {
				t.Fatal("genFirstSet returned nil without any error")
			}

			genSym := newTestSymbolGenerator(t, gram.symbolTable.Reader())
			for _, ttFirst := range tt.first {
				actual, err := fst.find(genSym(ttFirst.sym))
				if err != nil {
					t.Fatalf("failed to get a FIRST set; symbol: %v, error: %v", ttFirst.sym, err)
				}
				if actual.empty != ttFirst.empty {
					t.Errorf("empty is mismatched; symbol: %v\nwant: %v\ngot: %v", ttFirst.sym, ttFirst.empty, actual.empty)
				}
				if !equalAsSets(actual.list(), ttFirst.symbols) {
					t.Errorf("invalid FIRST set; symbol: %v\nwant: %v\ngot: %v", ttFirst.sym, ttFirst.symbols, actual.list())
				}
			}
		})
	}
}

func TestGenFirst_Terminal(t *testing.T) {
	gram := genActualGrammar(t, "s -> x y")
	fst, err := genFirstSet(gram.productionSet)
	if err != nil {
		t.Fatal(err)
	}

	genSym := newTestSymbolGenerator(t, gram.symbolTable.Reader())
	for _, text := range []string{"x", "y"} {
		e, err := fst.find(genSym(text))
		if err != nil {
			t.Fatal(err)
		}
		if e.empty {
			t.Errorf("FIRST of a terminal must not contain ε; symbol: %v", text)
		}
		if !equalAsSets(e.list(), []string{text}) {
			t.Errorf("FIRST of a terminal must be the terminal itself\nwant: [%v]\ngot: %v", text, e.list())
		}
	}
}
