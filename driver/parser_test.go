package driver

import (
	"strings"
	"testing"
	"time"

	"github.com/nihei9/slrgen/grammar"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exprGrammar = `
E -> E + T | T
T -> T * F | F
F -> ( E ) | id
`

func newTestParser(t *testing.T, gramSrc string, src string) (*Parser, *SyntaxTreeActionSet) {
	t.Helper()

	desc, err := grammar.Analyze(gramSrc)
	require.NoError(t, err)
	gram, err := NewGrammar(desc)
	require.NoError(t, err)
	toks, err := NewTokenStream(gram, strings.NewReader(src))
	require.NoError(t, err)
	treeAct := NewSyntaxTreeActionSet(gram, true, true)
	p, err := NewParser(toks, gram, SemanticAction(treeAct))
	require.NoError(t, err)
	return p, treeAct
}

func Test_Parser_Parse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.driver")
	defer teardown()

	testCases := []struct {
		name   string
		gram   string
		src    string
		expect string
	}{
		{
			name: "single identifier",
			gram: exprGrammar,
			src:  `id`,
			expect: `E
└─ T
   └─ F
      └─ id "id"
`,
		},
		{
			name: "tokens need no spaces between them",
			gram: exprGrammar,
			src:  `id*(id)`,
			expect: `E
└─ T
   ├─ T
   │  └─ F
   │     └─ id "id"
   ├─ * "*"
   └─ F
      ├─ ( "("
      ├─ E
      │  └─ T
      │     └─ F
      │        └─ id "id"
      └─ ) ")"
`,
		},
		{
			name: "empty productions",
			gram: "S -> a S |",
			src:  `a a`,
			expect: `S
├─ a "a"
└─ S
   ├─ a "a"
   └─ S
`,
		},
		{
			name: "shift wins a shift/reduce conflict",
			gram: "E -> E + E | id",
			src:  `id + id + id`,
			expect: `E
├─ E
│  └─ id "id"
├─ + "+"
└─ E
   ├─ E
   │  └─ id "id"
   ├─ + "+"
   └─ E
      └─ id "id"
`,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			p, treeAct := newTestParser(t, tc.gram, tc.src)
			err := p.Parse()
			if !assert.NoError(err) {
				return
			}
			assert.Empty(p.SyntaxErrors())

			var b strings.Builder
			PrintTree(&b, treeAct.CST())
			assert.Equal(tc.expect, b.String())
		})
	}
}

func Test_Parser_SyntaxErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.driver")
	defer teardown()

	testCases := []struct {
		name     string
		src      string
		message  string
		col      int
		expected []string
	}{
		{
			name:     "unexpected identifier",
			src:      `id id`,
			message:  "unexpected token",
			col:      3,
			expected: []string{"+", "*", "$"},
		},
		{
			name:     "missing operand",
			src:      `id + )`,
			message:  "unexpected token",
			col:      5,
			expected: []string{"(", "id"},
		},
		{
			name:     "invalid token",
			src:      `id # id`,
			message:  "invalid token",
			col:      3,
			expected: []string{"+", "*", "$"},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			p, treeAct := newTestParser(t, exprGrammar, tc.src)
			err := p.Parse()
			if !assert.NoError(err) {
				return
			}

			synErrs := p.SyntaxErrors()
			if !assert.Len(synErrs, 1) {
				return
			}
			assert.Equal(tc.message, synErrs[0].Message)
			assert.Equal(0, synErrs[0].Row)
			assert.Equal(tc.col, synErrs[0].Col)
			assert.Equal(tc.expected, synErrs[0].ExpectedTerminals)
			assert.Nil(treeAct.CST())
		})
	}
}

func Test_Parser_AST(t *testing.T) {
	assert := assert.New(t)

	p, treeAct := newTestParser(t, exprGrammar, `id + id`)
	err := p.Parse()
	if !assert.NoError(err) {
		return
	}

	var b strings.Builder
	PrintTree(&b, treeAct.AST())
	assert.Equal(`E
├─ id "id"
├─ + "+"
└─ id "id"
`, b.String())
}

func Test_Parser_ReductionCycle(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.driver")
	defer teardown()

	testCases := []struct {
		name    string
		gram    string
		src     string
		synErrs int
	}{
		{
			name:    "a cycle of unit reductions stops with a syntax error",
			gram:    "S -> A\nA -> A | a",
			src:     `a`,
			synErrs: 1,
		},
		{
			name:    "a cycle of an empty reduction and a reduction popping two symbols stops",
			gram:    "S -> X\nX -> X Y | a\nY -> ε",
			src:     `a`,
			synErrs: 1,
		},
		{
			name:    "empty reductions growing the stack forever stop",
			gram:    "S -> A\nA -> B A | c\nB -> ε",
			src:     ``,
			synErrs: 1,
		},
		{
			name:    "a long run of reductions popping the stack is accepted",
			gram:    "S -> a S | a",
			src:     strings.Repeat("a ", 50),
			synErrs: 0,
		},
		{
			name:    "a long run of empty and unit reductions is accepted",
			gram:    "S -> a S | B\nB -> C\nC -> D\nD -> ε",
			src:     strings.Repeat("a ", 50),
			synErrs: 0,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			p, treeAct := newTestParser(t, tc.gram, tc.src)
			done := make(chan error, 1)
			go func() {
				done <- p.Parse()
			}()

			select {
			case err := <-done:
				if !assert.NoError(err) {
					return
				}
			case <-time.After(5 * time.Second):
				t.Fatal("the parser didn't stop")
			}

			assert.Len(p.SyntaxErrors(), tc.synErrs)
			if tc.synErrs > 0 {
				assert.Equal("reductions don't terminate", p.SyntaxErrors()[0].Message)
				assert.Nil(treeAct.CST())
			} else {
				assert.NotNil(treeAct.CST())
			}
		})
	}
}

func Test_ReductionCycleDetector_Endless(t *testing.T) {
	testCases := []struct {
		name    string
		stacks  [][]int
		endless bool
	}{
		{
			name:    "a repeated stack",
			stacks:  [][]int{{0, 2}, {0, 2}},
			endless: true,
		},
		{
			name:    "a stack repeated after a few reductions",
			stacks:  [][]int{{0, 1}, {0, 1, 4}, {0, 5}, {0, 1}, {0, 1, 4}, {0, 5}, {0, 1}, {0, 1, 4}, {0, 5}},
			endless: true,
		},
		{
			name:    "a stack growing over the limit",
			stacks:  [][]int{{0, 1}, {0, 1, 1}, {0, 1, 1, 1}, {0, 1, 1, 1, 1}},
			endless: true,
		},
		{
			name:    "distinct stacks",
			stacks:  [][]int{{0, 1, 2, 3}, {0, 1, 4}, {0, 5}, {0, 6}},
			endless: false,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d := newReductionCycleDetector(2, 2)
			endless := false
			for _, stack := range tc.stacks {
				if d.endless(stack) {
					endless = true
					break
				}
			}
			assert.Equal(t, tc.endless, endless)
		})
	}
}
