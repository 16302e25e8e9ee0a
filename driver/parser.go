package driver

import (
	"fmt"

	spec "github.com/nihei9/slrgen/spec/grammar"
)

type SyntaxError struct {
	Row               int
	Col               int
	Message           string
	Token             *Token
	ExpectedTerminals []string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%v:%v: %v", e.Row+1, e.Col+1, e.Message)
}

type ParserOption func(p *Parser) error

func SemanticAction(semAct SemanticActionSet) ParserOption {
	return func(p *Parser) error {
		p.semAct = semAct
		return nil
	}
}

// Parser is a shift-reduce parser driven by a parsing table. It stops at the first syntax error because
// the table has no error recovery entries.
type Parser struct {
	toks       TokenStream
	gram       *grammarImpl
	stateStack *stateStack
	semAct     SemanticActionSet
	synErrs    []*SyntaxError
}

func NewParser(toks TokenStream, gram *grammarImpl, opts ...ParserOption) (*Parser, error) {
	p := &Parser{
		toks:       toks,
		gram:       gram,
		stateStack: &stateStack{},
	}

	for _, opt := range opts {
		err := opt(p)
		if err != nil {
			return nil, err
		}
	}

	return p, nil
}

func (p *Parser) Parse() error {
	p.stateStack.push(p.gram.InitialState())
	tok, err := p.toks.Next()
	if err != nil {
		return err
	}

	var cycle *reductionCycleDetector
	for {
		kind, n, err := p.lookupAction(tok)
		if err != nil {
			return err
		}
		switch kind {
		case spec.ActionKindShift:
			cycle = nil

			p.shift(n)

			if p.semAct != nil {
				p.semAct.Shift(tok)
			}

			tok, err = p.toks.Next()
			if err != nil {
				return err
			}
		case spec.ActionKindReduce:
			if n <= 0 || n >= p.gram.RuleCount() {
				return fmt.Errorf("a reduce action refers to an invalid rule: %v", n)
			}

			if cycle == nil {
				cycle = newReductionCycleDetector(len(p.stateStack.items), p.gram.StackGrowthLimit())
			}

			err := p.reduce(n)
			if err != nil {
				return err
			}

			if p.semAct != nil {
				p.semAct.Reduce(n)
			}

			if cycle.endless(p.stateStack.items) {
				p.synErrs = append(p.synErrs, &SyntaxError{
					Row:     tok.Row,
					Col:     tok.Col,
					Message: "reductions don't terminate",
					Token:   tok,
				})

				if p.semAct != nil {
					p.semAct.MissError(tok)
				}

				return nil
			}
		case spec.ActionKindAccept:
			if p.semAct != nil {
				p.semAct.Accept()
			}

			tracer().Debugf("accepted")

			return nil
		default:
			msg := "unexpected token"
			if tok.Invalid {
				msg = "invalid token"
			}
			p.synErrs = append(p.synErrs, &SyntaxError{
				Row:               tok.Row,
				Col:               tok.Col,
				Message:           msg,
				Token:             tok,
				ExpectedTerminals: p.searchLookahead(p.stateStack.top()),
			})

			if p.semAct != nil {
				p.semAct.MissError(tok)
			}

			return nil
		}
	}
}

// validateLookahead reports whether a terminal has a non-error action in the current configuration.
// It simulates reductions on a copy of the state stack.
func (p *Parser) validateLookahead(term string) bool {
	p.stateStack.enableExploratoryMode()
	defer p.stateStack.disableExploratoryMode()

	cycle := newReductionCycleDetector(len(p.stateStack.itemsExp), p.gram.StackGrowthLimit())
	for {
		kind, n, err := p.gram.Action(p.stateStack.topExploratorily(), term)
		if err != nil {
			return false
		}

		switch kind {
		case spec.ActionKindShift, spec.ActionKindAccept:
			return true
		case spec.ActionKindReduce:
			if n <= 0 || n >= p.gram.RuleCount() {
				return false
			}
			p.stateStack.popExploratorily(p.gram.AlternativeSymbolCount(n))
			next, err := p.gram.GoTo(p.stateStack.topExploratorily(), p.gram.LHS(n))
			if err != nil {
				return false
			}
			p.stateStack.pushExploratorily(next)
			if cycle.endless(p.stateStack.itemsExp) {
				return false
			}
		default:
			return false
		}
	}
}

func (p *Parser) lookupAction(tok *Token) (spec.ActionKind, int, error) {
	if tok.Invalid {
		return spec.ActionKindError, 0, nil
	}
	return p.gram.Action(p.stateStack.top(), tok.Terminal)
}

func (p *Parser) shift(nextState int) {
	p.stateStack.push(nextState)
}

func (p *Parser) reduce(prodNum int) error {
	n := p.gram.AlternativeSymbolCount(prodNum)
	p.stateStack.pop(n)
	nextState, err := p.gram.GoTo(p.stateStack.top(), p.gram.LHS(prodNum))
	if err != nil {
		return err
	}
	p.stateStack.push(nextState)
	return nil
}

func (p *Parser) SyntaxErrors() []*SyntaxError {
	return p.synErrs
}

func (p *Parser) searchLookahead(state int) []string {
	var terms []string
	for _, term := range p.gram.ExpectedTerminals(state) {
		if !p.validateLookahead(term) {
			continue
		}
		terms = append(terms, term)
	}
	return terms
}

// reductionCycleDetector watches the stacks of a run of reductions under one lookahead. Such a run is
// deterministic, so it never ends when a stack repeats or when the stack keeps growing. Repetitions are
// found with Brent's algorithm.
type reductionCycleDetector struct {
	maxHeight int
	snapshot  []int
	power     int
	lam       int
}

func newReductionCycleDetector(height int, growthLimit int) *reductionCycleDetector {
	return &reductionCycleDetector{
		maxHeight: height + growthLimit,
		power:     1,
	}
}

// endless takes the stack after each reduction and reports whether the run never ends.
func (d *reductionCycleDetector) endless(stack []int) bool {
	if len(stack) > d.maxHeight {
		return true
	}
	if d.snapshot != nil && equalStates(stack, d.snapshot) {
		return true
	}
	d.lam++
	if d.lam == d.power {
		d.snapshot = append(d.snapshot[:0], stack...)
		d.power *= 2
		d.lam = 0
	}
	return false
}

func equalStates(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := len(a) - 1; i >= 0; i-- {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

type stateStack struct {
	items    []int
	itemsExp []int
}

func (s *stateStack) enableExploratoryMode() {
	s.itemsExp = make([]int, len(s.items))
	copy(s.itemsExp, s.items)
}

func (s *stateStack) disableExploratoryMode() {
	s.itemsExp = nil
}

func (s *stateStack) top() int {
	return s.items[len(s.items)-1]
}

func (s *stateStack) topExploratorily() int {
	return s.itemsExp[len(s.itemsExp)-1]
}

func (s *stateStack) push(state int) {
	s.items = append(s.items, state)
}

func (s *stateStack) pushExploratorily(state int) {
	s.itemsExp = append(s.itemsExp, state)
}

func (s *stateStack) pop(n int) {
	s.items = s.items[:len(s.items)-n]
}

func (s *stateStack) popExploratorily(n int) {
	s.itemsExp = s.itemsExp[:len(s.itemsExp)-n]
}
