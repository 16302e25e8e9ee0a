package spec

import (
	"io"
	"strings"

	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/text/unicode/norm"

	verr "github.com/nihei9/slrgen/error"
)

// tracer traces with key 'slrgen.spec'.
func tracer() tracing.Trace {
	return tracing.Select("slrgen.spec")
}

type RootNode struct {
	Productions []*ProductionNode
}

// ProductionNode is one line of a grammar text, like `E -> E + T | T`.
type ProductionNode struct {
	LHS string
	RHS []*AlternativeNode
	Pos Position
}

type AlternativeNode struct {
	Elements []*ElementNode
	Pos      Position
}

// IsEmpty returns true when the alternative is the empty string (ε).
func (n *AlternativeNode) IsEmpty() bool {
	return len(n.Elements) == 0
}

type ElementNode struct {
	ID  string
	Pos Position
}

func raiseSyntaxError(pos Position, synErr *SyntaxError, detail string) {
	panic(&verr.SpecError{
		Cause:  synErr,
		Detail: detail,
		Row:    pos.Row,
		Col:    pos.Col,
	})
}

// Parse reads a grammar text, one rule per line. Empty lines and lines beginning with `#` or `//` are
// skipped. Every malformed line is reported; in that case the error is a verr.SpecErrors.
func Parse(src io.Reader) (*RootNode, error) {
	b, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	text := norm.NFC.String(string(b))
	if strings.TrimSpace(text) == "" {
		return nil, &EmptyInputError{}
	}

	root := &RootNode{}
	var specErrs verr.SpecErrors
	for i, line := range strings.Split(text, "\n") {
		row := i + 1
		line = strings.TrimSuffix(line, "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "//") {
			continue
		}

		prod, specErr := parseLine(row, line)
		if specErr != nil {
			specErr.Line = line
			specErrs = append(specErrs, specErr)
			continue
		}
		root.Productions = append(root.Productions, prod)
	}
	if len(specErrs) > 0 {
		tracer().Errorf("%v malformed lines", len(specErrs))
		return nil, specErrs
	}
	if len(root.Productions) == 0 {
		return nil, verr.SpecErrors{
			&verr.SpecError{
				Cause: synErrNoProduction,
			},
		}
	}

	tracer().Debugf("parsed %v rule lines", len(root.Productions))
	return root, nil
}

func parseLine(row int, line string) (prod *ProductionNode, retErr *verr.SpecError) {
	defer func() {
		err := recover()
		if err == nil {
			return
		}
		specErr, ok := err.(*verr.SpecError)
		if !ok {
			panic(err)
		}
		retErr = specErr
	}()

	p := &parser{
		lex: newLexer(row, line),
	}
	return p.parseProduction(), nil
}

type parser struct {
	lex       *lexer
	peekedTok *token
	lastTok   *token
}

func (p *parser) parseProduction() *ProductionNode {
	if !p.consume(tokenKindID) {
		raiseSyntaxError(p.peek().pos, synErrNoProductionName, "")
	}
	lhs := p.lastTok
	if isReserved(lhs.text) {
		raiseSyntaxError(lhs.pos, synErrReservedSymbol, lhs.text)
	}
	if p.peek().kind == tokenKindID {
		raiseSyntaxError(p.peek().pos, synErrMultipleLHSSymbols, p.peek().text)
	}
	if !p.consume(tokenKindArrow) {
		raiseSyntaxError(p.peek().pos, synErrNoArrow, "")
	}

	rhs := []*AlternativeNode{p.parseAlternative()}
	for p.consume(tokenKindOr) {
		rhs = append(rhs, p.parseAlternative())
	}
	if p.peek().kind == tokenKindArrow {
		raiseSyntaxError(p.peek().pos, synErrExtraArrow, "")
	}

	return &ProductionNode{
		LHS: lhs.text,
		RHS: rhs,
		Pos: lhs.pos,
	}
}

func (p *parser) parseAlternative() *AlternativeNode {
	alt := &AlternativeNode{
		Elements: []*ElementNode{},
		Pos:      p.peek().pos,
	}
	epsilon := false
	for p.consume(tokenKindID) {
		tok := p.lastTok
		switch tok.text {
		case SymbolNameEOF:
			raiseSyntaxError(tok.pos, synErrReservedSymbol, tok.text)
		case SymbolNameEpsilon:
			if len(alt.Elements) > 0 {
				raiseSyntaxError(tok.pos, synErrMixedEpsilon, "")
			}
			epsilon = true
			continue
		}
		if epsilon {
			raiseSyntaxError(tok.pos, synErrMixedEpsilon, "")
		}
		alt.Elements = append(alt.Elements, &ElementNode{
			ID:  tok.text,
			Pos: tok.pos,
		})
	}
	return alt
}

func (p *parser) peek() *token {
	if p.peekedTok == nil {
		p.peekedTok = p.lex.next()
	}
	return p.peekedTok
}

func (p *parser) consume(expected tokenKind) bool {
	tok := p.peek()
	if tok.kind != expected {
		return false
	}
	p.peekedTok = nil
	p.lastTok = tok
	return true
}

func isReserved(text string) bool {
	return text == SymbolNameEOF || text == SymbolNameEpsilon
}
