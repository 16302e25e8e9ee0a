package grammar

import (
	"fmt"
	"io"

	verr "github.com/nihei9/slrgen/error"
	"github.com/nihei9/slrgen/grammar/symbol"
	ast "github.com/nihei9/slrgen/spec"
	spec "github.com/nihei9/slrgen/spec/grammar"
)

// augmentedStartSuffix is appended to the start symbol to make the augmented start symbol.
const augmentedStartSuffix = "'"

type Grammar struct {
	productionSet        *productionSet
	startSymbol          symbol.Symbol
	augmentedStartSymbol symbol.Symbol
	symbolTable          *symbol.SymbolTable
}

// StartSymbol returns the LHS of the first rule.
func (g *Grammar) StartSymbol() string {
	return g.startSymbol.String()
}

func (g *Grammar) AugmentedStartSymbol() string {
	return g.augmentedStartSymbol.String()
}

// Terminals returns the terminal symbols in the order they appear first. Neither `$` nor ε is included.
func (g *Grammar) Terminals() []string {
	return g.symbolTable.Reader().TerminalTexts()
}

// NonTerminals returns the non-terminal symbols in the order they appear first. The augmented start
// symbol isn't included.
func (g *Grammar) NonTerminals() []string {
	return g.symbolTable.Reader().NonTerminalTexts()
}

// Rules returns the flat rule list. The augmented start rule is always at index 0.
func (g *Grammar) Rules() []*spec.Rule {
	prods := g.productionSet.getAllProductions()
	rules := make([]*spec.Rule, 0, len(prods))
	for _, prod := range prods {
		rules = append(rules, genRule(prod))
	}
	return rules
}

// Productions returns the rules whose LHS is lhs in the order they appear. When lhs is not a
// non-terminal, it returns nil.
func (g *Grammar) Productions(lhs string) []*spec.Rule {
	var rules []*spec.Rule
	for _, prod := range g.productionSet.getAllProductions() {
		if prod.lhs.String() != lhs {
			continue
		}
		rules = append(rules, genRule(prod))
	}
	return rules
}

func genRule(prod *production) *spec.Rule {
	rhs := make([]string, len(prod.rhs))
	for i, sym := range prod.rhs {
		rhs[i] = sym.String()
	}
	return &spec.Rule{
		Number:    prod.num.Int(),
		LHS:       prod.lhs.String(),
		RHS:       rhs,
		Augmented: prod.isStart(),
	}
}

type GrammarBuilder struct {
	AST *ast.RootNode

	errs verr.SpecErrors
}

func (b *GrammarBuilder) Build() (*Grammar, error) {
	if b.AST == nil || len(b.AST.Productions) == 0 {
		return nil, verr.SpecErrors{
			&verr.SpecError{
				Cause: semErrNoProduction,
			},
		}
	}

	startText := b.AST.Productions[0].LHS
	augStartText := startText + augmentedStartSuffix
	for _, prod := range b.AST.Productions {
		if prod.LHS == augStartText {
			b.errs = append(b.errs, &verr.SpecError{
				Cause:  semErrAugStartCollision,
				Detail: prod.LHS,
				Row:    prod.Pos.Row,
				Col:    prod.Pos.Col,
			})
		}
		for _, alt := range prod.RHS {
			for _, elem := range alt.Elements {
				if elem.ID != augStartText {
					continue
				}
				b.errs = append(b.errs, &verr.SpecError{
					Cause:  semErrAugStartCollision,
					Detail: elem.ID,
					Row:    elem.Pos.Row,
					Col:    elem.Pos.Col,
				})
			}
		}
	}
	if len(b.errs) > 0 {
		return nil, b.errs
	}

	symTab, err := b.genSymbolTable(b.AST, augStartText)
	if err != nil {
		return nil, err
	}
	if symTab == nil && len(b.errs) > 0 {
		return nil, b.errs
	}

	prods, err := b.genProductionSet(b.AST, symTab.Reader())
	if err != nil {
		return nil, err
	}

	tracer().Infof("grammar: %v rules, %v terminals, %v non-terminals", len(prods.getAllProductions()),
		len(symTab.Reader().TerminalSymbols()), len(symTab.Reader().NonTerminalSymbols()))

	return &Grammar{
		productionSet:        prods,
		startSymbol:          symbol.Symbol(startText),
		augmentedStartSymbol: symTab.Reader().StartSymbol(),
		symbolTable:          symTab,
	}, nil
}

// genSymbolTable registers every LHS as a non-terminal first, so the symbols remaining in RHSs are
// terminals.
func (b *GrammarBuilder) genSymbolTable(root *ast.RootNode, augStartText string) (*symbol.SymbolTable, error) {
	symTab := symbol.NewSymbolTable()
	w := symTab.Writer()

	_, err := w.RegisterStartSymbol(augStartText)
	if err != nil {
		return nil, err
	}

	for _, prod := range root.Productions {
		_, err := w.RegisterNonTerminalSymbol(prod.LHS)
		if err != nil {
			b.errs = append(b.errs, &verr.SpecError{
				Cause:  semErrReservedSymbol,
				Detail: prod.LHS,
				Row:    prod.Pos.Row,
				Col:    prod.Pos.Col,
			})
		}
	}
	if len(b.errs) > 0 {
		return nil, nil
	}

	for _, prod := range root.Productions {
		for _, alt := range prod.RHS {
			for _, elem := range alt.Elements {
				_, _, err := w.RegisterTerminalSymbol(elem.ID)
				if err != nil {
					b.errs = append(b.errs, &verr.SpecError{
						Cause:  semErrReservedSymbol,
						Detail: elem.ID,
						Row:    elem.Pos.Row,
						Col:    elem.Pos.Col,
					})
				}
			}
		}
	}
	if len(b.errs) > 0 {
		return nil, nil
	}

	return symTab, nil
}

func (b *GrammarBuilder) genProductionSet(root *ast.RootNode, symTab *symbol.SymbolTableReader) (*productionSet, error) {
	prods := newProductionSet()

	startSym, ok := symTab.ToSymbol(root.Productions[0].LHS)
	if !ok {
		return nil, fmt.Errorf("the start symbol is not registered: %v", root.Productions[0].LHS)
	}
	augProd, err := newProduction(symTab.StartSymbol(), []symbol.Symbol{startSym})
	if err != nil {
		return nil, err
	}
	prods.append(augProd)

	for _, prod := range root.Productions {
		lhs, ok := symTab.ToSymbol(prod.LHS)
		if !ok {
			return nil, fmt.Errorf("a symbol is not registered: %v", prod.LHS)
		}
		for _, alt := range prod.RHS {
			rhs := make([]symbol.Symbol, 0, len(alt.Elements))
			for _, elem := range alt.Elements {
				sym, ok := symTab.ToSymbol(elem.ID)
				if !ok {
					return nil, fmt.Errorf("a symbol is not registered: %v", elem.ID)
				}
				rhs = append(rhs, sym)
			}

			p, err := newProduction(lhs, rhs)
			if err != nil {
				return nil, err
			}
			if !prods.append(p) {
				tracer().Debugf("duplicate production at row %v: %v", alt.Pos.Row, prod.LHS)
			}
		}
	}

	return prods, nil
}

// Parse reads a grammar text and builds a grammar from it.
func Parse(src io.Reader) (*Grammar, error) {
	root, err := ast.Parse(src)
	if err != nil {
		return nil, err
	}
	b := &GrammarBuilder{
		AST: root,
	}
	return b.Build()
}
