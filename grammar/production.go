package grammar

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/nihei9/slrgen/grammar/symbol"
)

type productionID [32]byte

func (id productionID) String() string {
	return hex.EncodeToString(id[:])
}

func genProductionID(lhs symbol.Symbol, rhs []symbol.Symbol) productionID {
	// Symbols are arbitrary texts, so each one is terminated by a zero byte to keep `a b` and `ab` apart.
	seq := append([]byte(lhs.String()), 0)
	for _, sym := range rhs {
		seq = append(seq, []byte(sym.String())...)
		seq = append(seq, 0)
	}
	return productionID(sha256.Sum256(seq))
}

// productionNum is an index of the flat rule list. The augmented start production always has number 0,
// and the others are numbered in the order they appear in a grammar text.
type productionNum int

const productionNumStart = productionNum(0)

func (n productionNum) Int() int {
	return int(n)
}

type production struct {
	id     productionID
	num    productionNum
	lhs    symbol.Symbol
	rhs    []symbol.Symbol
	rhsLen int
}

func newProduction(lhs symbol.Symbol, rhs []symbol.Symbol) (*production, error) {
	if lhs.IsNil() {
		return nil, fmt.Errorf("LHS must be a non-nil symbol; LHS: %v, RHS: %v", lhs, rhs)
	}
	for _, sym := range rhs {
		if sym.IsNil() {
			return nil, fmt.Errorf("a symbol of RHS must be a non-nil symbol; LHS: %v, RHS: %v", lhs, rhs)
		}
		if sym == symbol.SymbolEpsilon {
			return nil, fmt.Errorf("the empty production must have an empty RHS; LHS: %v, RHS: %v", lhs, rhs)
		}
	}

	return &production{
		id:     genProductionID(lhs, rhs),
		lhs:    lhs,
		rhs:    rhs,
		rhsLen: len(rhs),
	}, nil
}

func (p *production) equals(q *production) bool {
	return q.id == p.id
}

func (p *production) isEmpty() bool {
	return p.rhsLen == 0
}

func (p *production) isStart() bool {
	return p.num == productionNumStart
}

type productionSet struct {
	lhs2Prods map[symbol.Symbol][]*production
	id2Prod   map[productionID]*production
	prods     []*production
}

func newProductionSet() *productionSet {
	return &productionSet{
		lhs2Prods: map[symbol.Symbol][]*production{},
		id2Prod:   map[productionID]*production{},
	}
}

// append numbers a production and adds it to the flat list. A production that already exists in the set
// still occupies its own number, but lookups by LHS or ID keep returning the first one.
func (ps *productionSet) append(prod *production) bool {
	prod.num = productionNum(len(ps.prods))
	ps.prods = append(ps.prods, prod)

	if _, ok := ps.id2Prod[prod.id]; ok {
		return false
	}
	ps.lhs2Prods[prod.lhs] = append(ps.lhs2Prods[prod.lhs], prod)
	ps.id2Prod[prod.id] = prod

	return true
}

func (ps *productionSet) findByID(id productionID) (*production, bool) {
	prod, ok := ps.id2Prod[id]
	return prod, ok
}

func (ps *productionSet) findByLHS(lhs symbol.Symbol) ([]*production, bool) {
	if lhs.IsNil() {
		return nil, false
	}

	prods, ok := ps.lhs2Prods[lhs]
	return prods, ok
}

// getAllProductions returns all productions in the order of their numbers.
func (ps *productionSet) getAllProductions() []*production {
	return ps.prods
}
