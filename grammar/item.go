package grammar

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"

	"github.com/cnf/structhash"

	"github.com/nihei9/slrgen/grammar/symbol"
)

type lrItemID [20]byte

func (id lrItemID) String() string {
	return hex.EncodeToString(id[:4])
}

// lrItemFingerprint is the hashed form of an item. Two items are the same iff their LHS, RHS, and dot
// are the same.
type lrItemFingerprint struct {
	LHS string
	RHS []string
	Dot int
}

func genLRItemID(prod *production, dot int) lrItemID {
	rhs := make([]string, len(prod.rhs))
	for i, sym := range prod.rhs {
		rhs[i] = sym.String()
	}
	var id lrItemID
	copy(id[:], structhash.Sha1(lrItemFingerprint{
		LHS: prod.lhs.String(),
		RHS: rhs,
		Dot: dot,
	}, 1))
	return id
}

type lrItem struct {
	id   lrItemID
	prod productionID

	// E → E + T
	//
	// Dot | Dotted Symbol | Item
	// ----+---------------+------------
	// 0   | E             | E →・E + T
	// 1   | +             | E → E・+ T
	// 2   | T             | E → E +・T
	// 3   | Nil           | E → E + T・
	dot          int
	dottedSymbol symbol.Symbol

	// When initial is true, the LHS of the production is the augmented start symbol and dot is 0.
	// It looks like S' →・S.
	initial bool

	// When reducible is true, the item looks like E → E + T・.
	reducible bool

	// When accepting is true, the item looks like S' → S・.
	accepting bool
}

func newLR0Item(prod *production, dot int) (*lrItem, error) {
	if prod == nil {
		return nil, fmt.Errorf("production must be non-nil")
	}

	if dot < 0 || dot > prod.rhsLen {
		return nil, fmt.Errorf("dot must be between 0 and %v", prod.rhsLen)
	}

	dottedSymbol := symbol.SymbolNil
	if dot < prod.rhsLen {
		dottedSymbol = prod.rhs[dot]
	}

	return &lrItem{
		id:           genLRItemID(prod, dot),
		prod:         prod.id,
		dot:          dot,
		dottedSymbol: dottedSymbol,
		initial:      prod.isStart() && dot == 0,
		reducible:    dot == prod.rhsLen,
		accepting:    prod.isStart() && dot == prod.rhsLen,
	}, nil
}

// advance returns the item whose dot is moved one symbol to the right.
func (item *lrItem) advance(prods *productionSet) (*lrItem, error) {
	prod, ok := prods.findByID(item.prod)
	if !ok {
		return nil, fmt.Errorf("a production was not found: %v", item.prod)
	}
	return newLR0Item(prod, item.dot+1)
}

// stateID identifies an item set regardless of the order of its items.
type stateID [32]byte

func (id stateID) String() string {
	return hex.EncodeToString(id[:4])
}

func genStateID(items []*lrItem) stateID {
	ids := make([]lrItemID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return bytes.Compare(ids[i][:], ids[j][:]) < 0
	})

	b := []byte{}
	var prev *lrItemID
	for i := range ids {
		if prev != nil && *prev == ids[i] {
			continue
		}
		b = append(b, ids[i][:]...)
		prev = &ids[i]
	}
	return stateID(sha256.Sum256(b))
}

type stateNum int

const stateNumInitial = stateNum(0)

func (n stateNum) Int() int {
	return int(n)
}

func (n stateNum) String() string {
	return strconv.Itoa(int(n))
}

func (n stateNum) next() stateNum {
	return stateNum(n + 1)
}

type lrState struct {
	id    stateID
	num   stateNum
	items []*lrItem

	// next maps a symbol to the state reached by reading the symbol. nextSyms holds the same symbols in
	// the order they first appear after a dot.
	next     map[symbol.Symbol]stateNum
	nextSyms []symbol.Symbol
}
