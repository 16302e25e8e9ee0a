package driver

import (
	"fmt"
	"io"
)

type SemanticActionSet interface {
	// Shift runs when the driver shifts a symbol onto the state stack. `tok` is a token corresponding to
	// the symbol.
	Shift(tok *Token)

	// Reduce runs when the driver reduces an RHS of a production to its LHS. `prodNum` is a number of
	// the production.
	Reduce(prodNum int)

	// Accept runs when the driver accepts an input.
	Accept()

	// MissError runs when the driver detects a syntax error. `cause` is a token that caused the error.
	// The driver stops parsing after this function returns.
	MissError(cause *Token)
}

var _ SemanticActionSet = &SyntaxTreeActionSet{}

type Node struct {
	KindName string
	Text     string
	Row      int
	Col      int
	Children []*Node
}

func PrintTree(w io.Writer, node *Node) {
	printTree(w, node, "", "")
}

func printTree(w io.Writer, node *Node, ruledLine string, childRuledLinePrefix string) {
	if node == nil {
		return
	}

	if node.Text != "" {
		fmt.Fprintf(w, "%v%v %#v\n", ruledLine, node.KindName, node.Text)
	} else {
		fmt.Fprintf(w, "%v%v\n", ruledLine, node.KindName)
	}

	num := len(node.Children)
	for i, child := range node.Children {
		var line string
		if num > 1 && i < num-1 {
			line = "├─ "
		} else {
			line = "└─ "
		}

		var prefix string
		if i >= num-1 {
			prefix = "   "
		} else {
			prefix = "│  "
		}

		printTree(w, child, childRuledLinePrefix+line, childRuledLinePrefix+prefix)
	}
}

// SyntaxTreeActionSet builds syntax trees. A CST has a node per reduction. An AST is the same tree
// except that a non-terminal node having only one child is replaced with the child.
type SyntaxTreeActionSet struct {
	gram     *grammarImpl
	makeAST  bool
	makeCST  bool
	ast      *Node
	cst      *Node
	semStack *semanticStack
}

func NewSyntaxTreeActionSet(gram *grammarImpl, makeAST bool, makeCST bool) *SyntaxTreeActionSet {
	return &SyntaxTreeActionSet{
		gram:     gram,
		makeAST:  makeAST,
		makeCST:  makeCST,
		semStack: newSemanticStack(),
	}
}

func (a *SyntaxTreeActionSet) Shift(tok *Token) {
	var ast *Node
	var cst *Node
	if a.makeAST {
		ast = &Node{
			KindName: tok.Terminal,
			Text:     tok.Text,
			Row:      tok.Row,
			Col:      tok.Col,
		}
	}
	if a.makeCST {
		cst = &Node{
			KindName: tok.Terminal,
			Text:     tok.Text,
			Row:      tok.Row,
			Col:      tok.Col,
		}
	}

	a.semStack.push(&semanticFrame{
		cst: cst,
		ast: ast,
	})
}

func (a *SyntaxTreeActionSet) Reduce(prodNum int) {
	lhs := a.gram.LHS(prodNum)

	// When an alternative is empty, `n` will be 0, and `handle` will be empty slice.
	n := a.gram.AlternativeSymbolCount(prodNum)
	handle := a.semStack.pop(n)

	var ast *Node
	var cst *Node
	if a.makeAST {
		if len(handle) == 1 {
			ast = handle[0].ast
		} else {
			children := make([]*Node, len(handle))
			for i, f := range handle {
				children[i] = f.ast
			}
			ast = &Node{
				KindName: lhs,
				Children: children,
			}
		}
	}
	if a.makeCST {
		children := make([]*Node, len(handle))
		for i, f := range handle {
			children[i] = f.cst
		}

		cst = &Node{
			KindName: lhs,
			Children: children,
		}
	}

	a.semStack.push(&semanticFrame{
		cst: cst,
		ast: ast,
	})
}

func (a *SyntaxTreeActionSet) Accept() {
	top := a.semStack.pop(1)
	a.cst = top[0].cst
	a.ast = top[0].ast
}

func (a *SyntaxTreeActionSet) MissError(cause *Token) {
}

func (a *SyntaxTreeActionSet) CST() *Node {
	return a.cst
}

func (a *SyntaxTreeActionSet) AST() *Node {
	return a.ast
}

type semanticFrame struct {
	cst *Node
	ast *Node
}

type semanticStack struct {
	frames []*semanticFrame
}

func newSemanticStack() *semanticStack {
	return &semanticStack{}
}

func (s *semanticStack) push(f *semanticFrame) {
	s.frames = append(s.frames, f)
}

func (s *semanticStack) pop(n int) []*semanticFrame {
	fs := s.frames[len(s.frames)-n:]
	s.frames = s.frames[:len(s.frames)-n]

	return fs
}
