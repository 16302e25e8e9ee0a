package driver

import (
	"errors"
	"fmt"
	"io"
	"strings"

	mlcompiler "github.com/nihei9/maleeni/compiler"
	mldriver "github.com/nihei9/maleeni/driver"
	mlspec "github.com/nihei9/maleeni/spec"
)

const (
	lexSpecName       = "slrgen"
	lexKindWhiteSpace = "white_space"
)

// Token is a terminal symbol read from an input. Row and Col are 0-based.
type Token struct {
	Terminal string
	Text     string
	Row      int
	Col      int
	EOF      bool
	Invalid  bool
}

type TokenStream interface {
	Next() (*Token, error)
}

type tokenStream struct {
	lex          *mldriver.Lexer
	kindNames    []mlspec.LexKindName
	kindToTermID []int
	terms        []string
	eof          string
}

// NewTokenStream makes a stream splitting an input into the terminals of a grammar. Each terminal matches
// its own text literally, and white spaces between tokens are skipped. Like the lexer, when some
// terminals match at the same position, the longest one wins.
func NewTokenStream(g *grammarImpl, src io.Reader) (TokenStream, error) {
	terms := g.Terminals()
	entries := make([]*mlspec.LexEntry, 0, len(terms)+1)
	kindToTerm := map[string]int{}
	for i, term := range terms {
		kind := fmt.Sprintf("term_%v", i)
		kindToTerm[kind] = i
		entries = append(entries, &mlspec.LexEntry{
			Kind:    mlspec.LexKindName(kind),
			Pattern: mlspec.LexPattern(mlspec.EscapePattern(term)),
		})
	}
	entries = append(entries, &mlspec.LexEntry{
		Kind:    mlspec.LexKindName(lexKindWhiteSpace),
		Pattern: mlspec.LexPattern(`[\u{0009}\u{000A}\u{000D}\u{0020}]+`),
	})

	clspec, err, cErrs := mlcompiler.Compile(&mlspec.LexSpec{
		Name:    lexSpecName,
		Entries: entries,
	}, mlcompiler.CompressionLevel(mlcompiler.CompressionLevelMax))
	if err != nil {
		if len(cErrs) > 0 {
			var b strings.Builder
			writeCompileError(&b, cErrs[0])
			for _, cerr := range cErrs[1:] {
				fmt.Fprintf(&b, "\n")
				writeCompileError(&b, cerr)
			}
			return nil, errors.New(b.String())
		}
		return nil, err
	}

	// -1 marks the nil kind and the white space kind. Neither becomes a terminal.
	kindToTermID := make([]int, len(clspec.KindNames))
	for i, k := range clspec.KindNames {
		id, ok := kindToTerm[k.String()]
		if !ok {
			kindToTermID[i] = -1
			continue
		}
		kindToTermID[i] = id
	}

	lex, err := mldriver.NewLexer(mldriver.NewLexSpec(clspec), src)
	if err != nil {
		return nil, err
	}

	tracer().Debugf("token stream: %v kinds", len(clspec.KindNames))

	return &tokenStream{
		lex:          lex,
		kindNames:    clspec.KindNames,
		kindToTermID: kindToTermID,
		terms:        terms,
		eof:          g.EOF(),
	}, nil
}

func (s *tokenStream) Next() (*Token, error) {
	for {
		tok, err := s.lex.Next()
		if err != nil {
			return nil, err
		}
		switch {
		case tok.EOF:
			return &Token{
				Terminal: s.eof,
				Row:      tok.Row,
				Col:      tok.Col,
				EOF:      true,
			}, nil
		case tok.Invalid:
			return &Token{
				Text:    string(tok.Lexeme),
				Row:     tok.Row,
				Col:     tok.Col,
				Invalid: true,
			}, nil
		}
		kindID := int(tok.KindID)
		if kindID < 0 || kindID >= len(s.kindToTermID) {
			return nil, fmt.Errorf("an unknown lexical kind: %v", kindID)
		}
		if s.kindNames[kindID].String() == lexKindWhiteSpace {
			continue
		}
		id := s.kindToTermID[kindID]
		if id < 0 {
			return nil, fmt.Errorf("a lexical kind has no terminal: %v", s.kindNames[kindID])
		}
		return &Token{
			Terminal: s.terms[id],
			Text:     string(tok.Lexeme),
			Row:      tok.Row,
			Col:      tok.Col,
		}, nil
	}
}

func writeCompileError(w io.Writer, cErr *mlcompiler.CompileError) {
	if cErr.Fragment {
		fmt.Fprintf(w, "fragment ")
	}
	fmt.Fprintf(w, "%v: %v", cErr.Kind, cErr.Cause)
	if cErr.Detail != "" {
		fmt.Fprintf(w, ": %v", cErr.Detail)
	}
}
