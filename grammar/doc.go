// Package grammar builds an SLR(1) parsing table from the AST of a grammar text.
//
// A grammar is extended with the augmented start production S' → S, numbered 0. Compile computes the
// canonical LR(0) collection, FIRST and FOLLOW sets, and fills the ACTION and GOTO tables. Conflicts
// never make Compile fail: a shift always wins against a reduce, and a later reduce replaces an earlier
// one. Every resolved conflict is recorded in the description.
package grammar

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'slrgen.grammar'.
func tracer() tracing.Trace {
	return tracing.Select("slrgen.grammar")
}
