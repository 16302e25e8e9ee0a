package spec

import "fmt"

// EmptyInputError is returned when a grammar text contains nothing but white spaces.
type EmptyInputError struct{}

func (e *EmptyInputError) Error() string {
	return "input cannot be empty"
}

type SyntaxError struct {
	message string
}

func newSyntaxError(message string) *SyntaxError {
	return &SyntaxError{
		message: message,
	}
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error: %s", e.message)
}

var (
	synErrNoProduction       = newSyntaxError("a grammar must have at least one production")
	synErrNoProductionName   = newSyntaxError("a production name is missing")
	synErrMultipleLHSSymbols = newSyntaxError("the left-hand side must be exactly one symbol")
	synErrNoArrow            = newSyntaxError("the arrow `->` must follow the left-hand side")
	synErrExtraArrow         = newSyntaxError("a rule can contain only one arrow `->`")
	synErrReservedSymbol     = newSyntaxError("the symbol is reserved")
	synErrMixedEpsilon       = newSyntaxError("ε must be the only symbol of an alternative")
)
