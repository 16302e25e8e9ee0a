package grammar

type SemanticError struct {
	message string
}

func newSemanticError(message string) *SemanticError {
	return &SemanticError{
		message: message,
	}
}

func (e *SemanticError) Error() string {
	return e.message
}

var (
	semErrNoProduction      = newSemanticError("a grammar needs at least one production")
	semErrAugStartCollision = newSemanticError("the name of the augmented start symbol is reserved")
	semErrReservedSymbol    = newSemanticError("a reserved symbol cannot be used as a non-terminal")
)
