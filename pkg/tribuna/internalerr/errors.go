package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrDataUnavailable  = errors.New("corpus data unavailable")
	ErrModelUnavailable = errors.New("model unavailable")
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrEvalInputMissing = errors.New("evaluation input missing")
)
