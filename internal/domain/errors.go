package domain

import "errors"

// Domain errors. Data-quality problems with tax parameters are never recovered
// locally: the simulation must not proceed with a malformed table.
var (
	// ErrInvalidBracketTable is returned for empty, non-contiguous or negative-deduction tables.
	ErrInvalidBracketTable = errors.New("invalid bracket table")

	// ErrInvalidParameters is returned when a rate or threshold is out of range.
	ErrInvalidParameters = errors.New("invalid tax parameters")

	// ErrInvalidConfig is returned for an unusable per-unit tax configuration.
	ErrInvalidConfig = errors.New("invalid tax config")

	// ErrUnknownDirection is returned when a ledger entry is neither credit nor debit.
	ErrUnknownDirection = errors.New("unknown entry direction")

	// ErrInvalidReference is returned for a malformed reference month.
	ErrInvalidReference = errors.New("invalid reference month")
)

// ParameterError describes which parameter field failed validation
type ParameterError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParameterError) Error() string {
	msg := e.Field + ": " + e.Message
	if e.Err != nil {
		return e.Err.Error() + ": " + msg
	}
	return msg
}

// Unwrap returns the underlying sentinel error
func (e *ParameterError) Unwrap() error {
	return e.Err
}

// NewBracketError creates a ParameterError wrapping ErrInvalidBracketTable
func NewBracketError(field, message string) *ParameterError {
	return &ParameterError{Field: field, Message: message, Err: ErrInvalidBracketTable}
}

// NewParameterError creates a ParameterError wrapping ErrInvalidParameters
func NewParameterError(field, message string) *ParameterError {
	return &ParameterError{Field: field, Message: message, Err: ErrInvalidParameters}
}
