package errors

import (
	"errors"
	"fmt"
)

// ParseError reports a dice term that could not be understood.
//
// Token is the term exactly as the user wrote it (sign included) so the
// presentation layer can echo it back verbatim.
type ParseError struct {
	Token  string
	Reason string
}

// NewParseError creates a parse error for the given token
func NewParseError(token, reason string) *ParseError {
	return &ParseError{Token: token, Reason: reason}
}

// Error implements the error interface
func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid dice term %q: %s", e.Token, e.Reason)
}

// Unwrap exposes the parse failure as an INVALID_ARGUMENT *Error so code and
// token survive Wrap and ToGRPCError.
func (e *ParseError) Unwrap() error {
	return InvalidArgument(e.Error()).WithMeta("token", e.Token)
}

// AsParseError finds the first ParseError in err's chain
func AsParseError(err error) (*ParseError, bool) {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
