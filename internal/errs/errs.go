// Package errs defines the typed diagnostic sum every pipeline stage
// reports through. No stage recovers from an error internally; each
// propagates it unchanged to the driver, which prints one diagnostic and
// exits (see cmd/fragment).
package errs

import (
	"fmt"

	"github.com/fragment-lang/fragment/internal/token"
)

// Kind is the closed taxonomy from the interpreter's error design.
type Kind int

const (
	// IOFailure means the input file could not be opened, or a
	// standard-library read from standard input failed.
	IOFailure Kind = iota
	// InvalidLexeme means the lexer could not classify input: an
	// unterminated string or a malformed numeric lexeme.
	InvalidLexeme
	// DoubleRead means a lex stream was iterated more than once.
	DoubleRead
	// InvalidBlock means a top-level form didn't start with '(', or a
	// form was left unclosed at end of input.
	InvalidBlock
	// InvalidExpression means arity mismatch, unknown keyword/operator,
	// a non-reference in a binding position, or a non-function callee.
	InvalidExpression
	// InvalidState means a reference name was not found in any scope
	// frame.
	InvalidState
	// NotImplemented means an operator was applied to an incompatible
	// pair of value kinds, or a standard-library function was called
	// with the wrong arity.
	NotImplemented
)

var kindStrings = [...]string{
	IOFailure:         "io_failure",
	InvalidLexeme:     "invalid_lexeme",
	DoubleRead:        "double_read",
	InvalidBlock:      "invalid_block",
	InvalidExpression: "invalid_expression",
	InvalidState:      "invalid_state",
	NotImplemented:    "not_implemented",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindStrings) {
		return kindStrings[k]
	}
	return "unknown"
}

// Error is the unified error type every stage of the pipeline returns.
// Position is token.Invalid when no source position applies (e.g.
// io_failure, or a not_implemented raised purely from value arithmetic).
type Error struct {
	Kind     Kind
	Message  string
	Position token.Position
}

func New(kind Kind, position token.Position, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Position: position}
}

// Without a position, for errors that have none (e.g. io_failure).
func NewUnpositioned(kind Kind, format string, args ...any) *Error {
	return New(kind, token.Invalid, format, args...)
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s at %s", e.Kind, e.Message, e.Position)
}
