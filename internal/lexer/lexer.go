// Package lexer implements LexStream: a byte source turned into a lazy,
// single-pass sequence of tokens.
package lexer

import (
	"iter"

	"github.com/fragment-lang/fragment/internal/errs"
	"github.com/fragment-lang/fragment/internal/token"
)

// Lexer holds the cursor over one source string. It is single-use: Tokens
// may only be ranged over once.
type Lexer struct {
	input        string
	position     int // current position in input (points to current char)
	readPosition int // current reading position (after current char)
	ch           byte
	line         int
	column       int

	started bool
	err     error
}

// New creates a Lexer over input. Positions start at (1, 1).
func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1}
	l.readChar()
	return l
}

// Err returns the error that stopped the token sequence early, if any. It
// is only meaningful once the sequence returned by Tokens has stopped
// yielding.
func (l *Lexer) Err() error { return l.err }

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++

	if l.ch == '\n' {
		l.line++
		l.column = 0
	} else {
		l.column++
	}
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

// atBoundary reports whether the current character ends a lexeme: end of
// input, whitespace, or a parenthesis (itself a one-character lexeme).
func (l *Lexer) atBoundary() bool {
	switch l.ch {
	case 0, ' ', '\t', '\n', '\r', '(', ')':
		return true
	}
	return false
}

// readLexeme reads the maximal run of non-whitespace, non-paren characters
// starting at the current character.
func (l *Lexer) readLexeme() string {
	start := l.position
	for !l.atBoundary() {
		l.readChar()
	}
	return l.input[start:l.position]
}

// readString reads a string literal starting at the opening quote,
// returning the payload with quotes stripped, and whether it was closed.
func (l *Lexer) readString() (payload string, closed bool) {
	start := l.position + 1 // skip opening quote
	l.readChar()
	for l.ch != '"' && l.ch != 0 {
		l.readChar()
	}
	payload = l.input[start:l.position]
	if l.ch != '"' {
		return payload, false
	}
	l.readChar() // consume closing quote
	return payload, true
}

var keywords = map[string]bool{"define": true, "lambda": true, "if": true}

var operations = map[string]bool{
	"+": true, "-": true, "*": true, "/": true,
	">": true, "<": true, "=": true, ">=": true, "<=": true,
	"&&": true, "||": true, "!": true,
}

func classify(lexeme string) token.Type {
	switch {
	case lexeme == "true" || lexeme == "false":
		return token.BOOLEAN
	case keywords[lexeme]:
		return token.KEYWORD
	case operations[lexeme]:
		return token.OPERATION
	case lexeme == "%%":
		return token.COMMENT
	default:
		return token.REFERENCE
	}
}

// isNumeric reports whether lexeme is digits with at most one '.'.
func isNumeric(lexeme string) bool {
	dots := 0
	for i := 0; i < len(lexeme); i++ {
		switch {
		case lexeme[i] == '.':
			dots++
			if dots > 1 {
				return false
			}
		case lexeme[i] < '0' || lexeme[i] > '9':
			return false
		}
	}
	return true
}

func startsWithDigit(lexeme string) bool {
	return len(lexeme) > 0 && lexeme[0] >= '0' && lexeme[0] <= '9'
}

// Tokens returns the lazy token sequence, terminated by a single EOF
// token. It may only be ranged over once; a second attempt surfaces a
// double_read error through Err and yields no tokens.
func (l *Lexer) Tokens() iter.Seq[token.Token] {
	return func(yield func(token.Token) bool) {
		if l.started {
			l.err = errs.NewUnpositioned(errs.DoubleRead, "lex stream has already been consumed")
			return
		}
		l.started = true

		for {
			l.skipWhitespace()
			pos := token.Position{Line: l.line, Column: l.column}

			switch {
			case l.ch == 0:
				yield(token.Token{Type: token.EOF, Position: pos})
				return

			case l.ch == '(':
				l.readChar()
				if !yield(token.Token{Type: token.DELIMITER, Literal: "(", Position: pos}) {
					return
				}

			case l.ch == ')':
				l.readChar()
				if !yield(token.Token{Type: token.DELIMITER, Literal: ")", Position: pos}) {
					return
				}

			case l.ch == '"':
				payload, closed := l.readString()
				if !closed {
					l.err = errs.New(errs.InvalidLexeme, pos, "unterminated string literal")
					return
				}
				if !yield(token.Token{Type: token.STRING_LITERAL, Literal: payload, Position: pos}) {
					return
				}

			default:
				lexeme := l.readLexeme()
				if startsWithDigit(lexeme) && !isNumeric(lexeme) {
					l.err = errs.New(errs.InvalidLexeme, pos, "malformed numeric lexeme %q", lexeme)
					return
				}
				typ := token.NUMERIC
				if !startsWithDigit(lexeme) {
					typ = classify(lexeme)
				}
				if !yield(token.Token{Type: typ, Literal: lexeme, Position: pos}) {
					return
				}
			}
		}
	}
}
