// Package block implements BlockStream: a token sequence turned into a
// lazy sequence of block trees, one per top-level parenthesized form.
package block

import (
	"iter"

	"github.com/fragment-lang/fragment/internal/errs"
	"github.com/fragment-lang/fragment/internal/token"
)

// Element is one entry of a Block: either a leaf Token or a nested Block.
// Exactly one of the two fields is non-nil/non-zero.
type Element struct {
	Token token.Token
	Block *Block
}

// IsBlock reports whether this element wraps a sub-block rather than a
// token.
func (e Element) IsBlock() bool { return e.Block != nil }

// Block is an ordered heterogeneous sequence of tokens and sub-blocks,
// plus the position of its opening delimiter. The outer list never
// contains the opening or closing delimiter token itself.
type Block struct {
	Elements []Element
	Position token.Position
}

// eofSentinel builds the block emitted once at the end of the block stream:
// a single element wrapping an end_of_file token.
func eofSentinel(pos token.Position) *Block {
	return &Block{
		Elements: []Element{{Token: token.Token{Type: token.EOF, Position: pos}}},
		Position: pos,
	}
}

// IsEOFSentinel reports whether b is the top-level end-of-input sentinel.
func (b *Block) IsEOFSentinel() bool {
	return len(b.Elements) == 1 && !b.Elements[0].IsBlock() && b.Elements[0].Token.Type == token.EOF
}

// Stream pulls one token at a time from an underlying token sequence and
// groups them into block trees.
type Stream struct {
	next func() (token.Token, bool)
	stop func()

	current token.Token
	atEOF   bool

	err error
}

// New wraps a token sequence (typically lexer.Lexer.Tokens()) for block
// parsing.
func New(tokens iter.Seq[token.Token]) *Stream {
	s := &Stream{}
	s.next, s.stop = iter.Pull(tokens)
	s.advance()
	return s
}

// Err returns the error that stopped the block sequence early, if any.
func (s *Stream) Err() error { return s.err }

func (s *Stream) advance() {
	tok, ok := s.next()
	if !ok {
		s.current = token.Token{Type: token.EOF, Position: s.current.Position}
		s.atEOF = true
		return
	}
	s.current = tok
	s.atEOF = tok.Type == token.EOF
}

// Blocks returns the lazy block sequence, terminated by a single sentinel
// end-of-input block. Each top-level block must begin with '('.
func (s *Stream) Blocks() iter.Seq[*Block] {
	return func(yield func(*Block) bool) {
		defer s.stop()

		for {
			if s.atEOF {
				yield(eofSentinel(s.current.Position))
				return
			}

			if s.current.Type == token.COMMENT {
				s.advance()
				continue
			}

			if s.current.Type != token.DELIMITER || s.current.Literal != "(" {
				s.err = errs.New(errs.InvalidBlock, s.current.Position,
					"top-level expressions must begin with '(', got %s", s.current.Type)
				return
			}

			b, err := s.parseBlock()
			if err != nil {
				s.err = err
				return
			}
			if !yield(b) {
				return
			}
		}
	}
}

// parseBlock parses one parenthesized form; s.current must be the opening
// '(' on entry. On return, s.current is the token just past the matching
// ')'.
func (s *Stream) parseBlock() (*Block, error) {
	openPos := s.current.Position
	s.advance() // consume '('

	b := &Block{Position: openPos}

	for {
		switch {
		case s.atEOF:
			return nil, errs.New(errs.InvalidBlock, openPos, "unclosed form: reached end of input before ')'")

		case s.current.Type == token.DELIMITER && s.current.Literal == "(":
			child, err := s.parseBlock()
			if err != nil {
				return nil, err
			}
			b.Elements = append(b.Elements, Element{Block: child})

		case s.current.Type == token.DELIMITER && s.current.Literal == ")":
			s.advance() // consume ')'
			return b, nil

		case s.current.Type == token.COMMENT:
			s.advance()

		default:
			b.Elements = append(b.Elements, Element{Token: s.current})
			s.advance()
		}
	}
}
