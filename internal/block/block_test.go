package block

import (
	"strings"
	"testing"

	"github.com/fragment-lang/fragment/internal/lexer"
)

func collectBlocks(input string) ([]*Block, error) {
	l := lexer.New(input)
	s := New(l.Tokens())
	blocks := []*Block{}
	for b := range s.Blocks() {
		blocks = append(blocks, b)
	}
	if s.Err() != nil {
		return blocks, s.Err()
	}
	if l.Err() != nil {
		return blocks, l.Err()
	}
	return blocks, nil
}

func TestBlockStream_SimpleForm(t *testing.T) {
	blocks, err := collectBlocks(`(+ 1 2)`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(blocks) != 2 {
		t.Fatalf("expected 1 block plus sentinel, got %d", len(blocks))
	}
	top := blocks[0]
	if len(top.Elements) != 3 {
		t.Fatalf("expected 3 elements in (+ 1 2), got %d", len(top.Elements))
	}
	if top.Elements[0].Token.Literal != "+" {
		t.Errorf("expected first element '+', got %+v", top.Elements[0])
	}
	if !blocks[1].IsEOFSentinel() {
		t.Errorf("expected final block to be the EOF sentinel")
	}
}

func TestBlockStream_Nested(t *testing.T) {
	blocks, err := collectBlocks(`(define x (lambda (n) n))`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	top := blocks[0]
	if len(top.Elements) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(top.Elements))
	}
	if !top.Elements[2].IsBlock() {
		t.Fatalf("expected third element to be a nested block")
	}
}

func TestBlockStream_EmptySource(t *testing.T) {
	blocks, err := collectBlocks("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(blocks) != 1 || !blocks[0].IsEOFSentinel() {
		t.Fatalf("expected only the EOF sentinel, got %+v", blocks)
	}
}

func TestBlockStream_EmptyParens(t *testing.T) {
	blocks, err := collectBlocks("()")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(blocks[0].Elements) != 0 {
		t.Fatalf("expected a size-0 block, got %d elements", len(blocks[0].Elements))
	}
}

func TestBlockStream_UnclosedForm(t *testing.T) {
	_, err := collectBlocks("(+ 1")
	if err == nil || !strings.Contains(err.Error(), "unclosed") {
		t.Fatalf("expected an unclosed-form error, got %v", err)
	}
}

func TestBlockStream_TopLevelMustStartWithParen(t *testing.T) {
	_, err := collectBlocks("foo")
	if err == nil || !strings.Contains(err.Error(), "must begin with") {
		t.Fatalf("expected a top-level error, got %v", err)
	}
}

func TestBlockStream_StrayCloseParen(t *testing.T) {
	_, err := collectBlocks(")")
	if err == nil {
		t.Fatalf("expected an error for a stray ')'")
	}
}
