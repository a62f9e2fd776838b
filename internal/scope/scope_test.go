package scope

import (
	"testing"

	"github.com/fragment-lang/fragment/internal/errs"
	"github.com/fragment-lang/fragment/internal/value"
)

func TestSetGetTopFrame(t *testing.T) {
	s := New()
	s.Set("x", value.NewNumeric(5))
	got, err := s.Get("x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Num != 5 {
		t.Errorf("expected 5, got %v", got)
	}
}

func TestPushShadowsThenPopRestores(t *testing.T) {
	s := New()
	s.Set("x", value.NewNumeric(1))

	s.Push()
	s.Set("x", value.NewNumeric(2))
	got, _ := s.Get("x")
	if got.Num != 2 {
		t.Fatalf("expected shadowed value 2, got %v", got.Num)
	}
	s.Pop()

	got, _ = s.Get("x")
	if got.Num != 1 {
		t.Errorf("expected 1 after pop restored outer frame, got %v", got.Num)
	}
}

func TestDefineInsideFrameIsLocal(t *testing.T) {
	s := New()
	s.Push()
	s.Set("local", value.NewNumeric(9))
	s.Pop()

	if _, err := s.Get("local"); err == nil {
		t.Errorf("expected local definition to not survive Pop")
	}
}

func TestGetMissingNameIsInvalidState(t *testing.T) {
	s := New()
	_, err := s.Get("nope")
	if err == nil {
		t.Fatalf("expected invalid_state error for missing reference")
	}
	if ferr, ok := err.(*errs.Error); !ok || ferr.Kind != errs.InvalidState {
		t.Errorf("expected invalid_state error, got %v", err)
	}
}
