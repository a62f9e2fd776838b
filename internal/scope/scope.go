// Package scope implements the lexical scope stack Fragment programs
// evaluate against: a stack of frames, the bottom one global, each a
// name-to-value mapping.
package scope

import (
	"github.com/fragment-lang/fragment/internal/errs"
	"github.com/fragment-lang/fragment/internal/value"
)

// Scope is the frame stack. It is shared by reference: a lambda closes
// over the *Scope it was evaluated in and looks names up in it when it is
// called, so it sees the bindings live at call time, not a snapshot taken
// at definition time (see DESIGN.md's resolution of the source's
// closure-capture open question).
type Scope struct {
	frames []map[string]value.Value
}

// New creates a Scope with a single global frame. The caller is
// responsible for registering the standard library into it before
// evaluation begins.
func New() *Scope {
	s := &Scope{}
	s.Push()
	return s
}

// Push appends a new, empty frame.
func (s *Scope) Push() {
	s.frames = append(s.frames, make(map[string]value.Value))
}

// Pop removes the top frame. Calling Pop on an empty frame stack is a
// programmer error in the evaluator, not a Fragment program error, and
// panics.
func (s *Scope) Pop() {
	if len(s.frames) == 0 {
		panic("scope: Pop on an empty frame stack")
	}
	s.frames = s.frames[:len(s.frames)-1]
}

// Set writes name to value in the top frame unconditionally (so `define`
// inside a function body is local to that call) and returns the value.
func (s *Scope) Set(name string, v value.Value) value.Value {
	s.frames[len(s.frames)-1][name] = v
	return v
}

// Get searches frames top-to-bottom and returns the first match. If no
// frame contains name, it raises invalid_state.
func (s *Scope) Get(name string) (value.Value, error) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if v, ok := s.frames[i][name]; ok {
			return v, nil
		}
	}
	return value.Value{}, errs.NewUnpositioned(errs.InvalidState,
		"unable to find a reference with name %q in any scope", name)
}

// Depth reports how many frames are currently on the stack (for tests).
func (s *Scope) Depth() int { return len(s.frames) }
