// Package session ties the engine and the display together and turns
// keypad events into calls on both.
package session

import (
	"fmt"

	"github.com/XJIeI5/keypad/internal/display"
	"github.com/XJIeI5/keypad/internal/engine"
	op "github.com/XJIeI5/keypad/internal/operation"
)

// Session is one calculator: an engine, the expression text and the
// operand being entered. It is not safe for concurrent use.
type Session struct {
	reg     *op.Registry
	engine  *engine.Engine
	display *display.Display
	operand entry

	finished bool
	// the last evaluation, valid when finished
	result float64
}

func New(reg *op.Registry) *Session {
	return &Session{
		reg:     reg,
		engine:  engine.New(reg),
		display: display.New(),
		operand: newEntry(),
	}
}

// Operand is the text of the main display line.
func (s *Session) Operand() string { return s.operand.text }

// Expression is the text of the expression line.
func (s *Session) Expression() string { return s.display.String() }

// Finished reports whether the last key was a successful "=".
func (s *Session) Finished() bool { return s.finished }

// Result is the value of the last evaluation.
func (s *Session) Result() (float64, bool) { return s.result, s.finished }

// Depth is the number of open brackets plus one.
func (s *Session) Depth() int { return s.engine.Depth() }

// Press handles a single key: a digit, ".", a bracket, "=", one of the
// command keys, or an operator symbol.
func (s *Session) Press(key string) error {
	switch key {
	case op.KeyPoint:
		s.Point()
	case op.KeyOpen:
		s.OpenBracket()
	case op.KeyClose:
		s.CloseBracket()
	case op.KeyEquals:
		s.Equals()
	case op.KeyClear:
		s.Clear()
	case op.KeyClearAll:
		s.ClearAll()
	case op.KeyDelete:
		s.DeleteLast()
	default:
		if len(key) == 1 && key[0] >= '0' && key[0] <= '9' {
			s.Digit(rune(key[0]))
			return nil
		}
		return s.Operator(key)
	}
	return nil
}

// PressAll handles keys in order and stops at the first error.
func (s *Session) PressAll(keys []string) error {
	for _, k := range keys {
		if err := s.Press(k); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) Digit(d rune) {
	if s.finished {
		s.ClearAll()
	}
	if s.operand.fresh {
		s.display.NewOperand()
	}
	s.operand.digit(d)
}

func (s *Session) Point() {
	if s.finished {
		s.ClearAll()
	}
	if s.operand.fresh {
		s.display.NewOperand()
	}
	s.operand.point()
}

// Operator applies the operator bound to key. Unary operators act on the
// operand at once; binary ones go through the engine.
func (s *Session) Operator(key string) error {
	o, err := s.reg.Lookup(key)
	if err != nil {
		return err
	}
	if s.finished {
		// keep going from the result on a fresh engine
		v := s.result
		s.ClearAll()
		s.operand.set(v)
	}

	x, text := s.operand.value(), s.operand.String()
	switch t := o.(type) {
	case op.UnaryOperator:
		v, err := s.engine.Apply(key, x)
		if err != nil {
			return err
		}
		s.display.AppendUnary(t, text)
		s.operand.set(v)
	case op.BinaryOperator:
		idx, err := s.engine.InsertOperator(key, x)
		if err != nil {
			return err
		}
		v, _ := s.engine.ReduceFrom(idx)
		s.display.AppendBinary(t, text)
		s.operand.set(v)
	default:
		return fmt.Errorf("operator %q has arity %d", key, o.Arity())
	}
	return nil
}

func (s *Session) OpenBracket() {
	if s.finished {
		s.ClearAll()
	}
	s.engine.OpenContext()
	s.display.OpenBracket()
	s.operand = newEntry()
}

// CloseBracket is a no-op when no bracket is open.
func (s *Session) CloseBracket() {
	if s.finished || s.engine.Depth() <= 1 {
		return
	}
	x, text := s.operand.value(), s.operand.String()
	v, ok := s.engine.CloseContext(x)
	s.display.CloseBracket(text)
	if !ok {
		return
	}
	s.operand.set(v)
}

// Equals closes any open brackets and evaluates. With no operator applied
// yet it does nothing, as does pressing it again after a result.
func (s *Session) Equals() {
	if s.finished || !s.display.Applied() {
		return
	}
	for s.engine.Depth() > 1 {
		s.CloseBracket()
	}
	x, text := s.operand.value(), s.operand.String()
	v, ok := s.engine.Solve(x)
	if !ok {
		return
	}
	s.display.Resolve(text)
	s.operand.set(v)
	s.result = v
	s.finished = true
}

// Clear resets the operand being typed only.
func (s *Session) Clear() {
	s.display.NewOperand()
	s.operand = newEntry()
}

// ClearAll resets engine, display and operand together.
func (s *Session) ClearAll() {
	s.engine = engine.New(s.reg)
	s.display.Reset()
	s.operand = newEntry()
	s.finished = false
	s.result = 0
}

func (s *Session) DeleteLast() {
	if s.finished {
		return
	}
	s.display.NewOperand()
	s.operand.deleteLast()
}
