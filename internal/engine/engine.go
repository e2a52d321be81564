// Package engine evaluates operator/operand input incrementally.
//
// Each bracket depth owns a work stack of cells. An operator cell sits in
// front of the operands it consumes, so a binary operator is followed by
// its left and then its right operand. New operators are spliced in
// according to precedence and the affected suffix is reduced right to left.
package engine

import (
	"fmt"

	op "github.com/XJIeI5/keypad/internal/operation"
	"github.com/informitas/stack"
)

// Engine holds one stack of work stacks. The outermost context is never
// popped.
type Engine struct {
	reg      *op.Registry
	contexts *stack.Stack[*workStack]
}

func New(reg *op.Registry) *Engine {
	e := &Engine{
		reg:      reg,
		contexts: stack.NewStack[*workStack](),
	}
	e.contexts.Push(&workStack{})
	return e
}

func (e *Engine) active() *workStack {
	ws, _ := e.contexts.Top()
	return ws
}

// Depth is the number of contexts, 1 when no bracket is open.
func (e *Engine) Depth() int {
	return e.contexts.Size()
}

// Result reports the last value of the active context.
func (e *Engine) Result() (float64, bool) {
	return e.active().last()
}

// PushOperand appends a numeric cell to the active context.
func (e *Engine) PushOperand(value float64) {
	e.active().supply(value)
}

// InsertOperator splices the binary operator bound to symbol into the
// active context and pushes pending as the right operand of whatever
// operator was waiting for it. The returned index is where reduction
// should start.
func (e *Engine) InsertOperator(symbol string, pending float64) (int, error) {
	o, err := e.reg.Lookup(symbol)
	if err != nil {
		return 0, err
	}
	rank, err := e.reg.Priority(symbol)
	if err != nil {
		return 0, err
	}

	ws := e.active()
	ws.dropCarried()
	index := len(ws.cells)
	for i := len(ws.cells) - 1; i >= 0; i-- {
		c := ws.cells[i]
		if c.kind != operatorCell {
			continue
		}
		// an operator that binds looser has to wait for the new one
		if rank > c.rank {
			break
		}
		index = i
	}

	ws.insert(index, cell{kind: operatorCell, symbol: symbol, op: o, rank: rank})
	ws.supply(pending)
	return index, nil
}

// ReduceFrom reduces the active context from its end down to start and
// returns the last cell's value. An operator sitting at start without all
// of its operands is left waiting. ok is false when the context holds no
// operand to report.
func (e *Engine) ReduceFrom(start int) (float64, bool) {
	ws := e.active()
	if start < 0 {
		start = 0
	}
	for i := len(ws.cells) - 1; i >= start; i-- {
		c := ws.cells[i]
		if c.kind != operatorCell {
			continue
		}
		args, ok := ws.operandsAfter(i, c.op.Arity())
		if !ok {
			if i == start {
				break
			}
			continue
		}
		ws.replace(i, c.op.Arity()+1, cell{kind: operandCell, value: apply(c.op, args)})
	}
	return ws.last()
}

// Apply evaluates a unary operator on value without touching any context.
func (e *Engine) Apply(symbol string, value float64) (float64, error) {
	o, err := e.reg.Lookup(symbol)
	if err != nil {
		return 0, err
	}
	u, ok := o.(op.UnaryOperator)
	if !ok {
		return 0, fmt.Errorf("%w: %q", op.ErrNotUnary, symbol)
	}
	return u.Exec(value), nil
}

// OpenContext starts a fresh context one bracket deeper.
func (e *Engine) OpenContext() {
	e.contexts.Push(&workStack{})
}

// CloseContext finishes the active context with final, pops it and carries
// its value into the enclosing context. ok is false when no bracket is
// open or the context could not be reduced to a value.
func (e *Engine) CloseContext(final float64) (float64, bool) {
	if e.Depth() <= 1 {
		return 0, false
	}
	v, ok := e.Solve(final)
	e.contexts.Pop()
	if ok {
		e.active().carry(v)
	}
	return v, ok
}

// Solve supplies final and reduces the whole active context. Closing
// brackets beforehand is up to the caller. ok is false when there is
// nothing to resolve.
func (e *Engine) Solve(final float64) (float64, bool) {
	ws := e.active()
	ws.supply(final)
	v, ok := e.ReduceFrom(0)
	if !ok || len(ws.cells) != 1 {
		return 0, false
	}
	return v, true
}

func apply(o op.Operator, args []float64) float64 {
	switch t := o.(type) {
	case op.BinaryOperator:
		return t.Exec(args[0], args[1])
	case op.UnaryOperator:
		return t.Exec(args[0])
	default:
		panic(fmt.Sprintf("operator %q has arity %d", o.Name(), o.Arity()))
	}
}
