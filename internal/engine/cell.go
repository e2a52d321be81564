package engine

import (
	op "github.com/XJIeI5/keypad/internal/operation"
)

type cellKind uint8

const (
	operandCell cellKind = iota
	operatorCell
)

type cell struct {
	kind  cellKind
	value float64

	symbol string
	op     op.Operator
	rank   int
}

// workStack is the mixed operand/operator sequence of one context.
type workStack struct {
	cells []cell
	// the last cell is a closed bracket's value; the next operand
	// supplied to this context takes its place
	carried bool
}

func (ws *workStack) push(c cell) {
	ws.cells = append(ws.cells, c)
}

func (ws *workStack) supply(v float64) {
	ws.dropCarried()
	ws.push(cell{kind: operandCell, value: v})
}

func (ws *workStack) carry(v float64) {
	ws.supply(v)
	ws.carried = true
}

func (ws *workStack) dropCarried() {
	if ws.carried {
		ws.cells = ws.cells[:len(ws.cells)-1]
		ws.carried = false
	}
}

func (ws *workStack) insert(i int, c cell) {
	ws.cells = append(ws.cells, cell{})
	copy(ws.cells[i+1:], ws.cells[i:])
	ws.cells[i] = c
}

// replace swaps the n cells starting at i for c.
func (ws *workStack) replace(i, n int, c cell) {
	ws.cells[i] = c
	ws.cells = append(ws.cells[:i+1], ws.cells[i+n:]...)
}

// operandsAfter returns the n operand values directly following cell i.
func (ws *workStack) operandsAfter(i, n int) ([]float64, bool) {
	if i+n >= len(ws.cells) {
		return nil, false
	}
	args := make([]float64, n)
	for k := 0; k < n; k++ {
		c := ws.cells[i+1+k]
		if c.kind != operandCell {
			return nil, false
		}
		args[k] = c.value
	}
	return args, true
}

func (ws *workStack) last() (float64, bool) {
	if len(ws.cells) == 0 {
		return 0, false
	}
	c := ws.cells[len(ws.cells)-1]
	if c.kind != operandCell {
		return 0, false
	}
	return c.value, true
}
