// Package display renders the expression entered so far as text.
package display

import (
	"strings"

	op "github.com/XJIeI5/keypad/internal/operation"
)

type kind uint8

const (
	binaryFragment kind = iota
	unaryFragment
	openFragment
	closeFragment
	operandFragment
	resolveFragment
)

type fragment struct {
	kind kind
	text string
}

// application remembers the last operator applied and the fragment its
// rendering starts at.
type application struct {
	arity int
	start int
}

// Display is a sequence of fragments joined by single spaces.
type Display struct {
	fragments []fragment
	last      *application
	// the current operand is already visible, as the value of a unary
	// application or a closed bracket
	shown bool
	// some operator was applied since the last reset
	applied bool
}

func New() *Display {
	return &Display{}
}

func (d *Display) String() string {
	parts := make([]string, len(d.fragments))
	for i, f := range d.fragments {
		parts[i] = f.text
	}
	return strings.Join(parts, " ")
}

// Applied reports whether any operator has been committed. Brackets alone
// leave nothing to evaluate.
func (d *Display) Applied() bool {
	return d.applied
}

// offset is the byte offset in String() where fragment i begins.
func (d *Display) offset(i int) int {
	n := 0
	for _, f := range d.fragments[:i] {
		n += len(f.text) + 1
	}
	return n
}

// lastStart is the offset at which the last applied operator's rendering
// begins, or -1 if there is none.
func (d *Display) lastStart() int {
	if d.last == nil {
		return -1
	}
	return d.offset(d.last.start)
}

func (d *Display) add(k kind, text string) int {
	d.fragments = append(d.fragments, fragment{kind: k, text: text})
	return len(d.fragments) - 1
}

// AppendBinary commits "<left> <infix>". The left operand is left out when
// it is already on screen.
func (d *Display) AppendBinary(o op.BinaryOperator, left string) {
	if d.shown {
		left = ""
	}
	i := d.add(binaryFragment, o.Render(left))
	d.last = &application{arity: 2, start: i}
	d.shown = false
	d.applied = true
}

// AppendUnary commits o applied to operand. Directly after another unary
// application the previous rendering becomes the argument instead, so
// chains read as composition: cos(sin(3)).
func (d *Display) AppendUnary(o op.UnaryOperator, operand string) {
	if d.last != nil && d.last.arity == 1 {
		prev := d.fragments[d.last.start].text
		if !o.Encloses() {
			prev = "(" + prev + ")"
		}
		d.fragments = append(d.fragments[:d.last.start], fragment{kind: unaryFragment, text: o.Render(prev)})
	} else {
		i := d.add(unaryFragment, o.Render(operand))
		d.last = &application{arity: 1, start: i}
	}
	d.shown = true
	d.applied = true
}

func (d *Display) OpenBracket() {
	d.add(openFragment, "(")
	d.last = nil
	d.shown = false
}

// CloseBracket commits "<operand> )". Brackets end any composition chain.
func (d *Display) CloseBracket(operand string) {
	if d.shown {
		d.add(closeFragment, ")")
	} else {
		d.add(closeFragment, operand+" )")
	}
	d.last = nil
	d.shown = true
}

// NewOperand marks that the user started typing a fresh operand, which
// neither composes with nor is shown by earlier fragments.
func (d *Display) NewOperand() {
	if d.last != nil && d.last.arity == 1 {
		d.last = nil
	}
	d.shown = false
}

// Resolve commits " =", preceded by the right operand of a pending binary
// operator since the engine consumed it without echoing it.
func (d *Display) Resolve(operand string) {
	if d.BinaryPending() {
		d.add(operandFragment, operand)
	}
	d.add(resolveFragment, "=")
	d.last = nil
	d.shown = true
}

// BinaryPending reports whether the last thing committed is a binary
// operator still waiting for its right operand on screen.
func (d *Display) BinaryPending() bool {
	if d.last == nil || d.last.arity != 2 || len(d.fragments) == 0 {
		return false
	}
	return d.fragments[len(d.fragments)-1].kind != closeFragment
}

// Reset empties the display for a new expression.
func (d *Display) Reset() {
	*d = Display{}
}
