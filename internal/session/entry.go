package session

import (
	"math"
	"strconv"
	"strings"

	"github.com/XJIeI5/keypad/internal/display"
)

// entry is the operand being typed, kept as text.
type entry struct {
	text string
	// the text is a result or the zero state; the next digit replaces it
	fresh bool
}

func newEntry() entry {
	return entry{text: "0", fresh: true}
}

func (e *entry) digit(d rune) {
	if e.fresh || e.text == "0" {
		e.text = string(d)
		e.fresh = false
		return
	}
	e.text += string(d)
}

func (e *entry) point() {
	if e.fresh {
		e.text = "0."
		e.fresh = false
		return
	}
	if strings.Contains(e.text, ".") {
		return
	}
	e.text += "."
}

// deleteLast drops one typed character, never going below a single zero.
// A computed value is not typed text and goes back to zero as a whole.
func (e *entry) deleteLast() {
	if e.fresh || strings.ContainsAny(e.text, "eIN") {
		*e = newEntry()
		return
	}
	if len(e.text) > 1 {
		e.text = e.text[:len(e.text)-1]
		if _, err := strconv.ParseFloat(e.text, 64); err == nil && e.text != "-" {
			return
		}
	}
	*e = newEntry()
}

func (e *entry) set(v float64) {
	e.text = display.FormatNumber(v)
	e.fresh = true
}

func (e *entry) value() float64 {
	v, err := strconv.ParseFloat(e.text, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// String is the operand as it goes into the expression text.
func (e *entry) String() string {
	return display.FormatNumber(e.value())
}
