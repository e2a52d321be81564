package op

import (
	"math"
	"strings"
)

type Operator interface {
	Name() string
	Arity() int
	Render(arg string) string
}

type BinaryOperator interface {
	Operator
	Infix() string
	Exec(a, b float64) float64
}

type UnaryOperator interface {
	Operator
	Exec(a float64) float64
	// Encloses reports whether Render already brackets its argument,
	// as in "sin(x)", so composed arguments need no extra parens.
	Encloses() bool
}

// BINARY
type binary struct {
	name  string
	infix string
	fn    func(a, b float64) float64
}

func (b binary) Name() string  { return b.name }
func (b binary) Arity() int    { return 2 }
func (b binary) Infix() string { return b.infix }

func (b binary) Render(left string) string {
	if left == "" {
		return b.infix
	}
	return left + " " + b.infix
}

func (b binary) Exec(x, y float64) float64 { return b.fn(x, y) }

// UNARY
type unary struct {
	name   string
	prefix string
	suffix string
	fn     func(a float64) float64
}

func (u unary) Name() string             { return u.name }
func (u unary) Arity() int               { return 1 }
func (u unary) Render(arg string) string { return u.prefix + arg + u.suffix }
func (u unary) Exec(x float64) float64   { return u.fn(x) }
func (u unary) Encloses() bool {
	return strings.HasSuffix(u.prefix, "(") && strings.HasPrefix(u.suffix, ")")
}

func factorial(a float64) float64 {
	if a < 0 || math.IsNaN(a) {
		return math.NaN()
	}
	fact := 1.0
	for i := a; i > 1; i-- {
		fact *= i
		if math.IsInf(fact, 1) {
			break
		}
	}
	return fact
}
