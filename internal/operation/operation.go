package op

import (
	"fmt"
	"math"
	"sort"
)

var (
	Add     BinaryOperator = binary{"add", "+", func(a, b float64) float64 { return a + b }}
	Sub     BinaryOperator = binary{"sub", "-", func(a, b float64) float64 { return a - b }}
	Mult    BinaryOperator = binary{"mul", "*", func(a, b float64) float64 { return a * b }}
	Div     BinaryOperator = binary{"div", "/", func(a, b float64) float64 { return a / b }}
	Mod     BinaryOperator = binary{"mod", "mod", math.Mod}
	Percent BinaryOperator = binary{"percent", "%", func(a, b float64) float64 { return b / 100 * a }}
	Pow     BinaryOperator = binary{"pow", "^", math.Pow}
	Exp10   BinaryOperator = binary{"exp10", "e+", func(a, b float64) float64 { return a * math.Pow(10, b) }}

	Sqr  UnaryOperator = unary{"sqr", "", "²", func(a float64) float64 { return a * a }}
	Sqrt UnaryOperator = unary{"sqrt", "√", "", math.Sqrt}
	Neg  UnaryOperator = unary{"neg", "-(", ")", func(a float64) float64 { return -a }}
	Ln   UnaryOperator = unary{"ln", "ln(", ")", math.Log}
	Log  UnaryOperator = unary{"log", "log(", ")", math.Log10}
	Sin  UnaryOperator = unary{"sin", "sin(", ")", math.Sin}
	Cos  UnaryOperator = unary{"cos", "cos(", ")", math.Cos}
	Tan  UnaryOperator = unary{"tan", "tan(", ")", math.Tan}
	Asin UnaryOperator = unary{"asin", "sin⁻¹(", ")", math.Asin}
	Acos UnaryOperator = unary{"acos", "cos⁻¹(", ")", math.Acos}
	Atan UnaryOperator = unary{"atan", "tan⁻¹(", ")", math.Atan}
	Sinh UnaryOperator = unary{"sinh", "sinh(", ")", math.Sinh}
	Cosh UnaryOperator = unary{"cosh", "cosh(", ")", math.Cosh}
	Tanh UnaryOperator = unary{"tanh", "tanh(", ")", math.Tanh}
	Inv  UnaryOperator = unary{"inv", "1/", "", func(a float64) float64 { return 1 / a }}
	Fact UnaryOperator = unary{"fact", "", "!", factorial}
)

var Operators = []Operator{
	Add, Sub, Mult, Div, Mod, Percent, Pow, Exp10,
	Sqr, Sqrt, Neg, Ln, Log, Sin, Cos, Tan, Asin, Acos, Atan, Sinh, Cosh, Tanh, Inv, Fact,
}

var (
	ErrUnknownOperator = fmt.Errorf("unknown operator")
	ErrNotUnary        = fmt.Errorf("operator is not unary")
)

// ByName returns the built-in operator called name.
func ByName(name string) (Operator, bool) {
	for _, o := range Operators {
		if o.Name() == name {
			return o, true
		}
	}
	return nil, false
}

// Registry maps key symbols to operators and their precedence rank.
// It is immutable once built.
type Registry struct {
	operators map[string]Operator
	priority  map[string]int
	symbols   []string
}

func NewRegistry(v Vocabulary) (*Registry, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}
	rank := make(map[string]int)
	for i, class := range v.Precedence {
		for _, name := range class {
			rank[name] = i
		}
	}

	r := &Registry{
		operators: make(map[string]Operator, len(v.Keys)),
		priority:  make(map[string]int, len(v.Keys)),
		symbols:   make([]string, 0, len(v.Keys)),
	}
	for symbol, name := range v.Keys {
		o, _ := ByName(name)
		r.operators[symbol] = o
		r.priority[symbol] = rank[name]
		r.symbols = append(r.symbols, symbol)
	}
	// longest first, so a tokenizer can match greedily
	sort.Slice(r.symbols, func(i, j int) bool {
		if len(r.symbols[i]) != len(r.symbols[j]) {
			return len(r.symbols[i]) > len(r.symbols[j])
		}
		return r.symbols[i] < r.symbols[j]
	})
	return r, nil
}

// Default returns the registry built from the embedded vocabulary.
func Default() *Registry {
	r, err := NewRegistry(DefaultVocabulary())
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Registry) Lookup(symbol string) (Operator, error) {
	o, ok := r.operators[symbol]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownOperator, symbol)
	}
	return o, nil
}

// MustLookup is Lookup for symbols the caller already knows are bound.
func (r *Registry) MustLookup(symbol string) Operator {
	o, err := r.Lookup(symbol)
	if err != nil {
		panic(err)
	}
	return o
}

func (r *Registry) Priority(symbol string) (int, error) {
	p, ok := r.priority[symbol]
	if !ok {
		return 0, fmt.Errorf("%w %q", ErrUnknownOperator, symbol)
	}
	return p, nil
}

func (r *Registry) HaveOperator(symbol string) bool {
	_, ok := r.operators[symbol]
	return ok
}

// Symbols lists every bound key, longest first.
func (r *Registry) Symbols() []string {
	return append([]string(nil), r.symbols...)
}
