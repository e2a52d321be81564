package op_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	op "github.com/XJIeI5/keypad/internal/operation"
)

func TestLookup(t *testing.T) {
	reg := op.Default()
	for symbol, name := range map[string]string{
		"+": "add", "*": "mul", "p": "pow", "^": "pow", "s": "sin", "ctrl+S": "asin", "!": "fact",
	} {
		o, err := reg.Lookup(symbol)
		if err != nil {
			t.Fatalf("lookup %q: %v", symbol, err)
		}
		if o.Name() != name {
			t.Errorf("%q is '%s', want '%s'", symbol, o.Name(), name)
		}
	}
}

func TestUnknownOperator(t *testing.T) {
	reg := op.Default()
	if _, err := reg.Lookup("?"); !errors.Is(err, op.ErrUnknownOperator) {
		t.Errorf("expected ErrUnknownOperator, got %v", err)
	}
	if _, err := reg.Priority("?"); !errors.Is(err, op.ErrUnknownOperator) {
		t.Errorf("expected ErrUnknownOperator, got %v", err)
	}
	if reg.HaveOperator("?") {
		t.Error("'?' should not be bound")
	}
	defer func() {
		if recover() == nil {
			t.Error("MustLookup did not panic")
		}
	}()
	reg.MustLookup("?")
}

func TestPriority(t *testing.T) {
	reg := op.Default()
	less := [][2]string{{"+", "*"}, {"*", "%"}, {"%", "p"}, {"p", "s"}, {"/", "E"}}
	for _, pair := range less {
		a, _ := reg.Priority(pair[0])
		b, _ := reg.Priority(pair[1])
		if a >= b {
			t.Errorf("'%s' (%d) should bind looser than '%s' (%d)", pair[0], a, pair[1], b)
		}
	}
	a, _ := reg.Priority("+")
	b, _ := reg.Priority("-")
	if a != b {
		t.Errorf("'+' and '-' should share a class, got %d and %d", a, b)
	}
}

func TestSymbolsLongestFirst(t *testing.T) {
	syms := op.Default().Symbols()
	for i := 1; i < len(syms); i++ {
		if len(syms[i]) > len(syms[i-1]) {
			t.Fatalf("'%s' listed after shorter '%s'", syms[i], syms[i-1])
		}
	}
}

func TestExec(t *testing.T) {
	binaries := []struct {
		o    op.BinaryOperator
		a, b float64
		want float64
	}{
		{op.Add, 2, 3, 5},
		{op.Sub, 2, 3, -1},
		{op.Mult, 2, 3, 6},
		{op.Div, 3, 2, 1.5},
		{op.Mod, 7, 3, 1},
		{op.Percent, 200, 10, 20},
		{op.Pow, 2, 10, 1024},
		{op.Exp10, 1.5, 3, 1500},
	}
	for _, c := range binaries {
		if got := c.o.Exec(c.a, c.b); !approx(got, c.want) {
			t.Errorf("%s(%v, %v) = %v, want %v", c.o.Name(), c.a, c.b, got, c.want)
		}
	}

	unaries := []struct {
		o    op.UnaryOperator
		a    float64
		want float64
	}{
		{op.Sqr, 3, 9},
		{op.Sqrt, 16, 4},
		{op.Neg, 3, -3},
		{op.Log, 1000, 3},
		{op.Ln, 1, 0},
		{op.Inv, 4, 0.25},
		{op.Fact, 5, 120},
		{op.Fact, 0, 1},
		{op.Fact, 1, 1},
	}
	for _, c := range unaries {
		if got := c.o.Exec(c.a); !approx(got, c.want) {
			t.Errorf("%s(%v) = %v, want %v", c.o.Name(), c.a, got, c.want)
		}
	}
}

func approx(a, b float64) bool {
	return math.Abs(a-b) <= 1e-12*math.Max(1, math.Abs(b))
}

func TestDomainValues(t *testing.T) {
	if v := op.Div.Exec(1, 0); !math.IsInf(v, 1) {
		t.Errorf("1/0 = %v, want +Inf", v)
	}
	if v := op.Sqrt.Exec(-1); !math.IsNaN(v) {
		t.Errorf("sqrt(-1) = %v, want NaN", v)
	}
	if v := op.Fact.Exec(-2); !math.IsNaN(v) {
		t.Errorf("(-2)! = %v, want NaN", v)
	}
	if v := op.Pow.Exec(0, -1); !math.IsInf(v, 1) {
		t.Errorf("0^-1 = %v, want +Inf", v)
	}
}

func TestRender(t *testing.T) {
	cases := []struct {
		o    op.Operator
		arg  string
		want string
	}{
		{op.Add, "2", "2 +"},
		{op.Add, "", "+"},
		{op.Mod, "7", "7 mod"},
		{op.Sin, "3", "sin(3)"},
		{op.Sqr, "3", "3²"},
		{op.Sqrt, "3", "√3"},
		{op.Neg, "3", "-(3)"},
		{op.Asin, "1", "sin⁻¹(1)"},
		{op.Fact, "4", "4!"},
	}
	for _, c := range cases {
		if got := c.o.Render(c.arg); got != c.want {
			t.Errorf("render %s(%q) = '%s', want '%s'", c.o.Name(), c.arg, got, c.want)
		}
	}
	if !op.Cos.Encloses() || op.Sqr.Encloses() || op.Sqrt.Encloses() {
		t.Error("Encloses should hold only for call-style operators")
	}
}

func TestLoadVocabulary(t *testing.T) {
	src := `
precedence:
  - [add]
  - [mul]
  - [neg]
keys:
  "plus": add
  "x": mul
  "~": neg
`
	v, err := op.LoadVocabulary(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	reg, err := op.NewRegistry(v)
	if err != nil {
		t.Fatal(err)
	}
	if o := reg.MustLookup("x"); o.Name() != op.Mult.Name() {
		t.Errorf("'x' bound to %s", o.Name())
	}
	if reg.HaveOperator("+") {
		t.Error("'+' should be unbound in a custom vocabulary")
	}
	if p, _ := reg.Priority("~"); p != 2 {
		t.Errorf("'~' priority %d, want 2", p)
	}
}

func TestVocabularyErrors(t *testing.T) {
	bad := []string{
		"precedence: [[add]]\nkeys: {\"+\": nope}\n",
		"precedence: [[add]]\nkeys: {\"*\": mul}\n",
		"precedence: [[add], [add]]\nkeys: {\"+\": add}\n",
		"precedence: [[add]]\nkeys: {\"(\": add}\n",
		"precedence: [[add]]\nkeys: {\"a1\": add}\n",
		"precedence: [[add]]\nkeys: {\"AC\": add}\n",
		"precedence: [[add]]\nkeys: {\"+\": add}\nextra: 1\n",
	}
	for _, src := range bad {
		if _, err := op.LoadVocabulary(strings.NewReader(src)); err == nil {
			t.Errorf("expected error for:\n%s", src)
		}
	}
}
