package engine_test

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"
	"testing"

	"github.com/Knetic/govaluate"

	"github.com/XJIeI5/keypad/internal/engine"
	op "github.com/XJIeI5/keypad/internal/operation"
)

// feed drives an engine the way a session does: numbers become the
// pending operand, operators are inserted and reduced, brackets open and
// close contexts.
func feed(t *testing.T, e *engine.Engine, tokens string) float64 {
	t.Helper()
	var cur float64
	for _, tok := range strings.Fields(tokens) {
		switch tok {
		case "(":
			e.OpenContext()
			cur = 0
		case ")":
			v, ok := e.CloseContext(cur)
			if !ok {
				t.Fatalf("%s: close bracket failed", tokens)
			}
			cur = v
		default:
			if v, err := strconv.ParseFloat(tok, 64); err == nil {
				cur = v
				continue
			}
			idx, err := e.InsertOperator(tok, cur)
			if err != nil {
				t.Fatalf("%s: %v", tokens, err)
			}
			cur, _ = e.ReduceFrom(idx)
		}
	}
	for e.Depth() > 1 {
		cur, _ = e.CloseContext(cur)
	}
	v, ok := e.Solve(cur)
	if !ok {
		t.Fatalf("%s: nothing to resolve", tokens)
	}
	return v
}

func compare(t *testing.T, tokens string, expected float64) {
	t.Helper()
	got := feed(t, engine.New(op.Default()), tokens)
	if math.Abs(got-expected) > 1e-9 {
		t.Errorf("%s = %v, want %v", tokens, got, expected)
	}
}

func TestProcedureOfActions(t *testing.T) {
	compare(t, "2 + 3 * 4", 14)
	compare(t, "2 * 3 + 4", 10)
	compare(t, "200 / 5 + 1", 41)
	compare(t, "1 + 2 * 3 / 4", 2.5)
	compare(t, "2 + 3 p 2 * 2", 20)
	compare(t, "2 * 3 p 2 + 1", 19)
}

func TestLeftToRight(t *testing.T) {
	compare(t, "8 - 3 - 2", 3)
	compare(t, "64 / 4 / 2", 8)
	compare(t, "2 p 3 p 2", 64)
	compare(t, "8 - 3 + 2", 7)
}

func TestChangeOrderByParens(t *testing.T) {
	compare(t, "( 2 + 3 ) * 4", 20)
	compare(t, "( 1 + 2 * 3 ) / 4", 1.75)
	compare(t, "2 - ( 3 ) * 4", -10)
}

func TestMultipleParens(t *testing.T) {
	compare(t, "( ( 1 + 2 ) * ( 3 + 4 ) ) - 5", 16)
	compare(t, "2 * ( 3 + ( 4 - 1 ) * 2 )", 18)
	compare(t, "( 1 / ( 2 * 3 ) / 4 ) + 5", 1.0/6/4+5)
	compare(t, "( ( ( 7 ) ) )", 7)
}

func TestUnclosedParensAreClosedByCaller(t *testing.T) {
	compare(t, "2 * ( 3 + 4", 14)
}

func TestOtherBinaryOperators(t *testing.T) {
	compare(t, "200 % 10", 20)
	compare(t, "7 M 3 + 1", 2)
	compare(t, "1.5 E 3", 1500)
	compare(t, "10 + 200 % 10", 30)
}

func TestInsertionIndex(t *testing.T) {
	e := engine.New(op.Default())
	idx, err := e.InsertOperator("+", 2)
	if err != nil {
		t.Fatal(err)
	}
	if idx != 0 {
		t.Errorf("first operator at %d, want 0", idx)
	}
	if v, _ := e.ReduceFrom(idx); v != 2 {
		t.Errorf("waiting '+' reports %v, want 2", v)
	}

	idx, _ = e.InsertOperator("*", 3)
	if idx != 2 {
		t.Errorf("'*' after '+' at %d, want 2", idx)
	}
	if v, _ := e.ReduceFrom(idx); v != 3 {
		t.Errorf("waiting '*' reports %v, want 3", v)
	}

	// '-' binds no tighter than either pending operator and goes in front
	idx, _ = e.InsertOperator("-", 4)
	if idx != 0 {
		t.Errorf("'-' at %d, want 0", idx)
	}
	if v, _ := e.ReduceFrom(idx); v != 14 {
		t.Errorf("partial result %v, want 14", v)
	}
	if v, ok := e.Solve(1); !ok || v != 13 {
		t.Errorf("solve = %v %v, want 13", v, ok)
	}
}

func TestSingleOperand(t *testing.T) {
	e := engine.New(op.Default())
	if v, ok := e.Solve(7); !ok || v != 7 {
		t.Errorf("solve = %v %v, want 7", v, ok)
	}
	if _, ok := engine.New(op.Default()).ReduceFrom(0); ok {
		t.Error("empty context should have no result")
	}
}

func TestNothingToResolve(t *testing.T) {
	e := engine.New(op.Default())
	e.PushOperand(1)
	e.PushOperand(2)
	if _, ok := e.Solve(3); ok {
		t.Error("operands without operators should not resolve")
	}
}

func TestCloseCarriesValue(t *testing.T) {
	e := engine.New(op.Default())
	e.OpenContext()
	e.OpenContext()
	if e.Depth() != 3 {
		t.Fatalf("depth %d, want 3", e.Depth())
	}
	idx, _ := e.InsertOperator("+", 2)
	e.ReduceFrom(idx)
	v, ok := e.CloseContext(3)
	if !ok || v != 5 {
		t.Fatalf("inner close = %v %v, want 5", v, ok)
	}
	if r, _ := e.Result(); r != 5 {
		t.Errorf("enclosing context holds %v, want 5", r)
	}
	v, ok = e.CloseContext(v)
	if !ok || v != 5 || e.Depth() != 1 {
		t.Errorf("outer close = %v %v depth %d", v, ok, e.Depth())
	}
	if _, ok := e.CloseContext(1); ok {
		t.Error("outermost context must not close")
	}
	if e.Depth() != 1 {
		t.Errorf("depth %d after extra close", e.Depth())
	}
}

func TestDomainSentinels(t *testing.T) {
	e := engine.New(op.Default())
	if v := feed(t, e, "1 / 0"); !math.IsInf(v, 1) {
		t.Errorf("1 / 0 = %v", v)
	}
	e = engine.New(op.Default())
	if v := feed(t, e, "0 p -1"); !math.IsInf(v, 1) {
		t.Errorf("0 ^ -1 = %v", v)
	}
	e = engine.New(op.Default())
	if v := feed(t, e, "0 / 0 + 1"); !math.IsNaN(v) {
		t.Errorf("0 / 0 + 1 = %v", v)
	}
}

func TestApply(t *testing.T) {
	e := engine.New(op.Default())
	v, err := e.Apply("s", 3)
	if err != nil || v != math.Sin(3) {
		t.Errorf("sin 3 = %v %v", v, err)
	}
	if v, _ := e.Apply("r", -4); !math.IsNaN(v) {
		t.Errorf("sqrt -4 = %v", v)
	}
	if _, err := e.Apply("+", 3); !errors.Is(err, op.ErrNotUnary) {
		t.Errorf("expected ErrNotUnary, got %v", err)
	}
	if _, err := e.Apply("?", 3); !errors.Is(err, op.ErrUnknownOperator) {
		t.Errorf("expected ErrUnknownOperator, got %v", err)
	}
	if _, err := e.InsertOperator("?", 3); !errors.Is(err, op.ErrUnknownOperator) {
		t.Errorf("expected ErrUnknownOperator, got %v", err)
	}
}

func randomExpr(r *rand.Rand, depth int) string {
	var b strings.Builder
	n := 1 + r.Intn(4)
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString([]string{" + ", " - ", " * ", " / "}[r.Intn(4)])
		}
		if depth > 0 && r.Intn(4) == 0 {
			fmt.Fprintf(&b, "( %s )", randomExpr(r, depth-1))
		} else {
			fmt.Fprintf(&b, "%d", 1+r.Intn(9))
		}
	}
	return b.String()
}

func TestAgainstGovaluate(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 500; i++ {
		src := randomExpr(r, 3)
		expr, err := govaluate.NewEvaluableExpression(src)
		if err != nil {
			t.Fatalf("%s: %v", src, err)
		}
		res, err := expr.Evaluate(nil)
		if err != nil {
			t.Fatalf("%s: %v", src, err)
		}
		want := res.(float64)
		got := feed(t, engine.New(op.Default()), src)
		if math.Abs(got-want) > 1e-9*math.Max(1, math.Abs(want)) {
			t.Errorf("%s = %v, govaluate says %v", src, got, want)
		}
	}
}
