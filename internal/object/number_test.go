package object

import (
	"testing"

	"github.com/aminya/shell-plus-plus/internal/source"
)

var zeroPos = source.Position{Line: 1, Col: 1}

// TestArithmeticCoercionIntRealCommutative: int + real == real + int ==
// real, up to floating-point rounding.
func TestArithmeticCoercionIntRealCommutative(t *testing.T) {
	i := &Integer{Value: 2}
	r := &Real{Value: 3.5}

	left := Add(i, r, zeroPos)
	right := Add(r, i, zeroPos)

	lr, ok := left.(*Real)
	if !ok {
		t.Fatalf("int + real should yield a Real, got %T", left)
	}
	rr, ok := right.(*Real)
	if !ok {
		t.Fatalf("real + int should yield a Real, got %T", right)
	}
	if lr.Value != rr.Value {
		t.Errorf("int+real (%v) != real+int (%v)", lr.Value, rr.Value)
	}
	if lr.Value != 5.5 {
		t.Errorf("expected 5.5, got %v", lr.Value)
	}
}

func TestArithmeticCoercionBoolToInt(t *testing.T) {
	result := Add(&Integer{Value: 1}, TRUE, zeroPos)
	i, ok := result.(*Integer)
	if !ok {
		t.Fatalf("int + bool should stay Integer, got %T", result)
	}
	if i.Value != 2 {
		t.Errorf("expected 1 + true == 2, got %d", i.Value)
	}
}

func TestDivisionByZeroIsARuntimeError(t *testing.T) {
	result := Div(&Integer{Value: 1}, &Integer{Value: 0}, zeroPos)
	re, ok := result.(*RuntimeError)
	if !ok {
		t.Fatalf("expected RuntimeError, got %T", result)
	}
	if re.Position != zeroPos {
		t.Errorf("expected the error to carry the call-site position")
	}
}

func TestStringConcatenation(t *testing.T) {
	result := Add(&String{Value: "foo"}, &String{Value: "bar"}, zeroPos)
	s, ok := result.(*String)
	if !ok {
		t.Fatalf("expected String, got %T", result)
	}
	if s.Value != "foobar" {
		t.Errorf("expected foobar, got %q", s.Value)
	}
}

func TestArrayLexicographicLess(t *testing.T) {
	a := &Array{Elements: []Object{&Integer{Value: 1}, &Integer{Value: 2}}}
	b := &Array{Elements: []Object{&Integer{Value: 1}, &Integer{Value: 3}}}
	less, err := Less(a, b, zeroPos)
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Message)
	}
	if !less {
		t.Errorf("expected [1,2] < [1,3]")
	}
}

func TestToBoolFalsinessOfEmptyContainers(t *testing.T) {
	cases := []struct {
		name string
		obj  Object
		want bool
	}{
		{"nil", NIL, false},
		{"zero int", &Integer{Value: 0}, false},
		{"nonzero int", &Integer{Value: 1}, true},
		{"empty string", &String{Value: ""}, false},
		{"nonempty string", &String{Value: "x"}, true},
		{"empty array", &Array{}, false},
		{"nonempty array", &Array{Elements: []Object{NIL}}, true},
	}
	for _, tc := range cases {
		if got := Truth(tc.obj); got != tc.want {
			t.Errorf("%s: Truth() = %v, want %v", tc.name, got, tc.want)
		}
	}
}
