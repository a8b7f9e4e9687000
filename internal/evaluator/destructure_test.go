package evaluator

import (
	"testing"

	"github.com/aminya/shell-plus-plus/internal/object"
)

// TestDestructuringArityMismatchFails: a, b = <3-tuple> fails, since the
// target count must match the value count unless a trailing ...rest is
// present.
func TestDestructuringArityMismatchFails(t *testing.T) {
	input := `
let a, b = (1, 2, 3)
a
`
	_, result, _ := testRun(t, input)
	re, ok := result.(*object.RuntimeError)
	if !ok {
		t.Fatalf("expected arity error, got %T (%s)", result, result.Inspect())
	}
	if re.Code != object.INVALID_ARGS {
		t.Errorf("expected INVALID_ARGS, got %s", re.Code)
	}
}

func TestDestructuringExactArityBinds(t *testing.T) {
	input := `
let a, b = (1, 2)
a + b
`
	_, result, _ := testRun(t, input)
	requireNoError(t, result)
	if result.(*object.Integer).Value != 3 {
		t.Errorf("expected 3, got %s", result.Inspect())
	}
}

func TestDestructuringWithTrailingRest(t *testing.T) {
	input := `
let first, ...rest = (1, 2, 3, 4)
rest
`
	_, result, _ := testRun(t, input)
	requireNoError(t, result)
	arr, ok := result.(*object.Array)
	if !ok {
		t.Fatalf("expected array, got %T", result)
	}
	if len(arr.Elements) != 3 {
		t.Fatalf("expected rest to hold 3 elements, got %d", len(arr.Elements))
	}
}

func TestVariadicParameterCollectsTuple(t *testing.T) {
	// func f(a, b...) { return b }; f(1,2,3,4) -> (2,3,4)
	input := `
func f(a, b...) {
	return b
}
f(1, 2, 3, 4)
`
	_, result, _ := testRun(t, input)
	requireNoError(t, result)
	tup, ok := result.(*object.Tuple)
	if !ok {
		t.Fatalf("expected tuple, got %T (%s)", result, result.Inspect())
	}
	want := []int64{2, 3, 4}
	if len(tup.Elements) != len(want) {
		t.Fatalf("expected %d elements, got %d", len(want), len(tup.Elements))
	}
	for i, w := range want {
		if tup.Elements[i].(*object.Integer).Value != w {
			t.Errorf("element %d: got %s, want %d", i, tup.Elements[i].Inspect(), w)
		}
	}
}
