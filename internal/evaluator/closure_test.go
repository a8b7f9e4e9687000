package evaluator

import (
	"testing"

	"github.com/aminya/shell-plus-plus/internal/object"
)

// TestClosureCapturesOuterFrameByReference: a function returned from an
// outer frame still observes
// mutations to that frame made *after* capture happened (capture is by
// reference, not a snapshot).
func TestClosureCapturesOuterFrameByReference(t *testing.T) {
	input := `
let counter = 0
func makeGetter() {
	return func() {
		return counter
	}
}
let get = makeGetter()
counter = 41
let result = get()
result
`
	_, result, _ := testRun(t, input)
	requireNoError(t, result)
	i, ok := result.(*object.Integer)
	if !ok {
		t.Fatalf("expected integer, got %T (%s)", result, result.Inspect())
	}
	if i.Value != 41 {
		t.Errorf("expected 41, got %d", i.Value)
	}
}

// TestClosureOwnFrameSurvivesCallReturn: a closure keeps reading and
// writing its own frame-local names after the call that created that frame
// has returned (the classic "counter factory" shape).
func TestClosureOwnFrameSurvivesCallReturn(t *testing.T) {
	input := `
func makeCounter() {
	let n = 0
	return func() {
		n = n + 1
		return n
	}
}
let c = makeCounter()
c()
c()
let result = c()
result
`
	_, result, _ := testRun(t, input)
	requireNoError(t, result)
	i, ok := result.(*object.Integer)
	if !ok {
		t.Fatalf("expected integer, got %T (%s)", result, result.Inspect())
	}
	if i.Value != 3 {
		t.Errorf("expected 3, got %d", i.Value)
	}
}

// TestScopeDiscipline: a name declared inside a block never leaks to the
// enclosing frame once that block's scope is popped.
func TestScopeDiscipline(t *testing.T) {
	input := `
let x = 0
while x < 1 {
	let leaked = 99
	x = x + 1
}
leaked
`
	_, result, _ := testRun(t, input)
	re, ok := result.(*object.RuntimeError)
	if !ok {
		t.Fatalf("expected undefined-symbol error, got %T (%s)", result, result.Inspect())
	}
	if re.Code != object.UNDEFINED_SYMBOL {
		t.Errorf("expected UNDEFINED_SYMBOL, got %s", re.Code)
	}
}

func TestTwoClosuresFromSameFactoryDoNotShareState(t *testing.T) {
	input := `
func makeCounter() {
	let n = 0
	return func() {
		n = n + 1
		return n
	}
}
let a = makeCounter()
let b = makeCounter()
a()
a()
b()
let result = (a(), b())
result
`
	_, result, _ := testRun(t, input)
	requireNoError(t, result)
	tup, ok := result.(*object.Tuple)
	if !ok {
		t.Fatalf("expected tuple, got %T", result)
	}
	if tup.Elements[0].(*object.Integer).Value != 3 {
		t.Errorf("expected a's third call to be 3, got %s", tup.Elements[0].Inspect())
	}
	if tup.Elements[1].(*object.Integer).Value != 2 {
		t.Errorf("expected b's second call to be 2, got %s", tup.Elements[1].Inspect())
	}
}
