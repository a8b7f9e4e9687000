package stdlib

import (
	"testing"

	"github.com/aminya/shell-plus-plus/internal/object"
)

func strModule(t *testing.T) *object.Module {
	t.Helper()
	env := object.NewEnvironment()
	RegisterStrings(env)
	return testModule(t, env, "str")
}

func TestStrCaseAndTrim(t *testing.T) {
	mod := strModule(t)

	if got := mustCall(t, mod, "upper", str("abc")).(*object.String).Value; got != "ABC" {
		t.Errorf("upper: got %q", got)
	}
	if got := mustCall(t, mod, "lower", str("ABC")).(*object.String).Value; got != "abc" {
		t.Errorf("lower: got %q", got)
	}
	if got := mustCall(t, mod, "trim", str("  x \t")).(*object.String).Value; got != "x" {
		t.Errorf("trim: got %q", got)
	}
}

func TestStrSplitJoinRoundTrip(t *testing.T) {
	mod := strModule(t)

	parts := mustCall(t, mod, "split", str("a,b,c"), str(","))
	arr, ok := parts.(*object.Array)
	if !ok || len(arr.Elements) != 3 {
		t.Fatalf("split: got %s", parts.Inspect())
	}
	joined := mustCall(t, mod, "join", arr, str("-"))
	if got := joined.(*object.String).Value; got != "a-b-c" {
		t.Errorf("join: got %q, want %q", got, "a-b-c")
	}
}

func TestStrPredicatesAndSearch(t *testing.T) {
	mod := strModule(t)

	if got := mustCall(t, mod, "starts_with", str("shpp.log"), str("shpp")); got != object.TRUE {
		t.Errorf("starts_with: got %s", got.Inspect())
	}
	if got := mustCall(t, mod, "ends_with", str("shpp.log"), str(".log")); got != object.TRUE {
		t.Errorf("ends_with: got %s", got.Inspect())
	}
	if got := mustCall(t, mod, "index_of", str("hello"), str("ll")).(*object.Integer).Value; got != 2 {
		t.Errorf("index_of: got %d, want 2", got)
	}
	if got := mustCall(t, mod, "index_of", str("hello"), str("zz")).(*object.Integer).Value; got != -1 {
		t.Errorf("index_of (absent): got %d, want -1", got)
	}
	if got := mustCall(t, mod, "replace", str("a.b.c"), str("."), str("/")).(*object.String).Value; got != "a/b/c" {
		t.Errorf("replace: got %q", got)
	}
}

func TestStrRejectsNonStringArguments(t *testing.T) {
	mod := strModule(t)

	res := callMember(t, mod, "upper", num(1))
	re, ok := res.(*object.RuntimeError)
	if !ok {
		t.Fatalf("expected RuntimeError, got %T", res)
	}
	if re.Code != object.INCOMPATIBLE_TYPE {
		t.Errorf("expected INCOMPATIBLE_TYPE, got %s", re.Code)
	}
}
