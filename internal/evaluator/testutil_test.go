package evaluator

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aminya/shell-plus-plus/internal/ast"
	"github.com/aminya/shell-plus-plus/internal/lexer"
	"github.com/aminya/shell-plus-plus/internal/object"
	"github.com/aminya/shell-plus-plus/internal/parser"
	"github.com/aminya/shell-plus-plus/internal/source"
)

// testRun parses and evaluates input against a fresh global environment,
// failing the test on any parser error. It returns the evaluator (so tests
// can inspect captured stdout), the final value, and the environment (so
// tests can assert on bindings left behind in the global scope).
func testRun(t *testing.T, input string) (*Evaluator, object.Object, *object.Environment) {
	t.Helper()
	program, errs := testParse(t, input)
	if len(errs) > 0 {
		t.Fatalf("parser errors: %v", errs)
	}
	var out bytes.Buffer
	ev := New(&out, &out, strings.NewReader(""))
	env := object.NewEnvironment()
	result := ev.Eval(program, env)
	return ev, result, env
}

func testParse(t *testing.T, input string) (*ast.Program, []string) {
	t.Helper()
	diags := &source.DiagnosticSink{}
	l := lexer.New(input, diags)
	p := parser.New(l, diags)
	program, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("unexpected NeedMoreInput for input %q: %v", input, err)
	}
	return program, p.Errors()
}

func requireNoError(t *testing.T, obj object.Object) {
	t.Helper()
	if re, ok := obj.(*object.RuntimeError); ok {
		t.Fatalf("unexpected runtime error: %s", re.Message)
	}
}
