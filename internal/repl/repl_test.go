package repl

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aminya/shell-plus-plus/internal/evaluator"
)

// sliceLineReader replays lines from a fixed script, ignoring
// needsContinuation (the test scripts are pre-split at the lines a real
// terminal session would have sent).
func sliceLineReader(lines []string) LineReader {
	i := 0
	return func(needsContinuation bool) (string, bool) {
		if i >= len(lines) {
			return "", false
		}
		line := lines[i]
		i++
		return line, true
	}
}

func newSession() (*evaluator.Evaluator, *bytes.Buffer) {
	var out bytes.Buffer
	ev := evaluator.New(&out, &out, strings.NewReader(""))
	return ev, &out
}

// TestREPLEvaluatesSingleLineStatement covers the base case: one complete
// statement per input line, result printed via Inspect.
func TestREPLEvaluatesSingleLineStatement(t *testing.T) {
	ev, out := newSession()
	env := New(ev)
	Run(sliceLineReader([]string{"1 + 2"}), ev, env, out)

	got := out.String()
	if !strings.Contains(got, "3") {
		t.Errorf("expected output to contain the evaluated result 3, got %q", got)
	}
}

// TestREPLContinuesAcrossLinesForUnclosedBrace: a function definition split
// across several input lines is
// reassembled by NeedMoreInput-driven continuation and evaluates exactly as
// if it had been typed on one line.
func TestREPLContinuesAcrossLinesForUnclosedBrace(t *testing.T) {
	ev, out := newSession()
	env := New(ev)
	lines := []string{
		"func g(x) {",
		"return x + 1",
		"}",
		"print(g(41))",
	}
	Run(sliceLineReader(lines), ev, env, out)

	got := out.String()
	if !strings.Contains(got, "42") {
		t.Errorf("expected continuation-assembled function to print 42, got %q", got)
	}
}

// TestREPLPersistsEnvironmentAcrossInputs checks the interactive resource
// contract: bindings made in one input line remain visible when
// the next line is evaluated.
func TestREPLPersistsEnvironmentAcrossInputs(t *testing.T) {
	ev, out := newSession()
	env := New(ev)
	lines := []string{
		"let counter = 10",
		"counter = counter + 1",
		"print(counter)",
	}
	Run(sliceLineReader(lines), ev, env, out)

	got := out.String()
	if !strings.Contains(got, "11") {
		t.Errorf("expected bindings to persist across inputs, got %q", got)
	}
}

// TestREPLReportsParserErrorsWithoutAborting confirms that a malformed line
// prints a diagnostic and the loop keeps reading subsequent lines rather
// than exiting.
func TestREPLReportsParserErrorsWithoutAborting(t *testing.T) {
	ev, out := newSession()
	env := New(ev)
	lines := []string{
		"let = 5",
		"print(1)",
	}
	Run(sliceLineReader(lines), ev, env, out)

	got := out.String()
	if !strings.Contains(got, "Error:") {
		t.Errorf("expected a reported parse error, got %q", got)
	}
	if !strings.Contains(got, "1") {
		t.Errorf("expected the loop to continue and evaluate the next line, got %q", got)
	}
}

// TestREPLReportsUnterminatedStringDiagnostic: a lexer-level diagnostic
// (collected in the sink rather than raised by the parser) is still
// reported in the "Error: <line>: <col>: <message>" shape, and the input
// is discarded without killing the session.
func TestREPLReportsUnterminatedStringDiagnostic(t *testing.T) {
	ev, out := newSession()
	env := New(ev)
	lines := []string{
		`let s = "he`,
		"print(2)",
	}
	Run(sliceLineReader(lines), ev, env, out)

	got := out.String()
	if !strings.Contains(got, "string literal not terminated") {
		t.Errorf("expected the unterminated-string diagnostic, got %q", got)
	}
	if !strings.Contains(got, "Error: 1: ") {
		t.Errorf("expected the diagnostic to carry a line 1 position, got %q", got)
	}
	if !strings.Contains(got, "2") {
		t.Errorf("expected the loop to keep going after the bad line, got %q", got)
	}
}

// TestREPLReportsRuntimeErrorWithPosition exercises the
// "Error: <line>: <col>: <message>" user-visible format for a runtime
// error (division by zero), not just parse diagnostics.
func TestREPLReportsRuntimeErrorWithPosition(t *testing.T) {
	ev, out := newSession()
	env := New(ev)
	Run(sliceLineReader([]string{"1 / 0"}), ev, env, out)

	got := out.String()
	if !strings.Contains(got, "Error:") {
		t.Errorf("expected a reported runtime error, got %q", got)
	}
}
