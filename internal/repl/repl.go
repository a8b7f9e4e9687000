// Package repl drives the interactive read-eval-print loop: a continuation-
// aware scanner loop built around the parser's NeedMoreInput signal, so an
// unclosed bracket asks for another line instead of raising a hard parse
// error.
package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/aminya/shell-plus-plus/internal/evaluator"
	"github.com/aminya/shell-plus-plus/internal/lexer"
	"github.com/aminya/shell-plus-plus/internal/object"
	"github.com/aminya/shell-plus-plus/internal/parser"
	"github.com/aminya/shell-plus-plus/internal/pathval"
	"github.com/aminya/shell-plus-plus/internal/source"
	"github.com/aminya/shell-plus-plus/internal/stdlib"
)

// Default prompts, used when the rc-file doesn't override them: "> " for a
// fresh statement, "| " for a continuation line.
const (
	PromptFresh    = "> "
	PromptContinue = "| "
)

// LineReader is the interactive input callback: given whether the driver is
// mid-continuation, it returns the next line of input, or ok=false on EOF.
type LineReader func(needsContinuation bool) (line string, ok bool)

// ScannerLineReader adapts a bufio.Scanner (real stdin in the CLI, a buffer
// in tests) into a LineReader, printing promptFresh/promptContinue to out
// before each read. Pass "" for either prompt to fall back to its default.
func ScannerLineReader(scanner *bufio.Scanner, out io.Writer, promptFresh, promptContinue string) LineReader {
	if promptFresh == "" {
		promptFresh = PromptFresh
	}
	if promptContinue == "" {
		promptContinue = PromptContinue
	}
	return func(needsContinuation bool) (string, bool) {
		if needsContinuation {
			fmt.Fprint(out, promptContinue)
		} else {
			fmt.Fprint(out, promptFresh)
		}
		if !scanner.Scan() {
			return "", false
		}
		return scanner.Text(), true
	}
}

// Run executes the REPL against env, reading lines from next and writing
// evaluated results/errors to out. It returns once next reports EOF. The
// symbol table (env) persists across inputs; only the per-input AST is
// discarded after each evaluation.
func Run(next LineReader, ev *evaluator.Evaluator, env *object.Environment, out io.Writer) {
	for {
		input, ok := next(false)
		if !ok {
			return
		}

		for {
			diags := &source.DiagnosticSink{}
			l := lexer.New(input, diags)
			p := parser.New(l, diags)

			program, err := p.ParseProgram()
			if errors.Is(err, parser.ErrNeedMoreInput) {
				more, ok := next(true)
				if !ok {
					// EOF mid-continuation: discard the incomplete input and
					// exit cleanly, as on EOF at a fresh prompt.
					return
				}
				input += "\n" + more
				continue
			}

			if len(p.Errors()) > 0 {
				printErrors(out, p.Errors())
				break
			}
			if diags.ErrorCount() > 0 {
				printDiagnostics(out, diags.Messages())
				break
			}

			result := ev.Eval(program, env)
			if result != nil && result.Type() != object.NIL_OBJ {
				if re, isErr := result.(*object.RuntimeError); isErr {
					printRuntimeError(out, re)
				} else {
					fmt.Fprintln(out, result.Inspect())
				}
			}
			break
		}
	}
}

// New builds a fresh global environment with the standard library wired in,
// the way cmd/shpp's batch and REPL entry points both need it.
func New(ev *evaluator.Evaluator) *object.Environment {
	env := object.NewEnvironment()
	stdlib.RegisterCore(env, ev)
	stdlib.RegisterStrings(env)
	stdlib.RegisterDB(env)
	stdlib.RegisterConfig(env)
	pathval.Register(env)
	return env
}

// printErrors renders parser diagnostics in the user-visible
// "Error: <line>: <col>: <message>" format, the position prefix already
// baked into each message by Parser.addError, one per line.
func printErrors(out io.Writer, errs []string) {
	for _, msg := range errs {
		fmt.Fprintln(out, "Error: "+msg)
	}
}

// printDiagnostics renders lexer diagnostics (collected in the sink during
// tokenization, reported once the whole input has been lexed) in the same
// "Error: <line>: <col>: <message>" shape.
func printDiagnostics(out io.Writer, msgs []source.Diagnostic) {
	for _, d := range msgs {
		if d.Severity != source.Error {
			continue
		}
		pos := source.Position{Line: d.Line, Col: d.Col}
		fmt.Fprintf(out, "Error: %s: %s\n", pos.String(), d.Text)
	}
}

// printRuntimeError renders a RuntimeError's primary message followed by
// its accumulated secondary messages, one line each.
func printRuntimeError(out io.Writer, re *object.RuntimeError) {
	fmt.Fprintf(out, "Error: %s: %s\n", re.Position.String(), re.Message)
	for _, msg := range re.Secondary {
		fmt.Fprintln(out, "Error: "+msg)
	}
}
