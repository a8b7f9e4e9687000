// Package stdlib registers the script-callable standard library surface:
// the core builtin set (print/print_err/read/len/assert) plus the db,
// config and str modules.
package stdlib

import (
	"fmt"
	"strings"

	"github.com/aminya/shell-plus-plus/internal/evaluator"
	"github.com/aminya/shell-plus-plus/internal/object"
	"github.com/aminya/shell-plus-plus/internal/source"
)

func displayString(o object.Object) string {
	if s, ok := o.(object.Stringer); ok {
		return s.ToDisplayString()
	}
	return o.Inspect()
}

// RegisterCore installs print, print_err, read, len, assert, and contains.
// The membership check is exposed as a function since the precedence table
// has no infix IN (IN is reserved for `for x in ...`).
func RegisterCore(env *object.Environment, ev *evaluator.Evaluator) {
	env.Define("print", &object.Builtin{Name: "print", Fn: func(pos source.Position, args ...object.Object) object.Object {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = displayString(a)
		}
		fmt.Fprintln(ev.Stdout, strings.Join(parts, " "))
		return object.NIL
	}}, true)

	env.Define("print_err", &object.Builtin{Name: "print_err", Fn: func(pos source.Position, args ...object.Object) object.Object {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = displayString(a)
		}
		fmt.Fprintln(ev.Stderr, strings.Join(parts, " "))
		return object.NIL
	}}, true)

	env.Define("read", &object.Builtin{Name: "read", Fn: func(pos source.Position, args ...object.Object) object.Object {
		line, err := ev.Stdin.ReadString('\n')
		if err != nil && line == "" {
			return object.NIL
		}
		return &object.String{Value: strings.TrimRight(line, "\n")}
	}}, true)

	env.Define("len", &object.Builtin{Name: "len", Fn: func(pos source.Position, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewError(object.INVALID_ARGS, pos, "len() takes exactly 1 argument, got %d", len(args))
		}
		return object.Length(args[0], pos)
	}}, true)

	env.Define("assert", &object.Builtin{Name: "assert", Fn: func(pos source.Position, args ...object.Object) object.Object {
		if len(args) < 1 {
			return object.NewError(object.INVALID_ARGS, pos, "assert() takes at least 1 argument")
		}
		if !object.Truth(args[0]) {
			msg := "assertion failed"
			if len(args) > 1 {
				msg = displayString(args[1])
			}
			return object.NewError(object.ASSERT, pos, "%s", msg)
		}
		return object.NIL
	}}, true)

	env.Define("contains", &object.Builtin{Name: "contains", Fn: func(pos source.Position, args ...object.Object) object.Object {
		if len(args) != 2 {
			return object.NewError(object.INVALID_ARGS, pos, "contains() takes exactly 2 arguments, got %d", len(args))
		}
		return object.Contains(args[0], args[1], pos)
	}}, true)
}
