package evaluator

import (
	"bytes"
	"strings"

	"github.com/aminya/shell-plus-plus/internal/ast"
	"github.com/aminya/shell-plus-plus/internal/object"
	"github.com/aminya/shell-plus-plus/internal/shellexec"
	"github.com/aminya/shell-plus-plus/internal/token"
)

func (e *Evaluator) evalCommandStatement(node *ast.CommandStatement, env *object.Environment) object.Object {
	cmd := &object.Command{Name: node.Name.Value, Parameters: node.Parameters, Body: node.Body, Env: env}
	env.Define(node.Name.Value, cmd, false)
	return object.NIL
}

// evalCommandCallStatement dispatches a bare invocation: a name already bound
// to a declared `cmd` runs its block with the WORD-scanned arguments (either
// filling its explicit parameter list or, in the predefined-name form,
// bound as a single array under "args"); a name bound to a plain function
// is likewise callable shell-style; anything else is handed to the OS as an
// external process.
func (e *Evaluator) evalCommandCallStatement(node *ast.CommandCallStatement, env *object.Environment) object.Object {
	args := make([]string, 0, len(node.Arguments))
	for _, argExpr := range node.Arguments {
		s, errObj := e.evalCmdArgValue(argExpr, env)
		if errObj != nil {
			return errObj
		}
		args = append(args, s)
	}

	if val, ok := env.Get(node.Name); ok {
		objArgs := make([]object.Object, len(args))
		for i, a := range args {
			objArgs[i] = &object.String{Value: a}
		}
		switch val.(type) {
		case *object.Command, *object.Function, *object.Builtin, *object.Class:
			return e.applyCall(val, objArgs, node.Pos())
		}
	}

	if err := shellexec.Run(e.Stdin, e.Stdout, e.Stderr, node.Name, args); err != nil {
		return newError(node.Pos(), object.CUSTOM, "%s: %s", node.Name, err.Error())
	}
	return object.NIL
}

// evalCmdArgValue walks one command argument's splice chain (built by
// parser.parseCommandArgument as a left-leaning tree of token.PLUS
// InfixExpressions over WORD/interpolation pieces) and concatenates each
// piece via the to-cmd-argument conversion rather than the `+` operator, so
// e.g. `${count}` splices an integer's digits instead of raising a type
// error.
func (e *Evaluator) evalCmdArgValue(expr ast.Expression, env *object.Environment) (string, *object.RuntimeError) {
	if inf, ok := expr.(*ast.InfixExpression); ok && inf.Operator == token.PLUS {
		l, err := e.evalCmdArgValue(inf.Left, env)
		if err != nil {
			return "", err
		}
		r, err := e.evalCmdArgValue(inf.Right, env)
		if err != nil {
			return "", err
		}
		return l + r, nil
	}
	val := e.Eval(expr, env)
	if rerr, ok := val.(*object.RuntimeError); ok {
		return "", rerr
	}
	return toCmdArgString(val), nil
}

func toCmdArgString(val object.Object) string {
	if c, ok := val.(object.CmdArgument); ok {
		return c.ToCmdArgument()
	}
	if s, ok := val.(object.Stringer); ok {
		return s.ToDisplayString()
	}
	return val.Inspect()
}

// evalCommandSubst evaluates `$(...)`: it runs the inner command call with
// the evaluator's stdout temporarily swapped for a buffer, so the same
// dispatch path used for a top-level command call (declared cmd, plain
// function, or external process) captures its output instead of writing it
// straight through. The statement's own result value is discarded: the
// substitution captures what the command printed, not what it returned.
func (e *Evaluator) evalCommandSubst(node *ast.CommandSubstExpression, env *object.Environment) object.Object {
	callStmt, ok := node.Command.(*ast.CommandCallStatement)
	if !ok {
		return newError(node.Pos(), object.SYNTAX, "invalid command substitution")
	}

	old := e.Stdout
	buf := &bytes.Buffer{}
	e.Stdout = buf
	result := e.evalCommandCallStatement(callStmt, env)
	e.Stdout = old

	if isError(result) {
		return result
	}
	return &object.String{Value: strings.TrimRight(buf.String(), "\n")}
}
