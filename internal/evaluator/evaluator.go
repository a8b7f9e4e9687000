// Package evaluator tree-walks the AST built by internal/parser against the
// runtime value model in internal/object. There is no bytecode and no
// separate resolve pass: Eval dispatches on the concrete ast.Node type with
// a type switch, and every statement's result is checked for an
// error/return/break/continue signal before the block moves on to the next
// one.
package evaluator

import (
	"bufio"
	"io"

	"github.com/aminya/shell-plus-plus/internal/ast"
	"github.com/aminya/shell-plus-plus/internal/object"
	"github.com/aminya/shell-plus-plus/internal/source"
)

// Evaluator holds the I/O surface the print/print_err/read builtins and
// command execution write to and read from. A batch run wires these to the
// process's real stdio; a test wires them to buffers.
type Evaluator struct {
	Stdout io.Writer
	Stderr io.Writer
	Stdin  *bufio.Reader
}

func New(stdout, stderr io.Writer, stdin io.Reader) *Evaluator {
	return &Evaluator{Stdout: stdout, Stderr: stderr, Stdin: bufio.NewReader(stdin)}
}

func newError(pos source.Position, code object.ErrorCode, format string, a ...any) *object.RuntimeError {
	return object.NewError(code, pos, format, a...)
}

func isError(obj object.Object) bool {
	_, ok := obj.(*object.RuntimeError)
	return ok
}

// isControlSignal reports whether obj must short-circuit the statement
// sequence currently being evaluated: an error, a return value, or a
// break/continue signal bound for the nearest enclosing loop.
func isControlSignal(obj object.Object) bool {
	switch obj.Type() {
	case object.ERROR_OBJ, object.RETURN_VALUE_OBJ, object.BREAK_OBJ, object.CONTINUE_OBJ:
		return true
	}
	return false
}

// Eval evaluates node against env, returning the value it produces. Most
// statement kinds return object.NIL for "no useful value"; expression
// statements return their expression's value (used by the REPL to print the
// last entered expression).
func (e *Evaluator) Eval(node ast.Node, env *object.Environment) object.Object {
	switch node := node.(type) {

	// ---- program / blocks ----
	case *ast.Program:
		return e.evalProgram(node, env)
	case *ast.BlockStatement:
		return e.evalBlock(node.Statements, env)
	case *ast.ExpressionStatement:
		if node.Expression == nil {
			return object.NIL
		}
		return e.Eval(node.Expression, env)

	// ---- statements ----
	case *ast.LetStatement:
		return e.evalLetStatement(node, env)
	case *ast.AssignStatement:
		return e.evalAssignStatement(node, env)
	case *ast.ReturnStatement:
		return e.evalReturnStatement(node, env)
	case *ast.BreakStatement:
		return object.BREAK
	case *ast.ContinueStatement:
		return object.CONTINUE
	case *ast.WhileStatement:
		return e.evalWhileStatement(node, env)
	case *ast.ForInStatement:
		return e.evalForInStatement(node, env)
	case *ast.FuncStatement:
		fn := &object.Function{Name: node.Name.Value, Parameters: node.Parameters, Body: node.Body, Env: env}
		env.Define(node.Name.Value, fn, false)
		return object.NIL
	case *ast.ClassStatement:
		return e.evalClassStatement(node, env)
	case *ast.CommandStatement:
		return e.evalCommandStatement(node, env)
	case *ast.CommandCallStatement:
		return e.evalCommandCallStatement(node, env)

	// ---- literals ----
	case *ast.IntegerLiteral:
		return &object.Integer{Value: node.Value}
	case *ast.RealLiteral:
		return &object.Real{Value: node.Value}
	case *ast.StringLiteral:
		return &object.String{Value: node.Value}
	case *ast.BooleanLiteral:
		return object.NativeBoolToBoolean(node.Value)
	case *ast.NilLiteral:
		return object.NIL
	case *ast.ArrayLiteral:
		return e.evalArrayLiteral(node, env)
	case *ast.TupleLiteral:
		return e.evalTupleLiteral(node, env)
	case *ast.MapLiteral:
		return e.evalMapLiteral(node, env)
	case *ast.FunctionLiteral:
		return &object.Function{Parameters: node.Parameters, Body: node.Body, Env: env}

	// ---- identifiers / self / super ----
	case *ast.Identifier:
		if val, ok := env.Get(node.Value); ok {
			return val
		}
		return newError(node.Pos(), object.UNDEFINED_SYMBOL, "undefined symbol: %s", node.Value)
	case *ast.SelfExpression:
		if val, ok := env.Get("self"); ok {
			return val
		}
		return newError(node.Pos(), object.UNDEFINED_SYMBOL, "self used outside a method")
	case *ast.SuperExpression:
		// super is only meaningful as the left side of an attribute access
		// (super.method); bare use has no value of its own.
		return newError(node.Pos(), object.INVALID_ARGS, "super must be used as super.<method>")

	// ---- expressions ----
	case *ast.PrefixExpression:
		return e.evalPrefixExpression(node, env)
	case *ast.InfixExpression:
		return e.evalInfixExpression(node, env)
	case *ast.IfExpression:
		return e.evalIfExpression(node, env)
	case *ast.CallExpression:
		return e.evalCallExpression(node, env)
	case *ast.IndexExpression:
		return e.evalIndexExpression(node, env)
	case *ast.SliceExpression:
		return e.evalSliceExpression(node, env)
	case *ast.AttributeExpression:
		return e.evalAttributeExpression(node, env)
	case *ast.SpreadExpression:
		// Bare evaluation (outside a call-argument/destructure list) just
		// yields the spread value itself.
		return e.Eval(node.Value, env)
	case *ast.CommandSubstExpression:
		return e.evalCommandSubst(node, env)
	case *ast.InterpolationExpression:
		return e.Eval(node.Value, env)
	}

	return newError(node.Pos(), object.CUSTOM, "cannot evaluate %T", node)
}

func (e *Evaluator) evalProgram(program *ast.Program, env *object.Environment) object.Object {
	var result object.Object = object.NIL
	for _, stmt := range program.Statements {
		result = e.Eval(stmt, env)
		switch result.Type() {
		case object.ERROR_OBJ:
			return result
		case object.RETURN_VALUE_OBJ:
			return result.(*object.ReturnValue).Value
		case object.BREAK_OBJ, object.CONTINUE_OBJ:
			return newError(program.Pos(), object.CUSTOM, "%s outside a loop", result.Inspect())
		}
	}
	return result
}

// evalBlock sequences statements and stops at the first control signal.
// Block scoping is the caller's responsibility: function and loop bodies
// decide whether to enclose env before handing it in.
func (e *Evaluator) evalBlock(statements []ast.Statement, env *object.Environment) object.Object {
	var result object.Object = object.NIL
	for _, stmt := range statements {
		result = e.Eval(stmt, env)
		if isControlSignal(result) {
			return result
		}
	}
	return result
}
