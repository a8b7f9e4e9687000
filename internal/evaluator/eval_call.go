package evaluator

import (
	"github.com/aminya/shell-plus-plus/internal/ast"
	"github.com/aminya/shell-plus-plus/internal/object"
	"github.com/aminya/shell-plus-plus/internal/source"
)

func (e *Evaluator) evalCallExpression(node *ast.CallExpression, env *object.Environment) object.Object {
	fnVal := e.Eval(node.Function, env)
	if isError(fnVal) {
		return fnVal
	}
	args, err := e.evalExpressionListSpread(node.Arguments, env)
	if err != nil {
		return err
	}
	return e.applyCall(fnVal, args, node.Pos())
}

// applyCall dispatches a call to whichever callable kind fn holds: a plain
// function, a bound method (self prepended as the first positional
// argument; self is an ordinary parameter name, not a hidden binding), a
// Go-native builtin, a class (constructs an instance), or a command used as
// an ordinary callable.
func (e *Evaluator) applyCall(fn object.Object, args []object.Object, pos source.Position) object.Object {
	switch f := fn.(type) {
	case *object.Function:
		return e.invokeFunction(f, args, pos)
	case *object.BoundMethod:
		allArgs := append([]object.Object{f.Receiver}, args...)
		return e.invokeFunction(f.Method, allArgs, pos)
	case *object.Builtin:
		return f.Fn(pos, args...)
	case *object.Class:
		return e.instantiateClass(f, args, pos)
	case *object.Command:
		return e.invokeCommand(f, args, pos)
	case *object.Module:
		ctor, ok := f.Members["__call__"]
		if !ok {
			return newError(pos, object.INCOMPATIBLE_TYPE, "%s is not callable", fn.Type())
		}
		return e.applyCall(ctor, args, pos)
	}
	return newError(pos, object.INCOMPATIBLE_TYPE, "%s is not callable", fn.Type())
}

// invokeFunction binds args to fn's parameters in a scope enclosed by fn's
// captured closure, runs the body, and unwraps the resulting return/error
// signal. A method's hidden "__class__" binding (present whenever
// fn.OwnerClass is set) is what lets `super` inside the body resolve
// starting from the class that wrote the method, not the receiver's
// dynamic class.
func (e *Evaluator) invokeFunction(fn *object.Function, args []object.Object, pos source.Position) object.Object {
	callEnv := object.NewEnclosedEnvironment(fn.Env)
	if res := e.bindParams(fn.Parameters, args, callEnv, pos); isError(res) {
		return res
	}
	if fn.OwnerClass != nil {
		callEnv.Define("__class__", fn.OwnerClass, true)
	}
	return e.runBody(fn.Body, callEnv, pos)
}

func (e *Evaluator) invokeCommand(cmd *object.Command, args []object.Object, pos source.Position) object.Object {
	callEnv := object.NewEnclosedEnvironment(cmd.Env)
	if cmd.Parameters != nil {
		if res := e.bindParams(cmd.Parameters, args, callEnv, pos); isError(res) {
			return res
		}
	} else {
		callEnv.Define("args", &object.Array{Elements: args}, false)
	}
	return e.runBody(cmd.Body, callEnv, pos)
}

func (e *Evaluator) runBody(body *ast.BlockStatement, callEnv *object.Environment, pos source.Position) object.Object {
	result := e.evalBlock(body.Statements, callEnv)
	switch result.Type() {
	case object.RETURN_VALUE_OBJ:
		return result.(*object.ReturnValue).Value
	case object.ERROR_OBJ:
		return result
	case object.BREAK_OBJ, object.CONTINUE_OBJ:
		return newError(pos, object.CUSTOM, "%s outside a loop", result.Inspect())
	}
	return object.NIL
}

// bindParams binds a call's arguments to parameters: positional args fill
// named parameters left to right, an unsupplied parameter falls back to its
// default expression (evaluated against the scope being built, so a later
// default may reference an earlier parameter) or nil if it has none, and a
// trailing variadic parameter collects any extra positional arguments into
// a tuple.
func (e *Evaluator) bindParams(params []*ast.Parameter, args []object.Object, env *object.Environment, pos source.Position) object.Object {
	n := len(params)
	variadic := n > 0 && params[n-1].IsVariadic
	fixedCount := n
	if variadic {
		fixedCount = n - 1
	}

	for i := 0; i < fixedCount; i++ {
		p := params[i]
		if i < len(args) {
			env.Define(p.Name.Value, args[i], false)
			continue
		}
		if p.Default != nil {
			defVal := e.Eval(p.Default, env)
			if isError(defVal) {
				return defVal
			}
			env.Define(p.Name.Value, defVal, false)
			continue
		}
		env.Define(p.Name.Value, object.NIL, false)
	}

	if variadic {
		var rest []object.Object
		if len(args) > fixedCount {
			rest = append(rest, args[fixedCount:]...)
		}
		env.Define(params[n-1].Name.Value, &object.Tuple{Elements: rest}, false)
		return object.NIL
	}
	if len(args) > fixedCount {
		return newError(pos, object.FUNC_PARAMS, "too many arguments: want %d, got %d", fixedCount, len(args))
	}
	return object.NIL
}

// instantiateClass allocates an Instance, runs the class's (and its
// ancestors', base-to-derived) field initializers in an isolated scope that
// can still see class/global names without leaking them onto the instance,
// then invokes the resolved "init" constructor if the class defines one.
func (e *Evaluator) instantiateClass(class *object.Class, args []object.Object, pos source.Position) object.Object {
	inst := object.NewInstance(class)

	initEnv := object.NewEnclosedEnvironment(class.Env)
	if res := e.runFieldInits(class, initEnv); isError(res) {
		return res
	}
	for _, name := range initEnv.Names() {
		v, _ := initEnv.Get(name)
		inst.SetAttr(name, v)
	}

	if ctor, ok := class.ResolveMethod(object.ConstructorName); ok {
		allArgs := append([]object.Object{inst}, args...)
		if res := e.invokeFunction(ctor, allArgs, pos); isError(res) {
			return res
		}
	}
	return inst
}

func (e *Evaluator) runFieldInits(class *object.Class, initEnv *object.Environment) object.Object {
	if class.Parent != nil {
		if res := e.runFieldInits(class.Parent, initEnv); isError(res) {
			return res
		}
	}
	return e.evalBlock(class.FieldInits, initEnv)
}
