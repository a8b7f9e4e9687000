package evaluator

import (
	"github.com/aminya/shell-plus-plus/internal/ast"
	"github.com/aminya/shell-plus-plus/internal/object"
	"github.com/aminya/shell-plus-plus/internal/source"
	"github.com/aminya/shell-plus-plus/internal/token"
)

func (e *Evaluator) evalLetStatement(node *ast.LetStatement, env *object.Environment) object.Object {
	val := e.Eval(node.Value, env)
	if isError(val) {
		return val
	}
	return e.bind(node.Target, val, env, true)
}

func (e *Evaluator) evalAssignStatement(node *ast.AssignStatement, env *object.Environment) object.Object {
	if node.Op == token.ASSIGN {
		val := e.Eval(node.Value, env)
		if isError(val) {
			return val
		}
		return e.bind(node.Target, val, env, false)
	}

	cur := e.Eval(node.Target, env)
	if isError(cur) {
		return cur
	}
	rhs := e.Eval(node.Value, env)
	if isError(rhs) {
		return rhs
	}
	pos := node.Pos()
	var newVal object.Object
	switch node.Op {
	case token.PLUS_ASSIGN:
		newVal = object.Add(cur, rhs, pos)
	case token.MINUS_ASSIGN:
		newVal = object.Sub(cur, rhs, pos)
	case token.STAR_ASSIGN:
		newVal = object.Mul(cur, rhs, pos)
	case token.SLASH_ASSIGN:
		newVal = object.Div(cur, rhs, pos)
	case token.PERCENT_ASSIGN:
		newVal = object.Mod(cur, rhs, pos)
	case token.AMP_ASSIGN:
		newVal = object.BitAnd(cur, rhs, pos)
	case token.PIPE_ASSIGN:
		newVal = object.BitOr(cur, rhs, pos)
	case token.CARET_ASSIGN:
		newVal = object.BitXor(cur, rhs, pos)
	case token.SHL_ASSIGN:
		newVal = object.Shl(cur, rhs, pos)
	case token.SHR_ASSIGN:
		newVal = object.Shr(cur, rhs, pos)
	default:
		return newError(pos, object.CUSTOM, "unknown compound assignment operator: %s", node.Op)
	}
	if isError(newVal) {
		return newVal
	}
	return e.bind(node.Target, newVal, env, false)
}

// bind writes val into target, either declaring a fresh binding (declare
// true, for `let`/for-loop targets) or assigning through an existing one
// (declare false, for plain assignment). target may be a single name or a
// tuple/array destructuring pattern with at most one trailing `...rest`.
func (e *Evaluator) bind(target ast.Expression, val object.Object, env *object.Environment, declare bool) object.Object {
	switch t := target.(type) {
	case *ast.Identifier:
		if declare {
			env.Define(t.Value, val, false)
			return object.NIL
		}
		ok, isConst := env.Assign(t.Value, val)
		if !ok {
			if isConst {
				return newError(t.Pos(), object.ASSIGN, "cannot assign to const %s", t.Value)
			}
			return newError(t.Pos(), object.UNDEFINED_SYMBOL, "undefined symbol: %s", t.Value)
		}
		return object.NIL
	case *ast.IndexExpression:
		if declare {
			return newError(t.Pos(), object.SYNTAX, "cannot declare an index expression")
		}
		left := e.Eval(t.Left, env)
		if isError(left) {
			return left
		}
		idx := e.Eval(t.Index, env)
		if isError(idx) {
			return idx
		}
		res := object.SetItem(left, idx, val, t.Pos())
		if isError(res) {
			return res
		}
		return object.NIL
	case *ast.AttributeExpression:
		if declare {
			return newError(t.Pos(), object.SYNTAX, "cannot declare an attribute expression")
		}
		left := e.Eval(t.Left, env)
		if isError(left) {
			return left
		}
		setter, ok := left.(interface{ SetAttr(name string, val object.Object) })
		if !ok {
			return newError(t.Pos(), object.INCOMPATIBLE_TYPE, "%s does not support attribute assignment", left.Type())
		}
		setter.SetAttr(t.Name.Value, val)
		return object.NIL
	case *ast.TupleLiteral:
		return e.bindSequence(t.Elements, val, env, declare, t.Pos())
	case *ast.ArrayLiteral:
		return e.bindSequence(t.Elements, val, env, declare, t.Pos())
	}
	return newError(target.Pos(), object.SYNTAX, "invalid assignment target")
}

func (e *Evaluator) bindSequence(targets []ast.Expression, val object.Object, env *object.Environment, declare bool, pos source.Position) object.Object {
	it, ok := val.(object.Iterable)
	if !ok {
		return newError(pos, object.INCOMPATIBLE_TYPE, "cannot destructure %s", val.Type())
	}
	var elems []object.Object
	iter := it.Iter()
	for iter.HasNext() {
		elems = append(elems, iter.Next())
	}

	spreadIdx := -1
	for i, te := range targets {
		if _, ok := te.(*ast.SpreadExpression); ok {
			spreadIdx = i
			break
		}
	}

	if spreadIdx == -1 {
		if len(elems) != len(targets) {
			return newError(pos, object.INVALID_ARGS, "cannot destructure: expected %d values, got %d", len(targets), len(elems))
		}
		for i, te := range targets {
			if res := e.bind(te, elems[i], env, declare); isError(res) {
				return res
			}
		}
		return object.NIL
	}

	before := spreadIdx
	after := len(targets) - spreadIdx - 1
	if len(elems) < before+after {
		return newError(pos, object.INVALID_ARGS, "cannot destructure: not enough values")
	}
	for i := 0; i < before; i++ {
		if res := e.bind(targets[i], elems[i], env, declare); isError(res) {
			return res
		}
	}
	restCount := len(elems) - before - after
	rest := append([]object.Object{}, elems[before:before+restCount]...)
	restTarget := targets[spreadIdx].(*ast.SpreadExpression)
	if res := e.bind(restTarget.Value, &object.Array{Elements: rest}, env, declare); isError(res) {
		return res
	}
	for i := 0; i < after; i++ {
		if res := e.bind(targets[spreadIdx+1+i], elems[before+restCount+i], env, declare); isError(res) {
			return res
		}
	}
	return object.NIL
}

func (e *Evaluator) evalReturnStatement(node *ast.ReturnStatement, env *object.Environment) object.Object {
	if node.ReturnValue == nil {
		return &object.ReturnValue{Value: object.NIL}
	}
	val := e.Eval(node.ReturnValue, env)
	if isError(val) {
		return val
	}
	return &object.ReturnValue{Value: val}
}

func (e *Evaluator) evalWhileStatement(node *ast.WhileStatement, env *object.Environment) object.Object {
	for {
		cond := e.Eval(node.Condition, env)
		if isError(cond) {
			return cond
		}
		if !object.Truth(cond) {
			return object.NIL
		}
		result := e.evalBlock(node.Body.Statements, object.NewEnclosedEnvironment(env))
		switch result.Type() {
		case object.ERROR_OBJ, object.RETURN_VALUE_OBJ:
			return result
		case object.BREAK_OBJ:
			return object.NIL
		case object.CONTINUE_OBJ:
			continue
		}
	}
}

func (e *Evaluator) evalForInStatement(node *ast.ForInStatement, env *object.Environment) object.Object {
	iterableVal := e.Eval(node.Iterable, env)
	if isError(iterableVal) {
		return iterableVal
	}
	it, ok := iterableVal.(object.Iterable)
	if !ok {
		return newError(node.Pos(), object.INCOMPATIBLE_TYPE, "%s is not iterable", iterableVal.Type())
	}
	iter := it.Iter()
	for iter.HasNext() {
		loopEnv := object.NewEnclosedEnvironment(env)
		if res := e.bind(node.Target, iter.Next(), loopEnv, true); isError(res) {
			return res
		}
		result := e.evalBlock(node.Body.Statements, loopEnv)
		switch result.Type() {
		case object.ERROR_OBJ, object.RETURN_VALUE_OBJ:
			return result
		case object.BREAK_OBJ:
			return object.NIL
		case object.CONTINUE_OBJ:
			continue
		}
	}
	return object.NIL
}
