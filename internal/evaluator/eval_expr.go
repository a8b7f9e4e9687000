package evaluator

import (
	"github.com/aminya/shell-plus-plus/internal/ast"
	"github.com/aminya/shell-plus-plus/internal/object"
	"github.com/aminya/shell-plus-plus/internal/pathval"
	"github.com/aminya/shell-plus-plus/internal/token"
)

func (e *Evaluator) evalPrefixExpression(node *ast.PrefixExpression, env *object.Environment) object.Object {
	right := e.Eval(node.Right, env)
	if isError(right) {
		return right
	}
	switch node.Operator {
	case token.MINUS:
		return object.Neg(right, node.Pos())
	case token.BANG, token.NOT_KW:
		return object.Not(right)
	case token.TILDE:
		return object.BitNot(right, node.Pos())
	}
	return newError(node.Pos(), object.CUSTOM, "unknown prefix operator: %s", node.Operator)
}

func (e *Evaluator) evalInfixExpression(node *ast.InfixExpression, env *object.Environment) object.Object {
	// and/or short-circuit: the right side is only evaluated when the left
	// side didn't already decide the outcome.
	switch node.Operator {
	case token.AND, token.AND_KW:
		left := e.Eval(node.Left, env)
		if isError(left) {
			return left
		}
		if !object.Truth(left) {
			return object.NativeBoolToBoolean(false)
		}
		right := e.Eval(node.Right, env)
		if isError(right) {
			return right
		}
		return object.NativeBoolToBoolean(object.Truth(right))
	case token.OR, token.OR_KW:
		left := e.Eval(node.Left, env)
		if isError(left) {
			return left
		}
		if object.Truth(left) {
			return object.NativeBoolToBoolean(true)
		}
		right := e.Eval(node.Right, env)
		if isError(right) {
			return right
		}
		return object.NativeBoolToBoolean(object.Truth(right))
	}

	left := e.Eval(node.Left, env)
	if isError(left) {
		return left
	}
	right := e.Eval(node.Right, env)
	if isError(right) {
		return right
	}
	pos := node.Pos()

	switch node.Operator {
	case token.PLUS:
		return object.Add(left, right, pos)
	case token.MINUS:
		return object.Sub(left, right, pos)
	case token.ASTERISK:
		return object.Mul(left, right, pos)
	case token.SLASH:
		if p, ok := left.(*pathval.Path); ok {
			return p.Join(right, pos)
		}
		return object.Div(left, right, pos)
	case token.PERCENT:
		return object.Mod(left, right, pos)
	case token.SHL:
		return object.Shl(left, right, pos)
	case token.SHR:
		return object.Shr(left, right, pos)
	case token.AMP:
		return object.BitAnd(left, right, pos)
	case token.PIPE:
		return object.BitOr(left, right, pos)
	case token.CARET:
		return object.BitXor(left, right, pos)
	case token.EQ:
		return object.NativeBoolToBoolean(object.Equal(left, right))
	case token.NOT_EQ:
		return object.NativeBoolToBoolean(!object.Equal(left, right))
	case token.LT:
		less, err := object.Less(left, right, pos)
		if err != nil {
			return err
		}
		return object.NativeBoolToBoolean(less)
	case token.LT_EQ:
		less, err := object.Less(right, left, pos)
		if err != nil {
			return err
		}
		return object.NativeBoolToBoolean(!less)
	case token.GT:
		less, err := object.Less(right, left, pos)
		if err != nil {
			return err
		}
		return object.NativeBoolToBoolean(less)
	case token.GT_EQ:
		less, err := object.Less(left, right, pos)
		if err != nil {
			return err
		}
		return object.NativeBoolToBoolean(!less)
	}
	return newError(pos, object.CUSTOM, "unknown infix operator: %s", node.Operator)
}

func (e *Evaluator) evalIfExpression(node *ast.IfExpression, env *object.Environment) object.Object {
	cond := e.Eval(node.Condition, env)
	if isError(cond) {
		return cond
	}
	if object.Truth(cond) {
		return e.evalBlock(node.Consequence.Statements, object.NewEnclosedEnvironment(env))
	}
	if node.Alternative != nil {
		return e.evalBlock(node.Alternative.Statements, object.NewEnclosedEnvironment(env))
	}
	return object.NIL
}

func (e *Evaluator) evalArrayLiteral(node *ast.ArrayLiteral, env *object.Environment) object.Object {
	elems, err := e.evalExpressionListSpread(node.Elements, env)
	if err != nil {
		return err
	}
	return &object.Array{Elements: elems}
}

func (e *Evaluator) evalTupleLiteral(node *ast.TupleLiteral, env *object.Environment) object.Object {
	elems, err := e.evalExpressionListSpread(node.Elements, env)
	if err != nil {
		return err
	}
	return &object.Tuple{Elements: elems}
}

func (e *Evaluator) evalMapLiteral(node *ast.MapLiteral, env *object.Environment) object.Object {
	m := object.NewMap()
	for i, keyExpr := range node.Keys {
		key := e.Eval(keyExpr, env)
		if isError(key) {
			return key
		}
		h, ok := key.(object.Hashable)
		if !ok {
			return newError(keyExpr.Pos(), object.INCOMPATIBLE_TYPE, "%s is not usable as a map key", key.Type())
		}
		val := e.Eval(node.Values[i], env)
		if isError(val) {
			return val
		}
		m.Set(h, key, val)
	}
	return m
}

// evalExpressionListSpread evaluates a list of expressions, expanding any
// `...expr` element into the iterable's elements in place, for array/tuple
// literals and call arguments alike.
func (e *Evaluator) evalExpressionListSpread(exprs []ast.Expression, env *object.Environment) ([]object.Object, *object.RuntimeError) {
	var out []object.Object
	for _, expr := range exprs {
		if spread, ok := expr.(*ast.SpreadExpression); ok {
			val := e.Eval(spread.Value, env)
			if isError(val) {
				return nil, val.(*object.RuntimeError)
			}
			it, ok := val.(object.Iterable)
			if !ok {
				return nil, newError(spread.Pos(), object.INCOMPATIBLE_TYPE, "cannot spread %s", val.Type())
			}
			iter := it.Iter()
			for iter.HasNext() {
				out = append(out, iter.Next())
			}
			continue
		}
		val := e.Eval(expr, env)
		if isError(val) {
			return nil, val.(*object.RuntimeError)
		}
		out = append(out, val)
	}
	return out, nil
}

func (e *Evaluator) evalIndexExpression(node *ast.IndexExpression, env *object.Environment) object.Object {
	left := e.Eval(node.Left, env)
	if isError(left) {
		return left
	}
	index := e.Eval(node.Index, env)
	if isError(index) {
		return index
	}
	if _, isInt := index.(*object.Integer); !isInt {
		return object.GetItemByKey(left, index, node.Pos())
	}
	return object.GetItem(left, index, node.Pos())
}

func (e *Evaluator) evalSliceExpression(node *ast.SliceExpression, env *object.Environment) object.Object {
	left := e.Eval(node.Left, env)
	if isError(left) {
		return left
	}
	slice := &object.Slice{}
	if node.Start != nil {
		v := e.Eval(node.Start, env)
		if isError(v) {
			return v
		}
		slice.Start = v
	}
	if node.End != nil {
		v := e.Eval(node.End, env)
		if isError(v) {
			return v
		}
		slice.End = v
	}
	if node.Step != nil {
		v := e.Eval(node.Step, env)
		if isError(v) {
			return v
		}
		slice.Step = v
	}
	return object.GetItem(left, slice, node.Pos())
}

func (e *Evaluator) evalAttributeExpression(node *ast.AttributeExpression, env *object.Environment) object.Object {
	if _, isSuper := node.Left.(*ast.SuperExpression); isSuper {
		return e.evalSuperAttribute(node, env)
	}

	left := e.Eval(node.Left, env)
	if isError(left) {
		return left
	}

	type attrGetter interface {
		GetAttr(name string) (object.Object, bool)
	}
	if g, ok := left.(attrGetter); ok {
		if v, ok := g.GetAttr(node.Name.Value); ok {
			return v
		}
		return newError(node.Pos(), object.UNDEFINED_SYMBOL, "%s has no attribute %s", left.Type(), node.Name.Value)
	}
	return newError(node.Pos(), object.INCOMPATIBLE_TYPE, "%s has no attributes", left.Type())
}
