package evaluator

import (
	"github.com/aminya/shell-plus-plus/internal/ast"
	"github.com/aminya/shell-plus-plus/internal/object"
)

// evalClassStatement evaluates a class declaration: it resolves the
// parent and declared interfaces (both must already be bound Class values;
// there is no separate interface-declaration node; `implements X` simply
// references an ordinary class and borrows its method table as a set of
// defaults), then splits the body into methods (FuncStatement, recorded on
// Class.Methods with OwnerClass set so `super` inside them resolves from
// the class that wrote them) and field initializers (everything else,
// run fresh against each new instance at construction time).
func (e *Evaluator) evalClassStatement(node *ast.ClassStatement, env *object.Environment) object.Object {
	class := &object.Class{
		Name:    node.Name.Value,
		Final:   node.Final,
		Methods: make(map[string]*object.Function),
		Env:     env,
	}

	if node.Parent != nil {
		parentVal, ok := env.Get(node.Parent.Value)
		if !ok {
			return newError(node.Parent.Pos(), object.UNDEFINED_SYMBOL, "undefined class: %s", node.Parent.Value)
		}
		parentClass, ok := parentVal.(*object.Class)
		if !ok {
			return newError(node.Parent.Pos(), object.INCOMPATIBLE_TYPE, "%s is not a class", node.Parent.Value)
		}
		if parentClass.Final {
			return newError(node.Parent.Pos(), object.CUSTOM, "cannot extend final class %s", parentClass.Name)
		}
		class.Parent = parentClass
	}

	for _, ifaceIdent := range node.Interfaces {
		ifaceVal, ok := env.Get(ifaceIdent.Value)
		if !ok {
			return newError(ifaceIdent.Pos(), object.UNDEFINED_SYMBOL, "undefined interface: %s", ifaceIdent.Value)
		}
		ifaceClass, ok := ifaceVal.(*object.Class)
		if !ok {
			return newError(ifaceIdent.Pos(), object.INCOMPATIBLE_TYPE, "%s is not a class", ifaceIdent.Value)
		}
		class.Interfaces = append(class.Interfaces, &object.Interface{Name: ifaceClass.Name, Methods: ifaceClass.Methods})
	}

	// Defined before the body is processed so a method can recursively
	// reference its own class by name, and a field default can too.
	env.Define(node.Name.Value, class, false)

	for _, stmt := range node.Body.Statements {
		if fs, ok := stmt.(*ast.FuncStatement); ok {
			class.Methods[fs.Name.Value] = &object.Function{
				Name:       fs.Name.Value,
				Parameters: fs.Parameters,
				Body:       fs.Body,
				Env:        env,
				OwnerClass: class,
			}
			continue
		}
		class.FieldInits = append(class.FieldInits, stmt)
	}

	return object.NIL
}

// evalSuperAttribute resolves `super.name` from inside a method body: self
// (the receiver, bound under the explicit "self" parameter) plus the
// hidden "__class__" binding (the class that textually owns the currently
// running method) together pin down where in the inheritance chain to
// resume the search, which is exactly the piece an explicit-self design
// can't give you for free.
func (e *Evaluator) evalSuperAttribute(node *ast.AttributeExpression, env *object.Environment) object.Object {
	selfVal, ok := env.Get("self")
	if !ok {
		return newError(node.Pos(), object.UNDEFINED_SYMBOL, "super used outside a method")
	}
	inst, ok := selfVal.(*object.Instance)
	if !ok {
		return newError(node.Pos(), object.INCOMPATIBLE_TYPE, "super used outside an instance method")
	}
	ownerVal, ok := env.Get("__class__")
	if !ok {
		return newError(node.Pos(), object.UNDEFINED_SYMBOL, "super used outside a method")
	}
	owner, ok := ownerVal.(*object.Class)
	if !ok || owner.Parent == nil {
		name := "?"
		if ok {
			name = owner.Name
		}
		return newError(node.Pos(), object.UNDEFINED_SYMBOL, "%s has no parent class", name)
	}
	m, ok := owner.Parent.ResolveMethod(node.Name.Value)
	if !ok {
		return newError(node.Pos(), object.UNDEFINED_SYMBOL, "%s has no attribute %s", owner.Parent.Name, node.Name.Value)
	}
	return &object.BoundMethod{Receiver: inst, Method: m}
}
