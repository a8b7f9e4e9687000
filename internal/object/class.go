package object

import "github.com/aminya/shell-plus-plus/internal/ast"

// Interface is a named bundle of default method implementations a class can
// declare conformance to (`class B <: Iface`). Interfaces carry no state;
// every method they hold is a usable default body. Abstract (bodyless)
// interface methods are not modeled.
type Interface struct {
	Name    string
	Methods map[string]*Function
}

// Class is a class value: its own declared methods, its parent (single
// inheritance, resolved at declaration time so every class with a parent
// carries a live *Class link), the interfaces it declares conformance to,
// and whether it is final (non-inheritable).
type Class struct {
	Name       string
	Parent     *Class
	Interfaces []*Interface
	Methods    map[string]*Function
	// FieldInits holds the class body's non-method statements (typically
	// `let` field declarations), run in declaration order against a fresh
	// instance scope whenever a new instance is constructed.
	FieldInits []ast.Statement
	Final      bool
	Env        *Environment // the scope the class was declared in (for method closures)
}

func (c *Class) Type() ObjectType { return CLASS_OBJ }
func (c *Class) Inspect() string  { return "class " + c.Name }

// IsSubclassOf reports whether c is other or descends from it, walking the
// parent chain.
func (c *Class) IsSubclassOf(other *Class) bool {
	for cur := c; cur != nil; cur = cur.Parent {
		if cur == other {
			return true
		}
	}
	return false
}

// ResolveMethod walks the dispatch chain beyond instance scope:
// the class's own methods, then its parent chain transitively, then (once
// the whole inheritance chain is exhausted) the interfaces c itself
// declares conformance to.
func (c *Class) ResolveMethod(name string) (*Function, bool) {
	for cur := c; cur != nil; cur = cur.Parent {
		if m, ok := cur.Methods[name]; ok {
			return m, true
		}
	}
	for _, iface := range c.Interfaces {
		if m, ok := iface.Methods[name]; ok {
			return m, true
		}
	}
	return nil, false
}

// Instance is an allocated object of a class: an empty attribute scope
// (populated by field assignments, typically from the constructor) plus a
// link back to its class descriptor.
type Instance struct {
	Class *Class
	Attrs *Environment
}

func NewInstance(class *Class) *Instance {
	return &Instance{Class: class, Attrs: NewEnvironment()}
}

func (i *Instance) Type() ObjectType { return INSTANCE_OBJ }
func (i *Instance) Inspect() string  { return "<instance of " + i.Class.Name + ">" }

// GetAttr is the instance attribute lookup: instance scope
// first, then the class method-dispatch chain (bound to this instance).
func (i *Instance) GetAttr(name string) (Object, bool) {
	if v, ok := i.Attrs.Get(name); ok {
		return v, true
	}
	if m, ok := i.Class.ResolveMethod(name); ok {
		return &BoundMethod{Receiver: i, Method: m}, true
	}
	return nil, false
}

// SetAttr assigns directly into the instance's own attribute scope
// (instances never write through to class scope).
func (i *Instance) SetAttr(name string, val Object) {
	i.Attrs.Define(name, val, false)
}

// ConstructorName is the fixed method name the evaluator invokes on
// instantiation if the class (or one of its ancestors) defines it.
const ConstructorName = "init"

// FunctionParameterNames returns the declared parameter names, in order.
func FunctionParameterNames(params []*ast.Parameter) []string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name.Value
	}
	return names
}
