package object

// Symbol is one name-to-value binding in a scope frame.
type Symbol struct {
	Name     string
	Value    Object
	Const    bool
	Exported bool // names beginning with "_" are non-public by convention, not enforced
}

// Environment is a single lexical scope frame: an ordered name table plus a
// link to the enclosing frame. Frames are plain Go pointers; the garbage
// collector keeps a frame alive for as long as any closure (Function.Env)
// or live Environment.Outer chain still references it, so captured frames
// survive the dynamic activation that created them without hand-rolled
// refcounts.
type Environment struct {
	names map[string]*Symbol
	order []string
	Outer *Environment
}

// NewEnvironment creates a root frame with no enclosing scope.
func NewEnvironment() *Environment {
	return &Environment{names: make(map[string]*Symbol)}
}

// NewEnclosedEnvironment creates a frame lexically nested inside outer,
// e.g. a block body, a function call activation, or a class's method
// scope.
func NewEnclosedEnvironment(outer *Environment) *Environment {
	env := NewEnvironment()
	env.Outer = outer
	return env
}

// Define inserts a new entry in this frame only.
// Redeclaring a name already present in this same frame overwrites it,
// matching `let` re-binding in a REPL session.
func (e *Environment) Define(name string, val Object, constant bool) {
	if _, exists := e.names[name]; !exists {
		e.order = append(e.order, name)
	}
	e.names[name] = &Symbol{Name: name, Value: val, Const: constant}
}

// Get resolves name by walking from this frame to the global frame.
func (e *Environment) Get(name string) (Object, bool) {
	for env := e; env != nil; env = env.Outer {
		if sym, ok := env.names[name]; ok {
			return sym.Value, true
		}
	}
	return nil, false
}

// Assign updates name in whichever frame it already resolves to, walking
// outward; it does not create a new binding. It returns
// false if name is not defined in any accessible frame, or if it resolves
// to a const entry.
func (e *Environment) Assign(name string, val Object) (ok bool, isConst bool) {
	for env := e; env != nil; env = env.Outer {
		if sym, exists := env.names[name]; exists {
			if sym.Const {
				return false, true
			}
			sym.Value = val
			return true, false
		}
	}
	return false, false
}

// Names returns the names declared directly in this frame, in declaration
// order (used to copy a class's field initializers onto a new instance).
func (e *Environment) Names() []string {
	out := make([]string, len(e.order))
	copy(out, e.order)
	return out
}
