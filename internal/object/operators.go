// Operator protocol implementations for every value kind. Each function
// returns either the result Object or a *RuntimeError; callers
// (internal/evaluator) check the returned Object's dynamic type with
// isError() after every Eval.
package object

import (
	"strings"

	"github.com/aminya/shell-plus-plus/internal/source"
)

func typeError(pos source.Position, op string, left, right Object) *RuntimeError {
	if right == nil {
		return NewError(INCOMPATIBLE_TYPE, pos, "unsupported operand type for %s: %s", op, left.Type())
	}
	return NewError(INCOMPATIBLE_TYPE, pos, "unsupported operand types for %s: %s and %s", op, left.Type(), right.Type())
}

// asFloat views an Integer/Real/Boolean as a float64, so mixed-kind
// arithmetic can coerce to real when either side is real and treat bool as
// 0/1.
func asFloat(o Object) (float64, bool) {
	switch v := o.(type) {
	case *Integer:
		return float64(v.Value), true
	case *Real:
		return v.Value, true
	case *Boolean:
		if v.Value {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

func asInt(o Object) (int64, bool) {
	switch v := o.(type) {
	case *Integer:
		return v.Value, true
	case *Boolean:
		if v.Value {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

func isNumeric(o Object) bool {
	switch o.(type) {
	case *Integer, *Real, *Boolean:
		return true
	}
	return false
}

func bothInt(a, b Object) (int64, int64, bool) {
	ai, aok := asInt(a)
	bi, bok := asInt(b)
	return ai, bi, aok && bok && a.Type() != REAL_OBJ && b.Type() != REAL_OBJ
}

// Add implements `+`: numeric addition, string concatenation, and array
// concatenation.
func Add(left, right Object, pos source.Position) Object {
	if l, ok := left.(*String); ok {
		if r, ok := right.(*String); ok {
			return &String{Value: l.Value + r.Value}
		}
		return typeError(pos, "+", left, right)
	}
	if l, ok := left.(*Array); ok {
		if r, ok := right.(*Array); ok {
			elems := make([]Object, 0, len(l.Elements)+len(r.Elements))
			elems = append(elems, l.Elements...)
			elems = append(elems, r.Elements...)
			return &Array{Elements: elems}
		}
		return typeError(pos, "+", left, right)
	}
	return numericBinary(pos, "+", left, right,
		func(a, b int64) int64 { return a + b },
		func(a, b float64) float64 { return a + b })
}

func Sub(left, right Object, pos source.Position) Object {
	return numericBinary(pos, "-", left, right,
		func(a, b int64) int64 { return a - b },
		func(a, b float64) float64 { return a - b })
}

func Mul(left, right Object, pos source.Position) Object {
	if l, ok := left.(*String); ok {
		if r, ok := right.(*Integer); ok {
			return &String{Value: strings.Repeat(l.Value, int(r.Value))}
		}
	}
	return numericBinary(pos, "*", left, right,
		func(a, b int64) int64 { return a * b },
		func(a, b float64) float64 { return a * b })
}

func Div(left, right Object, pos source.Position) Object {
	if ai, bi, ok := bothInt(left, right); ok {
		if bi == 0 {
			return NewError(INVALID_ARGS, pos, "division by zero")
		}
		return &Integer{Value: ai / bi}
	}
	af, aok := asFloat(left)
	bf, bok := asFloat(right)
	if !aok || !bok {
		return typeError(pos, "/", left, right)
	}
	if bf == 0 {
		return NewError(INVALID_ARGS, pos, "division by zero")
	}
	return &Real{Value: af / bf}
}

func Mod(left, right Object, pos source.Position) Object {
	ai, bi, ok := bothInt(left, right)
	if !ok {
		return typeError(pos, "%", left, right)
	}
	if bi == 0 {
		return NewError(INVALID_ARGS, pos, "modulo by zero")
	}
	return &Integer{Value: ai % bi}
}

func numericBinary(pos source.Position, op string, left, right Object, intOp func(a, b int64) int64, floatOp func(a, b float64) float64) Object {
	if !isNumeric(left) || !isNumeric(right) {
		return typeError(pos, op, left, right)
	}
	if left.Type() == REAL_OBJ || right.Type() == REAL_OBJ {
		af, _ := asFloat(left)
		bf, _ := asFloat(right)
		return &Real{Value: floatOp(af, bf)}
	}
	ai, _ := asInt(left)
	bi, _ := asInt(right)
	return &Integer{Value: intOp(ai, bi)}
}

func bitwiseBinary(pos source.Position, op string, left, right Object, fn func(a, b int64) int64) Object {
	ai, bi, ok := bothInt(left, right)
	if !ok {
		return typeError(pos, op, left, right)
	}
	return &Integer{Value: fn(ai, bi)}
}

func Shl(left, right Object, pos source.Position) Object {
	return bitwiseBinary(pos, "<<", left, right, func(a, b int64) int64 { return a << uint64(b) })
}
func Shr(left, right Object, pos source.Position) Object {
	return bitwiseBinary(pos, ">>", left, right, func(a, b int64) int64 { return a >> uint64(b) })
}
func BitAnd(left, right Object, pos source.Position) Object {
	return bitwiseBinary(pos, "&", left, right, func(a, b int64) int64 { return a & b })
}
func BitOr(left, right Object, pos source.Position) Object {
	return bitwiseBinary(pos, "|", left, right, func(a, b int64) int64 { return a | b })
}
func BitXor(left, right Object, pos source.Position) Object {
	return bitwiseBinary(pos, "^", left, right, func(a, b int64) int64 { return a ^ b })
}

func Neg(right Object, pos source.Position) Object {
	switch v := right.(type) {
	case *Integer:
		return &Integer{Value: -v.Value}
	case *Real:
		return &Real{Value: -v.Value}
	}
	return typeError(pos, "unary -", right, nil)
}

func BitNot(right Object, pos source.Position) Object {
	v, ok := asInt(right)
	if !ok {
		return typeError(pos, "unary ~", right, nil)
	}
	return &Integer{Value: ^v}
}

func Not(right Object) Object {
	return NativeBoolToBoolean(!Truth(right))
}

// Truth is the to-bool conversion.
func Truth(o Object) bool {
	if t, ok := o.(Truthy); ok {
		return t.Truthy()
	}
	return true
}

// EqualComparable lets a value kind override Equal's default structural/
// identity comparison, e.g. a path value that compares by filesystem
// equivalence (canonicalized), not by string equality of its two operands.
type EqualComparable interface {
	EqualTo(other Object) bool
}

// Equal: numeric kinds compare by value across
// int/real, strings by value, arrays/tuples element-wise, everything else
// by identity (instances, functions, classes).
func Equal(left, right Object) bool {
	if ec, ok := left.(EqualComparable); ok {
		return ec.EqualTo(right)
	}
	if isNumeric(left) && isNumeric(right) {
		af, _ := asFloat(left)
		bf, _ := asFloat(right)
		return af == bf
	}
	switch l := left.(type) {
	case *Nil:
		_, ok := right.(*Nil)
		return ok
	case *String:
		r, ok := right.(*String)
		return ok && l.Value == r.Value
	case *Array:
		r, ok := right.(*Array)
		return ok && equalSeq(l.Elements, r.Elements)
	case *Tuple:
		r, ok := right.(*Tuple)
		return ok && equalSeq(l.Elements, r.Elements)
	}
	return left == right
}

func equalSeq(a, b []Object) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// Less is the less-than comparison: total within numeric kinds, strings
// lexicographic, arrays/tuples element-wise lexicographic.
func Less(left, right Object, pos source.Position) (bool, *RuntimeError) {
	if isNumeric(left) && isNumeric(right) {
		af, _ := asFloat(left)
		bf, _ := asFloat(right)
		return af < bf, nil
	}
	if l, ok := left.(*String); ok {
		if r, ok := right.(*String); ok {
			return l.Value < r.Value, nil
		}
	}
	if seqLess, ok, err := lessSeq(left, right, pos); ok {
		return seqLess, err
	}
	return false, typeError(pos, "<", left, right)
}

func lessSeq(left, right Object, pos source.Position) (bool, bool, *RuntimeError) {
	var a, b []Object
	switch l := left.(type) {
	case *Array:
		r, ok := right.(*Array)
		if !ok {
			return false, false, nil
		}
		a, b = l.Elements, r.Elements
	case *Tuple:
		r, ok := right.(*Tuple)
		if !ok {
			return false, false, nil
		}
		a, b = l.Elements, r.Elements
	default:
		return false, false, nil
	}
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if Equal(a[i], b[i]) {
			continue
		}
		less, err := Less(a[i], b[i], pos)
		return less, true, err
	}
	return len(a) < len(b), true, nil
}

// ---- container protocol: get-item, set-item, length, contains ----

func normalizeIndex(idx, length int) int {
	if idx < 0 {
		return idx + length
	}
	return idx
}

// GetItem subscripts a container with an integer or Slice index.
func GetItem(container, index Object, pos source.Position) Object {
	if sl, ok := index.(*Slice); ok {
		return getSlice(container, sl, pos)
	}
	idxInt, ok := index.(*Integer)
	if !ok {
		return NewError(INCOMPATIBLE_TYPE, pos, "index must be an integer, got %s", index.Type())
	}
	i := int(idxInt.Value)

	switch c := container.(type) {
	case *Array:
		i = normalizeIndex(i, len(c.Elements))
		if i < 0 || i >= len(c.Elements) {
			return NewError(OUT_OF_RANGE, pos, "array index out of range: %d", idxInt.Value)
		}
		return c.Elements[i]
	case *Tuple:
		i = normalizeIndex(i, len(c.Elements))
		if i < 0 || i >= len(c.Elements) {
			return NewError(OUT_OF_RANGE, pos, "tuple index out of range: %d", idxInt.Value)
		}
		return c.Elements[i]
	case *String:
		runes := []rune(c.Value)
		i = normalizeIndex(i, len(runes))
		if i < 0 || i >= len(runes) {
			return NewError(OUT_OF_RANGE, pos, "string index out of range: %d", idxInt.Value)
		}
		return &String{Value: string(runes[i])}
	case *Map:
		v, ok := c.Get(idxInt)
		if !ok {
			return NewError(OUT_OF_RANGE, pos, "key not found: %d", idxInt.Value)
		}
		return v
	}
	return NewError(INCOMPATIBLE_TYPE, pos, "%s is not indexable", container.Type())
}

// GetItemByKey handles map lookups keyed by any Hashable value (strings,
// bools, reals), used when the index expression is not an *Integer.
func GetItemByKey(container Object, key Object, pos source.Position) Object {
	m, ok := container.(*Map)
	if !ok {
		return GetItem(container, key, pos)
	}
	h, ok := key.(Hashable)
	if !ok {
		return NewError(INCOMPATIBLE_TYPE, pos, "%s is not usable as a map key", key.Type())
	}
	v, ok := m.Get(h)
	if !ok {
		return NewError(OUT_OF_RANGE, pos, "key not found: %s", key.Inspect())
	}
	return v
}

func getSlice(container Object, sl *Slice, pos source.Position) Object {
	bounds := func(length int) (start, end, step int, ok bool) {
		step = 1
		if sl.Step != nil {
			s, isInt := sl.Step.(*Integer)
			if !isInt {
				return 0, 0, 0, false
			}
			step = int(s.Value)
			if step == 0 {
				return 0, 0, 0, false
			}
		}
		start, end = 0, length
		if step < 0 {
			start, end = length-1, -1
		}
		if sl.Start != nil {
			if s, isInt := sl.Start.(*Integer); isInt {
				start = normalizeIndex(int(s.Value), length)
			}
		}
		if sl.End != nil {
			if e, isInt := sl.End.(*Integer); isInt {
				end = normalizeIndex(int(e.Value), length)
			}
		}
		return start, end, step, true
	}

	switch c := container.(type) {
	case *Array:
		start, end, step, ok := bounds(len(c.Elements))
		if !ok {
			return NewError(INVALID_ARGS, pos, "invalid slice bounds")
		}
		return &Array{Elements: sliceElements(c.Elements, start, end, step)}
	case *Tuple:
		start, end, step, ok := bounds(len(c.Elements))
		if !ok {
			return NewError(INVALID_ARGS, pos, "invalid slice bounds")
		}
		return &Tuple{Elements: sliceElements(c.Elements, start, end, step)}
	case *String:
		runes := []rune(c.Value)
		start, end, step, ok := bounds(len(runes))
		if !ok {
			return NewError(INVALID_ARGS, pos, "invalid slice bounds")
		}
		objs := sliceElements(runesToObjects(runes), start, end, step)
		var sb strings.Builder
		for _, o := range objs {
			sb.WriteString(o.(*String).Value)
		}
		return &String{Value: sb.String()}
	}
	return NewError(INCOMPATIBLE_TYPE, pos, "%s does not support slicing", container.Type())
}

func runesToObjects(runes []rune) []Object {
	out := make([]Object, len(runes))
	for i, r := range runes {
		out[i] = &String{Value: string(r)}
	}
	return out
}

func sliceElements(elems []Object, start, end, step int) []Object {
	var out []Object
	if step > 0 {
		for i := start; i < end && i < len(elems); i += step {
			if i >= 0 {
				out = append(out, elems[i])
			}
		}
	} else {
		for i := start; i > end && i >= 0; i += step {
			if i < len(elems) {
				out = append(out, elems[i])
			}
		}
	}
	return out
}

// SetItem assigns through a subscript on arrays, tuples and maps. A tuple
// has fixed arity but its elements are replaceable, the same mutable
// element reference arrays expose; strings reject item assignment.
func SetItem(container, index, value Object, pos source.Position) Object {
	switch c := container.(type) {
	case *Array:
		return setSequenceItem(c.Elements, "array", index, value, pos)
	case *Tuple:
		return setSequenceItem(c.Elements, "tuple", index, value, pos)
	case *Map:
		h, ok := index.(Hashable)
		if !ok {
			return NewError(INCOMPATIBLE_TYPE, pos, "%s is not usable as a map key", index.Type())
		}
		c.Set(h, index, value)
		return value
	case *String:
		return NewError(ASSIGN, pos, "strings are immutable")
	}
	return NewError(INCOMPATIBLE_TYPE, pos, "%s does not support item assignment", container.Type())
}

func setSequenceItem(elems []Object, kind string, index, value Object, pos source.Position) Object {
	idxInt, ok := index.(*Integer)
	if !ok {
		return NewError(INCOMPATIBLE_TYPE, pos, "index must be an integer, got %s", index.Type())
	}
	i := normalizeIndex(int(idxInt.Value), len(elems))
	if i < 0 || i >= len(elems) {
		return NewError(OUT_OF_RANGE, pos, "%s index out of range: %d", kind, idxInt.Value)
	}
	elems[i] = value
	return value
}

// Length reports a container's element count.
func Length(o Object, pos source.Position) Object {
	if it, ok := o.(Iterable); ok {
		return &Integer{Value: int64(it.Length())}
	}
	return NewError(INCOMPATIBLE_TYPE, pos, "%s has no length", o.Type())
}

// Contains is the membership check (distinct from `for x in` iteration).
func Contains(container, item Object, pos source.Position) Object {
	switch c := container.(type) {
	case *Array:
		for _, e := range c.Elements {
			if Equal(e, item) {
				return TRUE
			}
		}
		return FALSE
	case *Tuple:
		for _, e := range c.Elements {
			if Equal(e, item) {
				return TRUE
			}
		}
		return FALSE
	case *String:
		s, ok := item.(*String)
		if !ok {
			return NewError(INCOMPATIBLE_TYPE, pos, "contains: expected a string, got %s", item.Type())
		}
		return NativeBoolToBoolean(strings.Contains(c.Value, s.Value))
	case *Map:
		h, ok := item.(Hashable)
		if !ok {
			return FALSE
		}
		_, found := c.Get(h)
		return NativeBoolToBoolean(found)
	}
	return NewError(INCOMPATIBLE_TYPE, pos, "%s does not support 'in'", container.Type())
}
