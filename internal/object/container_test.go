package object

import "testing"

// TestTupleSetItemReplacesElement: tuples have fixed arity but replaceable
// elements, so index assignment mutates in place exactly as it does for
// arrays.
func TestTupleSetItemReplacesElement(t *testing.T) {
	tup := &Tuple{Elements: []Object{&Integer{Value: 1}, &Integer{Value: 2}, &Integer{Value: 3}}}

	res := SetItem(tup, &Integer{Value: 0}, &Integer{Value: 9}, zeroPos)
	if _, isErr := res.(*RuntimeError); isErr {
		t.Fatalf("expected tuple index assignment to succeed, got error %s", res.Inspect())
	}
	if got := tup.Elements[0].(*Integer).Value; got != 9 {
		t.Errorf("expected element 0 to be replaced with 9, got %d", got)
	}
	if len(tup.Elements) != 3 {
		t.Errorf("expected arity to stay 3, got %d", len(tup.Elements))
	}
}

func TestTupleSetItemOutOfRange(t *testing.T) {
	tup := &Tuple{Elements: []Object{&Integer{Value: 1}}}
	res := SetItem(tup, &Integer{Value: 5}, NIL, zeroPos)
	re, ok := res.(*RuntimeError)
	if !ok {
		t.Fatalf("expected RuntimeError, got %T", res)
	}
	if re.Code != OUT_OF_RANGE {
		t.Errorf("expected OUT_OF_RANGE, got %s", re.Code)
	}
}

func TestStringSetItemRejected(t *testing.T) {
	s := &String{Value: "abc"}
	res := SetItem(s, &Integer{Value: 0}, &String{Value: "x"}, zeroPos)
	re, ok := res.(*RuntimeError)
	if !ok {
		t.Fatalf("expected RuntimeError, got %T", res)
	}
	if re.Code != ASSIGN {
		t.Errorf("expected ASSIGN, got %s", re.Code)
	}
}
