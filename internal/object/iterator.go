package object

// Iterator is the iteration protocol: iter produces an iterator value, and
// iterators expose next and has-next. `for x in it` loops while HasNext is
// true, binding the result of Next to the loop target.
type Iterator interface {
	Object
	HasNext() bool
	Next() Object
}

// ArrayIterator walks an Array (or a Tuple, via NewSequenceIterator) in
// index order.
type ArrayIterator struct {
	elements []Object
	idx      int
}

func NewSequenceIterator(elements []Object) *ArrayIterator {
	return &ArrayIterator{elements: elements}
}

func (it *ArrayIterator) Type() ObjectType { return ITERATOR_OBJ }
func (it *ArrayIterator) Inspect() string  { return "<array iterator>" }
func (it *ArrayIterator) HasNext() bool    { return it.idx < len(it.elements) }
func (it *ArrayIterator) Next() Object {
	v := it.elements[it.idx]
	it.idx++
	return v
}

// MapIterator walks a Map's pairs in insertion order, producing a 2-tuple
// (key, value) per step so `for k, v in m` destructures naturally.
type MapIterator struct {
	pairs []MapPair
	idx   int
}

func NewMapIterator(m *Map) *MapIterator {
	return &MapIterator{pairs: m.Ordered()}
}

func (it *MapIterator) Type() ObjectType { return ITERATOR_OBJ }
func (it *MapIterator) Inspect() string  { return "<map iterator>" }
func (it *MapIterator) HasNext() bool    { return it.idx < len(it.pairs) }
func (it *MapIterator) Next() Object {
	pair := it.pairs[it.idx]
	it.idx++
	return &Tuple{Elements: []Object{pair.Key, pair.Value}}
}

// StringIterator walks a string rune by rune, producing single-character
// strings.
type StringIterator struct {
	runes []rune
	idx   int
}

func NewStringIterator(s string) *StringIterator {
	return &StringIterator{runes: []rune(s)}
}

func (it *StringIterator) Type() ObjectType { return ITERATOR_OBJ }
func (it *StringIterator) Inspect() string  { return "<string iterator>" }
func (it *StringIterator) HasNext() bool    { return it.idx < len(it.runes) }
func (it *StringIterator) Next() Object {
	r := it.runes[it.idx]
	it.idx++
	return &String{Value: string(r)}
}

// Iterable is implemented by every object kind `for x in` may range over.
type Iterable interface {
	Object
	Iter() Iterator
	Length() int
}

func (a *Array) Iter() Iterator  { return NewSequenceIterator(a.Elements) }
func (a *Array) Length() int     { return len(a.Elements) }
func (t *Tuple) Iter() Iterator  { return NewSequenceIterator(t.Elements) }
func (t *Tuple) Length() int     { return len(t.Elements) }
func (m *Map) Iter() Iterator    { return NewMapIterator(m) }
func (m *Map) Length() int       { return m.Len() }
func (s *String) Iter() Iterator { return NewStringIterator(s.Value) }
func (s *String) Length() int    { return len([]rune(s.Value)) }
