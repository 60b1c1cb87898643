package value

// List is a length-prefixed array of Values (§3.4). The canonical
// representation of a run of characters is String, not List; see
// Builder below for the promotion rule.
type List struct {
	elems []Value
}

func NewList(elems []Value) *List { return &List{elems: append([]Value(nil), elems...)} }

func (*List) RefKind() RefKind { return RList }

func (l *List) Len() int { return len(l.elems) }

func (l *List) At(i int) (Value, bool) {
	if i < 0 || i >= len(l.elems) {
		return Value{}, false
	}
	return l.elems[i], true
}

func (l *List) Elems() []Value { return l.elems }

func (l *List) EqualValue(other Ref) TernaryBool {
	o, ok := other.(*List)
	if !ok {
		return TFalse
	}
	if len(l.elems) != len(o.elems) {
		return TFalse
	}
	result := TTrue
	for i := range l.elems {
		switch Equal(l.elems[i], o.elems[i]) {
		case TFalse:
			return TFalse
		case TUnknown:
			result = TUnknown
		}
	}
	return result
}

// Concat implements the uniform `++` catenation operator for lists.
func Concat(a, b *List) *List {
	out := make([]Value, 0, a.Len()+b.Len())
	out = append(out, a.elems...)
	out = append(out, b.elems...)
	return &List{elems: out}
}

// String is a length-prefixed immutable byte array: the canonical
// representation of a sequence of characters (§3.4).
type String struct {
	s string
}

func NewString(s string) *String { return &String{s: s} }

func (*String) RefKind() RefKind { return RString }

func (s *String) Len() int    { return len(s.s) }
func (s *String) Go() string  { return s.s }
func (s *String) At(i int) (Value, bool) {
	if i < 0 || i >= len(s.s) {
		return Value{}, false
	}
	return Char(s.s[i]), true
}

func (s *String) EqualValue(other Ref) TernaryBool {
	o, ok := other.(*String)
	if !ok {
		return TFalse
	}
	return boolT(s.s == o.s)
}

// ConcatStrings implements `++` over two strings.
func ConcatStrings(a, b *String) *String { return &String{s: a.s + b.s} }

// Builder accumulates a sequence of Values, promoting from a String
// builder to a List builder the first time a non-character value is
// pushed (§3.4 "A list builder accumulates into a string if all
// pushed values are characters, otherwise promotes to a list").
type Builder struct {
	chars    []byte
	elems    []Value
	promoted bool
}

func (b *Builder) Push(v Value) {
	if !b.promoted {
		if c, ok := v.AsChar(); ok {
			b.chars = append(b.chars, c)
			return
		}
		b.promote()
	}
	b.elems = append(b.elems, v)
}

func (b *Builder) promote() {
	b.elems = make([]Value, len(b.chars))
	for i, c := range b.chars {
		b.elems[i] = Char(c)
	}
	b.chars = nil
	b.promoted = true
}

// Build finalises the accumulated sequence into its canonical
// representation: a *String if every pushed value was a character, a
// *List otherwise.
func (b *Builder) Build() Value {
	if !b.promoted {
		return FromRef(NewString(string(b.chars)))
	}
	return FromRef(NewList(b.elems))
}
