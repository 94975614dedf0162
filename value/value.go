// Package value is the caller-side representation of arguments and
// results: a tagged union resolved against the declared type only at
// coercion time, plus the mutable slots used for out and inout parameters.
package value

import (
	"math/big"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/wippyai/xpbridge"
	"github.com/wippyai/xpbridge/variant"
)

// Kind identifies what a Value holds.
type Kind uint8

const (
	KindUnset Kind = iota
	KindNull
	KindBool
	KindInt
	KindFloat
	KindBytes
	KindString
	KindSequence
	KindObject
	KindID
	KindVariant
	KindSlot
)

var kindNames = [...]string{
	KindUnset:    "unset",
	KindNull:     "null",
	KindBool:     "bool",
	KindInt:      "int",
	KindFloat:    "float",
	KindBytes:    "bytes",
	KindString:   "string",
	KindSequence: "sequence",
	KindObject:   "object",
	KindID:       "id",
	KindVariant:  "variant",
	KindSlot:     "slot",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Value is one caller-side value. The zero Value is Unset: a hole in a
// sequence or an argument the caller left for the dispatcher to fill.
// Values are immutable; constructors and accessors copy mutable data.
type Value struct {
	i    *big.Int
	obj  xpbridge.Object
	v    *variant.Variant
	slot *Slot
	s    string
	b    []byte
	seq  []Value
	f    float64
	id   uuid.UUID
	kind Kind
	t    bool
}

// Unset returns the zero Value.
func Unset() Value { return Value{} }

// Null returns the null value.
func Null() Value { return Value{kind: KindNull} }

func Bool(b bool) Value { return Value{kind: KindBool, t: b} }

func Int(n int64) Value { return Value{kind: KindInt, i: big.NewInt(n)} }

func Uint(n uint64) Value { return Value{kind: KindInt, i: new(big.Int).SetUint64(n)} }

// BigInt holds an integer of any magnitude; n is copied.
func BigInt(n *big.Int) Value { return Value{kind: KindInt, i: new(big.Int).Set(n)} }

func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// Bytes holds a narrow, byte-oriented string; b is copied.
func Bytes(b []byte) Value { return Value{kind: KindBytes, b: slices.Clone(b)} }

// String holds text.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Seq holds an ordered sequence. Unset elements are holes.
func Seq(elems ...Value) Value {
	return Value{kind: KindSequence, seq: append([]Value{}, elems...)}
}

// Object holds an object reference; nil gives Null.
func Object(o xpbridge.Object) Value {
	if o == nil {
		return Null()
	}
	return Value{kind: KindObject, obj: o}
}

func ID(id uuid.UUID) Value { return Value{kind: KindID, id: id} }

// Variant holds an already boxed variant; nil gives Null.
func Variant(v *variant.Variant) Value {
	if v == nil {
		return Null()
	}
	return Value{kind: KindVariant, v: v}
}

// Ref passes s as an out or inout argument.
func Ref(s *Slot) Value { return Value{kind: KindSlot, slot: s} }

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsUnset() bool { return v.kind == KindUnset }

func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) AsBool() (bool, bool) { return v.t, v.kind == KindBool }

// AsInt returns a copy of the held integer.
func (v Value) AsInt() (*big.Int, bool) {
	if v.kind != KindInt {
		return nil, false
	}
	return new(big.Int).Set(v.i), true
}

func (v Value) AsFloat() (float64, bool) { return v.f, v.kind == KindFloat }

func (v Value) AsBytes() ([]byte, bool) {
	if v.kind != KindBytes {
		return nil, false
	}
	return slices.Clone(v.b), true
}

func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// Elems returns the elements of a sequence.
func (v Value) Elems() ([]Value, bool) {
	if v.kind != KindSequence {
		return nil, false
	}
	return append([]Value{}, v.seq...), true
}

// Len returns the length of a sequence, string or byte string.
func (v Value) Len() int {
	switch v.kind {
	case KindSequence:
		return len(v.seq)
	case KindBytes:
		return len(v.b)
	case KindString:
		return len(v.s)
	}
	return 0
}

func (v Value) AsObject() (xpbridge.Object, bool) { return v.obj, v.kind == KindObject }

func (v Value) AsID() (uuid.UUID, bool) { return v.id, v.kind == KindID }

func (v Value) AsVariant() (*variant.Variant, bool) { return v.v, v.kind == KindVariant }

func (v Value) AsSlot() (*Slot, bool) { return v.slot, v.kind == KindSlot }

// Deref returns the slot's content for slot values and v otherwise.
func (v Value) Deref() Value {
	if v.kind == KindSlot && v.slot != nil {
		return v.slot.Value
	}
	return v
}

// Equal reports deep equality. Sequences compare element-wise, integers by
// magnitude, variants with variant.Equal and slots by identity.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindUnset, KindNull:
		return true
	case KindBool:
		return a.t == b.t
	case KindInt:
		return a.i.Cmp(b.i) == 0
	case KindFloat:
		return a.f == b.f
	case KindBytes:
		return string(a.b) == string(b.b)
	case KindString:
		return a.s == b.s
	case KindSequence:
		return slices.EqualFunc(a.seq, b.seq, Equal)
	case KindObject:
		return variant.Equal(variant.NewInterface(a.obj), variant.NewInterface(b.obj))
	case KindID:
		return a.id == b.id
	case KindVariant:
		return variant.Equal(a.v, b.v)
	case KindSlot:
		return a.slot == b.slot
	}
	return false
}

func (v Value) String() string {
	var b strings.Builder
	v.format(&b)
	return b.String()
}

func (v Value) format(b *strings.Builder) {
	switch v.kind {
	case KindUnset:
		b.WriteString("_")
	case KindNull:
		b.WriteString("null")
	case KindBool:
		b.WriteString(strconv.FormatBool(v.t))
	case KindInt:
		b.WriteString(v.i.String())
	case KindFloat:
		b.WriteString(strconv.FormatFloat(v.f, 'g', -1, 64))
	case KindBytes:
		b.WriteString("b")
		b.WriteString(strconv.Quote(string(v.b)))
	case KindString:
		b.WriteString(strconv.Quote(v.s))
	case KindSequence:
		b.WriteByte('[')
		for i, e := range v.seq {
			if i > 0 {
				b.WriteString(", ")
			}
			e.format(b)
		}
		b.WriteByte(']')
	case KindObject:
		b.WriteString(variant.NewInterface(v.obj).String())
	case KindID:
		b.WriteString("{" + v.id.String() + "}")
	case KindVariant:
		b.WriteString("variant(")
		b.WriteString(v.v.String())
		b.WriteByte(')')
	case KindSlot:
		b.WriteByte('&')
		if v.slot != nil {
			v.slot.Value.format(b)
		}
	}
}

// Slot is a caller-visible output cell with a single settable Value.
type Slot struct {
	Value Value
}

// NewSlot returns a slot holding v.
func NewSlot(v Value) *Slot {
	return &Slot{Value: v}
}
