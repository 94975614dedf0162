// Package variant implements the type-erased value container that crosses
// the boundary wherever a parameter is declared as a variant.
package variant

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/wippyai/xpbridge"
)

// DataType identifies what a Variant holds.
type DataType uint8

const (
	Empty DataType = iota
	Bool
	Int32
	Int64
	Uint64
	Double
	Char
	WChar
	String
	WString
	ID
	Interface
	Array
	EmptyArray
)

var dataTypeNames = [...]string{
	Empty:      "empty",
	Bool:       "bool",
	Int32:      "int32",
	Int64:      "int64",
	Uint64:     "uint64",
	Double:     "double",
	Char:       "char",
	WChar:      "wchar",
	String:     "string",
	WString:    "wstring",
	ID:         "id",
	Interface:  "interface",
	Array:      "array",
	EmptyArray: "empty-array",
}

func (t DataType) String() string {
	if int(t) < len(dataTypeNames) {
		return dataTypeNames[t]
	}
	return "unknown"
}

// Variant holds exactly one value of one DataType. A nil *Variant reads as
// Empty. Variants are immutable once built; constructors copy their input.
type Variant struct {
	data any
	typ  DataType
}

// NewEmpty returns a variant holding nothing.
func NewEmpty() *Variant { return &Variant{typ: Empty} }

func NewBool(b bool) *Variant { return &Variant{typ: Bool, data: b} }

func NewInt32(i int32) *Variant { return &Variant{typ: Int32, data: i} }

func NewInt64(i int64) *Variant { return &Variant{typ: Int64, data: i} }

func NewUint64(u uint64) *Variant { return &Variant{typ: Uint64, data: u} }

func NewDouble(f float64) *Variant { return &Variant{typ: Double, data: f} }

func NewChar(c xpbridge.Char) *Variant { return &Variant{typ: Char, data: c} }

func NewWChar(c xpbridge.WChar) *Variant { return &Variant{typ: WChar, data: c} }

func NewID(id uuid.UUID) *Variant { return &Variant{typ: ID, data: id} }

// NewEmptyArray returns a zero-length array, which is distinct from Empty.
func NewEmptyArray() *Variant { return &Variant{typ: EmptyArray} }

// NewString holds a narrow string; b is copied.
func NewString(b []byte) *Variant {
	return &Variant{typ: String, data: append([]byte{}, b...)}
}

// NewWString holds a wide string.
func NewWString(s string) *Variant {
	return &Variant{typ: WString, data: s}
}

// NewInterface holds an object; a nil object gives Empty.
func NewInterface(o xpbridge.Object) *Variant {
	if o == nil {
		return NewEmpty()
	}
	return &Variant{typ: Interface, data: o}
}

// NewArray holds elems in order. Zero elements give EmptyArray, never Empty.
func NewArray(elems ...*Variant) *Variant {
	if len(elems) == 0 {
		return NewEmptyArray()
	}
	arr := make([]*Variant, len(elems))
	for i, e := range elems {
		if e == nil {
			e = NewEmpty()
		}
		arr[i] = e
	}
	return &Variant{typ: Array, data: arr}
}

// Type returns the held DataType.
func (v *Variant) Type() DataType {
	if v == nil {
		return Empty
	}
	return v.typ
}

// IsEmpty reports whether v holds nothing.
func (v *Variant) IsEmpty() bool { return v.Type() == Empty }

// Data returns the held value in its native form: bool, int32, int64,
// uint64, float64, xpbridge.Char, xpbridge.WChar, []byte, string,
// uuid.UUID, xpbridge.Object or []*Variant. Empty and EmptyArray give nil.
func (v *Variant) Data() any {
	if v == nil {
		return nil
	}
	switch d := v.data.(type) {
	case []byte:
		return append([]byte{}, d...)
	case []*Variant:
		return append([]*Variant{}, d...)
	}
	return v.data
}

// Elems returns the elements of an Array; EmptyArray and every other type
// return an empty slice.
func (v *Variant) Elems() []*Variant {
	if v.Type() != Array {
		return []*Variant{}
	}
	return append([]*Variant{}, v.data.([]*Variant)...)
}

// Len returns the element count of arrays and 0 otherwise.
func (v *Variant) Len() int {
	if v.Type() != Array {
		return 0
	}
	return len(v.data.([]*Variant))
}

// Clone returns a deep copy. Objects are shared, not copied.
func (v *Variant) Clone() *Variant {
	if v == nil {
		return NewEmpty()
	}
	switch v.typ {
	case String:
		return NewString(v.data.([]byte))
	case Array:
		src := v.data.([]*Variant)
		dst := make([]*Variant, len(src))
		for i, e := range src {
			dst[i] = e.Clone()
		}
		return &Variant{typ: Array, data: dst}
	}
	c := *v
	return &c
}

// Equal compares two variants recursively. Arrays are equal when they have
// the same length and pairwise equal elements; scalars compare by exact
// type and value. Empty and EmptyArray are not equal.
func Equal(a, b *Variant) bool {
	if a.Type() != b.Type() {
		return false
	}
	switch a.Type() {
	case Empty, EmptyArray:
		return true
	case String:
		return string(a.data.([]byte)) == string(b.data.([]byte))
	case Interface:
		return sameObject(a.data.(xpbridge.Object), b.data.(xpbridge.Object))
	case Array:
		ae, be := a.data.([]*Variant), b.data.([]*Variant)
		if len(ae) != len(be) {
			return false
		}
		for i := range ae {
			if !Equal(ae[i], be[i]) {
				return false
			}
		}
		return true
	}
	return a.data == b.data
}

func sameObject(a, b xpbridge.Object) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}

func (v *Variant) String() string {
	var b strings.Builder
	v.format(&b)
	return b.String()
}

func (v *Variant) format(b *strings.Builder) {
	switch v.Type() {
	case Empty:
		b.WriteString("empty")
	case EmptyArray:
		b.WriteString("[]")
	case String:
		b.WriteString(strconv.Quote(string(v.data.([]byte))))
	case WString:
		b.WriteString("L")
		b.WriteString(strconv.Quote(v.data.(string)))
	case Char:
		b.WriteString(strconv.QuoteRune(rune(v.data.(xpbridge.Char))))
	case WChar:
		b.WriteString(strconv.QuoteRune(rune(v.data.(xpbridge.WChar))))
	case ID:
		b.WriteString("{" + v.data.(uuid.UUID).String() + "}")
	case Interface:
		fmt.Fprintf(b, "<object %T>", v.data)
	case Array:
		b.WriteByte('[')
		for i, e := range v.data.([]*Variant) {
			if i > 0 {
				b.WriteString(", ")
			}
			e.format(b)
		}
		b.WriteByte(']')
	default:
		fmt.Fprint(b, v.data)
	}
}
