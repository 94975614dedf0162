// Package marshal converts between caller values and native values.
//
// It holds the three conversion engines behind a call: scalar and string
// coercion (Coerce, Lift), array and length-prefixed string pairing with
// their size parameters (BindArray, BindSizedString, LiftArray,
// LiftSizedString) and variant boxing (Box, Unbox). All conversions are
// pure; an Engine holds only its limits and may be shared.
package marshal

import (
	"reflect"

	"github.com/google/uuid"

	"github.com/wippyai/xpbridge"
	"github.com/wippyai/xpbridge/schema"
	"github.com/wippyai/xpbridge/variant"
)

// Limits bounds the memory a single conversion may allocate.
type Limits struct {
	MaxArrayLength  int
	MaxStringLength int
}

// DefaultLimits returns limits suitable for most uses.
func DefaultLimits() Limits {
	return Limits{
		MaxArrayLength:  1 << 20,
		MaxStringLength: 1 << 24,
	}
}

// Engine performs conversions under a set of limits.
type Engine struct {
	limits Limits
}

// New creates an engine. Zero limits are replaced by their defaults.
func New(limits Limits) *Engine {
	def := DefaultLimits()
	if limits.MaxArrayLength <= 0 {
		limits.MaxArrayLength = def.MaxArrayLength
	}
	if limits.MaxStringLength <= 0 {
		limits.MaxStringLength = def.MaxStringLength
	}
	return &Engine{limits: limits}
}

// Limits returns the engine's effective limits.
func (e *Engine) Limits() Limits {
	return e.limits
}

var (
	objectType  = reflect.TypeOf((*xpbridge.Object)(nil)).Elem()
	variantType = reflect.TypeOf((*variant.Variant)(nil))
)

var scalarTypes = [...]reflect.Type{
	schema.TagBoolean:      reflect.TypeOf(false),
	schema.TagOctet:        reflect.TypeOf(uint8(0)),
	schema.TagShort:        reflect.TypeOf(int16(0)),
	schema.TagUShort:       reflect.TypeOf(uint16(0)),
	schema.TagLong:         reflect.TypeOf(int32(0)),
	schema.TagULong:        reflect.TypeOf(uint32(0)),
	schema.TagLongLong:     reflect.TypeOf(int64(0)),
	schema.TagULongLong:    reflect.TypeOf(uint64(0)),
	schema.TagFloat:        reflect.TypeOf(float32(0)),
	schema.TagDouble:       reflect.TypeOf(float64(0)),
	schema.TagChar:         reflect.TypeOf(xpbridge.Char(0)),
	schema.TagWChar:        reflect.TypeOf(xpbridge.WChar(0)),
	schema.TagString:       reflect.TypeOf([]byte(nil)),
	schema.TagWString:      reflect.TypeOf([]uint16(nil)),
	schema.TagSizedString:  reflect.TypeOf([]byte(nil)),
	schema.TagSizedWString: reflect.TypeOf([]uint16(nil)),
	schema.TagAString:      reflect.TypeOf(xpbridge.AString{}),
	schema.TagACString:     reflect.TypeOf(xpbridge.ACString{}),
	schema.TagUTF8String:   reflect.TypeOf(xpbridge.AUTF8String{}),
	schema.TagDOMString:    reflect.TypeOf(xpbridge.AString{}),
	schema.TagIID:          reflect.TypeOf(uuid.UUID{}),
	schema.TagInterface:    objectType,
	schema.TagObject:       objectType,
	schema.TagVariant:      variantType,
}

// NativeType returns the Go type holding values of typ. Arrays map to a
// slice of their element's native type.
func NativeType(typ schema.Type) reflect.Type {
	if typ.Tag == schema.TagArray {
		if typ.Elem == nil {
			return nil
		}
		return reflect.SliceOf(NativeType(*typ.Elem))
	}
	if int(typ.Tag) < len(scalarTypes) {
		return scalarTypes[typ.Tag]
	}
	return nil
}

// Zero returns the default native value of typ: numeric zero, false, an
// empty non-nil slice for strings and arrays, null for nullable tags.
func Zero(typ schema.Type) any {
	switch typ.Tag {
	case schema.TagString, schema.TagSizedString:
		return []byte{}
	case schema.TagWString, schema.TagSizedWString:
		return []uint16{}
	case schema.TagAString, schema.TagDOMString:
		return xpbridge.AString{Void: true}
	case schema.TagACString:
		return xpbridge.ACString{Void: true}
	case schema.TagUTF8String:
		return xpbridge.AUTF8String{Void: true}
	case schema.TagInterface, schema.TagObject:
		return nil
	case schema.TagVariant:
		return (*variant.Variant)(nil)
	case schema.TagArray:
		t := NativeType(typ)
		if t == nil {
			return nil
		}
		return reflect.MakeSlice(t, 0, 0).Interface()
	}
	if t := NativeType(typ); t != nil {
		return reflect.Zero(t).Interface()
	}
	return nil
}

// assign stores native into rv, leaving rv at its zero value for nil.
func assign(rv reflect.Value, native any) {
	if native == nil {
		rv.SetZero()
		return
	}
	rv.Set(reflect.ValueOf(native))
}

// Store writes native into the storage ptr points at. ptr must be a
// pointer to NativeType(typ).
func Store(ptr any, native any) {
	assign(reflect.ValueOf(ptr).Elem(), native)
}

// Load reads the native value behind ptr.
func Load(ptr any) any {
	return reflect.ValueOf(ptr).Elem().Interface()
}

// Alloc returns a pointer to fresh storage for typ holding native.
func Alloc(typ schema.Type, native any) any {
	ptr := reflect.New(NativeType(typ))
	assign(ptr.Elem(), native)
	return ptr.Interface()
}
