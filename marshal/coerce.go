package marshal

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/wippyai/xpbridge/errors"
	"github.com/wippyai/xpbridge/internal/numconv"
	"github.com/wippyai/xpbridge/schema"
	"github.com/wippyai/xpbridge/value"
)

// Coerce converts a caller value to the native representation of typ.
//
// Unset yields the type's default, and a pure out parameter ignores v
// entirely. Slots are read through. Arrays and length-prefixed strings are
// coerced here with their own length; use BindArray and BindSizedString to
// apply a declared count.
func (e *Engine) Coerce(v value.Value, typ schema.Type, dir schema.Direction) (any, error) {
	if dir == schema.Out {
		return Zero(typ), nil
	}
	return e.coerce(v.Deref(), typ)
}

func (e *Engine) coerce(v value.Value, typ schema.Type) (any, error) {
	if v.IsUnset() {
		return Zero(typ), nil
	}

	switch tag := typ.Tag; {
	case tag == schema.TagVariant:
		return e.Box(v)
	case tag == schema.TagArray:
		native, _, err := e.BindArray(v, *typ.Elem, -1)
		return native, err
	case tag == schema.TagSizedString || tag == schema.TagSizedWString:
		native, _, err := e.BindSizedString(v, typ, -1)
		return native, err
	}

	// scalar and string tags accept a variant holding a matching value
	if inner, ok := v.AsVariant(); ok {
		unboxed, err := e.Unbox(inner)
		if err != nil {
			return nil, err
		}
		return e.coerce(unboxed, typ)
	}

	switch tag := typ.Tag; {
	case tag == schema.TagBoolean:
		return coerceBool(v)
	case tag.IsInteger():
		return coerceInteger(v, tag)
	case tag == schema.TagFloat || tag == schema.TagDouble:
		return coerceFloat(v, tag)
	case tag == schema.TagChar || tag == schema.TagWChar:
		return coerceChar(v, tag)
	case tag.IsString():
		return e.coerceString(v, tag)
	case tag == schema.TagIID:
		return coerceIID(v)
	case tag == schema.TagInterface || tag == schema.TagObject:
		return coerceObject(v, typ)
	}
	return nil, errors.Unsupported(errors.PhaseCoerce, "type "+typ.String())
}

func mismatch(v value.Value, tag schema.Tag) *errors.Error {
	return errors.New(errors.PhaseCoerce, errors.KindTypeMismatch).
		CallerType(v.Kind().String()).
		NativeType(tag.String()).
		Value(value.ToGo(v)).
		Build()
}

// numericText returns the text of string-like values for numeric parsing.
func numericText(v value.Value) (string, bool) {
	if s, ok := v.AsString(); ok {
		return strings.TrimSpace(s), true
	}
	if b, ok := v.AsBytes(); ok {
		return strings.TrimSpace(string(b)), true
	}
	return "", false
}

// parseNumber turns numeric text into an Int or Float value.
func parseNumber(text string) (value.Value, bool) {
	if n, ok := new(big.Int).SetString(text, 0); ok {
		return value.BigInt(n), true
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return value.Float(f), true
	}
	return value.Value{}, false
}

func coerceBool(v value.Value) (any, error) {
	switch v.Kind() {
	case value.KindBool:
		b, _ := v.AsBool()
		return b, nil
	case value.KindInt:
		n, _ := v.AsInt()
		return n.Sign() != 0, nil
	case value.KindFloat:
		f, _ := v.AsFloat()
		if math.IsNaN(f) {
			return nil, mismatch(v, schema.TagBoolean)
		}
		return f != 0, nil
	}
	if text, ok := numericText(v); ok {
		if b, err := strconv.ParseBool(text); err == nil {
			return b, nil
		}
		if n, ok := parseNumber(text); ok {
			return coerceBool(n)
		}
	}
	return nil, mismatch(v, schema.TagBoolean)
}

// toBigInt extracts an integer from ints, integral floats, booleans and
// numeric text.
func toBigInt(v value.Value, tag schema.Tag) (*big.Int, error) {
	switch v.Kind() {
	case value.KindInt:
		n, _ := v.AsInt()
		return n, nil
	case value.KindBool:
		if b, _ := v.AsBool(); b {
			return big.NewInt(1), nil
		}
		return big.NewInt(0), nil
	case value.KindFloat:
		f, _ := v.AsFloat()
		if math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) {
			return nil, errors.New(errors.PhaseCoerce, errors.KindTypeMismatch).
				CallerType("float").NativeType(tag.String()).Value(f).
				Detail("%v is not integral", f).Build()
		}
		n, _ := big.NewFloat(f).Int(nil)
		return n, nil
	}
	if text, ok := numericText(v); ok {
		if n, ok := parseNumber(text); ok {
			return toBigInt(n, tag)
		}
	}
	return nil, mismatch(v, tag)
}

var (
	minInt64  = big.NewInt(math.MinInt64)
	maxUint64 = new(big.Int).SetUint64(math.MaxUint64)
)

func coerceInteger(v value.Value, tag schema.Tag) (any, error) {
	n, err := toBigInt(v, tag)
	if err != nil {
		return nil, err
	}
	if n.Cmp(minInt64) < 0 || n.Cmp(maxUint64) > 0 {
		return nil, errors.Overflow(errors.PhaseCoerce, nil, n.String(), tag.String())
	}

	if n.IsInt64() {
		i := n.Int64()
		if !fitsTag(i, tag) {
			return nil, errors.Overflow(errors.PhaseCoerce, nil, i, tag.String())
		}
		return nativeInt(i, tag), nil
	}
	// above MaxInt64: only unsigned long long holds it
	if tag != schema.TagULongLong {
		return nil, errors.Overflow(errors.PhaseCoerce, nil, n.String(), tag.String())
	}
	return n.Uint64(), nil
}

func fitsTag(i int64, tag schema.Tag) bool {
	return numconv.Fits(i, tag.Bits(), tag.Signed())
}

func nativeInt(i int64, tag schema.Tag) any {
	switch tag {
	case schema.TagOctet:
		return uint8(i)
	case schema.TagShort:
		return int16(i)
	case schema.TagUShort:
		return uint16(i)
	case schema.TagLong:
		return int32(i)
	case schema.TagULong:
		return uint32(i)
	case schema.TagULongLong:
		return uint64(i)
	}
	return i
}

func coerceFloat(v value.Value, tag schema.Tag) (any, error) {
	var f float64
	switch v.Kind() {
	case value.KindFloat:
		f, _ = v.AsFloat()
	case value.KindInt:
		n, _ := v.AsInt()
		return intToFloat(n, tag)
	case value.KindBool:
		if b, _ := v.AsBool(); b {
			f = 1
		}
	default:
		text, ok := numericText(v)
		if !ok {
			return nil, mismatch(v, tag)
		}
		parsed, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, mismatch(v, tag)
		}
		f = parsed
	}

	if tag == schema.TagDouble {
		return f, nil
	}
	if !math.IsInf(f, 0) && !math.IsNaN(f) && math.Abs(f) > math.MaxFloat32 {
		return nil, errors.Overflow(errors.PhaseCoerce, nil, f, tag.String())
	}
	return float32(f), nil
}

// intToFloat converts an integer only when the target represents it
// exactly.
func intToFloat(n *big.Int, tag schema.Tag) (any, error) {
	bf := new(big.Float).SetInt(n)
	if tag == schema.TagFloat {
		f, acc := bf.Float32()
		if acc != big.Exact {
			return nil, errors.Overflow(errors.PhaseCoerce, nil, n.String(), tag.String())
		}
		return f, nil
	}
	f, acc := bf.Float64()
	if acc != big.Exact {
		return nil, errors.Overflow(errors.PhaseCoerce, nil, n.String(), tag.String())
	}
	return f, nil
}
