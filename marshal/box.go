package marshal

import (
	"math"

	"github.com/google/uuid"

	"github.com/wippyai/xpbridge"
	"github.com/wippyai/xpbridge/errors"
	"github.com/wippyai/xpbridge/value"
	"github.com/wippyai/xpbridge/variant"
)

var (
	minInt32 = int64(math.MinInt32)
	maxInt32 = int64(math.MaxInt32)
)

// Box wraps a caller value in a variant, choosing the narrowest fitting
// type: integers become Int32, then Int64, then Uint64; byte strings become
// narrow strings and text wide strings. Sequences box element by element,
// holes becoming Empty; an empty sequence becomes EmptyArray.
func (e *Engine) Box(v value.Value) (*variant.Variant, error) {
	v = v.Deref()
	switch v.Kind() {
	case value.KindUnset, value.KindNull:
		return variant.NewEmpty(), nil
	case value.KindBool:
		b, _ := v.AsBool()
		return variant.NewBool(b), nil
	case value.KindInt:
		n, _ := v.AsInt()
		switch {
		case n.IsInt64() && n.Int64() >= minInt32 && n.Int64() <= maxInt32:
			return variant.NewInt32(int32(n.Int64())), nil
		case n.IsInt64():
			return variant.NewInt64(n.Int64()), nil
		case n.IsUint64():
			return variant.NewUint64(n.Uint64()), nil
		}
		return nil, errors.New(errors.PhaseBox, errors.KindUnsupportedVariantType).
			CallerType("int").Value(n.String()).Detail("integer exceeds 64 bits").Build()
	case value.KindFloat:
		f, _ := v.AsFloat()
		return variant.NewDouble(f), nil
	case value.KindBytes:
		b, _ := v.AsBytes()
		if err := e.checkStringLength(len(b)); err != nil {
			return nil, err
		}
		return variant.NewString(b), nil
	case value.KindString:
		s, _ := v.AsString()
		if err := e.checkStringLength(len(s)); err != nil {
			return nil, err
		}
		return variant.NewWString(s), nil
	case value.KindSequence:
		elems, _ := v.Elems()
		if len(elems) > e.limits.MaxArrayLength {
			return nil, errors.New(errors.PhaseBox, errors.KindInvalidLength).
				Value(len(elems)).Detail("array length %d exceeds limit %d", len(elems), e.limits.MaxArrayLength).Build()
		}
		boxed := make([]*variant.Variant, len(elems))
		for i, el := range elems {
			b, err := e.Box(el)
			if err != nil {
				return nil, errors.AtIndex(errors.PhaseBox, nil, i, err)
			}
			boxed[i] = b
		}
		return variant.NewArray(boxed...), nil
	case value.KindObject:
		o, _ := v.AsObject()
		return variant.NewInterface(o), nil
	case value.KindID:
		id, _ := v.AsID()
		return variant.NewID(id), nil
	case value.KindVariant:
		inner, _ := v.AsVariant()
		return inner.Clone(), nil
	}
	return nil, errors.UnsupportedVariantType(errors.PhaseBox, nil, v.Kind().String())
}

// Unbox converts a variant back into a caller value. Empty and nil become
// null; EmptyArray becomes an empty, non-null sequence.
func (e *Engine) Unbox(v *variant.Variant) (value.Value, error) {
	switch v.Type() {
	case variant.Empty:
		return value.Null(), nil
	case variant.EmptyArray:
		return value.Seq(), nil
	case variant.Array:
		elems := v.Elems()
		out := make([]value.Value, len(elems))
		for i, el := range elems {
			u, err := e.Unbox(el)
			if err != nil {
				return value.Value{}, errors.AtIndex(errors.PhaseUnbox, nil, i, err)
			}
			out[i] = u
		}
		return value.Seq(out...), nil
	}

	switch d := v.Data().(type) {
	case bool:
		return value.Bool(d), nil
	case int32:
		return value.Int(int64(d)), nil
	case int64:
		return value.Int(d), nil
	case uint64:
		return value.Uint(d), nil
	case float64:
		return value.Float(d), nil
	case xpbridge.Char:
		return value.Bytes([]byte{byte(d)}), nil
	case xpbridge.WChar:
		return value.String(string(rune(d))), nil
	case []byte:
		return value.Bytes(d), nil
	case string:
		return value.String(d), nil
	case uuid.UUID:
		return value.ID(d), nil
	case xpbridge.Object:
		return value.Object(d), nil
	}
	return value.Value{}, errors.UnsupportedVariantType(errors.PhaseUnbox, nil, v.Type().String())
}
