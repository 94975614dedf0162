package marshal

import (
	"reflect"
	"unicode/utf16"

	"github.com/wippyai/xpbridge/errors"
	"github.com/wippyai/xpbridge/schema"
	"github.com/wippyai/xpbridge/value"
)

// BindArray coerces a caller sequence into a native slice of elem.
//
// declared is the caller-supplied count, or negative when the caller left
// the size unset, in which case the sequence length is used. An explicit
// count governs: extra elements are ignored and missing ones take the
// element default, as do holes. Null is an empty array. The returned count
// is the value for the paired size parameter.
func (e *Engine) BindArray(v value.Value, elem schema.Type, declared int) (any, int, error) {
	elems, err := e.arrayElems(v.Deref(), elem)
	if err != nil {
		return nil, 0, err
	}

	count := declared
	if count < 0 {
		count = len(elems)
	}
	if count > e.limits.MaxArrayLength {
		return nil, 0, errors.New(errors.PhaseCoerce, errors.KindInvalidLength).
			Value(count).Detail("array length %d exceeds limit %d", count, e.limits.MaxArrayLength).Build()
	}

	out := reflect.MakeSlice(reflect.SliceOf(NativeType(elem)), count, count)
	read := min(count, len(elems))
	for i := range count {
		var ev value.Value
		if i < read {
			ev = elems[i]
		}
		native, err := e.coerce(ev, elem)
		if err != nil {
			return nil, 0, errors.AtIndex(errors.PhaseCoerce, nil, i, err)
		}
		assign(out.Index(i), native)
	}
	return out.Interface(), count, nil
}

// arrayElems returns the caller elements of an array argument. Byte and
// text strings are accepted for octet and char arrays.
func (e *Engine) arrayElems(v value.Value, elem schema.Type) ([]value.Value, error) {
	if inner, ok := v.AsVariant(); ok {
		unboxed, err := e.Unbox(inner)
		if err != nil {
			return nil, err
		}
		v = unboxed
	}
	if v.IsUnset() || v.IsNull() {
		return nil, nil
	}
	if seq, ok := v.Elems(); ok {
		return seq, nil
	}

	if elem.Tag == schema.TagOctet || elem.Tag == schema.TagChar {
		b, ok, err := narrowBytes(v, elem.Tag)
		if err != nil {
			return nil, err
		}
		if ok {
			elems := make([]value.Value, len(b))
			for i, c := range b {
				if elem.Tag == schema.TagOctet {
					elems[i] = value.Int(int64(c))
				} else {
					elems[i] = value.Bytes([]byte{c})
				}
			}
			return elems, nil
		}
	}
	return nil, mismatch(v, schema.TagArray)
}

// BindSizedString coerces a caller string into a length-prefixed native
// string. Like BindArray, an explicit count clamps or zero-pads the content
// and a negative count means the string's own length. Embedded NULs are
// kept.
func (e *Engine) BindSizedString(v value.Value, typ schema.Type, declared int) (any, int, error) {
	v = v.Deref()
	if inner, ok := v.AsVariant(); ok {
		unboxed, err := e.Unbox(inner)
		if err != nil {
			return nil, 0, err
		}
		v = unboxed
	}
	empty := v.IsUnset() || v.IsNull()

	if typ.Tag == schema.TagSizedString {
		var b []byte
		if !empty {
			var ok bool
			var err error
			if b, ok, err = narrowBytes(v, typ.Tag); err != nil {
				return nil, 0, err
			} else if !ok {
				return nil, 0, mismatch(v, typ.Tag)
			}
		}
		count, err := e.sizedCount(declared, len(b))
		if err != nil {
			return nil, 0, err
		}
		return clamp(b, count), count, nil
	}

	var u []uint16
	if !empty {
		var ok bool
		var err error
		if u, ok, err = wideUnits(v, typ.Tag); err != nil {
			return nil, 0, err
		} else if !ok {
			return nil, 0, mismatch(v, typ.Tag)
		}
	}
	count, err := e.sizedCount(declared, len(u))
	if err != nil {
		return nil, 0, err
	}
	return clamp(u, count), count, nil
}

func (e *Engine) sizedCount(declared, actual int) (int, error) {
	count := declared
	if count < 0 {
		count = actual
	}
	if err := e.checkStringLength(count); err != nil {
		return 0, err
	}
	return count, nil
}

// clamp returns exactly n units of s, zero-padded when s is shorter.
func clamp[T byte | uint16](s []T, n int) []T {
	out := make([]T, n)
	copy(out, s)
	return out
}

// LiftArray converts a native slice back into a caller sequence. A
// non-negative count bounds how many elements are read; it never reads
// past the slice.
func (e *Engine) LiftArray(native any, elem schema.Type, count int) (value.Value, error) {
	if native == nil {
		return value.Seq(), nil
	}
	rv := reflect.ValueOf(native)
	if rv.Kind() != reflect.Slice {
		return value.Value{}, liftMismatch(native, schema.TagArray)
	}

	n := rv.Len()
	if count >= 0 && count < n {
		n = count
	}
	elems := make([]value.Value, n)
	for i := range n {
		v, err := e.Lift(rv.Index(i).Interface(), elem)
		if err != nil {
			return value.Value{}, errors.AtIndex(errors.PhaseLift, nil, i, err)
		}
		elems[i] = v
	}
	return value.Seq(elems...), nil
}

// LiftSizedString converts a length-prefixed native string back into a
// caller string of exactly count units, clamped to the storage length.
// Narrow strings lift to byte strings and wide strings to text.
func (e *Engine) LiftSizedString(native any, typ schema.Type, count int) (value.Value, error) {
	switch s := native.(type) {
	case []byte:
		if count >= 0 && count < len(s) {
			s = s[:count]
		}
		return value.Bytes(s), nil
	case []uint16:
		if count >= 0 && count < len(s) {
			s = s[:count]
		}
		return value.String(string(utf16.Decode(s))), nil
	case nil:
		if typ.Tag == schema.TagSizedString {
			return value.Bytes(nil), nil
		}
		return value.String(""), nil
	}
	return value.Value{}, liftMismatch(native, typ.Tag)
}
