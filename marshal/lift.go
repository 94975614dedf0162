package marshal

import (
	"fmt"
	"unicode/utf16"

	"github.com/google/uuid"

	"github.com/wippyai/xpbridge"
	"github.com/wippyai/xpbridge/errors"
	"github.com/wippyai/xpbridge/internal/numconv"
	"github.com/wippyai/xpbridge/schema"
	"github.com/wippyai/xpbridge/value"
	"github.com/wippyai/xpbridge/variant"
)

func liftMismatch(native any, tag schema.Tag) *errors.Error {
	return errors.New(errors.PhaseLift, errors.KindTypeMismatch).
		CallerType(fmt.Sprintf("%T", native)).
		NativeType(tag.String()).
		Detail("native value does not match declared type").
		Build()
}

// Lift converts a native value of typ back into its caller form.
//
// Narrow strings and chars lift to byte strings, wide and UTF-8 strings to
// text. Fixed strings stop at the first NUL; null abstract strings,
// interfaces and empty variants lift to null. Arrays and length-prefixed
// strings lift with their own length; use LiftArray and LiftSizedString to
// apply a count.
func (e *Engine) Lift(native any, typ schema.Type) (value.Value, error) {
	switch tag := typ.Tag; {
	case tag == schema.TagBoolean:
		if b, ok := native.(bool); ok {
			return value.Bool(b), nil
		}
	case tag.IsInteger():
		if tag == schema.TagULongLong {
			if u, ok := numconv.Uint64(native); ok {
				return value.Uint(u), nil
			}
		} else if i, ok := numconv.Int64(native); ok {
			return value.Int(i), nil
		}
	case tag == schema.TagFloat || tag == schema.TagDouble:
		if f, ok := numconv.Float64(native); ok {
			return value.Float(f), nil
		}
	case tag == schema.TagChar:
		if c, ok := native.(xpbridge.Char); ok {
			return value.Bytes([]byte{byte(c)}), nil
		}
	case tag == schema.TagWChar:
		if c, ok := native.(xpbridge.WChar); ok {
			return value.String(string(rune(c))), nil
		}
	case tag == schema.TagString:
		if b, ok := native.([]byte); ok {
			return value.Bytes(truncateNUL(b)), nil
		}
	case tag == schema.TagWString:
		if u, ok := native.([]uint16); ok {
			return value.String(string(utf16.Decode(truncateNUL16(u)))), nil
		}
	case tag == schema.TagSizedString || tag == schema.TagSizedWString:
		return e.LiftSizedString(native, typ, -1)
	case tag == schema.TagAString || tag == schema.TagDOMString:
		if s, ok := native.(xpbridge.AString); ok {
			if s.Void {
				return value.Null(), nil
			}
			return value.String(s.Value), nil
		}
	case tag == schema.TagACString:
		if s, ok := native.(xpbridge.ACString); ok {
			if s.Void {
				return value.Null(), nil
			}
			return value.Bytes(s.Value), nil
		}
	case tag == schema.TagUTF8String:
		if s, ok := native.(xpbridge.AUTF8String); ok {
			if s.Void {
				return value.Null(), nil
			}
			return value.String(s.Value), nil
		}
	case tag == schema.TagIID:
		if id, ok := native.(uuid.UUID); ok {
			return value.ID(id), nil
		}
	case tag == schema.TagInterface || tag == schema.TagObject:
		return liftObject(native, tag)
	case tag == schema.TagVariant:
		if v, ok := native.(*variant.Variant); ok || native == nil {
			return e.Unbox(v)
		}
	case tag == schema.TagArray:
		return e.LiftArray(native, *typ.Elem, -1)
	}
	return value.Value{}, liftMismatch(native, typ.Tag)
}
