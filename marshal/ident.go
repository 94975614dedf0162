package marshal

import (
	"github.com/wippyai/xpbridge"
	"github.com/wippyai/xpbridge/errors"
	"github.com/wippyai/xpbridge/schema"
	"github.com/wippyai/xpbridge/value"
)

func coerceIID(v value.Value) (any, error) {
	if id, ok := v.AsID(); ok {
		return id, nil
	}
	var text string
	if s, ok := v.AsString(); ok {
		text = s
	} else if b, ok := v.AsBytes(); ok {
		text = string(b)
	} else {
		return nil, mismatch(v, schema.TagIID)
	}
	return schema.ParseIID(text)
}

// coerceObject accepts null or an object that already implements the
// declared interface. Object pointers accept any object.
func coerceObject(v value.Value, typ schema.Type) (any, error) {
	if v.IsNull() {
		return nil, nil
	}
	obj, ok := v.AsObject()
	if !ok {
		return nil, mismatch(v, typ.Tag)
	}
	if typ.Tag == schema.TagInterface && !obj.Implements(typ.IID) {
		return nil, errors.New(errors.PhaseCoerce, errors.KindTypeMismatch).
			CallerType("object").NativeType(typ.Tag.String()).
			Detail("object does not implement %s", schema.FormatIID(typ.IID)).Build()
	}
	return obj, nil
}

func liftObject(native any, tag schema.Tag) (value.Value, error) {
	switch o := native.(type) {
	case nil:
		return value.Null(), nil
	case xpbridge.Object:
		return value.Object(o), nil
	}
	return value.Value{}, liftMismatch(native, tag)
}
