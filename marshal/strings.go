package marshal

import (
	"bytes"
	"slices"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/wippyai/xpbridge"
	"github.com/wippyai/xpbridge/errors"
	"github.com/wippyai/xpbridge/schema"
	"github.com/wippyai/xpbridge/value"
)

// Narrow strings carry one byte per character. Text is encoded to and
// decoded from them as ISO-8859-1; raw byte values pass unchanged.

func encodeNarrow(s string, tag schema.Tag) ([]byte, error) {
	b, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, errors.New(errors.PhaseCoerce, errors.KindTypeMismatch).
			CallerType("string").NativeType(tag.String()).Value(s).
			Detail("text not representable in a narrow string").Cause(err).Build()
	}
	return b, nil
}

func decodeNarrow(b []byte) string {
	s, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		// every byte maps to a code point in ISO-8859-1
		return string(b)
	}
	return string(s)
}

// narrowBytes returns the narrow form of a string-like caller value.
func narrowBytes(v value.Value, tag schema.Tag) ([]byte, bool, error) {
	if b, ok := v.AsBytes(); ok {
		return b, true, nil
	}
	if s, ok := v.AsString(); ok {
		b, err := encodeNarrow(s, tag)
		return b, true, err
	}
	return nil, false, nil
}

// wideUnits returns the UTF-16 form of a string-like caller value. Text
// and byte strings must hold valid UTF-8.
func wideUnits(v value.Value, tag schema.Tag) ([]uint16, bool, error) {
	if s, ok := v.AsString(); ok {
		if !utf8.ValidString(s) {
			return nil, true, errors.New(errors.PhaseCoerce, errors.KindTypeMismatch).
				CallerType("string").NativeType(tag.String()).
				Detail("text is not valid UTF-8").Build()
		}
		return utf16.Encode([]rune(s)), true, nil
	}
	if b, ok := v.AsBytes(); ok {
		if !utf8.Valid(b) {
			return nil, true, errors.New(errors.PhaseCoerce, errors.KindTypeMismatch).
				CallerType("bytes").NativeType(tag.String()).
				Detail("bytes are not valid UTF-8").Build()
		}
		return utf16.Encode([]rune(string(b))), true, nil
	}
	return nil, false, nil
}

// utf8Text returns the UTF-8 form of a string-like caller value.
func utf8Text(v value.Value, tag schema.Tag) (string, bool, error) {
	var s string
	if b, ok := v.AsBytes(); ok {
		s = string(b)
	} else if t, ok := v.AsString(); ok {
		s = t
	} else {
		return "", false, nil
	}
	if !utf8.ValidString(s) {
		return "", true, errors.New(errors.PhaseCoerce, errors.KindTypeMismatch).
			CallerType(v.Kind().String()).NativeType(tag.String()).
			Detail("not valid UTF-8").Build()
	}
	return s, true, nil
}

func truncateNUL(b []byte) []byte {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return b[:i]
	}
	return b
}

func truncateNUL16(u []uint16) []uint16 {
	if i := slices.Index(u, 0); i >= 0 {
		return u[:i]
	}
	return u
}

func (e *Engine) checkStringLength(n int) error {
	if n > e.limits.MaxStringLength {
		return errors.New(errors.PhaseCoerce, errors.KindInvalidLength).
			Value(n).Detail("string length %d exceeds limit %d", n, e.limits.MaxStringLength).Build()
	}
	return nil
}

func coerceChar(v value.Value, tag schema.Tag) (any, error) {
	if tag == schema.TagChar {
		b, ok, err := narrowBytes(v, tag)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, mismatch(v, tag)
		}
		if len(b) != 1 {
			return nil, errors.InvalidLength(errors.PhaseCoerce, nil, len(b), 1)
		}
		return xpbridge.Char(b[0]), nil
	}

	var s string
	if t, ok := v.AsString(); ok {
		s = t
	} else if b, ok := v.AsBytes(); ok {
		s = decodeNarrow(b)
	} else {
		return nil, mismatch(v, tag)
	}
	if n := utf8.RuneCountInString(s); n != 1 {
		return nil, errors.InvalidLength(errors.PhaseCoerce, nil, n, 1)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return xpbridge.WChar(r), nil
}

// coerceString handles the fixed and abstract string families. Null is an
// empty string for the fixed families and stays null for the abstract ones.
func (e *Engine) coerceString(v value.Value, tag schema.Tag) (any, error) {
	if v.IsNull() {
		return Zero(schema.Scalar(tag)), nil
	}

	switch tag {
	case schema.TagString, schema.TagACString:
		b, ok, err := narrowBytes(v, tag)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, mismatch(v, tag)
		}
		if err := e.checkStringLength(len(b)); err != nil {
			return nil, err
		}
		if tag == schema.TagString {
			return truncateNUL(b), nil
		}
		return xpbridge.ACString{Value: b}, nil

	case schema.TagWString, schema.TagAString, schema.TagDOMString:
		u, ok, err := wideUnits(v, tag)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, mismatch(v, tag)
		}
		if err := e.checkStringLength(len(u)); err != nil {
			return nil, err
		}
		if tag == schema.TagWString {
			return truncateNUL16(u), nil
		}
		return xpbridge.AString{Value: string(utf16.Decode(u))}, nil

	case schema.TagUTF8String:
		s, ok, err := utf8Text(v, tag)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, mismatch(v, tag)
		}
		if err := e.checkStringLength(len(s)); err != nil {
			return nil, err
		}
		return xpbridge.AUTF8String{Value: s}, nil
	}
	return nil, errors.Unsupported(errors.PhaseCoerce, "string type "+tag.String())
}
