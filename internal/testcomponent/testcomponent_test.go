package testcomponent

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/xpbridge/dispatch"
	"github.com/wippyai/xpbridge/errors"
	"github.com/wippyai/xpbridge/gateway"
	"github.com/wippyai/xpbridge/value"
)

func setup(t *testing.T) (*dispatch.Dispatcher, *gateway.Target, *Component) {
	t.Helper()
	r, err := NewResolver()
	require.NoError(t, err)
	tgt, c, err := New(r)
	require.NoError(t, err)
	return dispatch.NewWithDefaults(r), tgt, c
}

func equal(t *testing.T, want, got value.Value) {
	t.Helper()
	assert.True(t, value.Equal(want, got), "want %v, got %v", want, got)
}

func output(t *testing.T, res *dispatch.Result, name string) value.Value {
	t.Helper()
	v, ok := res.Output(name)
	require.True(t, ok, "no output %s", name)
	return v
}

func ints(n ...int64) value.Value {
	vs := make([]value.Value, len(n))
	for i, x := range n {
		vs[i] = value.Int(x)
	}
	return value.Seq(vs...)
}

func TestDoBoolean(t *testing.T) {
	d, tgt, _ := setup(t)
	ctx := context.Background()

	tests := []struct {
		p1, p2          bool
		ret, outP2, xor bool
	}{
		{true, true, false, true, false},
		{true, false, true, false, true},
		{false, true, true, false, true},
		{false, false, false, false, false},
	}
	for _, tt := range tests {
		res, err := d.Invoke(ctx, tgt, "do_boolean", value.Bool(tt.p1), value.Bool(tt.p2))
		require.NoError(t, err)
		equal(t, value.Bool(tt.ret), res.Return)
		equal(t, value.Bool(tt.outP2), output(t, res, "p2"))
		equal(t, value.Bool(tt.xor), output(t, res, "p3"))
	}
}

func TestDoNumbers(t *testing.T) {
	d, tgt, _ := setup(t)
	ctx := context.Background()

	methods := []string{
		"do_octet", "do_short", "do_unsigned_short", "do_long",
		"do_unsigned_long", "do_long_long", "do_unsigned_long_long",
	}
	cases := [][5]int64{
		{0, 0, 0, 0, 0},
		{1, 1, 2, 0, 1},
		{5, 2, 7, 3, 10},
	}
	for _, m := range methods {
		t.Run(m, func(t *testing.T) {
			for _, c := range cases {
				p2 := value.NewSlot(value.Int(c[1]))
				res, err := d.Invoke(ctx, tgt, m, value.Int(c[0]), value.Ref(p2))
				require.NoError(t, err)
				equal(t, value.Int(c[2]), res.Return)
				equal(t, value.Int(c[3]), p2.Value)
				equal(t, value.Int(c[4]), output(t, res, "p3"))
			}
		})
	}

	for _, m := range []string{"do_float", "do_double"} {
		res, err := d.Invoke(ctx, tgt, m, value.Float(1.5), value.Float(0.5))
		require.NoError(t, err)
		equal(t, value.Float(2), res.Return)
		equal(t, value.Float(1), output(t, res, "p2"))
		equal(t, value.Float(0.75), output(t, res, "p3"))
	}

	// numeric text is accepted for numeric params
	res, err := d.Invoke(ctx, tgt, "do_long", value.String("10"), value.Int(4))
	require.NoError(t, err)
	equal(t, value.Int(14), res.Return)

	_, err = d.Invoke(ctx, tgt, "do_octet", value.Int(256), value.Int(0))
	assert.Error(t, err)
	_, err = d.Invoke(ctx, tgt, "do_unsigned_long", value.Int(-1), value.Int(0))
	assert.Error(t, err)
}

func TestDoCharsAndStrings(t *testing.T) {
	d, tgt, _ := setup(t)
	ctx := context.Background()

	res, err := d.Invoke(ctx, tgt, "do_char", value.String("a"), value.Bytes([]byte{1}))
	require.NoError(t, err)
	equal(t, value.Bytes([]byte("b")), res.Return)
	equal(t, value.Bytes([]byte{1}), output(t, res, "p2"))
	equal(t, value.Bytes([]byte("a")), output(t, res, "p3"))

	res, err = d.Invoke(ctx, tgt, "do_wchar", value.String("a"), value.String("\x01"))
	require.NoError(t, err)
	equal(t, value.String("b"), res.Return)
	equal(t, value.String("a"), output(t, res, "p3"))

	_, err = d.Invoke(ctx, tgt, "do_char", value.String("ab"), value.String("c"))
	assert.ErrorIs(t, err, errors.ErrInvalidLength)

	res, err = d.Invoke(ctx, tgt, "do_string", value.String("foo"), value.String("bar"))
	require.NoError(t, err)
	equal(t, value.Bytes([]byte("foobar")), res.Return)
	equal(t, value.Bytes([]byte("foo")), output(t, res, "p2"))
	equal(t, value.Bytes([]byte("bar")), output(t, res, "p3"))

	// null is an empty fixed string
	res, err = d.Invoke(ctx, tgt, "do_string", value.Null(), value.String("bar"))
	require.NoError(t, err)
	equal(t, value.Bytes([]byte("bar")), res.Return)

	res, err = d.Invoke(ctx, tgt, "do_wstring", value.String("fö"), value.String("ô"))
	require.NoError(t, err)
	equal(t, value.String("föô"), res.Return)
	equal(t, value.String("fö"), output(t, res, "p2"))
	equal(t, value.String("ô"), output(t, res, "p3"))
}

func TestDoIdentifiersAndObjects(t *testing.T) {
	d, tgt, _ := setup(t)
	ctx := context.Background()

	res, err := d.Invoke(ctx, tgt, "do_iid", value.ID(TestIID), value.String("{7ee4bdc6-cb53-42c1-a9e4-616b8e012aba}"))
	require.NoError(t, err)
	equal(t, value.ID(TestIID), res.Return)
	equal(t, value.ID(TestIID), output(t, res, "p2"))
	equal(t, value.ID(ClassID), output(t, res, "p3"))

	_, err = d.Invoke(ctx, tgt, "do_iid", value.String("not-an-iid"), value.Null())
	assert.ErrorIs(t, err, errors.ErrMalformedIdentifier)

	res, err = d.Invoke(ctx, tgt, "do_interface", value.Object(tgt), value.Null())
	require.NoError(t, err)
	equal(t, value.Object(tgt), res.Return)
	assert.True(t, output(t, res, "p2").IsNull())
	equal(t, value.Object(tgt), output(t, res, "p3"))

	res, err = d.Invoke(ctx, tgt, "do_object", value.Null(), value.Object(tgt))
	require.NoError(t, err)
	equal(t, value.Object(tgt), res.Return)
	assert.True(t, output(t, res, "p2").IsNull())
	equal(t, value.Object(tgt), output(t, res, "p3"))

	_, err = d.Invoke(ctx, tgt, "do_interface", value.Int(2), value.Null())
	assert.ErrorIs(t, err, errors.ErrTypeMismatch)

	r, err := NewResolver()
	require.NoError(t, err)
	bare, _, err := New(r, Supports)
	require.NoError(t, err)
	_, err = d.Invoke(ctx, tgt, "do_interface", value.Object(bare), value.Null())
	assert.ErrorIs(t, err, errors.ErrTypeMismatch)
	// object pointers take any object
	_, err = d.Invoke(ctx, tgt, "do_object", value.Object(bare), value.Null())
	assert.NoError(t, err)
}

func TestQueryInterface(t *testing.T) {
	d, tgt, _ := setup(t)
	ctx := context.Background()

	for _, iid := range []value.Value{value.ID(SupportsIID), value.ID(TestIID), value.ID(TestExtraIID), value.ID(TestDOMIID)} {
		res, err := d.Invoke(ctx, tgt, "query_interface", iid)
		require.NoError(t, err)
		equal(t, value.Object(tgt), res.Return)
	}

	_, err := d.Invoke(ctx, tgt, "query_interface", value.ID(ClassID))
	assert.ErrorIs(t, err, errors.ErrNativeInvocationFailed)
	assert.ErrorIs(t, err, ErrNoInterface)
}

func TestSizedStrings(t *testing.T) {
	d, tgt, _ := setup(t)
	ctx := context.Background()

	t.Run("inout", func(t *testing.T) {
		res, err := d.Invoke(ctx, tgt, "DoubleString", value.Unset(), value.String("foo"))
		require.NoError(t, err)
		equal(t, value.Bytes([]byte("foofoo")), output(t, res, "str"))
		equal(t, value.Int(6), output(t, res, "count"))
	})

	t.Run("separate in and out", func(t *testing.T) {
		res, err := d.Invoke(ctx, tgt, "DoubleString2", value.Unset(), value.String("foo"))
		require.NoError(t, err)
		equal(t, value.Bytes([]byte("foofoo")), output(t, res, "out_str"))
		equal(t, value.Int(6), output(t, res, "out_count"))
	})

	t.Run("retval", func(t *testing.T) {
		res, err := d.Invoke(ctx, tgt, "DoubleString3", value.Unset(), value.String("ab"))
		require.NoError(t, err)
		equal(t, value.Bytes([]byte("abab")), res.Return)
		equal(t, value.Int(4), output(t, res, "out_count"))
	})

	t.Run("shared inout count", func(t *testing.T) {
		res, err := d.Invoke(ctx, tgt, "DoubleString4", value.String("ab"))
		require.NoError(t, err)
		equal(t, value.Bytes([]byte("abab")), output(t, res, "out_str"))
		equal(t, value.Int(4), output(t, res, "count"))
	})

	t.Run("explicit count clamps", func(t *testing.T) {
		res, err := d.Invoke(ctx, tgt, "UpString2", value.Int(2), value.String("abcd"))
		require.NoError(t, err)
		equal(t, value.Bytes([]byte("AB")), res.Return)
	})

	t.Run("upper case in place", func(t *testing.T) {
		str := value.NewSlot(value.Bytes([]byte("hello")))
		_, err := d.Invoke(ctx, tgt, "UpString", value.Unset(), value.Ref(str))
		require.NoError(t, err)
		equal(t, value.Bytes([]byte("HELLO")), str.Value)
	})

	t.Run("fixed", func(t *testing.T) {
		res, err := d.Invoke(ctx, tgt, "GetFixedString", value.Int(20))
		require.NoError(t, err)
		equal(t, value.Bytes([]byte(strings.Repeat("A", 20))), res.Return)

		res, err = d.Invoke(ctx, tgt, "GetFixedWideString", value.Int(3))
		require.NoError(t, err)
		equal(t, value.String("AAA"), res.Return)
	})

	t.Run("wide", func(t *testing.T) {
		res, err := d.Invoke(ctx, tgt, "DoubleWideString", value.Unset(), value.String("hé"))
		require.NoError(t, err)
		equal(t, value.String("héhé"), output(t, res, "str"))
		equal(t, value.Int(4), output(t, res, "count"))

		res, err = d.Invoke(ctx, tgt, "DoubleWideString2", value.Unset(), value.String("ab"))
		require.NoError(t, err)
		equal(t, value.String("abab"), output(t, res, "out_str"))

		res, err = d.Invoke(ctx, tgt, "UpWideString", value.Unset(), value.String("abc"))
		require.NoError(t, err)
		equal(t, value.String("ABC"), output(t, res, "str"))
	})

	t.Run("utf8", func(t *testing.T) {
		res, err := d.Invoke(ctx, tgt, "CopyUTF8String", value.String("héllo wörld"))
		require.NoError(t, err)
		equal(t, value.String("héllo wörld"), res.Return)

		res, err = d.Invoke(ctx, tgt, "CopyUTF8String", value.Null())
		require.NoError(t, err)
		assert.True(t, res.Return.IsNull())

		res, err = d.Invoke(ctx, tgt, "CopyUTF8String2", value.String("x"))
		require.NoError(t, err)
		equal(t, value.String("x"), output(t, res, "copy"))
	})
}

func TestIntegerArrays(t *testing.T) {
	d, tgt, _ := setup(t)
	ctx := context.Background()

	items := value.NewSlot(ints(1, 2, 3))
	_, err := d.Invoke(ctx, tgt, "MultiplyEachItemInIntegerArray", value.Int(3), value.Unset(), value.Ref(items))
	require.NoError(t, err)
	equal(t, ints(3, 6, 9), items.Value)

	res, err := d.Invoke(ctx, tgt, "MultiplyEachItemInIntegerArrayAndAppend", value.Int(2), value.Unset(), ints(1, 2))
	require.NoError(t, err)
	equal(t, ints(1, 2, 2, 4), output(t, res, "items"))
	equal(t, value.Int(4), output(t, res, "count"))

	res, err = d.Invoke(ctx, tgt, "GetArrays")
	require.NoError(t, err)
	equal(t, value.Int(3), output(t, res, "count"))
	equal(t, ints(1, 2, 3), output(t, res, "a"))
	equal(t, ints(4, 5, 6), output(t, res, "b"))

	res, err = d.Invoke(ctx, tgt, "SumArrays", value.Unset(), ints(1, 2, 3), ints(4, 5, 6))
	require.NoError(t, err)
	equal(t, ints(5, 7, 9), res.Return)

	// an explicit count pads the shorter array
	res, err = d.Invoke(ctx, tgt, "SumArrays", value.Int(3), ints(1, 2, 3), ints(4))
	require.NoError(t, err)
	equal(t, ints(5, 2, 3), res.Return)

	res, err = d.Invoke(ctx, tgt, "CopyArray", value.Unset(), ints(7, 8))
	require.NoError(t, err)
	equal(t, ints(7, 8), res.Return)

	res, err = d.Invoke(ctx, tgt, "CopyAndDoubleArray", value.Unset(), ints(1, 2))
	require.NoError(t, err)
	equal(t, ints(1, 2, 1, 2), res.Return)
	equal(t, value.Int(4), output(t, res, "count"))

	res, err = d.Invoke(ctx, tgt, "AppendArray", value.Unset(), ints(1, 2, 3), ints(4, 5, 6))
	require.NoError(t, err)
	equal(t, ints(1, 2, 3, 4, 5, 6), output(t, res, "tail"))
	equal(t, value.Int(6), output(t, res, "count"))

	res, err = d.Invoke(ctx, tgt, "ReturnArray")
	require.NoError(t, err)
	equal(t, ints(1, 2, 3), res.Return)
	equal(t, value.Int(3), output(t, res, "count"))

	// counts are unsigned
	_, err = d.Invoke(ctx, tgt, "SumArrays", value.Int(-1), ints(1), ints(1))
	assert.ErrorIs(t, err, errors.ErrTypeMismatch)
}

func TestStringAndOctetArrays(t *testing.T) {
	d, tgt, _ := setup(t)
	ctx := context.Background()

	res, err := d.Invoke(ctx, tgt, "DoubleStringArray", value.Unset(), value.Seq(value.String("a"), value.Bytes([]byte("bc"))))
	require.NoError(t, err)
	equal(t, value.Seq(value.Bytes([]byte("aa")), value.Bytes([]byte("bcbc"))), output(t, res, "items"))

	res, err = d.Invoke(ctx, tgt, "CompareStringArrays",
		value.Seq(value.String("a"), value.String("b")),
		value.Seq(value.String("a"), value.String("c")))
	require.NoError(t, err)
	equal(t, value.Int(-1), res.Return)

	res, err = d.Invoke(ctx, tgt, "ReverseStringArray", value.Unset(), value.Seq(value.String("x"), value.String("y")))
	require.NoError(t, err)
	equal(t, value.Seq(value.Bytes([]byte("y")), value.Bytes([]byte("x"))), output(t, res, "items"))

	res, err = d.Invoke(ctx, tgt, "GetStrings")
	require.NoError(t, err)
	words := strings.Fields("Hello from the bridge test component")
	want := make([]value.Value, len(words))
	for i, w := range words {
		want[i] = value.Bytes([]byte(w))
	}
	equal(t, value.Seq(want...), res.Return)
	equal(t, value.Int(int64(len(words))), output(t, res, "count"))

	// octet arrays take byte strings and lift to integer sequences
	res, err = d.Invoke(ctx, tgt, "UpOctetArray", value.Unset(), value.Bytes([]byte("abc")))
	require.NoError(t, err)
	equal(t, ints('A', 'B', 'C'), output(t, res, "data"))
}

func TestInterfaceAndIIDArrays(t *testing.T) {
	d, tgt, _ := setup(t)
	ctx := context.Background()
	obj := value.Object(tgt)

	for _, tt := range []struct {
		items value.Value
		want  bool
	}{
		{value.Seq(obj, obj), true},
		{value.Seq(obj, value.Null()), false},
		{value.Seq(), true},
	} {
		res, err := d.Invoke(ctx, tgt, "CheckInterfaceArray", value.Unset(), tt.items)
		require.NoError(t, err)
		equal(t, value.Bool(tt.want), res.Return)
	}

	res, err := d.Invoke(ctx, tgt, "CopyInterfaceArray", value.Unset(), value.Seq(obj, value.Null()))
	require.NoError(t, err)
	equal(t, value.Seq(obj, value.Null()), res.Return)
	equal(t, value.Int(2), output(t, res, "out_count"))

	res, err = d.Invoke(ctx, tgt, "GetInterfaceArray")
	require.NoError(t, err)
	equal(t, value.Seq(obj, obj, obj, value.Null()), res.Return)

	res, err = d.Invoke(ctx, tgt, "ExtendInterfaceArray", value.Unset(), value.Seq(obj))
	require.NoError(t, err)
	equal(t, value.Seq(obj, obj), output(t, res, "items"))

	res, err = d.Invoke(ctx, tgt, "GetIIDArray")
	require.NoError(t, err)
	equal(t, value.Seq(value.ID(TestDOMIID), value.ID(ClassID)), res.Return)

	res, err = d.Invoke(ctx, tgt, "ExtendIIDArray", value.Unset(), value.Seq(value.ID(TestIID)))
	require.NoError(t, err)
	equal(t, value.Seq(value.ID(TestIID), value.ID(TestIID)), output(t, res, "items"))

	_, err = d.Invoke(ctx, tgt, "CheckInterfaceArray", value.Unset(), value.Seq(obj, value.Int(1)))
	require.Error(t, err)
	var xe *errors.Error
	require.ErrorAs(t, err, &xe)
	assert.Equal(t, 1, xe.Index)
}

func TestVariants(t *testing.T) {
	d, tgt, _ := setup(t)
	ctx := context.Background()

	for _, v := range []value.Value{
		value.Int(5),
		value.Float(2.5),
		value.Bool(true),
		value.String("text"),
		value.Bytes([]byte("raw")),
		value.ID(TestIID),
		value.Seq(value.Int(1), value.String("a")),
		value.Seq(),
		value.Null(),
	} {
		res, err := d.Invoke(ctx, tgt, "CopyVariant", v)
		require.NoError(t, err)
		equal(t, v, res.Return)
	}

	tests := []struct {
		name string
		a, b value.Value
		want value.Value
	}{
		{"ints", value.Int(1), value.Int(2), value.Int(3)},
		{"arrays", value.Seq(value.Int(1), value.Int(2)), value.Seq(value.Int(3), value.Int(4)), value.Int(10)},
		{"strings", value.String("bar"), value.String("foo"), value.String("foobar")},
		{"mixed numbers", value.Float(1.5), value.Int(1), value.Float(2.5)},
		{"nulls", value.Null(), value.Null(), value.Null()},
		{"wide result", value.Int(1 << 40), value.Int(1), value.Int(1<<40 + 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := d.Invoke(ctx, tgt, "AppendVariant", tt.a, tt.b)
			require.NoError(t, err)
			equal(t, tt.want, res.Return)
		})
	}

	_, err := d.Invoke(ctx, tgt, "AppendVariant", value.String("a"), value.Int(1))
	assert.ErrorIs(t, err, errors.ErrNativeInvocationFailed)

	res, err := d.Invoke(ctx, tgt, "SumVariants", value.Unset(), value.Seq(value.Int(1), value.Int(2), value.Seq(value.Int(3))))
	require.NoError(t, err)
	equal(t, value.Int(6), res.Return)
}

func TestOptionalParams(t *testing.T) {
	d, tgt, c := setup(t)
	ctx := context.Background()

	get := func(name string) value.Value {
		v, err := d.GetAttribute(ctx, tgt, name)
		require.NoError(t, err)
		return v
	}

	equal(t, value.Int(1), get("optional_number_1"))
	equal(t, value.String("string 2"), get("optional_string_2"))

	_, err := d.Invoke(ctx, tgt, "SetOptionalNumbers", value.Int(5))
	require.NoError(t, err)
	assert.Equal(t, int32(5), c.OptionalNumber1)
	assert.Equal(t, int32(0), c.OptionalNumber2)

	_, err = d.Invoke(ctx, tgt, "SetOptionalNumbers")
	require.NoError(t, err)
	equal(t, value.Int(0), get("optional_number_1"))

	_, err = d.Invoke(ctx, tgt, "SetOptionalStrings", value.String("x"))
	require.NoError(t, err)
	equal(t, value.String("x"), get("optional_string_1"))
	assert.True(t, get("optional_string_2").IsNull())

	_, err = d.Invoke(ctx, tgt, "SetNumbersAndOptionalStrings", value.Int(1), value.Int(2), value.String("s"))
	require.NoError(t, err)
	equal(t, value.Int(2), get("optional_number_2"))
	equal(t, value.String("s"), get("optional_string_1"))

	_, err = d.Invoke(ctx, tgt, "SetNumbersAndOptionalStrings", value.Int(1))
	assert.ErrorIs(t, err, errors.ErrArgumentCount)

	_, err = d.Invoke(ctx, tgt, "SetOptionalNumbersAndStrings", value.Int(1), value.Int(2), value.String("a"), value.String("b"), value.Int(9))
	assert.ErrorIs(t, err, errors.ErrArgumentCount)
}

func TestAttributes(t *testing.T) {
	d, tgt, c := setup(t)
	ctx := context.Background()

	initial := map[string]value.Value{
		"boolean_value":    value.Bool(true),
		"octet_value":      value.Int(2),
		"short_value":      value.Int(3),
		"ushort_value":     value.Int(4),
		"long_value":       value.Int(5),
		"ulong_value":      value.Int(6),
		"long_long_value":  value.Int(7),
		"ulong_long_value": value.Int(8),
		"float_value":      value.Float(9),
		"double_value":     value.Float(10),
		"char_value":       value.Bytes([]byte("a")),
		"wchar_value":      value.String("b"),
		"string_value":     value.Bytes([]byte("cee")),
		"wstring_value":    value.String("dee"),
		"astring_value":    value.String("astring"),
		"acstring_value":   value.Bytes([]byte("acstring")),
		"utf8string_value": value.String("utf8string"),
		"iid_value":        value.ID(ClassID),
		"interface_value":  value.Null(),
		"isupports_value":  value.Null(),
		"domstring_value":  value.String("dom"),
	}
	for name, want := range initial {
		got, err := d.GetAttribute(ctx, tgt, name)
		require.NoError(t, err, name)
		assert.True(t, value.Equal(want, got), "%s: want %v, got %v", name, want, got)
	}

	// any non-zero number is true
	require.NoError(t, d.SetAttribute(ctx, tgt, "boolean_value", value.Int(4)))
	v, err := d.GetAttribute(ctx, tgt, "boolean_value")
	require.NoError(t, err)
	equal(t, value.Bool(true), v)
	require.NoError(t, d.SetAttribute(ctx, tgt, "boolean_value", value.Int(0)))
	v, _ = d.GetAttribute(ctx, tgt, "boolean_value")
	equal(t, value.Bool(false), v)

	require.NoError(t, d.SetAttribute(ctx, tgt, "ulong_long_value", value.Uint(1<<63)))
	assert.Equal(t, uint64(1<<63), c.ULongLongValue)

	assert.Error(t, d.SetAttribute(ctx, tgt, "ulong_value", value.Int(-1)))
	assert.Equal(t, uint32(6), c.ULongValue)

	require.NoError(t, d.SetAttribute(ctx, tgt, "interface_value", value.Object(tgt)))
	v, err = d.GetAttribute(ctx, tgt, "interface_value")
	require.NoError(t, err)
	equal(t, value.Object(tgt), v)
	assert.ErrorIs(t, d.SetAttribute(ctx, tgt, "interface_value", value.Int(2)), errors.ErrTypeMismatch)

	require.NoError(t, d.SetAttribute(ctx, tgt, "iid_value", value.String("1ecaed4f-e4d5-4ee7-abf0-7d72ae1441d7")))
	assert.Equal(t, TestIID, c.IIDValue)

	require.NoError(t, d.SetAttribute(ctx, tgt, "astring_value", value.Null()))
	v, _ = d.GetAttribute(ctx, tgt, "astring_value")
	assert.True(t, v.IsNull())

	v, err = d.GetAttribute(ctx, tgt, "domstring_value_ro")
	require.NoError(t, err)
	equal(t, value.String("dom"), v)
	assert.ErrorIs(t, d.SetAttribute(ctx, tgt, "domstring_value_ro", value.String("x")), errors.ErrReadOnly)

	_, err = d.GetAttribute(ctx, tgt, "no_such_value")
	assert.ErrorIs(t, err, errors.ErrUnknownMethod)
}

func TestConstants(t *testing.T) {
	d, tgt, _ := setup(t)
	ctx := context.Background()

	for name, want := range map[string]value.Value{
		"One":        value.Int(1),
		"Two":        value.Int(2),
		"MinusOne":   value.Int(-1),
		"BigLong":    value.Int(2147483647),
		"BiggerLong": value.Int(-1),
		"BigULong":   value.Int(4294967295),
	} {
		got, err := d.GetAttribute(ctx, tgt, name)
		require.NoError(t, err, name)
		assert.True(t, value.Equal(want, got), "%s: want %v, got %v", name, want, got)
	}
	assert.ErrorIs(t, d.SetAttribute(ctx, tgt, "One", value.Int(2)), errors.ErrReadOnly)
}

func TestDOMStrings(t *testing.T) {
	d, tgt, _ := setup(t)
	ctx := context.Background()

	res, err := d.Invoke(ctx, tgt, "GetDOMStringResult", value.Int(3))
	require.NoError(t, err)
	equal(t, value.String("PPP"), res.Return)

	res, err = d.Invoke(ctx, tgt, "GetDOMStringResult", value.Int(-1))
	require.NoError(t, err)
	assert.True(t, res.Return.IsNull())

	res, err = d.Invoke(ctx, tgt, "GetDOMStringOut", value.Int(2))
	require.NoError(t, err)
	equal(t, value.String("yy"), output(t, res, "str"))

	res, err = d.Invoke(ctx, tgt, "GetDOMStringLength", value.String("a\U0001F600"))
	require.NoError(t, err)
	equal(t, value.Int(3), res.Return)

	res, err = d.Invoke(ctx, tgt, "ConcatDOMStrings", value.Null(), value.String("b"))
	require.NoError(t, err)
	equal(t, value.String("b"), res.Return)
}

func TestInterfaceSelection(t *testing.T) {
	r, err := NewResolver()
	require.NoError(t, err)
	tgt, _, err := New(r, Test)
	require.NoError(t, err)
	d := dispatch.NewWithDefaults(r)
	ctx := context.Background()

	_, err = d.Invoke(ctx, tgt, "do_long", value.Int(1), value.Int(1))
	require.NoError(t, err)
	_, err = d.Invoke(ctx, tgt, "DoubleString", value.Unset(), value.String("x"))
	assert.ErrorIs(t, err, errors.ErrUnknownMethod)
	assert.False(t, tgt.Implements(TestExtraIID))

	assert.NotEmpty(t, Schema())
}
