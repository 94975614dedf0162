package marshal

import (
	stderrors "errors"
	"math"
	"math/big"
	"reflect"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/xpbridge"
	"github.com/wippyai/xpbridge/errors"
	"github.com/wippyai/xpbridge/schema"
	"github.com/wippyai/xpbridge/value"
	"github.com/wippyai/xpbridge/variant"
)

var (
	testIID  = uuid.MustParse("1ecaed4f-e4d5-4ee7-abf0-7d72ae1441d7")
	otherIID = uuid.MustParse("00000000-0000-0000-c000-000000000046")
)

type testObject struct{ iid uuid.UUID }

func (o *testObject) Implements(iid uuid.UUID) bool { return o.iid == iid }

func scalar(tag schema.Tag) schema.Type { return schema.Scalar(tag) }

func roundTrip(t *testing.T, e *Engine, v value.Value, typ schema.Type) value.Value {
	t.Helper()
	native, err := e.Coerce(v, typ, schema.In)
	require.NoError(t, err, "coerce %v to %s", v, typ)
	out, err := e.Lift(native, typ)
	require.NoError(t, err, "lift %v from %s", native, typ)
	return out
}

func TestScalarRoundTripBoundaries(t *testing.T) {
	e := New(DefaultLimits())
	tests := []struct {
		tag    schema.Tag
		values []value.Value
	}{
		{schema.TagBoolean, []value.Value{value.Bool(false), value.Bool(true)}},
		{schema.TagOctet, []value.Value{value.Int(0), value.Int(math.MaxUint8)}},
		{schema.TagShort, []value.Value{value.Int(0), value.Int(math.MinInt16), value.Int(math.MaxInt16)}},
		{schema.TagUShort, []value.Value{value.Int(0), value.Int(math.MaxUint16)}},
		{schema.TagLong, []value.Value{value.Int(0), value.Int(math.MinInt32), value.Int(math.MaxInt32)}},
		{schema.TagULong, []value.Value{value.Int(0), value.Int(math.MaxUint32)}},
		{schema.TagLongLong, []value.Value{value.Int(0), value.Int(math.MinInt64), value.Int(math.MaxInt64)}},
		{schema.TagULongLong, []value.Value{value.Uint(0), value.Uint(math.MaxUint64)}},
		{schema.TagFloat, []value.Value{value.Float(0), value.Float(0.5), value.Float(-math.MaxFloat32)}},
		{schema.TagDouble, []value.Value{value.Float(0), value.Float(math.MaxFloat64), value.Float(math.SmallestNonzeroFloat64)}},
	}

	for _, tt := range tests {
		t.Run(tt.tag.String(), func(t *testing.T) {
			for _, v := range tt.values {
				got := roundTrip(t, e, v, scalar(tt.tag))
				assert.True(t, value.Equal(v, got), "%v came back as %v", v, got)

				boxed, err := e.Box(v)
				require.NoError(t, err)
				unboxed, err := e.Unbox(boxed)
				require.NoError(t, err)
				assert.True(t, value.Equal(v, unboxed), "box %v came back as %v", v, unboxed)
			}
		})
	}
}

func TestNativeTypes(t *testing.T) {
	e := New(Limits{})
	native, err := e.Coerce(value.Int(7), scalar(schema.TagShort), schema.In)
	require.NoError(t, err)
	assert.Equal(t, int16(7), native)

	native, err = e.Coerce(value.Int(7), scalar(schema.TagFloat), schema.In)
	require.NoError(t, err)
	assert.Equal(t, float32(7), native)

	native, err = e.Coerce(value.Int(7), scalar(schema.TagULongLong), schema.In)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), native)
}

func TestIntegerOverflow(t *testing.T) {
	e := New(DefaultLimits())
	tooBig := new(big.Int).Add(new(big.Int).SetUint64(math.MaxUint64), big.NewInt(1))
	tests := []struct {
		v   value.Value
		tag schema.Tag
	}{
		{value.Int(256), schema.TagOctet},
		{value.Int(-1), schema.TagOctet},
		{value.Int(math.MaxInt16 + 1), schema.TagShort},
		{value.Int(math.MinInt16 - 1), schema.TagShort},
		{value.Int(-1), schema.TagULong},
		{value.Int(math.MaxUint32 + 1), schema.TagULong},
		{value.Uint(math.MaxInt64 + 1), schema.TagLongLong},
		{value.BigInt(tooBig), schema.TagULongLong},
		{value.Int(-1), schema.TagULongLong},
		{value.Float(1e39), schema.TagFloat},
	}
	for _, tt := range tests {
		_, err := e.Coerce(tt.v, scalar(tt.tag), schema.In)
		require.Error(t, err, "%v into %s", tt.v, tt.tag)
		assert.True(t, stderrors.Is(err, errors.ErrTypeMismatch))
		assert.Contains(t, err.Error(), "overflows")
	}
}

func TestNumericConversions(t *testing.T) {
	e := New(DefaultLimits())
	long := scalar(schema.TagLong)

	native, err := e.Coerce(value.Float(3), long, schema.In)
	require.NoError(t, err)
	assert.Equal(t, int32(3), native)

	_, err = e.Coerce(value.Float(3.5), long, schema.In)
	assert.ErrorContains(t, err, "not integral")

	native, err = e.Coerce(value.String(" 42 "), long, schema.In)
	require.NoError(t, err)
	assert.Equal(t, int32(42), native)

	native, err = e.Coerce(value.Bytes([]byte("0x10")), long, schema.In)
	require.NoError(t, err)
	assert.Equal(t, int32(16), native)

	native, err = e.Coerce(value.String("2.5"), scalar(schema.TagDouble), schema.In)
	require.NoError(t, err)
	assert.Equal(t, 2.5, native)

	for _, bad := range []value.Value{value.String("forty"), value.Null(), value.Seq(), value.ID(testIID)} {
		_, err = e.Coerce(bad, long, schema.In)
		assert.True(t, stderrors.Is(err, errors.ErrTypeMismatch), "%v", bad)
	}
}

func TestIntegerToFloat(t *testing.T) {
	e := New(DefaultLimits())
	huge := new(big.Int).Exp(big.NewInt(10), big.NewInt(400), nil)
	above53 := new(big.Int).Add(new(big.Int).Lsh(big.NewInt(1), 53), big.NewInt(1))

	native, err := e.Coerce(value.Int(1<<53), scalar(schema.TagDouble), schema.In)
	require.NoError(t, err)
	assert.Equal(t, float64(1<<53), native)
	native, err = e.Coerce(value.Int(-(1 << 24)), scalar(schema.TagFloat), schema.In)
	require.NoError(t, err)
	assert.Equal(t, float32(-(1 << 24)), native)

	tests := []struct {
		n   *big.Int
		tag schema.Tag
	}{
		{huge, schema.TagDouble},
		{huge, schema.TagFloat},
		{new(big.Int).Neg(huge), schema.TagDouble},
		{above53, schema.TagDouble},
		{big.NewInt(1<<24 + 1), schema.TagFloat},
	}
	for _, tt := range tests {
		_, err := e.Coerce(value.BigInt(tt.n), scalar(tt.tag), schema.In)
		require.Error(t, err, "%s into %s", tt.n, tt.tag)
		assert.True(t, stderrors.Is(err, errors.ErrTypeMismatch))
		assert.Contains(t, err.Error(), "overflows")
	}
}

func TestBoolean(t *testing.T) {
	e := New(DefaultLimits())
	boolean := scalar(schema.TagBoolean)

	// a non-zero sentinel stores as true, and false overwrites it exactly
	native, err := e.Coerce(value.Int(4), boolean, schema.In)
	require.NoError(t, err)
	assert.Equal(t, true, native)

	got := roundTrip(t, e, value.Bool(false), boolean)
	assert.True(t, value.Equal(value.Bool(false), got))

	for in, want := range map[string]bool{"1": true, "0": false, "true": true, "false": false, "7": true} {
		native, err := e.Coerce(value.String(in), boolean, schema.In)
		require.NoError(t, err, in)
		assert.Equal(t, want, native, in)
	}

	_, err = e.Coerce(value.String("yes please"), boolean, schema.In)
	assert.True(t, stderrors.Is(err, errors.ErrTypeMismatch))
}

func TestChars(t *testing.T) {
	e := New(DefaultLimits())

	native, err := e.Coerce(value.String("A"), scalar(schema.TagChar), schema.In)
	require.NoError(t, err)
	assert.Equal(t, xpbridge.Char('A'), native)

	native, err = e.Coerce(value.String("é"), scalar(schema.TagChar), schema.In)
	require.NoError(t, err)
	assert.Equal(t, xpbridge.Char(0xe9), native)

	native, err = e.Coerce(value.String("é"), scalar(schema.TagWChar), schema.In)
	require.NoError(t, err)
	assert.Equal(t, xpbridge.WChar('é'), native)

	got, err := e.Lift(xpbridge.WChar('é'), scalar(schema.TagWChar))
	require.NoError(t, err)
	assert.True(t, value.Equal(value.String("é"), got))

	for _, tag := range []schema.Tag{schema.TagChar, schema.TagWChar} {
		_, err = e.Coerce(value.String("ab"), scalar(tag), schema.In)
		assert.True(t, stderrors.Is(err, errors.ErrInvalidLength), tag.String())
		_, err = e.Coerce(value.String(""), scalar(tag), schema.In)
		assert.True(t, stderrors.Is(err, errors.ErrInvalidLength), tag.String())
	}

	_, err = e.Coerce(value.String("日"), scalar(schema.TagChar), schema.In)
	assert.True(t, stderrors.Is(err, errors.ErrTypeMismatch))
}

func TestFixedStrings(t *testing.T) {
	e := New(DefaultLimits())
	narrow, wide := scalar(schema.TagString), scalar(schema.TagWString)

	// null is never an error for fixed strings
	native, err := e.Coerce(value.Null(), narrow, schema.In)
	require.NoError(t, err)
	assert.Equal(t, []byte{}, native)
	native, err = e.Coerce(value.Null(), wide, schema.In)
	require.NoError(t, err)
	assert.Equal(t, []uint16{}, native)

	native, err = e.Coerce(value.Bytes([]byte("ab\x00cd")), narrow, schema.In)
	require.NoError(t, err)
	assert.Equal(t, []byte("ab"), native)

	got, err := e.Lift([]uint16{'h', 'i', 0, 'x'}, wide)
	require.NoError(t, err)
	assert.True(t, value.Equal(value.String("hi"), got))

	got, err = e.Lift([]byte("cat\x00dog"), narrow)
	require.NoError(t, err)
	assert.True(t, value.Equal(value.Bytes([]byte("cat")), got))

	native, err = e.Coerce(value.String("café"), narrow, schema.In)
	require.NoError(t, err)
	assert.Equal(t, []byte{'c', 'a', 'f', 0xe9}, native)

	_, err = e.Coerce(value.String("日本"), narrow, schema.In)
	assert.True(t, stderrors.Is(err, errors.ErrTypeMismatch))

	got = roundTrip(t, e, value.String("日本"), wide)
	assert.True(t, value.Equal(value.String("日本"), got))

	_, err = e.Coerce(value.Bytes([]byte{0xff, 0xfe}), wide, schema.In)
	assert.ErrorContains(t, err, "not valid UTF-8")

	_, err = e.Coerce(value.Int(3), narrow, schema.In)
	assert.True(t, stderrors.Is(err, errors.ErrTypeMismatch))
}

func TestAbstractStrings(t *testing.T) {
	e := New(DefaultLimits())
	for _, tag := range []schema.Tag{schema.TagAString, schema.TagDOMString, schema.TagUTF8String} {
		t.Run(tag.String(), func(t *testing.T) {
			for _, v := range []value.Value{value.Null(), value.String(""), value.String("plain"), value.String("Ünïcödé ✓")} {
				got := roundTrip(t, e, v, scalar(tag))
				assert.True(t, value.Equal(v, got), "%v came back as %v", v, got)
			}
		})
	}

	// abstract cstrings keep arbitrary bytes
	for _, v := range []value.Value{value.Null(), value.Bytes([]byte{}), value.Bytes([]byte{0xff, 0x00, 'A'})} {
		got := roundTrip(t, e, v, scalar(schema.TagACString))
		assert.True(t, value.Equal(v, got), "%v came back as %v", v, got)
	}

	native, err := e.Coerce(value.Null(), scalar(schema.TagAString), schema.In)
	require.NoError(t, err)
	assert.Equal(t, xpbridge.AString{Void: true}, native)
	native, err = e.Coerce(value.String(""), scalar(schema.TagAString), schema.In)
	require.NoError(t, err)
	assert.Equal(t, xpbridge.AString{}, native)

	// utf-8 bytes pass through byte for byte and read back as text
	raw := []byte("日本語")
	native, err = e.Coerce(value.Bytes(raw), scalar(schema.TagUTF8String), schema.In)
	require.NoError(t, err)
	assert.Equal(t, xpbridge.AUTF8String{Value: string(raw)}, native)

	_, err = e.Coerce(value.Bytes([]byte{0xc3}), scalar(schema.TagUTF8String), schema.In)
	assert.True(t, stderrors.Is(err, errors.ErrTypeMismatch))

	// invalid text is rejected rather than replaced
	for _, tag := range []schema.Tag{schema.TagAString, schema.TagDOMString, schema.TagWString} {
		_, err = e.Coerce(value.String("a\xffb"), scalar(tag), schema.In)
		assert.True(t, stderrors.Is(err, errors.ErrTypeMismatch), tag.String())
	}
}

func TestStringLimit(t *testing.T) {
	e := New(Limits{MaxStringLength: 4})
	_, err := e.Coerce(value.String("12345"), scalar(schema.TagAString), schema.In)
	assert.True(t, stderrors.Is(err, errors.ErrInvalidLength))
	_, err = e.Coerce(value.String("1234"), scalar(schema.TagString), schema.In)
	assert.NoError(t, err)
}

func TestIID(t *testing.T) {
	e := New(DefaultLimits())
	iid := scalar(schema.TagIID)

	native, err := e.Coerce(value.String("{1ecaed4f-e4d5-4ee7-abf0-7d72ae1441d7}"), iid, schema.In)
	require.NoError(t, err)
	assert.Equal(t, testIID, native)

	got := roundTrip(t, e, value.ID(testIID), iid)
	assert.True(t, value.Equal(value.ID(testIID), got))

	_, err = e.Coerce(value.String("{not-an-iid}"), iid, schema.In)
	assert.True(t, stderrors.Is(err, errors.ErrMalformedIdentifier))
	_, err = e.Coerce(value.Null(), iid, schema.In)
	assert.True(t, stderrors.Is(err, errors.ErrTypeMismatch))
}

func TestObjects(t *testing.T) {
	e := New(DefaultLimits())
	iface := schema.InterfaceOf(testIID)
	good, bad := &testObject{iid: testIID}, &testObject{iid: otherIID}

	native, err := e.Coerce(value.Object(good), iface, schema.In)
	require.NoError(t, err)
	assert.Same(t, good, native)

	_, err = e.Coerce(value.Object(bad), iface, schema.In)
	assert.True(t, stderrors.Is(err, errors.ErrTypeMismatch))
	assert.Contains(t, err.Error(), "does not implement")

	native, err = e.Coerce(value.Object(bad), scalar(schema.TagObject), schema.In)
	require.NoError(t, err)
	assert.Same(t, bad, native)

	native, err = e.Coerce(value.Null(), iface, schema.In)
	require.NoError(t, err)
	assert.Nil(t, native)

	_, err = e.Coerce(value.String("obj"), iface, schema.In)
	assert.True(t, stderrors.Is(err, errors.ErrTypeMismatch))

	got, err := e.Lift(nil, iface)
	require.NoError(t, err)
	assert.True(t, got.IsNull())
}

func TestOutDirectionIgnoresValue(t *testing.T) {
	e := New(DefaultLimits())
	native, err := e.Coerce(value.String("ignored"), scalar(schema.TagLong), schema.Out)
	require.NoError(t, err)
	assert.Equal(t, int32(0), native)
}

func TestUnsetAndSlots(t *testing.T) {
	e := New(DefaultLimits())
	native, err := e.Coerce(value.Unset(), scalar(schema.TagDouble), schema.In)
	require.NoError(t, err)
	assert.Equal(t, float64(0), native)

	native, err = e.Coerce(value.Ref(value.NewSlot(value.Int(9))), scalar(schema.TagLong), schema.InOut)
	require.NoError(t, err)
	assert.Equal(t, int32(9), native)
}

func TestBindArray(t *testing.T) {
	e := New(DefaultLimits())
	long := scalar(schema.TagLong)
	seq := value.Seq(value.Int(1), value.Int(2), value.Int(3))

	tests := []struct {
		name     string
		in       value.Value
		declared int
		want     []int32
	}{
		{"length authoritative", seq, -1, []int32{1, 2, 3}},
		{"extra ignored", seq, 2, []int32{1, 2}},
		{"missing default", seq, 5, []int32{1, 2, 3, 0, 0}},
		{"holes default", value.Seq(value.Int(1), value.Unset(), value.Int(3)), -1, []int32{1, 0, 3}},
		{"null is empty", value.Null(), -1, []int32{}},
		{"variant array", value.Variant(variant.NewArray(variant.NewInt32(7))), -1, []int32{7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			native, count, err := e.BindArray(tt.in, long, tt.declared)
			require.NoError(t, err)
			assert.Equal(t, tt.want, native)
			assert.Equal(t, len(tt.want), count)
		})
	}
}

func TestBindArrayElements(t *testing.T) {
	e := New(DefaultLimits())

	native, _, err := e.BindArray(value.Seq(value.String("a"), value.Unset()), scalar(schema.TagAString), -1)
	require.NoError(t, err)
	assert.Equal(t, []xpbridge.AString{{Value: "a"}, {Void: true}}, native)

	native, _, err = e.BindArray(value.Bytes([]byte{1, 255}), scalar(schema.TagOctet), -1)
	require.NoError(t, err)
	assert.Equal(t, []uint8{1, 255}, native)

	o := &testObject{iid: testIID}
	native, _, err = e.BindArray(value.Seq(value.Object(o), value.Null()), schema.InterfaceOf(testIID), -1)
	require.NoError(t, err)
	assert.Equal(t, []xpbridge.Object{o, nil}, native)

	_, _, err = e.BindArray(value.Seq(value.Int(1), value.String("x"), value.Int(3)), scalar(schema.TagLong), -1)
	require.Error(t, err)
	var xe *errors.Error
	require.True(t, stderrors.As(err, &xe))
	assert.Equal(t, 1, xe.Index)
	assert.True(t, stderrors.Is(err, errors.ErrTypeMismatch))

	_, _, err = e.BindArray(value.Int(3), scalar(schema.TagLong), -1)
	assert.True(t, stderrors.Is(err, errors.ErrTypeMismatch))

	small := New(Limits{MaxArrayLength: 2})
	_, _, err = small.BindArray(value.Seq(value.Int(1), value.Int(2), value.Int(3)), scalar(schema.TagLong), -1)
	assert.True(t, stderrors.Is(err, errors.ErrInvalidLength))
}

func TestBindSizedString(t *testing.T) {
	e := New(DefaultLimits())
	sized, sizedWide := scalar(schema.TagSizedString), scalar(schema.TagSizedWString)

	native, count, err := e.BindSizedString(value.String("Hello"), sized, -1)
	require.NoError(t, err)
	assert.Equal(t, []byte("Hello"), native)
	assert.Equal(t, 5, count)

	native, count, err = e.BindSizedString(value.String("Hello"), sized, 3)
	require.NoError(t, err)
	assert.Equal(t, []byte("Hel"), native)
	assert.Equal(t, 3, count)

	native, _, err = e.BindSizedString(value.Bytes([]byte("a\x00b")), sized, 5)
	require.NoError(t, err)
	assert.Equal(t, []byte("a\x00b\x00\x00"), native)

	native, count, err = e.BindSizedString(value.String("Hé"), sizedWide, -1)
	require.NoError(t, err)
	assert.Equal(t, []uint16{'H', 'é'}, native)
	assert.Equal(t, 2, count)

	native, count, err = e.BindSizedString(value.Null(), sizedWide, -1)
	require.NoError(t, err)
	assert.Equal(t, []uint16{}, native)
	assert.Equal(t, 0, count)

	got, err := e.LiftSizedString([]byte("a\x00bcd"), sized, 3)
	require.NoError(t, err)
	assert.True(t, value.Equal(value.Bytes([]byte("a\x00b")), got))

	got, err = e.LiftSizedString([]uint16{'o', 'k'}, sizedWide, 10)
	require.NoError(t, err)
	assert.True(t, value.Equal(value.String("ok"), got))
}

func TestLiftArray(t *testing.T) {
	e := New(DefaultLimits())
	long := scalar(schema.TagLong)

	got, err := e.LiftArray([]int32{1, 2, 3}, long, 2)
	require.NoError(t, err)
	assert.True(t, value.Equal(value.Seq(value.Int(1), value.Int(2)), got))

	// the count never reads past the storage
	got, err = e.LiftArray([]int32{1, 2, 3}, long, 10)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Len())

	got, err = e.LiftArray(nil, long, 0)
	require.NoError(t, err)
	assert.Equal(t, value.KindSequence, got.Kind())

	_, err = e.LiftArray(42, long, 1)
	assert.True(t, stderrors.Is(err, errors.ErrTypeMismatch))

	_, err = e.LiftArray([]string{"x"}, long, 1)
	var xe *errors.Error
	require.True(t, stderrors.As(err, &xe))
	assert.Equal(t, 0, xe.Index)
}

func TestSparseArrayRoundTrip(t *testing.T) {
	e := New(DefaultLimits())
	typ := schema.ArrayOf(scalar(schema.TagDouble))
	in := value.Seq(value.Float(1.5), value.Unset(), value.Unset(), value.Float(-2))

	got := roundTrip(t, e, in, typ)
	want := value.Seq(value.Float(1.5), value.Float(0), value.Float(0), value.Float(-2))
	assert.True(t, value.Equal(want, got), "got %v", got)

	empty := roundTrip(t, e, value.Seq(), typ)
	assert.True(t, value.Equal(value.Seq(), empty))
}

func TestBoxBestType(t *testing.T) {
	e := New(DefaultLimits())
	obj := &testObject{}
	tests := []struct {
		in   value.Value
		want variant.DataType
	}{
		{value.Null(), variant.Empty},
		{value.Unset(), variant.Empty},
		{value.Bool(true), variant.Bool},
		{value.Int(math.MaxInt32), variant.Int32},
		{value.Int(math.MinInt32 - 1), variant.Int64},
		{value.Uint(math.MaxUint64), variant.Uint64},
		{value.Float(0.1), variant.Double},
		{value.Bytes([]byte("n")), variant.String},
		{value.String("w"), variant.WString},
		{value.Seq(), variant.EmptyArray},
		{value.Seq(value.Int(1)), variant.Array},
		{value.Object(obj), variant.Interface},
		{value.ID(testIID), variant.ID},
		{value.Variant(variant.NewDouble(2)), variant.Double},
	}
	for _, tt := range tests {
		got, err := e.Box(tt.in)
		require.NoError(t, err, "%v", tt.in)
		assert.Equal(t, tt.want, got.Type(), "%v", tt.in)
	}

	huge := new(big.Int).Lsh(big.NewInt(1), 64)
	_, err := e.Box(value.BigInt(huge))
	assert.True(t, stderrors.Is(err, errors.ErrUnsupportedVariantType))

	_, err = e.Box(value.Ref(nil))
	assert.True(t, stderrors.Is(err, errors.ErrUnsupportedVariantType))
}

func TestBoxSequences(t *testing.T) {
	e := New(DefaultLimits())

	// empty boxes to an empty array and unboxes to an empty, non-null sequence
	boxed, err := e.Box(value.Seq())
	require.NoError(t, err)
	out, err := e.Unbox(boxed)
	require.NoError(t, err)
	assert.Equal(t, value.KindSequence, out.Kind())
	assert.Equal(t, 0, out.Len())

	nested := value.Seq(
		value.Int(1),
		value.Seq(value.String("a"), value.Seq()),
		value.Bytes([]byte("raw")),
	)
	boxed, err = e.Box(nested)
	require.NoError(t, err)
	again, err := e.Box(nested)
	require.NoError(t, err)
	assert.True(t, variant.Equal(boxed, again))

	out, err = e.Unbox(boxed)
	require.NoError(t, err)
	assert.True(t, value.Equal(nested, out), "got %v", out)

	// holes have no element type here, so they come back null
	boxed, err = e.Box(value.Seq(value.Int(1), value.Unset()))
	require.NoError(t, err)
	out, err = e.Unbox(boxed)
	require.NoError(t, err)
	assert.True(t, value.Equal(value.Seq(value.Int(1), value.Null()), out))
}

func TestBoxCopiesStrings(t *testing.T) {
	e := New(DefaultLimits())
	src := variant.NewString([]byte("abc"))
	boxed, err := e.Box(value.Variant(src))
	require.NoError(t, err)
	assert.NotSame(t, src, boxed)
	assert.True(t, variant.Equal(src, boxed))
}

func TestUnboxScalars(t *testing.T) {
	e := New(DefaultLimits())
	tests := []struct {
		in   *variant.Variant
		want value.Value
	}{
		{nil, value.Null()},
		{variant.NewChar('x'), value.Bytes([]byte("x"))},
		{variant.NewWChar('ß'), value.String("ß")},
		{variant.NewInt64(-5), value.Int(-5)},
		{variant.NewID(testIID), value.ID(testIID)},
	}
	for _, tt := range tests {
		got, err := e.Unbox(tt.in)
		require.NoError(t, err)
		assert.True(t, value.Equal(tt.want, got), "%v unboxed to %v", tt.in, got)
	}
}

func TestVariantParameters(t *testing.T) {
	e := New(DefaultLimits())

	native, err := e.Coerce(value.Int(5), scalar(schema.TagVariant), schema.In)
	require.NoError(t, err)
	require.IsType(t, &variant.Variant{}, native)
	assert.Equal(t, variant.Int32, native.(*variant.Variant).Type())

	native, err = e.Coerce(value.Variant(variant.NewInt32(5)), scalar(schema.TagLong), schema.In)
	require.NoError(t, err)
	assert.Equal(t, int32(5), native)

	got, err := e.Lift((*variant.Variant)(nil), scalar(schema.TagVariant))
	require.NoError(t, err)
	assert.True(t, got.IsNull())
}

func TestLiftMismatch(t *testing.T) {
	e := New(DefaultLimits())
	_, err := e.Lift("text", scalar(schema.TagLong))
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, &errors.Error{Phase: errors.PhaseLift, Kind: errors.KindTypeMismatch}))
}

func TestStorageHelpers(t *testing.T) {
	typ := schema.ArrayOf(scalar(schema.TagLong))
	assert.Equal(t, reflect.TypeOf([]int32(nil)), NativeType(typ))
	assert.Equal(t, []int32{}, Zero(typ))
	assert.Nil(t, Zero(schema.InterfaceOf(testIID)))
	assert.Equal(t, xpbridge.ACString{Void: true}, Zero(scalar(schema.TagACString)))

	ptr := Alloc(scalar(schema.TagLong), int32(4))
	assert.Equal(t, int32(4), Load(ptr))
	Store(ptr, int32(9))
	assert.Equal(t, int32(9), *ptr.(*int32))

	optr := Alloc(scalar(schema.TagObject), nil)
	assert.Nil(t, Load(optr))
	obj := &testObject{}
	Store(optr, obj)
	assert.Same(t, obj, Load(optr))

	e := New(Limits{})
	assert.Equal(t, DefaultLimits(), e.Limits())
}
