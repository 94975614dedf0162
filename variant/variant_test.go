package variant

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type object struct{ iid uuid.UUID }

func (o *object) Implements(iid uuid.UUID) bool { return o.iid == iid }

func TestEqualScalars(t *testing.T) {
	assert.True(t, Equal(NewInt32(7), NewInt32(7)))
	assert.False(t, Equal(NewInt32(7), NewInt64(7)), "type participates in equality")
	assert.False(t, Equal(NewDouble(1), NewDouble(1.5)))
	assert.True(t, Equal(NewString([]byte("a\x00b")), NewString([]byte("a\x00b"))))
	assert.False(t, Equal(NewString([]byte("a")), NewWString("a")))
	assert.True(t, Equal(nil, NewEmpty()))
	assert.False(t, Equal(NewEmpty(), NewEmptyArray()))

	o := &object{}
	assert.True(t, Equal(NewInterface(o), NewInterface(o)))
	assert.False(t, Equal(NewInterface(o), NewInterface(&object{})))
}

func TestEqualNested(t *testing.T) {
	build := func(last int32) *Variant {
		return NewArray(
			NewInt32(1),
			NewArray(NewWString("x"), NewArray(NewInt32(last))),
			NewEmptyArray(),
		)
	}
	assert.True(t, Equal(build(3), build(3)))
	assert.False(t, Equal(build(3), build(4)))
	assert.False(t, Equal(NewArray(NewInt32(1)), NewArray(NewInt32(1), NewInt32(1))))
}

func TestNewArray(t *testing.T) {
	assert.Equal(t, EmptyArray, NewArray().Type())

	v := NewArray(NewBool(true), nil)
	require.Equal(t, 2, v.Len())
	assert.Equal(t, Empty, v.Elems()[1].Type())
	assert.Empty(t, NewEmptyArray().Elems())
	assert.NotNil(t, NewEmptyArray().Elems())
}

func TestNewInterfaceNil(t *testing.T) {
	assert.Equal(t, Empty, NewInterface(nil).Type())
}

func TestCopySemantics(t *testing.T) {
	src := []byte("abc")
	v := NewString(src)
	src[0] = 'x'
	assert.Equal(t, []byte("abc"), v.Data())

	data := v.Data().([]byte)
	data[0] = 'y'
	assert.Equal(t, []byte("abc"), v.Data())

	arr := NewArray(NewString([]byte("a")), NewArray(NewInt64(9)))
	c := arr.Clone()
	assert.True(t, Equal(arr, c))
	assert.NotSame(t, arr.Elems()[0], c.Elems()[0])
}

func TestString(t *testing.T) {
	id := uuid.MustParse("1ecaed4f-e4d5-4ee7-abf0-7d72ae1441d7")
	v := NewArray(NewInt32(1), NewString([]byte("hi")), NewWString("wé"), NewID(id), NewEmpty(), NewEmptyArray())
	assert.Equal(t, `[1, "hi", L"wé", {1ecaed4f-e4d5-4ee7-abf0-7d72ae1441d7}, empty, []]`, v.String())
	assert.Equal(t, "empty", (*Variant)(nil).String())
	assert.Equal(t, "int64", Int64.String())
	assert.Equal(t, "unknown", DataType(99).String())
}
