package testcomponent

import (
	"bytes"
	stderrors "errors"
	"slices"
	"strings"
	"unicode/utf16"

	"github.com/google/uuid"

	"github.com/wippyai/xpbridge"
	"github.com/wippyai/xpbridge/variant"
)

// ErrNoInterface is returned by QueryInterface for identifiers the
// component does not implement.
var ErrNoInterface = stderrors.New("no such interface")

type number interface {
	~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 | ~int64 | ~uint64 | ~float32 | ~float64
}

// arith returns p1+p2 and leaves p1-p2 in p2 and p1*p2 in p3.
func arith[T number](p1 T, p2, p3 *T) T {
	in := *p2
	*p2 = p1 - in
	*p3 = p1 * in
	return p1 + in
}

func encodeWide(s string) []uint16 {
	return utf16.Encode([]rune(s))
}

func decodeWide(u []uint16) string {
	return string(utf16.Decode(u))
}

func (c *Component) QueryInterface(iid uuid.UUID) (xpbridge.Object, error) {
	if c.self != nil && c.self.Implements(iid) {
		return c.self, nil
	}
	return nil, ErrNoInterface
}

func (c *Component) DoBoolean(p1 bool, p2, p3 *bool) bool {
	in := *p2
	*p2 = p1 && in
	*p3 = p1 != in
	return p1 != in
}

func (c *Component) DoOctet(p1 uint8, p2, p3 *uint8) uint8 {
	return arith(p1, p2, p3)
}

func (c *Component) DoShort(p1 int16, p2, p3 *int16) int16 {
	return arith(p1, p2, p3)
}

func (c *Component) DoUnsignedShort(p1 uint16, p2, p3 *uint16) uint16 {
	return arith(p1, p2, p3)
}

func (c *Component) DoLong(p1 int32, p2, p3 *int32) int32 {
	return arith(p1, p2, p3)
}

func (c *Component) DoUnsignedLong(p1 uint32, p2, p3 *uint32) uint32 {
	return arith(p1, p2, p3)
}

func (c *Component) DoLongLong(p1 int64, p2, p3 *int64) int64 {
	return arith(p1, p2, p3)
}

func (c *Component) DoUnsignedLongLong(p1 uint64, p2, p3 *uint64) uint64 {
	return arith(p1, p2, p3)
}

func (c *Component) DoFloat(p1 float32, p2, p3 *float32) float32 {
	return arith(p1, p2, p3)
}

func (c *Component) DoDouble(p1 float64, p2, p3 *float64) float64 {
	return arith(p1, p2, p3)
}

// DoChar returns the sum of both characters, keeps p2 and copies p1 to p3.
func (c *Component) DoChar(p1 xpbridge.Char, p2, p3 *xpbridge.Char) xpbridge.Char {
	*p3 = p1
	return p1 + *p2
}

func (c *Component) DoWChar(p1 xpbridge.WChar, p2, p3 *xpbridge.WChar) xpbridge.WChar {
	*p3 = p1
	return p1 + *p2
}

// DoString returns p1+p2, moves p2 to p3 and p1 to p2.
func (c *Component) DoString(p1 []byte, p2, p3 *[]byte) []byte {
	ret := slices.Concat(p1, *p2)
	*p3 = *p2
	*p2 = p1
	return ret
}

func (c *Component) DoWString(p1 []uint16, p2, p3 *[]uint16) []uint16 {
	ret := slices.Concat(p1, *p2)
	*p3 = *p2
	*p2 = p1
	return ret
}

func (c *Component) DoIID(p1 uuid.UUID, p2, p3 *uuid.UUID) uuid.UUID {
	*p3 = *p2
	*p2 = p1
	return p1
}

// DoInterface returns p1, keeps p2 and hands back the component in p3.
func (c *Component) DoInterface(p1 xpbridge.Object, p2, p3 *xpbridge.Object) xpbridge.Object {
	*p3 = c.self
	return p1
}

// DoObject returns the component and shifts p1 into p2 and p2 into p3.
func (c *Component) DoObject(p1 xpbridge.Object, p2, p3 *xpbridge.Object) xpbridge.Object {
	*p3 = *p2
	*p2 = p1
	return c.self
}

func (c *Component) DoubleString(count *uint32, s *[]byte) {
	*s = bytes.Repeat(*s, 2)
	*count = uint32(len(*s))
}

func (c *Component) DoubleString2(inCount uint32, in []byte, outCount *uint32, out *[]byte) {
	*out = bytes.Repeat(in, 2)
	*outCount = uint32(len(*out))
}

func (c *Component) DoubleString3(inCount uint32, in []byte, outCount *uint32) []byte {
	out := bytes.Repeat(in, 2)
	*outCount = uint32(len(out))
	return out
}

func (c *Component) DoubleString4(in []byte, count *uint32, out *[]byte) {
	*out = bytes.Repeat(in, 2)
	*count = uint32(len(*out))
}

func (c *Component) UpString(count *uint32, s *[]byte) {
	*s = bytes.ToUpper(*s)
}

func (c *Component) UpString2(count uint32, s []byte) []byte {
	return bytes.ToUpper(s)
}

func (c *Component) GetFixedString(count uint32) []byte {
	return bytes.Repeat([]byte{'A'}, int(count))
}

func (c *Component) DoubleWideString(count *uint32, s *[]uint16) {
	*s = slices.Repeat(*s, 2)
	*count = uint32(len(*s))
}

func (c *Component) DoubleWideString2(inCount uint32, in []uint16, outCount *uint32, out *[]uint16) {
	*out = slices.Repeat(in, 2)
	*outCount = uint32(len(*out))
}

func (c *Component) UpWideString(count *uint32, s *[]uint16) {
	*s = encodeWide(strings.ToUpper(decodeWide(*s)))
	*count = uint32(len(*s))
}

func (c *Component) GetFixedWideString(count uint32) []uint16 {
	return slices.Repeat([]uint16{'A'}, int(count))
}

func (c *Component) CopyUTF8String(s xpbridge.AUTF8String) xpbridge.AUTF8String {
	return s
}

func (c *Component) CopyUTF8String2(s xpbridge.AUTF8String, out *xpbridge.AUTF8String) {
	*out = s
}

func (c *Component) MultiplyEachItemInIntegerArray(factor int32, count uint32, items *[]int32) {
	for i := range *items {
		(*items)[i] *= factor
	}
}

func (c *Component) MultiplyEachItemInIntegerArrayAndAppend(factor int32, count *uint32, items *[]int32) {
	n := len(*items)
	out := make([]int32, 0, 2*n)
	out = append(out, *items...)
	for _, v := range *items {
		out = append(out, v*factor)
	}
	*items = out
	*count = uint32(len(out))
}

func (c *Component) DoubleStringArray(count *uint32, items *[][]byte) {
	for i, s := range *items {
		(*items)[i] = bytes.Repeat(s, 2)
	}
}

// CompareStringArrays compares element by element like bytes.Compare.
func (c *Component) CompareStringArrays(a, b [][]byte, count uint32) int32 {
	return int32(slices.CompareFunc(a, b, bytes.Compare))
}

func (c *Component) ReverseStringArray(count uint32, items *[][]byte) {
	slices.Reverse(*items)
}

func (c *Component) GetStrings(count *uint32) [][]byte {
	words := bytes.Fields([]byte("Hello from the bridge test component"))
	*count = uint32(len(words))
	return words
}

func (c *Component) UpOctetArray(count *uint32, data *[]uint8) {
	*data = bytes.ToUpper(*data)
}

// CheckInterfaceArray reports whether every element is non-null.
func (c *Component) CheckInterfaceArray(count uint32, items []xpbridge.Object) bool {
	for _, o := range items {
		if o == nil {
			return false
		}
	}
	return true
}

func (c *Component) CopyInterfaceArray(count uint32, items []xpbridge.Object, outCount *uint32) []xpbridge.Object {
	*outCount = uint32(len(items))
	return slices.Clone(items)
}

func (c *Component) GetInterfaceArray(count *uint32) []xpbridge.Object {
	out := []xpbridge.Object{c.self, c.self, c.self, nil}
	*count = uint32(len(out))
	return out
}

func (c *Component) ExtendInterfaceArray(count *uint32, items *[]xpbridge.Object) {
	*items = slices.Repeat(*items, 2)
	*count = uint32(len(*items))
}

func (c *Component) GetIIDArray(count *uint32) []uuid.UUID {
	*count = 2
	return []uuid.UUID{TestDOMIID, ClassID}
}

func (c *Component) ExtendIIDArray(count *uint32, items *[]uuid.UUID) {
	*items = slices.Repeat(*items, 2)
	*count = uint32(len(*items))
}

func (c *Component) GetArrays(count *uint32, a, b *[]int32) {
	*a = []int32{1, 2, 3}
	*b = []int32{4, 5, 6}
	*count = 3
}

func (c *Component) SumArrays(count uint32, a, b []int32) []int32 {
	out := make([]int32, count)
	for i := range out {
		out[i] = a[i] + b[i]
	}
	return out
}

func (c *Component) CopyArray(count uint32, items []int32) []int32 {
	return slices.Clone(items)
}

func (c *Component) CopyAndDoubleArray(count *uint32, items []int32) []int32 {
	out := slices.Repeat(items, 2)
	*count = uint32(len(out))
	return out
}

// AppendArray leaves head followed by tail in tail.
func (c *Component) AppendArray(count *uint32, head []int32, tail *[]int32) {
	*tail = slices.Concat(head, *tail)
	*count = uint32(len(*tail))
}

func (c *Component) ReturnArray(count *uint32) []int32 {
	*count = 3
	return []int32{1, 2, 3}
}

func (c *Component) CopyVariant(v *variant.Variant) *variant.Variant {
	return v.Clone()
}

// AppendVariant returns b+a: numbers add, strings concatenate and arrays
// contribute the sum of their elements.
func (c *Component) AppendVariant(a, b *variant.Variant) (*variant.Variant, error) {
	return sumVariants(b, a)
}

// SumVariants folds the elements with the same rules as AppendVariant.
func (c *Component) SumVariants(count uint32, items []*variant.Variant) (*variant.Variant, error) {
	return sumVariants(items...)
}

func (c *Component) SetOptionalNumbers(a, b int32) {
	c.OptionalNumber1, c.OptionalNumber2 = a, b
}

func (c *Component) SetOptionalStrings(a, b xpbridge.AString) {
	c.OptionalString1, c.OptionalString2 = a, b
}

func (c *Component) SetNumbersAndOptionalStrings(a, b int32, s1, s2 xpbridge.AString) {
	c.SetOptionalNumbers(a, b)
	c.SetOptionalStrings(s1, s2)
}

func (c *Component) SetOptionalNumbersAndStrings(a, b int32, s1, s2 xpbridge.AString) {
	c.SetOptionalNumbers(a, b)
	c.SetOptionalStrings(s1, s2)
}

// GetDOMStringResult returns length copies of "P"; a negative length
// returns null.
func (c *Component) GetDOMStringResult(length int32) xpbridge.AString {
	if length < 0 {
		return xpbridge.AString{Void: true}
	}
	return xpbridge.AString{Value: strings.Repeat("P", int(length))}
}

func (c *Component) GetDOMStringOut(length int32, s *xpbridge.AString) {
	if length < 0 {
		*s = xpbridge.AString{Void: true}
		return
	}
	*s = xpbridge.AString{Value: strings.Repeat("y", int(length))}
}

// GetDOMStringLength returns the length in UTF-16 units.
func (c *Component) GetDOMStringLength(s xpbridge.AString) uint32 {
	return uint32(len(encodeWide(s.Value)))
}

func (c *Component) ConcatDOMStrings(a, b xpbridge.AString) xpbridge.AString {
	return xpbridge.AString{Value: a.Value + b.Value}
}
