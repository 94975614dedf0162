package testcomponent

import (
	"fmt"
	"math"

	"github.com/wippyai/xpbridge/variant"
)

// accumulator folds variants: numbers add and strings concatenate. Mixing
// the two is an error.
type accumulator struct {
	text    string
	integer int64
	real    float64
	kind    variant.DataType
	wide    bool
}

func (a *accumulator) add(v *variant.Variant) error {
	switch v.Type() {
	case variant.Empty, variant.EmptyArray:
		return nil
	case variant.Array:
		for _, e := range v.Elems() {
			if err := a.add(e); err != nil {
				return err
			}
		}
		return nil
	case variant.Int32:
		return a.addInt(int64(v.Data().(int32)))
	case variant.Int64:
		return a.addInt(v.Data().(int64))
	case variant.Double:
		return a.addReal(v.Data().(float64))
	case variant.String:
		return a.addText(string(v.Data().([]byte)), false)
	case variant.WString:
		return a.addText(v.Data().(string), true)
	}
	return fmt.Errorf("cannot sum a %s variant", v.Type())
}

func (a *accumulator) numeric() error {
	switch a.kind {
	case variant.Empty, variant.Int64, variant.Double:
		return nil
	}
	return fmt.Errorf("cannot add a number to a string")
}

func (a *accumulator) addInt(i int64) error {
	if err := a.numeric(); err != nil {
		return err
	}
	if a.kind == variant.Double {
		a.real += float64(i)
		return nil
	}
	a.kind = variant.Int64
	a.integer += i
	return nil
}

func (a *accumulator) addReal(f float64) error {
	if err := a.numeric(); err != nil {
		return err
	}
	if a.kind == variant.Int64 {
		a.real = float64(a.integer)
	}
	a.kind = variant.Double
	a.real += f
	return nil
}

func (a *accumulator) addText(s string, wide bool) error {
	if a.kind != variant.Empty && a.kind != variant.WString {
		return fmt.Errorf("cannot add a string to a number")
	}
	a.kind = variant.WString
	a.wide = a.wide || wide
	a.text += s
	return nil
}

func (a *accumulator) result() *variant.Variant {
	switch a.kind {
	case variant.Int64:
		if a.integer >= math.MinInt32 && a.integer <= math.MaxInt32 {
			return variant.NewInt32(int32(a.integer))
		}
		return variant.NewInt64(a.integer)
	case variant.Double:
		return variant.NewDouble(a.real)
	case variant.WString:
		if a.wide {
			return variant.NewWString(a.text)
		}
		return variant.NewString([]byte(a.text))
	}
	return variant.NewEmpty()
}

func sumVariants(items ...*variant.Variant) (*variant.Variant, error) {
	var acc accumulator
	for _, v := range items {
		if err := acc.add(v); err != nil {
			return nil, err
		}
	}
	return acc.result(), nil
}
