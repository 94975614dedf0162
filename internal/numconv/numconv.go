// Package numconv converts between Go numeric types without losing
// information. Every function reports false instead of truncating.
package numconv

import (
	"math"
	"reflect"
)

// Int64 converts any integral value, or an integral float, to int64.
func Int64(value any) (int64, bool) {
	switch v := value.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint:
		if uint64(v) <= math.MaxInt64 {
			return int64(v), true
		}
	case uint64:
		if v <= math.MaxInt64 {
			return int64(v), true
		}
	case float64:
		if v >= math.MinInt64 && v < math.MaxInt64 && v == math.Trunc(v) {
			return int64(v), true
		}
	case float32:
		return Int64(float64(v))
	default:
		return named(value, Int64)
	}
	return 0, false
}

// Uint64 converts any non-negative integral value, or integral float, to uint64.
func Uint64(value any) (uint64, bool) {
	switch v := value.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case uint8:
		return uint64(v), true
	case uint16:
		return uint64(v), true
	case uint32:
		return uint64(v), true
	case int, int8, int16, int32, int64:
		if n, ok := Int64(v); ok && n >= 0 {
			return uint64(n), true
		}
	case float64:
		if v >= 0 && v < math.MaxUint64 && v == math.Trunc(v) {
			return uint64(v), true
		}
	case float32:
		return Uint64(float64(v))
	default:
		return named(value, Uint64)
	}
	return 0, false
}

// Float64 converts any numeric value to float64. Integers beyond 2^53 may
// round.
func Float64(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int, int8, int16, int32, int64:
		n, _ := Int64(v)
		return float64(n), true
	case uint, uint8, uint16, uint32, uint64:
		n, _ := Uint64(v)
		return float64(n), true
	default:
		return named(value, Float64)
	}
}

// named unwraps defined types such as `type Char byte` to their
// underlying builtin and retries.
func named[T any](value any, conv func(any) (T, bool)) (T, bool) {
	var zero T
	if value == nil {
		return zero, false
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return conv(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return conv(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return conv(rv.Float())
	}
	return zero, false
}

// Fits reports whether n is representable in an integer of the given bit
// width and signedness.
func Fits(n int64, bits int, signed bool) bool {
	if signed {
		if bits == 64 {
			return true
		}
		lo, hi := int64(-1)<<(bits-1), int64(1)<<(bits-1)-1
		return n >= lo && n <= hi
	}
	if n < 0 {
		return false
	}
	return bits == 64 || uint64(n) <= uint64(1)<<bits-1
}

// FitsUnsigned reports whether u is representable in an integer of the
// given bit width and signedness.
func FitsUnsigned(u uint64, bits int, signed bool) bool {
	if signed {
		return u <= uint64(1)<<(bits-1)-1
	}
	return bits == 64 || u <= uint64(1)<<bits-1
}
