package value

import (
	"fmt"
	"math/big"

	"github.com/google/uuid"

	"github.com/wippyai/xpbridge"
	"github.com/wippyai/xpbridge/errors"
	"github.com/wippyai/xpbridge/variant"
)

// FromGo converts a plain Go value, such as one decoded from YAML, into a
// Value. nil becomes Null. A map with the single key "bytes" holding a
// string becomes a byte string.
func FromGo(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t, nil
	case *Slot:
		return Ref(t), nil
	case bool:
		return Bool(t), nil
	case int:
		return Int(int64(t)), nil
	case int8:
		return Int(int64(t)), nil
	case int16:
		return Int(int64(t)), nil
	case int32:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case uint:
		return Uint(uint64(t)), nil
	case uint8:
		return Uint(uint64(t)), nil
	case uint16:
		return Uint(uint64(t)), nil
	case uint32:
		return Uint(uint64(t)), nil
	case uint64:
		return Uint(t), nil
	case *big.Int:
		return BigInt(t), nil
	case float32:
		return Float(float64(t)), nil
	case float64:
		return Float(t), nil
	case string:
		return String(t), nil
	case []byte:
		return Bytes(t), nil
	case uuid.UUID:
		return ID(t), nil
	case *variant.Variant:
		return Variant(t), nil
	case xpbridge.Object:
		return Object(t), nil
	case []any:
		elems := make([]Value, len(t))
		for i, e := range t {
			v, err := FromGo(e)
			if err != nil {
				return Value{}, err
			}
			elems[i] = v
		}
		return Seq(elems...), nil
	case map[string]any:
		if s, ok := t["bytes"].(string); ok && len(t) == 1 {
			return Bytes([]byte(s)), nil
		}
	}
	return Value{}, errors.InvalidInput(errors.PhaseCoerce, fmt.Sprintf("no caller representation for %T", x))
}

// ToGo converts v into plain Go values: nil, bool, int64 (or *big.Int when
// it does not fit), float64, []byte, string, []any, xpbridge.Object,
// uuid.UUID or *variant.Variant. Unset becomes nil and slots are read
// through.
func ToGo(v Value) any {
	switch v.kind {
	case KindBool:
		return v.t
	case KindInt:
		if v.i.IsInt64() {
			return v.i.Int64()
		}
		return new(big.Int).Set(v.i)
	case KindFloat:
		return v.f
	case KindBytes:
		b, _ := v.AsBytes()
		return b
	case KindString:
		return v.s
	case KindSequence:
		out := make([]any, len(v.seq))
		for i, e := range v.seq {
			out[i] = ToGo(e)
		}
		return out
	case KindObject:
		return v.obj
	case KindID:
		return v.id
	case KindVariant:
		return v.v
	case KindSlot:
		if v.slot != nil {
			return ToGo(v.slot.Value)
		}
	}
	return nil
}
