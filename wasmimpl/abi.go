package wasmimpl

import (
	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/xpbridge"
	"github.com/wippyai/xpbridge/schema"
)

// valueType returns the core wasm type carrying tag. Only scalar tags have
// a flat representation.
func valueType(tag schema.Tag) (api.ValueType, bool) {
	switch tag {
	case schema.TagBoolean, schema.TagOctet, schema.TagShort, schema.TagUShort,
		schema.TagLong, schema.TagULong, schema.TagChar, schema.TagWChar:
		return api.ValueTypeI32, true
	case schema.TagLongLong, schema.TagULongLong:
		return api.ValueTypeI64, true
	case schema.TagFloat:
		return api.ValueTypeF32, true
	case schema.TagDouble:
		return api.ValueTypeF64, true
	}
	return 0, false
}

// encode lowers a native scalar to its wasm stack form.
func encode(native any) uint64 {
	switch v := native.(type) {
	case bool:
		if v {
			return 1
		}
		return 0
	case uint8:
		return api.EncodeU32(uint32(v))
	case int16:
		return api.EncodeI32(int32(v))
	case uint16:
		return api.EncodeU32(uint32(v))
	case int32:
		return api.EncodeI32(v)
	case uint32:
		return api.EncodeU32(v)
	case int64:
		return api.EncodeI64(v)
	case uint64:
		return v
	case float32:
		return api.EncodeF32(v)
	case float64:
		return api.EncodeF64(v)
	case xpbridge.Char:
		return api.EncodeU32(uint32(v))
	case xpbridge.WChar:
		return api.EncodeI32(int32(v))
	}
	return 0
}

// decode lifts a wasm stack value into the native type of tag. Narrow
// integers keep their low bits.
func decode(tag schema.Tag, raw uint64) any {
	switch tag {
	case schema.TagBoolean:
		return api.DecodeU32(raw) != 0
	case schema.TagOctet:
		return uint8(api.DecodeU32(raw))
	case schema.TagShort:
		return int16(api.DecodeI32(raw))
	case schema.TagUShort:
		return uint16(api.DecodeU32(raw))
	case schema.TagLong:
		return api.DecodeI32(raw)
	case schema.TagULong:
		return api.DecodeU32(raw)
	case schema.TagLongLong:
		return int64(raw)
	case schema.TagULongLong:
		return raw
	case schema.TagFloat:
		return api.DecodeF32(raw)
	case schema.TagDouble:
		return api.DecodeF64(raw)
	case schema.TagChar:
		return xpbridge.Char(api.DecodeU32(raw))
	case schema.TagWChar:
		return xpbridge.WChar(api.DecodeI32(raw))
	}
	return nil
}
