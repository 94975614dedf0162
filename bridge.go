package xpbridge

import (
	"context"

	"github.com/google/uuid"

	"github.com/wippyai/xpbridge/schema"
)

// Target is a native implementation the dispatcher can call into.
//
// Interfaces names the registered interfaces the target implements; member
// names are resolved against them in order. Invoke receives already-coerced
// native values in call.Params. Out and inout parameters are pointers to
// their native storage and must be written in place; the dispatcher reads
// them back after Invoke returns nil.
type Target interface {
	Interfaces() []string
	Invoke(ctx context.Context, call *Call) error
}

// Object is a value that can travel through interface and object pointer
// parameters. Implements reports whether it exposes the operations of the
// interface identified by iid.
type Object interface {
	Implements(iid uuid.UUID) bool
}

// Op distinguishes plain methods from attribute accessors.
type Op uint8

const (
	OpMethod Op = iota
	OpGetter
	OpSetter
)

func (o Op) String() string {
	switch o {
	case OpMethod:
		return "method"
	case OpGetter:
		return "getter"
	case OpSetter:
		return "setter"
	}
	return "unknown"
}

// Call is one native invocation. Params has one entry per declared
// parameter, retval included. In parameters hold native values; out and
// inout parameters hold a pointer to the native value.
type Call struct {
	Signature *schema.Signature
	Method    string
	Params    []any
	Op        Op
}

// Char is the native form of a single narrow character.
type Char byte

// WChar is the native form of a single wide character.
type WChar rune

// AString is a nullable wide string. Void marks null, which is distinct
// from an empty Value.
type AString struct {
	Value string
	Void  bool
}

// ACString is a nullable narrow string holding raw bytes.
type ACString struct {
	Value []byte
	Void  bool
}

// AUTF8String is a nullable narrow string whose bytes are valid UTF-8.
type AUTF8String struct {
	Value string
	Void  bool
}
