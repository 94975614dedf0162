package errors

import (
	"fmt"
	"strconv"
	"strings"
)

// Phase indicates where in a call the error occurred
type Phase string

const (
	PhaseRegister Phase = "register" // schema registration and loading
	PhaseResolve  Phase = "resolve"  // signature lookup
	PhaseCoerce   Phase = "coerce"   // caller to native
	PhaseLift     Phase = "lift"     // native to caller
	PhaseBox      Phase = "box"      // caller value to variant
	PhaseUnbox    Phase = "unbox"    // variant to caller value
	PhaseInvoke   Phase = "invoke"   // native call
	PhaseParse    Phase = "parse"    // schema documents, WIT text
)

// Kind categorizes the error
type Kind string

const (
	KindUnknownMethod          Kind = "unknown_method"
	KindTypeMismatch           Kind = "type_mismatch"
	KindInvalidLength          Kind = "invalid_length"
	KindMalformedIdentifier    Kind = "malformed_identifier"
	KindUnsupportedVariantType Kind = "unsupported_variant_type"
	KindNativeInvocationFailed Kind = "native_invocation_failed"
	KindArgumentCount          Kind = "argument_count"
	KindReadOnly               Kind = "read_only"
	KindRegistration           Kind = "registration"
	KindInvalidInput           Kind = "invalid_input"
	KindUnsupported            Kind = "unsupported"
)

// NoIndex marks an error that is not tied to an array element.
const NoIndex = -1

// Error is the structured error used by every package in this module
type Error struct {
	Value      any
	Cause      error
	Phase      Phase
	Kind       Kind
	CallerType string
	NativeType string
	Detail     string
	Path       []string
	Index      int
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 || e.Index >= 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
		if e.Index >= 0 {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(e.Index))
			b.WriteByte(']')
		}
	}

	if e.CallerType != "" || e.NativeType != "" {
		b.WriteString(": ")
		switch {
		case e.CallerType != "" && e.NativeType != "":
			b.WriteString("caller ")
			b.WriteString(e.CallerType)
			b.WriteString(", native ")
			b.WriteString(e.NativeType)
		case e.CallerType != "":
			b.WriteString("caller ")
			b.WriteString(e.CallerType)
		default:
			b.WriteString("native ")
			b.WriteString(e.NativeType)
		}
	}

	if e.Detail != "" {
		if e.CallerType != "" || e.NativeType != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches on Kind, and on Phase too when the target sets one.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase != "" && t.Phase != e.Phase {
		return false
	}
	return e.Kind == t.Kind
}

// WithPath returns a copy of e with prefix prepended to its path.
func (e *Error) WithPath(prefix ...string) *Error {
	c := *e
	c.Path = append(append(make([]string, 0, len(prefix)+len(e.Path)), prefix...), e.Path...)
	return &c
}

// Sentinels for errors.Is; they match any phase.
var (
	ErrUnknownMethod          = &Error{Kind: KindUnknownMethod, Index: NoIndex}
	ErrTypeMismatch           = &Error{Kind: KindTypeMismatch, Index: NoIndex}
	ErrInvalidLength          = &Error{Kind: KindInvalidLength, Index: NoIndex}
	ErrMalformedIdentifier    = &Error{Kind: KindMalformedIdentifier, Index: NoIndex}
	ErrUnsupportedVariantType = &Error{Kind: KindUnsupportedVariantType, Index: NoIndex}
	ErrNativeInvocationFailed = &Error{Kind: KindNativeInvocationFailed, Index: NoIndex}
	ErrArgumentCount          = &Error{Kind: KindArgumentCount, Index: NoIndex}
	ErrReadOnly               = &Error{Kind: KindReadOnly, Index: NoIndex}
)

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
			Index: NoIndex,
		},
	}
}

// Path sets the parameter path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Index sets the failing array element
func (b *Builder) Index(i int) *Builder {
	b.err.Index = i
	return b
}

// CallerType sets the caller-side type name
func (b *Builder) CallerType(t string) *Builder {
	b.err.CallerType = t
	return b
}

// NativeType sets the declared native type name
func (b *Builder) NativeType(t string) *Builder {
	b.err.NativeType = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, path []string, callerType, nativeType string) *Error {
	return &Error{
		Phase:      phase,
		Kind:       KindTypeMismatch,
		Path:       path,
		CallerType: callerType,
		NativeType: nativeType,
		Index:      NoIndex,
	}
}

// Overflow creates a type mismatch error for a value that does not fit its target width
func Overflow(phase Phase, path []string, value any, nativeType string) *Error {
	return &Error{
		Phase:      phase,
		Kind:       KindTypeMismatch,
		Path:       path,
		NativeType: nativeType,
		Detail:     fmt.Sprintf("value %v overflows %s", value, nativeType),
		Value:      value,
		Index:      NoIndex,
	}
}

// AtIndex annotates an element failure with its array index.
// The original error's kind is kept as the cause.
func AtIndex(phase Phase, path []string, index int, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTypeMismatch,
		Path:   path,
		Index:  index,
		Detail: "array element conversion failed",
		Cause:  cause,
	}
}

// InvalidLength creates an invalid length error
func InvalidLength(phase Phase, path []string, got, want int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidLength,
		Path:   path,
		Detail: fmt.Sprintf("length %d, expected %d", got, want),
		Value:  got,
		Index:  NoIndex,
	}
}

// MalformedIdentifier creates an identifier parse error
func MalformedIdentifier(phase Phase, path []string, text string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindMalformedIdentifier,
		Path:   path,
		Detail: fmt.Sprintf("malformed interface id %q", text),
		Value:  text,
		Cause:  cause,
		Index:  NoIndex,
	}
}

// UnsupportedVariantType creates an error for values with no variant representation
func UnsupportedVariantType(phase Phase, path []string, typeName string) *Error {
	return &Error{
		Phase:      phase,
		Kind:       KindUnsupportedVariantType,
		Path:       path,
		CallerType: typeName,
		Detail:     "no variant representation",
		Index:      NoIndex,
	}
}

// UnknownMethod creates an unknown method error
func UnknownMethod(iface, name string) *Error {
	detail := fmt.Sprintf("method %q not declared", name)
	if iface != "" {
		detail = fmt.Sprintf("method %q not declared by %s", name, iface)
	}
	return &Error{
		Phase:  PhaseResolve,
		Kind:   KindUnknownMethod,
		Detail: detail,
		Value:  name,
		Index:  NoIndex,
	}
}

// NativeInvocationFailed wraps an opaque error returned by a native implementation
func NativeInvocationFailed(method string, cause error) *Error {
	return &Error{
		Phase:  PhaseInvoke,
		Kind:   KindNativeInvocationFailed,
		Detail: fmt.Sprintf("call %s", method),
		Cause:  cause,
		Index:  NoIndex,
	}
}

// ArgumentCount creates an error for missing or surplus arguments
func ArgumentCount(method string, got, minArgs, maxArgs int) *Error {
	var detail string
	if minArgs == maxArgs {
		detail = fmt.Sprintf("%s takes %d arguments, got %d", method, minArgs, got)
	} else {
		detail = fmt.Sprintf("%s takes %d to %d arguments, got %d", method, minArgs, maxArgs, got)
	}
	return &Error{
		Phase:  PhaseResolve,
		Kind:   KindArgumentCount,
		Detail: detail,
		Value:  got,
		Index:  NoIndex,
	}
}

// ReadOnly creates an error for assignments to read-only attributes and constants
func ReadOnly(name string) *Error {
	return &Error{
		Phase:  PhaseResolve,
		Kind:   KindReadOnly,
		Detail: fmt.Sprintf("%q is read-only", name),
		Index:  NoIndex,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
		Index:  NoIndex,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
		Index:  NoIndex,
	}
}

// Registration creates a registration error
func Registration(iface, detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseRegister,
		Kind:   KindRegistration,
		Detail: fmt.Sprintf("register %s: %s", iface, detail),
		Cause:  cause,
		Index:  NoIndex,
	}
}

// ParseFailed creates a parsing error
func ParseFailed(what string, cause error) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindInvalidInput,
		Detail: fmt.Sprintf("parse %s", what),
		Cause:  cause,
		Index:  NoIndex,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
		Index:  NoIndex,
	}
}

// NotRegistered creates an error for lookups against an unknown interface
func NotRegistered(iface string) *Error {
	return &Error{
		Phase:  PhaseResolve,
		Kind:   KindInvalidInput,
		Detail: fmt.Sprintf("interface %q not registered", iface),
		Value:  iface,
		Index:  NoIndex,
	}
}
