package gateway

import (
	"context"
	"reflect"

	"github.com/wippyai/xpbridge/errors"
	"github.com/wippyai/xpbridge/marshal"
	"github.com/wippyai/xpbridge/schema"
)

var (
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
)

// binder indexes the handlers an implementation offers.
type binder struct {
	explicit map[string]any
	methods  map[string]reflect.Value
	fields   map[string][]int
	impl     reflect.Value
}

func newBinder(impl any) *binder {
	rv := reflect.ValueOf(impl)
	rt := rv.Type()
	b := &binder{
		impl:    rv,
		methods: make(map[string]reflect.Value),
		fields:  make(map[string][]int),
	}
	if er, ok := impl.(ExplicitRegistrar); ok {
		b.explicit = er.Register()
	}

	for i := 0; i < rt.NumMethod(); i++ {
		method := rt.Method(i)
		if !method.IsExported() || method.Name == "Register" {
			continue
		}
		b.methods[normalize(method.Name)] = rv.Method(i)
	}

	// fields can back attributes only when they are addressable
	if rt.Kind() == reflect.Pointer && rt.Elem().Kind() == reflect.Struct {
		st := rt.Elem()
		for i := 0; i < st.NumField(); i++ {
			f := st.Field(i)
			if f.IsExported() && !f.Anonymous {
				b.fields[normalize(f.Name)] = f.Index
			}
		}
	}
	return b
}

// method binds the explicit handler registered under key, else the Go
// method whose normalized name is norm. It returns nil when neither exists.
func (b *binder) method(key, norm string, sig *schema.Signature) (*handler, error) {
	var fn reflect.Value
	if h, ok := b.explicit[key]; ok {
		fn = reflect.ValueOf(h)
	} else if m, ok := b.methods[norm]; ok {
		fn = m
	} else {
		return nil, nil
	}
	return bindFunc(fn, sig)
}

// field binds the struct field matching an attribute name.
func (b *binder) field(name string, sig *schema.Signature, set bool) (*handler, error) {
	idx, ok := b.fields[normalize(name)]
	if !ok {
		return nil, nil
	}
	ft := b.impl.Type().Elem().FieldByIndex(idx).Type
	nt := marshal.NativeType(sig.Params[0].Type)
	if !accepts(nt, ft) || !accepts(ft, nt) {
		return nil, errors.New(errors.PhaseRegister, errors.KindRegistration).
			NativeType(nt.String()).Detail("field of type %s cannot hold %s", ft, sig.Params[0].Type).Build()
	}
	return &handler{sig: sig, field: idx, set: set}, nil
}

// handler is one bound member: a function or a struct field.
type handler struct {
	fn      reflect.Value
	sig     *schema.Signature
	field   []int
	set     bool
	withCtx bool
	hasErr  bool
	hasRet  bool
}

// bindFunc checks fn against sig and records its calling convention.
func bindFunc(fn reflect.Value, sig *schema.Signature) (*handler, error) {
	if !fn.IsValid() {
		return nil, bindError(sig, "handler is nil")
	}
	ft := fn.Type()
	if ft.Kind() != reflect.Func {
		return nil, bindError(sig, "handler must be a function, got %s", ft)
	}

	h := &handler{fn: fn, sig: sig}
	in := 0
	if ft.NumIn() > 0 && ft.In(0) == contextType {
		h.withCtx = true
		in = 1
	}

	for _, p := range sig.Params {
		if p.Retval {
			continue
		}
		if in >= ft.NumIn() {
			return nil, bindError(sig, "handler takes %d arguments, need one per parameter", ft.NumIn())
		}
		nt := marshal.NativeType(p.Type)
		at := ft.In(in)
		if p.Direction.Writes() {
			if at != reflect.PointerTo(nt) {
				return nil, bindError(sig, "parameter %s must be *%s, got %s", p.Name, nt, at)
			}
		} else if !accepts(nt, at) {
			return nil, bindError(sig, "parameter %s cannot take %s as %s", p.Name, nt, at)
		}
		in++
	}
	if in != ft.NumIn() {
		return nil, bindError(sig, "handler takes %d arguments, signature has %d", ft.NumIn(), in)
	}

	out := ft.NumOut()
	if out > 0 && ft.Out(out-1) == errorType {
		h.hasErr = true
		out--
	}
	if r := sig.Retval(); r >= 0 {
		nt := marshal.NativeType(sig.Params[r].Type)
		if out != 1 || !accepts(ft.Out(0), nt) {
			return nil, bindError(sig, "handler must return %s", nt)
		}
		h.hasRet = true
	} else if out != 0 {
		return nil, bindError(sig, "handler returns values but signature has no retval")
	}
	return h, nil
}

func bindError(sig *schema.Signature, msg string, args ...any) error {
	return errors.New(errors.PhaseRegister, errors.KindRegistration).
		Path(sig.Name).Detail(msg, args...).Build()
}

func (h *handler) call(ctx context.Context, params []any) error {
	ft := h.fn.Type()
	args := make([]reflect.Value, 0, ft.NumIn())
	if h.withCtx {
		args = append(args, reflect.ValueOf(ctx))
	}
	for i, p := range h.sig.Params {
		if p.Retval {
			continue
		}
		if p.Direction.Writes() {
			args = append(args, reflect.ValueOf(params[i]))
			continue
		}
		args = append(args, convert(reflect.ValueOf(params[i]), ft.In(len(args))))
	}

	results := h.fn.Call(args)
	if h.hasErr {
		if e := results[len(results)-1]; !e.IsNil() {
			return e.Interface().(error)
		}
	}
	if h.hasRet {
		r := h.sig.Retval()
		marshal.Store(params[r], nativeOf(results[0], marshal.NativeType(h.sig.Params[r].Type)))
	}
	return nil
}

func (h *handler) access(impl any, params []any) error {
	fv := reflect.ValueOf(impl).Elem().FieldByIndex(h.field)
	if h.set {
		fv.Set(convert(reflect.ValueOf(params[0]), fv.Type()))
		return nil
	}
	marshal.Store(params[0], nativeOf(fv, marshal.NativeType(h.sig.Params[0].Type)))
	return nil
}

// accepts reports whether every value of type from can be passed as to:
// directly, or as a numeric conversion that loses nothing.
func accepts(from, to reflect.Type) bool {
	if from == nil || to == nil {
		return false
	}
	if from.AssignableTo(to) {
		return true
	}
	return widens(from, to)
}

// widens reports whether the numeric type to holds every value of from.
func widens(from, to reflect.Type) bool {
	fc, tc := numClass(from), numClass(to)
	if fc == notNumber || tc == notNumber {
		return false
	}
	switch {
	case fc == tc:
		return to.Bits() >= from.Bits()
	case fc == unsignedNumber && tc == signedNumber:
		return to.Bits() > from.Bits()
	case tc == floatNumber:
		// integers must fit the mantissa
		mantissa := 24
		if to.Kind() == reflect.Float64 {
			mantissa = 53
		}
		bits := from.Bits()
		if fc == signedNumber {
			bits--
		}
		return bits <= mantissa
	}
	return false
}

type numberClass uint8

const (
	notNumber numberClass = iota
	signedNumber
	unsignedNumber
	floatNumber
)

func numClass(t reflect.Type) numberClass {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return signedNumber
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return unsignedNumber
	case reflect.Float32, reflect.Float64:
		return floatNumber
	}
	return notNumber
}

func convert(v reflect.Value, to reflect.Type) reflect.Value {
	if !v.IsValid() {
		return reflect.Zero(to)
	}
	if v.Type().AssignableTo(to) {
		return v
	}
	return v.Convert(to)
}

// nativeOf returns v as a value of the native type nt. Nil pointers bound
// for interface-typed storage become an untyped nil.
func nativeOf(v reflect.Value, nt reflect.Type) any {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		if v.IsNil() && nt.Kind() == reflect.Interface {
			return nil
		}
	}
	if v.Type().AssignableTo(nt) {
		return v.Interface()
	}
	return v.Convert(nt).Interface()
}
