// Package gateway exposes plain Go values as dispatch targets.
//
// A Target binds each method and attribute of its interfaces to a Go
// method found by name. Method names are matched case-insensitively with
// underscores and dashes ignored, so do_boolean binds DoBoolean. Attribute
// boolean_value binds GetBooleanValue and SetBooleanValue, or an exported
// struct field BooleanValue when no accessor exists. Values implementing
// ExplicitRegistrar name their handlers directly.
//
// Handlers take an optional leading context.Context, then one argument
// per non-retval parameter in declaration order: in parameters by value,
// out and inout parameters as a pointer to their native type. They return
// the retval, if the signature has one, and optionally a trailing error.
//
//	func (c *Component) DoLong(p1 int32, p2 *int32, p3 *int32) (int32, error)
package gateway

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wippyai/xpbridge"
	"github.com/wippyai/xpbridge/errors"
	"github.com/wippyai/xpbridge/schema"
)

// ExplicitRegistrar lets an implementation supply handlers by member name
// when its Go method names do not follow the naming rules. Accessors use
// the keys "[get]name" and "[set]name".
type ExplicitRegistrar interface {
	Register() map[string]any
}

// Target adapts a Go value to xpbridge.Target. A Target is itself an
// xpbridge.Object, so it can be passed through interface parameters.
type Target struct {
	impl     any
	resolver *schema.Resolver
	handlers map[string]*handler
	ifaces   []string
	// guards field-backed attributes
	mu sync.Mutex
}

var _ xpbridge.Target = (*Target)(nil)
var _ xpbridge.Object = (*Target)(nil)

// New binds impl to the named interfaces, which must be registered with r.
// Members without a handler fail when called.
func New(r *schema.Resolver, impl any, ifaces ...string) (*Target, error) {
	if impl == nil {
		return nil, errors.InvalidInput(errors.PhaseRegister, "implementation cannot be nil")
	}
	if len(ifaces) == 0 {
		return nil, errors.InvalidInput(errors.PhaseRegister, "at least one interface is required")
	}

	t := &Target{
		impl:     impl,
		resolver: r,
		ifaces:   ifaces,
		handlers: make(map[string]*handler),
	}
	b := newBinder(impl)

	for _, name := range ifaces {
		iface, ok := r.Interface(name)
		if !ok {
			return nil, errors.NotRegistered(name)
		}
		for ; iface != nil; iface, _ = r.Interface(iface.Parent) {
			if err := t.bindInterface(b, iface); err != nil {
				return nil, err
			}
		}
	}

	Logger().Debug("target bound",
		zap.String("type", fmt.Sprintf("%T", impl)),
		zap.Strings("interfaces", ifaces),
		zap.Int("handlers", len(t.handlers)))
	return t, nil
}

func (t *Target) bindInterface(b *binder, iface *schema.Interface) error {
	for _, name := range iface.MethodNames() {
		if _, done := t.handlers[name]; done {
			continue
		}
		sig, _ := iface.Method(name)
		h, err := b.method(name, normalize(name), sig)
		if err != nil {
			return errors.Registration(iface.Name, "method "+name, err)
		}
		if h != nil {
			t.handlers[name] = h
		}
	}

	for _, name := range iface.AttributeNames() {
		key := memberKey(xpbridge.OpGetter, name)
		if _, done := t.handlers[key]; done {
			continue
		}
		attr, _ := iface.Attribute(name)
		h, err := b.method(key, normalize("get"+name), attr.Getter())
		if err == nil && h == nil {
			h, err = b.field(name, attr.Getter(), false)
		}
		if err != nil {
			return errors.Registration(iface.Name, "attribute "+name, err)
		}
		if h != nil {
			t.handlers[key] = h
		}

		setter := attr.Setter()
		if setter == nil {
			continue
		}
		key = memberKey(xpbridge.OpSetter, name)
		h, err = b.method(key, normalize("set"+name), setter)
		if err == nil && h == nil {
			h, err = b.field(name, setter, true)
		}
		if err != nil {
			return errors.Registration(iface.Name, "attribute "+name, err)
		}
		if h != nil {
			t.handlers[key] = h
		}
	}
	return nil
}

// Interfaces returns the interface names the target was bound to.
func (t *Target) Interfaces() []string {
	return t.ifaces
}

// Implements reports whether one of the target's interfaces is iid or
// derives from it.
func (t *Target) Implements(iid uuid.UUID) bool {
	for _, name := range t.ifaces {
		if t.resolver.Implements(name, iid) {
			return true
		}
	}
	return false
}

// Impl returns the wrapped Go value.
func (t *Target) Impl() any {
	return t.impl
}

// Invoke runs the handler bound to call. A panicking handler fails the
// call instead of unwinding into the dispatcher.
func (t *Target) Invoke(ctx context.Context, call *xpbridge.Call) (err error) {
	key := memberKey(call.Op, call.Method)
	h := t.handlers[key]
	if h == nil {
		return errors.New(errors.PhaseInvoke, errors.KindUnsupported).
			Path(key).Detail("not implemented by %T", t.impl).Build()
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			Logger().Warn("handler panicked", zap.String("member", key), zap.Any("panic", r))
			err = errors.New(errors.PhaseInvoke, errors.KindNativeInvocationFailed).
				Path(key).Detail("panic: %v", r).Build()
		}
	}()

	if h.field != nil {
		t.mu.Lock()
		defer t.mu.Unlock()
		return h.access(t.impl, call.Params)
	}
	return h.call(ctx, call.Params)
}

func memberKey(op xpbridge.Op, name string) string {
	switch op {
	case xpbridge.OpGetter:
		return "[get]" + name
	case xpbridge.OpSetter:
		return "[set]" + name
	}
	return name
}

// normalize folds a member or Go method name for matching: lower case,
// underscores and dashes removed.
func normalize(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '_', '-':
			return -1
		}
		if 'A' <= r && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}, s)
}
