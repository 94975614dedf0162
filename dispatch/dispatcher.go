// Package dispatch drives calls across the boundary: it resolves a member
// name to its signature, coerces caller arguments, invokes the native
// target and lifts outputs back into caller slots.
//
// Each call runs in its own frame through the states
//
//	idle -> signature-resolved -> inputs-coerced -> native-call-completed -> outputs-coerced -> idle
//
// and any failure returns straight to idle. Caller slots are written only
// once every output has been lifted, so a failed call never leaves partial
// results behind.
package dispatch

import (
	"context"

	"go.uber.org/zap"

	"github.com/wippyai/xpbridge"
	"github.com/wippyai/xpbridge/errors"
	"github.com/wippyai/xpbridge/marshal"
	"github.com/wippyai/xpbridge/schema"
	"github.com/wippyai/xpbridge/value"
)

// Result is the outcome of a successful call.
type Result struct {
	// Return is the retval, valid when HasReturn is set.
	Return value.Value
	// Outputs holds one slot per out and inout param, in signature order.
	// Slots the caller passed are reused; the others are fresh.
	Outputs   []*value.Slot
	Names     []string
	HasReturn bool
}

// Output returns the output of the named param.
func (r *Result) Output(name string) (value.Value, bool) {
	for i, n := range r.Names {
		if n == name {
			return r.Outputs[i].Value, true
		}
	}
	return value.Value{}, false
}

// Dispatcher invokes methods and accessors on targets. It holds no
// per-call state and is safe for concurrent use once its resolver is
// frozen.
type Dispatcher struct {
	resolver *schema.Resolver
	engine   *marshal.Engine
	log      *zap.Logger
	options  Options
}

// New creates a dispatcher resolving names through r.
func New(r *schema.Resolver, opts Options) *Dispatcher {
	log := opts.Logger
	if log == nil {
		log = Logger()
	}
	return &Dispatcher{
		resolver: r,
		engine:   marshal.New(opts.Limits),
		log:      log,
		options:  opts,
	}
}

// NewWithDefaults creates a dispatcher with default options.
func NewWithDefaults(r *schema.Resolver) *Dispatcher {
	return New(r, DefaultOptions())
}

// Options returns the configuration.
func (d *Dispatcher) Options() Options {
	return d.options
}

// Engine returns the conversion engine calls run through.
func (d *Dispatcher) Engine() *marshal.Engine {
	return d.engine
}

// Invoke calls method on target with positional caller args, one per
// non-retval param. Size params may be left Unset to take the length of
// their array, trailing optional params may be omitted, and out or inout
// params take a value.Ref slot that receives the output.
func (d *Dispatcher) Invoke(ctx context.Context, target xpbridge.Target, method string, args ...value.Value) (*Result, error) {
	sig, err := d.resolver.Method(method, target.Interfaces()...)
	if err != nil {
		return nil, err
	}
	return d.run(ctx, target, sig, xpbridge.OpMethod, args)
}

// GetAttribute reads an attribute or constant. Constants are served from
// the schema without calling the target.
func (d *Dispatcher) GetAttribute(ctx context.Context, target xpbridge.Target, name string) (value.Value, error) {
	m, err := d.resolver.Resolve(name, target.Interfaces()...)
	if err != nil {
		return value.Value{}, err
	}
	switch m.Kind {
	case schema.MemberConstant:
		return d.engine.Lift(m.Constant.Value, m.Constant.Type)
	case schema.MemberAttribute:
		res, err := d.run(ctx, target, m.Attribute.Getter(), xpbridge.OpGetter, nil)
		if err != nil {
			return value.Value{}, err
		}
		return res.Return, nil
	}
	return value.Value{}, errors.UnknownMethod(m.Interface.Name, name)
}

// SetAttribute writes an attribute. Read-only attributes and constants
// fail with a read-only error before the target is called.
func (d *Dispatcher) SetAttribute(ctx context.Context, target xpbridge.Target, name string, v value.Value) error {
	m, err := d.resolver.Resolve(name, target.Interfaces()...)
	if err != nil {
		return err
	}
	switch m.Kind {
	case schema.MemberConstant:
		return errors.ReadOnly(name)
	case schema.MemberAttribute:
		setter := m.Attribute.Setter()
		if setter == nil {
			return errors.ReadOnly(name)
		}
		_, err := d.run(ctx, target, setter, xpbridge.OpSetter, []value.Value{v})
		return err
	}
	return errors.UnknownMethod(m.Interface.Name, name)
}

func (d *Dispatcher) run(ctx context.Context, target xpbridge.Target, sig *schema.Signature, op xpbridge.Op, args []value.Value) (*Result, error) {
	f := newFrame(sig, op, d.engine, d.log)
	f.advance()

	if err := f.bindArgs(args); err != nil {
		return nil, f.fail(err, -1)
	}
	if param, err := f.coerceInputs(); err != nil {
		return nil, f.fail(err, param)
	}
	f.advance()

	if err := f.invoke(ctx, target); err != nil {
		return nil, f.fail(err, -1)
	}
	f.advance()

	lifted, param, err := f.liftOutputs()
	if err != nil {
		return nil, f.fail(err, param)
	}
	f.advance()

	res := f.commit(lifted)
	f.advance()
	return res, nil
}
