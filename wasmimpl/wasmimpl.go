// Package wasmimpl runs native implementations as WebAssembly modules.
//
// Each method of the bound interfaces maps to the module export of the same
// name; attribute accessors map to the exports "[get]name" and "[set]name".
// A function takes one wasm parameter per in and inout parameter, in
// declaration order, and returns the retval first followed by every out
// and inout parameter in declaration order:
//
//	divmod(a: u32, b: u32) -> (u32, u32)   ;; (func (param i32 i32) (result i32 i32))
//
// Only scalar types have a flat wasm form; signatures using strings,
// arrays, identifiers, objects or variants fail at bind time.
package wasmimpl

import (
	"context"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/xpbridge"
	"github.com/wippyai/xpbridge/errors"
	"github.com/wippyai/xpbridge/marshal"
	"github.com/wippyai/xpbridge/schema"
)

// Options configures module instantiation.
type Options struct {
	// MemoryLimitPages caps guest memory in 64KiB pages; 0 keeps the
	// runtime default.
	MemoryLimitPages uint32
	// CloseOnContextDone aborts a running call when its context ends.
	CloseOnContextDone bool
}

// DefaultOptions returns default module configuration.
func DefaultOptions() Options {
	return Options{CloseOnContextDone: true}
}

// Target is an instantiated module bound to registered interfaces. Calls
// into the module are serialized.
type Target struct {
	runtime  wazero.Runtime
	module   api.Module
	resolver *schema.Resolver
	exports  map[string]*export
	ifaces   []string
	mu       sync.Mutex
}

var _ xpbridge.Target = (*Target)(nil)
var _ xpbridge.Object = (*Target)(nil)

// export is one module function bound to a signature.
type export struct {
	fn      api.Function
	sig     *schema.Signature
	args    []int
	results []int
}

// New compiles and instantiates wasm, then binds its exports to the named
// interfaces registered with r. Members without a matching export fail
// when called. The caller must Close the target.
func New(ctx context.Context, r *schema.Resolver, wasm []byte, opts Options, ifaces ...string) (*Target, error) {
	if len(ifaces) == 0 {
		return nil, errors.InvalidInput(errors.PhaseRegister, "at least one interface is required")
	}

	cfg := wazero.NewRuntimeConfig().WithCloseOnContextDone(opts.CloseOnContextDone)
	if opts.MemoryLimitPages > 0 {
		cfg = cfg.WithMemoryLimitPages(opts.MemoryLimitPages)
	}
	rt := wazero.NewRuntimeWithConfig(ctx, cfg)

	compiled, err := rt.CompileModule(ctx, wasm)
	if err != nil {
		_ = rt.Close(ctx)
		return nil, errors.Wrap(errors.PhaseRegister, errors.KindInvalidInput, err, "compile module")
	}
	mod, err := rt.InstantiateModule(ctx, compiled, wazero.NewModuleConfig().WithName(""))
	if err != nil {
		_ = rt.Close(ctx)
		return nil, errors.Wrap(errors.PhaseRegister, errors.KindInvalidInput, err, "instantiate module")
	}

	t := &Target{
		runtime:  rt,
		module:   mod,
		resolver: r,
		ifaces:   ifaces,
		exports:  make(map[string]*export),
	}
	for _, name := range ifaces {
		iface, ok := r.Interface(name)
		if !ok {
			_ = rt.Close(ctx)
			return nil, errors.NotRegistered(name)
		}
		for ; iface != nil; iface, _ = r.Interface(iface.Parent) {
			if err := t.bindInterface(iface); err != nil {
				_ = rt.Close(ctx)
				return nil, err
			}
		}
	}

	Logger().Debug("module bound",
		zap.Strings("interfaces", ifaces),
		zap.Int("exports", len(t.exports)))
	return t, nil
}

func (t *Target) bindInterface(iface *schema.Interface) error {
	bind := func(key string, sig *schema.Signature) error {
		if _, done := t.exports[key]; done || sig == nil {
			return nil
		}
		fn := t.module.ExportedFunction(key)
		if fn == nil {
			return nil
		}
		e, err := bindExport(fn, sig)
		if err != nil {
			return errors.Registration(iface.Name, key, err)
		}
		t.exports[key] = e
		return nil
	}

	for _, name := range iface.MethodNames() {
		sig, _ := iface.Method(name)
		if err := bind(name, sig); err != nil {
			return err
		}
	}
	for _, name := range iface.AttributeNames() {
		attr, _ := iface.Attribute(name)
		if err := bind("[get]"+name, attr.Getter()); err != nil {
			return err
		}
		if err := bind("[set]"+name, attr.Setter()); err != nil {
			return err
		}
	}
	return nil
}

// bindExport checks the function type against sig.
func bindExport(fn api.Function, sig *schema.Signature) (*export, error) {
	e := &export{fn: fn, sig: sig}
	var params, results []api.ValueType

	if r := sig.Retval(); r >= 0 {
		vt, ok := valueType(sig.Params[r].Type.Tag)
		if !ok {
			return nil, unsupported(sig, sig.Params[r])
		}
		results = append(results, vt)
		e.results = append(e.results, r)
	}
	for i, p := range sig.Params {
		if p.Retval {
			continue
		}
		vt, ok := valueType(p.Type.Tag)
		if !ok {
			return nil, unsupported(sig, p)
		}
		if p.Direction.Reads() {
			params = append(params, vt)
			e.args = append(e.args, i)
		}
		if p.Direction.Writes() {
			results = append(results, vt)
			e.results = append(e.results, i)
		}
	}

	def := fn.Definition()
	if !slices.Equal(def.ParamTypes(), params) || !slices.Equal(def.ResultTypes(), results) {
		return nil, errors.New(errors.PhaseRegister, errors.KindRegistration).
			Path(sig.Name).
			Detail("export has type %s -> %s, signature needs %s -> %s",
				typeList(def.ParamTypes()), typeList(def.ResultTypes()), typeList(params), typeList(results)).
			Build()
	}
	return e, nil
}

func unsupported(sig *schema.Signature, p schema.Param) error {
	return errors.New(errors.PhaseRegister, errors.KindUnsupported).
		Path(sig.Name, p.Name).NativeType(p.Type.String()).
		Detail("type has no flat wasm representation").Build()
}

func typeList(ts []api.ValueType) string {
	names := make([]string, len(ts))
	for i, vt := range ts {
		names[i] = api.ValueTypeName(vt)
	}
	return "(" + strings.Join(names, " ") + ")"
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

// Exports returns the sorted member keys bound to module functions.
func (t *Target) Exports() []string {
	return slices.Sorted(maps.Keys(t.exports))
}

// Invoke calls the export bound to call. A trap fails the call and leaves
// the out parameters untouched.
func (t *Target) Invoke(ctx context.Context, call *xpbridge.Call) error {
	key := call.Method
	switch call.Op {
	case xpbridge.OpGetter:
		key = "[get]" + call.Method
	case xpbridge.OpSetter:
		key = "[set]" + call.Method
	}
	e := t.exports[key]
	if e == nil {
		return errors.New(errors.PhaseInvoke, errors.KindUnsupported).
			Path(key).Detail("module does not export %q", key).Build()
	}

	stack := make([]uint64, len(e.args))
	for n, i := range e.args {
		native := call.Params[i]
		if e.sig.Params[i].Direction.Writes() {
			native = marshal.Load(native)
		}
		stack[n] = encode(native)
	}

	t.mu.Lock()
	results, err := e.fn.Call(ctx, stack...)
	t.mu.Unlock()
	if err != nil {
		return errors.New(errors.PhaseInvoke, errors.KindNativeInvocationFailed).
			Path(key).Detail("module call failed").Cause(err).Build()
	}

	for n, i := range e.results {
		marshal.Store(call.Params[i], decode(e.sig.Params[i].Type.Tag, results[n]))
	}
	return nil
}

// Close releases the module and its runtime.
func (t *Target) Close(ctx context.Context) error {
	return t.runtime.Close(ctx)
}
