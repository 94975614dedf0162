package dispatch

import (
	"context"

	"go.uber.org/zap"

	"github.com/wippyai/xpbridge"
	"github.com/wippyai/xpbridge/errors"
	"github.com/wippyai/xpbridge/internal/numconv"
	"github.com/wippyai/xpbridge/marshal"
	"github.com/wippyai/xpbridge/schema"
	"github.com/wippyai/xpbridge/value"
)

// frame owns everything one invocation touches. It is never shared.
type frame struct {
	sig    *schema.Signature
	engine *marshal.Engine
	log    *zap.Logger
	// args holds the caller value for each param index; retval stays Unset
	args []value.Value
	// native holds the value or, for out and inout params, the pointer
	// handed to the target
	native []any
	// counts holds the bound count per size param index, -1 until known
	counts []int
	// derived marks counts taken from the length of a bound param
	derived []bool
	method string
	op     xpbridge.Op
	state  State
}

func newFrame(sig *schema.Signature, op xpbridge.Op, engine *marshal.Engine, log *zap.Logger) *frame {
	f := &frame{
		sig:     sig,
		op:      op,
		method:  sig.Name,
		engine:  engine,
		log:     log,
		args:    make([]value.Value, len(sig.Params)),
		native:  make([]any, len(sig.Params)),
		counts:  make([]int, len(sig.Params)),
		derived: make([]bool, len(sig.Params)),
	}
	for i := range f.counts {
		f.counts[i] = -1
	}
	return f
}

func (f *frame) advance() {
	to := next[f.state]
	f.log.Debug("call state",
		zap.String("method", f.method),
		zap.Stringer("from", f.state),
		zap.Stringer("to", to))
	f.state = to
}

// fail returns the frame to Idle and annotates err with the failing
// parameter when there is one.
func (f *frame) fail(err error, param int) error {
	f.log.Debug("call failed",
		zap.String("method", f.method),
		zap.Stringer("state", f.state),
		zap.Error(err))
	f.state = StateIdle
	if param < 0 {
		return err
	}
	if xe, ok := err.(*errors.Error); ok {
		return xe.WithPath(f.method, f.sig.Params[param].Name)
	}
	return err
}

// bindArgs maps positional caller args onto the non-retval params.
func (f *frame) bindArgs(args []value.Value) error {
	minArgs, maxArgs := f.sig.ArgRange()
	if len(args) < minArgs || len(args) > maxArgs {
		return errors.ArgumentCount(f.method, len(args), minArgs, maxArgs)
	}
	pos := 0
	for i, p := range f.sig.Params {
		if p.Retval {
			continue
		}
		if pos < len(args) {
			f.args[i] = args[pos]
		}
		pos++
	}
	return nil
}

// coerceInputs produces the native value of every param in signature
// order. Sized params are bound together with their size param.
func (f *frame) coerceInputs() (int, error) {
	for i, p := range f.sig.Params {
		if f.sig.IsSize(i) {
			continue
		}
		native, err := f.coerceParam(i, p)
		if err != nil {
			return i, err
		}
		f.store(i, native)
	}

	for i, p := range f.sig.Params {
		if !f.sig.IsSize(i) {
			continue
		}
		count, err := f.count(i)
		if err != nil {
			return i, err
		}
		native, err := f.engine.Coerce(value.Int(int64(count)), p.Type, schema.In)
		if err != nil {
			return i, err
		}
		f.store(i, native)
	}
	return -1, nil
}

func (f *frame) coerceParam(i int, p schema.Param) (any, error) {
	if !p.Type.Tag.IsSized() {
		return f.engine.Coerce(f.args[i], p.Type, p.Direction)
	}

	if !p.Direction.Reads() {
		return marshal.Zero(p.Type), nil
	}
	declared, err := f.count(p.SizeIs)
	if err != nil {
		return nil, err
	}
	derived := f.derived[p.SizeIs]
	if derived {
		declared = -1
	}

	var (
		native any
		count  int
	)
	if p.Type.Tag == schema.TagArray {
		native, count, err = f.engine.BindArray(f.args[i], *p.Type.Elem, declared)
	} else {
		native, count, err = f.engine.BindSizedString(f.args[i], p.Type, declared)
	}
	if err != nil {
		return nil, err
	}
	if derived && count != f.counts[p.SizeIs] {
		return nil, errors.New(errors.PhaseCoerce, errors.KindInvalidLength).
			Value(count).Detail("length %d differs from %d of the other params sharing %s",
			count, f.counts[p.SizeIs], f.sig.Params[p.SizeIs].Name).Build()
	}
	// the first bound param fixes an unset count for the others
	if declared < 0 {
		f.derived[p.SizeIs] = true
	}
	f.counts[p.SizeIs] = count
	return native, nil
}

// count returns the count for size param i: the caller's explicit value,
// else the length bound so far, else -1 for a readable size and 0 when
// nothing supplies one.
func (f *frame) count(i int) (int, error) {
	if f.counts[i] >= 0 {
		return f.counts[i], nil
	}
	p := f.sig.Params[i]
	arg := f.args[i].Deref()
	if !p.Direction.Reads() || arg.IsUnset() || arg.IsNull() {
		if f.boundReads(i) {
			return -1, nil
		}
		f.counts[i] = 0
		return 0, nil
	}

	native, err := f.engine.Coerce(arg, p.Type, schema.In)
	if err != nil {
		return 0, err
	}
	n, ok := numconv.Int64(native)
	if !ok || n < 0 {
		return 0, errors.New(errors.PhaseCoerce, errors.KindInvalidLength).
			Value(native).Detail("count must be a non-negative integer").Build()
	}
	f.counts[i] = int(n)
	return f.counts[i], nil
}

// boundReads reports whether a readable sized param is bound to size i
// and still has to supply its length.
func (f *frame) boundReads(i int) bool {
	for _, j := range f.sig.SizedBy(i) {
		if f.sig.Params[j].Direction.Reads() {
			return true
		}
	}
	return false
}

func (f *frame) store(i int, native any) {
	p := f.sig.Params[i]
	if p.Direction.Writes() {
		f.native[i] = marshal.Alloc(p.Type, native)
		return
	}
	f.native[i] = native
}

func (f *frame) invoke(ctx context.Context, target xpbridge.Target) error {
	call := &xpbridge.Call{
		Signature: f.sig,
		Method:    f.method,
		Params:    f.native,
		Op:        f.op,
	}
	if err := target.Invoke(ctx, call); err != nil {
		f.log.Warn("native call failed", zap.String("method", f.method), zap.Error(err))
		return errors.NativeInvocationFailed(f.method, err)
	}
	return nil
}

// liftOutputs converts every out and inout param back into caller form.
// Nothing is written to caller slots here.
func (f *frame) liftOutputs() ([]value.Value, int, error) {
	out := make([]value.Value, len(f.sig.Params))
	for i, p := range f.sig.Params {
		if !p.Direction.Writes() {
			continue
		}
		native := marshal.Load(f.native[i])

		var (
			v   value.Value
			err error
		)
		switch {
		case p.Type.Tag == schema.TagArray:
			v, err = f.engine.LiftArray(native, *p.Type.Elem, f.finalCount(p.SizeIs))
		case p.Type.Tag.IsSized():
			v, err = f.engine.LiftSizedString(native, p.Type, f.finalCount(p.SizeIs))
		default:
			v, err = f.engine.Lift(native, p.Type)
		}
		if err != nil {
			return nil, i, err
		}
		out[i] = v
	}
	return out, -1, nil
}

// finalCount reads size param i after the native call.
func (f *frame) finalCount(i int) int {
	native := f.native[i]
	if f.sig.Params[i].Direction.Writes() {
		native = marshal.Load(native)
	}
	n, ok := numconv.Int64(native)
	if !ok || n < 0 {
		return 0
	}
	return int(n)
}

// commit writes lifted outputs into slots and builds the result.
func (f *frame) commit(lifted []value.Value) *Result {
	res := &Result{}
	for i, p := range f.sig.Params {
		if !p.Direction.Writes() {
			continue
		}
		if p.Retval {
			res.Return = lifted[i]
			res.HasReturn = true
			continue
		}
		slot, ok := f.args[i].AsSlot()
		if !ok || slot == nil {
			slot = value.NewSlot(value.Unset())
		}
		slot.Value = lifted[i]
		res.Outputs = append(res.Outputs, slot)
		res.Names = append(res.Names, p.Name)
	}
	return res
}
