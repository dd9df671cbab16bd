// Package sandbox evaluates user-authored chart transforms.
//
// This is a best-effort containment, not a security boundary. Each run gets
// a fresh goja runtime with no I/O bindings at all, the usual escape hatches
// (eval, Function, Reflect, Proxy, Promise, globalThis) are removed from the
// global object, and Denylist strips dangerous tokens from the source first.
// Code that reaches a constructor through a prototype chain, or spells a
// token in a way the pattern does not match, is not stopped. The runtime only
// has access to what it is given, so the worst case is burning CPU until
// the interrupt fires.
package sandbox

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dop251/goja"
)

// DefaultTimeout bounds a single transform run.
const DefaultTimeout = 2 * time.Second

// ErrTimeout is returned when a transform is interrupted.
var ErrTimeout = errors.New("transform timed out")

// removedGlobals are deleted from every runtime before user code runs.
var removedGlobals = []string{
	"eval", "Function", "Reflect", "Proxy", "Promise", "WebAssembly", "globalThis",
	"setTimeout", "setInterval", "setImmediate", "queueMicrotask",
	"require", "process", "Worker", "SharedWorker", "Atomics", "SharedArrayBuffer",
}

// NotArrayError is returned by RunArray when the transform completes but its
// result is anything other than a JS Array.
type NotArrayError struct {
	Got string
}

func (e *NotArrayError) Error() string {
	return "transform must return an array, got " + e.Got
}

// namedBuiltins are recognised by prototype when describing a non-array result.
var namedBuiltins = []string{
	"Map", "Set", "WeakMap", "WeakSet", "Date", "RegExp", "Error", "ArrayBuffer", "DataView",
	"Int8Array", "Uint8Array", "Uint8ClampedArray", "Int16Array", "Uint16Array",
	"Int32Array", "Uint32Array", "Float32Array", "Float64Array", "Object",
}

// Runner executes transform bodies.
type Runner struct {
	Timeout time.Duration
}

func New() *Runner {
	return &Runner{Timeout: DefaultTimeout}
}

// Run executes src as a function body with rows bound as the only input and
// returns the exported result, whatever its type.
func (r *Runner) Run(ctx context.Context, src string, rows []map[string]any) (any, error) {
	v, _, err := r.eval(ctx, src, rows)
	if err != nil {
		return nil, err
	}
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil, nil
	}
	return v.Export(), nil
}

// RunArray is Run for transforms that must `return` an array. The check is
// made on the JS value, so Map, Set and typed arrays are rejected even
// though they export to Go slices.
func (r *Runner) RunArray(ctx context.Context, src string, rows []map[string]any) ([]any, error) {
	v, protos, err := r.eval(ctx, src, rows)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(*goja.Object)
	if !ok || obj.ClassName() != "Array" {
		return nil, &NotArrayError{Got: typeName(v, protos)}
	}
	items, ok := obj.Export().([]any)
	if !ok {
		return nil, &NotArrayError{Got: typeName(v, protos)}
	}
	return items, nil
}

// eval runs src and also returns the builtin prototypes as they were before
// user code could touch the globals.
func (r *Runner) eval(ctx context.Context, src string, rows []map[string]any) (goja.Value, map[*goja.Object]string, error) {
	vm := goja.New()

	global := vm.GlobalObject()
	for _, name := range removedGlobals {
		if err := global.Delete(name); err != nil {
			return nil, nil, fmt.Errorf("remove %s: %w", name, err)
		}
	}

	protos := make(map[*goja.Object]string, len(namedBuiltins))
	for _, name := range namedBuiltins {
		if ctor, ok := global.Get(name).(*goja.Object); ok {
			if proto, ok := ctor.Get("prototype").(*goja.Object); ok {
				protos[proto] = name
			}
		}
	}

	input := make([]any, len(rows))
	for i, row := range rows {
		input[i] = row
	}
	if err := vm.Set("rows", input); err != nil {
		return nil, nil, fmt.Errorf("bind rows: %w", err)
	}

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	timer := time.AfterFunc(timeout, func() { vm.Interrupt(ErrTimeout) })
	defer timer.Stop()
	stop := context.AfterFunc(ctx, func() { vm.Interrupt(ctx.Err()) })
	defer stop()

	v, err := vm.RunString(wrap(Denylist(src)))
	if err != nil {
		var interrupted *goja.InterruptedError
		if errors.As(err, &interrupted) {
			if cause, ok := interrupted.Value().(error); ok {
				return nil, nil, cause
			}
			return nil, nil, ErrTimeout
		}
		return nil, nil, err
	}
	return v, protos, nil
}

func typeName(v goja.Value, protos map[*goja.Object]string) string {
	switch {
	case v == nil || goja.IsUndefined(v):
		return "undefined"
	case goja.IsNull(v):
		return "null"
	}
	if obj, ok := v.(*goja.Object); ok {
		// goja reports Map, Set and typed arrays as class Object
		if name, ok := protos[obj.Prototype()]; ok {
			return name
		}
		return obj.ClassName()
	}
	switch v.Export().(type) {
	case string:
		return "string"
	case bool:
		return "boolean"
	case int64, float64:
		return "number"
	}
	return fmt.Sprintf("%T", v.Export())
}

func wrap(body string) string {
	return "(function () {\n" + body + "\n})()"
}
