// Package gojaengine implements the script.Engine capability on the goja
// JavaScript engine.
//
// One Engine owns one goja runtime. Arguments and results cross the
// boundary as serialized trees and are converted inside the context with
// the context's own JSON facilities, so no native engine values ever reach
// the host. goja drains its promise job queue before control returns to Go,
// which gives the bridge its run-to-quiescence guarantee, and its Interrupt
// primitive is safe from another goroutine even inside CPU-bound loops.
package gojaengine

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dop251/goja"
	"github.com/dop251/goja_nodejs/console"
	"github.com/dop251/goja_nodejs/require"

	"github.com/ostroot/sandjs/codec"
	"github.com/ostroot/sandjs/script"
)

const evalFilename = "<eval>"

// Engine is a single goja execution context.
type Engine struct {
	vm        *goja.Runtime
	parse     goja.Callable
	stringify goja.Callable
	jsonObj   *goja.Object
	ready     bool
}

// New creates an uninitialized Engine. It becomes usable after Init.
func New() *Engine {
	return &Engine{vm: goja.New()}
}

// Init compiles and runs the source exactly once, establishing top-level
// bindings. console.log is available to the source.
func (e *Engine) Init(filename, source string) error {
	if e.ready {
		return &script.Error{Kind: script.KindInit, Message: "context already initialized"}
	}

	prog, err := compile(filename, source)
	if err != nil {
		return &script.Error{
			Kind:    script.KindInit,
			Message: "syntax error: " + err.Error(),
			Cause:   err,
		}
	}

	registry := new(require.Registry)
	registry.Enable(e.vm)
	console.Enable(e.vm)

	if _, err := e.vm.RunProgram(prog); err != nil {
		return e.classify(script.KindInit, err)
	}

	jsonVal := e.vm.Get("JSON")
	jsonObj, ok := jsonVal.(*goja.Object)
	if !ok {
		return &script.Error{Kind: script.KindInit, Message: "JSON object unavailable in context"}
	}
	parse, ok := goja.AssertFunction(jsonObj.Get("parse"))
	if !ok {
		return &script.Error{Kind: script.KindInit, Message: "JSON.parse unavailable in context"}
	}
	stringify, ok := goja.AssertFunction(jsonObj.Get("stringify"))
	if !ok {
		return &script.Error{Kind: script.KindInit, Message: "JSON.stringify unavailable in context"}
	}

	e.jsonObj = jsonObj
	e.parse = parse
	e.stringify = stringify
	e.ready = true
	return nil
}

// Call invokes a top-level function with the given encoded arguments and
// returns its encoded result. The promise job queue is drained before the
// result is settled, so asynchronous functions resolve before Call returns.
func (e *Engine) Call(name string, args []codec.Value) (codec.Value, error) {
	if !e.ready {
		return nil, &script.Error{Kind: script.KindCall, Message: "context not initialized"}
	}

	fn, ok := goja.AssertFunction(e.vm.GlobalObject().Get(name))
	if !ok {
		return nil, &script.Error{
			Kind:    script.KindCall,
			Message: fmt.Sprintf("%q is not defined or not a function", name),
		}
	}

	jsArgs := make([]goja.Value, len(args))
	for i, arg := range args {
		v, err := e.parse(e.jsonObj, e.vm.ToValue(string(arg)))
		if err != nil {
			// A forced termination can land here too; it must not be
			// misreported as a malformed argument.
			if cerr := e.classify(script.KindEncode, err); script.KindOf(cerr) == script.KindTimeout {
				return nil, cerr
			}
			return nil, &script.Error{
				Kind:    script.KindEncode,
				Message: fmt.Sprintf("argument %d is not a valid tree: %v", i, err),
				Cause:   err,
			}
		}
		jsArgs[i] = v
	}

	res, err := fn(goja.Undefined(), jsArgs...)
	if err != nil {
		return nil, e.classify(script.KindRuntime, err)
	}
	return e.settle(res)
}

// Eval runs a snippet and returns the encoded value of its final expression.
func (e *Engine) Eval(source string) (codec.Value, error) {
	if !e.ready {
		return nil, &script.Error{Kind: script.KindCall, Message: "context not initialized"}
	}

	res, err := e.vm.RunScript(evalFilename, source)
	if err != nil {
		return nil, e.classify(script.KindRuntime, err)
	}
	return e.settle(res)
}

// Interrupt aborts in-flight execution from another goroutine. goja checks
// the interrupt flag on loop back-edges, so non-cooperative loops terminate.
func (e *Engine) Interrupt(msg string) {
	e.vm.Interrupt(msg)
}

// ClearInterrupt resets an interrupt that lost the race against natural
// completion, so it cannot poison a later run.
func (e *Engine) ClearInterrupt() {
	e.vm.ClearInterrupt()
}

// settle resolves a settled promise to its value and encodes the result
// inside the context. undefined becomes null, as it has no tree form.
func (e *Engine) settle(v goja.Value) (codec.Value, error) {
	if p, ok := v.Export().(*goja.Promise); ok {
		switch p.State() {
		case goja.PromiseStateFulfilled:
			v = p.Result()
		case goja.PromiseStateRejected:
			return nil, &script.Error{
				Kind:    script.KindRuntime,
				Message: "uncaught exception: " + p.Result().String(),
			}
		default:
			// Quiescence reached with the promise still pending: nothing
			// inside the context can ever resolve it.
			return nil, &script.Error{
				Kind:    script.KindRuntime,
				Message: "promise never settled",
			}
		}
	}

	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return codec.Null, nil
	}

	encoded, err := e.stringify(e.jsonObj, v)
	if err != nil {
		return nil, &script.Error{
			Kind:    script.KindEncode,
			Message: "result is not serializable: " + err.Error(),
			Cause:   err,
		}
	}
	if goja.IsUndefined(encoded) {
		// JSON.stringify yields undefined for functions and symbols.
		return codec.Null, nil
	}
	return codec.Value(encoded.String()), nil
}

// classify maps a goja error to the bridge taxonomy. Forced termination is
// distinguished from script-thrown exceptions by its fixed message.
func (e *Engine) classify(kind script.Kind, err error) error {
	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) {
		return &script.Error{
			Kind:    script.KindTimeout,
			Message: fmt.Sprintf("%v", interrupted.Value()),
			Cause:   err,
		}
	}

	var exc *goja.Exception
	if errors.As(err, &exc) {
		return &script.Error{
			Kind:    kind,
			Message: "uncaught exception: " + exc.Value().String(),
			Cause:   err,
		}
	}

	return &script.Error{Kind: kind, Message: err.Error(), Cause: err}
}

// Compiled programs are immutable and shareable across runtimes, so sources
// are compiled once per process. The cache is capped: a host that streams
// distinct one-shot sources would otherwise retain every program forever.
// Beyond the cap new sources compile without being retained.
const compileCacheLimit = 256

var (
	compileMu sync.RWMutex
	compiled  = make(map[string]*goja.Program)
)

func compile(filename, source string) (*goja.Program, error) {
	key := filename + "\x00" + source

	compileMu.RLock()
	if prog, ok := compiled[key]; ok {
		compileMu.RUnlock()
		return prog, nil
	}
	compileMu.RUnlock()

	prog, err := goja.Compile(filename, source, false)
	if err != nil {
		return nil, err
	}

	compileMu.Lock()
	defer compileMu.Unlock()

	if cached, ok := compiled[key]; ok {
		return cached, nil
	}
	if len(compiled) < compileCacheLimit {
		compiled[key] = prog
	}
	return prog, nil
}
