// Package script implements the call bridge between a synchronous host
// caller and an embedded script engine: one-time context initialization,
// named-function invocation across a serialization boundary, and wall-clock
// execution bounding with forced termination.
package script

import (
	"fmt"
	"sync"
	"time"

	"github.com/ostroot/sandjs/codec"
)

// Script is one live, initialized execution context bound to one piece of
// source code. It is created once from source and mutated only through
// calls, which observe script-global state from all prior calls in order.
//
// A Script supports a single invocation in flight; calls from multiple
// goroutines are serialized.
type Script struct {
	eng     Engine
	timeout time.Duration

	mu       sync.Mutex // one invocation in flight
	poisoned bool       // a timeout fired; context no longer trustworthy
}

// New initializes a Script from source using the given engine. The source
// runs top-to-bottom exactly once; any parse error or uncaught exception
// yields a KindInit error and no Script.
func New(eng Engine, source string, opts ...Option) (*Script, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := eng.Init(cfg.filename, source); err != nil {
		return nil, err
	}

	return &Script{eng: eng, timeout: cfg.timeout}, nil
}

// WithTimeout equips the Script with a deadline for all subsequent calls
// and returns it for chaining. A call that exceeds the deadline is forcibly
// terminated and the Script must be discarded afterwards.
func (s *Script) WithTimeout(d time.Duration) *Script {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timeout = d
	return s
}

// Call invokes the top-level function name with the given arguments and
// decodes its result into out. Each argument is encoded on the host side,
// crosses the boundary as a serialized tree, and is decoded again inside
// the context before the invocation. Pass a nil out to discard the result;
// an undefined result decodes as null.
//
// Asynchronous functions are resolved before Call returns: the engine
// drains its internal job queue, so the call is synchronous from the
// caller's point of view.
func (s *Script) Call(out any, name string, args ...any) error {
	encoded := make([]codec.Value, len(args))
	for i, a := range args {
		v, err := codec.Encode(a)
		if err != nil {
			return &Error{
				Kind:    KindEncode,
				Message: fmt.Sprintf("argument %d: %v", i, err),
				Cause:   err,
			}
		}
		encoded[i] = v
	}

	raw, err := s.CallRaw(name, encoded...)
	if err != nil {
		return err
	}
	return decodeResult(raw, out)
}

// Call invokes a top-level function and returns its result as R.
func Call[R any](s *Script, name string, args ...any) (R, error) {
	var out R
	err := s.Call(&out, name, args...)
	return out, err
}

// CallRaw invokes a top-level function with pre-encoded arguments and
// returns the encoded result.
func (s *Script) CallRaw(name string, args ...codec.Value) (codec.Value, error) {
	for _, a := range args {
		if a == nil {
			return nil, &Error{Kind: KindEncode, Message: "nil argument tree"}
		}
	}
	return s.invoke(func() (codec.Value, error) {
		return s.eng.Call(name, args)
	})
}

// Eval runs a source snippet and decodes the value of its final expression
// into out. Pass a nil out to discard the result.
func (s *Script) Eval(out any, source string) error {
	raw, err := s.EvalRaw(source)
	if err != nil {
		return err
	}
	return decodeResult(raw, out)
}

// EvalRaw runs a source snippet and returns the encoded value of its final
// expression.
func (s *Script) EvalRaw(source string) (codec.Value, error) {
	return s.invoke(func() (codec.Value, error) {
		return s.eng.Eval(source)
	})
}

func (s *Script) invoke(fn func() (codec.Value, error)) (codec.Value, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.poisoned {
		return nil, &Error{Kind: KindTimeout, Message: ErrUnusable.Error(), Cause: ErrUnusable}
	}
	if s.timeout <= 0 {
		return fn()
	}
	return s.guard(fn)
}

func decodeResult(raw codec.Value, out any) error {
	if out == nil {
		return nil
	}
	if err := codec.Decode(raw, out); err != nil {
		return &Error{Kind: KindDecode, Message: err.Error(), Cause: err}
	}
	return nil
}
