package script

import (
	"sync/atomic"

	"github.com/ostroot/sandjs/codec"
)

// mockEngine implements Engine for testing bridge logic without a real
// JavaScript runtime.
type mockEngine struct {
	initErr error
	callFn  func(name string, args []codec.Value) (codec.Value, error)
	evalFn  func(source string) (codec.Value, error)

	interrupted atomic.Bool
	cleared     atomic.Bool
}

func (m *mockEngine) Init(filename, source string) error {
	return m.initErr
}

func (m *mockEngine) Call(name string, args []codec.Value) (codec.Value, error) {
	if m.callFn != nil {
		return m.callFn(name, args)
	}
	return codec.Null, nil
}

func (m *mockEngine) Eval(source string) (codec.Value, error) {
	if m.evalFn != nil {
		return m.evalFn(source)
	}
	return codec.Null, nil
}

func (m *mockEngine) Interrupt(msg string) {
	m.interrupted.Store(true)
}

func (m *mockEngine) ClearInterrupt() {
	m.cleared.Store(true)
}

// waitInterrupt spins until an interrupt has been requested, imitating a
// CPU-bound loop that only stops when terminated from outside.
func (m *mockEngine) waitInterrupt() {
	for !m.interrupted.Load() {
	}
}
