package script

import "github.com/ostroot/sandjs/codec"

// Engine is the embedded execution capability behind a Script. An
// implementation owns one execution context; the bridge never touches the
// engine's native object model, only the serialized trees passed here.
//
// See [github.com/ostroot/sandjs/engine/gojaengine] for the default
// implementation.
type Engine interface {
	// Init parses and runs the given source top-to-bottom exactly once,
	// establishing top-level function and variable bindings. A parse error
	// or an uncaught exception during this run yields a KindInit error and
	// the engine must not be reused.
	Init(filename, source string) error

	// Call looks up name as a top-level callable and invokes it with the
	// given arguments, each decoded inside the context with the engine's
	// own serialization facilities. The engine must drive its internal job
	// queue to quiescence before returning; the encoded result reflects the
	// settled value. Absent or non-callable names yield a KindCall error,
	// uncaught exceptions a KindRuntime error, forced termination a
	// KindTimeout error.
	Call(name string, args []codec.Value) (codec.Value, error)

	// Eval runs an arbitrary snippet and returns the encoded value of its
	// final expression, with the same draining and error rules as Call.
	Eval(source string) (codec.Value, error)

	// Interrupt aborts in-flight execution. It must be safe to call from a
	// goroutine other than the one running Call or Eval, and must be
	// effective even inside a CPU-bound loop with no suspension point.
	Interrupt(msg string)

	// ClearInterrupt resets a pending interrupt that was requested but lost
	// the race against natural completion.
	ClearInterrupt()
}
