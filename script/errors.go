package script

import "errors"

// Kind classifies every failure mode of the bridge.
type Kind string

const (
	// KindInit: parse failure or uncaught exception during the one-time run
	// of the source. Fatal to the context.
	KindInit Kind = "init"
	// KindCall: the target name is absent or not a function. Recoverable by
	// calling a different name.
	KindCall Kind = "call"
	// KindRuntime: uncaught exception during a call. The context remains
	// nominally usable for unrelated calls.
	KindRuntime Kind = "runtime"
	// KindTimeout: the deadline elapsed and execution was terminated. The
	// context must be discarded.
	KindTimeout Kind = "timeout"
	// KindEncode: a host value or engine result could not be serialized.
	KindEncode Kind = "encode"
	// KindDecode: a tree did not match the requested target shape.
	KindDecode Kind = "decode"
)

// Error is the typed error surfaced by every Script operation.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return string(e.Kind) + ": " + e.Message
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Cause }

// KindOf returns the Kind of err, or "" if err is not a bridge error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// ErrUnusable is returned by calls into a Script after a timeout has fired.
// A timed-out context is never reused; construct a fresh one from the
// original source instead.
var ErrUnusable = errors.New("script discarded after timeout")

// interruptMessage is the fixed message distinguishing forced termination
// from a script-thrown exception.
const interruptMessage = "execution terminated"
