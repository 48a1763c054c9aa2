package script

import (
	"fmt"
	"time"

	"github.com/ostroot/sandjs/codec"
)

type outcome struct {
	value codec.Value
	err   error
}

// guard runs one invocation under the Script's deadline. The invocation
// runs on its own goroutine; an independent watchdog timer issues a forced
// termination into the engine when the deadline elapses. Completion wins
// the race if its result is produced before the interrupt lands inside the
// engine. Caller holds s.mu.
func (s *Script) guard(fn func() (codec.Value, error)) (codec.Value, error) {
	done := make(chan outcome, 1)
	fired := make(chan struct{})

	watchdog := time.AfterFunc(s.timeout, func() {
		s.eng.Interrupt(interruptMessage)
		close(fired)
	})

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: &Error{
					Kind:    KindRuntime,
					Message: fmt.Sprintf("engine panic: %v", r),
				}}
			}
		}()
		v, err := fn()
		done <- outcome{value: v, err: err}
	}()

	out := <-done

	// Stop reports false when the deadline already elapsed. The watchdog
	// callback may still be mid-flight at that point; wait until its
	// interrupt has been issued before deciding who won, so a late
	// interrupt cannot land in the idle engine and terminate a later run.
	if !watchdog.Stop() {
		<-fired
		if KindOf(out.err) == KindTimeout {
			s.poisoned = true
			return nil, out.err
		}
		// The invocation finished before the interrupt was observed;
		// drop the stale interrupt so it cannot poison the engine.
		s.eng.ClearInterrupt()
	}

	return out.value, out.err
}
