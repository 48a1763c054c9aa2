// Package sandjs embeds JavaScript as a scripting language in Go programs.
//
// # Overview
//
// sandjs loads a piece of JavaScript source, runs it once inside an
// isolated context, and then calls its top-level functions from Go. All
// values cross the boundary as serialized trees (JSON), never as live
// engine objects, and long-running calls can be bounded by a wall-clock
// timeout that forcibly terminates the script.
//
// # Call a function
//
//	s, _ := sandjs.FromString(`function triple(a) { return 3 * a; }`)
//	result, _ := script.Call[int](s, "triple", 7) // 21
//
// # Maintain state
//
// Globals declared by the source persist across calls:
//
//	s, _ := sandjs.FromString(`
//	    var total = '';
//	    function append(str) { total += str; }
//	    function get()       { return total; }`)
//	s.Call(nil, "append", "hello")
//	s.Call(nil, "append", " world")
//	result, _ := script.Call[string](s, "get") // "hello world"
//
// # Bound execution time
//
//	s, _ := sandjs.FromString(src, script.WithTimeout(time.Second))
//
// A call that exceeds the deadline fails with a timeout error and the
// context must be discarded; construct a fresh one to retry.
//
// See the [script], [codec], and [engine/gojaengine] packages for the
// detailed API.
package sandjs
