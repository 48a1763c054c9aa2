package sandjs

import (
	"os"
	"path/filepath"

	"github.com/ostroot/sandjs/codec"
	"github.com/ostroot/sandjs/engine/gojaengine"
	"github.com/ostroot/sandjs/script"
)

// FromString initializes a script context from JavaScript source. The
// source runs top-to-bottom exactly once; a syntax error or an uncaught
// exception during this run yields an init-kind error.
func FromString(source string, opts ...script.Option) (*script.Script, error) {
	return script.New(gojaengine.New(), source, opts...)
}

// FromFile initializes a script context by loading a .js file. The file's
// base name is used for error positions.
func FromFile(path string, opts ...script.Option) (*script.Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &script.Error{
			Kind:    script.KindInit,
			Message: err.Error(),
			Cause:   err,
		}
	}
	opts = append([]script.Option{script.WithFilename(filepath.Base(path))}, opts...)
	return FromString(string(data), opts...)
}

// EvalJSON evaluates a standalone JavaScript expression and returns its
// value as a serialized tree. Useful for one-shot evaluation without a
// persistent context.
func EvalJSON(expr string) (codec.Value, error) {
	source := "function __sandjs_expr() {\n\treturn (\n" + expr + "\n\t);\n}"

	s, err := FromString(source)
	if err != nil {
		return nil, err
	}
	return s.CallRaw("__sandjs_expr")
}
