package sandjs_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ostroot/sandjs"
	"github.com/ostroot/sandjs/script"
)

func TestCallMinimal(t *testing.T) {
	s, err := sandjs.FromString("function triple(a) { return 3 * a; }")
	if err != nil {
		t.Fatalf("init: %v", err)
	}

	result, err := script.Call[int](s, "triple", 7)
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if result != 21 {
		t.Errorf("got %d, want 21", result)
	}
}

func TestCallDeterministic(t *testing.T) {
	s, err := sandjs.FromString("function triple(a) { return 3 * a; }")
	if err != nil {
		t.Fatalf("init: %v", err)
	}

	for i := 0; i < 5; i++ {
		result, err := script.Call[int](s, "triple", 7)
		if err != nil || result != 21 {
			t.Fatalf("call %d: got %d, %v", i, result, err)
		}
	}
}

func TestCallMultiArgs(t *testing.T) {
	s, err := sandjs.FromString("function div(a, b) { return a / b; }")
	if err != nil {
		t.Fatalf("init: %v", err)
	}

	result, err := script.Call[float64](s, "div", 15, 4)
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if result != 3.75 {
		t.Errorf("got %v, want 3.75", result)
	}
}

func TestCallStructToString(t *testing.T) {
	type person struct {
		Name string `json:"name"`
		Age  int    `json:"age"`
	}

	s, err := sandjs.FromString(`
	function toString(person) {
		return "A person named " + person.name + " of age " + person.age;
	}`)
	if err != nil {
		t.Fatalf("init: %v", err)
	}

	result, err := script.Call[string](s, "toString", person{Name: "Roger", Age: 42})
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if result != "A person named Roger of age 42" {
		t.Errorf("got %q", result)
	}
}

func TestCallMapToMap(t *testing.T) {
	s, err := sandjs.FromString(`
	function fillMap(map) {
		map.cats = 2;
		return map;
	}`)
	if err != nil {
		t.Fatalf("init: %v", err)
	}

	result, err := script.Call[map[string]int](s, "fillMap", map[string]int{"dogs": 3})
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if result["dogs"] != 3 || result["cats"] != 2 {
		t.Errorf("got %v", result)
	}
}

func TestCallVoid(t *testing.T) {
	s, err := sandjs.FromString("function print(expr) { console.log(expr); }")
	if err != nil {
		t.Fatalf("init: %v", err)
	}

	if err := s.Call(nil, "print", "some text"); err != nil {
		t.Errorf("void call: %v", err)
	}
}

func TestSequentialState(t *testing.T) {
	s, err := sandjs.FromString(`
	var total = '';
	function append(str) { total += str; }
	function get()       { return total; }`)
	if err != nil {
		t.Fatalf("init: %v", err)
	}

	if err := s.Call(nil, "append", "a"); err != nil {
		t.Fatalf("append a: %v", err)
	}
	if err := s.Call(nil, "append", "b"); err != nil {
		t.Fatalf("append b: %v", err)
	}

	result, err := script.Call[string](s, "get")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if result != "ab" {
		t.Errorf("got %q, want %q", result, "ab")
	}
}

func TestCallRepeated(t *testing.T) {
	s, err := sandjs.FromString(`
	function triple(a) { return 3 * a; }
	function square(a) { return a * a; }`)
	if err != nil {
		t.Fatalf("init: %v", err)
	}

	tripled, err := script.Call[int](s, "triple", 7)
	if err != nil || tripled != 21 {
		t.Fatalf("triple: %d, %v", tripled, err)
	}
	squared, err := script.Call[int](s, "square", 7)
	if err != nil || squared != 49 {
		t.Fatalf("square: %d, %v", squared, err)
	}
}

func TestInitSyntaxError(t *testing.T) {
	s, err := sandjs.FromString("function triple(a) { return 3 *. a; }")
	if s != nil {
		t.Error("expected no script from bad source")
	}
	if script.KindOf(err) != script.KindInit {
		t.Errorf("expected init kind, got %v", err)
	}
}

func TestCallInexistentFunction(t *testing.T) {
	s, err := sandjs.FromString("function triple(a) { return 3 * a; }")
	if err != nil {
		t.Fatalf("init: %v", err)
	}

	_, err = script.Call[int](s, "tripel", 7)
	if script.KindOf(err) != script.KindCall {
		t.Errorf("expected call kind, got %v", err)
	}
}

func TestCallException(t *testing.T) {
	s, err := sandjs.FromString(`function boom() { throw "string_error"; }`)
	if err != nil {
		t.Fatalf("init: %v", err)
	}

	_, err = script.Call[int](s, "boom")
	if script.KindOf(err) != script.KindRuntime {
		t.Errorf("expected runtime kind, got %v", err)
	}
}

func TestCallTimeout(t *testing.T) {
	const timeout = 200 * time.Millisecond
	const margin = 500 * time.Millisecond

	s, err := sandjs.FromString(
		"function run_forever() { for(;;) {} }",
		script.WithTimeout(timeout),
	)
	if err != nil {
		t.Fatalf("init: %v", err)
	}

	start := time.Now()
	_, err = script.Call[string](s, "run_forever")
	elapsed := time.Since(start)

	if script.KindOf(err) != script.KindTimeout {
		t.Fatalf("expected timeout kind, got %v", err)
	}
	if !strings.Contains(err.Error(), "execution terminated") {
		t.Errorf("expected termination message, got %v", err)
	}
	if elapsed < timeout {
		t.Errorf("terminated before the deadline (%v)", elapsed)
	}
	if elapsed > timeout+margin {
		t.Errorf("took too long to terminate (%v)", elapsed)
	}

	// A timed-out context must never be reused.
	_, err = script.Call[int](s, "run_forever")
	if !errors.Is(err, script.ErrUnusable) {
		t.Errorf("expected ErrUnusable, got %v", err)
	}
}

func TestCallAsync(t *testing.T) {
	s, err := sandjs.FromString(`
	async function async_func() {
		return new Promise((resolve) => resolve(3));
	}`)
	if err != nil {
		t.Fatalf("init: %v", err)
	}

	result, err := script.Call[int](s, "async_func")
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if result != 3 {
		t.Errorf("got %d, want 3", result)
	}
}

func TestFromFile(t *testing.T) {
	s, err := sandjs.FromFile("testdata/hello.js")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	type args struct {
		Text string `json:"text"`
		Num  int    `json:"num"`
	}
	type result struct {
		NewText string `json:"new_text"`
		NewNum  int    `json:"new_num"`
	}

	got, err := script.Call[result](s, "extract", args{Text: "hi", Num: 4})
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	want := result{NewText: "hi.", NewNum: 12}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestFromFileMissing(t *testing.T) {
	s, err := sandjs.FromFile("testdata/does_not_exist.js")
	if s != nil {
		t.Error("expected no script from missing file")
	}
	if script.KindOf(err) != script.KindInit {
		t.Errorf("expected init kind, got %v", err)
	}
}

func TestEvalJSON(t *testing.T) {
	cases := []struct {
		expr string
		want string
	}{
		{"5 + 3", "8"},
		{`"a" + "b"`, `"ab"`},
		{`({name: "x", vals: [1, 2]})`, `{"name":"x","vals":[1,2]}`},
		{"null", "null"},
	}

	for _, tc := range cases {
		got, err := sandjs.EvalJSON(tc.expr)
		if err != nil {
			t.Errorf("eval %q: %v", tc.expr, err)
			continue
		}
		if string(got) != tc.want {
			t.Errorf("eval %q: got %s, want %s", tc.expr, got, tc.want)
		}
	}
}

func TestEvalOnContext(t *testing.T) {
	s, err := sandjs.FromString("var base = 10;")
	if err != nil {
		t.Fatalf("init: %v", err)
	}

	var result int
	if err := s.Eval(&result, "base * 2"); err != nil {
		t.Fatalf("eval: %v", err)
	}
	if result != 20 {
		t.Errorf("got %d, want 20", result)
	}
}
