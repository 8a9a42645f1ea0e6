package optargs

import (
	"fmt"
	"maps"
	"slices"
)

// Result is the outcome of one successful parse: the merged option and
// argument values plus the resolved command path. A Result is created fresh
// per matcher run and never mutated afterwards, so cached results can be
// handed out repeatedly; the view methods return copies.
type Result struct {
	opts Values
	args Values
	path []string
	node *Cmd
}

// Opts returns the options-only view.
func (r *Result) Opts() Values {
	return maps.Clone(r.opts)
}

// Args returns the arguments-only view.
func (r *Result) Args() Values {
	return maps.Clone(r.args)
}

// All returns the combined view. An argument sharing a name with an option
// wins in the combined mapping.
func (r *Result) All() Values {
	out := maps.Clone(r.opts)
	maps.Copy(out, r.args)
	return out
}

// Path returns the resolved command path, root name first, one entry per
// node actually descended into.
func (r *Result) Path() []string {
	return slices.Clone(r.path)
}

// Cmd returns the deepest command node the parse resolved to.
func (r *Result) Cmd() *Cmd {
	return r.node
}

// Has reports whether name was bound or defaulted, as an option or argument.
func (r *Result) Has(name string) bool {
	if _, ok := r.opts[name]; ok {
		return true
	}
	_, ok := r.args[name]
	return ok
}

func (r *Result) lookup(name string) (any, bool) {
	if v, ok := r.args[name]; ok {
		return v, true
	}
	v, ok := r.opts[name]
	return v, ok
}

// Str returns a Str-typed value, or "" when absent.
func (r *Result) Str(name string) string { return zeroGet[string](r, name) }

// Int returns an Int-typed value, or 0 when absent.
func (r *Result) Int(name string) int { return zeroGet[int](r, name) }

// Num returns a Num-typed value, or 0 when absent.
func (r *Result) Num(name string) float64 { return zeroGet[float64](r, name) }

// Bool returns a Bool-typed value. An option never given on the command
// line is absent from the result, which reads as false here.
func (r *Result) Bool(name string) bool { return zeroGet[bool](r, name) }

// Count returns a Counter-typed value, or 0 when absent.
func (r *Result) Count(name string) int { return zeroGet[int](r, name) }

// Slice returns an ArrayRef-typed value, or nil when absent.
func (r *Result) Slice(name string) []string { return zeroGet[[]string](r, name) }

// Map returns a HashRef-typed value, or nil when absent.
func (r *Result) Map(name string) map[string]string { return zeroGet[map[string]string](r, name) }

func zeroGet[T any](r *Result, name string) T {
	v, _ := Get[T](r, name)
	return v
}

// Get retrieves a typed value from the result, reporting an error when the
// name is absent or holds a different type. Pair it with [MustGet] when the
// declaration guarantees the name is present.
func Get[T any](r *Result, name string) (T, error) {
	var zero T
	v, ok := r.lookup(name)
	if !ok {
		return zero, fmt.Errorf("no value named %q in result", name)
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("value %q is %T, not %T", name, v, zero)
	}
	return t, nil
}

// MustGet is used with [Get] to panic if the value is absent or is not the
// right type. The developer usually knows from the declarations whether a
// get call can fail, so this makes it easy to avoid re-checking.
func MustGet[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
