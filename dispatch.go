package optargs

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoHandler is returned by dispatch when the resolved leaf command has no
// handler registered under the requested entry-point name.
var ErrNoHandler = errors.New("no handler registered")

// Handler is a function invoked for one resolved command. It receives the
// merged parse result and a [Printer] for user-facing output.
type Handler func(res *Result, p *Printer) error

// Dispatcher maps resolved command paths to handlers. Handlers are looked up
// by structural path equality, one handler per (path, entry-point name)
// pair; registering the same entry-point name at every level gives the
// conventional "run" tree without any runtime symbol resolution.
type Dispatcher struct {
	root     *Cmd
	handlers map[string]map[string]Handler
	pre      []PreDispatch
	printer  *Printer
}

// NewDispatcher creates a dispatcher over the command tree rooted at root.
func NewDispatcher(root *Cmd) *Dispatcher {
	return &Dispatcher{
		root:     root.root(),
		handlers: map[string]map[string]Handler{},
		printer:  NewPrinter(),
	}
}

// Printer returns the dispatcher's [Printer].
func (d *Dispatcher) Printer() *Printer {
	return d.printer
}

// Handle registers a handler for the space-joined command path, root name
// first (for example "demo remote add"). The path must name an existing
// node; a declaration error is returned otherwise so a typo in a handler
// registration fails at startup, not on first use.
func (d *Dispatcher) Handle(path, name string, h Handler) error {
	if h == nil {
		return declErr(d.root, "handler %q for %q: nil handler", name, path)
	}
	if name == "" {
		return declErr(d.root, "handler for %q: missing entry-point name", path)
	}
	names := strings.Fields(path)
	if len(names) == 0 || names[0] != d.root.name {
		return declErr(d.root, "handler %q: path %q does not start at %q", name, path, d.root.name)
	}
	node, err := d.root.Descend(names[1:]...)
	if err != nil {
		return declErr(d.root, "handler %q: %s", name, err)
	}
	key := node.PathName()
	if d.handlers[key] == nil {
		d.handlers[key] = map[string]Handler{}
	}
	if _, ok := d.handlers[key][name]; ok {
		return declErr(d.root, "handler %q for %q: already registered", name, key)
	}
	d.handlers[key][name] = h
	return nil
}

// Dispatch parses tokens against the tree, resolves the command path, and
// invokes the handler registered under name for that path. Parse failures,
// including help requests, propagate unchanged; a missing handler wraps
// [ErrNoHandler].
func (d *Dispatcher) Dispatch(name string, tokens []string) error {
	res, err := d.root.Parse(tokens)
	if err != nil {
		return err
	}
	return d.invoke(name, res)
}

// DispatchPreset is the testing aid of the dispatch API: entries of preset
// are treated as already-resolved options instead of being tokenized, with a
// nil value denoting a boolean flag. Preset runs bypass the parse cache.
func (d *Dispatcher) DispatchPreset(name string, preset Values, tokens []string) error {
	res, err := d.root.match(tokens, preset)
	if err != nil {
		return err
	}
	return d.invoke(name, res)
}

func (d *Dispatcher) invoke(name string, res *Result) error {
	key := strings.Join(res.Path(), " ")
	h := d.handlers[key][name]
	if h == nil {
		return fmt.Errorf("%w: %q for command %q", ErrNoHandler, name, key)
	}
	if l := d.root.logger(); l != nil {
		l.Debug("dispatching", "path", key, "name", name)
	}
	if err := d.runPreDispatch(); err != nil {
		return err
	}
	return h(res, d.printer)
}
