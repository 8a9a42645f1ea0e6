package optargs

// PreDispatch is a function that runs before a dispatched handler.
type PreDispatch func() error

// PreDispatch registers a function that will be executed right before a
// handler runs, after parsing and handler lookup have both succeeded, so a
// help request or usage failure never triggers the hooks. Hooks run in
// registration order; an error from one aborts the dispatch and is returned
// in place of the handler's result.
//
// Passing a nil function panics.
func (d *Dispatcher) PreDispatch(fn PreDispatch) {
	if fn == nil {
		panic("nil pre-dispatch function")
	}
	d.pre = append(d.pre, fn)
}

func (d *Dispatcher) runPreDispatch() error {
	for _, fn := range d.pre {
		if err := fn(); err != nil {
			return err
		}
	}
	return nil
}
