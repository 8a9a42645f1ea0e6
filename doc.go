/*
Package optargs is a declarative command line engine: options and positional
arguments are registered against a command node, nodes nest to form a
sub-command tree, and one parse run matches the raw tokens against the tree,
coerces everything to typed values, and hands back a single merged result or
a fully rendered usage message.

There are a few opinionated policies for how this operates.

  - Declarations are explicit data. [New] returns the root node and
    [Cmd.SubCmd] returns child handles, so declaration order and node
    identity live in your code rather than in hidden package-level state.
  - Token-to-typed-slot binding is delegated to [pflag] value slots. The
    engine decides which declaration a token belongs to; the slot does the
    coercion and the accumulate-on-repeat behavior.
  - Options are inherited. An option declared on a node is bindable while
    parsing any descendant, and a descendant can never redeclare it; that
    collision is rejected when the tree is built.
  - Usage output is deterministic and declaration-ordered, so it can be
    asserted against verbatim in tests.

# Invocation

Parsing a tree always follows this shape:

	root := optargs.New("demo", "an example program")
	_ = root.Opt("dry_run", optargs.OptSpec{Isa: optargs.Bool, Alias: "n", Comment: "do nothing"})
	_ = root.Arg("command", optargs.ArgSpec{Isa: optargs.SubCmd, Required: true, Comment: "command to run"})
	sub, _ := root.SubCmd("init", optargs.CmdSpec{Comment: "initialise something"})
	_ = sub.Arg("name", optargs.ArgSpec{Isa: optargs.Str, Required: true, Comment: "name to initialise"})

	res, err := root.Parse(nil) // nil means os.Args[1:]

Every failure is a [UsageError] carrying a [Kind] and the rendered usage
text, so a caller can print it unmodified. A help-flagged option
(OptSpec.IsHelp) short-circuits parsing with [KindHelp], which callers treat
as print-and-exit-zero rather than a failure.

# Dispatch

For tree-based programs, [NewDispatcher] maps resolved command paths to
handlers by structural path equality:

	d := optargs.NewDispatcher(root)
	_ = d.Handle("demo init", "run", func(res *optargs.Result, p *optargs.Printer) error {
		p.Println("initialising", res.Str("name"))
		return nil
	})
	err := d.Dispatch("run", nil)

The same entry-point name is conventionally registered at every level.
[Dispatcher.RespondInteractive] adds a line-oriented interactive mode over
the same tree.

[pflag]: https://github.com/spf13/pflag
*/
package optargs
