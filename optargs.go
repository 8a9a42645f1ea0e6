package optargs

import (
	"strings"
)

// New creates the root node of a command tree. Declarations are appended
// with [Cmd.Opt] and [Cmd.Arg], and child commands created with
// [Cmd.SubCmd]. The build phase is expected to complete before the first
// parse; the tree is not synchronized, so concurrent build calls must be
// serialized by the caller.
func New(name, comment string) *Cmd {
	return &Cmd{name: name, comment: comment, byName: map[string]*Cmd{}}
}

// Opt appends an option declaration to c. The option is visible while
// parsing c and every node below it. Returns a declaration error for an
// empty or duplicate name, a name or alias colliding with an inherited or
// descendant option, a missing or unknown type, a missing comment, or
// Required combined with Default.
func (c *Cmd) Opt(name string, spec OptSpec) error {
	if err := c.checkName(name, optionKind); err != nil {
		return err
	}
	ts, err := typeOf(spec.Isa)
	if err != nil {
		return declErr(c, "option %q: %w", name, err)
	}
	if ts.argOnly {
		return declErr(c, "option %q: type %s is argument-only", name, spec.Isa)
	}
	if spec.Comment == "" {
		return declErr(c, "option %q: missing comment", name)
	}
	if spec.Required && spec.Default != nil {
		return declErr(c, "option %q: required and default are mutually exclusive", name)
	}
	if spec.Default != nil && spec.Default.compute == nil {
		if err := checkLiteral(spec.Isa, spec.Default.value); err != nil {
			return declErr(c, "option %q: %w", name, err)
		}
	}
	d := &decl{
		name:       name,
		kind:       optionKind,
		isa:        spec.Isa,
		comment:    spec.Comment,
		def:        spec.Default,
		required:   spec.Required,
		aliases:    splitAliases(spec.Alias),
		hyphenName: strings.ReplaceAll(name, "_", "-"),
		hidden:     spec.Hidden,
		ishelp:     spec.IsHelp,
		env:        spec.Env,
		owner:      c,
	}
	if existing := c.optCollision(d.matchNames()); existing != nil {
		return declErr(c, "option %q: name or alias collides with option %q on command %q",
			name, existing.name, existing.owner.PathName())
	}
	c.opts = append(c.opts, d)
	c.invalidate()
	return nil
}

// Arg appends a positional argument declaration to c. Arguments match
// command line tokens in declaration order. Returns a declaration error for
// an empty or duplicate name, a missing or unknown type, a missing comment,
// Required combined with Default, any argument declared after a greedy one,
// a greedy argument of a type that cannot accumulate tokens, or a fallback
// on a non-SubCmd argument.
func (c *Cmd) Arg(name string, spec ArgSpec) error {
	if err := c.checkName(name, argumentKind); err != nil {
		return err
	}
	ts, err := typeOf(spec.Isa)
	if err != nil {
		return declErr(c, "argument %q: %w", name, err)
	}
	if ts.optOnly {
		return declErr(c, "argument %q: type %s is option-only", name, spec.Isa)
	}
	if spec.Comment == "" {
		return declErr(c, "argument %q: missing comment", name)
	}
	if spec.Required && spec.Default != nil {
		return declErr(c, "argument %q: required and default are mutually exclusive", name)
	}
	if spec.Default != nil && spec.Default.compute == nil {
		if err := checkLiteral(spec.Isa, spec.Default.value); err != nil {
			return declErr(c, "argument %q: %w", name, err)
		}
	}
	if g := c.greedyArg(); g != nil {
		return declErr(c, "argument %q: no arguments may follow greedy argument %q", name, g.name)
	}
	if spec.Greedy && !ts.greedyOK {
		return declErr(c, "argument %q: type %s cannot be greedy", name, spec.Isa)
	}
	if spec.Greedy && spec.Isa == SubCmd {
		return declErr(c, "argument %q: a SubCmd argument cannot be greedy", name)
	}
	d := &decl{
		name:       name,
		kind:       argumentKind,
		isa:        spec.Isa,
		comment:    spec.Comment,
		def:        spec.Default,
		required:   spec.Required,
		hyphenName: name,
		greedy:     spec.Greedy,
		hidden:     spec.Hidden,
		owner:      c,
	}
	if spec.Fallback != nil {
		fb, err := c.buildFallback(name, spec)
		if err != nil {
			return err
		}
		d.fallback = fb
	}
	c.args = append(c.args, d)
	c.invalidate()
	return nil
}

func (c *Cmd) buildFallback(argName string, spec ArgSpec) (*decl, error) {
	fb := spec.Fallback
	if spec.Isa != SubCmd {
		return nil, declErr(c, "argument %q: fallback requires type SubCmd, not %s", argName, spec.Isa)
	}
	if fb.Name == "" {
		return nil, declErr(c, "argument %q: fallback is missing a name", argName)
	}
	ts, err := typeOf(fb.Isa)
	if err != nil {
		return nil, declErr(c, "argument %q: fallback %q: %w", argName, fb.Name, err)
	}
	if fb.Isa == SubCmd || ts.optOnly {
		return nil, declErr(c, "argument %q: fallback %q must have a concrete value type, not %s",
			argName, fb.Name, fb.Isa)
	}
	if fb.Comment == "" {
		return nil, declErr(c, "argument %q: fallback %q: missing comment", argName, fb.Name)
	}
	for _, d := range c.args {
		if d.name == fb.Name {
			return nil, declErr(c, "argument %q: fallback name %q already declared", argName, fb.Name)
		}
	}
	return &decl{
		name:       fb.Name,
		kind:       argumentKind,
		isa:        fb.Isa,
		comment:    fb.Comment,
		required:   fb.Required,
		hyphenName: fb.Name,
		owner:      c,
	}, nil
}

// SubCmd creates a child command under c, registered under name and every
// alias in the spec. The child is selected at parse time when a SubCmd-typed
// argument's token matches one of those names, and the returned handle is
// used for the child's own declarations.
func (c *Cmd) SubCmd(name string, spec CmdSpec) (*Cmd, error) {
	if name == "" {
		return nil, declErr(c, "sub-command: missing name")
	}
	if spec.Comment == "" {
		return nil, declErr(c, "sub-command %q: missing comment", name)
	}
	names := append([]string{name}, spec.Aliases...)
	for _, n := range names {
		if n == "" {
			return nil, declErr(c, "sub-command %q: empty alias", name)
		}
		if _, ok := c.byName[n]; ok {
			return nil, declErr(c, "sub-command %q: name %q already registered", name, n)
		}
	}
	sub := &Cmd{
		name:    name,
		comment: spec.Comment,
		hidden:  spec.Hidden,
		aliases: spec.Aliases,
		parent:  c,
		byName:  map[string]*Cmd{},
	}
	c.children = append(c.children, sub)
	for _, n := range names {
		c.byName[n] = sub
	}
	c.invalidate()
	return sub, nil
}

func (c *Cmd) checkName(name string, kind declKind) error {
	if name == "" {
		return declErr(c, "%s: missing name", kind)
	}
	if strings.ContainsAny(name, " \t=") || strings.HasPrefix(name, "-") {
		return declErr(c, "%s %q: invalid name", kind, name)
	}
	var decls []*decl
	if kind == optionKind {
		decls = c.opts
	} else {
		decls = c.args
	}
	for _, d := range decls {
		if d.name == name {
			return declErr(c, "%s %q: already declared", kind, name)
		}
		if d.fallback != nil && d.fallback.name == name {
			return declErr(c, "%s %q: already declared as a fallback", kind, name)
		}
	}
	return nil
}
