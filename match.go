package optargs

import (
	"os"
	"slices"
	"strconv"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/rbonthond/optargs/env"
)

// Parse matches tokens against the subtree rooted at c, with every ancestor
// option active. A nil token slice means the live process arguments,
// os.Args[1:]. Results are cached per receiving node: re-parsing identical
// tokens on the same node with no intervening declaration change returns the
// same result without a second matcher run.
func (c *Cmd) Parse(tokens []string) (*Result, error) {
	if tokens == nil {
		tokens = os.Args[1:]
	}
	root := c.root()
	if root.cache != nil && root.cacheGen == root.gen && root.cacheNode == c && slices.Equal(root.cacheTokens, tokens) {
		if l := c.logger(); l != nil {
			l.Debug("parse cache hit", "tokens", tokens)
		}
		return root.cache, nil
	}
	res, err := c.match(tokens, nil)
	if err != nil {
		return nil, err
	}
	root.cache = res
	root.cacheGen = root.gen
	root.cacheNode = c
	root.cacheTokens = slices.Clone(tokens)
	return res, nil
}

// ParseAll returns the combined option and argument values of one parse.
func (c *Cmd) ParseAll(tokens []string) (Values, error) {
	res, err := c.Parse(tokens)
	if err != nil {
		return nil, err
	}
	return res.All(), nil
}

// ParseOptions returns the options-only view of one parse.
func (c *Cmd) ParseOptions(tokens []string) (Values, error) {
	res, err := c.Parse(tokens)
	if err != nil {
		return nil, err
	}
	return res.Opts(), nil
}

// ParseArguments returns the arguments-only view of one parse.
func (c *Cmd) ParseArguments(tokens []string) (Values, error) {
	res, err := c.Parse(tokens)
	if err != nil {
		return nil, err
	}
	return res.Args(), nil
}

// descent records one resolved SubCmd step: the node that was left and the
// index of the SubCmd argument that triggered the descent. Arguments the
// parent declared after that slot never entered scope.
type descent struct {
	node *Cmd
	upto int
}

// matchState carries one matcher run. Bound state and bypass values are
// keyed by declaration identity, never by name: distinct nodes along a path
// may declare same-named arguments (every level naming its SubCmd slot
// "command" is the conventional shape) and each must keep its own binding.
type matchState struct {
	start  *Cmd
	node   *Cmd
	active []*decl

	optFS *flag.FlagSet
	argFS *flag.FlagSet
	// slots maps argument declarations to their unique argFS slot key.
	slots map[*decl]string

	boundOpts map[*decl]bool
	boundArgs map[*decl]bool
	// values holds bindings that bypass the flag slots: resolved SubCmd
	// names and preset entries.
	values map[*decl]any

	path     []string
	argIdx   int
	descents []descent

	greedy     *decl
	greedyStrs []string
	noMoreOpts bool
}

func (c *Cmd) match(tokens []string, preset Values) (*Result, error) {
	st := &matchState{
		start:     c,
		node:      c,
		optFS:     flag.NewFlagSet(c.name+":options", flag.ContinueOnError),
		argFS:     flag.NewFlagSet(c.name+":arguments", flag.ContinueOnError),
		slots:     map[*decl]string{},
		boundOpts: map[*decl]bool{},
		boundArgs: map[*decl]bool{},
		values:    map[*decl]any{},
	}
	for _, node := range c.pathNodes() {
		st.path = append(st.path, node.name)
	}
	for _, d := range c.inheritedOpts() {
		st.activate(d)
	}
	if err := st.bindPreset(preset); err != nil {
		return nil, err
	}
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if st.greedy != nil {
			if err := st.consumeGreedy(tok); err != nil {
				return nil, err
			}
			continue
		}
		if !st.noMoreOpts && isOptToken(tok) {
			if tok == "--" {
				st.noMoreOpts = true
				continue
			}
			name, _, _ := splitOpt(tok)
			if d := st.lookupOpt(name); d != nil {
				used, err := st.bindOption(d, tok, tokens[i+1:])
				if err != nil {
					return nil, err
				}
				i += used
				continue
			}
			// An unrecognized dash token is only acceptable once a greedy
			// argument is next in line to swallow it.
			if p := st.pendingArg(); p == nil || !p.greedy {
				return nil, parseErr(st.node, "unexpected option or argument: %s", tok)
			}
		}
		if err := st.bindPositional(tok); err != nil {
			return nil, err
		}
	}
	st.finishGreedy()
	if err := st.bindEnv(); err != nil {
		return nil, err
	}
	return st.finish()
}

// activate adds one option to the match scope. Option names are unique along
// a path by the declare-time collision check, so optFS can key them by name.
func (st *matchState) activate(d *decl) {
	st.active = append(st.active, d)
	typeSpecs[d.isa].register(st.optFS, d.name, d.comment)
}

// slot returns the argument's typed binding slot key, registering it on
// first use. The key carries a per-parse serial so same-named arguments at
// different levels never share a slot.
func (st *matchState) slot(d *decl) string {
	if key, ok := st.slots[d]; ok {
		return key
	}
	key := strconv.Itoa(len(st.slots)) + ":" + d.name
	typeSpecs[d.isa].register(st.argFS, key, d.comment)
	st.slots[d] = key
	return key
}

func isOptToken(tok string) bool {
	return len(tok) > 1 && tok[0] == '-'
}

// splitOpt strips the dash prefix and separates an inline =value.
func splitOpt(tok string) (name, inline string, hasInline bool) {
	name = strings.TrimPrefix(strings.TrimPrefix(tok, "-"), "-")
	if eq := strings.IndexByte(name, '='); eq >= 0 {
		return name[:eq], name[eq+1:], true
	}
	return name, "", false
}

func (st *matchState) lookupOpt(name string) *decl {
	for _, d := range st.active {
		if d.matches(name) {
			return d
		}
	}
	return nil
}

// bindOption binds one matched option token's value. It returns how many of
// the following tokens were consumed.
func (st *matchState) bindOption(d *decl, tok string, rest []string) (int, error) {
	_, inline, hasInline := splitOpt(tok)
	if d.ishelp {
		return 0, helpErr(st.node)
	}
	used := 0
	var value string
	switch {
	case typeSpecs[d.isa].takesValue:
		if hasInline {
			value = inline
		} else {
			if len(rest) == 0 {
				return 0, parseErr(st.node, "option --%s requires a value", d.hyphenName)
			}
			value = rest[0]
			used = 1
		}
	case d.isa == Counter:
		value = counterIncrement
	default: // Bool
		value = "true"
		if hasInline {
			value = inline
		}
	}
	if err := st.optFS.Set(d.name, value); err != nil {
		return 0, parseErr(st.node, "unexpected option or argument: %s (%v)", tok, err)
	}
	// An explicit token wins over a preset entry for the same option.
	delete(st.values, d)
	st.boundOpts[d] = true
	if l := st.start.logger(); l != nil {
		l.Debug("bound option", "name", d.name, "token", tok)
	}
	return used, nil
}

// pendingArg returns the next unbound argument slot of the current node,
// advancing past slots already filled.
func (st *matchState) pendingArg() *decl {
	for st.argIdx < len(st.node.args) && st.boundArgs[st.node.args[st.argIdx]] {
		st.argIdx++
	}
	if st.argIdx >= len(st.node.args) {
		return nil
	}
	return st.node.args[st.argIdx]
}

func (st *matchState) bindPositional(tok string) error {
	d := st.pendingArg()
	if d == nil {
		return parseErr(st.node, "unexpected option or argument: %s", tok)
	}
	if d.isa == SubCmd {
		return st.bindSubCmd(d, tok)
	}
	if d.greedy {
		st.greedy = d
		return st.consumeGreedy(tok)
	}
	if err := st.argFS.Set(st.slot(d), tok); err != nil {
		return parseErr(st.node, "unexpected option or argument: %s (%v)", tok, err)
	}
	st.boundArgs[d] = true
	st.argIdx++
	if l := st.start.logger(); l != nil {
		l.Debug("bound argument", "name", d.name, "token", tok)
	}
	return nil
}

// bindSubCmd resolves a SubCmd argument's token: descend into a matching
// child, bind the fallback without descending, or fail.
func (st *matchState) bindSubCmd(d *decl, tok string) error {
	if child, ok := st.node.Child(tok); ok {
		st.values[d] = child.name
		st.boundArgs[d] = true
		st.descents = append(st.descents, descent{node: st.node, upto: st.argIdx})
		st.node = child
		st.argIdx = 0
		st.path = append(st.path, child.name)
		for _, opt := range child.opts {
			st.activate(opt)
		}
		if l := st.start.logger(); l != nil {
			l.Debug("descended into sub-command", "path", st.path)
		}
		return nil
	}
	if fb := d.fallback; fb != nil {
		if err := st.argFS.Set(st.slot(fb), tok); err != nil {
			return parseErr(st.node, "unexpected option or argument: %s (%v)", tok, err)
		}
		st.boundArgs[fb] = true
		st.argIdx++
		if l := st.start.logger(); l != nil {
			l.Debug("bound fallback", "name", fb.name, "token", tok)
		}
		return nil
	}
	return parseErr(st.node, "unknown sub-command %q", tok)
}

// consumeGreedy folds one token into the open greedy argument. Str joins
// tokens with spaces once scanning ends; ArrayRef and HashRef accumulate
// through their slots.
func (st *matchState) consumeGreedy(tok string) error {
	d := st.greedy
	key := st.slot(d)
	st.boundArgs[d] = true
	if d.isa == Str {
		st.greedyStrs = append(st.greedyStrs, tok)
		return nil
	}
	if err := st.argFS.Set(key, tok); err != nil {
		return parseErr(st.node, "unexpected option or argument: %s (%v)", tok, err)
	}
	return nil
}

func (st *matchState) finishGreedy() {
	if st.greedy == nil || st.greedy.isa != Str {
		return
	}
	// A Str slot accepts any token, so Set cannot fail here.
	_ = st.argFS.Set(st.slot(st.greedy), strings.Join(st.greedyStrs, " "))
}

// bindEnv fills unbound options that name an environment variable, with the
// same coercion as a command line token. Explicit tokens always win.
func (st *matchState) bindEnv() error {
	for _, d := range st.active {
		if d.env == "" || st.boundOpts[d] {
			continue
		}
		v, ok := env.Lookup(d.env)
		if !ok {
			continue
		}
		if err := st.optFS.Set(d.name, v); err != nil {
			return parseErr(st.node, "invalid value %q for --%s from %s (%v)", v, d.hyphenName, d.env, err)
		}
		st.boundOpts[d] = true
		if l := st.start.logger(); l != nil {
			l.Debug("bound option from environment", "name", d.name, "env", d.env)
		}
	}
	return nil
}

// bindPreset installs pre-resolved option values, the testing aid of the
// dispatch API. Entries bypass tokenization and coercion; a nil value
// denotes a boolean flag.
func (st *matchState) bindPreset(preset Values) error {
	keys := make([]string, 0, len(preset))
	for key := range preset {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		d := st.lookupOpt(key)
		if d == nil {
			return parseErr(st.node, "unexpected option or argument: --%s", key)
		}
		v := preset[key]
		if v == nil {
			switch d.isa {
			case Counter:
				v = 1
			default:
				v = true
			}
		}
		st.values[d] = v
		st.boundOpts[d] = true
	}
	return nil
}

// scopeDecls returns every declaration in scope for the defaults and
// required passes: active options root to leaf, then the arguments actually
// reachable along the resolved path, each SubCmd slot followed by its bound
// fallback.
func (st *matchState) scopeDecls() []*decl {
	out := slices.Clone(st.active)
	appendArgs := func(args []*decl) {
		for _, d := range args {
			out = append(out, d)
			if d.fallback != nil && st.boundArgs[d.fallback] {
				out = append(out, d.fallback)
			}
		}
	}
	for _, dd := range st.descents {
		appendArgs(dd.node.args[:dd.upto+1])
	}
	appendArgs(st.node.args)
	return out
}

func (st *matchState) bound(d *decl) bool {
	if d.kind == optionKind {
		return st.boundOpts[d]
	}
	return st.boundArgs[d]
}

func (st *matchState) extract(d *decl) (any, error) {
	if v, ok := st.values[d]; ok {
		return v, nil
	}
	if d.kind == optionKind {
		return typeSpecs[d.isa].value(st.optFS, d.name)
	}
	return typeSpecs[d.isa].value(st.argFS, st.slot(d))
}

// finish applies defaults in declaration order, verifies required
// declarations, and assembles the result. Values accumulate per declaration
// and are only then distributed by kind, so an option and an argument
// sharing a name stay separate in the segregated views; merged is the
// name-keyed mapping handed to computed defaults, where a later declaration
// shadows an earlier one of the same name.
func (st *matchState) finish() (*Result, error) {
	order := st.scopeDecls()
	vals := map[*decl]any{}
	merged := Values{}
	for _, d := range order {
		if !st.bound(d) {
			continue
		}
		v, err := st.extract(d)
		if err != nil {
			return nil, parseErr(st.node, "internal: reading %s %q: %v", d.kind, d.name, err)
		}
		vals[d] = v
		merged[d.name] = v
	}
	for _, d := range order {
		if _, ok := vals[d]; ok || d.def == nil {
			continue
		}
		var v any
		if d.def.compute != nil {
			v = d.def.compute(merged)
		} else {
			v = d.def.value
		}
		vals[d] = v
		merged[d.name] = v
	}
	for _, d := range order {
		if _, ok := vals[d]; ok {
			continue
		}
		required := d.required
		if d.isa == SubCmd && d.fallback != nil {
			if _, ok := vals[d.fallback]; ok {
				// The fallback binding stands in for the sub-command.
				continue
			}
			required = required || d.fallback.required
		}
		if required {
			if d.kind == optionKind {
				return nil, parseErr(st.node, "missing required option --%s", d.hyphenName)
			}
			return nil, parseErr(st.node, "missing required argument %q", d.name)
		}
	}
	res := &Result{opts: Values{}, args: Values{}, path: st.path, node: st.node}
	for _, d := range order {
		v, ok := vals[d]
		if !ok {
			continue
		}
		if d.kind == optionKind {
			res.opts[d.name] = v
		} else {
			res.args[d.name] = v
		}
	}
	return res, nil
}
