package optargs

import (
	"strings"
)

type declKind uint8

const (
	optionKind declKind = iota + 1
	argumentKind
)

func (k declKind) String() string {
	if k == optionKind {
		return "option"
	}
	return "argument"
}

// Values is the merged name-to-value mapping produced by a parse. Computed
// defaults receive the partially resolved Values and may observe every entry
// bound before them.
type Values map[string]any

// Default is a declared fallback value for an option or argument that was
// not given on the command line: either a literal, or a function computed
// against the in-progress result. A declaration cannot be both Required and
// carry a Default.
type Default struct {
	value   any
	compute func(Values) any
}

// Literal declares a fixed default value. The value is type-checked against
// the declaration's type at registration time.
func Literal(v any) *Default {
	return &Default{value: v}
}

// Computed declares a deferred default. The function runs once per parse,
// after all command line bindings resolve, in declaration order, so later
// defaults observe earlier ones.
func Computed(fn func(Values) any) *Default {
	return &Default{compute: fn}
}

// Fallback is the alternate terminal binding used by a SubCmd argument when
// no child command name matches the token. The token binds under Name
// without descending into a child node.
type Fallback struct {
	Name     string
	Isa      Type
	Comment  string
	Required bool
}

// OptSpec configures one option declaration for [Cmd.Opt].
type OptSpec struct {
	Isa      Type
	Comment  string
	Default  *Default
	Required bool
	// Alias declares short names, '|'-delimited for several. Single
	// characters match with one dash (-n), longer aliases with two.
	Alias  string
	IsHelp bool
	Hidden bool
	// Env names an environment variable consulted when the option is absent
	// from the command line, before defaults apply.
	Env string
}

// ArgSpec configures one positional argument declaration for [Cmd.Arg].
type ArgSpec struct {
	Isa      Type
	Comment  string
	Default  *Default
	Required bool
	// Greedy makes the argument consume every remaining token, including
	// ones starting with '-'. It must be the last argument declared on its
	// node.
	Greedy   bool
	Hidden   bool
	Fallback *Fallback
}

// CmdSpec configures one child command for [Cmd.SubCmd].
type CmdSpec struct {
	Comment string
	Aliases []string
	Hidden  bool
}

// decl is one option or argument declaration, immutable once registered.
type decl struct {
	name       string
	kind       declKind
	isa        Type
	comment    string
	def        *Default
	required   bool
	aliases    []string
	hyphenName string
	greedy     bool
	hidden     bool
	ishelp     bool
	env        string
	fallback   *decl
	owner      *Cmd
}

// matchNames returns every name the declaration answers to.
func (d *decl) matchNames() []string {
	names := []string{d.name}
	if d.hyphenName != d.name {
		names = append(names, d.hyphenName)
	}
	return append(names, d.aliases...)
}

func (d *decl) matches(name string) bool {
	for _, n := range d.matchNames() {
		if n == name {
			return true
		}
	}
	return false
}

// label renders the left column of the declaration's usage row.
func (d *decl) label() string {
	if d.kind == argumentKind {
		return strings.ToUpper(d.name)
	}
	var b strings.Builder
	b.WriteString("--")
	b.WriteString(d.hyphenName)
	for _, a := range d.aliases {
		if len(a) == 1 {
			b.WriteString(", -")
		} else {
			b.WriteString(", --")
		}
		b.WriteString(a)
	}
	return b.String()
}

func splitAliases(alias string) []string {
	if alias == "" {
		return nil
	}
	var out []string
	for _, a := range strings.Split(alias, "|") {
		a = strings.TrimSpace(a)
		if a != "" {
			out = append(out, a)
		}
	}
	return out
}
