// Package treedef builds command trees from declarative YAML definitions.
// A definition mirrors the builder API one to one, so an externally
// described tree and a hand-built one go through exactly the same
// registration checks. Decoding is strict: a key the schema does not know is
// a declaration error, the same class of failure as an unrecognized
// parameter in code.
package treedef

import (
	"errors"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rbonthond/optargs"
)

// Command describes one node of a command tree.
type Command struct {
	Name        string     `yaml:"name"`
	Comment     string     `yaml:"comment"`
	Aliases     []string   `yaml:"aliases,omitempty"`
	Hidden      bool       `yaml:"hidden,omitempty"`
	Options     []Option   `yaml:"options,omitempty"`
	Arguments   []Argument `yaml:"arguments,omitempty"`
	Subcommands []Command  `yaml:"subcommands,omitempty"`
}

// Option describes one option declaration.
type Option struct {
	Name     string `yaml:"name"`
	Isa      string `yaml:"isa"`
	Comment  string `yaml:"comment"`
	Alias    string `yaml:"alias,omitempty"`
	Env      string `yaml:"env,omitempty"`
	Default  any    `yaml:"default,omitempty"`
	Required bool   `yaml:"required,omitempty"`
	Hidden   bool   `yaml:"hidden,omitempty"`
	IsHelp   bool   `yaml:"ishelp,omitempty"`
}

// Argument describes one positional argument declaration.
type Argument struct {
	Name     string    `yaml:"name"`
	Isa      string    `yaml:"isa"`
	Comment  string    `yaml:"comment"`
	Default  any       `yaml:"default,omitempty"`
	Required bool      `yaml:"required,omitempty"`
	Greedy   bool      `yaml:"greedy,omitempty"`
	Hidden   bool      `yaml:"hidden,omitempty"`
	Fallback *Fallback `yaml:"fallback,omitempty"`
}

// Fallback describes the alternate binding of a SubCmd argument.
type Fallback struct {
	Name     string `yaml:"name"`
	Isa      string `yaml:"isa"`
	Comment  string `yaml:"comment"`
	Required bool   `yaml:"required,omitempty"`
}

var typeTags = map[string]optargs.Type{
	"Bool":     optargs.Bool,
	"Counter":  optargs.Counter,
	"Str":      optargs.Str,
	"Int":      optargs.Int,
	"Num":      optargs.Num,
	"ArrayRef": optargs.ArrayRef,
	"HashRef":  optargs.HashRef,
	"SubCmd":   optargs.SubCmd,
}

// Load decodes one YAML command definition and builds the tree.
func Load(r io.Reader) (*optargs.Cmd, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var def Command
	if err := dec.Decode(&def); err != nil && !errors.Is(err, io.EOF) {
		return nil, optargs.NewUsageError(optargs.KindDeclaration, "", "tree definition: %v", err)
	}
	return Build(def)
}

// LoadFile reads path and builds the tree it defines.
func LoadFile(path string) (*optargs.Cmd, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, optargs.NewUsageError(optargs.KindDeclaration, "", "tree definition: %v", err)
	}
	defer f.Close()
	return Load(f)
}

// Build constructs a command tree from an already-decoded definition,
// running every declaration through the public builder API.
func Build(def Command) (*optargs.Cmd, error) {
	if def.Name == "" {
		return nil, optargs.NewUsageError(optargs.KindDeclaration, "", "tree definition: missing command name")
	}
	root := optargs.New(def.Name, def.Comment)
	if err := populate(root, def); err != nil {
		return nil, err
	}
	return root, nil
}

func populate(c *optargs.Cmd, def Command) error {
	for _, o := range def.Options {
		isa, err := typeOf(o.Name, o.Isa)
		if err != nil {
			return err
		}
		d, err := defaultOf(o.Name, isa, o.Default)
		if err != nil {
			return err
		}
		spec := optargs.OptSpec{
			Isa:      isa,
			Comment:  o.Comment,
			Default:  d,
			Required: o.Required,
			Alias:    o.Alias,
			IsHelp:   o.IsHelp,
			Hidden:   o.Hidden,
			Env:      o.Env,
		}
		if err := c.Opt(o.Name, spec); err != nil {
			return err
		}
	}
	for _, a := range def.Arguments {
		isa, err := typeOf(a.Name, a.Isa)
		if err != nil {
			return err
		}
		d, err := defaultOf(a.Name, isa, a.Default)
		if err != nil {
			return err
		}
		spec := optargs.ArgSpec{
			Isa:      isa,
			Comment:  a.Comment,
			Default:  d,
			Required: a.Required,
			Greedy:   a.Greedy,
			Hidden:   a.Hidden,
		}
		if fb := a.Fallback; fb != nil {
			fbIsa, err := typeOf(fb.Name, fb.Isa)
			if err != nil {
				return err
			}
			spec.Fallback = &optargs.Fallback{
				Name:     fb.Name,
				Isa:      fbIsa,
				Comment:  fb.Comment,
				Required: fb.Required,
			}
		}
		if err := c.Arg(a.Name, spec); err != nil {
			return err
		}
	}
	for _, s := range def.Subcommands {
		sub, err := c.SubCmd(s.Name, optargs.CmdSpec{
			Comment: s.Comment,
			Aliases: s.Aliases,
			Hidden:  s.Hidden,
		})
		if err != nil {
			return err
		}
		if err := populate(sub, s); err != nil {
			return err
		}
	}
	return nil
}

func typeOf(name, tag string) (optargs.Type, error) {
	if tag == "" {
		return 0, optargs.NewUsageError(optargs.KindDeclaration, "", "%q: missing isa", name)
	}
	t, ok := typeTags[tag]
	if !ok {
		return 0, optargs.NewUsageError(optargs.KindDeclaration, "", "%q: unknown type %q", name, tag)
	}
	return t, nil
}

// defaultOf converts a YAML-native default value into a typed literal. YAML
// integers also satisfy Num, and list and map defaults must hold only
// strings.
func defaultOf(name string, isa optargs.Type, v any) (*optargs.Default, error) {
	if v == nil {
		return nil, nil
	}
	bad := func() (*optargs.Default, error) {
		return nil, optargs.NewUsageError(optargs.KindDeclaration, "",
			"%q: default %v (%T) does not match type %s", name, v, v, isa)
	}
	switch isa {
	case optargs.Num:
		switch n := v.(type) {
		case int:
			return optargs.Literal(float64(n)), nil
		case float64:
			return optargs.Literal(n), nil
		}
		return bad()
	case optargs.ArrayRef:
		list, ok := v.([]any)
		if !ok {
			return bad()
		}
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return bad()
			}
			out = append(out, s)
		}
		return optargs.Literal(out), nil
	case optargs.HashRef:
		mapping, ok := v.(map[string]any)
		if !ok {
			return bad()
		}
		out := make(map[string]string, len(mapping))
		for k, item := range mapping {
			s, ok := item.(string)
			if !ok {
				return bad()
			}
			out[k] = s
		}
		return optargs.Literal(out), nil
	default:
		// Bool, Counter, Str, and Int defaults decode to their Go types
		// already; the builder's literal check rejects mismatches.
		return optargs.Literal(v), nil
	}
}
