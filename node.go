package optargs

import (
	"log/slog"
	"strings"
)

// Cmd is one node in a command tree: an ordered sequence of option and
// argument declarations, child sub-commands keyed by name, and a parent link
// used only to enumerate inherited options. Nodes are created by [New] and
// [Cmd.SubCmd] during a build phase and are not mutated by parsing.
type Cmd struct {
	name    string
	comment string
	hidden  bool
	aliases []string

	parent   *Cmd
	children []*Cmd
	byName   map[string]*Cmd

	opts []*decl
	args []*decl

	// Parse cache, kept on the root only. gen counts declaration changes
	// anywhere in the tree; a cached result from an older generation, or
	// one produced for a different receiving node, is stale and must not
	// be returned.
	gen         int
	cacheGen    int
	cacheNode   *Cmd
	cacheTokens []string
	cache       *Result

	log *slog.Logger
}

// Name returns the command's canonical name.
func (c *Cmd) Name() string { return c.name }

// Comment returns the command's description.
func (c *Cmd) Comment() string { return c.comment }

// Children returns the child commands in declaration order.
func (c *Cmd) Children() []*Cmd {
	out := make([]*Cmd, len(c.children))
	copy(out, c.children)
	return out
}

// Child returns the child command registered under name or one of its
// aliases.
func (c *Cmd) Child(name string) (*Cmd, bool) {
	sub, ok := c.byName[name]
	return sub, ok
}

// Descend resolves a path of child command names starting below c.
func (c *Cmd) Descend(path ...string) (*Cmd, error) {
	node := c
	for _, name := range path {
		sub, ok := node.Child(name)
		if !ok {
			return nil, parseErr(node, "unknown sub-command %q", name)
		}
		node = sub
	}
	return node, nil
}

// SetLogger installs a debug logger for the whole tree. The matcher and
// dispatcher emit Debug-level records for token binding and sub-command
// descent. A nil logger (the default) disables tracing.
func (c *Cmd) SetLogger(l *slog.Logger) {
	c.root().log = l
}

func (c *Cmd) logger() *slog.Logger {
	return c.root().log
}

func (c *Cmd) root() *Cmd {
	node := c
	for node.parent != nil {
		node = node.parent
	}
	return node
}

// invalidate marks every cached parse result in the tree stale. Called on
// every declaration change so a long-lived process cannot observe results
// from a tree that has since been amended.
func (c *Cmd) invalidate() {
	c.root().gen++
}

// pathNodes returns the chain of nodes from the root down to c.
func (c *Cmd) pathNodes() []*Cmd {
	var chain []*Cmd
	for node := c; node != nil; node = node.parent {
		chain = append(chain, node)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// PathName returns the space-joined command path from the root to c, the
// form used for handler registration and usage headers.
func (c *Cmd) PathName() string {
	nodes := c.pathNodes()
	names := make([]string, len(nodes))
	for i, n := range nodes {
		names[i] = n.name
	}
	return strings.Join(names, " ")
}

// inheritedOpts returns the option declarations visible while parsing c:
// the root's first, then each level's own, in declaration order.
func (c *Cmd) inheritedOpts() []*decl {
	var out []*decl
	for _, node := range c.pathNodes() {
		out = append(out, node.opts...)
	}
	return out
}

func (c *Cmd) greedyArg() *decl {
	for _, d := range c.args {
		if d.greedy {
			return d
		}
	}
	return nil
}

func (c *Cmd) subCmdArg() *decl {
	for _, d := range c.args {
		if d.isa == SubCmd {
			return d
		}
	}
	return nil
}

// optCollision reports an existing option declaration whose names collide
// with any of names. Options are inherited downward, so the collision set is
// the ancestor chain, the node itself, and every descendant; sibling
// subtrees may reuse a name.
func (c *Cmd) optCollision(names []string) *decl {
	for _, node := range c.pathNodes() {
		if d := node.ownOptCollision(names); d != nil {
			return d
		}
	}
	for _, sub := range c.children {
		if d := sub.subtreeOptCollision(names); d != nil {
			return d
		}
	}
	return nil
}

func (c *Cmd) subtreeOptCollision(names []string) *decl {
	if d := c.ownOptCollision(names); d != nil {
		return d
	}
	for _, sub := range c.children {
		if d := sub.subtreeOptCollision(names); d != nil {
			return d
		}
	}
	return nil
}

func (c *Cmd) ownOptCollision(names []string) *decl {
	for _, d := range c.opts {
		for _, n := range names {
			if d.matches(n) {
				return d
			}
		}
	}
	return nil
}
