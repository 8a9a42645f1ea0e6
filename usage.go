package optargs

import (
	"os"
	"strings"

	"golang.org/x/term"
)

type renderMode struct {
	// help renders hidden declarations and hidden children too.
	help bool
	// full recurses through the whole sub-command tree.
	full bool
}

// RenderUsage renders the usage text for c: the synopsis line, then the
// aligned option and argument blocks in declaration order. Hidden items are
// omitted. A non-empty message is prefixed verbatim, the form used when a
// parse failure is surfaced. Rendering never mutates the tree and may be
// called at any time.
func (c *Cmd) RenderUsage(message string) string {
	return c.render(renderMode{}, message)
}

// RenderHelp renders the help-requested form of the usage text, which
// includes hidden options, arguments, and sub-commands.
func (c *Cmd) RenderHelp() string {
	return c.render(renderMode{help: true}, "")
}

// RenderTree renders the full form: help mode plus a recursive listing of
// every sub-command below c.
func (c *Cmd) RenderTree() string {
	return c.render(renderMode{help: true, full: true}, "")
}

type usageRow struct {
	indent  int
	label   string
	comment string
}

func (c *Cmd) render(m renderMode, message string) string {
	var b strings.Builder
	if message != "" {
		b.WriteString(message)
		b.WriteString("\n\n")
	}
	b.WriteString("usage: ")
	b.WriteString(c.synopsis(m))
	b.WriteString("\n")

	optRows := c.optionRows(m)
	argRows := c.argumentRows(m)
	width := 0
	for _, rows := range [][]usageRow{optRows, argRows} {
		for _, row := range rows {
			if l := row.indent*2 + len(row.label); l > width {
				width = l
			}
		}
	}
	wrap := wrapWidth()
	if len(optRows) > 0 {
		b.WriteString("\n  options:\n")
		writeRows(&b, optRows, width, wrap)
	}
	if len(argRows) > 0 {
		b.WriteString("\n  arguments:\n")
		writeRows(&b, argRows, width, wrap)
	}
	return b.String()
}

func (d *decl) visible(m renderMode) bool {
	return !d.hidden || m.help
}

// synopsis builds the first usage line: each level of the resolved path with
// an "[options]" block where that level declares options, then the current
// node's argument tokens.
func (c *Cmd) synopsis(m renderMode) string {
	var parts []string
	for _, node := range c.pathNodes() {
		parts = append(parts, node.name)
		for _, d := range node.opts {
			if d.visible(m) {
				parts = append(parts, "[options]")
				break
			}
		}
	}
	for _, d := range c.args {
		if !d.visible(m) {
			continue
		}
		tok := strings.ToUpper(d.name)
		if d.greedy {
			tok += "..."
		}
		if !d.required {
			tok = "[" + tok + "]"
		}
		parts = append(parts, tok)
	}
	return strings.Join(parts, " ")
}

// optionRows lists the options usable at c: inherited ones first, then its
// own, in declaration order, matching the order the matcher activates them.
func (c *Cmd) optionRows(m renderMode) []usageRow {
	var rows []usageRow
	for _, d := range c.inheritedOpts() {
		if d.visible(m) {
			rows = append(rows, usageRow{label: d.label(), comment: d.comment})
		}
	}
	return rows
}

func (c *Cmd) argumentRows(m renderMode) []usageRow {
	var rows []usageRow
	for _, d := range c.args {
		if !d.visible(m) {
			continue
		}
		rows = append(rows, usageRow{label: d.label(), comment: d.comment})
		if d.fallback != nil {
			rows = append(rows, usageRow{label: d.fallback.label(), comment: d.fallback.comment})
		}
		if d.isa == SubCmd {
			rows = append(rows, c.childRows(m, 1)...)
		}
	}
	return rows
}

func (c *Cmd) childRows(m renderMode, indent int) []usageRow {
	var rows []usageRow
	for _, sub := range c.children {
		if sub.hidden && !m.help {
			continue
		}
		label := sub.name
		if len(sub.aliases) > 0 {
			label = strings.Join(append([]string{sub.name}, sub.aliases...), ", ")
		}
		rows = append(rows, usageRow{indent: indent, label: label, comment: sub.comment})
		if m.full {
			rows = append(rows, sub.childRows(m, indent+1)...)
		}
	}
	return rows
}

func writeRows(b *strings.Builder, rows []usageRow, width int, wrap int) {
	for _, row := range rows {
		pad := width - row.indent*2
		b.WriteString("    ")
		b.WriteString(strings.Repeat("  ", row.indent))
		b.WriteString(row.label)
		b.WriteString(strings.Repeat(" ", pad-len(row.label)+3))
		col := 4 + width + 3
		lines := wrapComment(row.comment, wrap-col)
		b.WriteString(lines[0])
		b.WriteString("\n")
		for _, line := range lines[1:] {
			b.WriteString(strings.Repeat(" ", col))
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
}

// wrapWidth reports the terminal width when stderr is a terminal, or zero
// for unwrapped output. Non-terminal output stays deterministic.
func wrapWidth() int {
	fd := int(os.Stderr.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w < 40 {
		return 0
	}
	return w
}

func wrapComment(comment string, avail int) []string {
	if avail < 16 {
		return []string{comment}
	}
	words := strings.Fields(comment)
	if len(words) == 0 {
		return []string{comment}
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) > avail {
			lines = append(lines, line)
			line = w
			continue
		}
		line += " " + w
	}
	return append(lines, line)
}
