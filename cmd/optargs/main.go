// Command optargs renders the usage text of a declaratively defined command
// tree. It loads a YAML tree definition, optionally descends a sub-command
// path, and prints the synopsis (or the full sub-command tree) to standard
// output. The exit status is non-zero only when the target tree itself fails
// to load or resolve.
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rbonthond/optargs"
	"github.com/rbonthond/optargs/env"
	"github.com/rbonthond/optargs/treedef"
)

func buildCLI() *optargs.Cmd {
	root := optargs.New("optargs", "render usage text for a declared command tree")
	must(root.Opt("indent", optargs.OptSpec{
		Isa:     optargs.Int,
		Comment: "indent width for nested listings",
		Default: optargs.Literal(env.Int("OPTARGS_INDENT", 2)),
	}))
	must(root.Opt("indent_char", optargs.OptSpec{
		Isa:     optargs.Str,
		Comment: "character used for indentation",
		Default: optargs.Literal(" "),
	}))
	must(root.Opt("full", optargs.OptSpec{
		Isa:     optargs.Bool,
		Alias:   "f",
		Comment: "render the full sub-command tree instead of a synopsis",
	}))
	must(root.Opt("help", optargs.OptSpec{
		Isa:     optargs.Bool,
		Alias:   "h",
		IsHelp:  true,
		Comment: "print this help message and exit",
	}))
	must(root.Arg("file", optargs.ArgSpec{
		Isa:      optargs.Str,
		Required: true,
		Comment:  "command tree definition (YAML)",
	}))
	must(root.Arg("path", optargs.ArgSpec{
		Isa:     optargs.ArrayRef,
		Greedy:  true,
		Comment: "sub-command path to render",
	}))
	return root
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func main() {
	root := buildCLI()
	res, err := root.Parse(nil)
	if err != nil {
		if optargs.IsHelp(err) {
			fmt.Print(usageOf(err))
			os.Exit(0)
		}
		fmt.Fprint(os.Stderr, usageOf(err))
		os.Exit(2)
	}
	target, err := treedef.LoadFile(res.Str("file"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	node := target
	if path := res.Slice("path"); len(path) > 0 {
		node, err = target.Descend(path...)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	text := node.RenderUsage("")
	if res.Bool("full") {
		text = node.RenderTree()
	}
	fmt.Print(reindent(text, res.Int("indent"), res.Str("indent_char")))
}

func usageOf(err error) string {
	var ue *optargs.UsageError
	if errors.As(err, &ue) && ue.Usage != "" {
		return ue.Usage
	}
	return err.Error() + "\n"
}

// reindent rewrites the renderer's two-space indent units using the
// configured width and character.
func reindent(text string, width int, ch string) string {
	if width == 2 && ch == " " {
		return text
	}
	if width < 0 {
		width = 0
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		n := len(line) - len(strings.TrimLeft(line, " "))
		units, rest := n/2, n%2
		lines[i] = strings.Repeat(ch, units*width) + strings.Repeat(" ", rest) + line[n:]
	}
	return strings.Join(lines, "\n")
}
