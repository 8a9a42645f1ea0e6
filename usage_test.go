package optargs

import (
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderUsage(t *testing.T) {
	root := New("demo", "demo program")
	require.NoError(t, root.Opt("dry_run", OptSpec{Isa: Bool, Alias: "n", Comment: "do nothing"}))
	require.NoError(t, root.Arg("command", ArgSpec{Isa: SubCmd, Required: true, Comment: "command to run"}))
	_, err := root.SubCmd("init", CmdSpec{Comment: "initialise a thing"})
	require.NoError(t, err)

	want := `usage: demo [options] COMMAND

  options:
    --dry-run, -n   do nothing

  arguments:
    COMMAND         command to run
      init          initialise a thing
`
	assert.Equal(t, want, root.RenderUsage(""))
}

func TestRenderUsage_MessagePrefix(t *testing.T) {
	root := New("demo", "demo program")
	require.NoError(t, root.Arg("name", ArgSpec{Isa: Str, Required: true, Comment: "a name"}))

	out := root.RenderUsage("something went wrong")
	assert.True(t, strings.HasPrefix(out, "something went wrong\n\nusage: demo NAME\n"))
}

func TestRenderUsage_Brackets(t *testing.T) {
	root := New("tool", "a tool")
	require.NoError(t, root.Arg("script", ArgSpec{Isa: Str, Required: true, Comment: "script to run"}))
	require.NoError(t, root.Arg("args", ArgSpec{Isa: ArrayRef, Greedy: true, Comment: "script arguments"}))

	out := root.RenderUsage("")
	assert.True(t, strings.HasPrefix(out, "usage: tool SCRIPT [ARGS...]\n"),
		"Required arguments render bare, optional greedy ones bracketed with an ellipsis")
}

func TestRenderUsage_PerLevelOptions(t *testing.T) {
	root := New("tool", "a tool")
	require.NoError(t, root.Opt("verbose", OptSpec{Isa: Counter, Comment: "more output"}))
	require.NoError(t, root.Arg("command", ArgSpec{Isa: SubCmd, Required: true, Comment: "command"}))
	run, err := root.SubCmd("run", CmdSpec{Comment: "run a script"})
	require.NoError(t, err)
	require.NoError(t, run.Opt("timeout", OptSpec{Isa: Int, Comment: "seconds to wait"}))
	require.NoError(t, run.Arg("script", ArgSpec{Isa: Str, Required: true, Comment: "script to run"}))

	out := run.RenderUsage("")
	assert.True(t, strings.HasPrefix(out, "usage: tool [options] run [options] SCRIPT\n"),
		"Each level with its own options contributes its own [options] block")
	assert.Contains(t, out, "--verbose", "Inherited options are listed at the leaf")
	assert.Contains(t, out, "--timeout")
}

func TestRenderUsage_Hidden(t *testing.T) {
	root := New("demo", "demo program")
	require.NoError(t, root.Opt("secret", OptSpec{Isa: Str, Hidden: true, Comment: "internal knob"}))
	require.NoError(t, root.Arg("command", ArgSpec{Isa: SubCmd, Required: true, Comment: "command"}))
	_, err := root.SubCmd("debug", CmdSpec{Comment: "internal tooling", Hidden: true})
	require.NoError(t, err)
	_, err = root.SubCmd("init", CmdSpec{Comment: "initialise"})
	require.NoError(t, err)

	plain := root.RenderUsage("")
	assert.NotContains(t, plain, "--secret")
	assert.NotContains(t, plain, "debug")
	assert.True(t, strings.HasPrefix(plain, "usage: demo COMMAND\n"),
		"A node with only hidden options renders no [options] block")

	help := root.RenderHelp()
	assert.Contains(t, help, "--secret")
	assert.Contains(t, help, "debug")
	assert.True(t, strings.HasPrefix(help, "usage: demo [options] COMMAND\n"))
}

func TestRenderUsage_Fallback(t *testing.T) {
	root := New("demo", "demo program")
	require.NoError(t, root.Arg("command", ArgSpec{
		Isa:      SubCmd,
		Required: true,
		Comment:  "command to run",
		Fallback: &Fallback{Name: "target", Isa: Str, Comment: "an arbitrary target"},
	}))
	_, err := root.SubCmd("init", CmdSpec{Comment: "initialise"})
	require.NoError(t, err)

	out := root.RenderUsage("")
	cmdAt := strings.Index(out, "COMMAND")
	targetAt := strings.Index(out, "TARGET")
	require.True(t, cmdAt >= 0 && targetAt >= 0)
	assert.Less(t, cmdAt, targetAt, "The fallback row follows its sub-command row")
	assert.Contains(t, out, "an arbitrary target")
}

func TestRenderUsage_SubCommandAliases(t *testing.T) {
	root := New("demo", "demo program")
	require.NoError(t, root.Arg("command", ArgSpec{Isa: SubCmd, Required: true, Comment: "command"}))
	_, err := root.SubCmd("initialise", CmdSpec{Comment: "set up", Aliases: []string{"init", "i"}})
	require.NoError(t, err)

	assert.Contains(t, root.RenderUsage(""), "initialise, init, i")
}

func TestRenderTree(t *testing.T) {
	root := New("demo", "demo program")
	require.NoError(t, root.Arg("command", ArgSpec{Isa: SubCmd, Required: true, Comment: "command"}))
	remote, err := root.SubCmd("remote", CmdSpec{Comment: "manage remotes"})
	require.NoError(t, err)
	require.NoError(t, remote.Arg("command", ArgSpec{Isa: SubCmd, Required: true, Comment: "remote command"}))
	_, err = remote.SubCmd("add", CmdSpec{Comment: "add a remote"})
	require.NoError(t, err)

	tree := root.RenderTree()
	assert.Contains(t, tree, "remote")
	assert.Contains(t, tree, "add", "A full render recurses below the first level")
	assert.NotContains(t, root.RenderUsage(""), "add", "A plain render lists only direct children")
}

func TestRenderUsage_DeclarationOrderOnly(t *testing.T) {
	build := func(first, second string) *Cmd {
		root := New("demo", "demo program")
		require.NoError(t, root.Opt(first, OptSpec{Isa: Bool, Comment: "comment for " + first}))
		require.NoError(t, root.Opt(second, OptSpec{Isa: Bool, Comment: "comment for " + second}))
		require.NoError(t, root.Arg("name", ArgSpec{Isa: Str, Required: true, Comment: "a name"}))
		return root
	}

	ab := build("alpha", "beta").RenderUsage("")
	ba := build("beta", "alpha").RenderUsage("")
	assert.NotEqual(t, ab, ba)

	sorted := func(s string) []string {
		lines := strings.Split(s, "\n")
		slices.Sort(lines)
		return lines
	}
	assert.Equal(t, sorted(ab), sorted(ba),
		"Swapping declaration order reorders lines without changing their content")
}
