package optargs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpt_Declaration(t *testing.T) {
	root := New("demo", "demo program")

	assert.True(t, IsDeclErr(root.Opt("", OptSpec{Isa: Str, Comment: "c"})), "Empty names should be rejected")
	assert.True(t, IsDeclErr(root.Opt("x", OptSpec{Comment: "c"})), "A missing type should be rejected")
	assert.True(t, IsDeclErr(root.Opt("x", OptSpec{Isa: Type(99), Comment: "c"})), "An unknown type should be rejected")
	assert.True(t, IsDeclErr(root.Opt("x", OptSpec{Isa: Str})), "A missing comment should be rejected")
	assert.True(t, IsDeclErr(root.Opt("x", OptSpec{Isa: SubCmd, Comment: "c"})), "SubCmd is argument-only")

	require.NoError(t, root.Opt("verbose", OptSpec{Isa: Counter, Alias: "v", Comment: "more output"}))
	assert.True(t, IsDeclErr(root.Opt("verbose", OptSpec{Isa: Str, Comment: "dup"})), "Duplicate names should be rejected")

	err := root.Opt("x", OptSpec{Isa: Str, Comment: "c", Required: true, Default: Literal("y")})
	assert.True(t, IsDeclErr(err), "required and default are mutually exclusive")

	err = root.Opt("x", OptSpec{Isa: Int, Comment: "c", Default: Literal("not an int")})
	assert.True(t, IsDeclErr(err), "Literal defaults should match the declared type")
}

func TestOpt_DeclarationErrorCarriesUsage(t *testing.T) {
	root := New("demo", "demo program")
	err := root.Opt("", OptSpec{Isa: Str, Comment: "c"})
	var ue *UsageError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, KindDeclaration, ue.Kind)
	assert.Contains(t, ue.Usage, "usage: demo")
}

func TestOpt_AliasCollision(t *testing.T) {
	root := New("demo", "demo program")
	require.NoError(t, root.Opt("verbose", OptSpec{Isa: Counter, Alias: "v", Comment: "more output"}))
	require.NoError(t, root.Arg("command", ArgSpec{Isa: SubCmd, Comment: "command to run"}))
	sub, err := root.SubCmd("work", CmdSpec{Comment: "do some work"})
	require.NoError(t, err)

	assert.True(t, IsDeclErr(sub.Opt("verbose", OptSpec{Isa: Bool, Comment: "shadowing"})),
		"A child may not shadow an inherited option name")
	assert.True(t, IsDeclErr(sub.Opt("vector", OptSpec{Isa: Str, Alias: "v", Comment: "clash"})),
		"A child may not reuse an inherited option alias")

	// The collision also holds in the other direction: a parent declaring
	// after the child already took the name.
	require.NoError(t, sub.Opt("quiet", OptSpec{Isa: Bool, Comment: "less output"}))
	assert.True(t, IsDeclErr(root.Opt("quiet", OptSpec{Isa: Bool, Comment: "clash"})))

	// Sibling subtrees may reuse each other's option names.
	other, err := root.SubCmd("rest", CmdSpec{Comment: "do no work"})
	require.NoError(t, err)
	assert.NoError(t, other.Opt("quiet", OptSpec{Isa: Bool, Comment: "less output"}))
}

func TestOpt_HyphenAlias(t *testing.T) {
	root := New("demo", "demo program")
	require.NoError(t, root.Opt("dry_run", OptSpec{Isa: Bool, Comment: "do nothing"}))
	assert.True(t, IsDeclErr(root.Opt("dry-run", OptSpec{Isa: Bool, Comment: "clash"})),
		"The derived hyphenated alias should collide like any other name")
}

func TestArg_Declaration(t *testing.T) {
	root := New("demo", "demo program")

	assert.True(t, IsDeclErr(root.Arg("", ArgSpec{Isa: Str, Comment: "c"})))
	assert.True(t, IsDeclErr(root.Arg("x", ArgSpec{Isa: Counter, Comment: "c"})), "Counter is option-only")
	assert.True(t, IsDeclErr(root.Arg("x", ArgSpec{Isa: Str, Comment: "c", Required: true, Default: Literal("y")})))
	assert.True(t, IsDeclErr(root.Arg("x", ArgSpec{Isa: Bool, Comment: "c", Greedy: true})),
		"Greedy needs a type that accumulates tokens")
	assert.True(t, IsDeclErr(root.Arg("x", ArgSpec{Isa: Str, Comment: "c", Fallback: &Fallback{Name: "f", Isa: Str, Comment: "c"}})),
		"Fallback requires a SubCmd argument")

	require.NoError(t, root.Arg("files", ArgSpec{Isa: ArrayRef, Greedy: true, Comment: "files to read"}))
	assert.True(t, IsDeclErr(root.Arg("more", ArgSpec{Isa: Str, Comment: "too late"})),
		"No arguments may follow a greedy one")
}

func TestArg_FallbackValidation(t *testing.T) {
	root := New("demo", "demo program")
	err := root.Arg("command", ArgSpec{Isa: SubCmd, Comment: "c", Fallback: &Fallback{Isa: Str, Comment: "c"}})
	assert.True(t, IsDeclErr(err), "A fallback needs a name")

	err = root.Arg("command", ArgSpec{Isa: SubCmd, Comment: "c", Fallback: &Fallback{Name: "f", Isa: SubCmd, Comment: "c"}})
	assert.True(t, IsDeclErr(err), "A fallback needs a concrete value type")

	require.NoError(t, root.Arg("target", ArgSpec{Isa: Str, Comment: "a target"}))
	err = root.Arg("command", ArgSpec{Isa: SubCmd, Comment: "c", Fallback: &Fallback{Name: "target", Isa: Str, Comment: "c"}})
	assert.True(t, IsDeclErr(err), "A fallback may not reuse an argument name")
}

func TestSubCmd_Declaration(t *testing.T) {
	root := New("demo", "demo program")
	_, err := root.SubCmd("", CmdSpec{Comment: "c"})
	assert.True(t, IsDeclErr(err))
	_, err = root.SubCmd("init", CmdSpec{})
	assert.True(t, IsDeclErr(err), "A missing comment should be rejected")

	sub, err := root.SubCmd("init", CmdSpec{Comment: "initialise", Aliases: []string{"i"}})
	require.NoError(t, err)
	require.NotNil(t, sub)
	assert.Equal(t, "demo init", sub.PathName())

	_, err = root.SubCmd("init", CmdSpec{Comment: "again"})
	assert.True(t, IsDeclErr(err), "Duplicate child names should be rejected")
	_, err = root.SubCmd("install", CmdSpec{Comment: "install", Aliases: []string{"i"}})
	assert.True(t, IsDeclErr(err), "Duplicate child aliases should be rejected")

	got, ok := root.Child("i")
	require.True(t, ok)
	assert.Same(t, sub, got)
}
