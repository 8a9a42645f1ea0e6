package optargs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsageError(t *testing.T) {
	err := NewUsageError(KindParse, "usage: demo\n", "bad token %q", "x")
	assert.Equal(t, `bad token "x"`, err.Error())
	assert.Equal(t, "usage: demo\n", err.Usage)
	assert.True(t, IsParseErr(err))
	assert.False(t, IsDeclErr(err))
	assert.False(t, IsHelp(err))
}

func TestUsageError_Is(t *testing.T) {
	err := NewUsageError(KindHelp, "", "help requested")
	assert.ErrorIs(t, err, &UsageError{}, "A zero Kind target matches any usage error")
	assert.ErrorIs(t, err, &UsageError{Kind: KindHelp})
	assert.NotErrorIs(t, err, &UsageError{Kind: KindParse})
}

func TestUsageError_Wrapping(t *testing.T) {
	cause := errors.New("underlying cause")
	err := NewUsageError(KindDeclaration, "", "building tree: %w", cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "building tree: underlying cause", err.Error())

	wrapped := fmt.Errorf("outer: %w", err)
	assert.True(t, IsDeclErr(wrapped), "Kind checks see through further wrapping")

	var ue *UsageError
	require.ErrorAs(t, wrapped, &ue)
	assert.Equal(t, KindDeclaration, ue.Kind)
}

func TestParseErrorCarriesUsage(t *testing.T) {
	root := New("demo", "demo program")
	require.NoError(t, root.Arg("name", ArgSpec{Isa: Str, Required: true, Comment: "a name"}))

	_, err := root.Parse([]string{})
	var ue *UsageError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, `missing required argument "name"`, ue.Error())
	assert.Equal(t, "missing required argument \"name\"\n\nusage: demo NAME\n\n  arguments:\n    NAME   a name\n", ue.Usage)
}
