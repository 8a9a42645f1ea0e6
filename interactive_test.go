package optargs

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInteractiveLoop(t *testing.T) {
	root := buildTree(t)
	d := NewDispatcher(root)
	var buf bytes.Buffer
	d.Printer().Redirect(&buf)

	var added []string
	require.NoError(t, d.Handle("demo remote add", "run", func(res *Result, p *Printer) error {
		added = append(added, res.Str("name"))
		return nil
	}))

	in := strings.NewReader(strings.Join([]string{
		"remote add one",
		"$use remote add",
		"two",
		"$back",
		"remote add three",
		"quit",
	}, "\n"))
	require.NoError(t, d.interactiveLoop("run", in))
	assert.Equal(t, []string{"one", "two", "three"}, added)

	out := buf.String()
	assert.Contains(t, out, "demo> ")
	assert.Contains(t, out, "demo remote add> ", "The pushed prefix shows in the prompt")
}

func TestInteractiveLoop_Errors(t *testing.T) {
	root := buildTree(t)
	d := NewDispatcher(root)
	var buf bytes.Buffer
	d.Printer().Redirect(&buf)
	require.NoError(t, d.Handle("demo remote add", "run", func(*Result, *Printer) error { return nil }))

	in := strings.NewReader("frobnicate\nexit\n")
	require.NoError(t, d.interactiveLoop("run", in))
	assert.Contains(t, buf.String(), `unknown sub-command "frobnicate"`,
		"A usage failure is printed without leaving the loop")
}

func TestRespondInteractive_NotRequested(t *testing.T) {
	d := NewDispatcher(New("demo", "demo program"))
	assert.False(t, d.RespondInteractive("run"), "Without the flag as first argument nothing runs")
}
