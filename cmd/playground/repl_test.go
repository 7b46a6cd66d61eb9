package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSessionModes(t *testing.T) {
	ctx := context.Background()
	s := newSession()
	src := "ul\n\tli#first.a.b(x=\"1\", open) one"

	got, err := s.eval(ctx, src)
	require.NoError(t, err)
	require.Equal(t, "<ul><li x=\"1\" open id=\"first\" class=\"a b\">one</li></ul>\n", got)

	var out bytes.Buffer
	require.True(t, s.command(":tree", &out))
	require.Equal(t, "showing tree\n", out.String())
	got, err = s.eval(ctx, src)
	require.NoError(t, err)
	require.Equal(t, "ul\n  li#first.a.b(x=\"1\", open) \"one\"\n", got)

	require.True(t, s.command(":tokens", &out))
	got, err = s.eval(ctx, "p hi")
	require.NoError(t, err)
	require.Equal(t, "0..1     Text(\"p\")\n1..2     WhiteSpace\n2..4     Text(\"hi\")\n4..4     EOF\n", got)

	require.True(t, s.command(":go", &out))
	got, err = s.eval(ctx, "p hi")
	require.NoError(t, err)
	require.Contains(t, got, "package playground")
	require.Contains(t, got, "func Snippet() Node {")

	require.True(t, s.command(" :HTML ", &out))
	require.Equal(t, modeHTML, s.mode)
}

func TestSessionErrors(t *testing.T) {
	s := newSession()
	_, err := s.eval(context.Background(), "p(a=b)")
	require.ErrorContains(t, err, "snippet.pug:1:5: expected Quote")

	s.mode = modeTree
	_, err = s.eval(context.Background(), "a\n\t\tb")
	require.ErrorContains(t, err, "<repl>:2:1: lexer error")
}

func TestSessionCommands(t *testing.T) {
	var out bytes.Buffer
	s := newSession()
	require.True(t, s.command(":nope", &out))
	require.Contains(t, out.String(), "unknown command")
	require.False(t, s.command(":quit", &out))
	require.False(t, s.command(":q", &out))
}
