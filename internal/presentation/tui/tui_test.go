package tui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStyler_PlainForBuffers(t *testing.T) {
	var buf bytes.Buffer
	s := NewStyler(&buf)
	assert.Equal(t, "Home", s.State("Home"))
	assert.Equal(t, "Accident", s.Transition("Accident", true))
	assert.Equal(t, "StartDay", s.Faint("StartDay"))
}

func TestWriteMarkdown_PlainForBuffers(t *testing.T) {
	var buf bytes.Buffer
	assert.False(t, IsTerminal(&buf))
	require.NoError(t, WriteMarkdown(&buf, "# Title\n"))
	assert.Equal(t, "# Title\n", buf.String())
}

func TestNewRenderer(t *testing.T) {
	out, err := NewRenderer()("**bold**")
	require.NoError(t, err)
	assert.Contains(t, out, "bold")
}
