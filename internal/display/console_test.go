package display_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"

	"pqchat/internal/display"
)

func TestConsoleLines(t *testing.T) {
	var buf bytes.Buffer
	c := display.New(&buf, 20)

	c.Success("connected")
	c.Incoming("hi there")
	c.Outgoing("hello")
	c.Notice("peer left")

	lines := strings.Split(strings.TrimRight(ansi.Strip(buf.String()), "\n"), "\n")
	require.Len(t, lines, 4)
	require.Equal(t, "connected", lines[0])
	require.Equal(t, "hi there", lines[1])
	require.Equal(t, strings.Repeat(" ", 15)+"hello", lines[2])
	require.Equal(t, "peer left", lines[3])
}

func TestConsoleDefaultWidth(t *testing.T) {
	var buf bytes.Buffer
	display.New(&buf, 0).Outgoing("x")
	require.Equal(t, 80, len(strings.TrimRight(ansi.Strip(buf.String()), "\n")))
}
