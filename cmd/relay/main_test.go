package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUsageErrors(t *testing.T) {
	for _, args := range [][]string{
		{"listen", "127.0.0.1", "9000"},
		{"accept", "127.0.0.1", "9000", "127.0.0.1", "9001"},
		{"listen", "127.0.0.1", "port", "127.0.0.1", "9001"},
		{"connect", "127.0.0.1", "9000", "127.0.0.1", "0"},
	} {
		cmd := newCommand()
		cmd.SetArgs(args)
		require.Error(t, cmd.Execute(), args)
	}
}
