package commands

import (
	"context"

	"github.com/carlmjohnson/versioninfo"
	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var configFile string

// Execute runs the CLI until the chosen command returns.
func Execute(ctx context.Context) error {
	root := newRoot()
	return fang.Execute(ctx, root, fang.WithVersion(versioninfo.Short()))
}

func newRoot() *cobra.Command {
	root := &cobra.Command{
		Use:           "pqchat",
		Short:         "Post-quantum ratcheted two-party chat",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configFile, "config", "c", "", "TOML config file (defaults apply when omitted)")

	root.AddCommand(listenCmd(), connectCmd())
	return root
}
