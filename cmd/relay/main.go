package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/carlmjohnson/versioninfo"
	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"pqchat/internal/app"
	"pqchat/internal/domain"
)

var configFile string

func newCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "relay <listen|connect> <address> <port> <out-address> <out-port>",
		Short:         "Relay messages between two ratcheted links",
		Args:          cobra.ExactArgs(5),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}
	cmd.Flags().StringVarP(&configFile, "config", "c", "", "TOML config file (defaults apply when omitted)")
	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	role, err := app.ParseRole(args[0])
	if err != nil {
		return err
	}
	inPort, err := app.ParsePort(args[2])
	if err != nil {
		return err
	}
	outPort, err := app.ParsePort(args[4])
	if err != nil {
		return err
	}

	cfg, err := app.LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config file: %w", err)
	}
	w, err := app.NewWire(cfg, nil)
	if err != nil {
		return err
	}
	defer w.Close()

	ctx := cmd.Context()
	rotateCh := make(chan os.Signal, 1)
	signal.Notify(rotateCh, syscall.SIGHUP)
	defer signal.Stop(rotateCh)
	go w.RotateLogOn(ctx, rotateCh)

	in, err := w.Dial(ctx, role, args[1], inPort)
	if err != nil {
		return fmt.Errorf("in-link: %w", err)
	}
	out, err := w.Dial(ctx, domain.RoleConnect, args[3], outPort)
	if err != nil {
		in.Disconnect()
		return fmt.Errorf("out-link: %w", err)
	}
	return w.Relay(in, out).Run(ctx)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := fang.Execute(ctx, newCommand(), fang.WithVersion(versioninfo.Short())); err != nil {
		stop()
		os.Exit(1)
	}
}
