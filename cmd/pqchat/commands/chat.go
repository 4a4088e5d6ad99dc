package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"pqchat/internal/app"
	"pqchat/internal/domain"
)

// listen <address> <port>: wait for a peer and chat with it.
func listenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "listen <address> <port>",
		Short: "Wait for a peer to connect, then chat",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, domain.RoleListen, args)
		},
	}
}

// connect <address> <port>: dial a listening peer and chat with it.
func connectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "connect <address> <port>",
		Short: "Connect to a listening peer, then chat",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, domain.RoleConnect, args)
		},
	}
}

func runChat(cmd *cobra.Command, role domain.Role, args []string) error {
	port, err := app.ParsePort(args[1])
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

	conn, err := w.Dial(ctx, role, args[0], port)
	if err != nil {
		return err
	}
	return w.Chat(conn).Run(ctx, os.Stdin)
}
