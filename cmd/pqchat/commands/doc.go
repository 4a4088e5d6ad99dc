// Package commands defines the pqchat CLI.
//
// Commands
//
//   - listen <address> <port>   Wait for one peer, then chat
//   - connect <address> <port>  Dial a peer, then chat
//
// # Implementation
//
// The root command loads the optional TOML config and builds the shared
// dependencies (logging, metrics, KEM, console) before any subcommand runs.
// Chat input is read line by line from stdin; an empty line is echoed but
// not sent.
package commands
