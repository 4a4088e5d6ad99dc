// Command relay runs a two-hop onion relay.
//
// Usage
//
//	relay <listen|connect> <address> <port> <out-address> <out-port>
//
// The role applies to the in-link at address:port. The out-link always
// connects to out-address:out-port. Once both links are up the relay
// decrypts each message with the ratchet of the link it arrived on and
// re-encrypts it with the ratchet of the other link, in both directions.
//
// Behaviour
//
//   - Either link closing shuts the whole relay down.
//   - A message that fails authentication on either link is fatal.
//   - Forwarded plaintext is echoed on stdout unless Relay.Echo is false.
//   - The relay never holds long-term keys; both links start from one fresh
//     key pair per run.
package main
