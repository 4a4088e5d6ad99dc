// Package app wires application dependencies for the CLIs.
//
// It builds the logging backend, metrics, KEM and console from a Config and
// hands them to the chat and relay services through the Wire struct.
package app
