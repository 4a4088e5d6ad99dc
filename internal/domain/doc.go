// Package domain defines the data models and contracts shared across pqchat.
// It contains plain types (keys, roles, link directions), the collaborator
// interfaces (Transport, Display) and the session-level error kinds only.
package domain
