package domain

import (
	interfaces "pqchat/internal/domain/interfaces"
	types "pqchat/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	Fingerprint = types.Fingerprint
	Role        = types.Role
	Direction   = types.Direction
	KeyPair     = types.KeyPair
)

const (
	RoleListen   = types.RoleListen
	RoleConnect  = types.RoleConnect
	DirectionIn  = types.DirectionIn
	DirectionOut = types.DirectionOut
)

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	Transport = interfaces.Transport
	Display   = interfaces.Display
)
