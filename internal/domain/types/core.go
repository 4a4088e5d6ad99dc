package types

// Fingerprint is a short identifier for public keys presented to users.
type Fingerprint string

// String returns the string form of the fingerprint.
func (f Fingerprint) String() string { return string(f) }

// Role selects how a link is established.
type Role string

const (
	RoleListen  Role = "listen"
	RoleConnect Role = "connect"
)

// String returns the string form of the role.
func (r Role) String() string { return string(r) }

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool { return r == RoleListen || r == RoleConnect }

// Direction names one side of a relay.
type Direction string

const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

// String returns the string form of the direction.
func (d Direction) String() string { return string(d) }

// Opposite returns the other side of the relay.
func (d Direction) Opposite() Direction {
	if d == DirectionIn {
		return DirectionOut
	}
	return DirectionIn
}
