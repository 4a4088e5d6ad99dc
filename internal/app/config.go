package app

import (
	"fmt"
	"strconv"

	"pqchat/internal/config"
	"pqchat/internal/domain"
)

// LoadConfig reads path, or returns the defaults when path is empty.
func LoadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.LoadFile(path)
}

// ParsePort parses a TCP port argument.
func ParsePort(s string) (uint16, error) {
	p, err := strconv.ParseUint(s, 10, 16)
	if err != nil || p == 0 {
		return 0, fmt.Errorf("invalid argument %q: port must be 1-65535", s)
	}
	return uint16(p), nil
}

// ParseRole parses a link role argument.
func ParseRole(s string) (domain.Role, error) {
	r := domain.Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("invalid argument %q: role must be %s or %s", s, domain.RoleListen, domain.RoleConnect)
	}
	return r, nil
}
