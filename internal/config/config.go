// Package config provides the pqchat configuration.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"

	"github.com/BurntSushi/toml"

	"pqchat/internal/crypto"
	"pqchat/internal/log"
)

const (
	defaultLogLevel   = "NOTICE"
	defaultQueueDepth = 64
)

// Crypto selects the primitives.
type Crypto struct {
	// KEM is the key-encapsulation scheme, MLKEM768 or XWING.
	KEM string
}

func (c *Crypto) applyDefaults() {
	if c.KEM == "" {
		c.KEM = crypto.DefaultKEM
	}
}

func (c *Crypto) validate() error {
	if _, err := crypto.NewKEM(c.KEM); err != nil {
		return fmt.Errorf("config: Crypto: %w", err)
	}
	return nil
}

// Logging is the logging configuration.
type Logging struct {
	// Disable disables logging entirely.
	Disable bool

	// File specifies the log file, if omitted stderr will be used.
	File string

	// Level specifies the log level.
	Level string
}

func (l *Logging) applyDefaults() {
	if l.Level == "" {
		l.Level = defaultLogLevel
	}
}

func (l *Logging) validate() error {
	if !log.ValidLevel(l.Level) {
		return fmt.Errorf("config: Logging: Level '%v' is invalid", l.Level)
	}
	return nil
}

// Metrics is the Prometheus listener configuration.
type Metrics struct {
	// Address is host:port for the /metrics endpoint. Empty disables it.
	Address string
}

func (m *Metrics) validate() error {
	if m.Address == "" {
		return nil
	}
	if _, _, err := net.SplitHostPort(m.Address); err != nil {
		return fmt.Errorf("config: Metrics: Address '%v' is invalid: %w", m.Address, err)
	}
	return nil
}

// Relay is the onion relay configuration.
type Relay struct {
	// QueueDepth bounds each forwarding direction.
	QueueDepth int

	// Echo prints forwarded plaintext on the relay console.
	Echo *bool
}

func (r *Relay) applyDefaults() {
	if r.QueueDepth == 0 {
		r.QueueDepth = defaultQueueDepth
	}
	if r.Echo == nil {
		echo := true
		r.Echo = &echo
	}
}

func (r *Relay) validate() error {
	if r.QueueDepth < 1 {
		return fmt.Errorf("config: Relay: QueueDepth %d must be positive", r.QueueDepth)
	}
	return nil
}

// Config is the top level pqchat configuration.
type Config struct {
	Crypto  *Crypto
	Logging *Logging
	Metrics *Metrics
	Relay   *Relay
}

// FixupAndValidate applies defaults to config entries and validates the
// configuration sections.
func (cfg *Config) FixupAndValidate() error {
	if cfg.Crypto == nil {
		cfg.Crypto = &Crypto{}
	}
	if cfg.Logging == nil {
		cfg.Logging = &Logging{}
	}
	if cfg.Metrics == nil {
		cfg.Metrics = &Metrics{}
	}
	if cfg.Relay == nil {
		cfg.Relay = &Relay{}
	}

	cfg.Crypto.applyDefaults()
	cfg.Logging.applyDefaults()
	cfg.Relay.applyDefaults()

	return errors.Join(
		cfg.Crypto.validate(),
		cfg.Logging.validate(),
		cfg.Metrics.validate(),
		cfg.Relay.validate(),
	)
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := new(Config)
	if err := cfg.FixupAndValidate(); err != nil {
		panic("BUG: default config is invalid: " + err.Error())
	}
	return cfg
}

// Load parses and validates the provided buffer b as a config file body and
// returns the Config.
func Load(b []byte) (*Config, error) {
	cfg := new(Config)
	md, err := toml.Decode(string(b), cfg)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) != 0 {
		return nil, fmt.Errorf("config: Undecoded keys in config file: %v", undecoded)
	}
	if err := cfg.FixupAndValidate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile loads, parses and validates the provided file and returns the
// Config.
func LoadFile(f string) (*Config, error) {
	b, err := os.ReadFile(f)
	if err != nil {
		return nil, err
	}
	return Load(b)
}
