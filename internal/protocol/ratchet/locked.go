package ratchet

import (
	"sync"

	"pqchat/internal/domain"
	"pqchat/internal/wire"
)

// Locked serializes access to a State. Each Send or Receive is one critical
// section, so a rotation is never observed half done.
type Locked struct {
	mu sync.Mutex
	st *State
}

// NewLocked wraps st. The caller must not use st directly afterwards.
func NewLocked(st *State) *Locked {
	return &Locked{st: st}
}

// Send is State.Send under the lock.
func (l *Locked) Send(plaintext []byte) (*wire.Envelope, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.st.Send(plaintext)
}

// Receive is State.Receive under the lock.
func (l *Locked) Receive(env *wire.Envelope) ([]byte, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.st.Receive(env)
}

// Fingerprint is State.Fingerprint under the lock.
func (l *Locked) Fingerprint() domain.Fingerprint {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.st.Fingerprint()
}

// Rotations is State.Rotations under the lock.
func (l *Locked) Rotations() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.st.Rotations()
}
