// Package crypto is the stateless primitive driver used by the ratchet.
//
// Contents
//
//   - KEM key generation, encapsulation and decapsulation over a
//     katzenpost/hpqc scheme (KEM, NewKEM)
//   - HKDF-SHA256 derivation of independent AES and HMAC keys from one shared
//     secret (DeriveAESKey, DeriveHMACKey)
//   - AES-CBC with a fresh random IV per call (AESEncrypt, AESDecrypt)
//   - HMAC-SHA256 tagging and constant-time verification (HMACGenerate,
//     HMACVerify)
//   - SHA-256 hashing and short fingerprints for diagnostics (Hash,
//     Fingerprint)
//   - Legacy finite-field Diffie-Hellman (GenerateDHParams, DHKeyPair,
//     DHAgree), kept for HandshakeParams compatibility only
//   - Wipe, for key material that is being discarded
//
// # Notes
//
// Nothing here retains state between calls. Randomness comes from
// hpqc/rand.Reader. HMACVerify reports a mismatch as false and never panics;
// the MAC over iv ∥ public value ∥ ciphertext is the only authenticated path
// in the protocol, so ErrDecryption must be read as "the MAC would have
// failed too", never as authentication on its own.
package crypto
