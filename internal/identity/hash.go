// Package identity authenticates operators: argon2id password hashing, a
// dedicated verification worker pool, and a credential validator hardened
// against username enumeration.
package identity

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters, shared by hash creation and verification. Changing
// them invalidates no stored hash: each hash string carries its own
// parameters and is verified with those.
const (
	argonTime    = 2
	argonMemory  = 15 * 1024 // KiB
	argonThreads = 1
	argonKeyLen  = 32
	argonSaltLen = 16
)

// ErrMalformedHash reports a stored hash string that does not decode as a
// PHC argon2id string. Callers fold it into the same outcome as a password
// mismatch so the failure mode is not observable externally.
var ErrMalformedHash = errors.New("malformed password hash")

// ErrPasswordMismatch reports a well-formed hash that does not match the
// candidate password.
var ErrPasswordMismatch = errors.New("password does not match")

// HashPassword derives an argon2id hash of password and encodes it in PHC
// string format ($argon2id$v=19$m=...,t=...,p=...$salt$digest).
func HashPassword(password string) (string, error) {
	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}
	key := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argonMemory, argonTime, argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// VerifyPassword checks candidate against a stored PHC argon2id hash.
// It returns nil on match, ErrPasswordMismatch on a clean mismatch, and
// ErrMalformedHash when the stored string cannot be decoded. Verification is
// deterministic and the digest comparison is constant time.
func VerifyPassword(candidate, storedHash string) error {
	salt, key, time, memory, threads, err := decodePHC(storedHash)
	if err != nil {
		return err
	}
	derived := argon2.IDKey([]byte(candidate), salt, time, memory, threads, uint32(len(key)))
	if subtle.ConstantTimeCompare(derived, key) != 1 {
		return ErrPasswordMismatch
	}
	return nil
}

// decodePHC splits a PHC argon2id string into its salt, digest, and cost
// parameters. Any structural problem maps to ErrMalformedHash.
func decodePHC(hash string) (salt, key []byte, time, memory uint32, threads uint8, err error) {
	parts := strings.Split(hash, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return nil, nil, 0, 0, 0, ErrMalformedHash
	}

	var version int
	if _, serr := fmt.Sscanf(parts[2], "v=%d", &version); serr != nil || version != argon2.Version {
		return nil, nil, 0, 0, 0, ErrMalformedHash
	}
	if _, serr := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); serr != nil {
		return nil, nil, 0, 0, 0, ErrMalformedHash
	}

	salt, err = base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, nil, 0, 0, 0, ErrMalformedHash
	}
	key, err = base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return nil, nil, 0, 0, 0, ErrMalformedHash
	}
	return salt, key, time, memory, threads, nil
}
