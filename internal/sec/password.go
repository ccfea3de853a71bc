// Package sec provides password hashing and verification for the web
// application.
//
// Hashes use Argon2id with a unique random salt per call. The salt and the
// cost parameters are encoded alongside the derived key in the stored string,
// so parameters can be raised later without invalidating existing records.
package sec

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2id cost parameters for newly created hashes.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024 // KiB
	argonThreads = 4
	argonKeyLen  = 32
	saltLen      = 16
)

// ErrPasswordMismatch is returned by ComparePassword when the candidate
// password does not resolve to the stored hash.
var ErrPasswordMismatch = errors.New("password mismatch")

// ErrMalformedHash is returned when a stored hash cannot be decoded.
var ErrMalformedHash = errors.New("malformed password hash")

// HashPassword generates the encoded Argon2id hash for a given password.
func HashPassword[T ~string | ~[]byte](password T) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	key := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)
	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		argonMemory, argonTime, argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// ComparePassword returns [ErrPasswordMismatch] if the provided password does
// not resolve to the given encoded hash, and [ErrMalformedHash] if the hash
// cannot be decoded. The derived keys are compared in constant time.
func ComparePassword[T ~string | ~[]byte](password T, encoded string) error {
	memory, time, threads, salt, want, err := decodeHash(encoded)
	if err != nil {
		return err
	}
	got := argon2.IDKey([]byte(password), salt, time, memory, threads, uint32(len(want))) //nolint:gosec // key length is bounded
	if subtle.ConstantTimeCompare(got, want) != 1 {
		return ErrPasswordMismatch
	}
	return nil
}

// fallbackHash is compared against when a username does not resolve to an
// auth record, so both login failure paths cost one verification.
var fallbackHash, _ = HashPassword("suffragio.fallback")

// DummyHash returns a fixed valid hash that matches no real credential. It
// exists so callers can keep the rejected-login paths uniform.
func DummyHash() string { return fallbackHash }

func decodeHash(encoded string) (memory, time uint32, threads uint8, salt, key []byte, err error) {
	parts := strings.Split(encoded, "$")
	const wantParts = 6
	if len(parts) != wantParts || parts[0] != "" || parts[1] != "argon2id" {
		return 0, 0, 0, nil, nil, ErrMalformedHash
	}

	var version int
	if _, err = fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return 0, 0, 0, nil, nil, ErrMalformedHash
	}
	if _, err = fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return 0, 0, 0, nil, nil, ErrMalformedHash
	}
	if salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return 0, 0, 0, nil, nil, ErrMalformedHash
	}
	if key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil {
		return 0, 0, 0, nil, nil, ErrMalformedHash
	}
	if len(salt) == 0 || len(key) == 0 || memory == 0 || time == 0 || threads == 0 {
		return 0, 0, 0, nil, nil, ErrMalformedHash
	}
	return memory, time, threads, salt, key, nil
}
