// Package auth derives the password hash and salt stored on a user.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

type Argon2Params struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	SaltLen     uint32
	KeyLen      uint32
}

func DefaultArgon2Params() Argon2Params {
	return Argon2Params{
		Memory:      64 * 1024,
		Iterations:  3,
		Parallelism: 4,
		SaltLen:     16,
		KeyLen:      32,
	}
}

// HashPassword returns the hash and salt to store for a user.
// The hash carries its parameters: argon2id$v=19$m=65536,t=3,p=4$<hash_b64>
// The salt is base64 on its own so it can live in a separate field.
func HashPassword(password string, p Argon2Params) (hash, salt string, err error) {
	if password == "" {
		return "", "", errors.New("password is required")
	}
	raw := make([]byte, p.SaltLen)
	if _, err := rand.Read(raw); err != nil {
		return "", "", err
	}
	h := argon2.IDKey([]byte(password), raw, p.Iterations, p.Memory, p.Parallelism, p.KeyLen)
	enc := base64.RawStdEncoding
	hash = fmt.Sprintf(
		"argon2id$v=%d$m=%d,t=%d,p=%d$%s",
		argon2.Version,
		p.Memory,
		p.Iterations,
		p.Parallelism,
		enc.EncodeToString(h),
	)
	return hash, enc.EncodeToString(raw), nil
}

// VerifyPassword checks password against a stored hash and salt.
func VerifyPassword(password, hash, salt string) (bool, error) {
	if password == "" || hash == "" {
		return false, nil
	}
	p, want, err := parseHash(hash)
	if err != nil {
		return false, err
	}
	raw, err := base64.RawStdEncoding.DecodeString(salt)
	if err != nil {
		return false, errors.New("invalid argon2 salt")
	}
	got := argon2.IDKey([]byte(password), raw, p.Iterations, p.Memory, p.Parallelism, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}

// parseHash splits argon2id$v=19$m=65536,t=3,p=4$<hash> into its parameters
// and raw key.
func parseHash(s string) (Argon2Params, []byte, error) {
	var p Argon2Params
	parts := strings.Split(s, "$")
	if len(parts) != 4 || parts[0] != "argon2id" {
		return p, nil, errors.New("unsupported password hash format")
	}
	var ver int
	if _, err := fmt.Sscanf(parts[1], "v=%d", &ver); err != nil || ver != argon2.Version {
		return p, nil, errors.New("unsupported argon2 version")
	}
	if _, err := fmt.Sscanf(parts[2], "m=%d,t=%d,p=%d", &p.Memory, &p.Iterations, &p.Parallelism); err != nil {
		return p, nil, errors.New("invalid argon2 parameters")
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[3])
	if err != nil || len(key) < 16 {
		return p, nil, errors.New("invalid argon2 hash")
	}
	return p, key, nil
}
