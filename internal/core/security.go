// AngelaMos | 2026
// security.go

package core

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

const opaqueTokenBytes = 32

var ErrUnreadableHash = errors.New("unreadable password hash")

// Argon2Params are the argon2id cost settings encoded into every hash.
type Argon2Params struct {
	Time    uint32
	Memory  uint32
	Threads uint8
	KeyLen  uint32
	SaltLen int
}

var DefaultArgon2Params = Argon2Params{
	Time:    1,
	Memory:  64 * 1024,
	Threads: 4,
	KeyLen:  32,
	SaltLen: 16,
}

// HashPassword salts and hashes password with the current argon2id
// parameters, producing a PHC string such as $argon2id$v=19$m=...$salt$key.
func HashPassword(password string) (string, error) {
	return DefaultArgon2Params.Hash(password)
}

func (p Argon2Params) Hash(password string) (string, error) {
	salt := make([]byte, p.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, p.Time, p.Memory, p.Threads, p.KeyLen)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		p.Memory,
		p.Time,
		p.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// PasswordCheck is the outcome of CheckPassword. Upgrade carries a fresh
// argon2id hash when the stored one matched but was bcrypt or used older
// parameters; it is empty otherwise.
type PasswordCheck struct {
	Match   bool
	Upgrade string
}

// CheckPassword verifies password against a stored argon2id or bcrypt hash.
// An unreadable stored hash yields ErrUnreadableHash.
func CheckPassword(password, stored string) (PasswordCheck, error) {
	var (
		match   bool
		current bool
	)

	switch {
	case isBcryptHash(stored):
		err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(password))
		if err != nil && !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return PasswordCheck{}, fmt.Errorf("%w: %w", ErrUnreadableHash, err)
		}
		match = err == nil

	default:
		params, salt, key, err := parseArgon2(stored)
		if err != nil {
			return PasswordCheck{}, err
		}
		candidate := argon2.IDKey([]byte(password), salt, params.Time, params.Memory, params.Threads, params.KeyLen)
		match = subtle.ConstantTimeCompare(key, candidate) == 1
		current = params.Time == DefaultArgon2Params.Time &&
			params.Memory == DefaultArgon2Params.Memory &&
			params.Threads == DefaultArgon2Params.Threads &&
			params.KeyLen == DefaultArgon2Params.KeyLen
	}

	if !match {
		return PasswordCheck{}, nil
	}
	if current {
		return PasswordCheck{Match: true}, nil
	}

	upgraded, err := HashPassword(password)
	if err != nil {
		//nolint:nilerr // the password matched; a failed upgrade only delays the rehash
		return PasswordCheck{Match: true}, nil
	}
	return PasswordCheck{Match: true, Upgrade: upgraded}, nil
}

var decoyHash = sync.OnceValue(func() string {
	hash, err := HashPassword("decoy-password-never-matches")
	if err != nil {
		panic(fmt.Sprintf("security: generate decoy hash: %v", err))
	}
	return hash
})

// BurnPasswordCheck spends one argon2id verification on a decoy hash so a
// login for an unknown account costs as much as a wrong password.
func BurnPasswordCheck(password string) {
	//nolint:errcheck // the decoy hash is always readable and never matches
	_, _ = CheckPassword(password, decoyHash())
}

func parseArgon2(stored string) (Argon2Params, []byte, []byte, error) {
	var params Argon2Params

	parts := strings.Split(stored, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return params, nil, nil, fmt.Errorf("%w: not an argon2id hash", ErrUnreadableHash)
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return params, nil, nil, fmt.Errorf("%w: version %q", ErrUnreadableHash, parts[2])
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.Memory, &params.Time, &params.Threads); err != nil {
		return params, nil, nil, fmt.Errorf("%w: params: %w", ErrUnreadableHash, err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return params, nil, nil, fmt.Errorf("%w: salt: %w", ErrUnreadableHash, err)
	}

	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return params, nil, nil, fmt.Errorf("%w: key: %w", ErrUnreadableHash, err)
	}

	//nolint:gosec // G115: argon2id keys are a few dozen bytes
	params.KeyLen = uint32(len(key))
	params.SaltLen = len(salt)

	return params, salt, key, nil
}

func isBcryptHash(stored string) bool {
	for _, prefix := range []string{"$2a$", "$2b$", "$2y$"} {
		if strings.HasPrefix(stored, prefix) {
			return true
		}
	}
	return false
}

// NewOpaqueToken returns 32 random bytes hex-encoded.
func NewOpaqueToken() (string, error) {
	buf := make([]byte, opaqueTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// HashToken is the form in which opaque tokens are stored.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func TokenHashMatches(token, hash string) bool {
	return subtle.ConstantTimeCompare([]byte(HashToken(token)), []byte(hash)) == 1
}
