// Package cryptox implements the one-way password digests stored in account
// records.
//
// New digests are bcrypt strings ("$2a$10$...") over the SHA-256 hex of the
// password, so the whole password counts regardless of bcrypt's 72-byte input
// limit. Files written by earlier
// tooling may carry unsalted SHA-256 digests as 64 lowercase hex characters;
// Verify still accepts those. Both forms are self-identifying, so IsHash can
// tell a stored digest from a plaintext password.
package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	bcryptHashLen = 60
	sha256HexLen  = 64
)

var bcryptPrefixes = []string{"$2a$", "$2b$", "$2y$"}

// Hasher produces bcrypt digests at a fixed cost.
type Hasher struct {
	Cost int
}

// DefaultHasher uses bcrypt.DefaultCost.
var DefaultHasher = Hasher{Cost: bcrypt.DefaultCost}

// Hash digests password. Any length is accepted.
func (h Hasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword(prehash(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

// Verify reports whether password matches the stored digest.
func Verify(hash, password string) bool {
	switch {
	case isBcrypt(hash):
		return bcrypt.CompareHashAndPassword([]byte(hash), prehash(password)) == nil
	case isLegacySHA256(hash):
		return subtle.ConstantTimeCompare([]byte(hash), []byte(LegacySHA256(password))) == 1
	default:
		return false
	}
}

// IsHash reports whether s already has the shape of a stored digest.
func IsHash(s string) bool {
	return isBcrypt(s) || isLegacySHA256(s)
}

// LegacySHA256 returns the unsalted hex digest older data files carry.
func LegacySHA256(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// prehash feeds bcrypt a fixed 64-byte input.
func prehash(password string) []byte {
	return []byte(LegacySHA256(password))
}

func isBcrypt(s string) bool {
	if len(s) != bcryptHashLen {
		return false
	}
	for _, p := range bcryptPrefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func isLegacySHA256(s string) bool {
	if len(s) != sha256HexLen {
		return false
	}
	for _, r := range s {
		if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'f') {
			return false
		}
	}
	return true
}
