// Package token implements the guest-facing token pair scheme: a random
// public token handed out in links, and its SHA-256 hash persisted in place
// of the token itself.
package token

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"eventpages/internal/domain"
)

const tokenBytes = 32

type source struct{}

// NewSource returns the production InviteTokenSource.
func NewSource() domain.InviteTokenSource {
	return source{}
}

// GeneratePair returns a base64url public token and the hex SHA-256 hash
// stored for it. Only the hash ever touches the database.
func (source) GeneratePair() (string, string, error) {
	raw := make([]byte, tokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", "", fmt.Errorf("failed to generate token: %w", err)
	}
	tok := base64.RawURLEncoding.EncodeToString(raw)
	return tok, hash(tok), nil
}

func (source) Hash(token string) string {
	return hash(token)
}

// Equal compares stored hashes in constant time so verification timing does
// not leak how much of a guessed token matched.
func (source) Equal(hashA, hashB string) bool {
	return subtle.ConstantTimeCompare([]byte(hashA), []byte(hashB)) == 1
}

func hash(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
