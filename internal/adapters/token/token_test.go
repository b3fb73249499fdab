package token

import (
	"encoding/base64"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratePair(t *testing.T) {
	src := NewSource()
	hexRe := regexp.MustCompile(`^[0-9a-f]{64}$`)

	tok, tokHash, err := src.GeneratePair()
	require.NoError(t, err)

	raw, err := base64.RawURLEncoding.DecodeString(tok)
	require.NoError(t, err)
	assert.Len(t, raw, 32, "public token should encode 32 random bytes")
	assert.Regexp(t, hexRe, tokHash)
	assert.Equal(t, tokHash, src.Hash(tok), "stored hash must match recomputed hash")
}

func TestGeneratePair_Unique(t *testing.T) {
	src := NewSource()
	seen := make(map[string]struct{})
	for i := 0; i < 10; i++ {
		tok, _, err := src.GeneratePair()
		require.NoError(t, err)
		_, dup := seen[tok]
		require.False(t, dup)
		seen[tok] = struct{}{}
	}
}

func TestEqual(t *testing.T) {
	src := NewSource()
	tok, tokHash, err := src.GeneratePair()
	require.NoError(t, err)

	assert.True(t, src.Equal(tokHash, src.Hash(tok)))
	assert.False(t, src.Equal(tokHash, src.Hash(tok+"x")), "tampered token must not verify")
	assert.False(t, src.Equal(tokHash, ""))
}
