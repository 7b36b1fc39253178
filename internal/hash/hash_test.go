package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerify(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	hashed, err := h.Hash("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hashed)

	assert.True(t, h.Verify("secret1", hashed))
	assert.False(t, h.Verify("secret2", hashed))
}

func TestVerifyMalformedHash(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)
	assert.False(t, h.Verify("secret1", "not-a-bcrypt-hash"))
	assert.False(t, h.Verify("secret1", ""))
}

func TestVerifyLegacyCost(t *testing.T) {
	// Hashes minted at the older work factor must keep verifying.
	legacy, err := bcrypt.GenerateFromPassword([]byte("secret1"), 10)
	require.NoError(t, err)

	h := NewHasher(DefaultCost)
	assert.True(t, h.Verify("secret1", string(legacy)))
	assert.False(t, h.Verify("wrong", string(legacy)))
}

func TestNewHasherClampsBadCost(t *testing.T) {
	h := NewHasher(99)
	assert.Equal(t, DefaultCost, h.cost)
}
