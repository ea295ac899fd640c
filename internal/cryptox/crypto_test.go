package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_SaltedAndVerifiable(t *testing.T) {
	h1, err := HashPassword("TestPass123!")
	require.NoError(t, err)
	h2, err := HashPassword("TestPass123!")
	require.NoError(t, err)

	// a fresh salt per hash means two hashes of the same input differ
	assert.NotEqual(t, h1, h2)
	assert.True(t, strings.HasPrefix(h1, "$2"), "expected a bcrypt hash, got %q", h1)

	assert.True(t, CheckPassword("TestPass123!", h1))
	assert.True(t, CheckPassword("TestPass123!", h2))
}

func TestCheckPassword_Mismatch(t *testing.T) {
	h, err := HashPassword("correct-horse")
	require.NoError(t, err)

	assert.False(t, CheckPassword("wrong-horse", h))
	assert.False(t, CheckPassword("", h))
	assert.False(t, CheckPassword("correct-horse", "not-a-hash"))
}
