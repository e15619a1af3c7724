package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateTokenLengthAndAlphabet(t *testing.T) {
	token := generateToken(opaqueTokenBytes)
	assert.Len(t, token, 2*opaqueTokenBytes)
	assert.Regexp(t, "^[0-9a-f]+$", token)
}

func TestGenerateTokenUniqueness(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		token := generateToken(opaqueTokenBytes)
		_, dup := seen[token]
		assert.False(t, dup, "duplicate token generated")
		seen[token] = struct{}{}
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := hashPassword("secret123")
	assert.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)
	assert.True(t, checkPasswordHash("secret123", hash))
	assert.False(t, checkPasswordHash("secret124", hash))
}
