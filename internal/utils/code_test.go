package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestNewConfirmationCode(t *testing.T) {
	code, err := NewConfirmationCode()
	require.NoError(t, err)
	assert.Len(t, code, CodeLength)
	for _, r := range code {
		assert.Contains(t, codeAlphabet, string(r))
	}

	other, err := NewConfirmationCode()
	require.NoError(t, err)
	assert.NotEqual(t, code, other, "codes must not repeat")
}

func TestHashAndVerifyCode(t *testing.T) {
	code, err := NewConfirmationCode()
	require.NoError(t, err)

	hash, err := HashCode(code, bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, code, hash, "plaintext must never be stored")

	assert.True(t, VerifyCode(hash, code))
	assert.False(t, VerifyCode(hash, "wrong-code"))
	assert.False(t, VerifyCode("", code))
}
