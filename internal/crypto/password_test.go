package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("correct horse", MinBcryptCost)
	require.NoError(t, err)

	assert.NotEqual(t, "correct horse", hash, "plaintext must never be stored")
	assert.Regexp(t, `^\$2[aby]\$\d{2}\$`, hash)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, cost, MinBcryptCost)
}

func TestHashPassword_CostRaisedToMinimum(t *testing.T) {
	hash, err := HashPassword("correct horse", bcrypt.MinCost)
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, MinBcryptCost, cost)
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse", MinBcryptCost)
	require.NoError(t, err)

	assert.NoError(t, VerifyPassword(hash, "correct horse"))
	assert.ErrorIs(t, VerifyPassword(hash, "battery staple"), ErrPasswordMismatch)

	err = VerifyPassword("not-a-bcrypt-hash", "correct horse")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrPasswordMismatch)
}

func TestBurnPasswordCheck(t *testing.T) {
	assert.NotPanics(t, func() {
		BurnPasswordCheck("whatever")
		BurnPasswordCheck("")
	})
}
