package crypto

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	token, err := GenerateToken()
	require.NoError(t, err)

	raw, err := base64.RawURLEncoding.DecodeString(token)
	require.NoError(t, err, "токен должен быть base64url")
	assert.Len(t, raw, TokenBytes)

	// Два токена не должны совпадать
	other, err := GenerateToken()
	require.NoError(t, err)
	assert.NotEqual(t, token, other)
}

func TestHashToken(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		want    string
		wantErr bool
	}{
		{
			name:  "known vector",
			token: "test",
			want:  "9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08", // SHA256("test")
		},
		{
			name:    "empty token",
			token:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			digest, err := HashToken(tt.token)
			if tt.wantErr {
				require.Error(t, err)
				assert.Empty(t, digest)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, digest)
		})
	}
}

func TestHashToken_Deterministic(t *testing.T) {
	token, err := GenerateToken()
	require.NoError(t, err)

	d1, err := HashToken(token)
	require.NoError(t, err)
	d2, err := HashToken(token)
	require.NoError(t, err)

	assert.Equal(t, d1, d2)
	assert.Regexp(t, "^[a-f0-9]{64}$", d1)
}
