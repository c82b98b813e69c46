package utils

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRandomString(t *testing.T) {
	s := GenerateRandomString(64, Base36)
	assert.Len(t, s, 64)
	for _, r := range s {
		assert.True(t, strings.ContainsRune(Base36, r), "unexpected rune %q", r)
	}
	assert.NotEqual(t, s, GenerateRandomString(64, Base36))
}

func TestHMAC(t *testing.T) {
	key := []byte("k")
	sig := SignHMAC(key, "photo.png|100")

	assert.True(t, VerifyHMAC(key, "photo.png|100", sig))
	assert.False(t, VerifyHMAC(key, "photo.png|101", sig))
	assert.False(t, VerifyHMAC([]byte("other"), "photo.png|100", sig))
	assert.False(t, VerifyHMAC(key, "photo.png|100", "not-hex"))
	assert.False(t, VerifyHMAC(key, "photo.png|100", ""))
}

func TestGenerateSecret(t *testing.T) {
	a, err := GenerateSecret()
	require.NoError(t, err)
	raw, err := base64.StdEncoding.DecodeString(a)
	require.NoError(t, err)
	assert.Len(t, raw, 32)

	b, err := GenerateSecret()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
