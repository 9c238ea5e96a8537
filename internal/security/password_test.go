package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifySecret(t *testing.T) {
	hash, err := HashSecret("hunter2")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(hash), "$argon2id$v=19$"))

	ok, err := VerifySecret("hunter2", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifySecret("wrong", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashSecretIsSalted(t *testing.T) {
	first, err := HashSecret("same-secret")
	require.NoError(t, err)
	second, err := HashSecret("same-secret")
	require.NoError(t, err)
	assert.NotEqual(t, string(first), string(second))
}

func TestVerifySecretMalformed(t *testing.T) {
	cases := [][]byte{
		[]byte(""),
		[]byte("cleartext-secret"),
		[]byte("$argon2i$v=19$t=3,m=65536,p=2$c2FsdA$aGFzaA"),
	}
	for _, encoded := range cases {
		_, err := VerifySecret("whatever", encoded)
		assert.Error(t, err)
	}
}
