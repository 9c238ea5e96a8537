package security

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateVerificationCode(t *testing.T) {
	hexPattern := regexp.MustCompile(`^[0-9a-f]{32}$`)

	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		code, err := GenerateVerificationCode()
		require.NoError(t, err)
		assert.Regexp(t, hexPattern, code)

		_, dup := seen[code]
		assert.False(t, dup, "duplicate code %s", code)
		seen[code] = struct{}{}
	}
}

func TestVerificationCodeEqual(t *testing.T) {
	assert.True(t, VerificationCodeEqual("abc123", "abc123"))
	assert.False(t, VerificationCodeEqual("abc123", "abc124"))
	assert.False(t, VerificationCodeEqual("abc123", "abc1234"))
	assert.True(t, VerificationCodeEqual("", ""))
}
