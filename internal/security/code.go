package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
)

const verificationCodeBytes = 16

// GenerateVerificationCode returns a 32-character lowercase hex one-time code.
func GenerateVerificationCode() (string, error) {
	buf := make([]byte, verificationCodeBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate verification code: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func VerificationCodeEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
