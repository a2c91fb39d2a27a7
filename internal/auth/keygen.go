package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
	"regexp"
)

// ResetCodeLen is the number of digits in a password reset code.
const ResetCodeLen = 6

var resetCodeRegex = regexp.MustCompile(`^[0-9]{6}$`)

// GenerateResetCode returns a uniformly random numeric reset code.
func GenerateResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("generate reset code: %w", err)
	}
	return fmt.Sprintf("%0*d", ResetCodeLen, n.Int64()), nil
}

// ValidateResetCodeFormat checks if code looks like a reset code.
func ValidateResetCodeFormat(code string) bool {
	return resetCodeRegex.MatchString(code)
}

// QuickHash returns a SHA256 hash of the input for cache keys.
// This is NOT for password storage, only for cache key derivation.
func QuickHash(input string) string {
	hash := sha256.Sum256([]byte(input))
	return hex.EncodeToString(hash[:16]) // Use first 16 bytes (32 hex chars)
}
