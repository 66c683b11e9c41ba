package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"math/big"
)

// Token size constants (in bytes before encoding).
const (
	// TokenSize128 provides 128 bits of entropy (22 chars base64url).
	TokenSize128 = 16
	// TokenSize256 provides 256 bits of entropy (43 chars base64url).
	TokenSize256 = 32
)

// ResetCodeLength is the number of characters in a password-reset code.
const ResetCodeLength = 6

// ResetCodeAlphabet is the character set reset codes are drawn from. Codes
// are short enough to be typed from an email, which caps their entropy at
// roughly 31 bits; redemption endpoints are rate limited to compensate.
const ResetCodeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GenerateToken creates a cryptographically secure random token of the
// specified byte length, returned as a base64url string (URL-safe, no
// padding). Used for opaque refresh token values.
func GenerateToken(size int) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("token size must be positive, got %d", size)
	}

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// FingerprintToken returns a deterministic SHA-256 fingerprint of a token.
// The database stores fingerprints instead of raw token values so a leaked
// table cannot be replayed; lookups hash the presented value first.
//
// The fingerprint is returned as a base64url-encoded string (43 chars).
func FingerprintToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// GenerateResetCode draws each character independently and uniformly from
// ResetCodeAlphabet using crypto/rand.
func GenerateResetCode() (string, error) {
	code := make([]byte, ResetCodeLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(ResetCodeAlphabet))))
		if err != nil {
			return "", fmt.Errorf("failed to generate reset code: %w", err)
		}
		code[i] = ResetCodeAlphabet[n.Int64()]
	}
	return string(code), nil
}
