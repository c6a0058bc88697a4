package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// Token sizes in bytes before encoding.
const (
	TokenSize128 = 16 // 22 chars base64url
	TokenSize256 = 32 // 43 chars base64url
)

var tokenEncoding = base64.RawURLEncoding

// GenerateToken returns size random bytes as unpadded base64url. Anything
// shorter than TokenSize128 is refused since tokens here guard sessions.
func GenerateToken(size int) (string, error) {
	if size < TokenSize128 {
		return "", fmt.Errorf("cryptox: token size %d below minimum %d", size, TokenSize128)
	}
	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("cryptox: read random: %w", err)
	}
	return tokenEncoding.EncodeToString(buf), nil
}

// FingerprintToken hashes a token for storage. Session rows are keyed by
// fingerprint so a copied table holds no usable cookie ids.
func FingerprintToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return tokenEncoding.EncodeToString(sum[:])
}
