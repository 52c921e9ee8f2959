package fingerprint

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// Token returns a short, stable, non-reversible identifier for a push token
// so delivery failures can be correlated in logs without exposing the token.
func Token(token string) string {
	if token == "" {
		return ""
	}
	sum := blake2b.Sum256([]byte(token))
	return hex.EncodeToString(sum[:6])
}
