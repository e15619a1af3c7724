package user

import (
	"crypto/rand"
	"encoding/hex"
)

// generateToken creates an opaque token of byteLen random bytes, hex-encoded,
// used for both verification codes and password-reset tokens. crypto/rand
// terminates the process if the entropy source is unavailable; there is no
// weak-RNG fallback.
func generateToken(byteLen int) string {
	b := make([]byte, byteLen)
	rand.Read(b)
	return hex.EncodeToString(b)
}
