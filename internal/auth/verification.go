package auth

import (
	"crypto/rand"
	"encoding/hex"
)

// NewVerificationToken returns a 32-byte random token, hex encoded. It is
// stored on the user record at registration and mailed as part of the email
// verification link.
func NewVerificationToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
