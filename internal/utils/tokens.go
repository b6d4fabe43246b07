package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// NewOpaqueToken returns nBytes of randomness hex-encoded.
func NewOpaqueToken(nBytes int) (string, error) {
	if nBytes <= 0 {
		nBytes = 16 // 128 bits by default
	}
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// NewPortalToken is the client portal access id: 32 hex characters.
func NewPortalToken() (string, error) {
	return NewOpaqueToken(16)
}
