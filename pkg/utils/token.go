package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

const viewTokenBytes = 16

// GenerateViewToken returns a fresh participant view token: 16 bytes from
// crypto/rand, hex-encoded to 32 characters. Collisions are left to the
// store's uniqueness constraint.
func GenerateViewToken() (string, error) {
	buf := make([]byte, viewTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
