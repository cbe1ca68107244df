package util

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GeneratePassword returns a random hex string of 2*n characters, used for
// the RCON password written during project initialization.
func GeneratePassword(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
