// Package util contains small helpers used across the application that don't
// belong to any other package
package util

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateToken reads n bytes from the system CSPRNG and returns them hex
// encoded, so the result is 2*n characters long.
func GenerateToken(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("invalid token size %d", n)
	}

	b := make([]byte, n)

	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}

	return hex.EncodeToString(b), nil
}
