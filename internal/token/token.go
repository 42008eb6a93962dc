// Package token holds the pure pieces of the booking-link protocol: secret
// generation, hashing and state evaluation. Nothing here touches storage.
package token

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"time"
)

const (
	secretBytes          = 32
	DefaultExpiryMinutes = 15
)

// Generate returns a fresh URL-safe plaintext (43 chars, unpadded base64url
// of 32 random bytes) and its hash. Only the hash may be persisted.
func Generate() (plaintext, hash string, err error) {
	raw := make([]byte, secretBytes)
	if _, err = io.ReadFull(rand.Reader, raw); err != nil {
		return "", "", fmt.Errorf("generate token: %w", err)
	}
	plaintext = base64.RawURLEncoding.EncodeToString(raw)
	return plaintext, Hash(plaintext), nil
}

// Hash is the lookup key for a plaintext: lowercase hex SHA-256.
func Hash(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}

// ExpiresAt returns now plus the given minutes, or plus DefaultExpiryMinutes
// when minutes is not positive.
func ExpiresAt(now time.Time, minutes int) time.Time {
	if minutes <= 0 {
		minutes = DefaultExpiryMinutes
	}
	return now.Add(time.Duration(minutes) * time.Minute)
}
