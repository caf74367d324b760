package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Generator hands out the identifiers stamped onto new records, such as
// league ids. Services take the interface so tests can substitute a
// deterministic sequence.
type Generator interface {
	NewID() (string, error)
}

// RandomGenerator draws 128 bits from crypto/rand per id and encodes them
// as lowercase hex.
type RandomGenerator struct{}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{}
}

func (g *RandomGenerator) NewID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	return hex.EncodeToString(buf), nil
}
