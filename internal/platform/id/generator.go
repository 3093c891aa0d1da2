package id

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"strings"
)

// Generator creates opaque IDs suitable for external references.
type Generator interface {
	NewID() (string, error)
}

// rowEncoding is unpadded base32; the resulting IDs are shorter than hex
// and safe in URLs.
var rowEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

type RandomGenerator struct{}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{}
}

// NewID returns 128 bits of randomness as a lowercase base32 string.
func (g *RandomGenerator) NewID() (string, error) {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}
	return strings.ToLower(rowEncoding.EncodeToString(buf[:])), nil
}
