package registry

import (
	"math/rand/v2"
	"strings"
)

// DefaultSuffixLength keeps ids short. Suffixes are random, not unique:
// with 36^9 combinations a collision is unlikely but possible.
const DefaultSuffixLength = 9

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

// GenerateID returns "<discriminator>-<suffix>" with a base-36 suffix of
// DefaultSuffixLength characters.
func GenerateID(discriminator string) string {
	return GenerateIDWithLength(discriminator, DefaultSuffixLength)
}

func GenerateIDWithLength(discriminator string, length int) string {
	if length <= 0 {
		length = DefaultSuffixLength
	}

	var b strings.Builder
	b.Grow(len(discriminator) + 1 + length)
	b.WriteString(discriminator)
	b.WriteByte('-')
	for i := 0; i < length; i++ {
		b.WriteByte(base36[rand.IntN(len(base36))])
	}
	return b.String()
}

// ParseID splits id on its first hyphen. Discriminators never contain a
// hyphen; suffixes may.
func ParseID(id string) (discriminator, suffix string, ok bool) {
	discriminator, suffix, ok = strings.Cut(id, "-")
	if !ok || discriminator == "" {
		return "", "", false
	}
	return discriminator, suffix, true
}
