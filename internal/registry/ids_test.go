package registry

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateID_Format(t *testing.T) {
	id := GenerateID("rift")

	require.True(t, strings.HasPrefix(id, "rift-"))
	suffix := strings.TrimPrefix(id, "rift-")
	assert.Len(t, suffix, DefaultSuffixLength)
	for _, c := range suffix {
		assert.True(t, strings.ContainsRune(base36, c), "unexpected rune %q", c)
	}
}

func TestGenerateIDWithLength(t *testing.T) {
	assert.Len(t, GenerateIDWithLength("ore", 4), len("ore-")+4)
	assert.Len(t, GenerateIDWithLength("ore", 0), len("ore-")+DefaultSuffixLength)
}

func TestGenerateID_Varies(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		seen[GenerateID("site")] = struct{}{}
	}
	// collisions are possible in principle, not at this sample size
	assert.Greater(t, len(seen), 95)
}

func TestParseID(t *testing.T) {
	tests := []struct {
		id            string
		discriminator string
		suffix        string
		ok            bool
	}{
		{"rift-abc123xyz", "rift", "abc123xyz", true},
		{"fleet-abc-def", "fleet", "abc-def", true},
		{"ore-", "ore", "", true},
		{"nohyphen", "", "", false},
		{"-suffix", "", "", false},
		{"", "", "", false},
	}
	for _, tt := range tests {
		d, s, ok := ParseID(tt.id)
		assert.Equal(t, tt.ok, ok, tt.id)
		assert.Equal(t, tt.discriminator, d, tt.id)
		assert.Equal(t, tt.suffix, s, tt.id)
	}
}

func TestParseID_RoundTrip(t *testing.T) {
	id := GenerateID("site")
	d, s, ok := ParseID(id)
	require.True(t, ok)
	assert.Equal(t, "site", d)
	assert.Len(t, s, DefaultSuffixLength)
}
