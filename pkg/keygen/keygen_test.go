package keygen

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var alphanumeric = regexp.MustCompile(`^[A-Za-z0-9]+$`)

func TestGenerateLengthAndAlphabet(t *testing.T) {
	for _, length := range []int{16, 32, 64} {
		key := Generate(length)
		require.Len(t, key, length)
		assert.Regexp(t, alphanumeric, key)
	}
}

func TestGenerateNoCollisions(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		key := Generate(32)
		_, dup := seen[key]
		require.False(t, dup, "generated duplicate key %q", key)
		seen[key] = struct{}{}
	}
}
