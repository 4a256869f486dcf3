// Package keygen produces the opaque identifiers used across the API: service
// ids, API keys, session tokens and generated passwords.
package keygen

import (
	"crypto/rand"
	"math/big"
)

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// Generate returns a string of exactly length alphanumeric characters drawn
// uniformly from [A-Za-z0-9] using a cryptographically strong source.
// Uniqueness is enforced at the storage layer, not here.
func Generate(length int) string {
	max := big.NewInt(int64(len(alphabet)))
	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails if the platform entropy source is broken;
			// there is no sane way to issue credentials in that state.
			panic(err)
		}
		buf[i] = alphabet[n.Int64()]
	}
	return string(buf)
}
