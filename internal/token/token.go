// Package token generates unguessable confirmation tokens.
package token

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// alphabet is the set of characters a token is drawn from. Alphanumeric only
// so tokens survive URL query strings and email clients untouched.
const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Length is the fixed token length. 25 characters over a 62-symbol alphabet
// gives ~148 bits of entropy.
const Length = 25

// New returns a fresh confirmation token. Every character is drawn
// independently from crypto/rand, so tokens are not predictable from prior
// ones.
func New() (string, error) {
	max := big.NewInt(int64(len(alphabet)))
	buf := make([]byte, Length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("reading random source: %w", err)
		}
		buf[i] = alphabet[n.Int64()]
	}
	return string(buf), nil
}
