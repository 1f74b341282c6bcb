package session

import (
	"crypto/rand"
	"crypto/subtle"
	"math/big"
	"strings"
)

// Token prefixes, so a refresh token sent as a bearer is rejected before any lookup.
const (
	AccessTokenPrefix  = "tca_"
	RefreshTokenPrefix = "tcr_"
)

const base58 = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

// SecureToken returns prefix followed by length random base58 characters.
func SecureToken(prefix string, length int) string {
	if length < 0 {
		panic("session: negative token length")
	}

	token := make([]byte, len(prefix)+length)
	copy(token, prefix)

	max := big.NewInt(int64(len(base58)))
	for i := len(prefix); i < len(token); i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(err) // crypto/rand never fails on supported platforms
		}
		token[i] = base58[n.Int64()]
	}

	return string(token)
}

// WellFormed reports whether token has the given prefix followed by TokenLength base58 characters.
func WellFormed(token, prefix string) bool {
	if !strings.HasPrefix(token, prefix) || len(token) != len(prefix)+TokenLength {
		return false
	}

	for _, c := range token[len(prefix):] {
		if !strings.ContainsRune(base58, c) {
			return false
		}
	}
	return true
}

// SecureCompare compares the givens strings in a constant time.
func SecureCompare(s1, s2 string) bool {
	return subtle.ConstantTimeCompare([]byte(s1), []byte(s2)) == 1
}
