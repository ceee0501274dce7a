// Package service provides the password business logic: generation,
// scoring and breach lookups. Persistence of the public breach range data is
// delegated to a RangeCache.
package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/atinyakov/GophPass/internal/models"
)

// Character classes used by the password generator.
const (
	lettersCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	symbolsCharset = "!@#$%^&*()_+-=[]{}"
	numbersCharset = "0123456789"
)

// passwordCharset returns the alphabet selected by opts.
func passwordCharset(opts models.PasswordOptions) string {
	charset := lettersCharset
	if opts.Symbols {
		charset += symbolsCharset
	}
	if opts.Numbers {
		charset += numbersCharset
	}
	return charset
}

// GeneratePassword returns opts.Length characters drawn uniformly from the
// selected alphabet using crypto/rand.
func GeneratePassword(opts models.PasswordOptions) (string, error) {
	if err := opts.Validate(); err != nil {
		return "", err
	}
	charset := passwordCharset(opts)
	var b strings.Builder
	b.Grow(opts.Length)
	for range opts.Length {
		i, err := randIndex(len(charset))
		if err != nil {
			return "", err
		}
		b.WriteByte(charset[i])
	}
	return b.String(), nil
}

// randIndex returns a uniform random integer in [0, n).
func randIndex(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("read random: %w", err)
	}
	return int(v.Int64()), nil
}
