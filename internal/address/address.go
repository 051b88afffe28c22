package address

import (
	"errors"
	"strings"
)

// Alphabet is the set of characters that can appear in an Algorand address:
// upper case letters A-Z and the numbers 2-7. 0 and 1 are omitted because
// they look too similar to O and I; 8 and 9 are unnecessary because base32
// only needs 32 characters.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ234567"

// ErrInvalidPrefix is returned when a requested prefix contains characters
// that can never appear in an address, so the search would run forever.
var ErrInvalidPrefix = errors.New("prefix can only contain upper case letters A-Z and numbers 2-7")

// ValidatePrefix checks every character of prefix against Alphabet.
// The empty prefix is valid and matches every address.
func ValidatePrefix(prefix string) error {
	for _, c := range prefix {
		if !strings.ContainsRune(Alphabet, c) {
			return ErrInvalidPrefix
		}
	}
	return nil
}

// HasPrefix reports whether addr begins with prefix. Case-sensitive.
func HasPrefix(addr, prefix string) bool {
	return strings.HasPrefix(addr, prefix)
}
