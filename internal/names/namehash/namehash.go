// Package namehash implements the hashing primitives name-service backends
// key records by: the recursive namehash of a dotted name and the mixed-case
// checksum encoding of addresses.
package namehash

import (
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"
)

func keccak(parts ...[]byte) [32]byte {
	h := sha3.NewLegacyKeccak256()
	for _, p := range parts {
		h.Write(p)
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Sum returns the namehash of name. The empty name hashes to 32 zero bytes;
// every label is folded in from the right.
func Sum(name string) [32]byte {
	var node [32]byte
	if name == "" {
		return node
	}

	labels := strings.Split(name, ".")
	for i := len(labels) - 1; i >= 0; i-- {
		label := keccak([]byte(labels[i]))
		node = keccak(node[:], label[:])
	}
	return node
}

// Hex returns the namehash of name as a 0x-prefixed hex string.
func Hex(name string) string {
	sum := Sum(name)
	return "0x" + hex.EncodeToString(sum[:])
}

// IsAddress reports whether s is a 0x-prefixed 20-byte hex address in any
// letter case.
func IsAddress(s string) bool {
	if len(s) != 42 || !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return false
	}
	_, err := hex.DecodeString(s[2:])
	return err == nil
}

// ChecksumAddress returns the mixed-case checksum form of addr.
func ChecksumAddress(addr string) (string, error) {
	if !IsAddress(addr) {
		return "", fmt.Errorf("namehash: %q is not a 20-byte hex address", addr)
	}

	lower := strings.ToLower(addr[2:])
	hash := keccak([]byte(lower))

	out := make([]byte, 0, 42)
	out = append(out, '0', 'x')
	for i := 0; i < len(lower); i++ {
		c := lower[i]
		nibble := hash[i/2]
		if i%2 == 0 {
			nibble >>= 4
		} else {
			nibble &= 0x0f
		}
		if c >= 'a' && c <= 'f' && nibble >= 8 {
			c -= 'a' - 'A'
		}
		out = append(out, c)
	}
	return string(out), nil
}
