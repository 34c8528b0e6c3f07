package wallet

import (
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"
)

// Sessions are keyed by wallet address. The address is caller-asserted and
// never authenticated here; we only normalize it so that the same wallet
// always maps to the same session key.

// Normalize lowercases a wallet address for use as a map key.
func Normalize(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

// Validate checks that the address is a well-formed hex address. Mixed-case
// addresses must additionally carry a valid EIP-55 checksum; all-lower or
// all-upper addresses are accepted without one.
func Validate(address string) error {
	if !isHexAddress(address) {
		return fmt.Errorf("invalid wallet address %q", address)
	}
	hexPart := address[2:]
	if hexPart == strings.ToLower(hexPart) || hexPart == strings.ToUpper(hexPart) {
		return nil
	}
	if Checksum(address) != address {
		return fmt.Errorf("wallet address %q fails checksum", address)
	}
	return nil
}

// Checksum returns the EIP-55 checksummed form of a hex address.
func Checksum(address string) string {
	lower := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(address), "0x"))
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(lower))
	sum := hex.EncodeToString(h.Sum(nil))

	out := make([]byte, len(lower))
	for i := 0; i < len(lower); i++ {
		c := lower[i]
		if c >= 'a' && c <= 'f' && sum[i] >= '8' {
			c = c - 'a' + 'A'
		}
		out[i] = c
	}
	return "0x" + string(out)
}

// Mask shortens a wallet address for display: first 6 and last 4 chars.
func Mask(address string) string {
	if len(address) <= 10 {
		return address
	}
	return address[:6] + "..." + address[len(address)-4:]
}

func isHexAddress(address string) bool {
	if len(address) != 42 || !strings.HasPrefix(address, "0x") {
		return false
	}
	for i := 2; i < len(address); i++ {
		c := address[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
