package xrpl

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // ledger-mandated hash
)

// rippled uses its own base58 dictionary; classic addresses are a 0x00 version
// byte, a 20-byte account id, and a 4-byte double-SHA256 checksum.
const rippleAlphabet = "rpshnaf39wBUDNEGHJKLM4PQRST7VWXYZ2bcdeCg65jkm8oFqi1tuvAxyz"

const accountIDLen = 20

var base58Radix = big.NewInt(58)

// DecodeAddress converts a classic address into its 20-byte account id.
func DecodeAddress(address string) ([accountIDLen]byte, error) {
	var id [accountIDLen]byte
	decoded, err := base58Decode(address)
	if err != nil {
		return id, fmt.Errorf("address %q: %w", address, err)
	}
	if len(decoded) != 1+accountIDLen+4 {
		return id, fmt.Errorf("address %q: unexpected payload length %d", address, len(decoded))
	}
	if decoded[0] != 0x00 {
		return id, fmt.Errorf("address %q: unexpected version byte %#x", address, decoded[0])
	}
	body := decoded[:1+accountIDLen]
	if !bytes.Equal(checksum(body), decoded[1+accountIDLen:]) {
		return id, fmt.Errorf("address %q: checksum mismatch", address)
	}
	copy(id[:], decoded[1:1+accountIDLen])
	return id, nil
}

// EncodeAddress converts a 20-byte account id into a classic address.
func EncodeAddress(id [accountIDLen]byte) string {
	body := make([]byte, 0, 1+accountIDLen+4)
	body = append(body, 0x00)
	body = append(body, id[:]...)
	body = append(body, checksum(body)...)
	return base58Encode(body)
}

// ValidAddress reports whether the string is a well-formed classic address.
func ValidAddress(address string) bool {
	_, err := DecodeAddress(address)
	return err == nil
}

// AccountIDFromPublicKey derives the on-ledger account id for a 33-byte
// prefixed public key: RIPEMD-160 over SHA-256 of the key bytes.
func AccountIDFromPublicKey(pub []byte) [accountIDLen]byte {
	var id [accountIDLen]byte
	inner := sha256.Sum256(pub)
	hasher := ripemd160.New()
	hasher.Write(inner[:])
	copy(id[:], hasher.Sum(nil))
	return id
}

func checksum(body []byte) []byte {
	first := sha256.Sum256(body)
	second := sha256.Sum256(first[:])
	return second[:4]
}

func base58Decode(s string) ([]byte, error) {
	if s == "" {
		return nil, fmt.Errorf("empty string")
	}
	n := new(big.Int)
	for _, r := range s {
		idx := strings.IndexRune(rippleAlphabet, r)
		if idx < 0 {
			return nil, fmt.Errorf("invalid character %q", r)
		}
		n.Mul(n, base58Radix)
		n.Add(n, big.NewInt(int64(idx)))
	}
	decoded := n.Bytes()
	for i := 0; i < len(s) && s[i] == rippleAlphabet[0]; i++ {
		decoded = append([]byte{0}, decoded...)
	}
	return decoded, nil
}

func base58Encode(b []byte) string {
	n := new(big.Int).SetBytes(b)
	mod := new(big.Int)
	var out []byte
	for n.Sign() > 0 {
		n.DivMod(n, base58Radix, mod)
		out = append(out, rippleAlphabet[mod.Int64()])
	}
	for _, c := range b {
		if c != 0 {
			break
		}
		out = append(out, rippleAlphabet[0])
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return string(out)
}
