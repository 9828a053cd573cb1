// Package wallet loads and validates the JSON credential files: a full
// signing credential for the source account and an address-only record for
// the vault.
package wallet

import (
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"sweepbot-go/internal/xrpl"
)

var (
	// ErrMissingFile marks a credential path that does not exist.
	ErrMissingFile = errors.New("credential file missing")
	// ErrInvalidCredential marks a credential file with absent, empty, or
	// inconsistent fields.
	ErrInvalidCredential = errors.New("invalid credential")
)

// Credential is one wallet record as stored on disk. It is loaded once per
// run and never written back.
type Credential struct {
	Seed       string `json:"seed"`
	PublicKey  string `json:"public_key"`
	PrivateKey string `json:"private_key"`
	Address    string `json:"address"`
	Algorithm  string `json:"algorithm,omitempty"`
}

// Load reads and fully validates a signing credential. The four required
// fields must be present and the key material must be internally consistent:
// the private key reproduces the public key, and the public key hashes to the
// declared address.
func Load(path string) (*Credential, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrMissingFile, path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var cred Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidCredential, path, err)
	}
	for field, value := range map[string]string{
		"seed":        cred.Seed,
		"public_key":  cred.PublicKey,
		"private_key": cred.PrivateKey,
		"address":     cred.Address,
	} {
		if value == "" {
			return nil, fmt.Errorf("%w: %s: field %q absent or empty", ErrInvalidCredential, path, field)
		}
	}
	if _, _, err := cred.Keys(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidCredential, path, err)
	}
	return &cred, nil
}

// Keys parses the hex key material into an ed25519 key pair and verifies it
// against the declared public key and address.
func (c *Credential) Keys() (ed25519.PublicKey, ed25519.PrivateKey, error) {
	rawPriv, err := decodePrefixedKey(c.PrivateKey)
	if err != nil {
		return nil, nil, fmt.Errorf("private key: %w", err)
	}
	rawPub, err := decodePrefixedKey(c.PublicKey)
	if err != nil {
		return nil, nil, fmt.Errorf("public key: %w", err)
	}

	priv := ed25519.NewKeyFromSeed(rawPriv)
	pub := priv.Public().(ed25519.PublicKey)
	if !pub.Equal(ed25519.PublicKey(rawPub)) {
		return nil, nil, fmt.Errorf("public key does not match private key")
	}

	derived := xrpl.EncodeAddress(xrpl.AccountIDFromPublicKey(append([]byte{0xED}, pub...)))
	if derived != c.Address {
		return nil, nil, fmt.Errorf("address %s does not match key material (derived %s)", c.Address, derived)
	}
	return pub, priv, nil
}

// Ledger keys carry a one-byte algorithm prefix; only ed25519 (0xED) is
// supported here.
func decodePrefixedKey(s string) ([]byte, error) {
	raw, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("not hex: %v", err)
	}
	if len(raw) != 33 {
		return nil, fmt.Errorf("expected 33 bytes, got %d", len(raw))
	}
	if raw[0] != 0xED {
		return nil, fmt.Errorf("unsupported key algorithm prefix %#x", raw[0])
	}
	return raw[1:], nil
}

// LoadVaultAddress reads the destination-only vault record. Any seed or key
// material in the file is ignored. A missing file or empty address means no
// vault is configured, which is not an error; a malformed address is.
func LoadVaultAddress(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	var record struct {
		Address string `json:"address"`
	}
	if err := json.Unmarshal(data, &record); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrInvalidCredential, path, err)
	}
	if record.Address == "" {
		return "", nil
	}
	if !xrpl.ValidAddress(record.Address) {
		return "", fmt.Errorf("%w: %s: malformed vault address %q", ErrInvalidCredential, path, record.Address)
	}
	return record.Address, nil
}
