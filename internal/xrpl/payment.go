package xrpl

import (
	"crypto/ed25519"
	"crypto/sha512"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"
)

// Payment is a native-currency Payment transaction. Amounts are drops.
type Payment struct {
	Account            string
	Destination        string
	AmountDrops        int64
	FeeDrops           int64
	Sequence           uint32
	LastLedgerSequence uint32

	SigningPubKey []byte // 0xED-prefixed ed25519 public key, 33 bytes
	TxnSignature  []byte
}

const paymentTransactionType = 0

// Serialization prefixes defined by the ledger protocol.
var (
	signingPrefix = []byte{0x53, 0x54, 0x58, 0x00} // "STX\0"
	txHashPrefix  = []byte{0x54, 0x58, 0x4E, 0x00} // "TXN\0"
)

// Serialize renders the transaction in canonical binary form. The signature
// field is only emitted when present, which makes the same routine usable for
// both the signing payload and the final blob.
func (p *Payment) Serialize() ([]byte, error) {
	if p.AmountDrops <= 0 {
		return nil, fmt.Errorf("amount must be positive, got %d", p.AmountDrops)
	}
	if p.FeeDrops <= 0 {
		return nil, fmt.Errorf("fee must be positive, got %d", p.FeeDrops)
	}
	if len(p.SigningPubKey) != 33 {
		return nil, fmt.Errorf("signing key must be 33 bytes, got %d", len(p.SigningPubKey))
	}
	source, err := DecodeAddress(p.Account)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	dest, err := DecodeAddress(p.Destination)
	if err != nil {
		return nil, fmt.Errorf("destination: %w", err)
	}

	// Canonical field order: ascending (type, field) pairs.
	var out []byte
	out = appendUint16Field(out, 2, uint16(paymentTransactionType)) // TransactionType
	out = appendUint32Field(out, 4, p.Sequence)                     // Sequence
	if p.LastLedgerSequence > 0 {
		out = appendUint32Field(out, 27, p.LastLedgerSequence) // LastLedgerSequence
	}
	out = appendAmountField(out, 1, uint64(p.AmountDrops)) // Amount
	out = appendAmountField(out, 8, uint64(p.FeeDrops))    // Fee
	out = appendBlobField(out, 3, p.SigningPubKey)         // SigningPubKey
	if len(p.TxnSignature) > 0 {
		out = appendBlobField(out, 4, p.TxnSignature) // TxnSignature
	}
	out = appendAccountField(out, 1, source) // Account
	out = appendAccountField(out, 3, dest)   // Destination
	return out, nil
}

// SigningData returns the byte string an ed25519 signature must cover.
func (p *Payment) SigningData() ([]byte, error) {
	sig := p.TxnSignature
	p.TxnSignature = nil
	body, err := p.Serialize()
	p.TxnSignature = sig
	if err != nil {
		return nil, err
	}
	return append(append([]byte{}, signingPrefix...), body...), nil
}

// Sign fills SigningPubKey and TxnSignature from the given key pair.
func (p *Payment) Sign(pub ed25519.PublicKey, priv ed25519.PrivateKey) error {
	p.SigningPubKey = append([]byte{0xED}, pub...)
	data, err := p.SigningData()
	if err != nil {
		return err
	}
	p.TxnSignature = ed25519.Sign(priv, data)
	return nil
}

// Blob returns the signed transaction as an uppercase hex string.
func (p *Payment) Blob() (string, error) {
	if len(p.TxnSignature) == 0 {
		return "", fmt.Errorf("transaction is not signed")
	}
	body, err := p.Serialize()
	if err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(body)), nil
}

// Hash computes the transaction hash the ledger will index it under.
func (p *Payment) Hash() (string, error) {
	body, err := p.Serialize()
	if err != nil {
		return "", err
	}
	if len(p.TxnSignature) == 0 {
		return "", fmt.Errorf("transaction is not signed")
	}
	digest := sha512.Sum512(append(append([]byte{}, txHashPrefix...), body...))
	return strings.ToUpper(hex.EncodeToString(digest[:32])), nil
}

// --- canonical field encoders ---

// Field headers pack the serialized type code and field code; codes below 16
// share a single byte.
func appendFieldHeader(out []byte, typeCode, fieldCode byte) []byte {
	if fieldCode < 16 {
		return append(out, typeCode<<4|fieldCode)
	}
	return append(out, typeCode<<4, fieldCode)
}

func appendUint16Field(out []byte, fieldCode byte, v uint16) []byte {
	out = appendFieldHeader(out, 1, fieldCode)
	return binary.BigEndian.AppendUint16(out, v)
}

func appendUint32Field(out []byte, fieldCode byte, v uint32) []byte {
	out = appendFieldHeader(out, 2, fieldCode)
	return binary.BigEndian.AppendUint32(out, v)
}

// Native amounts are 62-bit drop counts with the "not an IOU" bit set.
func appendAmountField(out []byte, fieldCode byte, drops uint64) []byte {
	out = appendFieldHeader(out, 6, fieldCode)
	return binary.BigEndian.AppendUint64(out, drops|0x4000000000000000)
}

func appendBlobField(out []byte, fieldCode byte, blob []byte) []byte {
	out = appendFieldHeader(out, 7, fieldCode)
	out = appendVarLength(out, len(blob))
	return append(out, blob...)
}

func appendAccountField(out []byte, fieldCode byte, id [accountIDLen]byte) []byte {
	out = appendFieldHeader(out, 8, fieldCode)
	out = append(out, accountIDLen)
	return append(out, id[:]...)
}

func appendVarLength(out []byte, n int) []byte {
	switch {
	case n <= 192:
		return append(out, byte(n))
	case n <= 12480:
		n -= 193
		return append(out, byte(193+n/256), byte(n%256))
	default:
		// Blobs in a Payment never come close to this.
		panic(fmt.Sprintf("blob too large: %d", n))
	}
}
