package xrpl

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPayment(t *testing.T) (*Payment, ed25519.PublicKey, ed25519.PrivateKey) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	return &Payment{
		Account:            EncodeAddress([20]byte{1}),
		Destination:        EncodeAddress([20]byte{2}),
		AmountDrops:        5_000_000,
		FeeDrops:           12,
		Sequence:           7,
		LastLedgerSequence: 900,
		SigningPubKey:      append([]byte{0xED}, pub...),
	}, pub, priv
}

func TestSerializeCanonicalLayout(t *testing.T) {
	p, _, _ := testPayment(t)
	body, err := p.Serialize()
	require.NoError(t, err)

	// TransactionType (0x12) with the Payment code leads the blob.
	assert.Equal(t, []byte{0x12, 0x00, 0x00}, body[:3])
	// Sequence field follows.
	assert.Equal(t, byte(0x24), body[3])
	// Both account fields are present with 20-byte length prefixes.
	assert.True(t, bytes.Contains(body, []byte{0x81, 0x14, 0x01}), "missing Account field")
	assert.True(t, bytes.Contains(body, []byte{0x83, 0x14, 0x02}), "missing Destination field")
}

func TestSerializeDeterministic(t *testing.T) {
	p, _, _ := testPayment(t)
	first, err := p.Serialize()
	require.NoError(t, err)
	second, err := p.Serialize()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSignAndVerify(t *testing.T) {
	p, pub, priv := testPayment(t)
	require.NoError(t, p.Sign(pub, priv))
	require.Len(t, p.TxnSignature, ed25519.SignatureSize)

	data, err := p.SigningData()
	require.NoError(t, err)
	assert.True(t, ed25519.Verify(pub, data, p.TxnSignature), "signature must verify over the signing payload")
	// The signing payload starts with the transaction signing prefix.
	assert.Equal(t, []byte{0x53, 0x54, 0x58, 0x00}, data[:4])
}

func TestSignedBlobAndHash(t *testing.T) {
	p, pub, priv := testPayment(t)
	require.NoError(t, p.Sign(pub, priv))

	blob, err := p.Blob()
	require.NoError(t, err)
	assert.Equal(t, strings.ToUpper(blob), blob)
	_, err = hex.DecodeString(blob)
	require.NoError(t, err)

	hash, err := p.Hash()
	require.NoError(t, err)
	assert.Len(t, hash, 64)

	// The signed blob is strictly longer than the unsigned form.
	unsigned := &Payment{}
	*unsigned = *p
	unsigned.TxnSignature = nil
	unsignedBody, err := unsigned.Serialize()
	require.NoError(t, err)
	assert.Greater(t, len(blob)/2, len(unsignedBody))
}

func TestSerializeRejectsDegenerateAmounts(t *testing.T) {
	p, _, _ := testPayment(t)
	p.AmountDrops = 0
	_, err := p.Serialize()
	assert.Error(t, err)

	p, _, _ = testPayment(t)
	p.FeeDrops = -1
	_, err = p.Serialize()
	assert.Error(t, err)
}

func TestBlobRequiresSignature(t *testing.T) {
	p, _, _ := testPayment(t)
	_, err := p.Blob()
	assert.Error(t, err)
	_, err = p.Hash()
	assert.Error(t, err)
}
