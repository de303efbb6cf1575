// Package txsigner builds the canonical signable transaction payload and
// produces detached Ed25519 signatures over it.
package txsigner

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/furidngrt/octrawallet/internal/keycodec"
)

// Payload is the canonical signable structure. Field order and the absence
// of insignificant whitespace are part of the wire contract: the remote side
// verifies the signature against these exact bytes.
type Payload struct {
	From      string  `json:"from"`
	To        string  `json:"to"`
	Amount    string  `json:"amount"` // minor units
	Nonce     uint64  `json:"nonce"`
	FeeTag    string  `json:"fee_tag"`
	Timestamp float64 `json:"timestamp"`
}

// SignedTx is the payload plus the detached signature fields appended, in
// the form the RPC service accepts for submission.
type SignedTx struct {
	Payload
	Signature string `json:"signature"`
	PublicKey string `json:"public_key"`
}

// Result carries the detached signature and the raw public key, both
// base64-encoded.
type Result struct {
	Signature string
	PublicKey string
}

// BuildPayload converts the display-unit amount to minor units, derives the
// fee-class tag and assembles the canonical payload.
func BuildPayload(from, to, amount string, nonce uint64, timestamp float64) (Payload, error) {
	minor, err := AmountToMinorUnits(amount)
	if err != nil {
		return Payload{}, err
	}
	tag, err := FeeTagForAmount(amount)
	if err != nil {
		return Payload{}, err
	}
	return Payload{
		From:      from,
		To:        to,
		Amount:    minor,
		Nonce:     nonce,
		FeeTag:    tag,
		Timestamp: timestamp,
	}, nil
}

// CanonicalBytes serializes the payload to its byte-exact signable form.
func CanonicalBytes(p Payload) ([]byte, error) {
	// encoding/json emits struct fields in declaration order with no
	// insignificant whitespace, which is exactly the canonical form.
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return b, nil
}

// Sign signs the canonical payload bytes with the given private key.
func Sign(privateKey string, p Payload) (Result, error) {
	raw, err := keycodec.DecodeKey(privateKey)
	if err != nil {
		return Result{}, err
	}
	defer clear(raw)

	priv := ed25519.NewKeyFromSeed(keycodec.Seed(raw))
	defer clear(priv)

	msg, err := CanonicalBytes(p)
	if err != nil {
		return Result{}, err
	}

	sig := ed25519.Sign(priv, msg)
	pub := priv.Public().(ed25519.PublicKey)

	return Result{
		Signature: base64.StdEncoding.EncodeToString(sig),
		PublicKey: base64.StdEncoding.EncodeToString(pub),
	}, nil
}
