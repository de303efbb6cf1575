// Package keycodec derives on-chain addresses from raw Ed25519 private keys
// and validates key/address encodings. All functions are pure.
package keycodec

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/mr-tron/base58"

	"github.com/furidngrt/octrawallet/internal/model"
)

const (
	// AddressPrefix is the fixed scheme tag of every wallet address.
	AddressPrefix = "oct"

	addressMinLen = 10
	addressMaxLen = 50

	seedLen    = ed25519.SeedSize       // 32
	fullKeyLen = ed25519.PrivateKeySize // 64
)

// DecodeKey decodes a private key given as base64, 0x-prefixed hex or bare
// hex. Accepted decoded lengths are 32 bytes (seed) and 64 bytes (full key).
func DecodeKey(key string) ([]byte, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, fmt.Errorf("%w: empty key", model.ErrInvalidKeyFormat)
	}

	// Hex is tried first when the string looks like hex: a 64-char hex seed
	// is also valid base64 and would silently decode to the wrong bytes.
	var raw []byte
	var err error
	hexStr := strings.TrimPrefix(key, "0x")
	if len(hexStr) != len(key) || looksLikeHex(hexStr) {
		raw, err = hex.DecodeString(hexStr)
	} else {
		raw, err = base64.StdEncoding.DecodeString(key)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: not base64 or hex", model.ErrInvalidKeyFormat)
	}

	if len(raw) != seedLen && len(raw) != fullKeyLen {
		return nil, fmt.Errorf("%w: decoded length %d, want %d or %d",
			model.ErrInvalidKeyFormat, len(raw), seedLen, fullKeyLen)
	}
	return raw, nil
}

func looksLikeHex(s string) bool {
	if len(s) != 2*seedLen && len(s) != 2*fullKeyLen {
		return false
	}
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// Seed reduces a decoded key to its 32-byte seed form.
func Seed(raw []byte) []byte {
	if len(raw) == fullKeyLen {
		return raw[:seedLen]
	}
	return raw
}

// AddressFromPrivateKey derives the deterministic on-chain address:
// SHA-256 of the raw Ed25519 public key, base58-encoded, prefixed with the
// scheme tag.
func AddressFromPrivateKey(key string) (string, error) {
	raw, err := DecodeKey(key)
	if err != nil {
		return "", err
	}
	defer clear(raw)

	priv := ed25519.NewKeyFromSeed(Seed(raw))
	defer clear(priv)

	pub := priv.Public().(ed25519.PublicKey)
	digest := sha256.Sum256(pub)
	return AddressPrefix + base58.Encode(digest[:]), nil
}

// ValidatePrivateKey reports whether key decodes to exactly 32 raw bytes.
func ValidatePrivateKey(key string) bool {
	raw, err := DecodeKey(key)
	if err != nil {
		return false
	}
	defer clear(raw)
	return len(raw) == seedLen
}

// ValidateAddress reports whether address carries the scheme tag, has a
// plausible length and a base58-decodable body.
func ValidateAddress(address string) bool {
	if !strings.HasPrefix(address, AddressPrefix) {
		return false
	}
	if len(address) < addressMinLen || len(address) > addressMaxLen {
		return false
	}
	_, err := base58.Decode(address[len(AddressPrefix):])
	return err == nil
}
