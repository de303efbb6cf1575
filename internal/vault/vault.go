// Package vault encrypts private key material at rest with a
// passphrase-derived key. Only salt, iv and ciphertext ever persist; the
// derived key and the passphrase are zeroed after use.
package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"

	"github.com/furidngrt/octrawallet/internal/model"
)

const (
	// PBKDF2 with SHA-256. Iteration count chosen so unlocking takes a
	// noticeable fraction of a second even on slow devices; brute force
	// against the vault file stays expensive.
	kdfIterations = 100_000
	kdfKeyLen     = 32

	saltLen = 16
	ivLen   = 12

	minPassphraseLen = 8
)

// Sealed is an encrypted key blob. Salt and IV are single-use and
// regenerated on every Encrypt call.
type Sealed struct {
	Salt       []byte
	IV         []byte
	CipherText []byte
}

// Encrypt seals plaintextKey under passphrase with AES-256-GCM. The key is
// derived with PBKDF2-SHA256 over a fresh random salt, so two calls with
// identical input never produce identical output.
func Encrypt(plaintextKey, passphrase []byte) (Sealed, error) {
	if len(passphrase) < minPassphraseLen {
		return Sealed{}, model.ErrWeakPassphrase
	}

	salt := make([]byte, saltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return Sealed{}, fmt.Errorf("failed to generate salt: %w", err)
	}

	iv := make([]byte, ivLen)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return Sealed{}, fmt.Errorf("failed to generate iv: %w", err)
	}

	key := pbkdf2.Key(passphrase, salt, kdfIterations, kdfKeyLen, sha256.New)
	defer clear(key)

	aead, err := newGCM(key)
	if err != nil {
		return Sealed{}, err
	}

	return Sealed{
		Salt:       salt,
		IV:         iv,
		CipherText: aead.Seal(nil, iv, plaintextKey, nil),
	}, nil
}

// Decrypt re-derives the key from passphrase and the stored salt and opens
// the blob. Any authentication failure collapses to ErrDecryptionFailed:
// wrong passphrase and corrupted data are deliberately indistinguishable.
func Decrypt(sealed Sealed, passphrase []byte) ([]byte, error) {
	// The blob comes off disk and can arrive truncated or hand-edited.
	// GCM panics on a wrong-length nonce, so structural damage is caught
	// up front and collapses to the same generic error as a bad tag.
	if len(sealed.Salt) != saltLen || len(sealed.IV) != ivLen || len(sealed.CipherText) == 0 {
		return nil, model.ErrDecryptionFailed
	}

	key := pbkdf2.Key(passphrase, sealed.Salt, kdfIterations, kdfKeyLen, sha256.New)
	defer clear(key)

	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	plaintext, err := aead.Open(nil, sealed.IV, sealed.CipherText, nil)
	if err != nil {
		return nil, model.ErrDecryptionFailed
	}
	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return aead, nil
}
