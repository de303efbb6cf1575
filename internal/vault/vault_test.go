package vault

import (
	"bytes"
	"crypto/rand"
	"errors"
	"testing"

	"github.com/furidngrt/octrawallet/internal/model"
)

func randBytes(t *testing.T, n int) []byte {
	t.Helper()
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		t.Fatalf("rand.Read: %v", err)
	}
	return b
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	key := randBytes(t, 32)
	pass := []byte("correct horse battery")

	sealed, err := Encrypt(key, pass)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if len(sealed.Salt) != 16 || len(sealed.IV) != 12 {
		t.Fatalf("unexpected salt/iv sizes: %d/%d", len(sealed.Salt), len(sealed.IV))
	}

	out, err := Decrypt(sealed, pass)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if !bytes.Equal(key, out) {
		t.Fatal("plaintext mismatch after round trip")
	}
}

func TestDecryptWrongPassphrase(t *testing.T) {
	sealed, err := Encrypt(randBytes(t, 32), []byte("passphrase-1"))
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if _, err := Decrypt(sealed, []byte("passphrase-2")); !errors.Is(err, model.ErrDecryptionFailed) {
		t.Fatalf("expected ErrDecryptionFailed, got %v", err)
	}
}

func TestDecryptTamperedCiphertext(t *testing.T) {
	pass := []byte("long-enough-pass")
	sealed, err := Encrypt([]byte("seed-material-here"), pass)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	sealed.CipherText[len(sealed.CipherText)-1] ^= 0xFF
	if _, err := Decrypt(sealed, pass); !errors.Is(err, model.ErrDecryptionFailed) {
		t.Fatalf("expected ErrDecryptionFailed after tamper, got %v", err)
	}
}

func TestDecryptStructurallyDamagedBlob(t *testing.T) {
	pass := []byte("long-enough-pass")
	good, err := Encrypt([]byte("seed-material-here"), pass)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	cases := map[string]Sealed{
		"truncated iv":     {Salt: good.Salt, IV: good.IV[:11], CipherText: good.CipherText},
		"missing iv":       {Salt: good.Salt, IV: nil, CipherText: good.CipherText},
		"truncated salt":   {Salt: good.Salt[:8], IV: good.IV, CipherText: good.CipherText},
		"empty ciphertext": {Salt: good.Salt, IV: good.IV, CipherText: nil},
	}
	for name, sealed := range cases {
		if _, err := Decrypt(sealed, pass); !errors.Is(err, model.ErrDecryptionFailed) {
			t.Errorf("%s: expected ErrDecryptionFailed, got %v", name, err)
		}
	}
}

func TestWeakPassphraseRejected(t *testing.T) {
	if _, err := Encrypt(randBytes(t, 32), []byte("short")); !errors.Is(err, model.ErrWeakPassphrase) {
		t.Fatalf("expected ErrWeakPassphrase, got %v", err)
	}
}

func TestSaltAndIVAreFresh(t *testing.T) {
	key := randBytes(t, 32)
	pass := []byte("same passphrase!")

	a, err := Encrypt(key, pass)
	if err != nil {
		t.Fatalf("encrypt a: %v", err)
	}
	b, err := Encrypt(key, pass)
	if err != nil {
		t.Fatalf("encrypt b: %v", err)
	}
	if bytes.Equal(a.Salt, b.Salt) {
		t.Fatal("salt reused across encryptions")
	}
	if bytes.Equal(a.IV, b.IV) {
		t.Fatal("iv reused across encryptions")
	}
	if bytes.Equal(a.CipherText, b.CipherText) {
		t.Fatal("identical ciphertext for identical input")
	}
}
