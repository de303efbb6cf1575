package wallet

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/skip2/go-qrcode"

	"github.com/furidngrt/octrawallet/internal/keycodec"
	"github.com/furidngrt/octrawallet/internal/model"
	"github.com/furidngrt/octrawallet/internal/vault"
)

// Import encrypts an externally supplied private key and persists the vault
// record, then opens an unlock session for it. Fails if a wallet already
// exists on this device.
func (s *Service) Import(privateKey, passphrase, rpcHint string) (*model.WalletResponse, error) {
	raw, err := keycodec.DecodeKey(privateKey)
	if err != nil {
		return nil, err
	}
	defer clear(raw)

	seed := keycodec.Seed(raw)
	return s.importSeed(seed, passphrase, rpcHint)
}

// Generate creates a fresh Ed25519 wallet, encrypts it under passphrase and
// persists the vault record.
func (s *Service) Generate(passphrase string) (*model.WalletResponse, error) {
	seed := make([]byte, ed25519.SeedSize)
	if _, err := rand.Read(seed); err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}
	defer clear(seed)

	return s.importSeed(seed, passphrase, "")
}

func (s *Service) importSeed(seed []byte, passphrase, rpcHint string) (*model.WalletResponse, error) {
	address, err := keycodec.AddressFromPrivateKey(hex.EncodeToString(seed))
	if err != nil {
		return nil, err
	}

	sealed, err := vault.Encrypt(seed, []byte(passphrase))
	if err != nil {
		return nil, err
	}

	qr, err := addressQR(address)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}

	v := &model.VaultFile{
		Address:    address,
		RPCHint:    rpcHint,
		QR:         qr,
		Salt:       base64.StdEncoding.EncodeToString(sealed.Salt),
		IV:         base64.StdEncoding.EncodeToString(sealed.IV),
		CipherText: base64.StdEncoding.EncodeToString(sealed.CipherText),
		CreatedAt:  time.Now().Format(time.RFC3339),
	}
	if err := s.store.SaveVault(v); err != nil {
		return nil, err
	}

	priv := make([]byte, len(seed))
	copy(priv, seed)
	entry := &model.KeyEntry{Priv: priv, Addr: address, RPC: rpcHint}
	defer clear(entry.Priv)

	token, err := s.openSession(entry)
	if err != nil {
		return nil, err
	}

	return &model.WalletResponse{
		Success:      true,
		Address:      address,
		SessionToken: token,
	}, nil
}

// addressQR renders the receive address as a base64 PNG.
func addressQR(address string) (string, error) {
	qr, err := qrcode.New(address, qrcode.Medium)
	if err != nil {
		return "", err
	}
	png, err := qr.PNG(256)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(png), nil
}
