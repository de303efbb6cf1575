package wallet

import (
	"encoding/base64"
	"time"

	"github.com/furidngrt/octrawallet/internal/keycodec"
	"github.com/furidngrt/octrawallet/internal/model"
	"github.com/furidngrt/octrawallet/internal/vault"
)

// Reencrypt decrypts the vault with oldPassphrase and seals it again under
// newPassphrase with a fresh salt and iv, replacing the vault record in
// place. This is the only operation that overwrites an existing vault.
// Address, QR and ciphertext provenance are preserved; open sessions stay
// valid because the key material itself does not change.
func (s *Service) Reencrypt(oldPassphrase, newPassphrase string) (*model.WalletResponse, error) {
	v, err := s.store.LoadVault()
	if err != nil {
		return nil, err
	}

	sealed, err := decodeVault(v)
	if err != nil {
		return nil, err
	}

	seed, err := vault.Decrypt(sealed, []byte(oldPassphrase))
	if err != nil {
		return nil, err
	}
	defer clear(seed)

	address, err := keycodec.AddressFromPrivateKey(base64.StdEncoding.EncodeToString(seed))
	if err != nil || address != v.Address {
		return nil, model.ErrDecryptionFailed
	}

	resealed, err := vault.Encrypt(seed, []byte(newPassphrase))
	if err != nil {
		return nil, err
	}

	next := &model.VaultFile{
		Address:    v.Address,
		RPCHint:    v.RPCHint,
		QR:         v.QR,
		Salt:       base64.StdEncoding.EncodeToString(resealed.Salt),
		IV:         base64.StdEncoding.EncodeToString(resealed.IV),
		CipherText: base64.StdEncoding.EncodeToString(resealed.CipherText),
		CreatedAt:  v.CreatedAt,
		UpdatedAt:  time.Now().Format(time.RFC3339),
	}
	if err := s.store.ReplaceVault(next); err != nil {
		return nil, err
	}

	return &model.WalletResponse{Success: true, Address: v.Address}, nil
}
