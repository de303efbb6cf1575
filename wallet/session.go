package wallet

import (
	"encoding/base64"
	"fmt"

	"github.com/furidngrt/octrawallet/internal/keycodec"
	"github.com/furidngrt/octrawallet/internal/model"
	"github.com/furidngrt/octrawallet/internal/vault"
)

// Unlock decrypts the vault with passphrase and opens a session. The
// decrypted key must derive the address recorded in the vault; anything
// else decrypts as a generic failure.
func (s *Service) Unlock(passphrase string) (*model.WalletResponse, error) {
	v, err := s.store.LoadVault()
	if err != nil {
		return nil, err
	}

	sealed, err := decodeVault(v)
	if err != nil {
		return nil, err
	}

	seed, err := vault.Decrypt(sealed, []byte(passphrase))
	if err != nil {
		return nil, err
	}
	defer clear(seed)

	address, err := keycodec.AddressFromPrivateKey(base64.StdEncoding.EncodeToString(seed))
	if err != nil || address != v.Address {
		// A decryptable blob for the wrong address means a corrupted vault;
		// indistinguishable from a wrong passphrase on purpose.
		return nil, model.ErrDecryptionFailed
	}

	entry := &model.KeyEntry{Priv: seed, Addr: address, RPC: v.RPCHint}
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

// Lock clears the session, key cache, nonce state and poll timers for the
// wallet address. The encrypted vault on disk is untouched.
func (s *Service) Lock() error {
	addr, err := s.Address()
	if err != nil {
		return err
	}
	s.poller.CancelAddress(addr)
	s.nonces.Clear(addr)
	s.sessions.Lock(addr)
	return nil
}

// Logout is the full wipe: every timer, every nonce reservation, every
// session, the vault record and all transaction caches.
func (s *Service) Logout() error {
	s.poller.CancelAll()
	s.nonces.ClearAll()
	s.sessions.Logout()
	if err := s.store.WipeAll(); err != nil {
		return fmt.Errorf("failed to wipe storage: %w", err)
	}
	return nil
}

func decodeVault(v *model.VaultFile) (vault.Sealed, error) {
	salt, err := base64.StdEncoding.DecodeString(v.Salt)
	if err != nil {
		return vault.Sealed{}, fmt.Errorf("failed to decode salt: %w", err)
	}
	iv, err := base64.StdEncoding.DecodeString(v.IV)
	if err != nil {
		return vault.Sealed{}, fmt.Errorf("failed to decode iv: %w", err)
	}
	ct, err := base64.StdEncoding.DecodeString(v.CipherText)
	if err != nil {
		return vault.Sealed{}, fmt.Errorf("failed to decode ciphertext: %w", err)
	}
	return vault.Sealed{Salt: salt, IV: iv, CipherText: ct}, nil
}
