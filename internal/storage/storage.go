// Package storage persists the encrypted vault record and the per-address
// transaction caches on the local device. Nothing secret is stored in the
// clear: the vault file carries only salt, iv and ciphertext.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/furidngrt/octrawallet/internal/model"
)

const (
	vaultFileName = "wallet.oct"
	txCachePrefix = "txcache-"
)

// Store is a file-backed store rooted at a data directory.
type Store struct {
	dir string
}

// New creates the data directory if needed and returns a store.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// SaveVault writes the encrypted vault record. Refuses to overwrite an
// existing non-empty vault; callers must delete it explicitly first.
func (s *Store) SaveVault(v *model.VaultFile) error {
	path := filepath.Join(s.dir, vaultFileName)
	if info, err := os.Stat(path); err == nil && info.Size() > 0 {
		return fmt.Errorf("vault already exists: %w", os.ErrExist)
	}
	return writeJSONFile(path, v)
}

// ReplaceVault overwrites the existing vault record in place. This is the
// explicit re-encryption path; it requires a vault to already exist.
func (s *Store) ReplaceVault(v *model.VaultFile) error {
	path := filepath.Join(s.dir, vaultFileName)
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		return model.ErrNoWallet
	}
	return writeJSONFile(path, v)
}

// LoadVault reads the encrypted vault record. Returns ErrNoWallet if none
// has been imported on this device.
func (s *Store) LoadVault() (*model.VaultFile, error) {
	data, err := readFileStripBOM(filepath.Join(s.dir, vaultFileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, model.ErrNoWallet
		}
		return nil, err
	}

	var v model.VaultFile
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("failed to unmarshal vault file: %w", err)
	}
	return &v, nil
}

// DeleteVault removes the vault record. Missing files are not an error.
func (s *Store) DeleteVault() error {
	err := os.Remove(filepath.Join(s.dir, vaultFileName))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// LoadTxs reads the transaction cache for address. A missing cache is an
// empty list, not an error.
func (s *Store) LoadTxs(address string) ([]model.StoredTransaction, error) {
	data, err := readFileStripBOM(s.txCachePath(address))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var txs []model.StoredTransaction
	if err := json.Unmarshal(data, &txs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tx cache: %w", err)
	}
	return txs, nil
}

// SaveTxs overwrites the transaction cache for address.
func (s *Store) SaveTxs(address string, txs []model.StoredTransaction) error {
	return writeJSONFile(s.txCachePath(address), txs)
}

// DeleteTxs removes the transaction cache for address.
func (s *Store) DeleteTxs(address string) error {
	err := os.Remove(s.txCachePath(address))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// WipeAll removes the vault and every transaction cache. Used on logout.
func (s *Store) WipeAll() error {
	if err := s.DeleteVault(); err != nil {
		return err
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), txCachePrefix) {
			if err := os.Remove(filepath.Join(s.dir, e.Name())); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Store) txCachePath(address string) string {
	return filepath.Join(s.dir, txCachePrefix+address+".json")
}

func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal: %w", err)
	}
	// UTF-8 BOM for proper display in Windows
	utf8BOM := []byte{0xEF, 0xBB, 0xBF}
	if err := os.WriteFile(path, append(utf8BOM, data...), 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

func readFileStripBOM(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		data = data[3:]
	}
	return data, nil
}
