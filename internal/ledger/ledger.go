// Package ledger reconciles the locally cached transaction view with the
// remote ledger's authoritative results, and drives the pending-status
// polling loop.
package ledger

import (
	"fmt"
	"sort"
	"time"

	"github.com/furidngrt/octrawallet/internal/model"
	"github.com/furidngrt/octrawallet/internal/txsigner"
)

// MaxEntries is the per-address transaction cache cap.
const MaxEntries = 50

// TxStore persists per-address transaction caches.
type TxStore interface {
	LoadTxs(address string) ([]model.StoredTransaction, error)
	SaveTxs(address string, txs []model.StoredTransaction) error
}

// Ledger owns the per-address transaction caches.
type Ledger struct {
	store TxStore
	now   func() time.Time // override in tests
}

// New creates a ledger over the given store.
func New(store TxStore) *Ledger {
	return &Ledger{store: store, now: time.Now}
}

// Load returns the cached transactions for address.
func (l *Ledger) Load(address string) ([]model.StoredTransaction, error) {
	return l.store.LoadTxs(address)
}

// Upsert inserts or updates a transaction by hash and returns the resulting
// list. Updates preserve the existing CreatedAt and always refresh
// LastCheckedAt; priority is normalized to the two-value enum.
func (l *Ledger) Upsert(address string, tx model.StoredTransaction) ([]model.StoredTransaction, error) {
	txs, err := l.store.LoadTxs(address)
	if err != nil {
		return nil, fmt.Errorf("failed to load tx cache: %w", err)
	}

	now := l.now().Unix()
	tx.Priority = model.NormalizePriority(string(tx.Priority))
	tx.LastCheckedAt = now
	if tx.CreatedAt == 0 {
		tx.CreatedAt = now
	}

	replaced := false
	for i := range txs {
		if txs[i].Hash == tx.Hash {
			if txs[i].CreatedAt != 0 {
				tx.CreatedAt = txs[i].CreatedAt
			}
			txs[i] = tx
			replaced = true
			break
		}
	}
	if !replaced {
		txs = append(txs, tx)
	}

	txs = sortAndCap(txs)
	if err := l.store.SaveTxs(address, txs); err != nil {
		return nil, fmt.Errorf("failed to save tx cache: %w", err)
	}
	return txs, nil
}

// UpdateStatus patches status and epoch of a single record by hash. Unknown
// hashes are a no-op. A confirmed record never moves back to pending.
func (l *Ledger) UpdateStatus(address, hash string, status model.TxStatus, epoch *uint64) ([]model.StoredTransaction, error) {
	txs, err := l.store.LoadTxs(address)
	if err != nil {
		return nil, fmt.Errorf("failed to load tx cache: %w", err)
	}

	changed := false
	for i := range txs {
		if txs[i].Hash != hash {
			continue
		}
		if txs[i].Status == model.TxStatusConfirmed && status == model.TxStatusPending {
			break
		}
		txs[i].Status = status
		if epoch != nil {
			e := *epoch
			txs[i].Epoch = &e
		}
		txs[i].LastCheckedAt = l.now().Unix()
		changed = true
		break
	}
	if !changed {
		return txs, nil
	}

	if err := l.store.SaveTxs(address, txs); err != nil {
		return nil, fmt.Errorf("failed to save tx cache: %w", err)
	}
	return txs, nil
}

// Reconcile merges remote history results into the cache for address and
// persists the merged view.
func (l *Ledger) Reconcile(address string, remote []model.RemoteTx) ([]model.StoredTransaction, error) {
	local, err := l.store.LoadTxs(address)
	if err != nil {
		return nil, fmt.Errorf("failed to load tx cache: %w", err)
	}

	ingested := make([]model.StoredTransaction, 0, len(remote))
	for _, r := range remote {
		ingested = append(ingested, l.ingestRemote(r))
	}

	merged := Merge(local, ingested)
	if err := l.store.SaveTxs(address, merged); err != nil {
		return nil, fmt.Errorf("failed to save tx cache: %w", err)
	}
	return merged, nil
}

// ingestRemote normalizes one remote history entry at the boundary: amount
// to display units, priority to the enum, status to confirmed.
func (l *Ledger) ingestRemote(r model.RemoteTx) model.StoredTransaction {
	now := l.now().Unix()
	return model.StoredTransaction{
		Hash:          r.Hash,
		From:          r.From,
		To:            r.To,
		Amount:        txsigner.MinorUnitsToDisplay(r.AmountRaw),
		Nonce:         r.Nonce,
		Priority:      model.NormalizePriority(r.Priority),
		Timestamp:     r.Timestamp,
		Epoch:         r.Epoch,
		Status:        model.TxStatusConfirmed,
		CreatedAt:     now,
		LastCheckedAt: now,
	}
}

func sortAndCap(txs []model.StoredTransaction) []model.StoredTransaction {
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Timestamp > txs[j].Timestamp
	})
	if len(txs) > MaxEntries {
		txs = txs[:MaxEntries]
	}
	return txs
}
