package ledger

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/furidngrt/octrawallet/internal/model"
)

// memStore is an in-memory TxStore for tests.
type memStore struct {
	mu   sync.Mutex
	data map[string][]model.StoredTransaction
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]model.StoredTransaction)}
}

func (m *memStore) LoadTxs(address string) ([]model.StoredTransaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.StoredTransaction, len(m.data[address]))
	copy(out, m.data[address])
	return out, nil
}

func (m *memStore) SaveTxs(address string, txs []model.StoredTransaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]model.StoredTransaction, len(txs))
	copy(cp, txs)
	m.data[address] = cp
	return nil
}

func TestUpsertInsertAndUpdate(t *testing.T) {
	l := New(newMemStore())
	addr := "octA"

	now := time.Unix(1000, 0)
	l.now = func() time.Time { return now }

	list, err := l.Upsert(addr, model.StoredTransaction{
		Hash: "h1", Amount: "1.0", Timestamp: 500, Status: model.TxStatusPending,
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if len(list) != 1 || list[0].CreatedAt != 1000 {
		t.Fatalf("insert wrong: %+v", list)
	}

	now = time.Unix(2000, 0)
	list, err = l.Upsert(addr, model.StoredTransaction{
		Hash: "h1", Amount: "1.0", Timestamp: 500, Status: model.TxStatusConfirmed,
	})
	if err != nil {
		t.Fatalf("upsert update: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("update duplicated record: %+v", list)
	}
	if list[0].CreatedAt != 1000 {
		t.Fatalf("CreatedAt not preserved on update: %d", list[0].CreatedAt)
	}
	if list[0].LastCheckedAt != 2000 {
		t.Fatalf("LastCheckedAt not refreshed: %d", list[0].LastCheckedAt)
	}
	if list[0].Status != model.TxStatusConfirmed {
		t.Fatalf("status not updated: %q", list[0].Status)
	}
}

func TestUpsertNormalizesPriority(t *testing.T) {
	l := New(newMemStore())

	list, err := l.Upsert("octA", model.StoredTransaction{Hash: "h1", Priority: "turbo"})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if list[0].Priority != model.PriorityNormal {
		t.Fatalf("unrecognized priority not normalized: %q", list[0].Priority)
	}

	list, err = l.Upsert("octA", model.StoredTransaction{Hash: "h2", Priority: "express"})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	for _, tx := range list {
		if tx.Hash == "h2" && tx.Priority != model.PriorityExpress {
			t.Fatalf("express priority lost: %q", tx.Priority)
		}
	}
}

func TestUpsertCapsAtFifty(t *testing.T) {
	l := New(newMemStore())
	addr := "octA"

	var list []model.StoredTransaction
	var err error
	for i := 0; i < 60; i++ {
		list, err = l.Upsert(addr, model.StoredTransaction{
			Hash:      fmt.Sprintf("h%02d", i),
			Timestamp: float64(i),
		})
		if err != nil {
			t.Fatalf("upsert %d: %v", i, err)
		}
	}

	if len(list) != MaxEntries {
		t.Fatalf("expected %d entries, got %d", MaxEntries, len(list))
	}
	for i := 1; i < len(list); i++ {
		if list[i-1].Timestamp < list[i].Timestamp {
			t.Fatalf("not sorted descending at %d", i)
		}
	}
	// The ten oldest entries were evicted.
	if list[len(list)-1].Hash != "h10" {
		t.Fatalf("unexpected oldest entry: %q", list[len(list)-1].Hash)
	}
}

func TestUpdateStatus(t *testing.T) {
	l := New(newMemStore())
	addr := "octA"

	if _, err := l.Upsert(addr, model.StoredTransaction{Hash: "h1", Status: model.TxStatusPending}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	epoch := uint64(7)
	list, err := l.UpdateStatus(addr, "h1", model.TxStatusConfirmed, &epoch)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if list[0].Status != model.TxStatusConfirmed || list[0].Epoch == nil || *list[0].Epoch != 7 {
		t.Fatalf("status/epoch not patched: %+v", list[0])
	}

	// Unknown hash is a no-op.
	list, err = l.UpdateStatus(addr, "nope", model.TxStatusFailed, nil)
	if err != nil {
		t.Fatalf("update unknown: %v", err)
	}
	if len(list) != 1 || list[0].Status != model.TxStatusConfirmed {
		t.Fatalf("no-op changed the cache: %+v", list)
	}

	// Confirmed never regresses to pending.
	list, err = l.UpdateStatus(addr, "h1", model.TxStatusPending, nil)
	if err != nil {
		t.Fatalf("update downgrade: %v", err)
	}
	if list[0].Status != model.TxStatusConfirmed {
		t.Fatalf("confirmed record downgraded: %+v", list[0])
	}
}

func TestReconcileIngestsRemote(t *testing.T) {
	l := New(newMemStore())
	addr := "oct1"

	epoch := uint64(3)
	merged, err := l.Reconcile(addr, []model.RemoteTx{
		{
			Hash: "h1", Epoch: &epoch, From: "oct1", To: "oct2",
			AmountRaw: "5000000", Timestamp: 1000, Nonce: 3,
		},
	})
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if len(merged) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(merged))
	}
	got := merged[0]
	if got.Status != model.TxStatusConfirmed {
		t.Fatalf("ingested entry not confirmed: %q", got.Status)
	}
	if got.Amount != "5.0" {
		t.Fatalf("minor units not converted for display: %q", got.Amount)
	}
	if got.Priority != model.PriorityNormal {
		t.Fatalf("missing priority not normalized: %q", got.Priority)
	}

	// Reconciling the same page again changes nothing material.
	again, err := l.Reconcile(addr, []model.RemoteTx{
		{Hash: "h1", Epoch: &epoch, From: "oct1", To: "oct2",
			AmountRaw: "5000000", Timestamp: 1000, Nonce: 3},
	})
	if err != nil {
		t.Fatalf("reconcile again: %v", err)
	}
	if len(again) != 1 || again[0].Status != model.TxStatusConfirmed || again[0].CreatedAt != got.CreatedAt {
		t.Fatalf("reconcile not stable: %+v", again)
	}
}

func TestReconcileZeroesMalformedAmount(t *testing.T) {
	l := New(newMemStore())

	merged, err := l.Reconcile("oct1", []model.RemoteTx{
		{Hash: "h1", From: "oct1", To: "oct2", AmountRaw: "abc", Timestamp: 1000, Nonce: 3},
	})
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if len(merged) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(merged))
	}
	if merged[0].Amount != "0.0" {
		t.Fatalf("malformed amount_raw leaked into cache: %q", merged[0].Amount)
	}
}
