package ledger

import (
	"reflect"
	"testing"

	"github.com/furidngrt/octrawallet/internal/model"
)

func tx(hash string, ts float64, status model.TxStatus) model.StoredTransaction {
	return model.StoredTransaction{
		Hash:      hash,
		From:      "oct1",
		To:        "oct2",
		Amount:    "1.0",
		Priority:  model.PriorityNormal,
		Timestamp: ts,
		Status:    status,
		CreatedAt: 100,
	}
}

func TestMergeRemoteIsAuthoritative(t *testing.T) {
	local := []model.StoredTransaction{tx("a", 10, model.TxStatusPending)}
	remote := []model.StoredTransaction{tx("a", 10, model.TxStatusPending)} // status ignored

	got := Merge(local, remote)
	if len(got) != 1 || got[0].Status != model.TxStatusConfirmed {
		t.Fatalf("remote entry not confirmed: %+v", got)
	}
}

func TestMergeNeverRegressesConfirmed(t *testing.T) {
	local := []model.StoredTransaction{tx("a", 10, model.TxStatusConfirmed)}

	got := Merge(local, nil)
	if len(got) != 1 || got[0].Hash != "a" || got[0].Status != model.TxStatusConfirmed {
		t.Fatalf("confirmed record lost on merge with empty remote: %+v", got)
	}
}

func TestMergeKeepsLocalPendingAndFailed(t *testing.T) {
	local := []model.StoredTransaction{
		tx("p", 20, model.TxStatusPending),
		tx("f", 10, model.TxStatusFailed),
	}
	remote := []model.StoredTransaction{tx("r", 30, model.TxStatusConfirmed)}

	got := Merge(local, remote)
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	byHash := map[string]model.TxStatus{}
	for _, e := range got {
		byHash[e.Hash] = e.Status
	}
	if byHash["p"] != model.TxStatusPending || byHash["f"] != model.TxStatusFailed || byHash["r"] != model.TxStatusConfirmed {
		t.Fatalf("statuses wrong: %v", byHash)
	}
}

func TestMergePreservesPriorityAndCreatedAt(t *testing.T) {
	l := tx("a", 10, model.TxStatusPending)
	l.Priority = model.PriorityExpress
	l.CreatedAt = 42

	r := tx("a", 10, model.TxStatusConfirmed)
	r.Priority = model.PriorityNormal // remote omitted it; normalized default
	r.CreatedAt = 999

	got := Merge([]model.StoredTransaction{l}, []model.StoredTransaction{r})
	if len(got) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(got))
	}
	if got[0].Priority != model.PriorityExpress {
		t.Fatalf("local priority not preserved: %q", got[0].Priority)
	}
	if got[0].CreatedAt != 42 {
		t.Fatalf("local CreatedAt not preserved: %d", got[0].CreatedAt)
	}
}

func TestMergeIdempotent(t *testing.T) {
	local := []model.StoredTransaction{
		tx("a", 10, model.TxStatusConfirmed),
		tx("b", 20, model.TxStatusPending),
	}
	remote := []model.StoredTransaction{
		tx("b", 20, model.TxStatusConfirmed),
		tx("c", 30, model.TxStatusConfirmed),
	}

	once := Merge(local, remote)
	twice := Merge(once, remote)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("merge not idempotent:\n once %+v\ntwice %+v", once, twice)
	}
}

func TestMergeSortsAndCaps(t *testing.T) {
	var local, remote []model.StoredTransaction
	for i := 0; i < 40; i++ {
		local = append(local, tx(hashN("l", i), float64(i), model.TxStatusConfirmed))
	}
	for i := 0; i < 40; i++ {
		remote = append(remote, tx(hashN("r", i), float64(100+i), model.TxStatusConfirmed))
	}

	got := Merge(local, remote)
	if len(got) != MaxEntries {
		t.Fatalf("expected cap at %d, got %d", MaxEntries, len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].Timestamp < got[i].Timestamp {
			t.Fatalf("not sorted descending at %d", i)
		}
	}
	// The newest entries are the remote ones; after the cap the oldest
	// locals are gone.
	if got[0].Timestamp != 139 {
		t.Fatalf("newest entry wrong: %v", got[0].Timestamp)
	}
}

func hashN(prefix string, n int) string {
	return prefix + string(rune('A'+n/26)) + string(rune('A'+n%26))
}
