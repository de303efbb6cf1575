package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/furidngrt/octrawallet/internal/model"
)

// scriptedQuerier returns pre-programmed results per hash, in order,
// repeating the last one once the script runs out.
type scriptedQuerier struct {
	mu      sync.Mutex
	scripts map[string][]model.TxStatusResult
	errs    map[string]error
	calls   map[string]int
}

func newScriptedQuerier() *scriptedQuerier {
	return &scriptedQuerier{
		scripts: make(map[string][]model.TxStatusResult),
		errs:    make(map[string]error),
		calls:   make(map[string]int),
	}
}

func (q *scriptedQuerier) QueryTransactionStatus(ctx context.Context, hash string) (model.TxStatusResult, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.calls[hash]++
	if err := q.errs[hash]; err != nil {
		return model.TxStatusResult{}, err
	}
	script := q.scripts[hash]
	if len(script) == 0 {
		return model.TxStatusResult{Status: model.RemoteStatusNotFound}, nil
	}
	res := script[0]
	if len(script) > 1 {
		q.scripts[hash] = script[1:]
	}
	return res, nil
}

func (q *scriptedQuerier) callCount(hash string) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.calls[hash]
}

func fastConfig(maxAttempts int) PollerConfig {
	return PollerConfig{
		FirstDelay:   2 * time.Millisecond,
		Interval:     2 * time.Millisecond,
		MaxAttempts:  maxAttempts,
		QueryTimeout: time.Second,
	}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestPollerConfirmsOnIncluded(t *testing.T) {
	store := newMemStore()
	l := New(store)
	addr := "octA"
	if _, err := l.Upsert(addr, model.StoredTransaction{Hash: "h1", Status: model.TxStatusPending}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	epoch := uint64(12)
	q := newScriptedQuerier()
	q.scripts["h1"] = []model.TxStatusResult{
		{Status: model.RemoteStatusNotFound},
		{Status: model.RemoteStatusPending},
		{Status: model.RemoteStatusIncluded, Epoch: &epoch},
	}

	p := NewPoller(l, q, fastConfig(30))
	defer p.CancelAll()
	p.Track(addr, "h1")

	waitFor(t, "confirmation", func() bool {
		txs, _ := l.Load(addr)
		return len(txs) == 1 && txs[0].Status == model.TxStatusConfirmed
	})

	txs, _ := l.Load(addr)
	if txs[0].Epoch == nil || *txs[0].Epoch != 12 {
		t.Fatalf("epoch not recorded: %+v", txs[0])
	}

	waitFor(t, "poll to stop", func() bool { return !p.Tracking(addr, "h1") })
	calls := q.callCount("h1")
	time.Sleep(20 * time.Millisecond)
	if q.callCount("h1") != calls {
		t.Fatal("poller kept querying after confirmation")
	}
}

func TestPollerGivesUpSilently(t *testing.T) {
	store := newMemStore()
	l := New(store)
	addr := "octA"
	if _, err := l.Upsert(addr, model.StoredTransaction{Hash: "h1", Status: model.TxStatusPending}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	q := newScriptedQuerier() // always not_found
	p := NewPoller(l, q, fastConfig(3))
	defer p.CancelAll()
	p.Track(addr, "h1")

	waitFor(t, "give-up", func() bool {
		return q.callCount("h1") >= 3 && !p.Tracking(addr, "h1")
	})

	txs, _ := l.Load(addr)
	if txs[0].Status != model.TxStatusPending {
		t.Fatalf("give-up should leave the record pending: %q", txs[0].Status)
	}
	if q.callCount("h1") > 3 {
		t.Fatalf("more attempts than allowed: %d", q.callCount("h1"))
	}
}

func TestPollerReschedulesOnTransportError(t *testing.T) {
	store := newMemStore()
	l := New(store)
	addr := "octA"
	if _, err := l.Upsert(addr, model.StoredTransaction{Hash: "h1", Status: model.TxStatusPending}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	q := newScriptedQuerier()
	q.errs["h1"] = errors.New("rpc down")

	p := NewPoller(l, q, fastConfig(30))
	defer p.CancelAll()
	p.Track(addr, "h1")

	waitFor(t, "retries", func() bool { return q.callCount("h1") >= 3 })
	if !p.Tracking(addr, "h1") {
		t.Fatal("transport errors must reschedule, not give up early")
	}
}

func TestCancelAddressStopsPolling(t *testing.T) {
	l := New(newMemStore())
	q := newScriptedQuerier()

	cfg := fastConfig(30)
	cfg.FirstDelay = 50 * time.Millisecond
	p := NewPoller(l, q, cfg)
	defer p.CancelAll()

	p.Track("octA", "h1")
	p.Track("octA", "h2")
	p.CancelAddress("octA")

	time.Sleep(80 * time.Millisecond)
	if q.callCount("h1") != 0 || q.callCount("h2") != 0 {
		t.Fatal("cancelled timers still fired")
	}
	if p.Tracking("octA", "h1") || p.Tracking("octA", "h2") {
		t.Fatal("cancelled hashes still tracked")
	}
}

func TestTrackBatchReplacesTimers(t *testing.T) {
	l := New(newMemStore())
	q := newScriptedQuerier()

	cfg := fastConfig(30)
	cfg.FirstDelay = 50 * time.Millisecond
	p := NewPoller(l, q, cfg)
	defer p.CancelAll()

	p.Track("octA", "old")
	p.TrackBatch("octA", []string{"new1", "new2"})

	if p.Tracking("octA", "old") {
		t.Fatal("batch start left the old timer in place")
	}
	if !p.Tracking("octA", "new1") || !p.Tracking("octA", "new2") {
		t.Fatal("batch hashes not tracked")
	}

	time.Sleep(80 * time.Millisecond)
	if q.callCount("old") != 0 {
		t.Fatal("replaced timer still fired")
	}
}
