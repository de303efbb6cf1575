package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/furidngrt/octrawallet/internal/model"
)

// StatusQuerier is the slice of the RPC client the poller needs.
type StatusQuerier interface {
	QueryTransactionStatus(ctx context.Context, hash string) (model.TxStatusResult, error)
}

// PollerConfig tunes the pending-status polling loop. Zero values take the
// defaults: first check 5s after tracking, then every 10s, 30 attempts
// (about five minutes), 10s per query.
type PollerConfig struct {
	FirstDelay   time.Duration
	Interval     time.Duration
	MaxAttempts  int
	QueryTimeout time.Duration
}

type pollTask struct {
	timer *time.Timer
}

// Poller drives delayed status checks for pending transactions. Timers are
// address-and-hash scoped; tracking a hash again, or starting a new batch
// for an address, cancels the timers it replaces so the same hash is never
// polled twice concurrently. A transaction that exhausts its attempts is
// dropped silently and stays pending in the cache; a later full
// reconciliation may still pick it up.
type Poller struct {
	ledger *Ledger
	rpc    StatusQuerier
	cfg    PollerConfig

	mu    sync.Mutex
	tasks map[string]map[string]*pollTask // address -> hash -> task
}

// NewPoller creates a poller over the ledger and RPC client.
func NewPoller(l *Ledger, rpc StatusQuerier, cfg PollerConfig) *Poller {
	if cfg.FirstDelay <= 0 {
		cfg.FirstDelay = 5 * time.Second
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 10 * time.Second
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 30
	}
	if cfg.QueryTimeout <= 0 {
		cfg.QueryTimeout = 10 * time.Second
	}
	return &Poller{
		ledger: l,
		rpc:    rpc,
		cfg:    cfg,
		tasks:  make(map[string]map[string]*pollTask),
	}
}

// Track starts (or restarts) polling for one pending transaction.
func (p *Poller) Track(address, hash string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancelHashLocked(address, hash)
	p.scheduleLocked(address, hash, 1, p.cfg.FirstDelay)
}

// TrackBatch cancels every outstanding timer for address and starts a fresh
// poll for each given hash. Used after a full refresh so stale timers never
// overlap the new batch.
func (p *Poller) TrackBatch(address string, hashes []string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancelAddressLocked(address)
	for _, h := range hashes {
		p.scheduleLocked(address, h, 1, p.cfg.FirstDelay)
	}
}

// CancelAddress synchronously cancels all timers for address.
func (p *Poller) CancelAddress(address string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancelAddressLocked(address)
}

// CancelAll synchronously cancels every timer.
func (p *Poller) CancelAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for addr := range p.tasks {
		p.cancelAddressLocked(addr)
	}
}

// Tracking reports whether a poll is outstanding for the hash.
func (p *Poller) Tracking(address, hash string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tasks[address][hash] != nil
}

func (p *Poller) scheduleLocked(address, hash string, attempt int, delay time.Duration) {
	tk := &pollTask{}
	tk.timer = time.AfterFunc(delay, func() {
		p.check(address, hash, attempt, tk)
	})
	if p.tasks[address] == nil {
		p.tasks[address] = make(map[string]*pollTask)
	}
	p.tasks[address][hash] = tk
}

func (p *Poller) cancelHashLocked(address, hash string) {
	if tk := p.tasks[address][hash]; tk != nil {
		tk.timer.Stop()
		delete(p.tasks[address], hash)
	}
}

func (p *Poller) cancelAddressLocked(address string) {
	for _, tk := range p.tasks[address] {
		tk.timer.Stop()
	}
	delete(p.tasks, address)
}

func (p *Poller) check(address, hash string, attempt int, tk *pollTask) {
	p.mu.Lock()
	if p.tasks[address][hash] != tk {
		// Cancelled or replaced while the timer was firing.
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), p.cfg.QueryTimeout)
	res, err := p.rpc.QueryTransactionStatus(ctx, hash)
	cancel()

	if err == nil && (res.Status == model.RemoteStatusIncluded || res.Status == model.RemoteStatusFinalized) {
		if _, uerr := p.ledger.UpdateStatus(address, hash, model.TxStatusConfirmed, res.Epoch); uerr == nil {
			p.mu.Lock()
			if p.tasks[address][hash] == tk {
				delete(p.tasks[address], hash)
			}
			p.mu.Unlock()
			return
		}
		// Cache write failed; fall through and retry on the next tick.
	}

	// Transport errors, not_found and still-pending all reschedule.
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.tasks[address][hash] != tk {
		return
	}
	if attempt >= p.cfg.MaxAttempts {
		delete(p.tasks[address], hash)
		return
	}
	p.scheduleLocked(address, hash, attempt+1, p.cfg.Interval)
}
