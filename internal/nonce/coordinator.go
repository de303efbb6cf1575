// Package nonce serializes nonce acquisition per address so concurrent send
// attempts never reuse or skip a nonce.
//
// The remote ledger is the source of truth for the last confirmed nonce,
// but between reservation and confirmation its view is stale; taking
// max(remote, locally tracked) closes that window for a single process.
// Concurrent sends from other tabs or devices are a documented limitation.
package nonce

import (
	"context"
	"fmt"
	"sync"

	"github.com/furidngrt/octrawallet/internal/model"
)

type addrState struct {
	current uint64  // highest nonce known committed or reserved-and-committed
	pending *uint64 // the reserved nonce, non-nil only while locked
	locked  bool
}

// FetchFunc returns the remote ledger's confirmed transaction count for an
// address.
type FetchFunc func(ctx context.Context, address string) (uint64, error)

// Coordinator tracks per-address nonce state. At most one reservation may be
// outstanding per address at any time.
type Coordinator struct {
	mu    sync.Mutex
	state map[string]*addrState
}

// NewCoordinator creates an empty coordinator.
func NewCoordinator() *Coordinator {
	return &Coordinator{state: make(map[string]*addrState)}
}

// Reserve acquires the next nonce for address. It fails with
// ErrTransactionInProgress if a reservation is already outstanding. On
// success the reserved nonce is max(remote, local)+1 and the address stays
// Reserved until Release. A failed remote fetch reverts to Idle.
func (c *Coordinator) Reserve(ctx context.Context, address string, fetch FetchFunc) (uint64, error) {
	c.mu.Lock()
	st, ok := c.state[address]
	if !ok {
		st = &addrState{}
		c.state[address] = st
	}
	if st.locked {
		c.mu.Unlock()
		return 0, model.ErrTransactionInProgress
	}
	// Lock the window before the remote call so a second Reserve issued
	// while the fetch is in flight fails instead of racing.
	st.locked = true
	c.mu.Unlock()

	remote, err := fetch(ctx, address)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		st.locked = false
		return 0, fmt.Errorf("failed to fetch remote nonce: %w", err)
	}

	base := st.current
	if remote > base {
		base = remote
	}
	reserved := base + 1
	st.pending = &reserved
	return reserved, nil
}

// Release ends the reservation for address. With committed=true the locally
// tracked nonce advances to the reserved value, so a follow-up reservation
// behaves correctly even against a stale remote view.
func (c *Coordinator) Release(address string, committed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := c.state[address]
	if st == nil {
		return
	}
	if committed && st.pending != nil && *st.pending > st.current {
		st.current = *st.pending
	}
	st.pending = nil
	st.locked = false
}

// Reserved reports whether address currently has an outstanding reservation.
func (c *Coordinator) Reserved(address string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := c.state[address]
	return st != nil && st.locked
}

// Clear drops all state for address.
func (c *Coordinator) Clear(address string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.state, address)
}

// ClearAll drops all state for every address.
func (c *Coordinator) ClearAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = make(map[string]*addrState)
}
