// Package session holds the unlock state of the wallet: a time-bounded
// session record per address plus the decrypted key material cached for it.
// Nothing here is ever persisted; locking the process loses all of it.
package session

import (
	"sync"
	"time"

	"github.com/furidngrt/octrawallet/internal/model"
)

// DefaultTTL is the session lifetime used when the caller does not override it.
const DefaultTTL = time.Hour

// UnlockSession is the record backing one unlocked address.
type UnlockSession struct {
	Address string
	Expiry  time.Time
}

// Cache is the in-memory session + decrypted-key store. All state is keyed
// by address; Lock removes one address, Logout removes everything.
type Cache struct {
	mu       sync.Mutex
	sessions map[string]*UnlockSession
	keys     map[string]*model.KeyEntry

	now func() time.Time // override in tests
}

// NewCache creates an empty session cache.
func NewCache() *Cache {
	return &Cache{
		sessions: make(map[string]*UnlockSession),
		keys:     make(map[string]*model.KeyEntry),
		now:      time.Now,
	}
}

// CreateSession stores a session for address expiring after ttl and pairs it
// with the decrypted key entry. The caller keeps ownership of entry.Priv;
// the cache stores its own copy.
func (c *Cache) CreateSession(address string, ttl time.Duration, entry *model.KeyEntry) *UnlockSession {
	if ttl <= 0 || ttl > DefaultTTL {
		ttl = DefaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	s := &UnlockSession{Address: address, Expiry: c.now().Add(ttl)}
	c.sessions[address] = s

	priv := make([]byte, len(entry.Priv))
	copy(priv, entry.Priv)
	c.keys[address] = &model.KeyEntry{Priv: priv, Addr: entry.Addr, RPC: entry.RPC}
	return s
}

// TryAutoUnlock returns the cached key for address if a live session exists
// whose address matches the cached entry. Every failure mode returns nil:
// the caller falls back to prompting for the passphrase.
func (c *Cache) TryAutoUnlock(address string) *model.KeyEntry {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.sessions[address]
	if s == nil || !c.now().Before(s.Expiry) {
		// Expired sessions are dropped eagerly so the key material does
		// not linger past the validity window.
		c.dropLocked(address)
		return nil
	}

	entry := c.keys[address]
	if entry == nil || entry.Addr != s.Address {
		return nil
	}

	priv := make([]byte, len(entry.Priv))
	copy(priv, entry.Priv)
	return &model.KeyEntry{Priv: priv, Addr: entry.Addr, RPC: entry.RPC}
}

// Session returns the live session for address, or nil.
func (c *Cache) Session(address string) *UnlockSession {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.sessions[address]
	if s == nil || !c.now().Before(s.Expiry) {
		return nil
	}
	cp := *s
	return &cp
}

// Lock clears the session and key material for one address. The encrypted
// vault on disk is untouched.
func (c *Cache) Lock(address string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dropLocked(address)
}

// Logout clears every session and key entry.
func (c *Cache) Logout() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for addr := range c.sessions {
		delete(c.sessions, addr)
	}
	for addr, entry := range c.keys {
		clear(entry.Priv)
		delete(c.keys, addr)
	}
}

func (c *Cache) dropLocked(address string) {
	delete(c.sessions, address)
	if entry := c.keys[address]; entry != nil {
		clear(entry.Priv)
		delete(c.keys, address)
	}
}
