// Package wallet is the service layer tying the state engine together:
// vault, sessions, nonce coordination, signing, submission and ledger
// reconciliation. Handlers call into it; it owns the component lifecycles.
package wallet

import (
	"errors"
	"fmt"
	"time"

	"github.com/furidngrt/octrawallet/internal/client"
	"github.com/furidngrt/octrawallet/internal/ledger"
	"github.com/furidngrt/octrawallet/internal/model"
	"github.com/furidngrt/octrawallet/internal/nonce"
	"github.com/furidngrt/octrawallet/internal/session"
	"github.com/furidngrt/octrawallet/internal/storage"
)

// Options configures a Service. Zero values take defaults.
type Options struct {
	DataDir      string
	RPCURL       string
	SessionTTL   time.Duration
	HistoryLimit int
	Poll         ledger.PollerConfig
}

// Service is the wallet engine facade.
type Service struct {
	store    *storage.Store
	rpc      *client.Client
	sessions *session.Cache
	tokens   *session.TokenIssuer
	nonces   *nonce.Coordinator
	ledger   *ledger.Ledger
	poller   *ledger.Poller

	sessionTTL   time.Duration
	historyLimit int
}

// NewService wires up all engine components.
func NewService(opts Options) (*Service, error) {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = session.DefaultTTL
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = ledger.MaxEntries
	}

	store, err := storage.New(opts.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	tokens, err := session.NewTokenIssuer("octrawallet")
	if err != nil {
		return nil, fmt.Errorf("failed to create token issuer: %w", err)
	}

	rpc := client.New(opts.RPCURL)
	led := ledger.New(store)

	return &Service{
		store:        store,
		rpc:          rpc,
		sessions:     session.NewCache(),
		tokens:       tokens,
		nonces:       nonce.NewCoordinator(),
		ledger:       led,
		poller:       ledger.NewPoller(led, rpc, opts.Poll),
		sessionTTL:   opts.SessionTTL,
		historyLimit: opts.HistoryLimit,
	}, nil
}

// Address returns the imported wallet's address, or ErrNoWallet.
func (s *Service) Address() (string, error) {
	v, err := s.store.LoadVault()
	if err != nil {
		return "", err
	}
	return v.Address, nil
}

// VerifyToken checks an HTTP session token and returns the bound address.
// The address must still hold a live unlock session to use key material.
func (s *Service) VerifyToken(token string) (string, error) {
	return s.tokens.Verify(token)
}

// Status reports whether a wallet exists on this device and whether an
// unlock session is live for it. Safe to call with no wallet imported.
func (s *Service) Status() (*model.StatusResponse, error) {
	v, err := s.store.LoadVault()
	if errors.Is(err, model.ErrNoWallet) {
		return &model.StatusResponse{}, nil
	}
	if err != nil {
		return nil, err
	}
	return &model.StatusResponse{
		HasWallet: true,
		Address:   v.Address,
		Unlocked:  s.sessions.Session(v.Address) != nil,
		QR:        v.QR,
	}, nil
}

// Unlocked reports whether a live session exists for the wallet address.
func (s *Service) Unlocked() bool {
	addr, err := s.Address()
	if err != nil {
		return false
	}
	return s.sessions.Session(addr) != nil
}

// Close cancels all background polling. Safe to call more than once.
func (s *Service) Close() {
	s.poller.CancelAll()
}

func (s *Service) openSession(entry *model.KeyEntry) (string, error) {
	sess := s.sessions.CreateSession(entry.Addr, s.sessionTTL, entry)
	token, err := s.tokens.Issue(entry.Addr, sess.Expiry)
	if err != nil {
		return "", fmt.Errorf("failed to issue session token: %w", err)
	}
	return token, nil
}
