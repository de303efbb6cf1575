package wallet

import (
	"context"

	"github.com/furidngrt/octrawallet/internal/model"
)

// Balance fetches the confirmed balance for the wallet address.
func (s *Service) Balance(ctx context.Context) (*model.BalanceResponse, error) {
	addr, err := s.Address()
	if err != nil {
		return nil, err
	}
	bal, err := s.rpc.FetchBalance(ctx, addr)
	if err != nil {
		return nil, err
	}
	return &model.BalanceResponse{Address: addr, Balance: bal}, nil
}

// History reconciles the local cache with the remote transaction history
// and restarts polling for entries still pending. A remote fetch failure is
// locally recoverable: the last-known cache is returned instead of an empty
// view.
func (s *Service) History(ctx context.Context) (*model.HistoryResponse, error) {
	addr, err := s.Address()
	if err != nil {
		return nil, err
	}

	remote, err := s.rpc.QueryTransactionHistory(ctx, addr, s.historyLimit)
	if err != nil {
		cached, lerr := s.ledger.Load(addr)
		if lerr != nil {
			return nil, err
		}
		return &model.HistoryResponse{Address: addr, Transactions: cached}, nil
	}

	merged, err := s.ledger.Reconcile(addr, remote)
	if err != nil {
		return nil, err
	}

	var pending []string
	for _, tx := range merged {
		if tx.Status == model.TxStatusPending {
			pending = append(pending, tx.Hash)
		}
	}
	s.poller.TrackBatch(addr, pending)

	return &model.HistoryResponse{Address: addr, Transactions: merged}, nil
}
