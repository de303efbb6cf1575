package wallet

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/furidngrt/octrawallet/internal/keycodec"
	"github.com/furidngrt/octrawallet/internal/model"
	"github.com/furidngrt/octrawallet/internal/txsigner"
)

// Send signs and submits a transfer: auto-unlock, nonce reservation,
// sign, submit, then an optimistic pending entry that the status poller
// watches. If the remote rejects the nonce, exactly one more attempt is
// made with a freshly reserved nonce; a second failure is surfaced.
func (s *Service) Send(ctx context.Context, to, amount string, express bool) (*model.SendResponse, error) {
	from, err := s.Address()
	if err != nil {
		return nil, err
	}
	if !keycodec.ValidateAddress(to) {
		return nil, fmt.Errorf("invalid recipient address")
	}

	entry := s.sessions.TryAutoUnlock(from)
	if entry == nil {
		return nil, model.ErrLocked
	}
	defer clear(entry.Priv)

	hash, n, ts, err := s.submitOnce(ctx, entry, from, to, amount)
	if err != nil && isNonceRejection(err) {
		hash, n, ts, err = s.submitOnce(ctx, entry, from, to, amount)
	}
	if err != nil {
		return nil, err
	}

	priority := model.PriorityNormal
	if express {
		priority = model.PriorityExpress
	}

	minor, err := txsigner.AmountToMinorUnits(amount)
	if err != nil {
		return nil, err
	}
	if _, err := s.ledger.Upsert(from, model.StoredTransaction{
		Hash:      hash,
		From:      from,
		To:        to,
		Amount:    txsigner.MinorUnitsToDisplay(minor),
		Nonce:     n,
		Priority:  priority,
		Timestamp: ts,
		Status:    model.TxStatusPending,
	}); err != nil {
		// The transaction is out; a cache failure must not mask the hash.
		return &model.SendResponse{TxHash: hash, Nonce: n}, nil
	}

	s.poller.Track(from, hash)
	return &model.SendResponse{TxHash: hash, Nonce: n}, nil
}

// submitOnce runs one reserve, sign and submit attempt. The reservation is
// released committed only after the remote accepted the transaction.
func (s *Service) submitOnce(ctx context.Context, entry *model.KeyEntry, from, to, amount string) (hash string, n uint64, ts float64, err error) {
	n, err = s.nonces.Reserve(ctx, from, s.rpc.FetchNonce)
	if err != nil {
		return "", 0, 0, err
	}

	ts = float64(time.Now().UnixMilli()) / 1000.0

	payload, err := txsigner.BuildPayload(from, to, amount, n, ts)
	if err != nil {
		s.nonces.Release(from, false)
		return "", 0, 0, err
	}

	sig, err := txsigner.Sign(hex.EncodeToString(entry.Priv), payload)
	if err != nil {
		s.nonces.Release(from, false)
		return "", 0, 0, err
	}

	hash, err = s.rpc.SubmitTransaction(ctx, txsigner.SignedTx{
		Payload:   payload,
		Signature: sig.Signature,
		PublicKey: sig.PublicKey,
	})
	if err != nil {
		s.nonces.Release(from, false)
		return "", 0, 0, err
	}

	s.nonces.Release(from, true)
	return hash, n, ts, nil
}

// isNonceRejection reports whether the remote refused the transaction over
// its nonce, the one rejection class worth a single fresh-nonce retry.
func isNonceRejection(err error) bool {
	if !model.IsRemoteRejected(err) {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "nonce")
}
