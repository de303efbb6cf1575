package ledger

import "github.com/furidngrt/octrawallet/internal/model"

// Merge reconciles a local cache with remote query results.
//
// The merge is deliberately asymmetric. Remote results are authoritative on
// presence: every remote entry comes out confirmed. Local records are
// authoritative on absence: remote result sets are bounded and
// recency-windowed, so a confirmed record missing from a remote page stays
// confirmed and never flickers back to pending. Pending and failed
// locals absent from the remote set are likewise kept as-is.
//
// The output is deduplicated by hash, sorted by timestamp descending and
// capped at MaxEntries.
func Merge(local, remote []model.StoredTransaction) []model.StoredTransaction {
	byHash := make(map[string]model.StoredTransaction, len(local))
	for _, tx := range local {
		byHash[tx.Hash] = tx
	}

	out := make([]model.StoredTransaction, 0, len(local)+len(remote))
	seen := make(map[string]bool, len(remote))

	for _, r := range remote {
		r.Status = model.TxStatusConfirmed
		if prev, ok := byHash[r.Hash]; ok {
			// Remote pages may omit priority; the locally recorded value
			// survives, as does the original CreatedAt.
			if prev.Priority != "" {
				r.Priority = prev.Priority
			}
			if prev.CreatedAt != 0 {
				r.CreatedAt = prev.CreatedAt
			}
			if r.Epoch == nil {
				r.Epoch = prev.Epoch
			}
		}
		if !seen[r.Hash] {
			out = append(out, r)
			seen[r.Hash] = true
		}
	}

	for _, tx := range local {
		if !seen[tx.Hash] {
			out = append(out, tx)
			seen[tx.Hash] = true
		}
	}

	return sortAndCap(out)
}
