package model

// TxStatus is the lifecycle status of a locally tracked transaction.
type TxStatus string

const (
	TxStatusPending   TxStatus = "pending"
	TxStatusConfirmed TxStatus = "confirmed"
	TxStatusFailed    TxStatus = "failed"
)

// TxPriority is the fee priority of a transaction.
type TxPriority string

const (
	PriorityNormal  TxPriority = "normal"
	PriorityExpress TxPriority = "express"
)

// NormalizePriority maps the naming variants seen on the wire onto the
// two-value enum. Anything unrecognized or missing becomes PriorityNormal.
func NormalizePriority(s string) TxPriority {
	switch s {
	case "express", "fast", "high":
		return PriorityExpress
	default:
		return PriorityNormal
	}
}

// StoredTransaction is one entry of the per-address transaction cache.
// Identity key is Hash. Amount is a display-unit decimal string; Timestamp
// is unix seconds as reported by the ledger (fractional for local sends).
type StoredTransaction struct {
	Hash          string     `json:"hash"`
	From          string     `json:"from"`
	To            string     `json:"to"`
	Amount        string     `json:"amount"`
	Nonce         uint64     `json:"nonce"`
	Priority      TxPriority `json:"priority"`
	Timestamp     float64    `json:"timestamp"`
	Epoch         *uint64    `json:"epoch,omitempty"`
	Status        TxStatus   `json:"status"`
	CreatedAt     int64      `json:"createdAt"`
	LastCheckedAt int64      `json:"lastCheckedAt"`
}

// RemoteStatus is a transaction status as reported by the RPC service.
type RemoteStatus string

const (
	RemoteStatusPending   RemoteStatus = "pending"
	RemoteStatusIncluded  RemoteStatus = "included"
	RemoteStatusFinalized RemoteStatus = "finalized"
	RemoteStatusNotFound  RemoteStatus = "not_found"
)

// TxStatusResult is the result of a single remote status query.
type TxStatusResult struct {
	Status RemoteStatus `json:"status"`
	Epoch  *uint64      `json:"epoch,omitempty"`
}

// RemoteTx is one entry of the remote transaction history. Amounts arrive
// in minor units; callers convert to display units on ingestion.
type RemoteTx struct {
	Hash       string  `json:"hash"`
	Epoch      *uint64 `json:"epoch,omitempty"`
	From       string  `json:"from"`
	To         string  `json:"to"`
	AmountRaw  string  `json:"amount_raw"`
	Timestamp  float64 `json:"timestamp"`
	Nonce      uint64  `json:"nonce"`
	Priority   string  `json:"priority,omitempty"`
}
