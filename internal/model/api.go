package model

// ImportRequest represents request for POST /wallet/import
type ImportRequest struct {
	PrivateKey string `json:"privateKey" binding:"required"`
	Passphrase string `json:"passphrase" binding:"required"`
	RPCHint    string `json:"rpcHint,omitempty"`
}

// GenerateRequest represents request for POST /wallet/generate
type GenerateRequest struct {
	Passphrase string `json:"passphrase" binding:"required"`
}

// WalletResponse represents response for import/generate/unlock
type WalletResponse struct {
	Success      bool   `json:"success"`
	Address      string `json:"address,omitempty"`
	SessionToken string `json:"sessionToken,omitempty"`
}

// UnlockRequest represents request for POST /wallet/unlock
type UnlockRequest struct {
	Passphrase string `json:"passphrase" binding:"required"`
}

// ReencryptRequest represents request for POST /wallet/reencrypt
type ReencryptRequest struct {
	OldPassphrase string `json:"oldPassphrase" binding:"required"`
	NewPassphrase string `json:"newPassphrase" binding:"required"`
}

// SendRequest represents request for POST /wallet/send
type SendRequest struct {
	ToAddress string `json:"toAddress" binding:"required"`
	Amount    string `json:"amount" binding:"required"`
	Express   bool   `json:"express,omitempty"`
}

// SendResponse represents response for POST /wallet/send
type SendResponse struct {
	TxHash string `json:"txHash"`
	Nonce  uint64 `json:"nonce"`
}

// StatusResponse represents response for GET /wallet/status
type StatusResponse struct {
	HasWallet bool   `json:"hasWallet"`
	Address   string `json:"address,omitempty"`
	Unlocked  bool   `json:"unlocked"`
	QR        string `json:"qr,omitempty"`
}

// BalanceResponse represents response for GET /wallet/balance
type BalanceResponse struct {
	Address string `json:"address"`
	Balance string `json:"balance"`
}

// HistoryResponse represents response for GET /wallet/transactions
type HistoryResponse struct {
	Address      string              `json:"address"`
	Transactions []StoredTransaction `json:"transactions"`
}
