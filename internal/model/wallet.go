package model

// VaultFile represents the on-disk encrypted wallet record. Only salt, iv
// and ciphertext carry secret-derived data; the passphrase and the derived
// key are never written anywhere.
type VaultFile struct {
	Address    string `json:"address"`
	RPCHint    string `json:"rpcHint,omitempty"`
	QR         string `json:"QR,omitempty"`
	Salt       string `json:"salt"`
	IV         string `json:"iv"`
	CipherText string `json:"cipherText"`
	CreatedAt  string `json:"createdAt"`
	UpdatedAt  string `json:"updatedAt,omitempty"`
}

// KeyEntry is decrypted key material cached for an unlocked session.
// It lives only in process memory and never outlives the session.
type KeyEntry struct {
	Priv []byte
	Addr string
	RPC  string
}
