package model

import "errors"

// Sentinel errors for the wallet engine. Handlers map these to HTTP codes;
// library packages wrap them with context via fmt.Errorf("...: %w", err).
var (
	ErrInvalidKeyFormat      = errors.New("invalid private key format")
	ErrInvalidAmount         = errors.New("invalid amount")
	ErrWeakPassphrase        = errors.New("passphrase must be at least 8 characters")
	ErrDecryptionFailed      = errors.New("decryption failed")
	ErrTransactionInProgress = errors.New("transaction already in progress for this address")
	ErrNoWallet              = errors.New("no wallet found")
	ErrLocked                = errors.New("wallet is locked")
)

// TransportError indicates the remote RPC service could not be reached or
// returned a malformed response. Callers treat it as locally recoverable.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return "transport error during " + e.Op + ": " + e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsTransportError checks if error is a TransportError
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// RemoteRejected indicates the remote RPC service accepted the request but
// rejected the transaction. The remote message is passed through verbatim.
type RemoteRejected struct {
	Message string
}

func (e *RemoteRejected) Error() string { return e.Message }

// IsRemoteRejected checks if error is a RemoteRejected
func IsRemoteRejected(err error) bool {
	var rr *RemoteRejected
	return errors.As(err, &rr)
}

// ErrorResponse is the consistent JSON structure for all API error responses.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
