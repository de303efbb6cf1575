// Package client talks to the remote Octra RPC service. It is a thin I/O
// wrapper: responses are decoded and surfaced, never interpreted.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/furidngrt/octrawallet/internal/model"
	"github.com/furidngrt/octrawallet/internal/txsigner"
)

const defaultTimeout = 15 * time.Second

// Client is a client for the Octra RPC service.
type Client struct {
	baseURL string
	client  *http.Client
}

// New creates a client for the given RPC base URL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

type balanceResponse struct {
	Balance string `json:"balance"`
	Nonce   uint64 `json:"nonce"`
}

// FetchNonce gets the current confirmed transaction count for address.
func (c *Client) FetchNonce(ctx context.Context, address string) (uint64, error) {
	var resp balanceResponse
	if err := c.getJSON(ctx, "fetch nonce", "/balance/"+url.PathEscape(address), &resp); err != nil {
		return 0, err
	}
	return resp.Nonce, nil
}

// FetchBalance gets the confirmed balance for address as a decimal string.
func (c *Client) FetchBalance(ctx context.Context, address string) (string, error) {
	var resp balanceResponse
	if err := c.getJSON(ctx, "fetch balance", "/balance/"+url.PathEscape(address), &resp); err != nil {
		return "", err
	}
	return resp.Balance, nil
}

type submitResponse struct {
	TxHash string `json:"tx_hash"`
	Status string `json:"status"`
	Error  string `json:"error"`
}

// SubmitTransaction posts a signed transaction and returns its hash.
// Transport failures come back as TransportError; remote validation
// failures as RemoteRejected with the remote message verbatim.
func (c *Client) SubmitTransaction(ctx context.Context, tx txsigner.SignedTx) (string, error) {
	body, err := json.Marshal(tx)
	if err != nil {
		return "", fmt.Errorf("failed to marshal transaction: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/send-tx", bytes.NewReader(body))
	if err != nil {
		return "", &model.TransportError{Op: "submit transaction", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &model.TransportError{Op: "submit transaction", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &model.TransportError{Op: "submit transaction", Err: err}
	}

	var sr submitResponse
	if err := json.Unmarshal(raw, &sr); err != nil {
		return "", &model.TransportError{Op: "submit transaction",
			Err: fmt.Errorf("malformed response (status %d): %w", resp.StatusCode, err)}
	}

	if resp.StatusCode != http.StatusOK || sr.TxHash == "" {
		msg := sr.Error
		if msg == "" {
			msg = fmt.Sprintf("remote rejected transaction (status %d)", resp.StatusCode)
		}
		return "", &model.RemoteRejected{Message: msg}
	}
	return sr.TxHash, nil
}

// QueryTransactionStatus asks for the current status of a transaction.
// 404 means the ledger does not know the hash (yet) and is not an error.
func (c *Client) QueryTransactionStatus(ctx context.Context, hash string) (model.TxStatusResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/tx/"+url.PathEscape(hash), nil)
	if err != nil {
		return model.TxStatusResult{}, &model.TransportError{Op: "query status", Err: err}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return model.TxStatusResult{}, &model.TransportError{Op: "query status", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return model.TxStatusResult{Status: model.RemoteStatusNotFound}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return model.TxStatusResult{}, &model.TransportError{Op: "query status",
			Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	var out model.TxStatusResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return model.TxStatusResult{}, &model.TransportError{Op: "query status", Err: err}
	}
	return out, nil
}

type historyResponse struct {
	RecentTransactions []model.RemoteTx `json:"recent_transactions"`
}

// QueryTransactionHistory fetches up to limit recent transactions touching
// address. The service filters to from==address OR to==address; amounts
// arrive in minor units.
func (c *Client) QueryTransactionHistory(ctx context.Context, address string, limit int) ([]model.RemoteTx, error) {
	path := "/address/" + url.PathEscape(address) + "?limit=" + strconv.Itoa(limit)
	var resp historyResponse
	if err := c.getJSON(ctx, "query history", path, &resp); err != nil {
		return nil, err
	}
	return resp.RecentTransactions, nil
}

func (c *Client) getJSON(ctx context.Context, op, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return &model.TransportError{Op: op, Err: err}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &model.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &model.TransportError{Op: op, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &model.TransportError{Op: op, Err: fmt.Errorf("malformed response: %w", err)}
	}
	return nil
}
