package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strings"

	"golang.org/x/time/rate"

	"github.com/furidngrt/octrawallet/internal/model"
	"github.com/furidngrt/octrawallet/wallet"
)

// WalletHandler exposes the wallet engine over HTTP.
type WalletHandler struct {
	svc         *wallet.Service
	sendLimiter *rate.Limiter
}

// NewWalletHandler creates a WalletHandler. sendPerMinute caps how many
// send requests are accepted per minute; zero or negative disables the cap.
func NewWalletHandler(svc *wallet.Service, sendPerMinute int) *WalletHandler {
	var limiter *rate.Limiter
	if sendPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(sendPerMinute)/60.0), sendPerMinute)
	}
	return &WalletHandler{svc: svc, sendLimiter: limiter}
}

// Import handles POST /wallet/import
// @Summary      Import wallet
// @Description  Imports an Ed25519 private key, encrypts it at rest and opens an unlock session
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        request  body      model.ImportRequest  true  "Key and passphrase"
// @Success      200      {object}  model.WalletResponse
// @Router       /wallet/import [post]
func (h *WalletHandler) Import(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	resp, err := h.svc.Import(req.PrivateKey, req.Passphrase, req.RPCHint)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Generate handles POST /wallet/generate
// @Summary      Generate new wallet
// @Description  Generates a fresh Ed25519 wallet, encrypts it at rest and opens an unlock session
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        request  body      model.GenerateRequest  true  "Passphrase"
// @Success      200      {object}  model.WalletResponse
// @Router       /wallet/generate [post]
func (h *WalletHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	resp, err := h.svc.Generate(req.Passphrase)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Unlock handles POST /wallet/unlock
// @Summary      Unlock wallet
// @Description  Decrypts the stored vault with the passphrase and opens an unlock session
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        request  body      model.UnlockRequest  true  "Passphrase"
// @Success      200      {object}  model.WalletResponse
// @Router       /wallet/unlock [post]
func (h *WalletHandler) Unlock(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.UnlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	resp, err := h.svc.Unlock(req.Passphrase)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Reencrypt handles POST /wallet/reencrypt
// @Summary      Change vault passphrase
// @Description  Re-encrypts the stored vault under a new passphrase with a fresh salt and iv
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        request  body      model.ReencryptRequest  true  "Old and new passphrase"
// @Success      200      {object}  model.WalletResponse
// @Router       /wallet/reencrypt [post]
func (h *WalletHandler) Reencrypt(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.ReencryptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	resp, err := h.svc.Reencrypt(req.OldPassphrase, req.NewPassphrase)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Lock handles POST /wallet/lock
// @Summary      Lock wallet
// @Description  Drops the unlock session and wipes cached key material; the vault stays on disk
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.WalletResponse
// @Router       /wallet/lock [post]
func (h *WalletHandler) Lock(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	if err := h.svc.Lock(); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, model.WalletResponse{Success: true})
}

// Logout handles POST /wallet/logout
// @Summary      Log out
// @Description  Wipes the session, the local transaction cache and the vault file
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.WalletResponse
// @Router       /wallet/logout [post]
func (h *WalletHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	if err := h.svc.Logout(); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, model.WalletResponse{Success: true})
}

// Send handles POST /wallet/send
// @Summary      Send transaction
// @Description  Signs and submits a transaction; requires a Bearer session token and an unlocked wallet
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        Authorization  header    string             true  "Bearer session token"
// @Param        request        body      model.SendRequest  true  "Recipient, amount and priority"
// @Success      200            {object}  model.SendResponse
// @Router       /wallet/send [post]
func (h *WalletHandler) Send(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	if !h.authorize(w, r) {
		return
	}
	if h.sendLimiter != nil && !h.sendLimiter.Allow() {
		writeError(w, http.StatusTooManyRequests, errors.New("send rate limit exceeded, try again later"))
		return
	}

	var req model.SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	resp, err := h.svc.Send(r.Context(), req.ToAddress, req.Amount, req.Express)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Status handles GET /wallet/status
// @Summary      Get wallet status
// @Description  Reports whether a wallet exists on this device and whether it is unlocked
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.StatusResponse
// @Router       /wallet/status [get]
func (h *WalletHandler) Status(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	resp, err := h.svc.Status()
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetBalance handles GET /wallet/balance
// @Summary      Get wallet balance
// @Description  Gets the confirmed balance from the RPC service
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.BalanceResponse
// @Router       /wallet/balance [get]
func (h *WalletHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	resp, err := h.svc.Balance(r.Context())
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// TransactionHistory handles GET /wallet/transactions
// @Summary      Get wallet transactions
// @Description  Gets the merged local/remote transaction history, newest first
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.HistoryResponse
// @Router       /wallet/transactions [get]
func (h *WalletHandler) TransactionHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	resp, err := h.svc.History(r.Context())
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// authorize checks the Bearer session token and that it matches the stored
// wallet. Writes the error response itself and returns false on failure.
func (h *WalletHandler) authorize(w http.ResponseWriter, r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(auth, "Bearer ")
	if !ok || token == "" {
		writeError(w, http.StatusUnauthorized, errors.New("missing bearer token"))
		return false
	}

	addr, err := h.svc.VerifyToken(token)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return false
	}
	current, err := h.svc.Address()
	if err != nil || addr != current {
		writeError(w, http.StatusUnauthorized, errors.New("token does not match the stored wallet"))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, model.ErrorResponse{Error: err.Error(), Code: http.StatusText(status)})
}

// statusFor maps engine errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrWeakPassphrase),
		errors.Is(err, model.ErrInvalidKeyFormat),
		errors.Is(err, model.ErrInvalidAmount):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrDecryptionFailed),
		errors.Is(err, model.ErrLocked):
		return http.StatusUnauthorized
	case errors.Is(err, model.ErrNoWallet):
		return http.StatusNotFound
	case errors.Is(err, model.ErrTransactionInProgress),
		errors.Is(err, os.ErrExist):
		return http.StatusConflict
	case model.IsRemoteRejected(err):
		return http.StatusUnprocessableEntity
	case model.IsTransportError(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
