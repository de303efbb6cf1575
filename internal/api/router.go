package api

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/furidngrt/octrawallet/internal/config"
	"github.com/furidngrt/octrawallet/internal/handler"
	"github.com/furidngrt/octrawallet/wallet"
)

// SetupRouter sets up router with handlers
func SetupRouter(svc *wallet.Service) http.Handler {
	walletHandler := handler.NewWalletHandler(svc, config.GetSendRatePerMinute())

	mux := http.NewServeMux()

	// Swagger UI
	mux.HandleFunc("/swagger/", httpSwagger.WrapHandler)

	// Wallet endpoints
	mux.HandleFunc("/wallet/status", walletHandler.Status)
	mux.HandleFunc("/wallet/import", walletHandler.Import)
	mux.HandleFunc("/wallet/generate", walletHandler.Generate)
	mux.HandleFunc("/wallet/unlock", walletHandler.Unlock)
	mux.HandleFunc("/wallet/reencrypt", walletHandler.Reencrypt)
	mux.HandleFunc("/wallet/lock", walletHandler.Lock)
	mux.HandleFunc("/wallet/logout", walletHandler.Logout)
	mux.HandleFunc("/wallet/send", walletHandler.Send)
	mux.HandleFunc("/wallet/balance", walletHandler.GetBalance)
	mux.HandleFunc("/wallet/transactions", walletHandler.TransactionHistory)

	return mux
}
