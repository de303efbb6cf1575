package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/furidngrt/octrawallet/internal/api"
	"github.com/furidngrt/octrawallet/internal/config"
	"github.com/furidngrt/octrawallet/internal/model"
	"github.com/furidngrt/octrawallet/wallet"
)

// @title        Octra Wallet API
// @version      1.0
// @description  Local Octra wallet: encrypted key storage, signing and transaction tracking
// @BasePath     /
func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal(err)
	}
}

func run(ctx context.Context) error {
	if err := config.Init(); err != nil {
		return err
	}

	svc, err := wallet.NewService(wallet.Options{
		DataDir:      config.GetDataDir(),
		RPCURL:       config.GetRPCURL(),
		SessionTTL:   time.Duration(config.GetSessionTTLMinutes()) * time.Minute,
		HistoryLimit: config.GetHistoryLimit(),
	})
	if err != nil {
		return err
	}
	defer svc.Close()

	// If a vault already exists, offer to unlock it before the server
	// starts so /wallet/send works right away.
	if _, err := svc.Address(); err == nil {
		if err := unlockAtStartup(svc); err != nil {
			log.Printf("startup unlock skipped: %v", err)
		}
	} else if !errors.Is(err, model.ErrNoWallet) {
		return err
	}

	srv := &http.Server{
		Addr:    ":" + config.GetPort(),
		Handler: api.SetupRouter(svc),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	return srv.Shutdown(shutdownCtx)
}

// unlockAtStartup prompts for the passphrase on the terminal and opens an
// unlock session for the stored wallet. The passphrase never leaves memory.
func unlockAtStartup(svc *wallet.Service) error {
	if err := config.PromptForPassphrase(); err != nil {
		return err
	}
	defer config.ClearPassphrase()

	pass, err := config.GetPassphraseBytes()
	if err != nil {
		return err
	}
	defer clear(pass)

	resp, err := svc.Unlock(string(pass))
	if err != nil {
		return err
	}
	log.Printf("wallet %s unlocked", resp.Address)
	return nil
}
