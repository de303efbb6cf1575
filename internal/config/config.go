package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"golang.org/x/term"
)

// Config contains all configuration parameters for the application.
// Note: Passphrase is prompted at runtime and stored in memory - use GetPassphraseBytes()
type Config struct {
	Port              string `envconfig:"PORT" default:"8080"`
	DataDir           string `envconfig:"OCTRA_DATA_DIR" default:".octra"`
	RPCURL            string `envconfig:"OCTRA_RPC_URL" default:"https://octra.network"`
	SessionTTLMinutes int    `envconfig:"SESSION_TTL_MINUTES" default:"60"`
	HistoryLimit      int    `envconfig:"HISTORY_LIMIT" default:"50"`
	SendRatePerMinute int    `envconfig:"SEND_RATE_PER_MINUTE" default:"10"`
}

// cfg is the global configuration instance
var cfg *Config

// Init loads configuration from a .env file (if present) and environment
// variables.
func Init() error {
	_ = godotenv.Load()

	cfg = &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return fmt.Errorf("failed to process config: %w", err)
	}
	return nil
}

// Get returns the global configuration instance.
// Panics if Init() was not called.
func Get() *Config {
	if cfg == nil {
		panic("config not initialized, call Init() first")
	}
	return cfg
}

// GetPort returns port from configuration
func GetPort() string {
	return Get().Port
}

// GetDataDir returns the wallet data directory from configuration
func GetDataDir() string {
	return Get().DataDir
}

// GetRPCURL returns the Octra RPC URL from configuration
func GetRPCURL() string {
	return Get().RPCURL
}

// GetSessionTTLMinutes returns the unlock session lifetime in minutes
func GetSessionTTLMinutes() int {
	return Get().SessionTTLMinutes
}

// GetHistoryLimit returns how many transactions to request from the RPC
func GetHistoryLimit() int {
	return Get().HistoryLimit
}

// GetSendRatePerMinute returns the per-minute cap on send requests
func GetSendRatePerMinute() int {
	return Get().SendRatePerMinute
}

var passphraseBytes []byte

// PromptForPassphrase prompts the user for the wallet passphrase in the
// terminal. The passphrase is read without echoing (hidden input) and stored
// in memory. Call this at startup before the server begins handling requests.
func PromptForPassphrase() error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("stdin is not a terminal: run the app interactively to enter passphrase")
	}
	fmt.Fprint(os.Stderr, "Enter wallet passphrase: ")
	defer fmt.Fprintln(os.Stderr)

	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return fmt.Errorf("failed to read passphrase: %w", err)
	}
	if len(raw) == 0 {
		return errors.New("passphrase cannot be empty")
	}

	passphraseBytes = make([]byte, len(raw))
	copy(passphraseBytes, raw)
	clear(raw)
	return nil
}

// GetPassphraseBytes returns the passphrase stored in memory (from
// PromptForPassphrase). Returns an error if the passphrase was not set.
// Caller must zero the returned slice after use for security.
func GetPassphraseBytes() ([]byte, error) {
	if len(passphraseBytes) == 0 {
		return nil, errors.New("passphrase not set: call PromptForPassphrase at startup")
	}
	out := make([]byte, len(passphraseBytes))
	copy(out, passphraseBytes)
	return out, nil
}

// ClearPassphrase zeroes the stored passphrase.
func ClearPassphrase() {
	clear(passphraseBytes)
	passphraseBytes = nil
}
