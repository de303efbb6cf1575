package session

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenIssuer signs short-lived session tokens handed to HTTP clients. The
// signing key is ephemeral per process: restarting the service voids every
// outstanding token, which matches the tab-scoped session model.
type TokenIssuer struct {
	priv ed25519.PrivateKey
	pub  ed25519.PublicKey
	iss  string
}

// NewTokenIssuer generates a fresh EdDSA signing key.
func NewTokenIssuer(issuer string) (*TokenIssuer, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	return &TokenIssuer{priv: priv, pub: pub, iss: issuer}, nil
}

// Issue signs a token bound to address, expiring at the session expiry.
func (t *TokenIssuer) Issue(address string, expiry time.Time) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss": t.iss,
		"sub": address,
		"iat": now.Unix(),
		"exp": expiry.Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims).SignedString(t.priv)
}

// Verify checks the token signature and expiry and returns the bound
// address. Token validity is necessary but not sufficient for an unlocked
// wallet: the caller must still find a live session in the Cache.
func (t *TokenIssuer) Verify(tokenStr string) (string, error) {
	keyFunc := func(tok *jwt.Token) (any, error) {
		if tok.Method != jwt.SigningMethodEdDSA {
			return nil, errors.New("unexpected signing method")
		}
		return t.pub, nil
	}

	tok, err := jwt.ParseWithClaims(tokenStr, jwt.MapClaims{}, keyFunc, jwt.WithIssuer(t.iss))
	if err != nil || !tok.Valid {
		return "", errors.New("invalid session token")
	}

	claims := tok.Claims.(jwt.MapClaims)
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", errors.New("session token missing subject")
	}
	return sub, nil
}
