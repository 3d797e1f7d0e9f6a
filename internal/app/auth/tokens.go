package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"sync"
)

const rawTokenBytes = 32

type TokenPair struct {
	AuthToken    string `json:"authToken"`
	RefreshToken string `json:"refreshToken"`
}

// TokenIssuer mints opaque bearer and refresh tokens and remembers which
// user each belongs to. Nothing expires.
type TokenIssuer struct {
	mu      sync.RWMutex
	random  io.Reader
	auth    map[string]int64
	refresh map[string]int64
}

func NewTokenIssuer() *TokenIssuer {
	return &TokenIssuer{
		random:  rand.Reader,
		auth:    make(map[string]int64),
		refresh: make(map[string]int64),
	}
}

func (i *TokenIssuer) Issue(userID int64) (TokenPair, error) {
	authToken, err := i.generate("auth")
	if err != nil {
		return TokenPair{}, err
	}
	refreshToken, err := i.generate("refresh")
	if err != nil {
		return TokenPair{}, err
	}

	i.mu.Lock()
	i.auth[authToken] = userID
	i.refresh[refreshToken] = userID
	i.mu.Unlock()

	return TokenPair{AuthToken: authToken, RefreshToken: refreshToken}, nil
}

func (i *TokenIssuer) LookupAuth(token string) (int64, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	id, ok := i.auth[token]
	return id, ok
}

func (i *TokenIssuer) LookupRefresh(token string) (int64, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	id, ok := i.refresh[token]
	return id, ok
}

func (i *TokenIssuer) generate(prefix string) (string, error) {
	b := make([]byte, rawTokenBytes)
	if _, err := io.ReadFull(i.random, b); err != nil {
		return "", fmt.Errorf("generate %s token: %w", prefix, err)
	}
	return prefix + "." + base64.RawURLEncoding.EncodeToString(b), nil
}
