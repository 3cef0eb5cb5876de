// Package signer provides HMAC request signing for authenticated exchange
// and aggregator APIs, plus a rotating API-key pool.
package signer

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"math/rand"
	"sync"

	"github.com/ardika/scanarb/internal/apperror"
)

// SignHex computes an HMAC-SHA256 signature and returns it hex-encoded.
// Used by exchanges that expect querystring signatures (Binance style).
func SignHex(secret, message string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(message))
	return hex.EncodeToString(h.Sum(nil))
}

// SignBase64 computes an HMAC-SHA256 signature and returns it base64-encoded.
// OKX signs BASE64(HMAC-SHA256(timestamp + method + requestPath + body)).
func SignBase64(secret, message string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(message))
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

// Credentials holds one API identity.
type Credentials struct {
	APIKey     string
	Secret     string
	Passphrase string
}

// Sign signs a message with this credential's secret, base64-encoded.
func (c Credentials) Sign(message string) string {
	return SignBase64(c.Secret, message)
}

// KeyPool holds a set of credentials and hands one out per call.
// Selection is uniform random with no session affinity.
type KeyPool struct {
	mu   sync.RWMutex
	keys []Credentials
	rand func(n int) int
}

// NewKeyPool creates a pool from the given credentials.
func NewKeyPool(keys []Credentials) *KeyPool {
	return &KeyPool{
		keys: keys,
		rand: rand.Intn,
	}
}

// Pick returns one credential from the pool.
func (p *KeyPool) Pick() (Credentials, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if len(p.keys) == 0 {
		return Credentials{}, apperror.New(apperror.CodeSigningKeyUnavailable)
	}
	return p.keys[p.rand(len(p.keys))], nil
}

// Size returns the number of credentials in the pool.
func (p *KeyPool) Size() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.keys)
}
