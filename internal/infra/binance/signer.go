package binance

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Signer handles Binance futures API request signing.
// Credentials are set once at construction and never change.
type Signer struct {
	apiKey    string
	apiSecret string
}

// NewSigner creates a new Signer instance.
func NewSigner(apiKey, apiSecret string) *Signer {
	return &Signer{
		apiKey:    apiKey,
		apiSecret: apiSecret,
	}
}

// Sign computes the hex-encoded HMAC-SHA256 signature over the encoded
// query string, as required for SIGNED futures endpoints.
func (s *Signer) Sign(query string) string {
	h := hmac.New(sha256.New, []byte(s.apiSecret))
	h.Write([]byte(query))
	return hex.EncodeToString(h.Sum(nil))
}

// APIKey returns the key sent in the X-MBX-APIKEY header.
func (s *Signer) APIKey() string {
	return s.apiKey
}
