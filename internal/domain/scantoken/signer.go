package scantoken

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Signer authenticates scan tokens with HMAC-SHA256 and optionally bounds
// how long an issued QR code stays valid.
type Signer struct {
	key       []byte
	maxAge    time.Duration
	clockSkew time.Duration
}

type Option func(*Signer)

// WithMaxAge rejects tokens older than d. Zero disables expiry.
func WithMaxAge(d time.Duration) Option {
	return func(s *Signer) { s.maxAge = d }
}

// WithClockSkew tolerates tokens issued up to d in the future.
func WithClockSkew(d time.Duration) Option {
	return func(s *Signer) { s.clockSkew = d }
}

func NewSigner(secret string, opts ...Option) *Signer {
	s := &Signer{key: []byte(secret)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Signer) Sign(storeID string, issuedAt time.Time) string {
	mac := hmac.New(sha256.New, s.key)
	mac.Write([]byte(signingPayload(storeID, issuedAt)))
	return hex.EncodeToString(mac.Sum(nil))
}

func (s *Signer) Verify(storeID string, issuedAt time.Time, signature string) bool {
	expected := s.Sign(storeID, issuedAt)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// Check verifies the signature first, then freshness against now.
func (s *Signer) Check(tok Token, now time.Time) error {
	if !s.Verify(tok.StoreID, tok.IssuedAt, tok.Signature) {
		return ErrInvalidSignature
	}
	if tok.IssuedAt.After(now.Add(s.clockSkew)) {
		return ErrExpiredToken
	}
	if s.maxAge > 0 && now.Sub(tok.IssuedAt) > s.maxAge {
		return ErrExpiredToken
	}
	return nil
}

// Issue signs and encodes a token for storeID.
func (s *Signer) Issue(storeID string, issuedAt time.Time) (string, error) {
	return Encode(storeID, issuedAt, s.Sign(storeID, issuedAt))
}
