package scantoken

import (
	"encoding/base64"
	"strconv"
	"strings"
	"time"

	"coffee-loyalty/internal/pkg/errs"
)

// Delimiter separates store id, issue time and signature in the decoded payload.
const Delimiter = "|"

var (
	ErrMalformedToken   = errs.New("malformed scan token")
	ErrInvalidSignature = errs.New("invalid scan token signature")
	ErrExpiredToken     = errs.New("scan token expired")
	ErrInvalidStoreID   = errs.New("store id must be non-empty and must not contain the delimiter")
)

// Token is the decoded content of a store QR code. IssuedAt carries
// millisecond precision, the resolution used on the wire.
type Token struct {
	StoreID   string
	IssuedAt  time.Time
	Signature string
}

// Encode serializes the three fields as "store|millis|signature" in unpadded base64url.
func Encode(storeID string, issuedAt time.Time, signature string) (string, error) {
	if storeID == "" || strings.Contains(storeID, Delimiter) {
		return "", ErrInvalidStoreID
	}
	if signature == "" || strings.Contains(signature, Delimiter) {
		return "", errs.Wrap(ErrMalformedToken, "signature must be non-empty and delimiter free")
	}
	raw := signingPayload(storeID, issuedAt) + Delimiter + signature
	return base64.RawURLEncoding.EncodeToString([]byte(raw)), nil
}

func Decode(token string) (Token, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(token), "=")
	if trimmed == "" {
		return Token{}, ErrMalformedToken
	}

	decoded, err := base64.RawURLEncoding.DecodeString(trimmed)
	if err != nil {
		return Token{}, errs.Wrap(ErrMalformedToken, "invalid base64url payload")
	}

	parts := strings.Split(string(decoded), Delimiter)
	if len(parts) != 3 {
		return Token{}, ErrMalformedToken
	}
	for _, p := range parts {
		if p == "" {
			return Token{}, ErrMalformedToken
		}
	}

	// The signature covers the canonical decimal form only.
	millis, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || millis < 0 || strconv.FormatInt(millis, 10) != parts[1] {
		return Token{}, ErrMalformedToken
	}

	return Token{
		StoreID:   parts[0],
		IssuedAt:  time.UnixMilli(millis).UTC(),
		Signature: parts[2],
	}, nil
}

func signingPayload(storeID string, issuedAt time.Time) string {
	return storeID + Delimiter + strconv.FormatInt(issuedAt.UnixMilli(), 10)
}
