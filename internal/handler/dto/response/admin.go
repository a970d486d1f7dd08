package response

import (
	"coffee-loyalty/internal/usecase/commands"
)

type ScanTokenResponse struct {
	StoreID  string `json:"store_id"`
	IssuedAt int64  `json:"issued_at"`
	Token    string `json:"token"`
	URL      string `json:"url"`
}

func FromIssuedToken(t *commands.IssuedToken) *ScanTokenResponse {
	return &ScanTokenResponse{
		StoreID:  t.StoreID,
		IssuedAt: t.IssuedAt.UnixMilli(),
		Token:    t.Token,
		URL:      t.URL,
	}
}

type AdminSessionResponse struct {
	ExpiresAt int64 `json:"expires_at"`
}
