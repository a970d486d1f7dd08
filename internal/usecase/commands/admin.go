package commands

import (
	"context"
	"strings"
	"time"

	"coffee-loyalty/internal/domain/scantoken"
	"coffee-loyalty/internal/pkg/clock"
	"coffee-loyalty/internal/pkg/errs"
	"coffee-loyalty/internal/pkg/jwt"
	"coffee-loyalty/internal/usecase"
)

var ErrSessionIssue = errs.New("failed to issue admin session")

type IssuedToken struct {
	StoreID  string
	IssuedAt time.Time
	Token    string
	URL      string
}

type AdminSession struct {
	Token     string
	ExpiresAt time.Time
}

type AdminCommands interface {
	// IssueScanToken mints a fresh signed QR payload for the configured store.
	IssueScanToken(ctx context.Context) (*IssuedToken, error)
	// OpenSession exchanges the admin key for a short-lived session token.
	OpenSession(ctx context.Context, key string) (*AdminSession, error)
}

type adminCommandsImpl struct {
	signer     *scantoken.Signer
	validator  usecase.AdminValidator
	jwtService *jwt.Service
	clock      clock.Clock
	storeID    string
	baseURL    string
}

func NewAdminCommands(
	signer *scantoken.Signer,
	validator usecase.AdminValidator,
	jwtService *jwt.Service,
	clk clock.Clock,
	storeID, publicBaseURL string,
) AdminCommands {
	return &adminCommandsImpl{
		signer:     signer,
		validator:  validator,
		jwtService: jwtService,
		clock:      clk,
		storeID:    storeID,
		baseURL:    strings.TrimRight(publicBaseURL, "/"),
	}
}

func (a *adminCommandsImpl) IssueScanToken(_ context.Context) (*IssuedToken, error) {
	// Millisecond precision keeps IssuedAt equal to what Decode will return.
	now := a.clock.Now().Truncate(time.Millisecond)
	token, err := a.signer.Issue(a.storeID, now)
	if err != nil {
		return nil, errs.Wrap(err, "failed to issue scan token")
	}
	return &IssuedToken{
		StoreID:  a.storeID,
		IssuedAt: now,
		Token:    token,
		URL:      a.baseURL + "/scan/" + token,
	}, nil
}

func (a *adminCommandsImpl) OpenSession(_ context.Context, key string) (*AdminSession, error) {
	if !a.validator.ValidateKey(key) {
		return nil, errs.ErrForbidden
	}
	token, err := a.jwtService.GenerateToken(a.storeID)
	if err != nil {
		return nil, errs.Mark(errs.Wrap(err, "failed to sign admin session"), ErrSessionIssue)
	}
	return &AdminSession{
		Token:     token,
		ExpiresAt: a.clock.Now().Add(a.jwtService.TokenDuration()),
	}, nil
}
