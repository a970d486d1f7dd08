//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"coffee-loyalty/internal/handler/api"
	resdto "coffee-loyalty/internal/handler/dto/response"
	"coffee-loyalty/internal/pkg/config"
	"coffee-loyalty/internal/pkg/cookie"
	"coffee-loyalty/internal/pkg/errs"
	"coffee-loyalty/internal/usecase/commands"
	"coffee-loyalty/tests/common/httptest"
	commandsmock "coffee-loyalty/tests/mock/commands"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type AdminHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockAdminCommands
}

func (s *AdminHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockAdminCommands(s.mockCtrl)
	h := api.NewAdminHandler(s.mockCommands, config.NewTestConfig())

	s.router.POST("/api/admin/session", h.OpenSession)
	s.router.GET("/api/admin/qr", h.IssueQR)
}

func (s *AdminHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestAdminHandlerSuite(t *testing.T) {
	suite.Run(t, new(AdminHandlerTestSuite))
}

func (s *AdminHandlerTestSuite) TestOpenSession() {
	s.Run("success: sets session cookie", func() {
		expires := time.Now().Add(time.Hour).Truncate(time.Second)
		s.mockCommands.EXPECT().OpenSession(gomock.Any(), "test-admin-key").
			Return(&commands.AdminSession{Token: "jwt-token", ExpiresAt: expires}, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/admin/session",
			map[string]string{"key": "test-admin-key"}, "")

		var res resdto.AdminSessionResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &res)
		s.Equal(expires.Unix(), res.ExpiresAt)
		c := httptest.ExtractCookie(rec, cookie.AdminSessionCookieName)
		s.Require().NotNil(c)
		s.Equal("jwt-token", c.Value)
		s.Equal("/api/admin", c.Path)
		s.True(c.HttpOnly)
		s.Equal(http.SameSiteStrictMode, c.SameSite)
	})

	s.Run("error: wrong key", func() {
		s.mockCommands.EXPECT().OpenSession(gomock.Any(), "nope").Return(nil, errs.ErrForbidden)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/admin/session",
			map[string]string{"key": "nope"}, "")

		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "Invalid admin key")
		s.Nil(httptest.ExtractCookie(rec, cookie.AdminSessionCookieName))
	})

	s.Run("error: missing key", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/admin/session", map[string]string{}, "")

		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})
}

func (s *AdminHandlerTestSuite) TestIssueQR() {
	s.Run("success", func() {
		issued := time.UnixMilli(1760600000123)
		s.mockCommands.EXPECT().IssueScanToken(gomock.Any()).Return(&commands.IssuedToken{
			StoreID:  "test-store",
			IssuedAt: issued,
			Token:    "dGVzdA",
			URL:      "http://localhost:8889/scan/dGVzdA",
		}, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/admin/qr", nil, "")

		var res resdto.ScanTokenResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &res)
		s.Equal("test-store", res.StoreID)
		s.Equal(int64(1760600000123), res.IssuedAt)
		s.Equal("http://localhost:8889/scan/dGVzdA", res.URL)
	})

	s.Run("error: signer failure", func() {
		s.mockCommands.EXPECT().IssueScanToken(gomock.Any()).Return(nil, errors.New("boom"))

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/admin/qr", nil, "")

		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "Internal server error")
	})
}
