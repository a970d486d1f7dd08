package api

import (
	"net/http"
	"time"

	reqdto "coffee-loyalty/internal/handler/dto/request"
	resdto "coffee-loyalty/internal/handler/dto/response"
	"coffee-loyalty/internal/handler/httperr"
	"coffee-loyalty/internal/pkg/config"
	"coffee-loyalty/internal/pkg/cookie"
	"coffee-loyalty/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	cmds      commands.AdminCommands
	cookieCfg config.CookieConfig
}

func NewAdminHandler(cmds commands.AdminCommands, cfg config.Config) *AdminHandler {
	return &AdminHandler{
		cmds:      cmds,
		cookieCfg: cfg.Cookie,
	}
}

// @Summary Open admin session
// @Description Exchange the admin key for a session cookie
// @Tags admin
// @Accept json
// @Produce json
// @Param request body reqdto.AdminSessionRequest true "Admin key"
// @Success 200 {object} resdto.AdminSessionResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /api/admin/session [post]
func (h *AdminHandler) OpenSession(c *gin.Context) {
	var req reqdto.AdminSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	session, err := h.cmds.OpenSession(c.Request.Context(), req.Key)
	if err != nil {
		abortWithAdminError(c, err)
		return
	}

	cookie.SetAdminSession(c, h.cookieCfg, session.Token, time.Until(session.ExpiresAt))
	c.JSON(http.StatusOK, resdto.AdminSessionResponse{ExpiresAt: session.ExpiresAt.Unix()})
}

// @Summary Issue store QR token
// @Description Mint a fresh signed scan token and the URL to encode in the store QR code
// @Tags admin
// @Produce json
// @Param X-Admin-Key header string false "Admin key"
// @Success 200 {object} resdto.ScanTokenResponse
// @Failure 403 {object} httperr.Response
// @Router /api/admin/qr [get]
func (h *AdminHandler) IssueQR(c *gin.Context) {
	issued, err := h.cmds.IssueScanToken(c.Request.Context())
	if err != nil {
		abortWithMappedError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromIssuedToken(issued))
}

func abortWithAdminError(c *gin.Context, err error) {
	m := mapError(err)
	if m.status == http.StatusForbidden {
		m.message = "Invalid admin key"
	}
	httperr.AbortWithError(c, m.status, err, m.message, nil)
}
