package api

import (
	"fmt"
	"net/http"
	"strconv"

	resdto "coffee-loyalty/internal/handler/dto/response"
	"coffee-loyalty/internal/handler/view"
	"coffee-loyalty/internal/pkg/config"
	"coffee-loyalty/internal/pkg/cookie"
	"coffee-loyalty/internal/usecase"
	"coffee-loyalty/internal/usecase/commands"
	"coffee-loyalty/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type ScanHandler struct {
	cmds      commands.ScanCommands
	identity  usecase.IdentityResolver
	cookieCfg config.CookieConfig
}

func NewScanHandler(cmds commands.ScanCommands, identity usecase.IdentityResolver, cfg config.Config) *ScanHandler {
	return &ScanHandler{
		cmds:      cmds,
		identity:  identity,
		cookieCfg: cfg.Cookie,
	}
}

// @Summary Scan store QR code (camera)
// @Description Landing page for a phone camera scan. Renders HTML unless JSON is requested.
// @Tags scan
// @Produce html,json
// @Param token path string true "Signed scan token"
// @Success 200 {object} resdto.ScanResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 429 {object} httperr.Response
// @Router /scan/{token} [get]
func (h *ScanHandler) ScanPage(c *gin.Context) {
	if c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON {
		h.Scan(c)
		return
	}

	customerID := resolveCustomer(c, h.identity, h.cookieCfg)
	result, err := h.cmds.Scan(c.Request.Context(), c.Param("token"), customerID)
	if err != nil {
		m := mapError(err)
		if secs, ok := retryAfterSeconds(err); ok {
			c.Header("Retry-After", strconv.Itoa(secs))
		}
		_ = c.Error(err)
		c.Render(m.status, view.RenderScan(view.ScanPage{Title: "Scan not counted", Error: m.message}))
		return
	}

	c.Render(http.StatusOK, view.RenderScan(view.ScanPage{
		Title:         "Stamp added",
		StampCount:    result.Customer.StampCount,
		Threshold:     result.Threshold,
		FreeAvailable: result.Customer.FreeAvailable,
		EarnedReward:  result.EarnedReward,
	}))
}

// @Summary Scan store QR code (in-app)
// @Description Verify the scan token and add a stamp to the cookie customer
// @Tags scan
// @Produce json
// @Param token path string true "Signed scan token"
// @Success 200 {object} resdto.ScanResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 429 {object} httperr.Response
// @Router /api/scan/{token} [post]
func (h *ScanHandler) Scan(c *gin.Context) {
	customerID := resolveCustomer(c, h.identity, h.cookieCfg)
	result, err := h.cmds.Scan(c.Request.Context(), c.Param("token"), customerID)
	if err != nil {
		abortWithMappedError(c, err)
		return
	}

	v := queries.NewCustomerView(result.Customer, result.Threshold).
		WithTotals(result.Totals.Scans, result.Totals.Redemptions)
	customer, err := resdto.FromCustomerView(v)
	if err != nil {
		abortWithMappedError(c, err)
		return
	}

	msg := fmt.Sprintf("Stamp added, %d to go", result.StampsToReward)
	if result.EarnedReward {
		msg = "You earned a free drink!"
	}
	c.JSON(http.StatusOK, resdto.ScanResponse{
		Customer:     customer,
		EarnedReward: result.EarnedReward,
		Message:      msg,
	})
}

// resolveCustomer returns the caller's customer id, issuing the cid cookie
// when the request did not carry a usable one.
func resolveCustomer(c *gin.Context, identity usecase.IdentityResolver, cfg config.CookieConfig) string {
	id, isNew := identity.Resolve(cookie.GetCustomerID(c))
	if isNew {
		cookie.SetCustomerID(c, cfg, id)
	}
	return id
}
