package api

import (
	"net/http"

	reqdto "coffee-loyalty/internal/handler/dto/request"
	resdto "coffee-loyalty/internal/handler/dto/response"
	"coffee-loyalty/internal/handler/httperr"
	"coffee-loyalty/internal/pkg/config"
	"coffee-loyalty/internal/pkg/cookie"
	"coffee-loyalty/internal/usecase"
	"coffee-loyalty/internal/usecase/commands"
	"coffee-loyalty/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type RedemptionHandler struct {
	cmds      commands.RedemptionCommands
	threshold int
}

func NewRedemptionHandler(cmds commands.RedemptionCommands, cfg config.Config) *RedemptionHandler {
	return &RedemptionHandler{
		cmds:      cmds,
		threshold: cfg.Loyalty.Threshold,
	}
}

// @Summary Redeem a free drink
// @Description Staff enters the PIN on the customer's phone to consume one credit
// @Tags redemptions
// @Accept json
// @Produce json
// @Param request body reqdto.RedeemRequest true "Staff PIN"
// @Success 200 {object} resdto.CustomerEnvelope
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /api/redeem [post]
func (h *RedemptionHandler) Redeem(c *gin.Context) {
	var req reqdto.RedeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	customerID := cookie.GetCustomerID(c)
	if !usecase.ValidCustomerID(customerID) {
		customerID = ""
	}

	result, err := h.cmds.Redeem(c.Request.Context(), customerID, req.Pin)
	if err != nil {
		abortWithMappedError(c, err)
		return
	}

	v := queries.NewCustomerView(result.Customer, h.threshold).
		WithTotals(result.Totals.Scans, result.Totals.Redemptions)
	customer, err := resdto.FromCustomerView(v)
	if err != nil {
		abortWithMappedError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.CustomerEnvelope{Customer: customer})
}
