package api

import (
	"net/http"

	"coffee-loyalty/internal/domain/loyalty"
	resdto "coffee-loyalty/internal/handler/dto/response"
	"coffee-loyalty/internal/pkg/config"
	"coffee-loyalty/internal/usecase"
	"coffee-loyalty/internal/usecase/commands"
	"coffee-loyalty/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type CustomerHandler struct {
	ledger    commands.LedgerCommands
	q         queries.CustomerQueries
	identity  usecase.IdentityResolver
	cookieCfg config.CookieConfig
}

func NewCustomerHandler(ledger commands.LedgerCommands, q queries.CustomerQueries, identity usecase.IdentityResolver, cfg config.Config) *CustomerHandler {
	return &CustomerHandler{
		ledger:    ledger,
		q:         q,
		identity:  identity,
		cookieCfg: cfg.Cookie,
	}
}

// @Summary Current customer
// @Description Loyalty card of the cookie customer; creates the customer and cookie on first visit
// @Tags customers
// @Produce json
// @Success 200 {object} resdto.CustomerEnvelope
// @Router /api/me [get]
func (h *CustomerHandler) Me(c *gin.Context) {
	customerID := resolveCustomer(c, h.identity, h.cookieCfg)
	if _, err := h.ledger.GetOrCreate(c.Request.Context(), customerID); err != nil {
		abortWithMappedError(c, err)
		return
	}
	h.respond(c, customerID)
}

// @Summary Get customer
// @Description Loyalty card by customer id
// @Tags customers
// @Produce json
// @Param id path string true "Customer ID"
// @Success 200 {object} resdto.CustomerEnvelope
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/customers/{id} [get]
func (h *CustomerHandler) Get(c *gin.Context) {
	customerID := c.Param("id")
	if !usecase.ValidCustomerID(customerID) {
		abortWithMappedError(c, loyalty.ErrInvalidCustomerID)
		return
	}
	h.respond(c, customerID)
}

func (h *CustomerHandler) respond(c *gin.Context, customerID string) {
	v, err := h.q.GetCustomer(c.Request.Context(), customerID)
	if err != nil {
		abortWithMappedError(c, err)
		return
	}
	customer, err := resdto.FromCustomerView(v)
	if err != nil {
		abortWithMappedError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.CustomerEnvelope{Customer: customer})
}
