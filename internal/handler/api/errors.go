package api

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"coffee-loyalty/internal/domain/loyalty"
	"coffee-loyalty/internal/domain/scantoken"
	"coffee-loyalty/internal/handler/httperr"
	"coffee-loyalty/internal/pkg/errs"
	"coffee-loyalty/internal/usecase/commands"
	"coffee-loyalty/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type errorMapping struct {
	status  int
	message string
}

// mapError translates domain and usecase errors to an HTTP status and a
// public message. Anything unknown is a 500.
func mapError(err error) errorMapping {
	switch {
	case errors.Is(err, scantoken.ErrMalformedToken):
		return errorMapping{http.StatusBadRequest, "Malformed scan token"}
	case errors.Is(err, scantoken.ErrInvalidSignature):
		return errorMapping{http.StatusUnauthorized, "Invalid scan token"}
	case errors.Is(err, scantoken.ErrExpiredToken):
		return errorMapping{http.StatusUnauthorized, "Scan token expired"}
	case errors.Is(err, loyalty.ErrRateLimited):
		return errorMapping{http.StatusTooManyRequests, "Please wait before scanning again"}
	case errors.Is(err, errs.ErrForbidden):
		return errorMapping{http.StatusForbidden, "Invalid staff PIN"}
	case errors.Is(err, loyalty.ErrNoFreeDrinks):
		return errorMapping{http.StatusConflict, "No free drinks available"}
	case errors.Is(err, errs.ErrCustomerIdentityRequired):
		return errorMapping{http.StatusBadRequest, "Customer cookie required"}
	case errors.Is(err, loyalty.ErrInvalidCustomerID):
		return errorMapping{http.StatusBadRequest, "Invalid customer id"}
	case errors.Is(err, queries.ErrCustomerNotFound):
		return errorMapping{http.StatusNotFound, "Customer not found"}
	case errors.Is(err, errs.ErrDatabaseOperationFailed):
		return errorMapping{http.StatusInternalServerError, "Storage temporarily unavailable"}
	default:
		return errorMapping{http.StatusInternalServerError, "Internal server error"}
	}
}

func abortWithMappedError(c *gin.Context, err error) {
	m := mapError(err)
	var detail any
	if secs, ok := retryAfterSeconds(err); ok {
		c.Header("Retry-After", strconv.Itoa(secs))
		detail = gin.H{"retry_after_seconds": secs}
	}
	httperr.AbortWithError(c, m.status, err, m.message, detail)
}

func retryAfterSeconds(err error) (int, bool) {
	var cooldown *commands.CooldownError
	if !errors.As(err, &cooldown) {
		return 0, false
	}
	return max(int(math.Ceil(cooldown.RetryAfter.Seconds())), 1), true
}
