package handlers

import (
	"context"
	"errors"
	"net/http"

	"panic-buying/internal/api/models"
	"panic-buying/internal/model"
	"panic-buying/internal/store"

	"github.com/gin-gonic/gin"
)

// Error codes returned in models.ErrorDetail.Code.
const (
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeInvalidConfig  = "INVALID_CONFIG"
	CodeStockDepleted  = "STOCK_DEPLETED"
	CodeNotFound       = "NOT_FOUND"
	CodeCanceled       = "CANCELED"
	CodeInternal       = "INTERNAL_ERROR"
)

// errScenarioNotFound is returned when a scenario preset does not exist.
var errScenarioNotFound = errors.New("scenario not found")

func respondError(c *gin.Context, status int, code, message string, details map[string]interface{}) {
	c.JSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

func respondBadRequest(c *gin.Context, err error) {
	respondError(c, http.StatusBadRequest, CodeInvalidRequest, err.Error(), nil)
}

// respondDomainError maps simulation and store errors onto HTTP responses.
func respondDomainError(c *gin.Context, err error) {
	var cfgErr *model.ConfigError
	var depleted *model.StockDepletedError
	switch {
	case errors.As(err, &depleted):
		respondError(c, http.StatusUnprocessableEntity, CodeStockDepleted, err.Error(), map[string]interface{}{
			"step":  depleted.Step,
			"time":  depleted.Time,
			"stock": depleted.Stock,
		})
	case errors.Is(err, model.ErrStockDepleted):
		respondError(c, http.StatusUnprocessableEntity, CodeStockDepleted, err.Error(), nil)
	case errors.As(err, &cfgErr):
		respondError(c, http.StatusBadRequest, CodeInvalidConfig, err.Error(), map[string]interface{}{
			"field": cfgErr.Field,
		})
	case errors.Is(err, model.ErrInvalidConfig):
		respondError(c, http.StatusBadRequest, CodeInvalidConfig, err.Error(), nil)
	case errors.Is(err, store.ErrNotFound), errors.Is(err, errScenarioNotFound):
		respondError(c, http.StatusNotFound, CodeNotFound, err.Error(), nil)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		respondError(c, http.StatusServiceUnavailable, CodeCanceled, err.Error(), nil)
	default:
		respondError(c, http.StatusInternalServerError, CodeInternal, err.Error(), nil)
	}
}
