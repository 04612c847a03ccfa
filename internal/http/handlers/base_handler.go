// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"amazonia/internal/maps"
	"amazonia/internal/modules/cart"
	"amazonia/internal/modules/checkout"
	"amazonia/internal/modules/currency"
	"amazonia/internal/modules/delivery"
	"amazonia/internal/modules/location"
	logx "amazonia/pkg/logger"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

var badRequestErrors = []error{
	cart.ErrBadRequest,
	location.ErrInvalidCoordinates,
	delivery.ErrInvalidDistance,
	delivery.ErrInvalidFuelPrice,
	delivery.ErrInvalidPoints,
	delivery.ErrInvalidSettings,
	currency.ErrUnsupportedCurrency,
	currency.ErrInvalidRate,
	currency.ErrBaseRateFixed,
	checkout.ErrEmptyCart,
	checkout.ErrMissingContact,
	checkout.ErrMissingAddress,
	checkout.ErrLocationRequired,
	checkout.ErrBadMethod,
	maps.ErrNoResult,
}

// writeServiceError maps module sentinel errors to HTTP statuses.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, maps.ErrUnavailable):
		writeError(c, http.StatusServiceUnavailable, err.Error())
		return
	case errors.Is(err, cart.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
		return
	case errors.Is(err, cart.ErrConflict):
		writeError(c, http.StatusConflict, err.Error())
		return
	}
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			writeError(c, http.StatusBadRequest, err.Error())
			return
		}
	}
	_ = c.Error(err)
	logx.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	writeError(c, http.StatusInternalServerError, "internal error")
}
