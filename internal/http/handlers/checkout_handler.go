// README: Checkout hand-off handler.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"amazonia/internal/modules/checkout"
	"amazonia/internal/modules/currency"
	"amazonia/internal/types"
)

type CheckoutService interface {
	Checkout(ctx context.Context, o checkout.Order) (checkout.Result, error)
}

type CheckoutHandler struct {
	checkout CheckoutService
}

func NewCheckoutHandler(svc CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkout: svc}
}

type checkoutReq struct {
	CartID       string   `json:"cart_id"`
	CustomerName string   `json:"customer_name"`
	Phone        string   `json:"phone"`
	Method       string   `json:"method"`
	Address      string   `json:"address"`
	Reference    string   `json:"reference"`
	Lat          *float64 `json:"lat"`
	Lng          *float64 `json:"lng"`
	Currency     string   `json:"currency"`
}

func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var req checkoutReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.CartID == "" {
		writeError(c, http.StatusBadRequest, "missing cart_id")
		return
	}
	o := checkout.Order{
		CartID:       req.CartID,
		CustomerName: req.CustomerName,
		Phone:        req.Phone,
		Method:       checkout.Method(req.Method),
		Address:      req.Address,
		Reference:    req.Reference,
	}
	if req.Lat != nil && req.Lng != nil {
		o.Location = &types.Point{Lat: *req.Lat, Lng: *req.Lng}
	}
	if req.Currency != "" {
		code, err := currency.ParseCode(req.Currency)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		o.Currency = code
	}
	res, err := h.checkout.Checkout(c.Request.Context(), o)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, res)
}
