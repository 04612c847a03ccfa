// README: Cart session handlers.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"amazonia/internal/modules/cart"
)

type CartService interface {
	Create(ctx context.Context) (*cart.Cart, error)
	Get(ctx context.Context, id string) (*cart.Cart, error)
	AddItem(ctx context.Context, id string, item cart.Item) (*cart.Cart, error)
	SetQuantity(ctx context.Context, id, productID string, quantity int) (*cart.Cart, error)
	Remove(ctx context.Context, id, productID string) (*cart.Cart, error)
	Clear(ctx context.Context, id string) error
}

type CartHandler struct {
	cart CartService
}

func NewCartHandler(svc CartService) *CartHandler {
	return &CartHandler{cart: svc}
}

type cartResponse struct {
	*cart.Cart
	Subtotal   float64 `json:"subtotal"`
	TotalItems int     `json:"total_items"`
	Points     float64 `json:"points"`
}

func toCartResponse(c *cart.Cart) cartResponse {
	return cartResponse{
		Cart:       c,
		Subtotal:   c.Subtotal(),
		TotalItems: c.TotalItems(),
		Points:     cart.Points(c.Lines()),
	}
}

type addItemReq struct {
	ProductID      string            `json:"product_id"`
	Name           string            `json:"name"`
	UnitPrice      float64           `json:"unit_price"`
	WholesalePrice float64           `json:"wholesale_price"`
	Quantity       int               `json:"quantity"`
	Variations     map[string]string `json:"variations"`
}

type setQuantityReq struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) Create(c *gin.Context) {
	ct, err := h.cart.Create(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, toCartResponse(ct))
}

func (h *CartHandler) Get(c *gin.Context) {
	ct, err := h.cart.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toCartResponse(ct))
}

func (h *CartHandler) AddItem(c *gin.Context) {
	var req addItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	ct, err := h.cart.AddItem(c.Request.Context(), c.Param("id"), cart.Item{
		ProductID:      req.ProductID,
		Name:           req.Name,
		UnitPrice:      req.UnitPrice,
		WholesalePrice: req.WholesalePrice,
		Quantity:       req.Quantity,
		Variations:     req.Variations,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toCartResponse(ct))
}

func (h *CartHandler) SetQuantity(c *gin.Context) {
	var req setQuantityReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	ct, err := h.cart.SetQuantity(c.Request.Context(), c.Param("id"), c.Param("productId"), req.Quantity)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toCartResponse(ct))
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	ct, err := h.cart.Remove(c.Request.Context(), c.Param("id"), c.Param("productId"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toCartResponse(ct))
}

func (h *CartHandler) Clear(c *gin.Context) {
	if err := h.cart.Clear(c.Request.Context(), c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
