// README: Delivery quote and admin delivery-settings handlers.
package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"amazonia/internal/http/middleware"
	"amazonia/internal/modules/cart"
	"amazonia/internal/modules/currency"
	"amazonia/internal/modules/delivery"
	"amazonia/internal/types"
	logx "amazonia/pkg/logger"
)

type DeliveryService interface {
	Estimate(ctx context.Context, req delivery.EstimateRequest) (delivery.Quote, error)
	Settings() delivery.Settings
	PatchSettings(ctx context.Context, p delivery.SettingsPatch) (delivery.Settings, error)
}

type CartReader interface {
	Get(ctx context.Context, id string) (*cart.Cart, error)
}

type Formatter interface {
	Format(amountInBase float64, code currency.Code) (string, error)
}

type Geocoder interface {
	Geocode(ctx context.Context, address string) (types.Point, error)
}

type DeliveryHandler struct {
	delivery  DeliveryService
	carts     CartReader
	formatter Formatter
	geocoder  Geocoder
}

// NewDeliveryHandler accepts a nil geocoder; quotes then require coordinates.
func NewDeliveryHandler(svc DeliveryService, carts CartReader, f Formatter, geo Geocoder) *DeliveryHandler {
	return &DeliveryHandler{delivery: svc, carts: carts, formatter: f, geocoder: geo}
}

type quoteReq struct {
	Lat      *float64    `json:"lat"`
	Lng      *float64    `json:"lng"`
	Address  string      `json:"address"`
	CartID   string      `json:"cart_id"`
	Lines    []cart.Line `json:"lines"`
	Currency string      `json:"currency"`
}

type quoteResp struct {
	delivery.Quote
	Currency     currency.Code `json:"currency"`
	FinalDisplay string        `json:"final_price_display"`
	Customer     types.Point   `json:"customer"`
}

func (h *DeliveryHandler) Quote(c *gin.Context) {
	var req quoteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	code := currency.Base
	if req.Currency != "" {
		parsed, err := currency.ParseCode(req.Currency)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		code = parsed
	}

	ctx := c.Request.Context()
	var customer types.Point
	switch {
	case req.Lat != nil && req.Lng != nil:
		customer = types.Point{Lat: *req.Lat, Lng: *req.Lng}
	case strings.TrimSpace(req.Address) != "" && h.geocoder != nil:
		p, err := h.geocoder.Geocode(ctx, req.Address)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		customer = p
	default:
		writeError(c, http.StatusBadRequest, "lat and lng are required")
		return
	}

	lines := req.Lines
	if req.CartID != "" {
		ct, err := h.carts.Get(ctx, req.CartID)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		lines = ct.Lines()
	}

	q, err := h.delivery.Estimate(ctx, delivery.EstimateRequest{Customer: customer, Lines: lines})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	display, err := h.formatter.Format(float64(q.FinalPrice), code)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, quoteResp{Quote: q, Currency: code, FinalDisplay: display, Customer: customer})
}

func (h *DeliveryHandler) GetSettings(c *gin.Context) {
	writeJSON(c, http.StatusOK, h.delivery.Settings())
}

func (h *DeliveryHandler) UpdateSettings(c *gin.Context) {
	// omitted fields keep their current value
	var req delivery.SettingsPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	st, err := h.delivery.PatchSettings(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	logx.Info().Str("uid", middleware.CallerUID(c)).Msg("delivery settings changed")
	writeJSON(c, http.StatusOK, st)
}
