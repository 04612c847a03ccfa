// README: Currency rate listing, formatting and admin rate updates.
package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"amazonia/internal/http/middleware"
	"amazonia/internal/modules/currency"
	logx "amazonia/pkg/logger"
)

type CurrencyService interface {
	Formatter
	Convert(amountInBase float64, code currency.Code) (float64, error)
	Rates() map[currency.Code]float64
	UpdateRate(ctx context.Context, code currency.Code, rate float64) error
}

type CurrencyHandler struct {
	currency CurrencyService
}

func NewCurrencyHandler(svc CurrencyService) *CurrencyHandler {
	return &CurrencyHandler{currency: svc}
}

type rateView struct {
	Code   currency.Code `json:"code"`
	Symbol string        `json:"symbol"`
	Rate   float64       `json:"rate"`
}

func (h *CurrencyHandler) Rates(c *gin.Context) {
	rates := h.currency.Rates()
	out := make([]rateView, 0, len(rates))
	for _, code := range currency.Supported() {
		rate, ok := rates[code]
		if !ok {
			continue
		}
		out = append(out, rateView{Code: code, Symbol: symbolOf(code), Rate: rate})
	}
	writeJSON(c, http.StatusOK, map[string]any{"base": currency.Base, "rates": out})
}

func (h *CurrencyHandler) Format(c *gin.Context) {
	amount, err := strconv.ParseFloat(c.Query("amount"), 64)
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid amount")
		return
	}
	code, err := currency.ParseCode(c.DefaultQuery("currency", string(currency.Base)))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	converted, err := h.currency.Convert(amount, code)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	display, err := h.currency.Format(amount, code)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{
		"amount":    amount,
		"currency":  code,
		"converted": converted,
		"display":   display,
	})
}

type setRateReq struct {
	Rate float64 `json:"rate"`
}

func (h *CurrencyHandler) SetRate(c *gin.Context) {
	var req setRateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	code, err := currency.ParseCode(c.Param("code"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if err := h.currency.UpdateRate(c.Request.Context(), code, req.Rate); err != nil {
		writeServiceError(c, err)
		return
	}
	logx.Info().Str("uid", middleware.CallerUID(c)).Str("code", string(code)).Float64("rate", req.Rate).
		Msg("currency rate changed")
	writeJSON(c, http.StatusOK, rateView{Code: code, Symbol: symbolOf(code), Rate: req.Rate})
}

func symbolOf(code currency.Code) string {
	s, _ := currency.Symbol(code)
	return s
}
