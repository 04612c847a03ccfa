// README: Checkout request and WhatsApp hand-off result.
package checkout

import (
	"amazonia/internal/modules/currency"
	"amazonia/internal/modules/delivery"
	"amazonia/internal/types"
)

type Method string

const (
	MethodDelivery Method = "delivery"
	MethodPickup   Method = "pickup"
)

type Order struct {
	CartID       string
	CustomerName string
	Phone        string
	Method       Method
	Address      string
	Reference    string
	Location     *types.Point
	Currency     currency.Code
}

// Result is what the storefront opens on the customer's device. Amounts are in
// the base currency; the *Display fields are formatted in the order currency.
type Result struct {
	Message         string          `json:"message"`
	WhatsAppURL     string          `json:"whatsapp_url"`
	Subtotal        float64         `json:"subtotal"`
	Shipping        float64         `json:"shipping"`
	Total           float64         `json:"total"`
	SubtotalDisplay string          `json:"subtotal_display"`
	ShippingDisplay string          `json:"shipping_display"`
	TotalDisplay    string          `json:"total_display"`
	Quote           *delivery.Quote `json:"quote,omitempty"`
	ManualQuote     bool            `json:"manual_quote"`
	QuoteURL        string          `json:"quote_url,omitempty"`
}
