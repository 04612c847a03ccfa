// README: Checkout service turns a cart into a WhatsApp order hand-off.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"amazonia/internal/modules/cart"
	"amazonia/internal/modules/currency"
	"amazonia/internal/modules/delivery"
	"amazonia/internal/types"
	logx "amazonia/pkg/logger"
)

var (
	ErrEmptyCart        = errors.New("cart is empty")
	ErrMissingContact   = errors.New("customer name and phone are required")
	ErrMissingAddress   = errors.New("delivery address is required")
	ErrLocationRequired = errors.New("delivery location is required")
	ErrBadMethod        = errors.New("unknown delivery method")
)

type Carts interface {
	Get(ctx context.Context, id string) (*cart.Cart, error)
	Clear(ctx context.Context, id string) error
}

type Estimator interface {
	Estimate(ctx context.Context, req delivery.EstimateRequest) (delivery.Quote, error)
}

type Formatter interface {
	Format(amountInBase float64, code currency.Code) (string, error)
}

// Geocoder is optional; when set, delivery orders without coordinates are
// located from their address.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (types.Point, error)
}

type Config struct {
	StoreName     string
	WhatsAppPhone string
	ClearCart     bool
}

type Service struct {
	carts     Carts
	delivery  Estimator
	formatter Formatter
	geocoder  Geocoder
	cfg       Config
}

func NewService(carts Carts, est Estimator, f Formatter, geo Geocoder, cfg Config) *Service {
	return &Service{carts: carts, delivery: est, formatter: f, geocoder: geo, cfg: cfg}
}

func (s *Service) Checkout(ctx context.Context, o Order) (Result, error) {
	if strings.TrimSpace(o.CustomerName) == "" || strings.TrimSpace(o.Phone) == "" {
		return Result{}, ErrMissingContact
	}
	if o.Currency == "" {
		o.Currency = currency.Base
	}
	switch o.Method {
	case MethodPickup:
	case MethodDelivery:
		if strings.TrimSpace(o.Address) == "" {
			return Result{}, ErrMissingAddress
		}
	default:
		return Result{}, ErrBadMethod
	}
	// fail on an unsupported currency before touching the cart
	if _, err := s.formatter.Format(0, o.Currency); err != nil {
		return Result{}, err
	}

	c, err := s.carts.Get(ctx, o.CartID)
	if err != nil {
		return Result{}, err
	}
	if c.IsEmpty() {
		return Result{}, ErrEmptyCart
	}

	format := func(amount float64) string {
		v, _ := s.formatter.Format(amount, o.Currency)
		return v
	}

	res := Result{Subtotal: c.Subtotal()}
	var loc *types.Point
	shippingText := ""
	if o.Method == MethodDelivery {
		loc, err = s.locate(ctx, o)
		if err != nil {
			return Result{}, err
		}
		q, err := s.delivery.Estimate(ctx, delivery.EstimateRequest{Customer: *loc, Lines: c.Lines()})
		if err != nil {
			return Result{}, fmt.Errorf("delivery estimate: %w", err)
		}
		res.Quote = &q
		if q.RequiresManualQuote {
			res.ManualQuote = true
			res.QuoteURL = whatsAppLink(s.cfg.WhatsAppPhone, quoteRequestText(q.VehicleName))
			shippingText = fmt.Sprintf("Por cotizar (%s)", q.VehicleName)
		} else {
			res.Shipping = float64(q.FinalPrice)
			shippingText = format(res.Shipping)
		}
	}
	res.Total = res.Subtotal + res.Shipping
	res.SubtotalDisplay = format(res.Subtotal)
	res.ShippingDisplay = format(res.Shipping)
	res.TotalDisplay = format(res.Total)

	res.Message = renderMessage(messageData{
		storeName: s.cfg.StoreName,
		order:     o,
		location:  loc,
		items:     c.Items,
		shipping:  shippingText,
		total:     res.TotalDisplay,
	}, format)
	res.WhatsAppURL = whatsAppLink(s.cfg.WhatsAppPhone, res.Message)

	if s.cfg.ClearCart {
		if err := s.carts.Clear(ctx, c.ID); err != nil {
			logx.Warn().Err(err).Str("cart_id", c.ID).Msg("clear cart after checkout")
		}
	}
	logx.Info().
		Str("cart_id", c.ID).
		Str("method", string(o.Method)).
		Float64("total", res.Total).
		Bool("manual_quote", res.ManualQuote).
		Msg("checkout prepared")
	return res, nil
}

func (s *Service) locate(ctx context.Context, o Order) (*types.Point, error) {
	if o.Location != nil {
		return o.Location, nil
	}
	if s.geocoder == nil {
		return nil, ErrLocationRequired
	}
	p, err := s.geocoder.Geocode(ctx, o.Address)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLocationRequired, err)
	}
	return &p, nil
}
