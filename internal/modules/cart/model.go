// README: Cart aggregate and the per-line shape used for delivery classification.
package cart

import "time"

// Line is one cart entry as seen by delivery pricing.
type Line struct {
	ProductID     string  `json:"product_id"`
	UnitPrice     float64 `json:"unit_price"`
	Quantity      int     `json:"quantity"`
	WholesaleUnit bool    `json:"wholesale_unit"`
}

type Item struct {
	ProductID      string            `json:"product_id"`
	Name           string            `json:"name"`
	UnitPrice      float64           `json:"unit_price"`
	WholesalePrice float64           `json:"wholesale_price,omitempty"`
	Quantity       int               `json:"quantity"`
	Variations     map[string]string `json:"variations,omitempty"`
}

// Cart is a shopper's session cart. Version increases with every stored change.
type Cart struct {
	ID        string    `json:"id"`
	Items     []Item    `json:"items"`
	Version   int       `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Lines projects the cart into delivery lines.
func (c *Cart) Lines() []Line {
	lines := make([]Line, 0, len(c.Items))
	for _, it := range c.Items {
		lines = append(lines, Line{
			ProductID:     it.ProductID,
			UnitPrice:     it.UnitPrice,
			Quantity:      it.Quantity,
			WholesaleUnit: IsWholesale(it.UnitPrice, it.WholesalePrice, it.Variations),
		})
	}
	return lines
}

// Subtotal is the goods total in the base currency.
func (c *Cart) Subtotal() float64 {
	var total float64
	for _, it := range c.Items {
		total += it.UnitPrice * float64(it.Quantity)
	}
	return total
}

func (c *Cart) TotalItems() int {
	var n int
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
