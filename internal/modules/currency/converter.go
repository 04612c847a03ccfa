package currency

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"sync/atomic"
)

var (
	ErrUnsupportedCurrency = errors.New("unsupported currency")
	ErrInvalidRate         = errors.New("rate must be a finite positive number")
	ErrBaseRateFixed       = errors.New("base currency rate is fixed at 1")
)

// Converter converts base-currency amounts for display. Rate updates swap the
// whole table, so concurrent readers see either the old or the new rates.
type Converter struct {
	table atomic.Pointer[Table]
}

// NewConverter seeds the table with rates on top of DefaultRates.
func NewConverter(rates map[Code]float64) *Converter {
	c := &Converter{}
	c.table.Store(newTable(rates))
	return c
}

// ParseCode normalises user input such as "usd" into a supported Code.
func ParseCode(v string) (Code, error) {
	c := Code(strings.ToUpper(strings.TrimSpace(v)))
	if _, ok := symbols[c]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedCurrency, v)
	}
	return c, nil
}

func (c *Converter) SetRate(code Code, rate float64) error {
	if err := ValidateRate(code, rate); err != nil {
		return err
	}
	for {
		cur := c.table.Load()
		if c.table.CompareAndSwap(cur, cur.with(code, rate)) {
			return nil
		}
	}
}

// ValidateRate checks that code is a non-base supported currency and rate is usable.
func ValidateRate(code Code, rate float64) error {
	if _, ok := symbols[code]; !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedCurrency, code)
	}
	if code == Base {
		return ErrBaseRateFixed
	}
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate <= 0 {
		return ErrInvalidRate
	}
	return nil
}

func (c *Converter) Rate(code Code) (float64, error) {
	r, ok := c.table.Load().rates[code]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedCurrency, code)
	}
	return r, nil
}

func (c *Converter) Convert(amountInBase float64, code Code) (float64, error) {
	r, err := c.Rate(code)
	if err != nil {
		return 0, err
	}
	return amountInBase * r, nil
}

// Format renders amountInBase in code as symbol followed by two decimals, e.g. "$20.00".
func (c *Converter) Format(amountInBase float64, code Code) (string, error) {
	// one snapshot for both rate and symbol
	t := c.table.Load()
	r, ok := t.rates[code]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedCurrency, code)
	}
	return fmt.Sprintf("%s%.2f", symbols[code], amountInBase*r), nil
}

// Rates returns a copy of the current table.
func (c *Converter) Rates() map[Code]float64 {
	t := c.table.Load()
	out := make(map[Code]float64, len(t.rates))
	for k, v := range t.rates {
		out[k] = v
	}
	return out
}
