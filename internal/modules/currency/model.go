// README: Supported currencies and the immutable rate table snapshot.
package currency

type Code string

const (
	BRL Code = "BRL"
	USD Code = "USD"
	VES Code = "VES"

	// Base is the currency every stored price is expressed in.
	Base = BRL
)

var symbols = map[Code]string{
	BRL: "R$",
	USD: "$",
	VES: "Bs",
}

// DefaultRates are units of each currency per one unit of Base.
var DefaultRates = map[Code]float64{
	BRL: 1,
	USD: 0.20,
	VES: 7.30,
}

// Table is never mutated after construction; updates build a new one.
type Table struct {
	rates map[Code]float64
}

func newTable(rates map[Code]float64) *Table {
	t := &Table{rates: make(map[Code]float64, len(symbols))}
	for c := range symbols {
		t.rates[c] = DefaultRates[c]
	}
	for c, r := range rates {
		if _, ok := symbols[c]; ok {
			t.rates[c] = r
		}
	}
	t.rates[Base] = 1
	return t
}

func (t *Table) with(c Code, rate float64) *Table {
	next := make(map[Code]float64, len(t.rates))
	for k, v := range t.rates {
		next[k] = v
	}
	next[c] = rate
	return &Table{rates: next}
}

// Symbol returns the display prefix for c.
func Symbol(c Code) (string, bool) {
	s, ok := symbols[c]
	return s, ok
}

// Supported lists the known currency codes, base first.
func Supported() []Code {
	return []Code{BRL, USD, VES}
}
