package cart

import "strings"

const (
	retailPoints    = 1
	wholesalePoints = 10

	presentationKey = "presentacion"
)

// bulk presentations that ship as a case rather than a single unit.
var bulkPresentations = []string{"caja", "bulto"}

// Points reduces lines to the shipment bulk used for vehicle selection.
// Wholesale lines weigh 10 points per unit, retail lines 1.
func Points(lines []Line) float64 {
	var total float64
	for _, l := range lines {
		per := retailPoints
		if l.WholesaleUnit {
			per = wholesalePoints
		}
		total += float64(per * l.Quantity)
	}
	return total
}

// IsWholesale reports whether a line was priced at the wholesale tier or its
// selected presentation is a case/bulk pack.
func IsWholesale(unitPrice, wholesalePrice float64, variations map[string]string) bool {
	if wholesalePrice > 0 && unitPrice == wholesalePrice {
		return true
	}
	p := strings.ToLower(variations[presentationKey])
	for _, b := range bulkPresentations {
		if strings.Contains(p, b) {
			return true
		}
	}
	return false
}
