package delivery

import (
	"errors"
	"math"
)

var (
	ErrInvalidDistance  = errors.New("distance must be a finite non-negative number")
	ErrInvalidFuelPrice = errors.New("fuel price must be a finite non-negative number")
	ErrInvalidPoints    = errors.New("cart points must be a finite non-negative number")
)

// Pricer turns a distance and cart bulk into a Quote.
// MarginMultiplier scales the total cost before rounding up; values <= 0 mean 1.
type Pricer struct {
	MarginMultiplier float64
}

// DefaultQuote prices with no margin.
func DefaultQuote(distanceKm, points, fuelPricePerLiter float64) Quote {
	return Pricer{MarginMultiplier: DefaultMarginMultiplier}.Quote(distanceKm, points, fuelPricePerLiter)
}

// SelectTier returns the first tier admitting points.
func SelectTier(points float64) Tier {
	for _, t := range Tiers {
		if t.admits(points) {
			return t
		}
	}
	return Tiers[len(Tiers)-1]
}

// Quote expects a non-negative finite distance and fuel price; see ValidateInputs.
func (p Pricer) Quote(distanceKm, points, fuelPricePerLiter float64) Quote {
	tier := SelectTier(points)

	fuelCostPerKm := fuelPricePerLiter / tier.FuelEfficiencyKmPerLiter
	// explicit conversion keeps the product from being fused into the sum.
	fuelCost := float64(distanceKm * fuelCostPerKm * tier.ReturnTripFactor)
	totalCost := fuelCost + tier.BaseRate

	margin := p.MarginMultiplier
	if margin <= 0 {
		margin = DefaultMarginMultiplier
	}

	return Quote{
		DistanceKm:          distanceKm,
		Vehicle:             tier.Vehicle,
		VehicleName:         tier.Name,
		BaseRate:            tier.BaseRate,
		FuelCost:            round2(fuelCost),
		TotalCost:           round2(totalCost),
		FinalPrice:          int64(math.Ceil(totalCost * margin)),
		PointsUsed:          points,
		RequiresManualQuote: tier.RequiresManualQuote,
	}
}

// ValidateInputs rejects values Quote would silently turn into nonsense.
func ValidateInputs(distanceKm, points, fuelPricePerLiter float64) error {
	if !finiteNonNegative(distanceKm) {
		return ErrInvalidDistance
	}
	if !finiteNonNegative(points) {
		return ErrInvalidPoints
	}
	if !finiteNonNegative(fuelPricePerLiter) {
		return ErrInvalidFuelPrice
	}
	return nil
}

func finiteNonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
