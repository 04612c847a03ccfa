// README: Delivery tiers, settings and quote definitions.
package delivery

import (
	"amazonia/internal/modules/location"
	"amazonia/internal/types"
)

type VehicleTier string

const (
	TierMotorcycle  VehicleTier = "motorcycle"
	TierCarVan      VehicleTier = "car_van"
	TierMediumTruck VehicleTier = "medium_truck"
	TierHeavyCargo  VehicleTier = "heavy_cargo"
)

// Tier is one rung of the vehicle ladder. A cart falls in the first tier
// whose upper bound admits its points; the last tier has no bound.
type Tier struct {
	Vehicle                  VehicleTier
	Name                     string
	MaxPoints                float64
	MaxInclusive             bool
	Unbounded                bool
	FuelEfficiencyKmPerLiter float64
	BaseRate                 float64
	ReturnTripFactor         float64
	RequiresManualQuote      bool
}

func (t Tier) admits(points float64) bool {
	switch {
	case t.Unbounded:
		return true
	case t.MaxInclusive:
		return points <= t.MaxPoints
	default:
		return points < t.MaxPoints
	}
}

// Tiers is ordered; evaluation stops at the first match.
var Tiers = []Tier{
	{
		Vehicle: TierMotorcycle, Name: "Moto (Delivery Express)",
		MaxPoints: 20, MaxInclusive: true,
		FuelEfficiencyKmPerLiter: 35, BaseRate: 5, ReturnTripFactor: 1,
	},
	{
		Vehicle: TierCarVan, Name: "Carro / Van",
		MaxPoints: 200, MaxInclusive: true,
		FuelEfficiencyKmPerLiter: 10, BaseRate: 20, ReturnTripFactor: 1,
	},
	{
		Vehicle: TierMediumTruck, Name: "Camión 350",
		MaxPoints: 300000,
		FuelEfficiencyKmPerLiter: 5, BaseRate: 500, ReturnTripFactor: 1.5,
		RequiresManualQuote: true,
	},
	{
		Vehicle: TierHeavyCargo, Name: "Gandola (Carga Pesada)",
		Unbounded:                true,
		FuelEfficiencyKmPerLiter: 1.8, BaseRate: 2000, ReturnTripFactor: 2,
		RequiresManualQuote: true,
	},
}

// Quote is an immutable delivery price estimate. When RequiresManualQuote is
// set, FinalPrice is informational and must not be charged automatically.
type Quote struct {
	DistanceKm          float64     `json:"distance_km"`
	Vehicle             VehicleTier `json:"vehicle_tier"`
	VehicleName         string      `json:"vehicle_name"`
	BaseRate            float64     `json:"base_rate"`
	FuelCost            float64     `json:"fuel_cost"`
	TotalCost           float64     `json:"total_cost"`
	FinalPrice          int64       `json:"final_price"`
	PointsUsed          float64     `json:"points_used"`
	RequiresManualQuote bool        `json:"requires_manual_quote"`
}

// Settings is the administrator-editable delivery configuration.
type Settings struct {
	StoreLocation     types.Point `json:"store_location"`
	FuelPricePerLiter float64     `json:"fuel_price_per_liter"`
	MarginMultiplier  float64     `json:"margin_multiplier"`
	EarthRadiusKm     float64     `json:"earth_radius_km"`
}

// DefaultStoreLocation is the shop front used until an administrator sets one.
var DefaultStoreLocation = types.Point{Lat: 4.598005, Lng: -61.109820}

const (
	DefaultFuelPricePerLiter = 7.8
	DefaultMarginMultiplier  = 1.0
)

func DefaultSettings() Settings {
	return Settings{
		StoreLocation:     DefaultStoreLocation,
		FuelPricePerLiter: DefaultFuelPricePerLiter,
		MarginMultiplier:  DefaultMarginMultiplier,
		EarthRadiusKm:     location.DefaultEarthRadiusKm,
	}
}

// SettingsPatch is a partial Settings update; nil fields keep their current value.
type SettingsPatch struct {
	StoreLocation     *types.Point `json:"store_location"`
	FuelPricePerLiter *float64     `json:"fuel_price_per_liter"`
	MarginMultiplier  *float64     `json:"margin_multiplier"`
	EarthRadiusKm     *float64     `json:"earth_radius_km"`
}

func (p SettingsPatch) apply(st Settings) Settings {
	if p.StoreLocation != nil {
		st.StoreLocation = *p.StoreLocation
	}
	if p.FuelPricePerLiter != nil {
		st.FuelPricePerLiter = *p.FuelPricePerLiter
	}
	if p.MarginMultiplier != nil {
		st.MarginMultiplier = *p.MarginMultiplier
	}
	if p.EarthRadiusKm != nil {
		st.EarthRadiusKm = *p.EarthRadiusKm
	}
	return st
}
