package delivery

import (
	"math"
	"testing"
)

func TestSelectTier_Boundaries(t *testing.T) {
	tests := []struct {
		points float64
		want   VehicleTier
	}{
		{0, TierMotorcycle},
		{20, TierMotorcycle},
		{20.5, TierCarVan},
		{23, TierCarVan},
		{200, TierCarVan},
		{200.01, TierMediumTruck},
		{250, TierMediumTruck},
		{299999.99, TierMediumTruck},
		{300000, TierHeavyCargo},
		{1e9, TierHeavyCargo},
	}
	for _, tt := range tests {
		if got := SelectTier(tt.points).Vehicle; got != tt.want {
			t.Errorf("SelectTier(%v) = %s, want %s", tt.points, got, tt.want)
		}
	}
}

func TestQuote(t *testing.T) {
	tests := []struct {
		name       string
		distanceKm float64
		points     float64
		fuel       float64
		margin     float64
		want       Quote
	}{
		{
			name:       "on-site motorcycle pays base rate only",
			distanceKm: 0, points: 5, fuel: 7.8,
			want: Quote{
				DistanceKm: 0, Vehicle: TierMotorcycle, VehicleName: "Moto (Delivery Express)",
				BaseRate: 5, FuelCost: 0, TotalCost: 5, FinalPrice: 5, PointsUsed: 5,
			},
		},
		{
			name:       "medium truck with return factor requires manual quote",
			distanceKm: 10, points: 250, fuel: 7.8,
			// 7.8/5 = 1.56 per km; 10 * 1.56 * 1.5 = 23.4; 523.4 -> 524
			want: Quote{
				DistanceKm: 10, Vehicle: TierMediumTruck, VehicleName: "Camión 350",
				BaseRate: 500, FuelCost: 23.4, TotalCost: 523.4, FinalPrice: 524, PointsUsed: 250,
				RequiresManualQuote: true,
			},
		},
		{
			name:       "car rounds up",
			distanceKm: 12.5, points: 150, fuel: 7.8,
			// 12.5 * 0.78 = 9.75; 29.75 -> 30
			want: Quote{
				DistanceKm: 12.5, Vehicle: TierCarVan, VehicleName: "Carro / Van",
				BaseRate: 20, FuelCost: 9.75, TotalCost: 29.75, FinalPrice: 30, PointsUsed: 150,
			},
		},
		{
			name:       "heavy cargo round trip",
			distanceKm: 4, points: 300000, fuel: 7.8,
			// 4 * 4.3333 * 2 = 34.67; 2034.67 -> 2035
			want: Quote{
				DistanceKm: 4, Vehicle: TierHeavyCargo, VehicleName: "Gandola (Carga Pesada)",
				BaseRate: 2000, FuelCost: 34.67, TotalCost: 2034.67, FinalPrice: 2035, PointsUsed: 300000,
				RequiresManualQuote: true,
			},
		},
		{
			name:       "margin multiplier applies before rounding",
			distanceKm: 12.5, points: 150, fuel: 7.8, margin: 1.3,
			// 29.75 * 1.3 = 38.675 -> 39
			want: Quote{
				DistanceKm: 12.5, Vehicle: TierCarVan, VehicleName: "Carro / Van",
				BaseRate: 20, FuelCost: 9.75, TotalCost: 29.75, FinalPrice: 39, PointsUsed: 150,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Pricer{MarginMultiplier: tt.margin}.Quote(tt.distanceKm, tt.points, tt.fuel)
			if got != tt.want {
				t.Errorf("Quote() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestQuote_EmptyCartIsMotorcycle(t *testing.T) {
	for _, d := range []float64{0, 3.2, 250, 5000} {
		if q := DefaultQuote(d, 0, 7.8); q.Vehicle != TierMotorcycle || q.RequiresManualQuote {
			t.Errorf("DefaultQuote(%v, 0) = %+v, want motorcycle without manual quote", d, q)
		}
	}
}

func TestQuote_Deterministic(t *testing.T) {
	a := DefaultQuote(17.31, 123, 8.25)
	b := DefaultQuote(17.31, 123, 8.25)
	if a != b {
		t.Errorf("DefaultQuote is not deterministic: %+v vs %+v", a, b)
	}
}

func TestQuote_FinalPriceMonotonicAcrossTiers(t *testing.T) {
	points := []float64{0, 20, 21, 200, 201, 299999, 300000, 500000}
	for _, d := range []float64{0, 1, 10, 100, 1000} {
		prev := int64(math.MinInt64)
		for _, p := range points {
			got := DefaultQuote(d, p, 7.8).FinalPrice
			if got < prev {
				t.Errorf("distance %v: final price dropped to %d at %v points (was %d)", d, got, p, prev)
			}
			prev = got
		}
	}
}

func TestQuote_NonPositiveMarginMeansNone(t *testing.T) {
	want := DefaultQuote(10, 50, 7.8)
	for _, m := range []float64{0, -2} {
		if got := (Pricer{MarginMultiplier: m}).Quote(10, 50, 7.8); got != want {
			t.Errorf("margin %v: got %+v, want %+v", m, got, want)
		}
	}
}

func TestValidateInputs(t *testing.T) {
	tests := []struct {
		name                   string
		distance, points, fuel float64
		want                   error
	}{
		{"valid", 10, 5, 7.8, nil},
		{"zero everything", 0, 0, 0, nil},
		{"negative distance", -1, 5, 7.8, ErrInvalidDistance},
		{"NaN distance", math.NaN(), 5, 7.8, ErrInvalidDistance},
		{"infinite points", 1, math.Inf(1), 7.8, ErrInvalidPoints},
		{"negative fuel", 1, 5, -0.1, ErrInvalidFuelPrice},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateInputs(tt.distance, tt.points, tt.fuel); got != tt.want {
				t.Errorf("ValidateInputs() = %v, want %v", got, tt.want)
			}
		})
	}
}
