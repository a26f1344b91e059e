package domain

// Pricing holds the tariff constants used to cost a trip. Values come from
// configuration; the defaults below mirror the published tariff card.
type Pricing struct {
	FuelEfficiencyKmPerLiter float64
	FuelPricePerLiter        float64
	TollRatePerKm            float64
}

// DefaultPricing returns the standard tariff.
func DefaultPricing() Pricing {
	return Pricing{
		FuelEfficiencyKmPerLiter: 15.0,
		FuelPricePerLiter:        100.99,
		TollRatePerKm:            2.0,
	}
}

// Estimate derives fuel and toll costs from a trip distance. Round-trip
// doubling is applied to the distance before calling this, never to the
// returned costs.
func (p Pricing) Estimate(distanceMeters float64) CostBreakdown {
	km := distanceMeters / 1000.0
	return CostBreakdown{
		FuelCost: km / p.FuelEfficiencyKmPerLiter * p.FuelPricePerLiter,
		TollCost: km * p.TollRatePerKm,
	}
}
