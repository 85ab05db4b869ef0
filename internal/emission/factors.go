// Package emission converts raw consumption figures into estimated
// carbon emissions and earned credits. Everything in this package is
// pure computation over fixed constants; no I/O, no request state.
package emission

// factors maps a category label to its kg-CO2-per-unit rate. Energy
// categories use the unit named in the label; waste categories are kg
// CO2 avoided per kg of recycled material.
var factors = map[string]float64{
	// energy billing
	"Electricity (kWh)":    0.4,
	"Natural Gas (therms)": 11.7,
	"Fuel Oil (gallons)":   10.15,
	"Gasoline (gallons)":   8.89,
	// recycling
	"Plastic": 0.5,
	"Paper":   0.75,
	"Glass":   0.6,
	"Metal":   0.85,
	"E-Waste": 2.0,
	"Organic": 0.4,
}

// DefaultFactor is applied to categories absent from the table so that
// an unexpected label never blocks a submission. One unit counts as one
// kg CO2.
const DefaultFactor = 1.0

// FactorFor returns the emission factor for a category, falling back to
// DefaultFactor for unknown labels.
func FactorFor(category string) float64 {
	if f, ok := factors[category]; ok {
		return f
	}
	return DefaultFactor
}

// Known reports whether a category is present in the factor table.
func Known(category string) bool {
	_, ok := factors[category]
	return ok
}
