package emission

import "math"

// CreditsPerKgCO2 is the credit economy constant: credits earned per kg
// of CO2 reported. Kept separate from the factor table so tuning the
// credit economy never touches the emission rates.
const CreditsPerKgCO2 = 100

// Convert turns a consumption figure into its derived values. The caller
// must have validated quantity > 0; Convert itself is total and
// deterministic so repeated calls with the same inputs always produce
// the same pair.
//
// carbonEmissions = quantity * factor (kg CO2)
// creditsEarned   = round-half-up(carbonEmissions * CreditsPerKgCO2)
func Convert(category string, quantity float64) (carbonEmissions float64, creditsEarned int64) {
	carbonEmissions = quantity * FactorFor(category)
	creditsEarned = roundHalfUp(carbonEmissions * CreditsPerKgCO2)
	return carbonEmissions, creditsEarned
}

// EstimatedReductionKg projects a credit balance back into an
// approximate kg-CO2 figure for display. It is the inverse of the credit
// ratio applied to the rounded balance, not a sum of recorded emissions.
func EstimatedReductionKg(credits int64) int64 {
	return roundHalfUp(float64(credits) / CreditsPerKgCO2)
}

// roundHalfUp rounds a non-negative value to the nearest integer with
// .5 rounding away from zero. Pinned explicitly (rather than math.Round
// by name) because the ledger invariant depends on the exact rule.
func roundHalfUp(x float64) int64 {
	return int64(math.Floor(x + 0.5))
}
