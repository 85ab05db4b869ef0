package model

// Badge values assigned to the top three leaderboard positions.
const (
	BadgeGold   = "gold"
	BadgeSilver = "silver"
	BadgeBronze = "bronze"
	BadgeNone   = "none"
)

// LeaderboardRow is one user's position in a ranked snapshot. Rows are
// derived from the current user set on every call and never persisted.
// EstimatedReductionKg is an approximation projected back from the
// credit balance via a fixed ratio, not a sum of recorded emissions.
type LeaderboardRow struct {
	Rank                 int    `json:"rank"`
	UserID               uint64 `json:"user_id"`
	Username             string `json:"username"`
	FullName             string `json:"full_name,omitempty"`
	Credits              int64  `json:"credits"`
	EstimatedReductionKg int64  `json:"estimated_reduction_kg"`
	Badge                string `json:"badge"`
}

// LeaderboardStats aggregates the whole snapshot for display next to the rows.
type LeaderboardStats struct {
	TotalUsers       int   `json:"total_users"`
	TotalCredits     int64 `json:"total_credits"`
	TotalReductionKg int64 `json:"total_reduction_kg"`
}

// MonthlyAggregate is one point of a user's dashboard time series: all
// entries of one calendar month summed together. Month is formatted
// "YYYY-MM". Months without entries are omitted from the series.
type MonthlyAggregate struct {
	Month          string  `json:"month"`
	TotalEmissions float64 `json:"total_emissions"`
	TotalCredits   int64   `json:"total_credits"`
}

// DashboardSummary is the aggregate view of one user's ledger.
// TotalConsumption sums raw quantities across categories, so its unit is
// mixed (kWh + therms + gallons + kg); it is kept for parity with the
// dashboard display and should be read as an activity volume, not a
// physical quantity.
type DashboardSummary struct {
	TotalConsumption float64            `json:"total_consumption"`
	TotalEmissions   float64            `json:"total_emissions"`
	TotalCredits     int64              `json:"total_credits"`
	EntryCount       int                `json:"entry_count"`
	Monthly          []MonthlyAggregate `json:"monthly"`
}
