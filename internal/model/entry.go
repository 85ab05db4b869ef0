package model

import "time"

// Entry kinds. Billing and recycling submissions share one table and
// one processing pipeline; the kind only separates the two history views.
const (
	KindBilling   = "billing"
	KindRecycling = "recycling"
)

// ConsumptionEntry mirrors the `entries` table. Entries are append-only:
// once a submission is accepted, its derived CarbonEmissions and
// CreditsEarned are never recomputed or mutated, which keeps the credit
// balance auditable as a plain sum over this table.
//
// Fields:
//  ID              – primary key identifier of the entry.
//  UserID          – owner of the entry; never reassigned.
//  Kind            – KindBilling or KindRecycling.
//  Category        – energy or waste type, key into the emission factor table.
//  Quantity        – units consumed (kWh, therms, gallons, kg depending on category).
//  CarbonEmissions – derived kg CO2, computed once at submission time.
//  CreditsEarned   – derived integer credits, computed once at submission time.
//  Date            – calendar date of the activity (not the submission timestamp).
//  CreatedAt       – submission timestamp.
type ConsumptionEntry struct {
	ID              uint64    // entries.id
	UserID          uint64    // entries.user_id
	Kind            string    // entries.kind
	Category        string    // entries.category
	Quantity        float64   // entries.quantity
	CarbonEmissions float64   // entries.carbon_emissions
	CreditsEarned   int64     // entries.credits_earned
	Date            time.Time // entries.entry_date (DATE column)
	CreatedAt       time.Time // entries.created_at
}
