package service

import (
	"context"
	"sort"

	"ecocredit/internal/model"
)

// Dashboard produces per-user summary views from the stored ledger.
type Dashboard struct {
	Entries EntryStore
}

func NewDashboard(entries EntryStore) *Dashboard { return &Dashboard{Entries: entries} }

// Summarize reads all of a user's entries and aggregates them. A user
// with no entries gets zero totals and an empty series, not an error.
func (d *Dashboard) Summarize(ctx context.Context, userID uint64) (model.DashboardSummary, error) {
	entries, err := d.Entries.ListByUser(ctx, userID)
	if err != nil {
		return model.DashboardSummary{}, err
	}
	return BuildSummary(entries), nil
}

// BuildSummary aggregates a set of entries into totals and a monthly
// time series. The series is grouped by the calendar month of the
// activity date (not the submission timestamp), ordered ascending, and
// sparse: months with no entries are omitted rather than zero-filled.
// TotalConsumption mixes units across categories; see the caveat on
// model.DashboardSummary.
func BuildSummary(entries []model.ConsumptionEntry) model.DashboardSummary {
	s := model.DashboardSummary{Monthly: []model.MonthlyAggregate{}}
	byMonth := make(map[string]*model.MonthlyAggregate)

	for _, e := range entries {
		s.TotalConsumption += e.Quantity
		s.TotalEmissions += e.CarbonEmissions
		s.TotalCredits += e.CreditsEarned
		s.EntryCount++

		month := e.Date.Format("2006-01")
		agg, ok := byMonth[month]
		if !ok {
			agg = &model.MonthlyAggregate{Month: month}
			byMonth[month] = agg
		}
		agg.TotalEmissions += e.CarbonEmissions
		agg.TotalCredits += e.CreditsEarned
	}

	for _, agg := range byMonth {
		s.Monthly = append(s.Monthly, *agg)
	}
	// "YYYY-MM" keys sort chronologically as plain strings.
	sort.Slice(s.Monthly, func(i, j int) bool { return s.Monthly[i].Month < s.Monthly[j].Month })
	return s
}
