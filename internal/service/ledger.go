// Package service holds the domain engines: the credit ledger that
// accepts submissions, the aggregation that builds dashboard summaries,
// and the leaderboard ranking. Engines depend on small store interfaces
// so the MySQL repositories and test fakes are interchangeable.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"ecocredit/internal/emission"
	"ecocredit/internal/model"
)

// ErrInvalidInput is returned when a submission fails validation before
// reaching the conversion step: non-positive quantity, unparseable date,
// missing category or unknown kind. Nothing is written in that case.
var ErrInvalidInput = errors.New("invalid input")

// UserStore is the subset of the user repository the engines need.
type UserStore interface {
	GetByID(ctx context.Context, id uint64) (model.User, error)
	ListByCredits(ctx context.Context, limit int) ([]model.User, error)
}

// EntryStore persists consumption entries. Append must apply the entry
// insert and the owner's balance increment atomically: all-or-nothing,
// serialized against concurrent appends for the same user.
type EntryStore interface {
	Append(ctx context.Context, e *model.ConsumptionEntry) error
	ListByUser(ctx context.Context, userID uint64) ([]model.ConsumptionEntry, error)
	ListByUserKind(ctx context.Context, userID uint64, kind string) ([]model.ConsumptionEntry, error)
}

// Ledger turns validated submissions into stored entries and balance
// increments. It is the only component that mutates credit balances.
type Ledger struct {
	Users   UserStore
	Entries EntryStore
}

func NewLedger(users UserStore, entries EntryStore) *Ledger {
	return &Ledger{Users: users, Entries: entries}
}

// DateLayout is the calendar date format accepted from clients.
const DateLayout = "2006-01-02"

// RecordEntry validates a submission, converts it, and appends it to the
// user's ledger. The entry's emissions and credits are computed exactly
// once here and are immutable afterwards. Errors: ErrInvalidInput for
// bad fields, repository.ErrUserNotFound when userID does not resolve,
// anything else is a storage failure with no partial state applied.
func (l *Ledger) RecordEntry(ctx context.Context, userID uint64, kind, category string, quantity float64, date string) (model.ConsumptionEntry, error) {
	category = strings.TrimSpace(category)
	if category == "" || quantity <= 0 {
		return model.ConsumptionEntry{}, ErrInvalidInput
	}
	if kind != model.KindBilling && kind != model.KindRecycling {
		return model.ConsumptionEntry{}, ErrInvalidInput
	}
	day, err := time.Parse(DateLayout, strings.TrimSpace(date))
	if err != nil {
		return model.ConsumptionEntry{}, ErrInvalidInput
	}

	// Resolve the user before writing so a bad id fails cleanly even on
	// stores that cannot report it from the append itself.
	if _, err := l.Users.GetByID(ctx, userID); err != nil {
		return model.ConsumptionEntry{}, err
	}

	emissions, credits := emission.Convert(category, quantity)
	entry := model.ConsumptionEntry{
		UserID:          userID,
		Kind:            kind,
		Category:        category,
		Quantity:        quantity,
		CarbonEmissions: emissions,
		CreditsEarned:   credits,
		Date:            day,
	}
	if err := l.Entries.Append(ctx, &entry); err != nil {
		return model.ConsumptionEntry{}, err
	}
	return entry, nil
}

// History returns a user's entries of one kind for the history views.
func (l *Ledger) History(ctx context.Context, userID uint64, kind string) ([]model.ConsumptionEntry, error) {
	if kind != model.KindBilling && kind != model.KindRecycling {
		return nil, ErrInvalidInput
	}
	return l.Entries.ListByUserKind(ctx, userID, kind)
}
