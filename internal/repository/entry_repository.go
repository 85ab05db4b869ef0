package repository

import (
	"context"
	"database/sql"

	"ecocredit/internal/model"
)

// EntryRepo provides access to the append-only `entries` table and owns
// the atomicity of the paired write that a submission requires: the new
// entry row and the matching balance increment either both commit or
// neither does. The increment is performed in place with a single
// `carbon_credits = carbon_credits + ?` statement, so two concurrent
// submissions for the same user can never read a stale balance and
// overwrite each other.
type EntryRepo struct {
	db *sql.DB
}

// NewEntryRepo returns a new EntryRepo bound to the given database.
func NewEntryRepo(db *sql.DB) *EntryRepo { return &EntryRepo{db: db} }

// Append inserts an entry and increments the owner's credit balance in
// one transaction. On success the entry's ID and CreatedAt are
// populated from the stored row. Returns ErrUserNotFound when the
// balance update matches no user row; in that case nothing is written.
func (r *EntryRepo) Append(ctx context.Context, e *model.ConsumptionEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const ins = `INSERT INTO entries (user_id, kind, category, quantity, carbon_emissions, credits_earned, entry_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, ins,
		e.UserID, e.Kind, e.Category, e.Quantity, e.CarbonEmissions, e.CreditsEarned,
		e.Date.Format("2006-01-02"))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)

	upd, err := tx.ExecContext(ctx,
		"UPDATE users SET carbon_credits = carbon_credits + ?, updated_at = NOW() WHERE id = ?",
		e.CreditsEarned, e.UserID)
	if err != nil {
		return err
	}
	if n, err := upd.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return ErrUserNotFound
	}

	// Query back timestamps and defaults so the caller sees the stored row.
	if err := tx.QueryRowContext(ctx,
		"SELECT entry_date, created_at FROM entries WHERE id = ?", e.ID).
		Scan(&e.Date, &e.CreatedAt); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

const entryColumns = "id,user_id,kind,category,quantity,carbon_emissions,credits_earned,entry_date,created_at"

// ListByUser returns every entry belonging to a user, ordered by
// activity date ascending with insertion order breaking same-day ties.
func (r *EntryRepo) ListByUser(ctx context.Context, userID uint64) ([]model.ConsumptionEntry, error) {
	return r.list(ctx,
		"SELECT "+entryColumns+" FROM entries WHERE user_id=? ORDER BY entry_date ASC, id ASC",
		userID)
}

// ListByUserKind is ListByUser restricted to one submission kind,
// newest activity first, for the billing and recycling history views.
func (r *EntryRepo) ListByUserKind(ctx context.Context, userID uint64, kind string) ([]model.ConsumptionEntry, error) {
	return r.list(ctx,
		"SELECT "+entryColumns+" FROM entries WHERE user_id=? AND kind=? ORDER BY entry_date DESC, id DESC",
		userID, kind)
}

func (r *EntryRepo) list(ctx context.Context, query string, args ...interface{}) ([]model.ConsumptionEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.ConsumptionEntry
	for rows.Next() {
		var e model.ConsumptionEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Kind, &e.Category, &e.Quantity,
			&e.CarbonEmissions, &e.CreditsEarned, &e.Date, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
