package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"ecocredit/internal/model"
	"ecocredit/internal/utils"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,username,email,password_hash,full_name,carbon_credits,created_at,updated_at"

// Create inserts a user with a zero credit balance and returns its ID.
func (r *UserRepo) Create(ctx context.Context, username, email, password, fullName string, cost int) (uint64, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	var name sql.NullString
	if fullName = strings.TrimSpace(fullName); fullName != "" {
		name = sql.NullString{String: fullName, Valid: true}
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash, full_name) VALUES (?,?,?,?)",
		username, email, hash, name)
	if err != nil {
		// MySQL 1062 = duplicate key on the unique username/email indexes.
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrUserExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// ListByCredits returns up to limit users ordered by credit balance
// descending, id ascending on equal balances. The secondary key makes
// the leaderboard ordering deterministic across calls.
func (r *UserRepo) ListByCredits(ctx context.Context, limit int) ([]model.User, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY carbon_credits DESC, id ASC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var (
			u    model.User
			name sql.NullString
		)
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &name,
			&u.CarbonCredits, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		u.FullName = name.String
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepo) scanOne(row *sql.Row) (model.User, error) {
	var (
		u    model.User
		name sql.NullString
	)
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &name,
		&u.CarbonCredits, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrUserNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	u.FullName = name.String
	return u, nil
}
