package model

import "time"

// User represents an application user record as stored in the `users`
// table. CarbonCredits is the running credit balance; it always equals
// the sum of CreditsEarned across the user's entries and is only ever
// incremented by the ledger when a submission is accepted.
//
// Fields:
//  ID            – primary key identifier of the user.
//  Username      – unique handle shown on the leaderboard.
//  Email         – unique email address used for login.
//  PasswordHash  – bcrypt hashed password.
//  FullName      – optional display name (empty when not provided).
//  CarbonCredits – current credit balance.
//  CreatedAt     – timestamp of creation.
//  UpdatedAt     – timestamp of last update.
type User struct {
	ID            uint64    // users.id
	Username      string    // users.username
	Email         string    // users.email
	PasswordHash  string    // users.password_hash
	FullName      string    // users.full_name (nullable column, empty when NULL)
	CarbonCredits int64     // users.carbon_credits
	CreatedAt     time.Time // users.created_at
	UpdatedAt     time.Time // users.updated_at
}
