// Package repository defines sentinel error values shared across the
// data access layer. Handlers and services compare against these with
// errors.Is to translate storage outcomes into HTTP responses without
// inspecting driver-specific errors themselves.
package repository

import "errors"

// ErrUserNotFound is returned when a referenced user id or email does
// not resolve to a row. Handlers should translate this into 404 (or 401
// during login, to avoid leaking which emails exist).
var ErrUserNotFound = errors.New("user not found")

// ErrUserExists is returned when an insert collides with the unique
// username or email index. Handlers should translate this into 409.
var ErrUserExists = errors.New("username or email already exists")
