package domain

import "errors"

// Sentinel errors shared across the domain. Services wrap these with
// fmt.Errorf("...: %w", ...) so adapters can translate them to status
// codes with errors.Is.
var (
	// ErrValidation marks malformed input: empty batches, unparseable
	// dates, blank names, negative amounts.
	ErrValidation = errors.New("invalid input")

	// ErrNotFound covers both a genuinely missing snapshot and one owned
	// by another user, so existence of other users' data never leaks.
	ErrNotFound = errors.New("snapshot not found or not permitted")

	// ErrEmailTaken is returned on registration with an email that is
	// already in use.
	ErrEmailTaken = errors.New("user already exists")

	// ErrInvalidCredentials is the single error for any login failure
	// (unknown email and wrong password are indistinguishable).
	ErrInvalidCredentials = errors.New("invalid credentials")
)
