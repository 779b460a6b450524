package domain

import (
	"context"

	"github.com/google/uuid"
)

// SnapshotRepository defines the interface for snapshot persistence operations
type SnapshotRepository interface {
	// Upsert inserts the snapshot, or fully replaces the entry list of the
	// existing snapshot with the same (UserID, Date). Reports whether a new
	// row was inserted (false means an existing one was matched and
	// updated). On a matched row the snapshot's ID and CreatedAt are
	// overwritten with the stored values.
	Upsert(ctx context.Context, snapshot *Snapshot) (inserted bool, err error)

	// ListByUser retrieves every snapshot owned by userID, ordered
	// ascending by date. Returns an empty slice when the user has none.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Snapshot, error)

	// Delete removes the snapshot with the given id if and only if it is
	// owned by userID. Returns ErrNotFound otherwise.
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

// UserRepository defines the interface for user persistence operations
type UserRepository interface {
	// Create persists a new user. Returns ErrEmailTaken when the email is
	// already registered.
	Create(ctx context.Context, user *User) error

	// GetByEmail retrieves a user by normalized email address.
	// Returns ErrNotFound when no such user exists.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// GetByID retrieves a user by ID. Returns ErrNotFound when no such
	// user exists.
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
}
