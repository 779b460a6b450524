package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/patrimonio/tracker-backend/internal/domain"
)

// snapshotRepository implements domain.SnapshotRepository
type snapshotRepository struct {
	db *DB
}

// NewSnapshotRepository creates a new snapshot repository
func NewSnapshotRepository(db *DB) domain.SnapshotRepository {
	return &snapshotRepository{db: db}
}

// Upsert inserts the snapshot or replaces the entry list of the stored
// snapshot with the same (user_id, snapshot_date). The xmax = 0 test
// distinguishes a fresh insert from a conflict update; on update the
// stored row keeps its id and created_at, which are copied back into snap.
func (r *snapshotRepository) Upsert(ctx context.Context, snap *domain.Snapshot) (bool, error) {
	entries, err := json.Marshal(snap.Entries)
	if err != nil {
		return false, fmt.Errorf("failed to encode entries: %w", err)
	}

	query := `
		INSERT INTO asset_snapshots (id, user_id, snapshot_date, entries)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, snapshot_date)
		DO UPDATE SET entries = EXCLUDED.entries, updated_at = now()
		RETURNING id, (xmax = 0), created_at, updated_at
	`

	var inserted bool
	err = r.db.QueryRowContext(ctx, query,
		snap.ID,
		snap.UserID,
		snap.Date,
		string(entries),
	).Scan(&snap.ID, &inserted, &snap.CreatedAt, &snap.UpdatedAt)
	if err != nil {
		return false, fmt.Errorf("failed to upsert snapshot: %w", err)
	}

	return inserted, nil
}

// ListByUser retrieves every snapshot owned by userID, oldest first.
func (r *snapshotRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Snapshot, error) {
	query := `
		SELECT id, user_id, snapshot_date, entries, created_at, updated_at
		FROM asset_snapshots
		WHERE user_id = $1
		ORDER BY snapshot_date ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := make([]*domain.Snapshot, 0)
	for rows.Next() {
		var snap domain.Snapshot
		var entries []byte

		if err := rows.Scan(
			&snap.ID,
			&snap.UserID,
			&snap.Date,
			&entries,
			&snap.CreatedAt,
			&snap.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}

		if err := json.Unmarshal(entries, &snap.Entries); err != nil {
			return nil, fmt.Errorf("failed to decode entries: %w", err)
		}

		// DATE columns come back at midnight local to the session; pin to
		// the canonical date-only form.
		snap.Date = domain.NormalizeDate(snap.Date)

		snapshots = append(snapshots, &snap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate snapshots: %w", err)
	}

	return snapshots, nil
}

// Delete removes the snapshot only when it is owned by userID. A missing
// row and a row owned by someone else are both ErrNotFound.
func (r *snapshotRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	query := `DELETE FROM asset_snapshots WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}

	return nil
}
