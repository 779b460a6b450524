package snapshot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/patrimonio/tracker-backend/internal/domain"
)

// EntryInput is one asset entry as submitted by the client. The JSON tags
// are the external field names used by the form payload.
type EntryInput struct {
	Name  string          `json:"nome"`
	Gross decimal.Decimal `json:"bruto"`
	Net   decimal.Decimal `json:"liquido"`
}

// DatedEntries pairs one date key with the entries submitted for it.
type DatedEntries struct {
	DateKey string
	Entries []EntryInput
}

// SaveInput represents the input for saving a batch of snapshots.
// The batch is an explicit ordered sequence rather than a map so that
// processing order does not depend on JSON object-key iteration.
type SaveInput struct {
	UserID uuid.UUID
	Batch  []DatedEntries
}

// SaveSummary reports how a batch was applied.
type SaveSummary struct {
	Inserted int `json:"inserted"`
	Matched  int `json:"matched"`
}

// dateLayouts are the date-key formats accepted from clients, tried in
// order: ISO dates from the form, US-style dates from older exports.
var dateLayouts = []string{"2006-01-02", "01-02-2006"}

// ParseDateKey parses a batch date key into a date-only value
// (midnight UTC). Returns an error wrapping domain.ErrValidation when the
// key matches none of the accepted layouts.
func ParseDateKey(key string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, key); err == nil {
			return domain.NormalizeDate(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unparseable date key %q", domain.ErrValidation, key)
}

// NormalizeEntry maps an external entry (nome/bruto/liquido) to the
// internal schema (name/gross/net), trimming the display name.
func NormalizeEntry(in EntryInput) domain.AssetEntry {
	return domain.AssetEntry{
		Name:  strings.TrimSpace(in.Name),
		Gross: in.Gross,
		Net:   in.Net,
	}
}

// Service handles snapshot write and read operations for one user at a
// time. All operations are scoped to the acting user.
type Service struct {
	SnapshotRepo domain.SnapshotRepository
}

// NewService creates a new snapshot Service instance.
func NewService(snapshotRepo domain.SnapshotRepository) *Service {
	return &Service{SnapshotRepo: snapshotRepo}
}

// Save validates and applies a date-keyed batch of asset entries.
// Logic:
//  1. Reject an empty batch.
//  2. Build a candidate snapshot per date key, normalizing entries to the
//     internal schema. Any unparseable date or invalid entry rejects the
//     whole batch before the store is touched.
//  3. Upsert each candidate by (owner, date): a snapshot already stored
//     for that date has its entry list replaced wholesale, otherwise a new
//     one is inserted. Dates are applied as an unordered batch; a store
//     failure aborts the request (earlier dates may have been applied).
func (s *Service) Save(ctx context.Context, input SaveInput) (*SaveSummary, error) {
	if input.UserID == uuid.Nil {
		return nil, fmt.Errorf("%w: missing acting user", domain.ErrValidation)
	}

	if len(input.Batch) == 0 {
		return nil, fmt.Errorf("%w: empty snapshot batch", domain.ErrValidation)
	}

	candidates := make([]*domain.Snapshot, 0, len(input.Batch))
	for _, dated := range input.Batch {
		date, err := ParseDateKey(dated.DateKey)
		if err != nil {
			return nil, err
		}

		entries := make([]domain.AssetEntry, 0, len(dated.Entries))
		for _, in := range dated.Entries {
			entries = append(entries, NormalizeEntry(in))
		}

		snap := &domain.Snapshot{
			ID:      uuid.New(),
			UserID:  input.UserID,
			Date:    date,
			Entries: entries,
		}

		if err := snap.Validate(); err != nil {
			return nil, err
		}

		candidates = append(candidates, snap)
	}

	summary := &SaveSummary{}
	for _, snap := range candidates {
		inserted, err := s.SnapshotRepo.Upsert(ctx, snap)
		if err != nil {
			return nil, fmt.Errorf("failed to upsert snapshot for %s: %w", snap.Date.Format(time.DateOnly), err)
		}
		if inserted {
			summary.Inserted++
		} else {
			summary.Matched++
		}
	}

	return summary, nil
}

// List returns every snapshot owned by userID, ordered ascending by date.
// The ordering is a hard contract: every downstream aggregation assumes
// chronological input.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*domain.Snapshot, error) {
	snapshots, err := s.SnapshotRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	return snapshots, nil
}

// Delete removes one snapshot by id, only if it is owned by userID.
func (s *Service) Delete(ctx context.Context, id, userID uuid.UUID) error {
	return s.SnapshotRepo.Delete(ctx, id, userID)
}
