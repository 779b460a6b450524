package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AssetEntry is one named asset inside a snapshot. It is a value object
// embedded in its snapshot and has no identity of its own. The JSON tags
// are the persisted document field names.
type AssetEntry struct {
	Name  string          `json:"name"`
	Gross decimal.Decimal `json:"gross"`
	Net   decimal.Decimal `json:"net"`
}

// Snapshot is a dated record of one user's asset values. At most one
// snapshot exists per (UserID, Date) pair; Date is a date-only value
// normalized to midnight UTC.
type Snapshot struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Date      time.Time
	Entries   []AssetEntry
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NormalizeDate truncates t to midnight UTC so that equal calendar dates
// compare equal regardless of the time-of-day the client sent.
func NormalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Validate ensures the snapshot adheres to domain rules.
// Returns an error wrapping ErrValidation if any rule is violated.
func (s *Snapshot) Validate() error {
	if s.UserID == uuid.Nil {
		return fmt.Errorf("%w: snapshot must have an owner", ErrValidation)
	}

	if s.Date.IsZero() {
		return fmt.Errorf("%w: snapshot must have a date", ErrValidation)
	}

	if len(s.Entries) == 0 {
		return fmt.Errorf("%w: snapshot must have at least one entry", ErrValidation)
	}

	for _, entry := range s.Entries {
		if strings.TrimSpace(entry.Name) == "" {
			return fmt.Errorf("%w: entry name cannot be empty", ErrValidation)
		}
		if entry.Gross.IsNegative() {
			return fmt.Errorf("%w: gross amount for %q cannot be negative", ErrValidation, entry.Name)
		}
		if entry.Net.IsNegative() {
			return fmt.Errorf("%w: net amount for %q cannot be negative", ErrValidation, entry.Name)
		}
	}

	return nil
}

// TotalGross sums the gross amount across all entries.
func (s *Snapshot) TotalGross() decimal.Decimal {
	total := decimal.Zero
	for _, entry := range s.Entries {
		total = total.Add(entry.Gross)
	}
	return total
}

// TotalNet sums the net amount across all entries.
func (s *Snapshot) TotalNet() decimal.Decimal {
	total := decimal.Zero
	for _, entry := range s.Entries {
		total = total.Add(entry.Net)
	}
	return total
}
