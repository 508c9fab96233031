package repository

import (
	"context"
	"time"

	"github.com/bnema/tabbridge/internal/domain/entity"
)

//go:generate mockgen -destination=mocks/mock_event_journal.go -package=mocks . EventJournal

// EventJournal persists broadcast lifecycle events.
type EventJournal interface {
	Append(ctx context.Context, entry *entity.JournalEntry) error

	// List returns entries newest first.
	List(ctx context.Context, filter entity.JournalFilter) ([]*entity.JournalEntry, error)

	// Prune deletes entries recorded before the cutoff and returns the count.
	Prune(ctx context.Context, before time.Time) (int64, error)
}
