package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bnema/tabbridge/internal/domain/entity"
	"github.com/bnema/tabbridge/internal/domain/repository"
	"github.com/bnema/tabbridge/internal/logging"
)

// DefaultJournalLimit caps listings without an explicit limit.
const DefaultJournalLimit = 100

// RecordEventsUseCase persists broadcast events to the event journal.
type RecordEventsUseCase struct {
	journal repository.EventJournal
	now     func() time.Time
}

// NewRecordEventsUseCase creates a journal recorder.
func NewRecordEventsUseCase(journal repository.EventJournal) *RecordEventsUseCase {
	return &RecordEventsUseCase{
		journal: journal,
		now:     time.Now,
	}
}

// Record appends one event.
func (uc *RecordEventsUseCase) Record(ctx context.Context, ev entity.Event) error {
	payload, err := json.Marshal(ev.Args)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", ev.Name, err)
	}
	recordedAt := ev.Timestamp
	if recordedAt.IsZero() {
		recordedAt = uc.now()
	}
	entry := &entity.JournalEntry{
		Seq:        ev.Seq,
		Name:       ev.Name,
		WindowID:   ev.WindowID,
		TabID:      ev.TabID,
		Payload:    string(payload),
		RecordedAt: recordedAt,
	}
	if err := uc.journal.Append(ctx, entry); err != nil {
		return fmt.Errorf("append %s: %w", ev.Name, err)
	}
	return nil
}

// Run records events until ctx is done or events is closed.
// Append failures are logged and do not stop the loop.
func (uc *RecordEventsUseCase) Run(ctx context.Context, events <-chan entity.Event) error {
	log := logging.FromContext(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := uc.Record(ctx, ev); err != nil {
				log.Error().Err(err).Uint64("seq", ev.Seq).Msg("failed to journal event")
			}
		}
	}
}

// Prune removes entries older than retention. A zero retention keeps everything.
func (uc *RecordEventsUseCase) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	if retention <= 0 {
		return 0, nil
	}
	cutoff := uc.now().Add(-retention)
	n, err := uc.journal.Prune(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune journal: %w", err)
	}
	if n > 0 {
		logging.FromContext(ctx).Info().Int64("deleted", n).Time("cutoff", cutoff).Msg("journal pruned")
	}
	return n, nil
}

// List returns recent entries, newest first.
func (uc *RecordEventsUseCase) List(ctx context.Context, filter entity.JournalFilter) ([]*entity.JournalEntry, error) {
	if filter.Limit <= 0 {
		filter.Limit = DefaultJournalLimit
	}
	entries, err := uc.journal.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list journal: %w", err)
	}
	return entries, nil
}
