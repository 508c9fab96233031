package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bnema/tabbridge/internal/domain/entity"
	"github.com/bnema/tabbridge/internal/domain/repository"
	"github.com/bnema/tabbridge/internal/logging"
)

const (
	insertJournalEntry = `INSERT INTO event_journal (seq, name, window_id, tab_id, payload, recorded_at)
VALUES (?, ?, ?, ?, ?, ?)`

	listJournalEntries = `SELECT id, seq, name, window_id, tab_id, payload, recorded_at
FROM event_journal
ORDER BY recorded_at DESC, id DESC
LIMIT ?`

	listJournalEntriesByWindow = `SELECT id, seq, name, window_id, tab_id, payload, recorded_at
FROM event_journal
WHERE window_id = ?
ORDER BY recorded_at DESC, id DESC
LIMIT ?`

	pruneJournalEntries = `DELETE FROM event_journal WHERE recorded_at < ?`
)

type eventJournalRepo struct {
	db *sql.DB
}

// NewEventJournalRepository stores journal entries in the event_journal table.
// Timestamps are kept as unix nanoseconds.
func NewEventJournalRepository(db *sql.DB) repository.EventJournal {
	return &eventJournalRepo{db: db}
}

func (r *eventJournalRepo) Append(ctx context.Context, entry *entity.JournalEntry) error {
	if entry == nil {
		return fmt.Errorf("%w: nil journal entry", entity.ErrInvalidArgument)
	}
	payload := entry.Payload
	if payload == "" {
		payload = "[]"
	}

	res, err := r.db.ExecContext(ctx, insertJournalEntry,
		int64(entry.Seq),
		string(entry.Name),
		int64(entry.WindowID),
		int64(entry.TabID),
		payload,
		entry.RecordedAt.UTC().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("insert journal entry: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		entry.ID = id
	}

	logging.FromContext(ctx).Trace().
		Int64("id", entry.ID).
		Str("event", string(entry.Name)).
		Msg("journal entry appended")
	return nil
}

func (r *eventJournalRepo) List(ctx context.Context, filter entity.JournalFilter) ([]*entity.JournalEntry, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	var (
		rows *sql.Rows
		err  error
	)
	if !filter.WindowID.Valid() {
		rows, err = r.db.QueryContext(ctx, listJournalEntries, limit)
	} else {
		rows, err = r.db.QueryContext(ctx, listJournalEntriesByWindow, int64(filter.WindowID), limit)
	}
	if err != nil {
		return nil, fmt.Errorf("query journal: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []*entity.JournalEntry
	for rows.Next() {
		entry, err := scanJournalEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate journal: %w", err)
	}
	return entries, nil
}

func (r *eventJournalRepo) Prune(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, pruneJournalEntries, before.UTC().UnixNano())
	if err != nil {
		return 0, fmt.Errorf("prune journal: %w", err)
	}
	return res.RowsAffected()
}

func scanJournalEntry(rows *sql.Rows) (*entity.JournalEntry, error) {
	var (
		id, seq, windowID, tabID, recordedAt int64
		name, payload                        string
	)
	if err := rows.Scan(&id, &seq, &name, &windowID, &tabID, &payload, &recordedAt); err != nil {
		return nil, fmt.Errorf("scan journal entry: %w", err)
	}
	return &entity.JournalEntry{
		ID:         id,
		Seq:        uint64(seq),
		Name:       entity.EventName(name),
		WindowID:   entity.WindowID(windowID),
		TabID:      entity.TabID(tabID),
		Payload:    payload,
		RecordedAt: time.Unix(0, recordedAt).UTC(),
	}, nil
}
