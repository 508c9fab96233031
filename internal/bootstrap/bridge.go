package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/bnema/tabbridge/internal/application/port"
	"github.com/bnema/tabbridge/internal/application/usecase"
	"github.com/bnema/tabbridge/internal/eventbus"
	"github.com/bnema/tabbridge/internal/infrastructure/config"
	"github.com/bnema/tabbridge/internal/infrastructure/persistence/sqlite"
	"github.com/bnema/tabbridge/internal/logging"
)

// journalSubscriber is the extension id the journal subscribes under.
const journalSubscriber = "tabbridge.journal"

// Bridge is a fully wired windows bridge: one host, one identity store,
// one event bus and the use cases on top.
type Bridge struct {
	Host     port.WindowHost
	Store    *usecase.WindowStore
	Bus      *eventbus.Bus
	Observer *usecase.HostObserver
	Windows  *usecase.ManageWindowsUseCase
	// Journal is nil when the event journal is disabled.
	Journal *usecase.RecordEventsUseCase

	db            *sql.DB
	journalSub    *eventbus.Subscription
	journalCancel func()
}

// BridgeOption customizes NewBridge.
type BridgeOption func(*bridgeOptions)

type bridgeOptions struct {
	host   port.WindowHost
	policy port.WindowPolicy
}

// WithHost uses h instead of opening the configured host.
func WithHost(h port.WindowHost) BridgeOption {
	return func(o *bridgeOptions) { o.host = h }
}

// WithPolicy uses p instead of building the configured policy.
func WithPolicy(p port.WindowPolicy) BridgeOption {
	return func(o *bridgeOptions) { o.policy = p }
}

// NewBridge wires a bridge from cfg and registers the host's existing
// windows. Call Run to start following host events.
func NewBridge(ctx context.Context, cfg *config.Config, opts ...BridgeOption) (_ *Bridge, err error) {
	ctx = logging.WithComponent(ctx, "bootstrap")
	log := logging.FromContext(ctx)
	timer := NewStartupTimer()

	var o bridgeOptions
	for _, opt := range opts {
		opt(&o)
	}

	b := &Bridge{}
	defer func() {
		if err != nil {
			_ = b.Close()
		}
	}()

	pol := o.policy
	if pol == nil {
		if pol, err = BuildPolicy(ctx, cfg.Policy); err != nil {
			return nil, err
		}
	}
	timer.Mark("policy")

	b.Host = o.host
	if b.Host == nil {
		if b.Host, err = OpenHost(ctx, cfg.Host); err != nil {
			return nil, err
		}
	}
	timer.Mark("host")

	b.Store = usecase.NewWindowStore(pol)
	b.Bus = eventbus.New(ctx, cfg.Server.EventBuffer)
	b.Observer = usecase.NewHostObserver(b.Host, b.Store, b.Bus)
	b.Windows = usecase.NewManageWindowsUseCase(b.Host, b.Store, b.Observer)

	if cfg.Journal.Enabled {
		if err = b.openJournal(ctx, cfg.Journal); err != nil {
			return nil, err
		}
		timer.Mark("journal")
	}

	if err = b.Observer.Sync(ctx); err != nil {
		return nil, fmt.Errorf("sync host windows: %w", err)
	}
	timer.Mark("sync")
	timer.Log(ctx)

	log.Info().
		Str("host", string(cfg.Host.Provider)).
		Int("windows", len(b.Store.WindowIDs())).
		Bool("journal", b.Journal != nil).
		Msg("bridge ready")
	return b, nil
}

func (b *Bridge) openJournal(ctx context.Context, cfg config.JournalConfig) error {
	db, err := sqlite.NewConnection(ctx, cfg.Path)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	b.db = db
	b.Journal = usecase.NewRecordEventsUseCase(sqlite.NewEventJournalRepository(db))
	if _, err := b.Journal.Prune(ctx, cfg.Retention); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("journal prune failed")
	}
	// Subscribe before Sync so the initial onCreated events are journaled.
	b.journalSub, b.journalCancel = b.Bus.Subscribe(journalSubscriber)
	return nil
}

// SetPolicy swaps the window policy for future lookups.
func (b *Bridge) SetPolicy(p port.WindowPolicy) {
	b.Store.SetPolicy(p)
}

// Run follows host events, and journals broadcasts when enabled, until
// ctx is done or the host closes its event stream.
func (b *Bridge) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return b.Observer.Run(gctx)
	})
	if b.Journal != nil {
		g.Go(func() error {
			return b.Journal.Run(gctx, b.journalSub.C)
		})
	}
	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Close releases the journal, the bus and the host.
func (b *Bridge) Close() error {
	var errs []error
	if b.journalCancel != nil {
		b.journalCancel()
		b.journalCancel = nil
	}
	if b.Bus != nil {
		b.Bus.Close()
	}
	if b.Host != nil {
		if err := b.Host.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close host: %w", err))
		}
	}
	if b.db != nil {
		if err := sqlite.Close(b.db); err != nil {
			errs = append(errs, fmt.Errorf("close journal: %w", err))
		}
		b.db = nil
	}
	return errors.Join(errs...)
}
