package linking

import (
	"context"
	"sync"
	"time"

	"altrion-client/internal/domain/apperr"
	"altrion-client/internal/domain/form"
	"altrion-client/internal/domain/platform"
	"altrion-client/internal/logger"

	"go.uber.org/zap"
)

const RouteConnect = "/connect"

// CatalogSource resolves the linkable platforms.
type CatalogSource interface {
	Catalog(ctx context.Context) (*platform.Catalog, error)
}

// Flow owns the current linking session of the connect screens.
type Flow struct {
	mu  sync.Mutex
	seq *Sequencer

	catalog  CatalogSource
	api      PlatformAPI
	accounts AccountMerger
	pace     time.Duration
	// onLinked runs after a session finishes with at least one success.
	onLinked func()
	log      *zap.Logger
}

func NewFlow(catalog CatalogSource, api PlatformAPI, accounts AccountMerger, pace time.Duration, onLinked func(), log *zap.Logger) *Flow {
	if onLinked == nil {
		onLinked = func() {}
	}
	return &Flow{catalog: catalog, api: api, accounts: accounts, pace: pace, onLinked: onLinked, log: logger.OrNop(log)}
}

// StartRequest is the platform selection plus the secrets entered for each.
type StartRequest struct {
	form.ConnectNavigation
	Secrets map[string]Secrets `json:"secrets"`
}

// Start replaces the current session with one for the requested platforms and
// runs it to completion. Cancelling ctx does not stop the run.
func (f *Flow) Start(ctx context.Context, req StartRequest) (Snapshot, error) {
	ctx = context.WithoutCancel(ctx)
	if err := form.Check(req.ConnectNavigation); err != nil {
		return Snapshot{}, err
	}
	cat, err := f.catalog.Catalog(ctx)
	if err != nil {
		f.log.Warn("platform catalog unavailable, using built-in list", zap.Error(err))
		cat = &platform.DefaultCatalog
	}
	platforms := make([]platform.Platform, 0, len(req.Platforms))
	for _, id := range req.Platforms {
		p, ok := cat.Find(id)
		if !ok {
			if p, ok = platform.DefaultCatalog.Find(id); !ok {
				return Snapshot{}, apperr.NewValidationError("platforms", "Unknown platform "+id)
			}
		}
		platforms = append(platforms, p)
	}

	seq := NewSequencer(platforms, NewServiceConnector(f.api, req.Secrets), f.accounts, f.pace, f.log)
	f.mu.Lock()
	f.seq = seq
	f.mu.Unlock()

	snap, err := seq.Run(ctx)
	f.finished(snap, err)
	return snap, err
}

// Retry re-attempts the failed platform at index i of the current session.
func (f *Flow) Retry(ctx context.Context, i int) (Snapshot, error) {
	ctx = context.WithoutCancel(ctx)
	seq, err := f.current()
	if err != nil {
		return Snapshot{}, err
	}
	snap, err := seq.Retry(ctx, i)
	f.finished(snap, err)
	return snap, err
}

func (f *Flow) Status() (Snapshot, error) {
	seq, err := f.current()
	if err != nil {
		return Snapshot{}, err
	}
	return seq.Snapshot(), nil
}

func (f *Flow) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq = nil
}

func (f *Flow) current() (*Sequencer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.seq == nil {
		return nil, &apperr.StateMissingError{Screen: "connecting", RedirectTo: RouteConnect}
	}
	return f.seq, nil
}

func (f *Flow) finished(snap Snapshot, err error) {
	if err == nil && snap.Done && snap.SuccessCount > 0 {
		f.onLinked()
	}
}
