package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"altrion-client/internal/domain/kv"
	"altrion-client/internal/domain/portfolio"
	"altrion-client/internal/logger"

	"go.uber.org/zap"
)

// AssetFilter is an asset type or FilterAll.
type AssetFilter string

const FilterAll AssetFilter = "all"

func (f AssetFilter) Valid() bool {
	switch portfolio.AssetType(f) {
	case portfolio.AssetCrypto, portfolio.AssetStock, portfolio.AssetStablecoin:
		return true
	}
	return f == FilterAll
}

// PortfolioState is the dashboard view state.
type PortfolioState struct {
	Portfolio         *portfolio.Portfolio `json:"portfolio"`
	SelectedAssetType AssetFilter          `json:"selectedAssetType"`
	ChartPeriod       portfolio.Period     `json:"chartPeriod"`
	IsLoading         bool                 `json:"-"`
	Error             string               `json:"-"`
}

// AssetPatch carries the fields to overwrite on one asset; nil fields are kept.
type AssetPatch struct {
	Amount    *float64
	Value     *float64
	Price     *float64
	Change24h *float64
}

type PortfolioStore struct {
	mu    sync.RWMutex
	kv    kv.Store
	log   *zap.Logger
	state PortfolioState
	subs  notifier[PortfolioState]
}

func initialPortfolioState() PortfolioState {
	return PortfolioState{SelectedAssetType: FilterAll, ChartPeriod: portfolio.Period24H}
}

func NewPortfolioStore(store kv.Store, log *zap.Logger) *PortfolioStore {
	return &PortfolioStore{kv: store, log: logger.OrNop(log), state: initialPortfolioState()}
}

func (s *PortfolioStore) Hydrate(ctx context.Context) error {
	st := initialPortfolioState()
	err := s.kv.Get(ctx, kv.KeyPortfolio, &st)
	if errors.Is(err, kv.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if !st.SelectedAssetType.Valid() {
		st.SelectedAssetType = FilterAll
	}
	if !st.ChartPeriod.Valid() {
		st.ChartPeriod = portfolio.Period24H
	}
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
	return nil
}

func (s *PortfolioStore) Close() { s.subs.close() }

func (s *PortfolioStore) Subscribe(fn func(PortfolioState)) func() { return s.subs.Subscribe(fn) }

func (s *PortfolioStore) State() PortfolioState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stateLocked()
}

func (s *PortfolioStore) stateLocked() PortfolioState {
	st := s.state
	if st.Portfolio != nil {
		p := *st.Portfolio
		p.Assets = append([]portfolio.Asset(nil), st.Portfolio.Assets...)
		st.Portfolio = &p
	}
	return st
}

func (s *PortfolioStore) SetPortfolio(ctx context.Context, p *portfolio.Portfolio) error {
	return s.update(ctx, true, func() error {
		if p == nil {
			s.state.Portfolio = nil
		} else {
			cp := *p
			cp.Assets = append([]portfolio.Asset(nil), p.Assets...)
			s.state.Portfolio = &cp
		}
		s.state.Error = ""
		return nil
	})
}

func (s *PortfolioStore) SetSelectedAssetType(ctx context.Context, f AssetFilter) error {
	if !f.Valid() {
		return fmt.Errorf("unknown asset filter %q", f)
	}
	return s.update(ctx, true, func() error {
		s.state.SelectedAssetType = f
		return nil
	})
}

func (s *PortfolioStore) SetChartPeriod(ctx context.Context, p portfolio.Period) error {
	if !p.Valid() {
		return fmt.Errorf("unknown chart period %q", p)
	}
	return s.update(ctx, true, func() error {
		s.state.ChartPeriod = p
		return nil
	})
}

func (s *PortfolioStore) SetLoading(loading bool) {
	_ = s.update(context.Background(), false, func() error {
		s.state.IsLoading = loading
		return nil
	})
}

// SetError records a failure and ends loading.
func (s *PortfolioStore) SetError(msg string) {
	_ = s.update(context.Background(), false, func() error {
		s.state.Error = msg
		s.state.IsLoading = false
		return nil
	})
}

// UpdateAsset patches one asset in place. Unknown ids and an empty portfolio are no-ops.
func (s *PortfolioStore) UpdateAsset(ctx context.Context, assetID string, patch AssetPatch) error {
	return s.update(ctx, true, func() error {
		if s.state.Portfolio == nil {
			return nil
		}
		for i := range s.state.Portfolio.Assets {
			a := &s.state.Portfolio.Assets[i]
			if a.ID != assetID {
				continue
			}
			if patch.Amount != nil {
				a.Amount = *patch.Amount
			}
			if patch.Value != nil {
				a.Value = *patch.Value
			}
			if patch.Price != nil {
				a.Price = *patch.Price
			}
			if patch.Change24h != nil {
				a.Change24h = *patch.Change24h
			}
			break
		}
		return nil
	})
}

func (s *PortfolioStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	s.state = initialPortfolioState()
	st := s.stateLocked()
	s.mu.Unlock()
	if err := s.kv.Delete(ctx, kv.KeyPortfolio); err != nil {
		return err
	}
	s.subs.notify(st)
	return nil
}

// FilteredAssets applies the selected asset type filter.
func (s *PortfolioStore) FilteredAssets() []portfolio.Asset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.Portfolio == nil {
		return nil
	}
	if s.state.SelectedAssetType == FilterAll {
		return append([]portfolio.Asset(nil), s.state.Portfolio.Assets...)
	}
	var out []portfolio.Asset
	for _, a := range s.state.Portfolio.Assets {
		if a.Type == portfolio.AssetType(s.state.SelectedAssetType) {
			out = append(out, a)
		}
	}
	return out
}

func (s *PortfolioStore) Allocation() portfolio.Allocation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Portfolio.Allocate()
}

func (s *PortfolioStore) update(ctx context.Context, persist bool, mutate func() error) error {
	s.mu.Lock()
	if err := mutate(); err != nil {
		s.mu.Unlock()
		return err
	}
	st := s.stateLocked()
	s.mu.Unlock()

	if persist {
		if err := s.kv.Set(ctx, kv.KeyPortfolio, st); err != nil {
			s.log.Error("persist portfolio", zap.Error(err))
			return err
		}
	}
	s.subs.notify(st)
	return nil
}
