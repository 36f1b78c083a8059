// Package dashboard serves the portfolio and platform screens through the query
// cache, keeping the portfolio store in step with what the backend returned.
package dashboard

import (
	"context"

	"altrion-client/internal/domain/apperr"
	"altrion-client/internal/domain/platform"
	"altrion-client/internal/domain/portfolio"
	"altrion-client/internal/logger"
	"altrion-client/internal/query"
	"altrion-client/internal/store"

	"go.uber.org/zap"
)

type PortfolioAPI interface {
	Portfolio(ctx context.Context) (*portfolio.Portfolio, error)
	Asset(ctx context.Context, id string) (*portfolio.Asset, error)
	LoanEligibility(ctx context.Context) (*portfolio.LoanEligibility, error)
	History(ctx context.Context, p portfolio.Period) ([]portfolio.HistoryPoint, error)
	Refresh(ctx context.Context) (*portfolio.Portfolio, error)
}

type PlatformAPI interface {
	Catalog(ctx context.Context) (*platform.Catalog, error)
	Connected(ctx context.Context) ([]platform.Platform, error)
	Disconnect(ctx context.Context, id string) error
	Verify(ctx context.Context, id string) (*platform.ConnectionResult, error)
	Sync(ctx context.Context, id string) (*platform.SyncResult, error)
}

type Usecase struct {
	portfolio PortfolioAPI
	platforms PlatformAPI
	queries   *query.Client
	state     *store.PortfolioStore
	log       *zap.Logger
}

func NewUsecase(p PortfolioAPI, pl PlatformAPI, q *query.Client, state *store.PortfolioStore, log *zap.Logger) *Usecase {
	return &Usecase{portfolio: p, platforms: pl, queries: q, state: state, log: logger.OrNop(log)}
}

// Overview is the dashboard home screen.
type Overview struct {
	store.PortfolioState
	Assets     []portfolio.Asset    `json:"assets"`
	Holdings   []portfolio.Holding  `json:"holdings"`
	Allocation portfolio.Allocation `json:"allocation"`
}

// loadPortfolio fetches the portfolio detail and mirrors the outcome into the
// store. It also runs on background refetches.
func (u *Usecase) loadPortfolio(ctx context.Context) (*portfolio.Portfolio, error) {
	u.state.SetLoading(true)
	defer u.state.SetLoading(false)
	p, err := u.portfolio.Portfolio(ctx)
	if err != nil {
		u.state.SetError(err.Error())
		return nil, err
	}
	if err := u.state.SetPortfolio(ctx, p); err != nil {
		u.log.Warn("persist portfolio snapshot", zap.Error(err))
	}
	return p, nil
}

func (u *Usecase) Portfolio(ctx context.Context) (*portfolio.Portfolio, error) {
	return query.Fetch(ctx, u.queries, query.PortfolioDetail, query.PortfolioDetailOptions, u.loadPortfolio)
}

// Overview loads the portfolio and returns it filtered by the stored asset type.
func (u *Usecase) Overview(ctx context.Context) (*Overview, error) {
	p, err := u.Portfolio(ctx)
	if err != nil {
		return nil, err
	}
	return &Overview{
		PortfolioState: u.state.State(),
		Assets:         u.state.FilteredAssets(),
		Holdings:       portfolio.Aggregate(p.Assets),
		Allocation:     u.state.Allocation(),
	}, nil
}

// Holdings is the portfolio aggregated by symbol, as offered for collateral.
func (u *Usecase) Holdings(ctx context.Context) ([]portfolio.Holding, error) {
	p, err := u.Portfolio(ctx)
	if err != nil {
		return nil, err
	}
	return portfolio.Aggregate(p.Assets), nil
}

func (u *Usecase) SetFilter(ctx context.Context, f store.AssetFilter) (*Overview, error) {
	if !f.Valid() {
		return nil, apperr.NewValidationError("type", "must be one of: all crypto stock stablecoin")
	}
	if err := u.state.SetSelectedAssetType(ctx, f); err != nil {
		return nil, err
	}
	return u.Overview(ctx)
}

// Asset returns one asset, or apperr.APIError 404 when the backend does not know it.
func (u *Usecase) Asset(ctx context.Context, id string) (*portfolio.Asset, error) {
	a, err := query.Fetch(ctx, u.queries, query.PortfolioAsset(id), query.DefaultOptions, func(ctx context.Context) (*portfolio.Asset, error) {
		return u.portfolio.Asset(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, apperr.NewAPIError(404, "", map[string]any{"message": "Asset not found"})
	}
	return a, nil
}

// History returns the value series for period and remembers it as the chart period.
func (u *Usecase) History(ctx context.Context, p portfolio.Period) ([]portfolio.HistoryPoint, error) {
	if !p.Valid() {
		return nil, apperr.NewValidationError("period", "must be one of: 1H 24H 7D 1M 1Y")
	}
	points, err := query.Fetch(ctx, u.queries, query.PortfolioHistory(string(p)), query.PortfolioHistoryOptions, func(ctx context.Context) ([]portfolio.HistoryPoint, error) {
		return u.portfolio.History(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	if err := u.state.SetChartPeriod(ctx, p); err != nil {
		u.log.Warn("persist chart period", zap.Error(err))
	}
	return points, nil
}

func (u *Usecase) Eligibility(ctx context.Context) (*portfolio.LoanEligibility, error) {
	return query.Fetch(ctx, u.queries, query.PortfolioEligibility, query.PortfolioEligibilityOptions, u.portfolio.LoanEligibility)
}

// Refresh re-pulls balances and writes the result straight into the cache.
func (u *Usecase) Refresh(ctx context.Context) (*portfolio.Portfolio, error) {
	p, err := query.Mutate(ctx, u.queries, u.portfolio.Refresh)
	if err != nil {
		return nil, err
	}
	u.queries.SetData(query.PortfolioDetail, p)
	if err := u.state.SetPortfolio(ctx, p); err != nil {
		u.log.Warn("persist portfolio snapshot", zap.Error(err))
	}
	return p, nil
}

// Catalog is the platform picker list.
func (u *Usecase) Catalog(ctx context.Context) (*platform.Catalog, error) {
	return query.Fetch(ctx, u.queries, query.PlatformsList, query.PlatformsListOptions, u.platforms.Catalog)
}

func (u *Usecase) Connected(ctx context.Context) ([]platform.Platform, error) {
	return query.Fetch(ctx, u.queries, query.PlatformsConnected, query.PlatformsConnectedOptions, u.platforms.Connected)
}

func (u *Usecase) Disconnect(ctx context.Context, id string) error {
	_, err := query.Mutate(ctx, u.queries, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, u.platforms.Disconnect(ctx, id)
	}, query.PlatformsConnected)
	return err
}

func (u *Usecase) Verify(ctx context.Context, id string) (*platform.ConnectionResult, error) {
	return query.Fetch(ctx, u.queries, query.PlatformVerify(id), query.DefaultOptions, func(ctx context.Context) (*platform.ConnectionResult, error) {
		return u.platforms.Verify(ctx, id)
	})
}

// Sync re-pulls one platform; every portfolio query goes stale.
func (u *Usecase) Sync(ctx context.Context, id string) (*platform.SyncResult, error) {
	return query.Mutate(ctx, u.queries, func(ctx context.Context) (*platform.SyncResult, error) {
		return u.platforms.Sync(ctx, id)
	}, query.PortfolioAll)
}

// ChartPeriod is the last chart period the user picked.
func (u *Usecase) ChartPeriod() portfolio.Period { return u.state.State().ChartPeriod }

// Focus revalidates stale refetch-on-focus queries.
func (u *Usecase) Focus(ctx context.Context) { u.queries.Focus(ctx) }

// Linked invalidates the connected platforms after a linking session.
func (u *Usecase) Linked() { u.queries.Invalidate(query.PlatformsConnected) }

// Reset drops the cache and the portfolio snapshot.
func (u *Usecase) Reset(ctx context.Context) error {
	u.queries.Clear()
	return u.state.Reset(ctx)
}
