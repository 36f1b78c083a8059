// Package loanflow drives the loan application screens as an explicit state machine:
// Idle, Selecting, Reviewing, Summarizing, Confirmed. Each state carries the
// payload its screen renders.
package loanflow

import (
	"context"
	"errors"
	"sync"
	"time"

	"altrion-client/internal/domain/apperr"
	"altrion-client/internal/domain/loan"
	"altrion-client/internal/domain/portfolio"
	"altrion-client/internal/logger"

	"go.uber.org/zap"
)

// Screen routes used as redirect targets when a screen is entered without its payload.
const (
	RouteDashboard = "/dashboard"
	RouteLoan      = "/dashboard/loan"
	RouteReview    = "/dashboard/loan/review"
	RouteSummary   = "/dashboard/loan/summary"
	RouteConfirmed = "/dashboard/loan/confirmation"
)

var (
	ErrCalculationPending = errors.New("loan calculation already in progress")
	ErrSubmissionPending  = errors.New("loan submission already in progress")
	// ErrSuperseded is returned to a caller whose in-flight call finished after the
	// flow moved on; its result was dropped.
	ErrSuperseded = errors.New("loan flow changed while the request was in flight")
)

type State int

const (
	StateIdle State = iota
	StateSelecting
	StateReviewing
	StateSummarizing
	StateConfirmed
)

func (s State) String() string {
	switch s {
	case StateSelecting:
		return "selecting"
	case StateReviewing:
		return "reviewing"
	case StateSummarizing:
		return "summarizing"
	case StateConfirmed:
		return "confirmed"
	default:
		return "idle"
	}
}

func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Review is the payload of the review screen.
type Review struct {
	Request         loan.Request         `json:"request"`
	SelectedAssets  []loan.SelectedAsset `json:"selectedAssets"`
	TotalCollateral float64              `json:"totalCollateral"`
}

// Summary is the payload of the summary screen. It keeps the review it came
// from so Back restores it exactly.
type Summary struct {
	Response       *loan.Response       `json:"response"`
	SelectedAssets []loan.SelectedAsset `json:"selectedAssets"`
	Terms          loan.LoanTerms       `json:"terms"`
	Review         Review               `json:"-"`
}

// Confirmation is the payload of the confirmation screen.
type Confirmation struct {
	Response       *loan.Response       `json:"response"`
	SelectedAssets []loan.SelectedAsset `json:"selectedAssets"`
	ApplicationID  string               `json:"applicationId"`
	SubmittedAt    time.Time            `json:"submittedAt"`
}

// Calculator prices a loan request.
type Calculator interface {
	Calculate(ctx context.Context, req loan.Request) (*loan.Response, error)
}

// Recorder persists submitted applications.
type Recorder interface {
	Add(ctx context.Context, d loan.Draft) (*loan.Application, error)
	SetActive(ctx context.Context, a *loan.Application) error
}

// Status is a snapshot of the machine for status displays.
type Status struct {
	State      State  `json:"state"`
	Pending    bool   `json:"pending"`
	Submitting bool   `json:"submitting"`
	Error      string `json:"error,omitempty"`
}

type Machine struct {
	mu    sync.Mutex
	state State

	selection    *Selection
	review       *Review
	summary      *Summary
	confirmation *Confirmation

	calculating bool
	submitting  bool
	lastErr     error
	// gen advances on every transition; a call that started under an older
	// generation drops its result.
	gen uint64

	calc Calculator
	apps Recorder
	log  *zap.Logger
}

func NewMachine(calc Calculator, apps Recorder, log *zap.Logger) *Machine {
	return &Machine{calc: calc, apps: apps, log: logger.OrNop(log)}
}

func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Machine) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := Status{State: m.state, Pending: m.calculating, Submitting: m.submitting}
	if m.lastErr != nil {
		st.Error = m.lastErr.Error()
	}
	return st
}

// LastError is the failure of the most recent confirm or submit, cleared on success.
func (m *Machine) LastError() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

// transition moves to s and invalidates every in-flight call. Caller holds mu.
func (m *Machine) transition(s State) {
	m.state = s
	m.gen++
	m.calculating = false
	m.submitting = false
	m.lastErr = nil
}

// Begin enters the selection screen with the given holdings. An existing
// selection is kept, with its holdings refreshed; a finished or absent flow
// starts over with defaults.
func (m *Machine) Begin(holdings []portfolio.Holding) SelectionView {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch m.state {
	case StateIdle, StateConfirmed:
		m.selection = newSelection(holdings)
		m.review, m.summary, m.confirmation = nil, nil, nil
	default:
		if m.selection == nil {
			m.selection = newSelection(holdings)
		} else {
			m.selection.setHoldings(holdings)
		}
		m.review, m.summary = nil, nil
	}
	if m.state != StateSelecting {
		m.transition(StateSelecting)
	}
	return m.selection.view(TabAll)
}

// Selection returns the selection screen filtered by tab.
func (m *Machine) Selection(tab Tab) (SelectionView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateSelecting || m.selection == nil {
		return SelectionView{}, &apperr.StateMissingError{Screen: "loan application", RedirectTo: RouteLoan}
	}
	return m.selection.view(tab), nil
}

// Edit applies fn to the selection. Only valid while selecting.
func (m *Machine) Edit(fn func(*Selection) error) (SelectionView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateSelecting || m.selection == nil {
		return SelectionView{}, &apperr.StateMissingError{Screen: "loan application", RedirectTo: RouteLoan}
	}
	if err := fn(m.selection); err != nil {
		return SelectionView{}, err
	}
	return m.selection.view(TabAll), nil
}

func (m *Machine) CanContinue() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state == StateSelecting && m.selection != nil && m.selection.CanContinue()
}

// Continue builds the loan request from the selection and moves to review.
// No network call is made; invalid selections fail with a ValidationError.
func (m *Machine) Continue() (*Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateSelecting || m.selection == nil {
		return nil, &apperr.StateMissingError{Screen: "loan application", RedirectTo: RouteLoan}
	}
	r, err := m.selection.buildReview()
	if err != nil {
		return nil, err
	}
	m.review = r
	m.transition(StateReviewing)
	cp := *r
	return &cp, nil
}

// Review returns the review payload.
func (m *Machine) Review() (*Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateReviewing || m.review == nil {
		return nil, &apperr.StateMissingError{Screen: "loan review", RedirectTo: RouteLoan}
	}
	cp := *m.review
	return &cp, nil
}

// Confirm prices the reviewed request with exactly one call. While that call is
// in flight further confirms fail with ErrCalculationPending. On failure the
// review is kept and the error recorded; there is no automatic retry. The call
// is not tied to ctx cancellation; only the pricing client timeout ends it.
func (m *Machine) Confirm(ctx context.Context) (*Summary, error) {
	ctx = context.WithoutCancel(ctx)
	m.mu.Lock()
	if m.state != StateReviewing || m.review == nil {
		m.mu.Unlock()
		return nil, &apperr.StateMissingError{Screen: "loan review", RedirectTo: RouteLoan}
	}
	if m.calculating {
		m.mu.Unlock()
		return nil, ErrCalculationPending
	}
	m.calculating = true
	m.lastErr = nil
	gen := m.gen
	review := *m.review
	m.mu.Unlock()

	resp, err := m.calc.Calculate(ctx, review.Request)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gen != gen {
		m.log.Info("dropping loan calculation for superseded review")
		return nil, ErrSuperseded
	}
	m.calculating = false
	if err != nil {
		m.lastErr = err
		m.log.Warn("loan calculation failed", zap.String("kind", string(apperr.KindOf(err))), zap.Error(err))
		return nil, err
	}

	m.summary = &Summary{
		Response:       resp,
		SelectedAssets: review.SelectedAssets,
		Terms:          review.Request.Terms(),
		Review:         review,
	}
	m.transition(StateSummarizing)
	cp := *m.summary
	return &cp, nil
}

// Summary returns the summary payload.
func (m *Machine) Summary() (*Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateSummarizing || m.summary == nil {
		return nil, &apperr.StateMissingError{Screen: "loan summary", RedirectTo: RouteLoan}
	}
	cp := *m.summary
	return &cp, nil
}

// Submit records the application shown on the summary screen, marks it active
// and moves to confirmed. Like Confirm it outlives a cancelled ctx.
func (m *Machine) Submit(ctx context.Context) (*Confirmation, error) {
	ctx = context.WithoutCancel(ctx)
	m.mu.Lock()
	if m.state != StateSummarizing || m.summary == nil {
		m.mu.Unlock()
		return nil, &apperr.StateMissingError{Screen: "loan summary", RedirectTo: RouteLoan}
	}
	if m.submitting {
		m.mu.Unlock()
		return nil, ErrSubmissionPending
	}
	m.submitting = true
	gen := m.gen
	summary := *m.summary
	m.mu.Unlock()

	s := summary.Response.Summary
	app, err := m.apps.Add(ctx, loan.Draft{
		TotalCollateral: s.TotalCollateral,
		LoanAmount:      s.TotalLoan,
		InterestRate:    s.InterestRate,
		LTV:             s.PortfolioLTV,
		SelectedAssets:  summary.SelectedAssets,
	})
	if err == nil {
		if aerr := m.apps.SetActive(ctx, app); aerr != nil {
			m.log.Warn("set active loan", zap.String("id", app.ID), zap.Error(aerr))
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gen != gen {
		// the application is already recorded; only the screen transition is dropped
		return nil, ErrSuperseded
	}
	m.submitting = false
	if err != nil {
		m.lastErr = err
		return nil, err
	}
	m.confirmation = &Confirmation{
		Response:       summary.Response,
		SelectedAssets: summary.SelectedAssets,
		ApplicationID:  app.ID,
		SubmittedAt:    app.SubmittedAt,
	}
	m.summary, m.review = nil, nil
	m.transition(StateConfirmed)
	cp := *m.confirmation
	return &cp, nil
}

// Confirmation returns the confirmation payload. Without one the caller goes
// back to the dashboard.
func (m *Machine) Confirmation() (*Confirmation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateConfirmed || m.confirmation == nil {
		return nil, &apperr.StateMissingError{Screen: "loan confirmation", RedirectTo: RouteDashboard}
	}
	cp := *m.confirmation
	return &cp, nil
}

// Back steps one screen back. From review the selection is kept as it was; from
// summary the original review payload is restored. From selection the flow ends.
// It returns the route of the screen now shown.
func (m *Machine) Back() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch m.state {
	case StateReviewing:
		m.review = nil
		m.transition(StateSelecting)
		return RouteLoan, nil
	case StateSummarizing:
		r := m.summary.Review
		m.review = &r
		m.summary = nil
		m.transition(StateReviewing)
		return RouteReview, nil
	case StateSelecting:
		m.reset()
		return RouteDashboard, nil
	default:
		return RouteDashboard, &apperr.StateMissingError{Screen: "loan flow", RedirectTo: RouteDashboard}
	}
}

// Reset abandons the flow. In-flight results are dropped when they arrive.
func (m *Machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reset()
}

func (m *Machine) reset() {
	m.selection, m.review, m.summary, m.confirmation = nil, nil, nil, nil
	m.transition(StateIdle)
}
