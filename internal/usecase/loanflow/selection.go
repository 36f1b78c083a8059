package loanflow

import (
	"errors"

	"altrion-client/internal/domain/apperr"
	"altrion-client/internal/domain/form"
	"altrion-client/internal/domain/loan"
	"altrion-client/internal/domain/portfolio"

	"github.com/shopspring/decimal"
)

var ErrUnknownAsset = errors.New("unknown asset")

// Tab filters the holdings table on the selection screen.
type Tab string

const (
	TabAll    Tab = "all"
	TabCrypto Tab = "crypto"
	TabStocks Tab = "stocks"
	TabCash   Tab = "cash"
)

func (t Tab) Valid() bool {
	switch t {
	case TabAll, TabCrypto, TabStocks, TabCash:
		return true
	}
	return false
}

func (t Tab) matches(h portfolio.Holding) bool {
	switch t {
	case TabCrypto:
		return h.Type == portfolio.AssetCrypto
	case TabStocks:
		return h.Type == portfolio.AssetStock
	case TabCash:
		return h.Type == portfolio.AssetStablecoin
	default:
		return true
	}
}

// Selection is the editable state of the selection screen: which holdings are
// pledged, how much of each, and the requested terms.
type Selection struct {
	holdings []portfolio.Holding
	selected []string
	amounts  map[string]decimal.Decimal

	months int
	payout loan.PayoutCurrency
	bank   loan.Bank
}

func newSelection(holdings []portfolio.Holding) *Selection {
	return &Selection{
		holdings: append([]portfolio.Holding(nil), holdings...),
		amounts:  map[string]decimal.Decimal{},
		months:   12,
		payout:   loan.PayoutUSD,
		bank:     loan.BankChase,
	}
}

func (s *Selection) holding(id string) (portfolio.Holding, bool) {
	for _, h := range s.holdings {
		if h.ID == id {
			return h, true
		}
	}
	return portfolio.Holding{}, false
}

func (s *Selection) isSelected(id string) bool {
	for _, v := range s.selected {
		if v == id {
			return true
		}
	}
	return false
}

// setHoldings swaps in a fresh holdings list, dropping selections that vanished
// and clamping amounts to the new balances.
func (s *Selection) setHoldings(holdings []portfolio.Holding) {
	s.holdings = append([]portfolio.Holding(nil), holdings...)
	kept := s.selected[:0]
	for _, id := range s.selected {
		h, ok := s.holding(id)
		if !ok {
			delete(s.amounts, id)
			continue
		}
		kept = append(kept, id)
		s.amounts[id] = clamp(s.amounts[id], h.Amount)
	}
	s.selected = kept
}

// Toggle selects a holding at its full balance, or deselects it.
func (s *Selection) Toggle(id string) error {
	h, ok := s.holding(id)
	if !ok {
		return ErrUnknownAsset
	}
	if s.isSelected(id) {
		s.deselect(id)
		return nil
	}
	s.selected = append(s.selected, id)
	s.amounts[id] = decimal.NewFromFloat(h.Amount)
	return nil
}

func (s *Selection) deselect(id string) {
	out := s.selected[:0]
	for _, v := range s.selected {
		if v != id {
			out = append(out, v)
		}
	}
	s.selected = out
	delete(s.amounts, id)
}

// SelectAll selects every holding under tab at full balance, or deselects them
// all when every one is already selected.
func (s *Selection) SelectAll(tab Tab) error {
	if !tab.Valid() {
		return apperr.NewValidationError("tab", "must be one of: all crypto stocks cash")
	}
	var ids []string
	allSelected := true
	for _, h := range s.holdings {
		if !tab.matches(h) {
			continue
		}
		ids = append(ids, h.ID)
		if !s.isSelected(h.ID) {
			allSelected = false
		}
	}
	if len(ids) == 0 {
		return nil
	}
	if allSelected {
		for _, id := range ids {
			s.deselect(id)
		}
		return nil
	}
	for _, id := range ids {
		h, _ := s.holding(id)
		if !s.isSelected(id) {
			s.selected = append(s.selected, id)
		}
		if s.amounts[id].IsZero() {
			s.amounts[id] = decimal.NewFromFloat(h.Amount)
		}
	}
	return nil
}

// SetAmount sets the pledged quantity of a holding, clamped to [0, balance].
func (s *Selection) SetAmount(id string, amount float64) error {
	h, ok := s.holding(id)
	if !ok {
		return ErrUnknownAsset
	}
	s.amounts[id] = clamp(decimal.NewFromFloat(amount), h.Amount)
	return nil
}

// SetPercentage pledges pct percent of a holding's balance.
func (s *Selection) SetPercentage(id string, pct float64) error {
	h, ok := s.holding(id)
	if !ok {
		return ErrUnknownAsset
	}
	amount := decimal.NewFromFloat(h.Amount).Mul(decimal.NewFromFloat(pct)).Div(decimal.NewFromInt(100))
	s.amounts[id] = clamp(amount, h.Amount)
	return nil
}

// Terms are the requested loan terms.
type Terms struct {
	Months         int                 `json:"months" validate:"oneof=6 12 18 24 36"`
	PayoutCurrency loan.PayoutCurrency `json:"payoutCurrency" validate:"oneof=USD USDT"`
	Bank           loan.Bank           `json:"bank" validate:"oneof=chase bofa"`
}

func (s *Selection) SetTerms(t Terms) error {
	if err := form.Check(t); err != nil {
		return err
	}
	s.months, s.payout, s.bank = t.Months, t.PayoutCurrency, t.Bank
	return nil
}

func (s *Selection) Terms() Terms {
	return Terms{Months: s.months, PayoutCurrency: s.payout, Bank: s.bank}
}

// CanContinue reports whether the selection would produce a loan request: at
// least one holding selected and at least one crypto or stablecoin pledge above zero.
func (s *Selection) CanContinue() bool {
	return len(s.selected) > 0 && len(s.collateral()) > 0
}

type pledge struct {
	holding portfolio.Holding
	amount  decimal.Decimal
	value   decimal.Decimal
}

// collateral lists selected crypto/stablecoin pledges with a positive amount, in
// holdings order.
func (s *Selection) collateral() []pledge {
	var out []pledge
	for _, h := range s.holdings {
		if !s.isSelected(h.ID) || !h.Type.Collateralizable() {
			continue
		}
		amt := s.amounts[h.ID]
		if !amt.IsPositive() {
			continue
		}
		out = append(out, pledge{holding: h, amount: amt, value: amt.Mul(decimal.NewFromFloat(h.Price))})
	}
	return out
}

// TotalCollateral is the USD value of every selected pledge, equities included.
func (s *Selection) TotalCollateral() float64 {
	total := decimal.Zero
	for _, h := range s.holdings {
		if s.isSelected(h.ID) {
			total = total.Add(s.amounts[h.ID].Mul(decimal.NewFromFloat(h.Price)))
		}
	}
	return total.InexactFloat64()
}

// selectedAssets lists every selected holding, equities included, in holdings order.
func (s *Selection) selectedAssets() []loan.SelectedAsset {
	out := make([]loan.SelectedAsset, 0, len(s.selected))
	for _, h := range s.holdings {
		if !s.isSelected(h.ID) {
			continue
		}
		amt := s.amounts[h.ID]
		out = append(out, loan.SelectedAsset{
			Name:   h.Name,
			Symbol: h.Symbol,
			Amount: amt.InexactFloat64(),
			Value:  amt.Mul(decimal.NewFromFloat(h.Price)).InexactFloat64(),
		})
	}
	return out
}

func (s *Selection) buildReview() (*Review, error) {
	if len(s.selected) == 0 {
		return nil, apperr.NewValidationError("assets", "Select at least one asset")
	}
	hasEligible := false
	for _, id := range s.selected {
		if h, ok := s.holding(id); ok && h.Type.Collateralizable() {
			hasEligible = true
			break
		}
	}
	if !hasEligible {
		return nil, apperr.NewValidationError("assets", "Only crypto and stablecoin assets can be used as collateral")
	}
	pledges := s.collateral()
	if len(pledges) == 0 {
		return nil, apperr.NewValidationError("amounts", "Enter a collateral amount greater than zero")
	}

	req := loan.Request{
		Assets:         make([]loan.AssetAllocation, 0, len(pledges)),
		Months:         s.months,
		PayoutCurrency: s.payout,
		Bank:           s.bank,
	}
	for _, p := range pledges {
		req.Assets = append(req.Assets, loan.AssetAllocation{Symbol: p.holding.Symbol, AllocationUSD: p.value.InexactFloat64()})
	}
	if err := form.Check(req); err != nil {
		return nil, err
	}
	return &Review{Request: req, SelectedAssets: s.selectedAssets(), TotalCollateral: s.TotalCollateral()}, nil
}

// SelectionView is the read model of the selection screen.
type SelectionView struct {
	Tab             Tab                 `json:"tab"`
	Holdings        []portfolio.Holding `json:"holdings"`
	Selected        []string            `json:"selected"`
	Amounts         map[string]float64  `json:"amounts"`
	Terms           Terms               `json:"terms"`
	TotalCollateral float64             `json:"totalCollateral"`
	CanContinue     bool                `json:"canContinue"`
}

func (s *Selection) view(tab Tab) SelectionView {
	if !tab.Valid() {
		tab = TabAll
	}
	v := SelectionView{
		Tab:             tab,
		Holdings:        []portfolio.Holding{},
		Selected:        append([]string{}, s.selected...),
		Amounts:         make(map[string]float64, len(s.amounts)),
		Terms:           s.Terms(),
		TotalCollateral: s.TotalCollateral(),
		CanContinue:     s.CanContinue(),
	}
	for _, h := range s.holdings {
		if tab.matches(h) {
			v.Holdings = append(v.Holdings, h)
		}
	}
	for id, a := range s.amounts {
		v.Amounts[id] = a.InexactFloat64()
	}
	return v
}

func clamp(a decimal.Decimal, max float64) decimal.Decimal {
	upper := decimal.NewFromFloat(max)
	if a.GreaterThan(upper) {
		return upper
	}
	if a.IsNegative() {
		return decimal.Zero
	}
	return a
}
