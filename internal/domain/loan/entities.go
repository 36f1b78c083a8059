package loan

import (
	"errors"
	"time"
)

var (
	ErrNotFound      = errors.New("loan application not found")
	ErrInvalidStatus = errors.New("invalid loan application status")
)

type PayoutCurrency string

const (
	PayoutUSD  PayoutCurrency = "USD"
	PayoutUSDT PayoutCurrency = "USDT"
)

type Bank string

const (
	BankChase Bank = "chase"
	BankBofA  Bank = "bofa"
)

// BankLabel is the display name of a payout bank.
func BankLabel(b Bank) string {
	switch b {
	case BankChase:
		return "Chase"
	case BankBofA:
		return "Bank of America"
	default:
		return string(b)
	}
}

// Terms lists the allowed loan durations in months.
var Terms = []int{6, 12, 18, 24, 36}

// ---- pricing request ----

type AssetAllocation struct {
	Symbol        string  `json:"symbol" validate:"required"`
	AllocationUSD float64 `json:"allocation_usd" validate:"gt=0"`
}

// Request is the body of POST /loan/calculate. It is built once and not mutated.
type Request struct {
	Assets         []AssetAllocation `json:"assets" validate:"required,min=1,dive"`
	Months         int               `json:"months" validate:"oneof=6 12 18 24 36"`
	PayoutCurrency PayoutCurrency    `json:"payout_currency" validate:"oneof=USD USDT"`
	Bank           Bank              `json:"bank" validate:"oneof=chase bofa"`
}

// TotalAllocation sums allocation_usd over all assets.
func (r Request) TotalAllocation() float64 {
	var total float64
	for _, a := range r.Assets {
		total += a.AllocationUSD
	}
	return total
}

// ---- pricing response ----

type Analyst struct {
	Markdown string `json:"markdown"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
	UsedLLM  bool   `json:"used_llm"`
}

type Summary struct {
	TotalCollateral float64 `json:"total_collateral"`
	TotalLoan       float64 `json:"total_loan"`
	PortfolioLTV    float64 `json:"portfolio_ltv"`
	LiquidationLTV  float64 `json:"liquidation_ltv"`
	MarginCallLTV   float64 `json:"margin_call_ltv"`
	InterestRate    float64 `json:"interest_rate"`
	MonthlyEMI      float64 `json:"monthly_emi"`
	Months          int     `json:"months"`
	Analyst         Analyst `json:"analyst"`
}

type AmortizationRow struct {
	Month          int     `json:"month"`
	OpeningBalance float64 `json:"opening_balance"`
	Payment        float64 `json:"payment"`
	Interest       float64 `json:"interest"`
	Principal      float64 `json:"principal"`
	EndingBalance  float64 `json:"ending_balance"`
}

type Schedule struct {
	Portfolio []AmortizationRow            `json:"portfolio"`
	Assets    map[string][]AmortizationRow `json:"assets"`
	Payments  map[string]float64           `json:"payments"`
}

type AssetDetail struct {
	Symbol            string   `json:"symbol"`
	Tier              string   `json:"tier"`
	LTV               float64  `json:"ltv"`
	BaseRate          float64  `json:"base_rate"`
	RiskPremium       float64  `json:"risk_premium"`
	VolatilityPremium float64  `json:"volatility_premium"`
	InterestRate      float64  `json:"interest_rate"`
	CollateralUSD     float64  `json:"collateral_usd"`
	LoanUSD           float64  `json:"loan_usd"`
	PctChange30d      *float64 `json:"pct_change_30d"`
}

// Response is the result of one pricing call. Treated as read-only.
type Response struct {
	Summary  Summary       `json:"summary"`
	Schedule Schedule      `json:"schedule"`
	Assets   []AssetDetail `json:"assets"`
}

// ---- screen payload pieces ----

// SelectedAsset is a user-chosen slice of a holding pledged as collateral.
type SelectedAsset struct {
	Name   string  `json:"name"`
	Symbol string  `json:"symbol"`
	Amount float64 `json:"amount"`
	Value  float64 `json:"value"`
}

// LoanTerms are the request fields echoed on the summary screen.
type LoanTerms struct {
	Months         int            `json:"months"`
	PayoutCurrency PayoutCurrency `json:"payout_currency"`
	Bank           Bank           `json:"bank"`
}

func (r Request) Terms() LoanTerms {
	return LoanTerms{Months: r.Months, PayoutCurrency: r.PayoutCurrency, Bank: r.Bank}
}

// ---- persisted application ----

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusActive, StatusCompleted:
		return true
	}
	return false
}

// Table: loan_applications
type Application struct {
	ID              string          `gorm:"primaryKey;column:id;size:16" json:"id"`
	TotalCollateral float64         `gorm:"column:total_collateral;type:decimal(18,2)" json:"totalCollateral"`
	LoanAmount      float64         `gorm:"column:loan_amount;type:decimal(18,2)" json:"loanAmount"`
	InterestRate    float64         `gorm:"column:interest_rate;type:decimal(8,4)" json:"interestRate"`
	LTV             float64         `gorm:"column:ltv;type:decimal(8,4)" json:"ltv"`
	SelectedAssets  []SelectedAsset `gorm:"column:selected_assets;type:text;serializer:json" json:"selectedAssets"`
	Status          Status          `gorm:"column:status;size:16;index;default:'pending'" json:"status"`
	SubmittedAt     time.Time       `gorm:"column:submitted_at;index" json:"submittedAt"`
	UpdatedAt       time.Time       `gorm:"column:updated_at" json:"updatedAt"`
}

func (Application) TableName() string { return "loan_applications" }

// Draft holds the fields a caller supplies; id, status and timestamps are assigned on add.
type Draft struct {
	TotalCollateral float64
	LoanAmount      float64
	InterestRate    float64
	LTV             float64
	SelectedAssets  []SelectedAsset
}
