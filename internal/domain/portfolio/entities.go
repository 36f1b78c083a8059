package portfolio

type AssetType string

const (
	AssetCrypto     AssetType = "crypto"
	AssetStock      AssetType = "stock"
	AssetStablecoin AssetType = "stablecoin"
)

// Collateralizable reports whether holdings of this type may back a loan.
// Equities are excluded.
func (t AssetType) Collateralizable() bool {
	return t == AssetCrypto || t == AssetStablecoin
}

type Asset struct {
	ID        string    `json:"id"`
	Symbol    string    `json:"symbol"`
	Name      string    `json:"name"`
	Amount    float64   `json:"amount"`
	Value     float64   `json:"value"`
	Price     float64   `json:"price"`
	Change24h float64   `json:"change24h"`
	Platform  string    `json:"platform"`
	Type      AssetType `json:"type"`
}

type Portfolio struct {
	TotalValue float64 `json:"totalValue"`
	Change24h  float64 `json:"change24h"`
	Assets     []Asset `json:"assets"`
}

type LoanEligibility struct {
	MaxLoanAmount      float64 `json:"maxLoanAmount"`
	CurrentLTV         float64 `json:"currentLTV"`
	MaxLTV             float64 `json:"maxLTV"`
	EligibleCollateral float64 `json:"eligibleCollateral"`
	RiskScore          float64 `json:"riskScore"`
	RiskLevel          string  `json:"riskLevel"`
}

type Period string

const (
	Period1H  Period = "1H"
	Period24H Period = "24H"
	Period7D  Period = "7D"
	Period1M  Period = "1M"
	Period1Y  Period = "1Y"
)

func (p Period) Valid() bool {
	switch p {
	case Period1H, Period24H, Period7D, Period1M, Period1Y:
		return true
	}
	return false
}

type HistoryPoint struct {
	Timestamp int64   `json:"timestamp"`
	Value     float64 `json:"value"`
}

// Holding is one symbol aggregated across every platform that holds it.
type Holding struct {
	ID        string    `json:"id"`
	Symbol    string    `json:"symbol"`
	Name      string    `json:"name"`
	Amount    float64   `json:"amount"`
	Value     float64   `json:"value"`
	Price     float64   `json:"price"`
	Change24h float64   `json:"change24h"`
	Platforms []string  `json:"platforms"`
	Type      AssetType `json:"type"`
}

// Aggregate merges assets by symbol, keeping first-seen order. The first asset of a
// symbol supplies id, name, price and change.
func Aggregate(assets []Asset) []Holding {
	out := make([]Holding, 0, len(assets))
	index := make(map[string]int, len(assets))
	for _, a := range assets {
		if i, ok := index[a.Symbol]; ok {
			h := &out[i]
			h.Amount += a.Amount
			h.Value += a.Value
			if !contains(h.Platforms, a.Platform) {
				h.Platforms = append(h.Platforms, a.Platform)
			}
			continue
		}
		index[a.Symbol] = len(out)
		out = append(out, Holding{
			ID:        a.ID,
			Symbol:    a.Symbol,
			Name:      a.Name,
			Amount:    a.Amount,
			Value:     a.Value,
			Price:     a.Price,
			Change24h: a.Change24h,
			Platforms: []string{a.Platform},
			Type:      a.Type,
		})
	}
	return out
}

// Allocation is the crypto/stocks/cash split of a portfolio.
type Allocation struct {
	Crypto      float64 `json:"crypto"`
	Stocks      float64 `json:"stocks"`
	Cash        float64 `json:"cash"`
	CryptoValue float64 `json:"cryptoValue"`
	StocksValue float64 `json:"stocksValue"`
	CashValue   float64 `json:"cashValue"`
}

// Allocate computes percentages against TotalValue. A zero total yields zero percentages.
func (p *Portfolio) Allocate() Allocation {
	var a Allocation
	if p == nil {
		return a
	}
	for _, asset := range p.Assets {
		switch asset.Type {
		case AssetCrypto:
			a.CryptoValue += asset.Value
		case AssetStock:
			a.StocksValue += asset.Value
		case AssetStablecoin:
			a.CashValue += asset.Value
		}
	}
	if p.TotalValue > 0 {
		a.Crypto = a.CryptoValue / p.TotalValue * 100
		a.Stocks = a.StocksValue / p.TotalValue * 100
		a.Cash = a.CashValue / p.TotalValue * 100
	}
	return a
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
