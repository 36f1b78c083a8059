package portfolio

import "testing"

func TestAggregate_MergesBySymbol(t *testing.T) {
	assets := []Asset{
		{ID: "a1", Symbol: "BTC", Name: "Bitcoin", Amount: 1, Value: 60000, Price: 60000, Platform: "Coinbase", Type: AssetCrypto},
		{ID: "a2", Symbol: "AAPL", Name: "Apple", Amount: 10, Value: 1900, Price: 190, Platform: "Robinhood", Type: AssetStock},
		{ID: "a3", Symbol: "BTC", Name: "Bitcoin", Amount: 0.5, Value: 30000, Price: 60000, Platform: "MetaMask", Type: AssetCrypto},
		{ID: "a4", Symbol: "BTC", Name: "Bitcoin", Amount: 0.25, Value: 15000, Price: 60000, Platform: "Coinbase", Type: AssetCrypto},
	}
	got := Aggregate(assets)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	btc := got[0]
	if btc.ID != "a1" || btc.Amount != 1.75 || btc.Value != 105000 {
		t.Fatalf("unexpected BTC holding: %+v", btc)
	}
	if len(btc.Platforms) != 2 || btc.Platforms[0] != "Coinbase" || btc.Platforms[1] != "MetaMask" {
		t.Fatalf("platforms = %v", btc.Platforms)
	}
	if got[1].Symbol != "AAPL" {
		t.Fatalf("order not preserved: %v", got[1].Symbol)
	}
}

func TestAllocate(t *testing.T) {
	p := &Portfolio{
		TotalValue: 1000,
		Assets: []Asset{
			{Value: 500, Type: AssetCrypto},
			{Value: 300, Type: AssetStock},
			{Value: 200, Type: AssetStablecoin},
		},
	}
	a := p.Allocate()
	if a.Crypto != 50 || a.Stocks != 30 || a.Cash != 20 {
		t.Fatalf("allocation = %+v", a)
	}
	if (&Portfolio{}).Allocate() != (Allocation{}) {
		t.Fatal("empty portfolio should allocate to zero")
	}
	var nilP *Portfolio
	if nilP.Allocate() != (Allocation{}) {
		t.Fatal("nil portfolio should allocate to zero")
	}
}

func TestCollateralizable(t *testing.T) {
	if !AssetCrypto.Collateralizable() || !AssetStablecoin.Collateralizable() {
		t.Fatal("crypto and stablecoins are collateral")
	}
	if AssetStock.Collateralizable() {
		t.Fatal("equities are not collateral")
	}
}
