package loan

import (
	"math"
	"testing"
)

// buildSchedule produces an equal-installment schedule the way the pricing service does.
func buildSchedule(principal, annualRate float64, months int) []AmortizationRow {
	r := annualRate / 12
	emi := principal * r * math.Pow(1+r, float64(months)) / (math.Pow(1+r, float64(months)) - 1)
	rows := make([]AmortizationRow, 0, months)
	bal := principal
	for m := 1; m <= months; m++ {
		interest := bal * r
		p := emi - interest
		end := bal - p
		rows = append(rows, AmortizationRow{Month: m, OpeningBalance: bal, Payment: emi, Interest: interest, Principal: p, EndingBalance: end})
		bal = end
	}
	return rows
}

func TestCheckSchedule_ValidSchedules(t *testing.T) {
	for _, months := range Terms {
		for _, principal := range []float64{1_000, 25_000.5, 1_250_000} {
			rows := buildSchedule(principal, 0.085, months)
			if p := CheckSchedule("portfolio", rows); len(p) != 0 {
				t.Fatalf("months=%d principal=%v: unexpected problems %v", months, principal, p)
			}
			last := rows[len(rows)-1]
			if math.Abs(last.EndingBalance) > 1e-4 {
				t.Fatalf("schedule should amortize to zero, got %v", last.EndingBalance)
			}
		}
	}
}

func TestCheckSchedule_DetectsBrokenChain(t *testing.T) {
	rows := buildSchedule(10_000, 0.1, 6)
	rows[3].OpeningBalance += 50
	if p := CheckSchedule("portfolio", rows); len(p) == 0 {
		t.Fatal("expected a violation for a broken opening/ending chain")
	}
}

func TestCheckSchedule_DetectsUnorderedMonths(t *testing.T) {
	rows := buildSchedule(10_000, 0.1, 6)
	rows[2], rows[3] = rows[3], rows[2]
	if p := CheckSchedule("portfolio", rows); len(p) == 0 {
		t.Fatal("expected a violation for out-of-order months")
	}
}

func TestSchedule_CheckIncludesAssets(t *testing.T) {
	bad := buildSchedule(5_000, 0.1, 6)
	bad[0].EndingBalance = 0
	s := Schedule{
		Portfolio: buildSchedule(10_000, 0.1, 6),
		Assets:    map[string][]AmortizationRow{"BTC": bad},
	}
	if p := s.Check(); len(p) == 0 {
		t.Fatal("asset schedule violation should be reported")
	}
}

func TestStatus_Valid(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusApproved, StatusRejected, StatusActive, StatusCompleted} {
		if !s.Valid() {
			t.Fatalf("%s should be valid", s)
		}
	}
	if Status("cancelled").Valid() {
		t.Fatal("unknown status should be invalid")
	}
}

func TestRequest_TotalAllocationAndTerms(t *testing.T) {
	r := Request{
		Assets:         []AssetAllocation{{Symbol: "BTC", AllocationUSD: 1000}, {Symbol: "ETH", AllocationUSD: 250.5}},
		Months:         12,
		PayoutCurrency: PayoutUSDT,
		Bank:           BankBofA,
	}
	if r.TotalAllocation() != 1250.5 {
		t.Fatalf("total = %v", r.TotalAllocation())
	}
	if got := r.Terms(); got.Months != 12 || got.PayoutCurrency != PayoutUSDT || got.Bank != BankBofA {
		t.Fatalf("terms = %+v", got)
	}
	if BankLabel(BankBofA) != "Bank of America" || BankLabel("other") != "other" {
		t.Fatal("bank labels")
	}
}
