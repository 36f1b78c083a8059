package pricingmock

import (
	"context"
	"errors"
	"testing"

	"altrion-client/internal/domain/loan"
)

func TestCalculator(t *testing.T) {
	want := &loan.Response{Summary: loan.Summary{TotalLoan: 100}}
	m := New(func(_ context.Context, req loan.Request) (*loan.Response, error) {
		if req.Months != 12 {
			t.Fatalf("request mismatch: %+v", req)
		}
		return want, nil
	})
	got, err := m.Calculate(context.Background(), loan.Request{Months: 12})
	if err != nil || got != want {
		t.Fatalf("Calculate: got (%v, %v)", got, err)
	}
	if m.Calls() != 1 {
		t.Fatalf("want 1 call, got %d", m.Calls())
	}

	m = &Calculator{}
	if _, err := m.Calculate(context.Background(), loan.Request{}); !errors.Is(err, errUnimplemented) {
		t.Fatalf("default: want errUnimplemented, got %v", err)
	}
}
