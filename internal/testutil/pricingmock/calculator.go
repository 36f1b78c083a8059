package pricingmock

import (
	"context"
	"errors"
	"sync/atomic"

	"altrion-client/internal/domain/loan"
)

var errUnimplemented = errors.New("pricingmock: CalculateFn not set")

// Calculator is a function-backed pricing mock that counts calls.
type Calculator struct {
	CalculateFn func(ctx context.Context, req loan.Request) (*loan.Response, error)
	calls       atomic.Int32
}

func New(fn func(context.Context, loan.Request) (*loan.Response, error)) *Calculator {
	return &Calculator{CalculateFn: fn}
}

func (m *Calculator) Calculate(ctx context.Context, req loan.Request) (*loan.Response, error) {
	m.calls.Add(1)
	if m.CalculateFn != nil {
		return m.CalculateFn(ctx, req)
	}
	return nil, errUnimplemented
}

func (m *Calculator) Calls() int { return int(m.calls.Load()) }
