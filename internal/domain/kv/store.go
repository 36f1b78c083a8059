// Package kv defines the JSON document store that backs the persisted client state.
package kv

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("kv: key not found")

// Persisted state keys.
const (
	KeyAuth              = "altrion-auth"
	KeyDisplayName       = "altrion-displayName"
	KeyConnectedAccounts = "altrion-connected-accounts"
	KeyPortfolio         = "altrion-portfolio"
	KeyActiveLoan        = "altrion-active-loan"
)

// Store keeps one JSON document per key.
type Store interface {
	// Get decodes the document at key into out, or returns ErrNotFound.
	Get(ctx context.Context, key string, out any) error
	Set(ctx context.Context, key string, v any) error
	Delete(ctx context.Context, keys ...string) error
}
