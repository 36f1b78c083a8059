package query

import (
	"strings"
	"time"
)

// Key identifies a cached query as a tuple of segments. Invalidation matches by prefix.
type Key []string

func (k Key) String() string { return strings.Join(k, "/") }

// HasPrefix reports whether k starts with every segment of prefix.
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i := range prefix {
		if k[i] != prefix[i] {
			return false
		}
	}
	return true
}

var (
	PortfolioAll         = Key{"portfolio"}
	PortfolioDetail      = Key{"portfolio", "detail"}
	PortfolioEligibility = Key{"portfolio", "eligibility"}

	PlatformsAll       = Key{"platforms"}
	PlatformsList      = Key{"platforms", "list"}
	PlatformsConnected = Key{"platforms", "connected"}
)

func PortfolioHistory(period string) Key { return Key{"portfolio", "history", period} }

func PortfolioAsset(id string) Key { return Key{"portfolio", "asset", id} }

func PlatformVerify(id string) Key { return Key{"platforms", "verify", id} }

// Freshness presets per query family.
var (
	DefaultOptions = Options{StaleTime: time.Minute, Retry: 3}

	PortfolioDetailOptions = Options{
		StaleTime:       30 * time.Second,
		RefetchInterval: time.Minute,
		RefetchOnFocus:  true,
		Retry:           3,
	}
	PortfolioHistoryOptions     = Options{StaleTime: 5 * time.Minute, Retry: 3}
	PortfolioEligibilityOptions = Options{StaleTime: time.Minute, Retry: 3}
	PlatformsListOptions        = Options{StaleTime: 5 * time.Minute, Retry: 3}
	PlatformsConnectedOptions   = Options{StaleTime: 30 * time.Second, Retry: 3}
)
