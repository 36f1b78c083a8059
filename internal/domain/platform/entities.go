package platform

import "errors"

var ErrUnknownPlatform = errors.New("unknown platform")

type Category string

const (
	CategoryCrypto Category = "crypto"
	CategoryBank   Category = "bank"
	CategoryBroker Category = "broker"
)

type Platform struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Icon     string   `json:"icon"`
	Category Category `json:"category"`
}

// Catalog is the static list of linkable platforms grouped for the picker.
type Catalog struct {
	Crypto  []Platform `json:"crypto"`
	Banks   []Platform `json:"banks"`
	Brokers []Platform `json:"brokers"`
}

func (c Catalog) All() []Platform {
	out := make([]Platform, 0, len(c.Crypto)+len(c.Banks)+len(c.Brokers))
	out = append(out, c.Crypto...)
	out = append(out, c.Banks...)
	return append(out, c.Brokers...)
}

func (c Catalog) Find(id string) (Platform, bool) {
	for _, p := range c.All() {
		if p.ID == id {
			return p, true
		}
	}
	return Platform{}, false
}

type ConnectionStatus string

const (
	StatusPending    ConnectionStatus = "pending"
	StatusConnecting ConnectionStatus = "connecting"
	StatusSuccess    ConnectionStatus = "success"
	StatusError      ConnectionStatus = "error"
)

// Terminal reports whether a connection attempt has finished.
func (s ConnectionStatus) Terminal() bool { return s == StatusSuccess || s == StatusError }

type ConnectionState struct {
	PlatformID string           `json:"platformId"`
	Status     ConnectionStatus `json:"status"`
	Message    string           `json:"message,omitempty"`
}

type ConnectionResult struct {
	PlatformID string           `json:"platformId"`
	Status     ConnectionStatus `json:"status"`
	Message    string           `json:"message,omitempty"`
}

type SyncResult struct {
	SyncedAt string `json:"syncedAt"`
}

// Credentials is the username/password exchange used for banks and brokers.
type Credentials struct {
	Username      string `json:"username" validate:"required"`
	Password      string `json:"password" validate:"required"`
	TwoFactorCode string `json:"twoFactorCode,omitempty" validate:"omitempty,len=6"`
}

// APIKey is the key exchange used for crypto exchanges.
type APIKey struct {
	APIKey     string `json:"apiKey" validate:"required,min=10"`
	APISecret  string `json:"apiSecret,omitempty" validate:"omitempty,min=10"`
	Passphrase string `json:"passphrase,omitempty"`
}
