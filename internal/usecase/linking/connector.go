package linking

import (
	"context"
	"errors"

	"altrion-client/internal/domain/platform"
)

var ErrMissingCredentials = errors.New("no credentials supplied for this platform")

// Secrets carries what the user entered for one platform. Crypto platforms use
// an API key; banks and brokers use a username and password.
type Secrets struct {
	Credentials *platform.Credentials `json:"credentials,omitempty"`
	APIKey      *platform.APIKey      `json:"apiKey,omitempty"`
}

// PlatformAPI is the subset of the platform service used to link accounts.
type PlatformAPI interface {
	ConnectWithCredentials(ctx context.Context, id string, c platform.Credentials) (*platform.ConnectionResult, error)
	ConnectWithAPIKey(ctx context.Context, id string, k platform.APIKey) (*platform.ConnectionResult, error)
}

// ServiceConnector links platforms through the backend using the secrets entered
// for each one.
type ServiceConnector struct {
	api     PlatformAPI
	secrets map[string]Secrets
}

func NewServiceConnector(api PlatformAPI, secrets map[string]Secrets) *ServiceConnector {
	if secrets == nil {
		secrets = map[string]Secrets{}
	}
	return &ServiceConnector{api: api, secrets: secrets}
}

func (c *ServiceConnector) Connect(ctx context.Context, p platform.Platform) error {
	sec := c.secrets[p.ID]
	var (
		res *platform.ConnectionResult
		err error
	)
	if p.Category == platform.CategoryCrypto {
		if sec.APIKey == nil {
			return ErrMissingCredentials
		}
		res, err = c.api.ConnectWithAPIKey(ctx, p.ID, *sec.APIKey)
	} else {
		if sec.Credentials == nil {
			return ErrMissingCredentials
		}
		res, err = c.api.ConnectWithCredentials(ctx, p.ID, *sec.Credentials)
	}
	if err != nil {
		return err
	}
	if res.Status == platform.StatusError {
		if res.Message != "" {
			return errors.New(res.Message)
		}
		return errors.New("connection failed")
	}
	return nil
}
