package zoomauth

import (
	"context"
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// AppKeys is the Zoom application key pair used for token operations.
type AppKeys struct {
	ClientID     string `envconfig:"ZOOM_CLIENT_ID" required:"true"`
	ClientSecret string `envconfig:"ZOOM_CLIENT_SECRET" required:"true"`
}

// KeyProvider resolves the application key pair. The adapter never reads
// the process environment itself; deployments that do use EnvKeyProvider.
type KeyProvider interface {
	AppKeys(ctx context.Context) (AppKeys, error)
}

// EnvKeyProvider resolves the key pair from ZOOM_CLIENT_ID and
// ZOOM_CLIENT_SECRET.
type EnvKeyProvider struct{}

// AppKeys reads the key pair from the environment.
func (EnvKeyProvider) AppKeys(ctx context.Context) (AppKeys, error) {
	var keys AppKeys
	if err := envconfig.Process("", &keys); err != nil {
		return AppKeys{}, fmt.Errorf("failed to resolve zoom app keys: %w", err)
	}
	return keys, nil
}

// StaticKeyProvider returns a fixed key pair, useful in tests and for
// callers that manage key material themselves.
type StaticKeyProvider struct {
	Keys AppKeys
}

// AppKeys returns the configured key pair.
func (p StaticKeyProvider) AppKeys(ctx context.Context) (AppKeys, error) {
	if p.Keys.ClientID == "" || p.Keys.ClientSecret == "" {
		return AppKeys{}, fmt.Errorf("zoom app keys are not configured")
	}
	return p.Keys, nil
}
