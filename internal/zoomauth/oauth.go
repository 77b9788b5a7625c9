package zoomauth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/teemow/zoombridge/internal/instrumentation"
	"github.com/teemow/zoombridge/internal/logging"
)

// Zoom OAuth endpoints. The token URL is overridable for tests.
const (
	authURL         = "https://zoom.us/oauth/authorize"
	DefaultTokenURL = "https://zoom.us/oauth/token"
)

// ErrCredentialInvalid is returned when a credential has been marked
// unusable by a failed refresh. Callers should reconnect the account.
var ErrCredentialInvalid = errors.New("zoom credential is marked invalid")

// OAuthConfig returns the oauth2 configuration for the Zoom API.
// Zoom authenticates token requests with HTTP basic auth.
func OAuthConfig(keys AppKeys, tokenURL string) *oauth2.Config {
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}
	return &oauth2.Config{
		ClientID:     keys.ClientID,
		ClientSecret: keys.ClientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:   authURL,
			TokenURL:  tokenURL,
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}
}

// ClientConfig wires a credential, its store and the app key pair into an
// authenticated HTTP client.
type ClientConfig struct {
	Credential *Credential
	Keys       AppKeys
	Store      CredentialStore

	// TokenURL overrides the Zoom token endpoint, for tests.
	TokenURL string

	// Base is the underlying transport. Defaults to http.DefaultTransport.
	Base http.RoundTripper

	Logger  *slog.Logger
	Metrics *instrumentation.Metrics
}

// NewHTTPClient returns an HTTP client that attaches the credential's
// access token to every request, refreshing it first when it is expired.
// A refreshed token pair is persisted through the store before the original
// request proceeds. No network call is made by this constructor.
func NewHTTPClient(ctx context.Context, cfg ClientConfig) (*http.Client, error) {
	if cfg.Credential == nil {
		return nil, fmt.Errorf("credential cannot be nil")
	}
	if cfg.Store == nil {
		return nil, fmt.Errorf("credential store cannot be nil")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = instrumentation.Noop()
	}
	if cfg.Base == nil {
		cfg.Base = http.DefaultTransport
	}

	conf := OAuthConfig(cfg.Keys, cfg.TokenURL)
	src := &persistingSource{
		ctx:     ctx,
		conf:    conf,
		cred:    cfg.Credential,
		store:   cfg.Store,
		log:     logging.WithService(cfg.Logger, "zoomauth"),
		metrics: cfg.Metrics,
		base:    conf.TokenSource(ctx, cfg.Credential.Token()),
	}

	return &http.Client{
		Transport: &refreshTransport{src: src, base: cfg.Base},
	}, nil
}

// persistingSource yields access tokens for outbound requests. It wraps the
// oauth2 token source, which refreshes only when the cached token is
// expired, and adds the adapter's persistence semantics: a new token pair
// replaces the credential's pair in the store, and a failed refresh marks
// the credential invalid.
//
// The mutex serializes refreshes within the process; across processes the
// store is last-write-wins.
type persistingSource struct {
	ctx     context.Context
	conf    *oauth2.Config
	cred    *Credential
	store   CredentialStore
	log     *slog.Logger
	metrics *instrumentation.Metrics

	mu   sync.Mutex
	base oauth2.TokenSource
}

// Token returns a usable access token, refreshing and persisting first if
// the current one is expired.
func (s *persistingSource) Token() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokenLocked()
}

func (s *persistingSource) tokenLocked() (*oauth2.Token, error) {
	if s.cred.Invalid {
		return nil, ErrCredentialInvalid
	}

	tok, err := s.base.Token()
	if err != nil {
		s.invalidateLocked(err)
		return nil, fmt.Errorf("failed to refresh zoom access token: %w", err)
	}

	if tok.AccessToken != s.cred.AccessToken {
		s.persistLocked(tok)
	}
	return tok, nil
}

// forceRefresh discards the cached access token and fetches a fresh pair
// from the token endpoint. Used when the vendor rejects a token that has
// not expired according to the credential.
func (s *persistingSource) forceRefresh() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cred.Invalid {
		return nil, ErrCredentialInvalid
	}

	stale := s.cred.Token()
	stale.AccessToken = ""
	stale.Expiry = time.Unix(1, 0)
	s.base = s.conf.TokenSource(s.ctx, stale)

	return s.tokenLocked()
}

func (s *persistingSource) persistLocked(tok *oauth2.Token) {
	s.cred.apply(tok)
	s.metrics.RecordTokenRefresh(s.ctx, instrumentation.ResultSuccess)
	s.log.Info("zoom access token refreshed",
		logging.Credential(s.cred.ID),
		slog.String("token", logging.SanitizeToken(tok.AccessToken)))

	if err := s.store.Save(s.ctx, s.cred); err != nil {
		// The in-memory pair is still usable for this process.
		s.log.Error("failed to persist refreshed token pair",
			logging.Credential(s.cred.ID), logging.Err(err))
	}
}

func (s *persistingSource) invalidateLocked(cause error) {
	s.cred.Invalid = true
	s.metrics.RecordTokenRefresh(s.ctx, instrumentation.ResultError)
	s.log.Error("zoom token refresh failed, invalidating credential",
		logging.Credential(s.cred.ID), logging.Err(cause))

	if err := s.store.MarkInvalid(s.ctx, s.cred.ID); err != nil {
		s.log.Error("failed to mark credential invalid",
			logging.Credential(s.cred.ID), logging.Err(err))
	}
}

// refreshTransport authenticates outbound requests and retries exactly once
// after a forced refresh when the vendor answers 401 for a token the
// credential still considered valid.
type refreshTransport struct {
	src  *persistingSource
	base http.RoundTripper
}

// RoundTrip implements http.RoundTripper.
func (t *refreshTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.issue(req)
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}

	if req.GetBody == nil && req.Body != nil {
		// The body cannot be replayed; surface the 401 as-is.
		return resp, nil
	}

	if _, err := t.src.forceRefresh(); err != nil {
		resp.Body.Close()
		return nil, err
	}

	resp.Body.Close()
	return t.issue(req)
}

// issue sends a clone of req with a fresh auth header. The clone rebuilds
// the body from GetBody so the original request stays replayable.
func (t *refreshTransport) issue(req *http.Request) (*http.Response, error) {
	tok, err := t.src.Token()
	if err != nil {
		return nil, err
	}

	r := req.Clone(req.Context())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, fmt.Errorf("failed to rewind request body: %w", err)
		}
		r.Body = body
	}
	tok.SetAuthHeader(r)

	return t.base.RoundTrip(r)
}
