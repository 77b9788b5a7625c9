package zoomauth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

// Credential holds the OAuth token pair for a single connected Zoom account.
// The access/refresh pair is replaced in place when a refresh occurs and the
// result is persisted through the CredentialStore that owns the credential.
type Credential struct {
	// ID is the opaque identifier of this credential in the store.
	ID string

	// UserID identifies the owning user in the booking system.
	UserID string

	AccessToken  string
	RefreshToken string

	// Expiry is when the access token expires. A zero Expiry means the
	// token never expires (or the vendor did not report one).
	Expiry time.Time

	// Invalid marks the credential unusable. It is set when a token
	// refresh fails and causes future calls to short-circuit.
	Invalid bool
}

// Token converts the credential into an oauth2 token.
func (c *Credential) Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  c.AccessToken,
		RefreshToken: c.RefreshToken,
		TokenType:    "Bearer",
		Expiry:       c.Expiry,
	}
}

// apply copies a refreshed token pair back into the credential.
// Zoom rotates refresh tokens, but an empty refresh token in the response
// keeps the previous one.
func (c *Credential) apply(tok *oauth2.Token) {
	c.AccessToken = tok.AccessToken
	if tok.RefreshToken != "" {
		c.RefreshToken = tok.RefreshToken
	}
	c.Expiry = tok.Expiry
}

// CredentialStore persists OAuth token pairs. The booking system owns the
// canonical store; MemoryStore and the sqlite store implement it here.
type CredentialStore interface {
	// Get retrieves a credential by its identifier.
	Get(ctx context.Context, id string) (*Credential, error)

	// Save persists the credential, replacing any prior token pair.
	Save(ctx context.Context, cred *Credential) error

	// MarkInvalid flags the credential as unusable.
	MarkInvalid(ctx context.Context, id string) error
}

// MemoryStore is an in-memory CredentialStore, used in tests and as a
// default when no persistent store is configured.
type MemoryStore struct {
	mu    sync.RWMutex
	creds map[string]Credential
}

// NewMemoryStore creates an empty in-memory credential store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{creds: make(map[string]Credential)}
}

// Get retrieves a copy of the stored credential.
func (s *MemoryStore) Get(ctx context.Context, id string) (*Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cred, ok := s.creds[id]
	if !ok {
		return nil, fmt.Errorf("credential %q not found", id)
	}
	return &cred, nil
}

// Save stores a copy of the credential.
func (s *MemoryStore) Save(ctx context.Context, cred *Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.creds[cred.ID] = *cred
	return nil
}

// MarkInvalid flags the stored credential as unusable.
func (s *MemoryStore) MarkInvalid(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cred, ok := s.creds[id]
	if !ok {
		return fmt.Errorf("credential %q not found", id)
	}
	cred.Invalid = true
	s.creds[id] = cred
	return nil
}
