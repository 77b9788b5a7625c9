package zoomauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tokenEndpointBody = `{
	"access_token": "new_access_token",
	"refresh_token": "new_refresh_token",
	"token_type": "Bearer",
	"expires_in": 3600
}`

func testKeys() AppKeys {
	return AppKeys{ClientID: "test-client-id", ClientSecret: "test-client-secret"}
}

// tokenServer fakes the Zoom OAuth token endpoint.
func tokenServer(t *testing.T, calls *atomic.Int32, status int) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)

		user, pass, ok := r.BasicAuth()
		assert.True(t, ok, "token requests must use basic auth")
		assert.Equal(t, "test-client-id", user)
		assert.Equal(t, "test-client-secret", pass)

		w.Header().Set("Content-Type", "application/json")
		if status != http.StatusOK {
			w.WriteHeader(status)
			w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		w.Write([]byte(tokenEndpointBody))
	}))
	t.Cleanup(srv.Close)
	return srv
}

// apiServer fakes a vendor endpoint and records the bearer tokens it saw.
func apiServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *[]string) {
	t.Helper()

	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("Authorization"))
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &seen
}

func newClient(t *testing.T, cred *Credential, store CredentialStore, tokenURL string) *http.Client {
	t.Helper()

	client, err := NewHTTPClient(context.Background(), ClientConfig{
		Credential: cred,
		Keys:       testKeys(),
		Store:      store,
		TokenURL:   tokenURL,
	})
	require.NoError(t, err)
	return client
}

func TestNewHTTPClient_Validation(t *testing.T) {
	_, err := NewHTTPClient(context.Background(), ClientConfig{Store: NewMemoryStore()})
	assert.Error(t, err)

	_, err = NewHTTPClient(context.Background(), ClientConfig{Credential: &Credential{}})
	assert.Error(t, err)
}

func TestValidTokenSkipsRefresh(t *testing.T) {
	var tokenCalls atomic.Int32
	tokens := tokenServer(t, &tokenCalls, http.StatusOK)

	api, seen := apiServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	cred := &Credential{
		ID:           "cred-1",
		AccessToken:  "valid_access_token",
		RefreshToken: "valid_refresh_token",
		Expiry:       time.Now().Add(time.Hour),
	}
	store := NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), cred))

	client := newClient(t, cred, store, tokens.URL)

	resp, err := client.Get(api.URL + "/users/me/settings")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, int32(0), tokenCalls.Load(), "no refresh call may be made speculatively")
	require.Len(t, *seen, 1)
	assert.Equal(t, "Bearer valid_access_token", (*seen)[0])
}

func TestExpiredTokenIsRefreshedAndPersisted(t *testing.T) {
	var tokenCalls atomic.Int32
	tokens := tokenServer(t, &tokenCalls, http.StatusOK)

	api, seen := apiServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	cred := &Credential{
		ID:           "cred-1",
		AccessToken:  "expired_access_token",
		RefreshToken: "valid_refresh_token",
		Expiry:       time.Now().Add(-time.Hour),
	}
	store := NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), cred))

	client := newClient(t, cred, store, tokens.URL)

	resp, err := client.Get(api.URL + "/users/me/settings")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, int32(1), tokenCalls.Load())
	require.Len(t, *seen, 1)
	assert.Equal(t, "Bearer new_access_token", (*seen)[0])

	// The new pair replaced the old one in place and in the store.
	assert.Equal(t, "new_access_token", cred.AccessToken)
	assert.Equal(t, "new_refresh_token", cred.RefreshToken)

	stored, err := store.Get(context.Background(), "cred-1")
	require.NoError(t, err)
	assert.Equal(t, "new_access_token", stored.AccessToken)
	assert.Equal(t, "new_refresh_token", stored.RefreshToken)
}

func TestRefreshFailureInvalidatesCredential(t *testing.T) {
	var tokenCalls atomic.Int32
	tokens := tokenServer(t, &tokenCalls, http.StatusBadRequest)

	api, seen := apiServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	cred := &Credential{
		ID:           "cred-1",
		AccessToken:  "expired_access_token",
		RefreshToken: "expired_refresh_token",
		Expiry:       time.Now().Add(-time.Hour),
	}
	store := NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), cred))

	client := newClient(t, cred, store, tokens.URL)

	_, err := client.Get(api.URL + "/users/me/settings")
	require.Error(t, err)
	assert.Empty(t, *seen, "the vendor request must not be issued without a token")

	assert.True(t, cred.Invalid)
	stored, serr := store.Get(context.Background(), "cred-1")
	require.NoError(t, serr)
	assert.True(t, stored.Invalid)

	// Future calls short-circuit instead of retrying the refresh.
	_, err = client.Get(api.URL + "/users/me/settings")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCredentialInvalid)
	assert.Equal(t, int32(1), tokenCalls.Load())
}

func TestRejectedTokenTriggersSingleRetry(t *testing.T) {
	var tokenCalls atomic.Int32
	tokens := tokenServer(t, &tokenCalls, http.StatusOK)

	var apiCalls atomic.Int32
	api, seen := apiServer(t, func(w http.ResponseWriter, r *http.Request) {
		// The first attempt is rejected even though the credential
		// thought the token was still valid (e.g. it was revoked).
		if apiCalls.Add(1) == 1 {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"code":124,"message":"Invalid access token"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	cred := &Credential{
		ID:           "cred-1",
		AccessToken:  "revoked_access_token",
		RefreshToken: "valid_refresh_token",
		Expiry:       time.Now().Add(time.Hour),
	}
	store := NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), cred))

	client := newClient(t, cred, store, tokens.URL)

	resp, err := client.Get(api.URL + "/users/me/settings")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, int32(2), apiCalls.Load(), "exactly one retry")
	assert.Equal(t, int32(1), tokenCalls.Load())

	require.Len(t, *seen, 2)
	assert.Equal(t, "Bearer revoked_access_token", (*seen)[0])
	assert.Equal(t, "Bearer new_access_token", (*seen)[1])

	assert.Equal(t, "new_access_token", cred.AccessToken)
}

func TestPersistentUnauthorizedSurfacesAfterRetry(t *testing.T) {
	var tokenCalls atomic.Int32
	tokens := tokenServer(t, &tokenCalls, http.StatusOK)

	api, _ := apiServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	cred := &Credential{
		ID:           "cred-1",
		AccessToken:  "revoked_access_token",
		RefreshToken: "valid_refresh_token",
		Expiry:       time.Now().Add(time.Hour),
	}
	store := NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), cred))

	client := newClient(t, cred, store, tokens.URL)

	resp, err := client.Get(api.URL + "/users/me/settings")
	require.NoError(t, err)
	resp.Body.Close()

	// One refresh, one retry, then the 401 is handed to the caller.
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, int32(1), tokenCalls.Load())
}

func TestOAuthConfig(t *testing.T) {
	conf := OAuthConfig(testKeys(), "")
	assert.Equal(t, "test-client-id", conf.ClientID)
	assert.Equal(t, DefaultTokenURL, conf.Endpoint.TokenURL)

	conf = OAuthConfig(testKeys(), "http://localhost/token")
	assert.Equal(t, "http://localhost/token", conf.Endpoint.TokenURL)
}
