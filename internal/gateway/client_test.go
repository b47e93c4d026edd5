package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowdeck/flowdeck/internal/session"
)

type staticTokens string

func (s staticTokens) Token() string { return string(s) }

func newSessionStore(t *testing.T) *session.Store {
	t.Helper()
	store := session.NewStore(session.NewMemoryStorage())
	err := store.SetAuth("tok1",
		session.User{ID: "u1", Email: "user@example.com", Name: "User", Role: session.RoleAdmin, IsActive: true},
		&session.Tenant{ID: "t1", TenantID: "tenant-1", Name: "Acme"},
		false)
	require.NoError(t, err)
	return store
}

func TestBearerHeaderAttached(t *testing.T) {
	var gotAuth string
	server := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"namespaces": []string{"default"}}})
	}))

	client := NewClient(server.URL, staticTokens("tok1"))
	_, err := client.GetNamespaces(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok1", gotAuth)
}

func TestNoTokenNoHeader(t *testing.T) {
	var hadAuth bool
	server := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hadAuth = r.Header["Authorization"]
		_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"namespaces": []string{}}})
	}))

	client := NewClient(server.URL, staticTokens(""))
	_, err := client.GetNamespaces(context.Background())
	require.NoError(t, err)
	assert.False(t, hadAuth, "request without a token must not carry an Authorization header")
}

func TestTokenReadAtSendTime(t *testing.T) {
	var gotAuth []string
	server := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = append(gotAuth, r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"namespaces": []string{}}})
	}))

	store := newSessionStore(t)
	client := NewClient(server.URL, store)

	_, err := client.GetNamespaces(context.Background())
	require.NoError(t, err)

	// The session changes between calls; the client picks up the new
	// value because the token is read per request.
	require.NoError(t, store.ClearAuth())
	_, err = client.GetNamespaces(context.Background())
	require.NoError(t, err)

	require.Len(t, gotAuth, 2)
	assert.Equal(t, "Bearer tok1", gotAuth[0])
	assert.Empty(t, gotAuth[1])
}

func TestRequestHeaders(t *testing.T) {
	var contentType, requestID string
	server := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		requestID = r.Header.Get("X-Request-Id")
		_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"tenant": map[string]any{"id": "t1"}}})
	}))

	client := NewClient(server.URL, staticTokens("tok1"))
	_, err := client.GetTenant(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "application/json", contentType)
	assert.NotEmpty(t, requestID)
}

func TestAPIErrorMessage(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{
			name:    "message field",
			status:  http.StatusBadRequest,
			body:    `{"message":"name is required"}`,
			wantMsg: "name is required",
		},
		{
			name:    "error field",
			status:  http.StatusConflict,
			body:    `{"error":"workspace already exists"}`,
			wantMsg: "workspace already exists",
		},
		{
			name:    "raw body fallback",
			status:  http.StatusInternalServerError,
			body:    "boom",
			wantMsg: "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))

			client := NewClient(server.URL, staticTokens("tok1"))
			_, err := client.GetTenant(context.Background())
			require.Error(t, err)

			apiErr, ok := err.(*APIError)
			require.True(t, ok, "expected *APIError, got %T", err)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.wantMsg, apiErr.Message)
		})
	}
}

func TestScopedLogoutLeavesTokenOnUnrelated401(t *testing.T) {
	server := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"unauthorized"}`))
	}))

	store := newSessionStore(t)
	client := NewClient(server.URL, store,
		WithUnauthorizedPolicy(ScopedLogoutPolicy{Sessions: store}))

	_, err := client.GetTenant(context.Background())
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.False(t, SessionWasCleared(err))

	// The stored token survives a 401 from a non-auth endpoint.
	assert.True(t, store.IsAuthenticated())
	assert.Equal(t, "tok1", store.Token())
}

func TestScopedLogoutClearsTokenOnAuth401(t *testing.T) {
	server := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"token expired"}`))
	}))

	store := newSessionStore(t)
	client := NewClient(server.URL, store,
		WithUnauthorizedPolicy(ScopedLogoutPolicy{Sessions: store}))

	_, err := client.Me(context.Background())
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.True(t, SessionWasCleared(err))

	assert.False(t, store.IsAuthenticated())
	assert.Empty(t, store.Token())
}

func TestGlobalLogoutClearsTokenOnAny401(t *testing.T) {
	server := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"unauthorized"}`))
	}))

	store := newSessionStore(t)
	client := NewClient(server.URL, store,
		WithUnauthorizedPolicy(GlobalLogoutPolicy{Sessions: store}))

	_, err := client.GetTenant(context.Background())
	require.Error(t, err)
	assert.True(t, SessionWasCleared(err))
	assert.False(t, store.IsAuthenticated())
	assert.Empty(t, store.Token())
}

func TestNon401ErrorsDoNotTouchSession(t *testing.T) {
	server := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"forbidden"}`))
	}))

	store := newSessionStore(t)
	client := NewClient(server.URL, store,
		WithUnauthorizedPolicy(GlobalLogoutPolicy{Sessions: store}))

	_, err := client.GetTenant(context.Background())
	require.Error(t, err)
	assert.False(t, IsUnauthorized(err))
	assert.True(t, store.IsAuthenticated())
}

func TestMissingEnvelope(t *testing.T) {
	server := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))

	client := NewClient(server.URL, staticTokens("tok1"))
	_, err := client.GetTenant(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing data")
}

func TestBaseURLTrailingSlash(t *testing.T) {
	server := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tenant", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"tenant": map[string]any{"id": "t1"}}})
	}))

	client := NewClient(server.URL+"/", staticTokens("tok1"))
	_, err := client.GetTenant(context.Background())
	require.NoError(t, err)
}

func TestWithTimeout(t *testing.T) {
	client := NewClient("http://127.0.0.1:0", staticTokens(""), WithTimeout(5*time.Second))
	assert.Equal(t, 5*time.Second, client.HTTPClient.Timeout)

	client = NewClient("http://127.0.0.1:0", staticTokens(""), WithTimeout(0))
	assert.Equal(t, defaultTimeout, client.HTTPClient.Timeout)
}
