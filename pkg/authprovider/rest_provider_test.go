package authprovider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeIdentityServer is a minimal identity-toolkit REST endpoint
type fakeIdentityServer struct {
	mu       sync.Mutex
	accounts map[string]string // email -> password
	deleted  []string
	tokenExp time.Time
}

func (f *fakeIdentityServer) token(t *testing.T, uid string) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   uid,
		ExpiresAt: jwt.NewNumericDate(f.tokenExp),
	})
	signed, err := token.SignedString([]byte("provider-key"))
	assert.NoError(t, err)
	return signed
}

func (f *fakeIdentityServer) handler(t *testing.T) http.Handler {
	writeError := func(w http.ResponseWriter, message string) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]interface{}{"code": 400, "message": message},
		})
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/accounts:signUp", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		var req passwordRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		f.mu.Lock()
		defer f.mu.Unlock()
		if _, ok := f.accounts[req.Email]; ok {
			writeError(w, "EMAIL_EXISTS")
			return
		}
		if len(req.Password) < 6 {
			writeError(w, "WEAK_PASSWORD : Password should be at least 6 characters")
			return
		}
		f.accounts[req.Email] = req.Password
		json.NewEncoder(w).Encode(authResponse{LocalID: "uid-" + req.Email, Email: req.Email, IDToken: f.token(t, "uid-"+req.Email)})
	})
	mux.HandleFunc("/v1/accounts:signInWithPassword", func(w http.ResponseWriter, r *http.Request) {
		var req passwordRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		f.mu.Lock()
		defer f.mu.Unlock()
		if f.accounts[req.Email] != req.Password {
			writeError(w, "INVALID_LOGIN_CREDENTIALS")
			return
		}
		json.NewEncoder(w).Encode(authResponse{LocalID: "uid-" + req.Email, Email: req.Email, IDToken: f.token(t, "uid-"+req.Email)})
	})
	mux.HandleFunc("/v1/accounts:delete", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.NotEmpty(t, req["idToken"])

		f.mu.Lock()
		f.deleted = append(f.deleted, req["idToken"])
		f.mu.Unlock()
		w.Write([]byte(`{"kind":"identitytoolkit#DeleteAccountResponse"}`))
	})
	return mux
}

func newTestRESTProvider(t *testing.T) (*RESTProvider, *fakeIdentityServer, *time.Time) {
	clock := time.Date(2024, 9, 5, 12, 0, 0, 0, time.UTC)
	fake := &fakeIdentityServer{accounts: map[string]string{}, tokenExp: clock.Add(time.Hour)}
	srv := httptest.NewServer(fake.handler(t))
	t.Cleanup(srv.Close)

	p := NewRESTProvider(srv.URL+"/", "test-key", WithRESTClock(func() time.Time { return clock }))
	return p, fake, &clock
}

func TestRESTProvider_SignUpAndSignIn(t *testing.T) {
	ctx := context.Background()
	p, _, _ := newTestRESTProvider(t)

	account, err := p.CreateAccount(ctx, "new@x.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, Account{UID: "uid-new@x.com", Email: "new@x.com"}, account)

	_, err = p.CreateAccount(ctx, "new@x.com", "secret123")
	requireCode(t, err, CodeEmailAlreadyInUse)

	_, err = p.CreateAccount(ctx, "weak@x.com", "p1")
	requireCode(t, err, CodeWeakPassword)
	assert.Contains(t, err.Error(), "Password should be at least 6 characters")

	require.NoError(t, p.SignOut(ctx))
	_, ok := p.CurrentUser()
	assert.False(t, ok)

	signedIn, err := p.SignIn(ctx, "new@x.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, account, signedIn)

	_, err = p.SignIn(ctx, "new@x.com", "wrong")
	requireCode(t, err, CodeInvalidCredential)
}

func TestRESTProvider_DeleteCurrentAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		p, fake, _ := newTestRESTProvider(t)
		_, err := p.CreateAccount(ctx, "a@b.com", "secret123")
		require.NoError(t, err)

		require.NoError(t, p.DeleteCurrentAccount(ctx))
		assert.Len(t, fake.deleted, 1)
		_, ok := p.CurrentUser()
		assert.False(t, ok)
	})

	t.Run("TokenExpired", func(t *testing.T) {
		p, fake, clock := newTestRESTProvider(t)
		_, err := p.CreateAccount(ctx, "a@b.com", "secret123")
		require.NoError(t, err)

		*clock = clock.Add(2 * time.Hour)
		requireCode(t, p.DeleteCurrentAccount(ctx), CodeUserTokenExpired)
		assert.Empty(t, fake.deleted)
	})

	t.Run("NoSession", func(t *testing.T) {
		p, _, _ := newTestRESTProvider(t)
		requireCode(t, p.DeleteCurrentAccount(ctx), CodeInvalidUserToken)
	})
}

func TestRESTProvider_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	p := NewRESTProvider(url, "test-key")
	_, err := p.SignIn(context.Background(), "a@b.com", "secret123")
	requireCode(t, err, CodeNetworkError)
}

func TestDecodeRESTError(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   Code
	}{
		{"EmailNotFound", 400, `{"error":{"code":400,"message":"EMAIL_NOT_FOUND"}}`, CodeUserNotFound},
		{"InvalidPassword", 400, `{"error":{"code":400,"message":"INVALID_PASSWORD"}}`, CodeWrongPassword},
		{"InvalidEmail", 400, `{"error":{"code":400,"message":"INVALID_EMAIL"}}`, CodeInvalidEmail},
		{"TooManyAttempts", 400, `{"error":{"code":400,"message":"TOO_MANY_ATTEMPTS_TRY_LATER : Access disabled"}}`, CodeTooManyRequests},
		{"TokenExpired", 400, `{"error":{"code":400,"message":"TOKEN_EXPIRED"}}`, CodeUserTokenExpired},
		{"BadAPIKey", 400, `{"error":{"code":400,"message":"API key not valid. Please pass a valid API key."}}`, CodeInvalidAPIKey},
		{"Unrecognized", 400, `{"error":{"code":400,"message":"SOMETHING_NEW"}}`, CodeInternalError},
		{"GatewayHTML", 502, `<html>bad gateway</html>`, CodeNetworkError},
		{"EmptyClientError", 404, ``, CodeInternalError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requireCode(t, decodeRESTError(tt.status, []byte(tt.body)), tt.want)
		})
	}
}
