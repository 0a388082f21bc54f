package authprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/exp/slog"
)

// restErrorCodes maps identity-toolkit error strings into the provider taxonomy
var restErrorCodes = map[string]Code{
	"EMAIL_EXISTS":                   CodeEmailAlreadyInUse,
	"EMAIL_NOT_FOUND":                CodeUserNotFound,
	"USER_NOT_FOUND":                 CodeUserNotFound,
	"INVALID_PASSWORD":               CodeWrongPassword,
	"INVALID_LOGIN_CREDENTIALS":      CodeInvalidCredential,
	"INVALID_EMAIL":                  CodeInvalidEmail,
	"MISSING_EMAIL":                  CodeMissingEmail,
	"USER_DISABLED":                  CodeUserDisabled,
	"TOO_MANY_ATTEMPTS_TRY_LATER":    CodeTooManyRequests,
	"TOKEN_EXPIRED":                  CodeUserTokenExpired,
	"CREDENTIAL_TOO_OLD_LOGIN_AGAIN": CodeRequiresRecentLogin,
	"INVALID_ID_TOKEN":               CodeInvalidUserToken,
	"WEAK_PASSWORD":                  CodeWeakPassword,
	"OPERATION_NOT_ALLOWED":          CodeOperationNotAllowed,
	"PASSWORD_LOGIN_DISABLED":        CodeOperationNotAllowed,
}

// RESTProvider talks to a hosted identity service over its REST API
type RESTProvider struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	now        func() time.Time

	mu      sync.Mutex
	current *restSession
}

type restSession struct {
	account Account
	idToken string
}

// RESTOption configures a RESTProvider
type RESTOption func(*RESTProvider)

// WithHTTPClient sets the HTTP client used for provider calls
func WithHTTPClient(client *http.Client) RESTOption {
	return func(p *RESTProvider) {
		p.httpClient = client
	}
}

// WithRESTClock replaces time.Now for token expiry checks
func WithRESTClock(now func() time.Time) RESTOption {
	return func(p *RESTProvider) {
		p.now = now
	}
}

// NewRESTProvider creates a provider for the service at baseURL
func NewRESTProvider(baseURL, apiKey string, opts ...RESTOption) *RESTProvider {
	p := &RESTProvider{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type passwordRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type authResponse struct {
	LocalID string `json:"localId"`
	Email   string `json:"email"`
	IDToken string `json:"idToken"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (p *RESTProvider) SignIn(ctx context.Context, email, password string) (Account, error) {
	return p.passwordCall(ctx, "accounts:signInWithPassword", email, password)
}

func (p *RESTProvider) CreateAccount(ctx context.Context, email, password string) (Account, error) {
	return p.passwordCall(ctx, "accounts:signUp", email, password)
}

func (p *RESTProvider) passwordCall(ctx context.Context, method, email, password string) (Account, error) {
	var resp authResponse
	err := p.call(ctx, method, passwordRequest{Email: email, Password: password, ReturnSecureToken: true}, &resp)
	if err != nil {
		return Account{}, err
	}
	if resp.LocalID == "" {
		return Account{}, NewError(CodeInternalError, "response is missing the account id")
	}

	account := Account{UID: resp.LocalID, Email: resp.Email}
	p.mu.Lock()
	p.current = &restSession{account: account, idToken: resp.IDToken}
	p.mu.Unlock()
	return account, nil
}

// SignOut drops the locally held tokens. Hosted providers keep no server-side
// session for password sign-in, so there is nothing to call.
func (p *RESTProvider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = nil
	return nil
}

func (p *RESTProvider) DeleteCurrentAccount(ctx context.Context) error {
	p.mu.Lock()
	session := p.current
	p.mu.Unlock()
	if session == nil {
		return NewError(CodeInvalidUserToken, "no user is signed in")
	}

	exp, err := tokenExpiry(session.idToken)
	if err != nil {
		return &Error{Code: CodeInvalidUserToken, Message: "the session token is invalid", Err: err}
	}
	if !exp.IsZero() && !p.now().Before(exp) {
		return NewError(CodeUserTokenExpired, "the session token has expired, sign in again")
	}

	if err := p.call(ctx, "accounts:delete", map[string]string{"idToken": session.idToken}, nil); err != nil {
		return err
	}

	p.mu.Lock()
	if p.current == session {
		p.current = nil
	}
	p.mu.Unlock()
	return nil
}

func (p *RESTProvider) CurrentUser() (Account, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return Account{}, false
	}
	return p.current.account, true
}

func (p *RESTProvider) call(ctx context.Context, method string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return &Error{Code: CodeInternalError, Message: "failed to encode request", Err: err}
	}

	endpoint := fmt.Sprintf("%s/v1/%s?key=%s", p.baseURL, method, url.QueryEscape(p.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return &Error{Code: CodeInternalError, Message: "failed to build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		slog.Error("Auth provider unreachable", "method", method, "err", err)
		return &Error{Code: CodeNetworkError, Message: "the auth provider could not be reached", Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Code: CodeNetworkError, Message: "failed to read provider response", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return decodeRESTError(resp.StatusCode, data)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &Error{Code: CodeInternalError, Message: "failed to decode provider response", Err: err}
	}
	return nil
}

func decodeRESTError(status int, data []byte) error {
	var er errorResponse
	if err := json.Unmarshal(data, &er); err != nil || er.Error.Message == "" {
		if status >= http.StatusInternalServerError {
			return NewError(CodeNetworkError, fmt.Sprintf("provider returned status %d", status))
		}
		return NewError(CodeInternalError, fmt.Sprintf("provider returned status %d", status))
	}

	// Messages look like "WEAK_PASSWORD : Password should be at least 6 characters"
	name, detail, _ := strings.Cut(er.Error.Message, " : ")
	name = strings.TrimSpace(name)
	if code, ok := restErrorCodes[name]; ok {
		if detail == "" {
			detail = name
		}
		return NewError(code, detail)
	}
	if strings.HasPrefix(name, "API key not valid") {
		return NewError(CodeInvalidAPIKey, er.Error.Message)
	}
	return NewError(CodeInternalError, er.Error.Message)
}
