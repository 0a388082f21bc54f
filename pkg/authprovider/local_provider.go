package authprovider

import (
	"context"
	"crypto/rand"
	"errors"
	"net/mail"
	"sync"
	"time"

	"github.com/ArtemSyntax/BibermobilSauna/pkg/ratelimit"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"
)

const (
	minPasswordLength = 6
	defaultTokenTTL   = time.Hour
	defaultIssuer     = "bibermobil-local"
)

// LocalProvider is an in-process auth provider
type LocalProvider struct {
	repo        AccountRepository
	limiter     *ratelimit.RateLimiter
	tokenSecret []byte
	tokenTTL    time.Duration
	issuer      string
	bcryptCost  int
	now         func() time.Time

	mu      sync.Mutex
	current *localSession
}

type localSession struct {
	account Account
	idToken string
}

// LocalOption configures a LocalProvider
type LocalOption func(*LocalProvider)

// WithTokenSecret sets the HS256 key for ID tokens
func WithTokenSecret(secret []byte) LocalOption {
	return func(p *LocalProvider) {
		p.tokenSecret = secret
	}
}

// WithTokenTTL sets the ID token lifetime
func WithTokenTTL(ttl time.Duration) LocalOption {
	return func(p *LocalProvider) {
		p.tokenTTL = ttl
	}
}

// WithIssuer sets the ID token issuer
func WithIssuer(issuer string) LocalOption {
	return func(p *LocalProvider) {
		p.issuer = issuer
	}
}

// WithSignInLimiter throttles sign-in attempts per email address
func WithSignInLimiter(limiter *ratelimit.RateLimiter) LocalOption {
	return func(p *LocalProvider) {
		p.limiter = limiter
	}
}

// WithBcryptCost sets the password hashing cost
func WithBcryptCost(cost int) LocalOption {
	return func(p *LocalProvider) {
		p.bcryptCost = cost
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) LocalOption {
	return func(p *LocalProvider) {
		p.now = now
	}
}

// NewLocalProvider creates a provider backed by repo
func NewLocalProvider(repo AccountRepository, opts ...LocalOption) *LocalProvider {
	p := &LocalProvider{
		repo:       repo,
		tokenTTL:   defaultTokenTTL,
		issuer:     defaultIssuer,
		bcryptCost: bcrypt.DefaultCost,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	if len(p.tokenSecret) == 0 {
		p.tokenSecret = make([]byte, 32)
		if _, err := rand.Read(p.tokenSecret); err != nil {
			panic("authprovider: cannot generate token secret: " + err.Error())
		}
	}
	return p
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (Account, error) {
	if !validEmail(email) {
		return Account{}, NewError(CodeInvalidEmail, "the email address is badly formatted")
	}
	if p.limiter != nil && !p.limiter.Allow(normalizeEmail(email)) {
		slog.Warn("Sign-in throttled", "email", email)
		return Account{}, NewError(CodeTooManyRequests, "too many sign-in attempts, try again later")
	}

	record, err := p.repo.FindByEmail(ctx, email)
	if errors.Is(err, ErrAccountNotFound) {
		return Account{}, NewError(CodeUserNotFound, "there is no user record for this email")
	}
	if err != nil {
		return Account{}, &Error{Code: CodeInternalError, Message: "account lookup failed", Err: err}
	}
	if record.Disabled {
		return Account{}, NewError(CodeUserDisabled, "the user account has been disabled")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(record.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return Account{}, NewError(CodeWrongPassword, "the password is invalid")
		}
		return Account{}, &Error{Code: CodeInternalError, Message: "password check failed", Err: err}
	}

	account := Account{UID: record.UID, Email: record.Email}
	if err := p.startSession(account); err != nil {
		return Account{}, err
	}
	slog.Info("User signed in", "uid", account.UID)
	return account, nil
}

func (p *LocalProvider) CreateAccount(ctx context.Context, email, password string) (Account, error) {
	if email == "" {
		return Account{}, NewError(CodeMissingEmail, "an email address is required")
	}
	if !validEmail(email) {
		return Account{}, NewError(CodeInvalidEmail, "the email address is badly formatted")
	}
	if len(password) < minPasswordLength {
		return Account{}, NewError(CodeWeakPassword, "the password must be 6 characters long or more")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.bcryptCost)
	if err != nil {
		return Account{}, &Error{Code: CodeInternalError, Message: "password hashing failed", Err: err}
	}

	record := AccountRecord{
		UID:          uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    p.now().UTC(),
	}
	if err := p.repo.Create(ctx, record); err != nil {
		if errors.Is(err, ErrAccountExists) {
			return Account{}, NewError(CodeEmailAlreadyInUse, "the email address is already in use by another account")
		}
		return Account{}, &Error{Code: CodeInternalError, Message: "account creation failed", Err: err}
	}

	account := Account{UID: record.UID, Email: record.Email}
	if err := p.startSession(account); err != nil {
		return Account{}, err
	}
	slog.Info("Account created", "uid", account.UID)
	return account, nil
}

func (p *LocalProvider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = nil
	return nil
}

func (p *LocalProvider) DeleteCurrentAccount(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current == nil {
		return NewError(CodeInvalidUserToken, "no user is signed in")
	}
	uid, err := verifyIDToken(p.tokenSecret, p.current.idToken, p.now)
	if err != nil {
		return err
	}

	record, err := p.repo.FindByUID(ctx, uid)
	if errors.Is(err, ErrAccountNotFound) {
		return NewError(CodeUserNotFound, "the user account no longer exists")
	}
	if err != nil {
		return &Error{Code: CodeInternalError, Message: "account lookup failed", Err: err}
	}
	if record.Disabled {
		return NewError(CodeUserDisabled, "the user account has been disabled")
	}

	if err := p.repo.Delete(ctx, uid); err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return NewError(CodeUserNotFound, "the user account no longer exists")
		}
		return &Error{Code: CodeInternalError, Message: "account deletion failed", Err: err}
	}
	p.current = nil
	slog.Info("Account deleted", "uid", uid)
	return nil
}

func (p *LocalProvider) CurrentUser() (Account, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return Account{}, false
	}
	return p.current.account, true
}

// IDToken returns the signed-in user's ID token
func (p *LocalProvider) IDToken() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return "", false
	}
	return p.current.idToken, true
}

func (p *LocalProvider) startSession(account Account) error {
	token, err := issueIDToken(p.tokenSecret, p.issuer, account, p.now(), p.tokenTTL)
	if err != nil {
		return &Error{Code: CodeInternalError, Message: "session creation failed", Err: err}
	}
	p.mu.Lock()
	p.current = &localSession{account: account, idToken: token}
	p.mu.Unlock()
	return nil
}
