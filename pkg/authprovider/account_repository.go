package authprovider

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrAccountExists   = errors.New("account already exists")
)

// AccountRecord is a stored credential
type AccountRecord struct {
	UID          string
	Email        string
	PasswordHash string
	Disabled     bool
	CreatedAt    time.Time
}

// AccountRepository stores the local provider's accounts
type AccountRepository interface {
	FindByEmail(ctx context.Context, email string) (AccountRecord, error)
	FindByUID(ctx context.Context, uid string) (AccountRecord, error)
	Create(ctx context.Context, account AccountRecord) error
	Delete(ctx context.Context, uid string) error
}

// InMemoryAccountRepository implements AccountRepository using in-memory storage
type InMemoryAccountRepository struct {
	mu      sync.RWMutex
	byUID   map[string]AccountRecord
	byEmail map[string]string // normalized email -> uid
}

// NewInMemoryAccountRepository creates an empty repository
func NewInMemoryAccountRepository() *InMemoryAccountRepository {
	return &InMemoryAccountRepository{
		byUID:   make(map[string]AccountRecord),
		byEmail: make(map[string]string),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *InMemoryAccountRepository) FindByEmail(ctx context.Context, email string) (AccountRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	uid, ok := r.byEmail[normalizeEmail(email)]
	if !ok {
		return AccountRecord{}, ErrAccountNotFound
	}
	return r.byUID[uid], nil
}

func (r *InMemoryAccountRepository) FindByUID(ctx context.Context, uid string) (AccountRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.byUID[uid]
	if !ok {
		return AccountRecord{}, ErrAccountNotFound
	}
	return account, nil
}

func (r *InMemoryAccountRepository) Create(ctx context.Context, account AccountRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := normalizeEmail(account.Email)
	if _, ok := r.byEmail[email]; ok {
		return ErrAccountExists
	}
	if _, ok := r.byUID[account.UID]; ok {
		return ErrAccountExists
	}
	r.byUID[account.UID] = account
	r.byEmail[email] = account.UID
	return nil
}

func (r *InMemoryAccountRepository) Delete(ctx context.Context, uid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.byUID[uid]
	if !ok {
		return ErrAccountNotFound
	}
	delete(r.byUID, uid)
	delete(r.byEmail, normalizeEmail(account.Email))
	return nil
}
