package authflow

import (
	"context"
	"sync"

	"github.com/ArtemSyntax/BibermobilSauna/pkg/authprovider"
	"github.com/ArtemSyntax/BibermobilSauna/pkg/docstore"
)

// fakeProvider records calls and returns canned results
type fakeProvider struct {
	mu      sync.Mutex
	calls   []string
	account authprovider.Account
	current *authprovider.Account

	signInErr  error
	createErr  error
	signOutErr error
	deleteErr  error

	// signInGate, when set, blocks SignIn until it is closed
	signInGate chan struct{}
	signInHit  chan struct{}
}

func (p *fakeProvider) record(call string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, call)
}

func (p *fakeProvider) Calls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.calls...)
}

func (p *fakeProvider) SignIn(ctx context.Context, email, password string) (authprovider.Account, error) {
	p.record("SignIn:" + email + ":" + password)
	if p.signInHit != nil {
		p.signInHit <- struct{}{}
	}
	if p.signInGate != nil {
		<-p.signInGate
	}
	if p.signInErr != nil {
		return authprovider.Account{}, p.signInErr
	}
	p.setCurrent()
	return p.account, nil
}

func (p *fakeProvider) CreateAccount(ctx context.Context, email, password string) (authprovider.Account, error) {
	p.record("CreateAccount:" + email + ":" + password)
	if p.createErr != nil {
		return authprovider.Account{}, p.createErr
	}
	p.setCurrent()
	return p.account, nil
}

func (p *fakeProvider) SignOut(ctx context.Context) error {
	p.record("SignOut")
	if p.signOutErr != nil {
		return p.signOutErr
	}
	p.mu.Lock()
	p.current = nil
	p.mu.Unlock()
	return nil
}

func (p *fakeProvider) DeleteCurrentAccount(ctx context.Context) error {
	p.record("DeleteCurrentAccount")
	if p.deleteErr != nil {
		return p.deleteErr
	}
	p.mu.Lock()
	p.current = nil
	p.mu.Unlock()
	return nil
}

func (p *fakeProvider) CurrentUser() (authprovider.Account, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return authprovider.Account{}, false
	}
	return *p.current, true
}

func (p *fakeProvider) setCurrent() {
	p.mu.Lock()
	defer p.mu.Unlock()
	account := p.account
	p.current = &account
}

// recordingStore wraps a memory store, counts calls and injects failures
type recordingStore struct {
	*docstore.MemoryStore

	mu        sync.Mutex
	sets      int
	deletes   int
	getErr    error
	setErr    error
	deleteErr error
}

func newRecordingStore() *recordingStore {
	return &recordingStore{MemoryStore: docstore.NewMemoryStore()}
}

func (s *recordingStore) Get(ctx context.Context, collection, id string) ([]byte, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.MemoryStore.Get(ctx, collection, id)
}

func (s *recordingStore) Set(ctx context.Context, collection, id string, data []byte) error {
	s.mu.Lock()
	s.sets++
	s.mu.Unlock()
	if s.setErr != nil {
		return s.setErr
	}
	return s.MemoryStore.Set(ctx, collection, id, data)
}

func (s *recordingStore) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	s.deletes++
	s.mu.Unlock()
	if s.deleteErr != nil {
		return s.deleteErr
	}
	return s.MemoryStore.Delete(ctx, collection, id)
}
