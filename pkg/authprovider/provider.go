package authprovider

import (
	"context"
)

// Account is the provider's view of a signed-in user
type Account struct {
	UID   string
	Email string
}

// Provider is the external authentication service
type Provider interface {
	SignIn(ctx context.Context, email, password string) (Account, error)
	CreateAccount(ctx context.Context, email, password string) (Account, error)
	SignOut(ctx context.Context) error
	DeleteCurrentAccount(ctx context.Context) error
	CurrentUser() (Account, bool)
}
