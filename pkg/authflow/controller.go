package authflow

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/ArtemSyntax/BibermobilSauna/pkg/authprovider"
	apperrors "github.com/ArtemSyntax/BibermobilSauna/pkg/errors"
	"github.com/ArtemSyntax/BibermobilSauna/pkg/profile"
	"golang.org/x/exp/slog"
)

const (
	busyMessage            = "Another request is still in progress."
	noActiveSessionMessage = "No user is signed in."
	accountDeletedNotice   = "Account deleted successfully"
)

// Controller runs the authentication flow against a provider and the profile store
type Controller struct {
	provider authprovider.Provider
	profiles *profile.Service
	store    *Store
	now      func() time.Time
}

// Option configures a Controller
type Option func(*Controller)

// WithClock replaces time.Now for registration timestamps
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// WithStore makes the controller publish into an existing store
func WithStore(store *Store) Option {
	return func(c *Controller) {
		c.store = store
	}
}

// NewController creates a controller starting in login mode
func NewController(provider authprovider.Provider, profiles *profile.Service, opts ...Option) *Controller {
	c := &Controller{
		provider: provider,
		profiles: profiles,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.store == nil {
		c.store = NewStore(State{Mode: ModeLogin})
	}
	return c
}

// State returns the current snapshot
func (c *Controller) State() State {
	return c.store.Snapshot()
}

// Subscribe forwards to the underlying store
func (c *Controller) Subscribe(buffer int) (<-chan State, func()) {
	return c.store.Subscribe(buffer)
}

// SetField updates one input field. Unknown fields are ignored.
func (c *Controller) SetField(f Field, value string) State {
	return c.store.Dispatch(func(s State) State {
		if !f.Valid() {
			return s
		}
		return s.with(f, value)
	})
}

// SwitchMode toggles between login and register and clears the form
func (c *Controller) SwitchMode() State {
	return c.store.Dispatch(func(s State) State {
		s.Mode = s.Mode.Toggle()
		return s.withFieldsCleared()
	})
}

// form is the input captured when a submit starts
type form struct {
	mode        Mode
	email       string
	password    string
	fullname    string
	city        string
	postalCode  string
	street      string
	houseNumber string
}

// Submit validates the form and signs in or registers depending on the mode.
// A form that fails validation is left as is and no provider call is made.
// Otherwise the form is cleared before the provider is called.
func (c *Controller) Submit(ctx context.Context) State {
	var (
		f       form
		started bool
	)
	state := c.store.Dispatch(func(s State) State {
		if s.Submitting {
			return recordError(s, apperrors.New(apperrors.ErrCodeBusy, busyMessage))
		}
		if v := Validate(s); !v.OK() {
			return recordError(s, apperrors.ValidationFailed(string(v.Rule), v.Message))
		}

		f = form{
			mode:        s.Mode,
			email:       strings.TrimSpace(s.Email),
			password:    s.Password,
			fullname:    s.Fullname,
			city:        s.City,
			postalCode:  s.PostalCode,
			street:      s.Street,
			houseNumber: s.HouseNumber,
		}
		started = true
		s.Submitting = true
		s.Notice = ""
		return s.withErrorCleared().withFieldsCleared()
	})
	if !started {
		return state
	}

	var err error
	switch f.mode {
	case ModeRegister:
		err = c.register(ctx, f)
	default:
		err = c.login(ctx, f.email, f.password)
	}
	return c.finish(err)
}

func (c *Controller) login(ctx context.Context, email, password string) error {
	account, err := c.provider.SignIn(ctx, email, password)
	if err != nil {
		return providerError(err, "")
	}
	_, err = c.FetchProfile(ctx, account.UID)
	return err
}

func (c *Controller) register(ctx context.Context, f form) error {
	account, err := c.provider.CreateAccount(ctx, f.email, f.password)
	if err != nil {
		return providerError(err, "")
	}

	p := profile.New(account.UID, profile.Registration{
		Email:       f.email,
		Fullname:    f.fullname,
		City:        f.city,
		PostalCode:  f.postalCode,
		Street:      f.street,
		HouseNumber: parseHouseNumber(f.houseNumber),
	}, c.now())
	if err := c.profiles.Create(ctx, p); err != nil {
		slog.Warn("Account created without profile", "uid", account.UID, "err", err)
		return err
	}
	return c.login(ctx, f.email, f.password)
}

func parseHouseNumber(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// FetchProfile loads the profile of an account into the state
func (c *Controller) FetchProfile(ctx context.Context, id string) (profile.UserProfile, error) {
	p, err := c.profiles.Fetch(ctx, id)
	if err != nil {
		c.store.Dispatch(func(s State) State {
			return recordError(s, err)
		})
		return profile.UserProfile{}, err
	}
	c.store.Dispatch(func(s State) State {
		loaded := p
		s.User = &loaded
		return s
	})
	return p, nil
}

// SignOut ends the provider session. The profile is only cleared when the
// provider confirms the sign-out.
func (c *Controller) SignOut(ctx context.Context) State {
	if state, ok := c.begin(); !ok {
		return state
	}

	if err := c.provider.SignOut(ctx); err != nil {
		return c.finish(providerError(err, ""))
	}
	c.store.Dispatch(func(s State) State {
		s.User = nil
		return s
	})
	return c.finish(nil)
}

// DeleteAccount removes the profile document and then the account. The
// account is kept when the document cannot be deleted.
func (c *Controller) DeleteAccount(ctx context.Context) State {
	if state, ok := c.begin(); !ok {
		return state
	}

	account, ok := c.provider.CurrentUser()
	if !ok {
		return c.finish(apperrors.New(apperrors.ErrCodeNoActiveSession, noActiveSessionMessage))
	}
	if err := c.profiles.Delete(ctx, account.UID); err != nil {
		return c.finish(err)
	}
	if err := c.provider.DeleteCurrentAccount(ctx); err != nil {
		slog.Error("Profile deleted but account kept", "uid", account.UID, "err", err)
		return c.finish(providerError(err, "Failed to delete user account: "))
	}

	slog.Info("Account deleted", "uid", account.UID)
	return c.finishWith(func(s State) State {
		s.User = nil
		s.Notice = accountDeletedNotice
		return s
	})
}

// Restore loads the profile of an account the provider still has signed in
func (c *Controller) Restore(ctx context.Context) State {
	if state, ok := c.begin(); !ok {
		return state
	}

	account, ok := c.provider.CurrentUser()
	if !ok {
		return c.finish(nil)
	}
	if _, err := c.FetchProfile(ctx, account.UID); err != nil {
		slog.Warn("Restoring signed-in profile failed", "uid", account.UID, "err", err)
	}
	return c.finish(nil)
}

// begin marks the session as busy, or records a Busy error if it already is
func (c *Controller) begin() (State, bool) {
	started := false
	state := c.store.Dispatch(func(s State) State {
		if s.Submitting {
			return recordError(s, apperrors.New(apperrors.ErrCodeBusy, busyMessage))
		}
		started = true
		s.Submitting = true
		s.Notice = ""
		return s.withErrorCleared()
	})
	return state, started
}

func (c *Controller) finish(err error) State {
	return c.finishWith(func(s State) State {
		if err != nil {
			return recordError(s, err)
		}
		return s
	})
}

// finishWith applies fn and releases the busy flag. A Busy error recorded by
// a rejected call during the operation is dropped.
func (c *Controller) finishWith(fn func(State) State) State {
	return c.store.Dispatch(func(s State) State {
		if apperrors.IsCode(s.Err, apperrors.ErrCodeBusy) {
			s = s.withErrorCleared()
		}
		s = fn(s)
		s.Submitting = false
		return s
	})
}

func recordError(s State, err error) State {
	s.Err = err
	s.ErrorMessage = apperrors.Message(err)
	s.Classification = classificationOf(err)
	return s
}

// providerError classifies a provider failure. With a prefix the message
// carries the provider's own description instead of the fixed text.
func providerError(err error, prefix string) *apperrors.Error {
	class := Classify(err)
	if code, ok := authprovider.CodeOf(err); ok {
		slog.Info("Auth provider error", "code", int(code), "classification", class.String())
	} else {
		slog.Warn("Unrecognized auth provider error", "err", err)
	}

	message := class.Message()
	if prefix != "" {
		message = prefix + describe(err)
	}
	return apperrors.Wrap(err, class.ErrorCode(), message).WithDetail("classification", class.String())
}

func describe(err error) string {
	var pe *authprovider.Error
	if errors.As(err, &pe) && pe.Message != "" {
		return pe.Message
	}
	return err.Error()
}
