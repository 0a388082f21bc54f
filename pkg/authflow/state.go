package authflow

import (
	"fmt"
	"sync"

	"github.com/ArtemSyntax/BibermobilSauna/pkg/profile"
)

// Mode selects which form the session is showing
type Mode int

const (
	ModeLogin Mode = iota
	ModeRegister
)

func (m Mode) String() string {
	switch m {
	case ModeLogin:
		return "login"
	case ModeRegister:
		return "register"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ParseMode converts "login" or "register" into a Mode
func ParseMode(s string) (Mode, error) {
	switch s {
	case "login":
		return ModeLogin, nil
	case "register":
		return ModeRegister, nil
	}
	return ModeLogin, fmt.Errorf("unknown mode %q", s)
}

// Toggle returns the other mode
func (m Mode) Toggle() Mode {
	if m == ModeLogin {
		return ModeRegister
	}
	return ModeLogin
}

// Field names an input field of the form
type Field string

const (
	FieldEmail           Field = "email"
	FieldFullname        Field = "fullname"
	FieldCity            Field = "city"
	FieldPostalCode      Field = "postalCode"
	FieldStreet          Field = "street"
	FieldHouseNumber     Field = "houseNumber"
	FieldPassword        Field = "password"
	FieldConfirmPassword Field = "confirmPassword"
)

// Fields lists every input field
var Fields = []Field{
	FieldEmail, FieldFullname, FieldCity, FieldPostalCode,
	FieldStreet, FieldHouseNumber, FieldPassword, FieldConfirmPassword,
}

// Valid reports whether f names a known input field
func (f Field) Valid() bool {
	for _, known := range Fields {
		if f == known {
			return true
		}
	}
	return false
}

// State is one snapshot of the session. Snapshots are values and are never
// modified after they have been published; User must be treated as read-only.
type State struct {
	User *profile.UserProfile
	Mode Mode

	Email           string
	Fullname        string
	City            string
	PostalCode      string
	Street          string
	HouseNumber     string
	Password        string
	ConfirmPassword string

	ErrorMessage   string
	Classification Classification
	Err            error
	Notice         string

	Submitting bool
}

// LoggedIn reports whether a profile is loaded
func (s State) LoggedIn() bool {
	return s.User != nil
}

// DisplayName is the signed-in user's full name, or empty
func (s State) DisplayName() string {
	if s.User == nil {
		return ""
	}
	return s.User.Fullname
}

// SubmitDisabled reports whether a submit would be rejected right now
func (s State) SubmitDisabled() bool {
	return s.Submitting || !Validate(s).OK()
}

// Get returns the value of an input field
func (s State) Get(f Field) string {
	switch f {
	case FieldEmail:
		return s.Email
	case FieldFullname:
		return s.Fullname
	case FieldCity:
		return s.City
	case FieldPostalCode:
		return s.PostalCode
	case FieldStreet:
		return s.Street
	case FieldHouseNumber:
		return s.HouseNumber
	case FieldPassword:
		return s.Password
	case FieldConfirmPassword:
		return s.ConfirmPassword
	}
	return ""
}

func (s State) with(f Field, value string) State {
	switch f {
	case FieldEmail:
		s.Email = value
	case FieldFullname:
		s.Fullname = value
	case FieldCity:
		s.City = value
	case FieldPostalCode:
		s.PostalCode = value
	case FieldStreet:
		s.Street = value
	case FieldHouseNumber:
		s.HouseNumber = value
	case FieldPassword:
		s.Password = value
	case FieldConfirmPassword:
		s.ConfirmPassword = value
	}
	return s
}

func (s State) withFieldsCleared() State {
	for _, f := range Fields {
		s = s.with(f, "")
	}
	return s
}

func (s State) withErrorCleared() State {
	s.ErrorMessage = ""
	s.Classification = ClassNone
	s.Err = nil
	return s
}

// Store holds the current State and publishes every new snapshot to its
// subscribers in the order the mutations were applied.
type Store struct {
	mu     sync.Mutex
	state  State
	subs   map[int]chan State
	nextID int
}

// NewStore creates a store starting from initial
func NewStore(initial State) *Store {
	return &Store{
		state: initial,
		subs:  make(map[int]chan State),
	}
}

// Snapshot returns the current state
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch applies fn to the current state, publishes the result and returns it.
// fn runs under the store lock and must not call back into the store.
func (s *Store) Dispatch(fn func(State) State) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = fn(s.state)
	for _, ch := range s.subs {
		publish(ch, s.state)
	}
	return s.state
}

// Subscribe returns a channel receiving every snapshot published after the
// call, starting with the current one. A subscriber that falls more than
// buffer snapshots behind loses the oldest pending ones. The returned
// function unsubscribes and closes the channel.
func (s *Store) Subscribe(buffer int) (<-chan State, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan State, buffer)

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	ch <- s.state
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			close(ch)
			s.mu.Unlock()
		})
	}
}

func publish(ch chan State, st State) {
	select {
	case ch <- st:
		return
	default:
	}
	// Full: drop the oldest pending snapshot
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- st:
	default:
	}
}
