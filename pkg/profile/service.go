package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ArtemSyntax/BibermobilSauna/pkg/docstore"
	apperrors "github.com/ArtemSyntax/BibermobilSauna/pkg/errors"
	"github.com/jinzhu/copier"
	"golang.org/x/exp/slog"
)

// Service reads and writes profile documents
type Service struct {
	store docstore.Store
}

// NewService creates a profile service over a document store
func NewService(store docstore.Store) *Service {
	return &Service{store: store}
}

// New builds the profile written for a freshly created account
func New(id string, reg Registration, registeredAt time.Time) UserProfile {
	p := UserProfile{ID: id, RegisteredAt: registeredAt.UTC()}
	// copier only fails on nil or non-struct arguments; both are fixed struct pointers here.
	_ = copier.Copy(&p, &reg)
	return p
}

// Fetch loads the profile for an account id
func (s *Service) Fetch(ctx context.Context, id string) (UserProfile, error) {
	data, err := s.store.Get(ctx, Collection, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return UserProfile{}, apperrors.Wrap(err, apperrors.ErrCodeNotFound, "The user document does not exist.")
	}
	if err != nil {
		slog.Error("Fetching user failed", "id", id, "err", err)
		return UserProfile{}, apperrors.Wrap(err, apperrors.ErrCodeReadFailure, fmt.Sprintf("Fetching user failed: %v", err))
	}

	p, err := Decode(data)
	if err != nil {
		slog.Warn("Stored document is not a user", "id", id, "err", err)
		return UserProfile{}, apperrors.Wrap(err, apperrors.ErrCodeDecodeError, fmt.Sprintf("The document is not a user: %v", err))
	}
	if p.ID != id {
		slog.Warn("Stored document belongs to another account", "id", id, "document_id", p.ID)
		return UserProfile{}, apperrors.Newf(apperrors.ErrCodeDecodeError, "The document is not a user: id %q does not match account %q", p.ID, id)
	}
	return p, nil
}

// Create writes the profile document keyed by p.ID
func (s *Service) Create(ctx context.Context, p UserProfile) error {
	data, err := Encode(p)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeWriteFailure, fmt.Sprintf("Failed to save the user: %v", err))
	}
	if err := s.store.Set(ctx, Collection, p.ID, data); err != nil {
		slog.Error("Failed to save user", "id", p.ID, "err", err)
		return apperrors.Wrap(err, apperrors.ErrCodeWriteFailure, fmt.Sprintf("Failed to save the user: %v", err))
	}
	slog.Info("User profile created", "id", p.ID)
	return nil
}

// Delete removes the profile document for an account id
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, Collection, id); err != nil {
		slog.Error("Failed to delete user data", "id", id, "err", err)
		return apperrors.Wrap(err, apperrors.ErrCodeDeleteFailure, fmt.Sprintf("Failed to delete user data: %v", err))
	}
	return nil
}
