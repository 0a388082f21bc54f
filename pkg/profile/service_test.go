package profile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ArtemSyntax/BibermobilSauna/pkg/docstore"
	apperrors "github.com/ArtemSyntax/BibermobilSauna/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingStore fails every call with err
type failingStore struct {
	err error
}

func (s failingStore) Get(ctx context.Context, collection, id string) ([]byte, error) {
	return nil, s.err
}

func (s failingStore) Set(ctx context.Context, collection, id string, data []byte) error {
	return s.err
}

func (s failingStore) Delete(ctx context.Context, collection, id string) error {
	return s.err
}

func TestService_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemoryStore()
	svc := NewService(store)

	p := New("U1", Registration{
		Email:       "a@b.com",
		Fullname:    "A B",
		City:        "X",
		PostalCode:  "1",
		Street:      "S",
		HouseNumber: 1,
	}, time.Now())

	require.NoError(t, svc.Create(ctx, p))
	assert.Equal(t, 1, store.Len(Collection))

	got, err := svc.Fetch(ctx, "U1")
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestService_Fetch(t *testing.T) {
	ctx := context.Background()

	t.Run("NotFound", func(t *testing.T) {
		svc := NewService(docstore.NewMemoryStore())
		_, err := svc.Fetch(ctx, "nobody")
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeNotFound))
	})

	t.Run("DecodeError", func(t *testing.T) {
		store := docstore.NewMemoryStore()
		require.NoError(t, store.Set(ctx, Collection, "U1", []byte(`{"id":"U1","name":"legacy"}`)))

		_, err := NewService(store).Fetch(ctx, "U1")
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeDecodeError))
	})

	t.Run("DocumentOfAnotherAccount", func(t *testing.T) {
		store := docstore.NewMemoryStore()
		other := New("U2", Registration{Email: "b@c.com", City: "Y"}, time.Now())
		data, err := Encode(other)
		require.NoError(t, err)
		require.NoError(t, store.Set(ctx, Collection, "U1", data))

		_, err = NewService(store).Fetch(ctx, "U1")
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeDecodeError))
	})

	t.Run("ReadFailure", func(t *testing.T) {
		svc := NewService(failingStore{err: errors.New("timeout")})
		_, err := svc.Fetch(ctx, "U1")
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeReadFailure))
		assert.Contains(t, apperrors.Message(err), "timeout")
	})
}

func TestService_CreateFailure(t *testing.T) {
	svc := NewService(failingStore{err: errors.New("permission denied")})
	err := svc.Create(context.Background(), UserProfile{ID: "U1"})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeWriteFailure))
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		store := docstore.NewMemoryStore()
		svc := NewService(store)
		require.NoError(t, svc.Create(ctx, UserProfile{ID: "U1", RegisteredAt: time.Now().UTC()}))

		require.NoError(t, svc.Delete(ctx, "U1"))
		assert.Equal(t, 0, store.Len(Collection))
	})

	t.Run("Failure", func(t *testing.T) {
		svc := NewService(failingStore{err: errors.New("unavailable")})
		err := svc.Delete(ctx, "U1")
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeDeleteFailure))
		assert.Equal(t, "Failed to delete user data: unavailable", apperrors.Message(err))
	})
}
