package docstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const testDoc = `{"id":"U1","email":"a@b.com","housenumber":1}`

// runStoreTests exercises the behavior every backend must share
func runStoreTests(t *testing.T, s Store) {
	ctx := context.Background()

	t.Run("GetMissing", func(t *testing.T) {
		_, err := s.Get(ctx, "users", "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("SetThenGet", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "users", "U1", []byte(testDoc)))
		got, err := s.Get(ctx, "users", "U1")
		require.NoError(t, err)
		assert.JSONEq(t, testDoc, string(got))
	})

	t.Run("Overwrite", func(t *testing.T) {
		updated := `{"id":"U1","email":"new@b.com","housenumber":2}`
		require.NoError(t, s.Set(ctx, "users", "U1", []byte(updated)))
		got, err := s.Get(ctx, "users", "U1")
		require.NoError(t, err)
		assert.JSONEq(t, updated, string(got))
	})

	t.Run("CollectionsAreSeparate", func(t *testing.T) {
		_, err := s.Get(ctx, "other", "U1")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, s.Delete(ctx, "users", "U1"))
		_, err := s.Get(ctx, "users", "U1")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("DeleteMissingSucceeds", func(t *testing.T) {
		assert.NoError(t, s.Delete(ctx, "users", "never-existed"))
	})

	t.Run("EmptyKey", func(t *testing.T) {
		_, err := s.Get(ctx, "", "U1")
		assert.ErrorIs(t, err, ErrInvalidKey)
		assert.ErrorIs(t, s.Set(ctx, "users", "", []byte(testDoc)), ErrInvalidKey)
		assert.ErrorIs(t, s.Delete(ctx, "", ""), ErrInvalidKey)
	})
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	runStoreTests(t, s)

	t.Run("AcceptsInvalidJSON", func(t *testing.T) {
		require.NoError(t, s.Set(context.Background(), "users", "bad", []byte("not json")))
		assert.Equal(t, 1, s.Len("users"))
	})
}

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)
	runStoreTests(t, s)

	t.Run("RejectsInvalidJSON", func(t *testing.T) {
		err := s.Set(context.Background(), "users", "bad", []byte("not json"))
		assert.ErrorIs(t, err, ErrInvalidDocument)
	})

	t.Run("Reload", func(t *testing.T) {
		ctx := context.Background()
		require.NoError(t, s.Set(ctx, "users", "U2", []byte(testDoc)))

		reopened, err := NewFileStore(dir)
		require.NoError(t, err)
		got, err := reopened.Get(ctx, "users", "U2")
		require.NoError(t, err)
		assert.JSONEq(t, testDoc, string(got))
		assert.FileExists(t, filepath.Join(dir, documentsFile))
	})
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLiteStore(ctx, filepath.Join(t.TempDir(), "documents.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	runStoreTests(t, s)
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	s := NewRedisStore(rdb, "bibermobil:")
	runStoreTests(t, s)

	t.Run("KeyLayout", func(t *testing.T) {
		require.NoError(t, s.Set(context.Background(), "users", "U9", []byte(testDoc)))
		assert.True(t, mr.Exists("bibermobil:users:U9"))
	})

	t.Run("ServerDown", func(t *testing.T) {
		mr.Close()
		_, err := s.Get(context.Background(), "users", "U9")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrNotFound)
	})
}

func TestPostgresStore(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping PostgreSQL test in short mode")
	}
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("bibermobil"),
		postgres.WithUsername("bibermobil"),
		postgres.WithPassword("pwd"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	connString, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connString)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	s := NewPostgresStore(pool)
	require.NoError(t, s.EnsureSchema(ctx))
	runStoreTests(t, s)
}
