package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pollex.nl/bookshelf/store"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("memory is the default", func(t *testing.T) {
		s, err := store.Open(ctx, store.Options{Seed: store.DefaultSeed()})
		require.NoError(t, err)
		assert.IsType(t, &store.Memory{}, s)
	})

	t.Run("sqlite", func(t *testing.T) {
		s, err := store.Open(ctx, store.Options{Backend: store.BackendSQLite, Seed: store.DefaultSeed()})
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })
		assert.IsType(t, &store.SQLite{}, s)

		books, err := s.Books(ctx)
		require.NoError(t, err)
		assert.Len(t, books, 8)
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, err := store.Open(ctx, store.Options{Backend: "redis"})
		assert.ErrorIs(t, err, store.ErrUnknownBackend)
	})
}
