package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pollex.nl/bookshelf/store"
	"pollex.nl/bookshelf/store/storetest"
)

func TestSQLiteContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T, seed store.Seed) store.Store {
		s, err := store.OpenSQLite(context.Background(), "", seed)
		require.NoError(t, err)
		return s
	})
}

func TestSQLiteClosedStoreFails(t *testing.T) {
	s, err := store.OpenSQLite(context.Background(), store.DefaultSQLiteDSN, store.DefaultSeed())
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = s.Authors(context.Background())
	assert.Error(t, err)

	_, err = s.AddAuthor(context.Background(), "Too late")
	assert.Error(t, err)
}

func TestSQLiteReopenKeepsRowsWithoutReseeding(t *testing.T) {
	ctx := context.Background()
	dsn := "file:" + filepath.Join(t.TempDir(), "shelf.db")

	first, err := store.OpenSQLite(ctx, dsn, store.DefaultSeed())
	require.NoError(t, err)
	book, err := first.AddBook(ctx, "The Black Prism", 3)
	require.NoError(t, err)
	assert.Equal(t, 9, book.ID)
	require.NoError(t, first.Close())

	second, err := store.OpenSQLite(ctx, dsn, store.DefaultSeed())
	require.NoError(t, err)
	t.Cleanup(func() { _ = second.Close() })

	authors, err := second.Authors(ctx)
	require.NoError(t, err)
	assert.Equal(t, store.DefaultSeed().Authors, authors)

	books, err := second.Books(ctx)
	require.NoError(t, err)
	assert.Len(t, books, 9)

	next, err := second.AddBook(ctx, "The Blinding Knife", 3)
	require.NoError(t, err)
	assert.Equal(t, 10, next.ID)
}
