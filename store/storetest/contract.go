// Package storetest holds a reusable suite every store.Store must pass.
package storetest

import (
	"context"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pollex.nl/bookshelf/store"
)

// Factory builds a fresh store loaded with seed.
type Factory func(t *testing.T, seed store.Seed) store.Store

// Run checks the behaviour shared by all store backends. Every subtest gets
// its own store.
func Run(t *testing.T, newStore Factory) {
	t.Helper()
	ctx := context.Background()

	open := func(t *testing.T, seed store.Seed) store.Store {
		s := newStore(t, seed)
		t.Cleanup(func() { _ = s.Close() })
		return s
	}

	t.Run("lists seed in order", func(t *testing.T) {
		s := open(t, store.DefaultSeed())

		authors, err := s.Authors(ctx)
		require.NoError(t, err)
		assert.Equal(t, store.DefaultSeed().Authors, authors)

		books, err := s.Books(ctx)
		require.NoError(t, err)
		assert.Equal(t, store.DefaultSeed().Books, books)
	})

	t.Run("finds by id", func(t *testing.T) {
		s := open(t, store.DefaultSeed())

		author, err := s.Author(ctx, 2)
		require.NoError(t, err)
		require.NotNil(t, author)
		assert.Equal(t, "J. R. R. Tolkien", author.Name)

		book, err := s.Book(ctx, 7)
		require.NoError(t, err)
		require.NotNil(t, book)
		assert.Equal(t, store.Book{ID: 7, Name: "The Way of Shadows", AuthorID: 3}, *book)
	})

	t.Run("missing id is absent not an error", func(t *testing.T) {
		s := open(t, store.DefaultSeed())

		author, err := s.Author(ctx, 99)
		require.NoError(t, err)
		assert.Nil(t, author)

		book, err := s.Book(ctx, 0)
		require.NoError(t, err)
		assert.Nil(t, book)
	})

	t.Run("duplicate ids resolve to the first match", func(t *testing.T) {
		s := open(t, store.Seed{
			Authors: []store.Author{{ID: 1, Name: "First"}, {ID: 1, Name: "Second"}},
		})

		author, err := s.Author(ctx, 1)
		require.NoError(t, err)
		require.NotNil(t, author)
		assert.Equal(t, "First", author.Name)
	})

	t.Run("book author relation", func(t *testing.T) {
		s := open(t, store.DefaultSeed())

		author, err := s.AuthorOf(ctx, store.Book{ID: 1, AuthorID: 1})
		require.NoError(t, err)
		require.NotNil(t, author)
		assert.Equal(t, "J. K. Rowling", author.Name)
	})

	t.Run("dangling author reference is absent", func(t *testing.T) {
		s := open(t, store.DefaultSeed())

		author, err := s.AuthorOf(ctx, store.Book{ID: 9, AuthorID: 42})
		require.NoError(t, err)
		assert.Nil(t, author)
	})

	t.Run("author books relation", func(t *testing.T) {
		s := open(t, store.DefaultSeed())

		books, err := s.BooksOf(ctx, store.Author{ID: 2})
		require.NoError(t, err)
		assert.Equal(t,
			[]string{"The Fellowship of the Ring", "The Two Towers", "The Return of the King"},
			lo.Map(books, func(b store.Book, _ int) string { return b.Name }),
		)
	})

	t.Run("author without books yields empty list", func(t *testing.T) {
		s := open(t, store.DefaultSeed())

		books, err := s.BooksOf(ctx, store.Author{ID: 77})
		require.NoError(t, err)
		assert.NotNil(t, books)
		assert.Empty(t, books)
	})

	t.Run("add author assigns count plus one", func(t *testing.T) {
		s := open(t, store.DefaultSeed())

		author, err := s.AddAuthor(ctx, "New Author")
		require.NoError(t, err)
		assert.Equal(t, store.Author{ID: 4, Name: "New Author"}, author)

		authors, err := s.Authors(ctx)
		require.NoError(t, err)
		require.Len(t, authors, 4)
		assert.Equal(t, author, authors[3])
	})

	t.Run("add book is visible through its author", func(t *testing.T) {
		s := open(t, store.DefaultSeed())

		book, err := s.AddBook(ctx, "The Black Prism", 3)
		require.NoError(t, err)
		assert.Equal(t, store.Book{ID: 9, Name: "The Black Prism", AuthorID: 3}, book)

		books, err := s.BooksOf(ctx, store.Author{ID: 3})
		require.NoError(t, err)
		assert.Contains(t, books, book)

		found, err := s.Book(ctx, 9)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, book, *found)
	})

	t.Run("add book does not check the author", func(t *testing.T) {
		s := open(t, store.DefaultSeed())

		book, err := s.AddBook(ctx, "Orphan", 404)
		require.NoError(t, err)

		author, err := s.AuthorOf(ctx, book)
		require.NoError(t, err)
		assert.Nil(t, author)
	})

	t.Run("books only grow", func(t *testing.T) {
		s := open(t, store.DefaultSeed())

		prev := 0
		for i := range 3 {
			books, err := s.Books(ctx)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, len(books), prev)
			prev = len(books)

			_, err = s.AddBook(ctx, "Volume", i+1)
			require.NoError(t, err)
		}

		books, err := s.Books(ctx)
		require.NoError(t, err)
		assert.Len(t, books, 11)
	})

	t.Run("stores are isolated", func(t *testing.T) {
		a := open(t, store.DefaultSeed())
		b := open(t, store.DefaultSeed())

		_, err := a.AddAuthor(ctx, "Only in a")
		require.NoError(t, err)

		authors, err := b.Authors(ctx)
		require.NoError(t, err)
		assert.Len(t, authors, 3)
	})

	t.Run("empty seed", func(t *testing.T) {
		s := open(t, store.Seed{})

		authors, err := s.Authors(ctx)
		require.NoError(t, err)
		assert.Empty(t, authors)

		author, err := s.AddAuthor(ctx, "First")
		require.NoError(t, err)
		assert.Equal(t, 1, author.ID)
	})
}
