package store_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pollex.nl/bookshelf/store"
)

const seedYAML = `
authors:
  - id: 1
    name: Ursula K. Le Guin
books:
  - id: 1
    name: A Wizard of Earthsea
    authorId: 1
  - id: 2
    name: The Dispossessed
    authorId: 1
`

func TestDefaultSeed(t *testing.T) {
	seed := store.DefaultSeed()
	assert.Len(t, seed.Authors, 3)
	assert.Len(t, seed.Books, 8)
	assert.Equal(t, "J. K. Rowling", seed.Authors[0].Name)
}

func TestDecodeSeed(t *testing.T) {
	seed, err := store.DecodeSeed(strings.NewReader(seedYAML))
	require.NoError(t, err)

	assert.Equal(t, []store.Author{{ID: 1, Name: "Ursula K. Le Guin"}}, seed.Authors)
	require.Len(t, seed.Books, 2)
	assert.Equal(t, store.Book{ID: 2, Name: "The Dispossessed", AuthorID: 1}, seed.Books[1])
}

func TestDecodeSeedEmptyDocument(t *testing.T) {
	seed, err := store.DecodeSeed(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, seed.Authors)
	assert.Empty(t, seed.Books)
}

func TestDecodeSeedRejectsUnknownKeys(t *testing.T) {
	_, err := store.DecodeSeed(strings.NewReader("publishers: []\n"))
	assert.Error(t, err)
}

func TestDecodeSeedRejectsOutOfRangeIDs(t *testing.T) {
	tests := map[string]string{
		"author id above int32":  "authors:\n  - id: 4294967297\n    name: Big\n",
		"author id zero":         "authors:\n  - id: 0\n    name: Nobody\n",
		"negative book id":       "books:\n  - id: -3\n    name: Minus\n    authorId: 1\n",
		"author ref above int32": "books:\n  - id: 1\n    name: Far\n    authorId: 2147483648\n",
		"author ref below int32": "books:\n  - id: 1\n    name: Far\n    authorId: -2147483649\n",
	}

	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := store.DecodeSeed(strings.NewReader(doc))
			assert.ErrorIs(t, err, store.ErrInvalidSeed)
		})
	}
}

func TestDecodeSeedAcceptsInt32Bounds(t *testing.T) {
	doc := "authors:\n  - id: 2147483647\n    name: Max\nbooks:\n  - id: 1\n    name: Lost\n    authorId: -5\n"

	seed, err := store.DecodeSeed(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, 2147483647, seed.Authors[0].ID)
	assert.Equal(t, -5, seed.Books[0].AuthorID)
}

func TestLoadSeed(t *testing.T) {
	t.Run("empty path is the default seed", func(t *testing.T) {
		seed, err := store.LoadSeed("")
		require.NoError(t, err)
		assert.Equal(t, store.DefaultSeed(), seed)
	})

	t.Run("from file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "seed.yaml")
		require.NoError(t, os.WriteFile(path, []byte(seedYAML), 0o600))

		seed, err := store.LoadSeed(path)
		require.NoError(t, err)
		assert.Len(t, seed.Books, 2)
	})

	t.Run("invalid ids", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "seed.yaml")
		require.NoError(t, os.WriteFile(path, []byte("authors:\n  - id: -1\n    name: Minus\n"), 0o600))

		_, err := store.LoadSeed(path)
		assert.ErrorIs(t, err, store.ErrInvalidSeed)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := store.LoadSeed(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}
