// Package store holds the authors and books served by the GraphQL API.
//
// Entities live in ordered sequences that only grow: there is no update or
// delete. A new entity is assigned the id "current count + 1". Lookups that
// find nothing return a nil entity and a nil error; absence is not a failure.
package store

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnknownBackend is returned by Open for an unsupported backend name.
var ErrUnknownBackend = errors.New("unknown store backend")

const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

type Author struct {
	ID   int    `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

type Book struct {
	ID       int    `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	AuthorID int    `json:"authorId" yaml:"authorId"`
}

// Store is the entity store behind the GraphQL resolvers.
type Store interface {
	// Book returns the first book with the given id, or nil.
	Book(ctx context.Context, id int) (*Book, error)
	Books(ctx context.Context) ([]Book, error)
	// Author returns the first author with the given id, or nil.
	Author(ctx context.Context, id int) (*Author, error)
	Authors(ctx context.Context) ([]Author, error)

	// AuthorOf resolves the author a book refers to, or nil when the
	// reference dangles.
	AuthorOf(ctx context.Context, book Book) (*Author, error)
	// BooksOf lists the books referring to author. Never nil.
	BooksOf(ctx context.Context, author Author) ([]Book, error)

	// AddBook appends a book. The author reference is not checked.
	AddBook(ctx context.Context, name string, authorID int) (Book, error)
	AddAuthor(ctx context.Context, name string) (Author, error)

	Close() error
}

// Options configure Open.
type Options struct {
	Backend   string
	SQLiteDSN string
	Seed      Seed
}

// Open builds a store of the requested backend, seeded with opts.Seed.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case "", BackendMemory:
		return NewMemory(opts.Seed), nil
	case BackendSQLite:
		return OpenSQLite(ctx, opts.SQLiteDSN, opts.Seed)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}
