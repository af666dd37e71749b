package store

import (
	"context"
	"slices"
	"sync"

	"github.com/samber/lo"
)

// Memory keeps authors and books in two slices and answers every lookup
// with a linear scan. Safe for concurrent use.
type Memory struct {
	mu      sync.RWMutex
	authors []Author
	books   []Book
}

var _ Store = (*Memory)(nil)

// NewMemory creates a store holding a copy of seed.
func NewMemory(seed Seed) *Memory {
	seed = seed.clone()
	return &Memory{
		authors: seed.Authors,
		books:   seed.Books,
	}
}

func (m *Memory) Book(_ context.Context, id int) (*Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	book, ok := lo.Find(m.books, func(b Book) bool { return b.ID == id })
	if !ok {
		return nil, nil
	}
	return &book, nil
}

func (m *Memory) Books(_ context.Context) ([]Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return slices.Clone(m.books), nil
}

func (m *Memory) Author(_ context.Context, id int) (*Author, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.findAuthor(id), nil
}

func (m *Memory) Authors(_ context.Context) ([]Author, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return slices.Clone(m.authors), nil
}

func (m *Memory) AuthorOf(_ context.Context, book Book) (*Author, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.findAuthor(book.AuthorID), nil
}

func (m *Memory) BooksOf(_ context.Context, author Author) ([]Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return lo.Filter(m.books, func(b Book, _ int) bool { return b.AuthorID == author.ID }), nil
}

func (m *Memory) AddBook(_ context.Context, name string, authorID int) (Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	book := Book{ID: len(m.books) + 1, Name: name, AuthorID: authorID}
	m.books = append(m.books, book)

	return book, nil
}

func (m *Memory) AddAuthor(_ context.Context, name string) (Author, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	author := Author{ID: len(m.authors) + 1, Name: name}
	m.authors = append(m.authors, author)

	return author, nil
}

func (m *Memory) Close() error { return nil }

// findAuthor expects m.mu to be held.
func (m *Memory) findAuthor(id int) *Author {
	author, ok := lo.Find(m.authors, func(a Author) bool { return a.ID == id })
	if !ok {
		return nil
	}
	return &author
}
