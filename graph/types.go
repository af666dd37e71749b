package graph

import (
	"context"

	"pollex.nl/bookshelf/store"
)

type BookResolver struct {
	root *Resolver
	book store.Book
}

func (b *BookResolver) ID() int32 {
	return int32(b.book.ID)
}

func (b *BookResolver) Name() string {
	return b.book.Name
}

func (b *BookResolver) AuthorID() int32 {
	return int32(b.book.AuthorID)
}

// Author looks the author up on every access. A dangling reference is null.
func (b *BookResolver) Author(ctx context.Context) (*AuthorResolver, error) {
	author, err := b.root.store.AuthorOf(ctx, b.book)
	if err != nil || author == nil {
		return nil, err
	}

	return b.root.author(*author), nil
}

type AuthorResolver struct {
	root   *Resolver
	author store.Author
}

func (a *AuthorResolver) ID() int32 {
	return int32(a.author.ID)
}

func (a *AuthorResolver) Name() string {
	return a.author.Name
}

// Books filters the books on every access.
func (a *AuthorResolver) Books(ctx context.Context) (*[]*BookResolver, error) {
	books, err := a.root.store.BooksOf(ctx, a.author)
	if err != nil {
		return nil, err
	}

	return a.root.bookList(books), nil
}
