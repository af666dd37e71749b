package graph

import (
	"context"

	"pollex.nl/bookshelf/store"
)

// Resolver is the root resolver for both Query and Mutation.
type Resolver struct {
	store store.Store
}

func NewResolver(s store.Store) *Resolver {
	return &Resolver{store: s}
}

type idArgs struct {
	ID int32
}

func (r *Resolver) Book(ctx context.Context, args idArgs) (*BookResolver, error) {
	book, err := r.store.Book(ctx, int(args.ID))
	if err != nil || book == nil {
		return nil, err
	}

	return r.book(*book), nil
}

func (r *Resolver) Books(ctx context.Context) (*[]*BookResolver, error) {
	books, err := r.store.Books(ctx)
	if err != nil {
		return nil, err
	}

	return r.bookList(books), nil
}

func (r *Resolver) Author(ctx context.Context, args idArgs) (*AuthorResolver, error) {
	author, err := r.store.Author(ctx, int(args.ID))
	if err != nil || author == nil {
		return nil, err
	}

	return r.author(*author), nil
}

func (r *Resolver) Authors(ctx context.Context) (*[]*AuthorResolver, error) {
	authors, err := r.store.Authors(ctx)
	if err != nil {
		return nil, err
	}

	list := make([]*AuthorResolver, 0, len(authors))
	for _, a := range authors {
		list = append(list, r.author(a))
	}

	return &list, nil
}

func (r *Resolver) AddBook(ctx context.Context, args struct {
	Name     string
	AuthorID int32
}) (*BookResolver, error) {
	book, err := r.store.AddBook(ctx, args.Name, int(args.AuthorID))
	if err != nil {
		return nil, err
	}

	return r.book(book), nil
}

func (r *Resolver) AddAuthor(ctx context.Context, args struct{ Name string }) (*AuthorResolver, error) {
	author, err := r.store.AddAuthor(ctx, args.Name)
	if err != nil {
		return nil, err
	}

	return r.author(author), nil
}

func (r *Resolver) book(b store.Book) *BookResolver {
	return &BookResolver{root: r, book: b}
}

func (r *Resolver) author(a store.Author) *AuthorResolver {
	return &AuthorResolver{root: r, author: a}
}

func (r *Resolver) bookList(books []store.Book) *[]*BookResolver {
	list := make([]*BookResolver, 0, len(books))
	for _, b := range books {
		list = append(list, r.book(b))
	}

	return &list
}
