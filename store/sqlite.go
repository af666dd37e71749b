package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"
	"github.com/samber/lo"
	"pollex.nl/bookshelf/internal/sqlmodel"
)

// DefaultSQLiteDSN is a private in-memory database. Nothing is written to disk.
const DefaultSQLiteDSN = "file::memory:"

const (
	authorsTable = "authors"
	booksTable   = "books"
)

const migrate = `
	create table if not exists authors (
		id integer not null,
		name text not null
	);
	create table if not exists books (
		id integer not null,
		name text not null,
		author_id integer not null
	);
	`

type authorRow struct {
	Author
	Books []bookRow
}

type bookRow struct {
	Book
	Author *authorRow
}

var (
	bookSchema = sqlmodel.New[bookRow](booksTable).
		AddSimpleField("id", func(t *bookRow) any { return &t.ID }).
		AddSimpleField("name", func(t *bookRow) any { return &t.Name }).
		AddSimpleField("author_id", func(t *bookRow) any { return &t.AuthorID }).
		ModifyQuery(sqlmodel.InsertionOrder())

	authorSchema = sqlmodel.New[authorRow](authorsTable).
		AddSimpleField("id", func(t *authorRow) any { return &t.ID }).
		AddSimpleField("name", func(t *authorRow) any { return &t.Name }).
		ModifyQuery(sqlmodel.InsertionOrder()).
		AddRelation("books",
			sqlmodel.HasMany(bookSchema,
				func(a authorRow, b bookRow) bool { return b.AuthorID == a.ID },
				func(a *authorRow, books []bookRow) { a.Books = books },
				sqlmodel.WhereIDs("author_id", func(a authorRow) int { return a.ID }),
				sqlmodel.DependsOn("id", "books.author_id"),
			),
		)
)

func init() {
	bookSchema.AddRelation("author",
		sqlmodel.HasOne(authorSchema,
			func(b bookRow, a authorRow) bool { return b.AuthorID == a.ID },
			func(b *bookRow, a authorRow) { b.Author = &a },
			sqlmodel.WhereIDs("id", func(b bookRow) int { return b.AuthorID }),
			sqlmodel.DependsOn("author_id"),
		))
}

// SQLite keeps the catalogue in an SQLite database, in memory by default.
// Relations are resolved through the sqlmodel schemas, one query per access.
type SQLite struct {
	db *sql.DB
}

var _ Store = (*SQLite)(nil)

// OpenSQLite opens dsn, creates the tables and loads seed into them.
func OpenSQLite(ctx context.Context, dsn string, seed Seed) (*SQLite, error) {
	if dsn == "" {
		dsn = DefaultSQLiteDSN
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Every connection to file::memory: sees its own database.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := &SQLite{db: db}
	if err := s.load(ctx, seed); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// load creates the tables and seeds them. A database that already holds
// rows is left as it is.
func (s *SQLite) load(ctx context.Context, seed Seed) error {
	if _, err := s.db.ExecContext(ctx, migrate); err != nil {
		return fmt.Errorf("migrate sqlite: %w", err)
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		authors, err := sqlmodel.Count(ctx, tx, authorsTable)
		if err != nil {
			return err
		}
		books, err := sqlmodel.Count(ctx, tx, booksTable)
		if err != nil {
			return err
		}
		if authors > 0 || books > 0 {
			return nil
		}

		if err := insert(ctx, tx, authorSchema, lo.Map(seed.Authors, authorValues)...); err != nil {
			return fmt.Errorf("seed authors: %w", err)
		}
		if err := insert(ctx, tx, bookSchema, lo.Map(seed.Books, bookValues)...); err != nil {
			return fmt.Errorf("seed books: %w", err)
		}

		return nil
	})
}

func (s *SQLite) Book(ctx context.Context, id int) (*Book, error) {
	row, err := bookSchema.Query().
		ModifyQuery(sqlmodel.Eq("id", id)).
		CollectFirst(ctx, s.db)
	if err != nil || row == nil {
		return nil, err
	}

	return &row.Book, nil
}

func (s *SQLite) Books(ctx context.Context) ([]Book, error) {
	rows, err := bookSchema.Query().Collect(ctx, s.db)
	if err != nil {
		return nil, err
	}

	return toBooks(rows), nil
}

func (s *SQLite) Author(ctx context.Context, id int) (*Author, error) {
	row, err := authorSchema.Query().
		ModifyQuery(sqlmodel.Eq("id", id)).
		CollectFirst(ctx, s.db)
	if err != nil || row == nil {
		return nil, err
	}

	return &row.Author, nil
}

func (s *SQLite) Authors(ctx context.Context) ([]Author, error) {
	rows, err := authorSchema.Query().Collect(ctx, s.db)
	if err != nil {
		return nil, err
	}

	return lo.Map(rows, func(r authorRow, _ int) Author { return r.Author }), nil
}

func (s *SQLite) AuthorOf(ctx context.Context, book Book) (*Author, error) {
	parents := []bookRow{{Book: book}}
	if err := bookSchema.Relations["author"].Resolve(ctx, s.db, parents, []string{"*"}); err != nil {
		return nil, err
	}

	if parents[0].Author == nil {
		return nil, nil
	}
	return &parents[0].Author.Author, nil
}

func (s *SQLite) BooksOf(ctx context.Context, author Author) ([]Book, error) {
	parents := []authorRow{{Author: author}}
	if err := authorSchema.Relations["books"].Resolve(ctx, s.db, parents, []string{"*"}); err != nil {
		return nil, err
	}

	return toBooks(parents[0].Books), nil
}

func (s *SQLite) AddBook(ctx context.Context, name string, authorID int) (Book, error) {
	var book Book
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		n, err := sqlmodel.Count(ctx, tx, booksTable)
		if err != nil {
			return err
		}

		book = Book{ID: n + 1, Name: name, AuthorID: authorID}
		return insert(ctx, tx, bookSchema, bookValues(book, 0))
	})
	if err != nil {
		return Book{}, fmt.Errorf("add book: %w", err)
	}

	return book, nil
}

func (s *SQLite) AddAuthor(ctx context.Context, name string) (Author, error) {
	var author Author
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		n, err := sqlmodel.Count(ctx, tx, authorsTable)
		if err != nil {
			return err
		}

		author = Author{ID: n + 1, Name: name}
		return insert(ctx, tx, authorSchema, authorValues(author, 0))
	})
	if err != nil {
		return Author{}, fmt.Errorf("add author: %w", err)
	}

	return author, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

func toBooks(rows []bookRow) []Book {
	return lo.Map(rows, func(r bookRow, _ int) Book { return r.Book })
}

// insert writes rows into the schema's table, one value per schema column.
func insert[T any](ctx context.Context, tx *sql.Tx, schema *sqlmodel.ModelSchema[T], rows ...map[string]any) error {
	if len(rows) == 0 {
		return nil
	}

	cols := schema.Columns()
	q := squirrel.StatementBuilder.RunWith(tx).Insert(schema.Table).Columns(cols...)
	for _, row := range rows {
		q = q.Values(lo.Map(cols, func(col string, _ int) any { return row[col] })...)
	}

	_, err := q.ExecContext(ctx)
	return err
}

func authorValues(a Author, _ int) map[string]any {
	return map[string]any{"id": a.ID, "name": a.Name}
}

func bookValues(b Book, _ int) map[string]any {
	return map[string]any{"id": b.ID, "name": b.Name, "author_id": b.AuthorID}
}
