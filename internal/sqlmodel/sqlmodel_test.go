package sqlmodel_test

import (
	"database/sql"
	"strings"
	"testing"

	"github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"pollex.nl/bookshelf/internal/sqlmodel"
)

type Shelf struct {
	ID    int
	Label string
	Tags  []string
	Books []Volume
}

type Volume struct {
	ID      int
	Title   string
	ShelfID int
	Notes   []Note
	Shelf   *Shelf
}

type Note struct {
	ID       int
	Text     string
	VolumeID int
	Volume   *Volume
}

var (
	note = sqlmodel.New[Note]("notes").
		AddSimpleField("id", func(t *Note) any { return &t.ID }).
		AddSimpleField("text", func(t *Note) any { return &t.Text }).
		AddSimpleField("volume_id", func(t *Note) any { return &t.VolumeID }).
		ModifyQuery(sqlmodel.InsertionOrder())

	volume = sqlmodel.New[Volume]("volumes").
		AddSimpleField("id", func(t *Volume) any { return &t.ID }).
		AddSimpleField("title", func(t *Volume) any { return &t.Title }).
		AddSimpleField("shelf_id", func(t *Volume) any { return &t.ShelfID }).
		ModifyQuery(sqlmodel.InsertionOrder()).
		AddRelation("notes",
			sqlmodel.HasMany(note,
				func(v Volume, n Note) bool { return n.VolumeID == v.ID },
				func(v *Volume, notes []Note) { v.Notes = notes },
				sqlmodel.WhereIDs("volume_id", func(v Volume) int { return v.ID }),
				sqlmodel.DependsOn("id", "notes.volume_id"),
			),
		)

	shelf = sqlmodel.New[Shelf]("shelves").
		AddSimpleField("id", func(t *Shelf) any { return &t.ID }).
		AddSimpleField("label", func(t *Shelf) any { return &t.Label }).
		AddField("tags", sqlmodel.Col("tags"), sqlmodel.Convert(func(t *Shelf, tags string) {
			t.Tags = strings.Split(tags, ",")
		})).
		ModifyQuery(sqlmodel.InsertionOrder()).
		AddRelation("books",
			sqlmodel.HasMany(volume,
				func(s Shelf, v Volume) bool { return v.ShelfID == s.ID },
				func(s *Shelf, volumes []Volume) { s.Books = volumes },
				sqlmodel.WhereIDs("shelf_id", func(s Shelf) int { return s.ID }),
				sqlmodel.DependsOn("id", "books.shelf_id"),
			),
		)
)

func init() {
	note.AddRelation("volume",
		sqlmodel.HasOne(volume,
			func(n Note, v Volume) bool { return n.VolumeID == v.ID },
			func(n *Note, v Volume) { n.Volume = &v },
			sqlmodel.WhereIDs("id", func(n Note) int { return n.VolumeID }),
			sqlmodel.DependsOn("volume_id"),
		))
	volume.AddRelation("shelf",
		sqlmodel.HasOne(shelf,
			func(v Volume, s Shelf) bool { return v.ShelfID == s.ID },
			func(v *Volume, s Shelf) { v.Shelf = &s },
			sqlmodel.WhereIDs("id", func(v Volume) int { return v.ShelfID }),
			sqlmodel.DependsOn("shelf_id"),
		))
}

func setupDB(t testing.TB) (*sql.DB, squirrel.StatementBuilderType) {
	db, err := sql.Open("sqlite3", "file::memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(migrate)
	require.NoError(t, err)

	return db, squirrel.StatementBuilder.RunWith(db)
}

//nolint:errcheck
func seed(sq squirrel.StatementBuilderType) {
	sq.Insert("shelves").
		Values(1, "Fantasy", "epic,magic").
		Values(2, "Poetry", "verse").Exec()
	sq.Insert("volumes").
		Values(1, "The Hobbit", 1).
		Values(2, "Mistborn", 1).
		Values(3, "Leaves of Grass", 2).
		Values(4, "Ariel", 2).
		Values(5, "Lost volume", 9).Exec()
	sq.Insert("notes").
		Values(1, "Reread", 1).
		Values(2, "Signed copy", 2).
		Values(3, "Water damage", 3).
		Values(4, "Lent out", 4).Exec()
}

const migrate = `
	create table shelves (
		id integer not null,
		label text not null,
		tags text not null
	);
	create table volumes (
		id integer not null,
		title text not null,
		shelf_id integer
	);
	create table notes (
		id integer not null,
		text text not null,
		volume_id integer
	);
	`
