package sqlmodel

import "github.com/Masterminds/squirrel"

type (
	Q        = squirrel.SelectBuilder
	QueryMod func(q Q, table string) Q
)

func Col(name string) QueryMod {
	return func(q Q, table string) Q { return q.Column(TableCol(table, name)) }
}

// Eq restricts the query to rows where col equals value. A slice value
// becomes an IN clause.
func Eq(col string, value any) QueryMod {
	return func(q Q, table string) Q {
		return q.Where(squirrel.Eq{TableCol(table, col): value})
	}
}

// OrderBy sorts on the given columns of the queried table.
func OrderBy(cols ...string) QueryMod {
	return func(q Q, table string) Q {
		for _, col := range cols {
			q = q.OrderBy(TableCol(table, col))
		}
		return q
	}
}

// InsertionOrder sorts rows in the order they were inserted.
func InsertionOrder() QueryMod {
	return OrderBy("rowid")
}

func Limit(n uint64) QueryMod {
	return func(q Q, _ string) Q { return q.Limit(n) }
}

func TableCol(table, name string) string {
	if table == "" {
		return name
	}
	return table + "." + name
}

func applyMods(q Q, table string, mods []QueryMod) Q {
	for _, mod := range mods {
		q = mod(q, table)
	}

	return q
}
