package sqlmodel

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Masterminds/squirrel"
)

// Collect runs q and scans every row into a new T.
func Collect[T any](ctx context.Context, q Q, scans RowScan[T]) ([]T, error) {
	rows, err := q.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("collect: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Default().Error("Collect: failed to close rows", "error", err.Error())
		}
	}()

	var collection []T
	for rows.Next() {
		var t T
		pointers, actions := scans(&t)
		if err := rows.Scan(pointers...); err != nil {
			return nil, fmt.Errorf("collect: scan: %w", err)
		}
		actions()
		collection = append(collection, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("collect: %w", err)
	}

	return collection, nil
}

// Count returns the number of rows in table.
func Count(ctx context.Context, db squirrel.BaseRunner, table string) (int, error) {
	var n int
	err := squirrel.StatementBuilder.RunWith(db).
		Select("count(*)").
		From(table).
		QueryRowContext(ctx).
		Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}

	return n, nil
}
