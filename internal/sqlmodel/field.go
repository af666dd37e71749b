package sqlmodel

type (
	// Ptrs are the scan destinations a field contributes to a row.
	Ptrs []any
	// RowScan hands out the scan destinations for one row of T, plus an
	// optional action to run once the row has been scanned.
	RowScan[T any] func(*T) (Ptrs, Action)
	Action         func()
	FieldType[T any] struct {
		Mod     QueryMod
		RowScan RowScan[T]
	}
)

// Ptr scans a single column straight into the pointer returned by ptr.
func Ptr[T any](ptr func(t *T) any) RowScan[T] {
	return func(t *T) (Ptrs, Action) {
		return Ptrs{ptr(t)}, nil
	}
}

// Convert scans a column into an intermediate S and converts it into T once
// the row is read. Useful when the stored representation differs from the
// domain one, e.g. a comma separated text column backing a slice.
func Convert[T, S any](assign func(t *T, s S)) RowScan[T] {
	return func(t *T) (Ptrs, Action) {
		var s S
		return Ptrs{&s}, func() { assign(t, s) }
	}
}

func Field[T any](mod QueryMod, scan RowScan[T]) FieldType[T] {
	return FieldType[T]{mod, scan}
}

func flattenRowScan[T any](rowScans []RowScan[T]) RowScan[T] {
	return func(t *T) (Ptrs, Action) {
		var (
			pointers Ptrs
			actions  []Action
		)
		for _, rowScan := range rowScans {
			ptr, action := rowScan(t)
			pointers = append(pointers, ptr...)
			if action != nil {
				actions = append(actions, action)
			}
		}

		return pointers, flattenActions(actions)
	}
}

func flattenActions(actions []Action) Action {
	return func() {
		for _, action := range actions {
			action()
		}
	}
}
