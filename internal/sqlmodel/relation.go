package sqlmodel

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/samber/lo"
)

type (
	Resolve[M any]            func(ctx context.Context, db squirrel.BaseRunner, parents []M, fields []string) error
	FieldCheck                func(fields string) error
	Binder[M, N any]          func(parents []M, children []N)
	ModelQueryModifier[M any] func(model ModelQuery[M]) ModelQuery[M]
)

// Relation links parents of type M to rows of another schema. Resolving it
// runs one query for all parents and binds the children back in memory.
type Relation[M any] struct {
	Resolve       Resolve[M]
	Check         FieldCheck
	ModelQueryMod ModelQueryModifier[M]
}

func HasMany[M, N any](
	child *ModelSchema[N],
	belongTogether func(M, N) bool,
	assign func(*M, []N),
	wherer func(parents []M) QueryMod,
	depends []string,
) Relation[M] {
	return CreateRelation(
		child,
		BindBy(belongTogether, assign),
		wherer,
		func(model ModelQuery[M]) ModelQuery[M] { return model.Select(depends...) },
	)
}

func HasOne[M, N any](
	child *ModelSchema[N],
	belongTogether func(M, N) bool,
	assign func(*M, N),
	wherer func(parents []M) QueryMod,
	depends []string,
) Relation[M] {
	return CreateRelation(
		child,
		BindByOne(belongTogether, assign),
		wherer,
		func(model ModelQuery[M]) ModelQuery[M] { return model.Select(depends...) },
	)
}

func CreateRelation[M, N any](
	child *ModelSchema[N],
	binder Binder[M, N],
	wherer func(parents []M) QueryMod,
	depends ModelQueryModifier[M],
) Relation[M] {
	return Relation[M]{
		Check: func(field string) error {
			return child.Check(field)
		},
		Resolve: func(ctx context.Context, db squirrel.BaseRunner, parents []M, fields []string) error {
			children, err := child.Query(fields...).
				ModifyQuery(wherer(parents)).
				Collect(ctx, db)
			if err != nil {
				return err
			}

			binder(parents, children)

			return nil
		},
		ModelQueryMod: depends,
	}
}

// BindBy assigns every parent the children it belongs with. A parent without
// children is assigned an empty, non-nil slice.
func BindBy[M, N any](
	belongTogether func(M, N) bool,
	assign func(*M, []N),
) Binder[M, N] {
	return func(parents []M, children []N) {
		for ix := range parents {
			parent := &parents[ix]

			assign(parent, lo.Filter(children, func(child N, _ int) bool {
				return belongTogether(*parent, child)
			}))
		}
	}
}

// BindByOne assigns every parent the first child it belongs with. Parents
// without a match are left untouched.
func BindByOne[M, N any](
	belongTogether func(M, N) bool,
	assign func(*M, N),
) Binder[M, N] {
	return func(parents []M, children []N) {
		for ix := range parents {
			parent := &parents[ix]

			child, ok := lo.Find(children, func(child N) bool {
				return belongTogether(*parent, child)
			})
			if !ok {
				continue
			}

			assign(parent, child)
		}
	}
}

func WhereIDs[M any, K comparable](col string, getID func(m M) K) func(parents []M) QueryMod {
	return func(parents []M) QueryMod {
		return func(q Q, table string) Q {
			return q.Where(
				squirrel.Eq{
					TableCol(table, col): lo.Uniq(lo.Map(
						parents,
						func(parent M, _ int) K { return getID(parent) },
					)),
				},
			)
		}
	}
}

func DependsOn(fields ...string) []string {
	return fields
}
