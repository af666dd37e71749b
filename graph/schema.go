// Package graph exposes the store as a GraphQL schema: Book and Author types
// whose relation fields are resolved on access, plus the root query and
// mutation fields.
package graph

import (
	_ "embed"
	"fmt"

	graphql "github.com/graph-gophers/graphql-go"
	"pollex.nl/bookshelf/store"
)

//go:embed schema.graphql
var sdl string

// SDL returns the schema definition served by NewSchema.
func SDL() string {
	return sdl
}

// NewSchema parses the schema and binds it to a resolver owning s.
func NewSchema(s store.Store, opts ...graphql.SchemaOpt) (*graphql.Schema, error) {
	opts = append([]graphql.SchemaOpt{graphql.UseStringDescriptions()}, opts...)
	schema, err := graphql.ParseSchema(sdl, NewResolver(s), opts...)
	if err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}

	return schema, nil
}

// MustNewSchema is like NewSchema but panics on error.
func MustNewSchema(s store.Store, opts ...graphql.SchemaOpt) *graphql.Schema {
	schema, err := NewSchema(s, opts...)
	if err != nil {
		panic(err)
	}

	return schema
}
