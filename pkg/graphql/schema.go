// Package graphql builds the schema served at /api/graphql.
package graphql

import (
	"github.com/graphql-go/graphql"
)

// NewSchema creates a GraphQL schema from a provided root query object.
func NewSchema(query *graphql.Object) (graphql.Schema, error) {
	return graphql.NewSchema(graphql.SchemaConfig{
		Query: query,
	})
}
