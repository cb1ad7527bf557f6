package driver

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Statement is one parameterised Cypher query.
type Statement struct {
	Query  string
	Params map[string]any
}

type GraphDriver interface {
	ExecuteQuery(ctx context.Context, query string, params map[string]any) (neo4j.EagerResult, error)
	// ExecuteBatch runs the statements in order inside one write transaction.
	ExecuteBatch(ctx context.Context, statements []Statement) error
	BuildIndices(ctx context.Context) error
	Close(ctx context.Context) error
}
