package core

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/agenthands/textrank/internal/driver"
)

type MockDriver struct {
	QueryExecuted string
	QueryParams   map[string]any
	Batches       [][]driver.Statement
	IndicesBuilt  bool
	MockResult    neo4j.EagerResult
	Err           error
}

func (m *MockDriver) ExecuteQuery(ctx context.Context, query string, params map[string]any) (neo4j.EagerResult, error) {
	m.QueryExecuted = query
	m.QueryParams = params
	if m.Err != nil {
		return neo4j.EagerResult{}, m.Err
	}
	return m.MockResult, nil
}

func (m *MockDriver) ExecuteBatch(ctx context.Context, statements []driver.Statement) error {
	if m.Err != nil {
		return m.Err
	}
	m.Batches = append(m.Batches, statements)
	return nil
}

func (m *MockDriver) BuildIndices(ctx context.Context) error {
	m.IndicesBuilt = true
	return m.Err
}

func (m *MockDriver) Close(ctx context.Context) error {
	return nil
}
