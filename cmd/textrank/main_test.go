package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/textrank/internal/core/model"
)

func requestFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "req.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

const sample = `{"text": "Fast food staff serve fast food. The staff like fast food. Compilers translate code."}`

func TestRun_Keywords(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), "keyword", "", "json", requestFile(t, sample), "", &out))

	var res model.KeywordResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	assert.NotEmpty(t, res.Keywords)
}

func TestRun_DefaultsSkipStopwords(t *testing.T) {
	body := `{"text": "The cat and the dog. The bird and the fish. The cat and the fish."}`
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), "keyword", "", "json", requestFile(t, body), "", &out))

	var res model.KeywordResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	require.NotEmpty(t, res.Keywords)
	assert.Equal(t, 4, res.Nodes)
	for _, k := range res.Keywords {
		assert.NotContains(t, k.Terms, "the")
		assert.NotContains(t, k.Terms, "and")
	}
}

func TestRun_Sentences(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), "sentence", "", "json", requestFile(t, sample), "", &out))

	var res model.SentenceResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	assert.Equal(t, 3, res.Nodes)
	assert.Len(t, res.Sentences, 1)
}

func TestRun_GraphDot(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), "graph", "keyword", "dot", requestFile(t, sample), "", &out))
	assert.Contains(t, out.String(), "graph")
	assert.Contains(t, out.String(), "food")
}

func TestRun_Errors(t *testing.T) {
	var out bytes.Buffer
	assert.Error(t, run(context.Background(), "summary", "", "json", requestFile(t, sample), "", &out))
	assert.Error(t, run(context.Background(), "keyword", "", "json", requestFile(t, "{"), "", &out))
	assert.Error(t, run(context.Background(), "keyword", "", "json", filepath.Join(t.TempDir(), "nope.json"), "", &out))

	var empty *model.EmptyInputError
	assert.ErrorAs(t, run(context.Background(), "keyword", "", "json", requestFile(t, `{}`), "", &out), &empty)
}
