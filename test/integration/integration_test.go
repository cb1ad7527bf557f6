//go:build integration

package integration

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/textrank/internal/annotate"
	"github.com/agenthands/textrank/internal/config"
	"github.com/agenthands/textrank/internal/core"
	"github.com/agenthands/textrank/internal/core/model"
	"github.com/agenthands/textrank/internal/driver"
	"github.com/agenthands/textrank/internal/llm"
)

const article = `Graph-based ranking algorithms decide the importance of a vertex within a graph.
TextRank applies graph-based ranking to natural language texts.
Keyword extraction and sentence extraction both build a graph from the text.`

const (
	getRunNodesQuery = `
		MATCH (n {run_id: $run_id})
		WHERE n:Term OR n:Sentence
		RETURN n.id AS id, n.score AS score, n.community AS community
		ORDER BY n.score DESC, n.position ASC
	`

	deleteRunQuery = `
		MATCH (n {run_id: $run_id})
		DETACH DELETE n
	`
)

func connect(t *testing.T) *driver.MemgraphDriver {
	t.Helper()
	_ = godotenv.Load("../../.env")

	uri := os.Getenv("MEMGRAPH_URI")
	if uri == "" {
		t.Skip("Skipping integration test: MEMGRAPH_URI not set")
	}
	d, err := driver.NewMemgraphDriver(context.Background(), uri, os.Getenv("MEMGRAPH_USER"), os.Getenv("MEMGRAPH_PASSWORD"))
	require.NoError(t, err)
	t.Cleanup(func() { d.Close(context.Background()) })
	return d
}

func TestPersistKeywordGraph(t *testing.T) {
	ctx := context.Background()
	d := connect(t)

	engine, err := core.NewEngine(model.DefaultOptions(), d)
	require.NoError(t, err)
	require.NoError(t, engine.BuildIndices(ctx))

	ann, err := annotate.AnnotateAll(ctx, annotate.NewRegexAnnotator(), []model.Document{{ID: "a", Text: article}})
	require.NoError(t, err)

	export, err := engine.KeywordGraph(ctx, ann.Tokens)
	require.NoError(t, err)

	runID := uuid.New().String()
	_, err = engine.Persist(ctx, runID, export)
	require.NoError(t, err)
	defer d.ExecuteQuery(ctx, deleteRunQuery, map[string]any{"run_id": runID})

	res, err := d.ExecuteQuery(ctx, getRunNodesQuery, map[string]any{"run_id": runID})
	require.NoError(t, err)
	assert.Len(t, res.Records, len(export.Nodes))

	top, _ := res.Records[0].Get("score")
	assert.InDelta(t, maxScore(export), top.(float64), 1e-9)
}

func TestPersistSentenceGraph(t *testing.T) {
	ctx := context.Background()
	d := connect(t)

	engine, err := core.NewEngine(model.DefaultOptions(), d)
	require.NoError(t, err)

	ann, err := annotate.AnnotateAll(ctx, annotate.NewRegexAnnotator(), []model.Document{{ID: "a", Text: article}})
	require.NoError(t, err)

	export, err := engine.SentenceGraph(ctx, ann.Sentences, ann.Memberships())
	require.NoError(t, err)

	runID, err := engine.Persist(ctx, "", export)
	require.NoError(t, err)
	defer d.ExecuteQuery(ctx, deleteRunQuery, map[string]any{"run_id": runID})

	res, err := d.ExecuteQuery(ctx, getRunNodesQuery, map[string]any{"run_id": runID})
	require.NoError(t, err)
	assert.Len(t, res.Records, 3)
}

func TestLLMAnnotator(t *testing.T) {
	_ = godotenv.Load("../../.env")
	provider := os.Getenv("LLM_PROVIDER")
	if provider == "" {
		t.Skip("Skipping integration test: LLM_PROVIDER not set")
	}

	ctx := context.Background()
	client, err := llm.NewClient(ctx, config.LLMConfig{
		Provider: provider,
		Model:    os.Getenv("LLM_MODEL"),
		APIKey:   os.Getenv("LLM_API_KEY"),
		BaseURL:  os.Getenv("LLM_BASE_URL"),
	})
	require.NoError(t, err)

	annotator, err := annotate.NewLLMAnnotator(client, "")
	require.NoError(t, err)
	ann, err := annotator.Annotate(ctx, model.Document{ID: "a", Text: article})
	require.NoError(t, err)
	assert.NotEmpty(t, ann.Tokens)

	opts := model.DefaultOptions()
	opts.RelevantCategories = []string{"noun", "propn", "adj"}
	engine, err := core.NewEngine(opts, nil)
	require.NoError(t, err)

	res, err := engine.Keywords(ctx, ann.Tokens)
	require.NoError(t, err)
	assert.NotEmpty(t, res.Keywords)
}

func maxScore(export *model.GraphExport) float64 {
	best := 0.0
	for _, n := range export.Nodes {
		best = max(best, n.Score)
	}
	return best
}
