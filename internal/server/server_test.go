package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/textrank/internal/core"
	"github.com/agenthands/textrank/internal/core/model"
	"github.com/agenthands/textrank/internal/driver"
)

type mockDriver struct {
	batches [][]driver.Statement
}

func (m *mockDriver) ExecuteQuery(ctx context.Context, query string, params map[string]any) (neo4j.EagerResult, error) {
	return neo4j.EagerResult{}, nil
}

func (m *mockDriver) ExecuteBatch(ctx context.Context, statements []driver.Statement) error {
	m.batches = append(m.batches, statements)
	return nil
}

func (m *mockDriver) BuildIndices(ctx context.Context) error { return nil }
func (m *mockDriver) Close(ctx context.Context) error        { return nil }

const text = "Fast food staff serve fast food. The staff like fast food. Compilers translate code."

func setup(t *testing.T, d driver.GraphDriver) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	engine, err := core.NewEngine(model.DefaultOptions(), d)
	require.NoError(t, err)
	return NewServer(engine, nil).SetupRouter()
}

func post(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r := setup(t, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","memgraph":false}`, w.Body.String())
}

func TestKeywords_FromText(t *testing.T) {
	r := setup(t, nil)
	w := post(t, r, "/keywords", map[string]any{
		"text":    text,
		"options": map[string]any{"relevant_categories": []string{"noun"}, "selection": map[string]any{"mode": "count", "value": 3}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res model.KeywordResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.True(t, res.Converged)
	require.NotEmpty(t, res.Keywords)

	ids := make([]string, len(res.Keywords))
	for i, k := range res.Keywords {
		ids[i] = k.ID
	}
	assert.Contains(t, ids, "fast food")
	assert.NotContains(t, ids, "the")
}

func TestKeywords_FromTokens(t *testing.T) {
	r := setup(t, nil)
	tokens := []model.Token{
		{Text: "graph", Lemma: "graph", Category: "noun", SentenceID: "1", Position: 0},
		{Text: "ranking", Lemma: "ranking", Category: "noun", SentenceID: "1", Position: 1},
	}
	w := post(t, r, "/keywords", map[string]any{"tokens": tokens})
	require.Equal(t, http.StatusOK, w.Code)

	var res model.KeywordResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, 2, res.Nodes)
}

func TestKeywords_Errors(t *testing.T) {
	r := setup(t, nil)

	w := post(t, r, "/keywords", map[string]any{"text": ""})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = post(t, r, "/keywords", map[string]any{"text": text, "options": map[string]any{"damping_factor": 2}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "damping_factor")

	req := httptest.NewRequest(http.MethodPost, "/keywords", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSentences_FromText(t *testing.T) {
	r := setup(t, nil)
	w := post(t, r, "/sentences", map[string]any{
		"text":    text,
		"options": map[string]any{"selection": map[string]any{"mode": "count", "value": 1}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res model.SentenceResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, 3, res.Nodes)
	require.Len(t, res.Sentences, 1)
	assert.NotEqual(t, "doc:s2", res.Sentences[0].ID)
	assert.Contains(t, res.Texts, res.Sentences[0].ID)
}

func TestSentences_FromTables(t *testing.T) {
	r := setup(t, nil)
	w := post(t, r, "/sentences", map[string]any{
		"sentences": []model.Sentence{{ID: "a", Text: "A.", Order: 0}, {ID: "b", Text: "B.", Order: 1}},
		"memberships": []model.Membership{
			{SentenceID: "a", Lemma: "x"}, {SentenceID: "a", Lemma: "y"},
			{SentenceID: "b", Lemma: "x"}, {SentenceID: "b", Lemma: "z"},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res model.SentenceResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, 2, res.Nodes)
}

func TestSentences_UnknownSentence(t *testing.T) {
	r := setup(t, nil)
	w := post(t, r, "/sentences", map[string]any{
		"sentences":   []model.Sentence{{ID: "a"}},
		"memberships": []model.Membership{{SentenceID: "zzz", Lemma: "x"}},
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGraph_JSONAndPersist(t *testing.T) {
	d := &mockDriver{}
	r := setup(t, d)
	w := post(t, r, "/graph", map[string]any{"text": text, "persist": true, "run_id": "r1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res GraphResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "r1", res.RunID)
	assert.Equal(t, "keyword", res.Mode)
	assert.NotEmpty(t, res.Nodes)
	assert.NotEmpty(t, res.Edges)
	assert.Len(t, d.batches, 1)
	assert.Equal(t, "r1", w.Header().Get(RunIDHeader))
}

func TestGraph_BadRequestWritesNothing(t *testing.T) {
	d := &mockDriver{}
	r := setup(t, d)

	w := post(t, r, "/graph", map[string]any{"text": text, "persist": true, "run_id": "r9", "format": "svg"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "format")

	w = post(t, r, "/graph?format=png", map[string]any{"text": text, "persist": true})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = post(t, r, "/graph", map[string]any{"text": text, "persist": true, "mode": "paragraph"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Empty(t, d.batches)
}

func TestGraph_DotPersistReturnsRunID(t *testing.T) {
	d := &mockDriver{}
	r := setup(t, d)
	w := post(t, r, "/graph?format=dot", map[string]any{"text": text, "persist": true, "run_id": "r2"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Contains(t, w.Header().Get("Content-Type"), "text/vnd.graphviz")
	assert.Equal(t, "r2", w.Header().Get(RunIDHeader))
	assert.Len(t, d.batches, 1)
}

func TestGraph_Dot(t *testing.T) {
	r := setup(t, nil)
	w := post(t, r, "/graph?format=dot", map[string]any{"text": text, "mode": "sentence"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/vnd.graphviz")
	assert.Contains(t, w.Body.String(), "graph")
}

func TestGraph_Errors(t *testing.T) {
	r := setup(t, nil)

	w := post(t, r, "/graph", map[string]any{"text": text, "mode": "paragraph"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = post(t, r, "/graph", map[string]any{"text": text, "format": "svg"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = post(t, r, "/graph", map[string]any{"text": text, "persist": true})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestOptionOverrides(t *testing.T) {
	window := 5
	timeout := 250
	policy := "uniform_redistribution"
	o := &OptionOverrides{WindowSize: &window, TimeoutMS: &timeout, IsolatedNodePolicy: &policy}

	got := o.apply(model.DefaultOptions())
	assert.Equal(t, 5, got.WindowSize)
	assert.Equal(t, int64(250), got.Timeout.Milliseconds())
	assert.Equal(t, model.UniformRedistribution, got.IsolatedNodePolicy)
	assert.Equal(t, 0.85, got.DampingFactor)

	var none *OptionOverrides
	assert.Equal(t, model.DefaultOptions(), none.apply(model.DefaultOptions()))
}
