// Package core wires the graph builders, the PageRank solver, the phrase
// aggregator and the selector into keyword and sentence extraction runs.
package core

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/agenthands/textrank/internal/core/community"
	"github.com/agenthands/textrank/internal/core/graph"
	"github.com/agenthands/textrank/internal/core/model"
	"github.com/agenthands/textrank/internal/core/phrase"
	"github.com/agenthands/textrank/internal/core/rank"
	"github.com/agenthands/textrank/internal/core/selector"
	"github.com/agenthands/textrank/internal/driver"
)

// ErrNoDriver is returned by Persist when the engine has no graph store.
var ErrNoDriver = errors.New("no graph driver configured")

type Engine struct {
	Options model.Options
	Driver  driver.GraphDriver
}

// NewEngine validates opts and returns an engine. exporter may be nil.
func NewEngine(opts model.Options, exporter driver.GraphDriver) (*Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		Options: opts,
		Driver:  exporter,
	}, nil
}

// WithOptions returns a copy of the engine running with opts.
func (e *Engine) WithOptions(opts model.Options) (*Engine, error) {
	return NewEngine(opts, e.Driver)
}

func (e *Engine) BuildIndices(ctx context.Context) error {
	if e.Driver == nil {
		return ErrNoDriver
	}
	return e.Driver.BuildIndices(ctx)
}

// Keywords ranks the lemmas of tokens, keeps the selected unigrams and
// merges adjacent survivors into phrases of up to NgramMax terms.
func (e *Engine) Keywords(ctx context.Context, tokens []model.Token) (*model.KeywordResult, error) {
	g, res, err := e.rankKeywords(ctx, tokens)
	if err != nil {
		return nil, err
	}

	relevant := e.Options.Relevance()
	counts := make(map[string]int, g.Len())
	for _, t := range tokens {
		if relevant(t.Category) {
			counts[t.Key()]++
		}
	}

	unigrams := make([]model.RankedItem, g.Len())
	for i := range g.Len() {
		unigrams[i] = model.RankedItem{
			ID:        g.ID(i),
			Text:      g.Label(i),
			Terms:     []string{g.ID(i)},
			Length:    1,
			Score:     res.Scores[i],
			Frequency: counts[g.ID(i)],
			Position:  g.Position(i),
		}
	}

	kept := selector.Select(unigrams, model.Selection{
		Mode:  e.Options.Selection.Mode,
		Value: e.Options.Selection.Value,
	})
	survivors := make(map[string]float64, len(kept))
	for _, it := range kept {
		survivors[it.ID] = it.Score
	}

	// Irrelevant tokens lose their key so they break phrase runs.
	masked := make([]model.Token, len(tokens))
	for i, t := range tokens {
		if !relevant(t.Category) {
			t.Text, t.Lemma = "", ""
		}
		masked[i] = t
	}

	rows := phrase.Aggregate(masked, survivors, e.Options.NgramMax)
	if minFreq := e.Options.Selection.MinFrequency; minFreq > 0 {
		filtered := rows[:0]
		for _, r := range rows {
			if r.Frequency >= minFreq {
				filtered = append(filtered, r)
			}
		}
		rows = filtered
	}

	maxLen := e.Options.MaxPhraseLength
	if maxLen == 0 {
		maxLen = e.Options.NgramMax
	}
	rows = selector.FilterLength(rows, e.Options.MinPhraseLength, maxLen)
	selector.Sort(rows, e.Options.Selection.EffectiveOrder())

	return &model.KeywordResult{
		Keywords: rows,
		Nodes:    g.Len(),
		RunInfo:  runInfo(graph.ModeKeyword, res),
	}, nil
}

// Sentences ranks sentences by lemma overlap and returns the selected ones.
func (e *Engine) Sentences(ctx context.Context, sentences []model.Sentence, memberships []model.Membership) (*model.SentenceResult, error) {
	g, res, err := e.rankSentences(ctx, sentences, memberships)
	if err != nil {
		return nil, err
	}

	items := make([]model.RankedItem, g.Len())
	for i := range g.Len() {
		items[i] = model.RankedItem{
			ID:       g.ID(i),
			Text:     g.Label(i),
			Score:    res.Scores[i],
			Position: g.Position(i),
		}
	}

	selected := selector.Select(items, e.Options.Selection)
	texts := make(map[string]string, len(selected))
	for _, it := range selected {
		texts[it.ID] = it.Text
	}

	return &model.SentenceResult{
		Sentences: selected,
		Texts:     texts,
		Nodes:     g.Len(),
		RunInfo:   runInfo(graph.ModeSentence, res),
	}, nil
}

// KeywordGraph returns the scored keyword graph for inspection.
func (e *Engine) KeywordGraph(ctx context.Context, tokens []model.Token) (*model.GraphExport, error) {
	g, res, err := e.rankKeywords(ctx, tokens)
	if err != nil {
		return nil, err
	}
	return e.export(graph.ModeKeyword, g, res), nil
}

// SentenceGraph returns the scored sentence graph for inspection.
func (e *Engine) SentenceGraph(ctx context.Context, sentences []model.Sentence, memberships []model.Membership) (*model.GraphExport, error) {
	g, res, err := e.rankSentences(ctx, sentences, memberships)
	if err != nil {
		return nil, err
	}
	return e.export(graph.ModeSentence, g, res), nil
}

// Persist writes export to the graph store under runID, generating one when
// empty, and returns the id used.
func (e *Engine) Persist(ctx context.Context, runID string, export *model.GraphExport) (string, error) {
	if e.Driver == nil {
		return "", ErrNoDriver
	}
	if runID == "" {
		runID = uuid.New().String()
	}

	nodeQuery, edgeQuery := driver.SaveTermNodesQuery, driver.SaveCoOccursEdgesQuery
	if export.Mode == graph.ModeSentence {
		nodeQuery, edgeQuery = driver.SaveSentenceNodesQuery, driver.SaveSimilarEdgesQuery
	}

	now := time.Now().UTC()
	nodes := make([]map[string]any, len(export.Nodes))
	for i, n := range export.Nodes {
		nodes[i] = map[string]any{
			"id":        n.ID,
			"label":     n.Label,
			"score":     n.Score,
			"position":  n.Position,
			"community": n.Community,
		}
	}
	edges := make([]map[string]any, len(export.Edges))
	for i, ed := range export.Edges {
		edges[i] = map[string]any{
			"source": ed.Source,
			"target": ed.Target,
			"weight": ed.Weight,
		}
	}

	statements := []driver.Statement{
		{Query: driver.SaveRunQuery, Params: map[string]any{
			"run_id":     runID,
			"mode":       export.Mode,
			"iterations": export.Iterations,
			"converged":  export.Converged,
			"max_delta":  export.MaxDelta,
			"created_at": now,
		}},
		{Query: nodeQuery, Params: map[string]any{"run_id": runID, "nodes": nodes, "created_at": now}},
		{Query: edgeQuery, Params: map[string]any{"run_id": runID, "edges": edges}},
	}
	if err := e.Driver.ExecuteBatch(ctx, statements); err != nil {
		return "", fmt.Errorf("failed to persist %s graph: %w", export.Mode, err)
	}

	log.Printf("Persisted %s graph run %s (%d nodes, %d edges)", export.Mode, runID, len(export.Nodes), len(export.Edges))
	return runID, nil
}

func (e *Engine) rankKeywords(ctx context.Context, tokens []model.Token) (*graph.Graph, *rank.Result, error) {
	g, err := graph.BuildKeywordGraph(ctx, tokens, e.Options.Relevance(), e.Options.WindowSize, e.Options.Workers)
	if err != nil {
		return nil, nil, err
	}
	res, err := e.solve(ctx, g)
	if err != nil {
		return nil, nil, err
	}
	return g, res, nil
}

func (e *Engine) rankSentences(ctx context.Context, sentences []model.Sentence, memberships []model.Membership) (*graph.Graph, *rank.Result, error) {
	g, err := graph.BuildSentenceGraph(ctx, sentences, memberships, e.Options.Relevance(), e.Options.Workers)
	if err != nil {
		return nil, nil, err
	}
	res, err := e.solve(ctx, g)
	if err != nil {
		return nil, nil, err
	}
	return g, res, nil
}

func (e *Engine) solve(ctx context.Context, g *graph.Graph) (*rank.Result, error) {
	res, err := rank.Solve(ctx, g, rank.FromModel(e.Options))
	if err != nil {
		return nil, fmt.Errorf("rank: %w", err)
	}
	if w := res.Warning(); w != nil {
		log.Printf("Warning: %v", w)
	}
	return res, nil
}

func (e *Engine) export(mode string, g *graph.Graph, res *rank.Result) *model.GraphExport {
	var labels []string
	if d := community.New(e.Options.Community); d != nil {
		labels = d.Detect(g)
	}

	out := &model.GraphExport{
		Mode:     mode,
		Directed: g.Directed(),
		Nodes:    make([]model.ExportNode, g.Len()),
		Edges:    []model.ExportEdge{},
		RunInfo:  runInfo(mode, res),
	}
	for i := range g.Len() {
		out.Nodes[i] = model.ExportNode{
			ID:       g.ID(i),
			Label:    g.Label(i),
			Score:    res.Scores[i],
			Position: g.Position(i),
		}
		if labels != nil {
			out.Nodes[i].Community = labels[i]
		}
		for _, ed := range g.Out(i) {
			if !g.Directed() && ed.To < i {
				continue
			}
			out.Edges = append(out.Edges, model.ExportEdge{
				Source: g.ID(i),
				Target: g.ID(ed.To),
				Weight: ed.Weight,
			})
		}
	}
	return out
}

func runInfo(mode string, res *rank.Result) model.RunInfo {
	info := model.RunInfo{
		Iterations: res.Iterations,
		Converged:  res.Converged,
		MaxDelta:   res.MaxDelta,
	}
	if w := res.Warning(); w != nil {
		info.Warnings = append(info.Warnings, fmt.Sprintf("%s: %v", mode, w))
	}
	return info
}
