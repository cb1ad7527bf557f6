package server

import (
	"fmt"
	"time"

	"github.com/agenthands/textrank/internal/core/graph"
	"github.com/agenthands/textrank/internal/core/model"
)

const (
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// OptionOverrides replaces the server defaults for a single request. Unset
// fields keep the configured value.
type OptionOverrides struct {
	WindowSize           *int             `json:"window_size"`
	NgramMax             *int             `json:"ngram_max"`
	RelevantCategories   []string         `json:"relevant_categories"`
	DampingFactor        *float64         `json:"damping_factor"`
	ConvergenceThreshold *float64         `json:"convergence_threshold"`
	MaxIterations        *int             `json:"max_iterations"`
	IsolatedNodePolicy   *string          `json:"isolated_node_policy"`
	Selection            *model.Selection `json:"selection"`
	MinPhraseLength      *int             `json:"min_phrase_length"`
	MaxPhraseLength      *int             `json:"max_phrase_length"`
	Community            *string          `json:"community"`
	Workers              *int             `json:"workers"`
	TimeoutMS            *int             `json:"timeout_ms"`
}

func (o *OptionOverrides) apply(base model.Options) model.Options {
	if o == nil {
		return base
	}
	if o.WindowSize != nil {
		base.WindowSize = *o.WindowSize
	}
	if o.NgramMax != nil {
		base.NgramMax = *o.NgramMax
	}
	if o.RelevantCategories != nil {
		base.RelevantCategories = o.RelevantCategories
	}
	if o.DampingFactor != nil {
		base.DampingFactor = *o.DampingFactor
	}
	if o.ConvergenceThreshold != nil {
		base.ConvergenceThreshold = *o.ConvergenceThreshold
	}
	if o.MaxIterations != nil {
		base.MaxIterations = *o.MaxIterations
	}
	if o.IsolatedNodePolicy != nil {
		base.IsolatedNodePolicy = model.IsolatedNodePolicy(*o.IsolatedNodePolicy)
	}
	if o.Selection != nil {
		base.Selection = *o.Selection
	}
	if o.MinPhraseLength != nil {
		base.MinPhraseLength = *o.MinPhraseLength
	}
	if o.MaxPhraseLength != nil {
		base.MaxPhraseLength = *o.MaxPhraseLength
	}
	if o.Community != nil {
		base.Community = *o.Community
	}
	if o.Workers != nil {
		base.Workers = *o.Workers
	}
	if o.TimeoutMS != nil {
		base.Timeout = time.Duration(*o.TimeoutMS) * time.Millisecond
	}
	return base
}

// RankRequest carries either pre-annotated records or raw text.
type RankRequest struct {
	Text        string             `json:"text"`
	Documents   []model.Document   `json:"documents"`
	Tokens      []model.Token      `json:"tokens"`
	Sentences   []model.Sentence   `json:"sentences"`
	Memberships []model.Membership `json:"memberships"`
	Options     *OptionOverrides   `json:"options"`
}

type GraphRequest struct {
	RankRequest
	Mode    string `json:"mode"`
	Format  string `json:"format"`
	Persist bool   `json:"persist"`
	RunID   string `json:"run_id"`
}

// validate rejects unknown modes and formats before any graph work or
// persistence happens.
func (r *GraphRequest) validate() error {
	switch r.Mode {
	case "", graph.ModeKeyword, graph.ModeSentence:
	default:
		return &model.InvalidConfigurationError{Field: "mode", Reason: fmt.Sprintf("unknown mode %q", r.Mode)}
	}
	switch r.Format {
	case "", FormatJSON, FormatDOT:
	default:
		return &model.InvalidConfigurationError{Field: "format", Reason: fmt.Sprintf("unknown format %q", r.Format)}
	}
	return nil
}

type GraphResponse struct {
	*model.GraphExport
	RunID string `json:"run_id,omitempty"`
}
