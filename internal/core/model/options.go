package model

import (
	"math"
	"time"
)

type SelectionMode string

const (
	SelectFraction  SelectionMode = "fraction"
	SelectCount     SelectionMode = "count"
	SelectThreshold SelectionMode = "threshold"
)

type Order string

const (
	ByRank             Order = "by_rank"
	ByOriginalPosition Order = "by_original_position"
)

// IsolatedNodePolicy controls what happens to the score mass of nodes with
// zero outgoing weight.
type IsolatedNodePolicy string

const (
	NoRedistribution      IsolatedNodePolicy = "no_redistribution"
	UniformRedistribution IsolatedNodePolicy = "uniform_redistribution"
)

// DefaultFraction is the share of candidate nodes kept by fraction selection.
const DefaultFraction = 1.0 / 3.0

// Selection picks and orders the output subset.
type Selection struct {
	Mode         SelectionMode `json:"mode" toml:"mode" yaml:"mode"`
	Value        float64       `json:"value" toml:"value" yaml:"value"`
	Order        Order         `json:"order" toml:"order" yaml:"order"`
	MinFrequency int           `json:"min_frequency,omitempty" toml:"min_frequency" yaml:"min_frequency"`
}

// EffectiveMode treats an empty mode as fraction selection.
func (s Selection) EffectiveMode() SelectionMode {
	if s.Mode == "" {
		return SelectFraction
	}
	return s.Mode
}

// EffectiveOrder treats an empty order as rank order.
func (s Selection) EffectiveOrder() Order {
	if s.Order == "" {
		return ByRank
	}
	return s.Order
}

// Options configures one ranking invocation.
type Options struct {
	WindowSize           int                `json:"window_size"`
	NgramMax             int                `json:"ngram_max"`
	RelevantCategories   []string           `json:"relevant_categories,omitempty"`
	DampingFactor        float64            `json:"damping_factor"`
	ConvergenceThreshold float64            `json:"convergence_threshold"`
	MaxIterations        int                `json:"max_iterations"`
	IsolatedNodePolicy   IsolatedNodePolicy `json:"isolated_node_policy"`
	Selection            Selection          `json:"selection"`

	// MinPhraseLength and MaxPhraseLength bound the phrase rows returned in
	// keyword mode; zero means no bound (MaxPhraseLength falls back to NgramMax).
	MinPhraseLength int `json:"min_phrase_length,omitempty"`
	MaxPhraseLength int `json:"max_phrase_length,omitempty"`

	// Community picks the export node grouping: "lpa" (default),
	// "components" or "none".
	Community string `json:"community,omitempty"`

	Workers int           `json:"workers,omitempty"`
	Timeout time.Duration `json:"-"`
}

// DefaultOptions returns the classic TextRank settings.
func DefaultOptions() Options {
	return Options{
		WindowSize:           2,
		NgramMax:             3,
		DampingFactor:        0.85,
		ConvergenceThreshold: 1e-4,
		MaxIterations:        100,
		IsolatedNodePolicy:   NoRedistribution,
		Selection: Selection{
			Mode:  SelectFraction,
			Value: DefaultFraction,
			Order: ByRank,
		},
		Workers: 1,
	}
}

// Relevance builds the relevance predicate for the configured categories.
func (o Options) Relevance() Relevance {
	return RelevantCategories(o.RelevantCategories...)
}

// Validate checks every option range.
func (o Options) Validate() error {
	if o.WindowSize <= 0 {
		return invalid("window_size", "must be > 0, got %d", o.WindowSize)
	}
	if o.NgramMax < 1 {
		return invalid("ngram_max", "must be >= 1, got %d", o.NgramMax)
	}
	if math.IsNaN(o.DampingFactor) || o.DampingFactor < 0 || o.DampingFactor >= 1 {
		return invalid("damping_factor", "must be in [0,1), got %v", o.DampingFactor)
	}
	if math.IsNaN(o.ConvergenceThreshold) || math.IsInf(o.ConvergenceThreshold, 0) || o.ConvergenceThreshold <= 0 {
		return invalid("convergence_threshold", "must be > 0, got %v", o.ConvergenceThreshold)
	}
	if o.MaxIterations <= 0 {
		return invalid("max_iterations", "must be > 0, got %d", o.MaxIterations)
	}
	switch o.IsolatedNodePolicy {
	case NoRedistribution, UniformRedistribution, "":
	default:
		return invalid("isolated_node_policy", "unknown policy %q", o.IsolatedNodePolicy)
	}
	if o.MinPhraseLength < 0 || o.MaxPhraseLength < 0 {
		return invalid("phrase_length", "bounds must be >= 0")
	}
	if o.MinPhraseLength > 0 && o.MaxPhraseLength > 0 && o.MinPhraseLength > o.MaxPhraseLength {
		return invalid("phrase_length", "min %d exceeds max %d", o.MinPhraseLength, o.MaxPhraseLength)
	}
	switch o.Community {
	case "", "lpa", "components", "none":
	default:
		return invalid("community", "unknown method %q", o.Community)
	}
	if o.Workers < 0 {
		return invalid("workers", "must be >= 0, got %d", o.Workers)
	}
	if o.Timeout < 0 {
		return invalid("timeout", "must be >= 0, got %s", o.Timeout)
	}
	return o.Selection.Validate()
}

// Validate checks the selection policy.
func (s Selection) Validate() error {
	if math.IsNaN(s.Value) || math.IsInf(s.Value, 0) {
		return invalid("selection.value", "must be finite, got %v", s.Value)
	}
	switch s.EffectiveMode() {
	case SelectFraction:
		if s.Value < 0 || s.Value > 1 {
			return invalid("selection.value", "fraction must be in (0,1], got %v", s.Value)
		}
	case SelectCount:
		if s.Value < 1 || s.Value != math.Trunc(s.Value) {
			return invalid("selection.value", "count must be a positive integer, got %v", s.Value)
		}
	case SelectThreshold:
		if s.Value < 0 {
			return invalid("selection.value", "threshold must be >= 0, got %v", s.Value)
		}
	default:
		return invalid("selection.mode", "unknown mode %q", s.Mode)
	}
	switch s.EffectiveOrder() {
	case ByRank, ByOriginalPosition:
	default:
		return invalid("selection.order", "unknown order %q", s.Order)
	}
	if s.MinFrequency < 0 {
		return invalid("selection.min_frequency", "must be >= 0, got %d", s.MinFrequency)
	}
	return nil
}
