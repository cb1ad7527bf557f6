package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/agenthands/textrank/internal/core/model"
)

type SelectionConfig struct {
	Mode         string  `toml:"mode" yaml:"mode"`
	Value        float64 `toml:"value" yaml:"value"`
	Order        string  `toml:"order" yaml:"order"`
	MinFrequency int     `toml:"min_frequency" yaml:"min_frequency"`
}

// RankingConfig mirrors model.Options with file-friendly types.
type RankingConfig struct {
	WindowSize           int             `toml:"window_size" yaml:"window_size"`
	NgramMax             int             `toml:"ngram_max" yaml:"ngram_max"`
	RelevantCategories   []string        `toml:"relevant_categories" yaml:"relevant_categories"`
	DampingFactor        float64         `toml:"damping_factor" yaml:"damping_factor"`
	ConvergenceThreshold float64         `toml:"convergence_threshold" yaml:"convergence_threshold"`
	MaxIterations        int             `toml:"max_iterations" yaml:"max_iterations"`
	IsolatedNodePolicy   string          `toml:"isolated_node_policy" yaml:"isolated_node_policy"`
	MinPhraseLength      int             `toml:"min_phrase_length" yaml:"min_phrase_length"`
	MaxPhraseLength      int             `toml:"max_phrase_length" yaml:"max_phrase_length"`
	Community            string          `toml:"community" yaml:"community"`
	Workers              int             `toml:"workers" yaml:"workers"`
	Timeout              string          `toml:"timeout" yaml:"timeout"`
	Selection            SelectionConfig `toml:"selection" yaml:"selection"`
}

type ServerConfig struct {
	Port string `toml:"port" yaml:"port"`
}

type MemgraphConfig struct {
	Enabled  bool   `toml:"enabled" yaml:"enabled"`
	URI      string `toml:"uri" yaml:"uri"`
	User     string `toml:"user" yaml:"user"`
	Password string `toml:"password" yaml:"password"`
}

type LLMConfig struct {
	Provider string `toml:"provider" yaml:"provider"`
	Model    string `toml:"model" yaml:"model"`
	APIKey   string `toml:"api_key" yaml:"api_key"`
	BaseURL  string `toml:"base_url" yaml:"base_url"`
}

// AnnotationConfig picks how raw text is turned into tokens.
type AnnotationConfig struct {
	Annotator string `toml:"annotator" yaml:"annotator"`
	Prompt    string `toml:"prompt" yaml:"prompt"`
}

type Config struct {
	Ranking    RankingConfig    `toml:"ranking" yaml:"ranking"`
	Server     ServerConfig     `toml:"server" yaml:"server"`
	Memgraph   MemgraphConfig   `toml:"memgraph" yaml:"memgraph"`
	LLM        LLMConfig        `toml:"llm" yaml:"llm"`
	Annotation AnnotationConfig `toml:"annotation" yaml:"annotation"`
}

// DefaultRelevantCategories keeps content words. The regex annotator tags
// stopwords "other", so they never become nodes.
var DefaultRelevantCategories = []string{"noun", "propn", "adj"}

// Default returns a config carrying the standard ranking options.
func Default() *Config {
	opts := model.DefaultOptions()
	return &Config{
		Ranking: RankingConfig{
			WindowSize:           opts.WindowSize,
			NgramMax:             opts.NgramMax,
			RelevantCategories:   slices.Clone(DefaultRelevantCategories),
			DampingFactor:        opts.DampingFactor,
			ConvergenceThreshold: opts.ConvergenceThreshold,
			MaxIterations:        opts.MaxIterations,
			IsolatedNodePolicy:   string(opts.IsolatedNodePolicy),
			Community:            "lpa",
			Workers:              opts.Workers,
			Selection: SelectionConfig{
				Mode:  string(opts.Selection.Mode),
				Value: opts.Selection.Value,
				Order: string(opts.Selection.Order),
			},
		},
		Server:     ServerConfig{Port: "8080"},
		Memgraph:   MemgraphConfig{URI: "bolt://localhost:7687"},
		Annotation: AnnotationConfig{Annotator: "regex"},
	}
}

// Load reads a TOML file, or YAML for .yaml/.yml paths, over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
	}

	return cfg, nil
}

// ApplyEnv overrides fields from the process environment.
func (c *Config) ApplyEnv() error {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setString("PORT", &c.Server.Port)
	setString("MEMGRAPH_URI", &c.Memgraph.URI)
	setString("MEMGRAPH_USER", &c.Memgraph.User)
	setString("MEMGRAPH_PASSWORD", &c.Memgraph.Password)
	setString("LLM_PROVIDER", &c.LLM.Provider)
	setString("LLM_MODEL", &c.LLM.Model)
	setString("LLM_API_KEY", &c.LLM.APIKey)
	setString("LLM_BASE_URL", &c.LLM.BaseURL)
	setString("TEXTRANK_ANNOTATOR", &c.Annotation.Annotator)

	if v := os.Getenv("MEMGRAPH_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("MEMGRAPH_ENABLED: %w", err)
		}
		c.Memgraph.Enabled = enabled
	}
	if v := os.Getenv("TEXTRANK_DAMPING"); v != "" {
		d, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("TEXTRANK_DAMPING: %w", err)
		}
		c.Ranking.DampingFactor = d
	}
	if v := os.Getenv("TEXTRANK_WINDOW"); v != "" {
		w, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TEXTRANK_WINDOW: %w", err)
		}
		c.Ranking.WindowSize = w
	}
	return nil
}

// Options converts the ranking section into engine options.
func (r RankingConfig) Options() (model.Options, error) {
	opts := model.Options{
		WindowSize:           r.WindowSize,
		NgramMax:             r.NgramMax,
		RelevantCategories:   r.RelevantCategories,
		DampingFactor:        r.DampingFactor,
		ConvergenceThreshold: r.ConvergenceThreshold,
		MaxIterations:        r.MaxIterations,
		IsolatedNodePolicy:   model.IsolatedNodePolicy(r.IsolatedNodePolicy),
		MinPhraseLength:      r.MinPhraseLength,
		MaxPhraseLength:      r.MaxPhraseLength,
		Community:            r.Community,
		Workers:              r.Workers,
		Selection: model.Selection{
			Mode:         model.SelectionMode(r.Selection.Mode),
			Value:        r.Selection.Value,
			Order:        model.Order(r.Selection.Order),
			MinFrequency: r.Selection.MinFrequency,
		},
	}
	if r.Timeout != "" {
		d, err := time.ParseDuration(r.Timeout)
		if err != nil {
			return model.Options{}, &model.InvalidConfigurationError{Field: "timeout", Reason: err.Error()}
		}
		opts.Timeout = d
	}
	return opts, nil
}

// Validate checks the ranking options and the adapter sections.
func (c *Config) Validate() error {
	opts, err := c.Ranking.Options()
	if err != nil {
		return err
	}
	if err := opts.Validate(); err != nil {
		return err
	}
	switch c.Annotation.Annotator {
	case "", "regex", "llm":
	default:
		return &model.InvalidConfigurationError{Field: "annotation.annotator", Reason: fmt.Sprintf("unknown annotator %q", c.Annotation.Annotator)}
	}
	if c.Annotation.Annotator == "llm" && c.LLM.Provider == "" {
		return &model.InvalidConfigurationError{Field: "llm.provider", Reason: "required by the llm annotator"}
	}
	if c.Memgraph.Enabled && c.Memgraph.URI == "" {
		return &model.InvalidConfigurationError{Field: "memgraph.uri", Reason: "required when memgraph is enabled"}
	}
	return nil
}
