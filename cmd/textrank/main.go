// Command textrank ranks keywords or sentences from a JSON request file and
// prints the result as JSON, or the graph as DOT.
//
//	textrank -mode keyword -in request.json
//	textrank -mode graph -format dot -in request.json > graph.dot
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/agenthands/textrank/internal/annotate"
	"github.com/agenthands/textrank/internal/config"
	"github.com/agenthands/textrank/internal/core"
	"github.com/agenthands/textrank/internal/core/model"
	"github.com/agenthands/textrank/internal/export"
)

// request is the CLI input file. It mirrors the HTTP request body.
type request struct {
	Text        string             `json:"text"`
	Documents   []model.Document   `json:"documents"`
	Tokens      []model.Token      `json:"tokens"`
	Sentences   []model.Sentence   `json:"sentences"`
	Memberships []model.Membership `json:"memberships"`
}

func main() {
	mode := flag.String("mode", "keyword", "keyword, sentence or graph")
	graphMode := flag.String("graph", "keyword", "graph to export in graph mode: keyword or sentence")
	format := flag.String("format", "json", "graph output format: json or dot")
	in := flag.String("in", "-", "request file, - for stdin")
	cfgPath := flag.String("config", "", "optional TOML or YAML config")
	flag.Parse()

	if err := run(context.Background(), *mode, *graphMode, *format, *in, *cfgPath, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, mode, graphMode, format, in, cfgPath string, out io.Writer) error {
	cfg := config.Default()
	if cfgPath != "" {
		var err error
		if cfg, err = config.Load(cfgPath); err != nil {
			return err
		}
	}
	opts, err := cfg.Ranking.Options()
	if err != nil {
		return err
	}
	engine, err := core.NewEngine(opts, nil)
	if err != nil {
		return err
	}

	req, err := readRequest(in)
	if err != nil {
		return err
	}
	if len(req.Tokens) == 0 && (req.Text != "" || len(req.Documents) > 0) {
		docs := req.Documents
		if req.Text != "" {
			docs = append([]model.Document{{ID: "doc", Text: req.Text}}, docs...)
		}
		ann, err := annotate.AnnotateAll(ctx, annotate.NewRegexAnnotator(), docs)
		if err != nil {
			return err
		}
		req.Tokens = ann.Tokens
		if len(req.Sentences) == 0 {
			req.Sentences, req.Memberships = ann.Sentences, ann.Memberships()
		}
	}
	if len(req.Sentences) == 0 && len(req.Tokens) > 0 {
		req.Sentences, req.Memberships = annotate.SentenceTables(req.Tokens)
	}

	var result any
	switch mode {
	case "keyword":
		result, err = engine.Keywords(ctx, req.Tokens)
	case "sentence":
		result, err = engine.Sentences(ctx, req.Sentences, req.Memberships)
	case "graph":
		var exp *model.GraphExport
		if graphMode == "sentence" {
			exp, err = engine.SentenceGraph(ctx, req.Sentences, req.Memberships)
		} else {
			exp, err = engine.KeywordGraph(ctx, req.Tokens)
		}
		if err == nil && format == "dot" {
			dot, err := export.DOT(ctx, exp)
			if err != nil {
				return err
			}
			_, err = io.WriteString(out, dot)
			return err
		}
		result = exp
	default:
		return fmt.Errorf("unknown mode %q", mode)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func readRequest(path string) (*request, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open request: %w", err)
		}
		defer f.Close()
		r = f
	}

	var req request
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}
