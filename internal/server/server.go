package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agenthands/textrank/internal/annotate"
	"github.com/agenthands/textrank/internal/core"
	"github.com/agenthands/textrank/internal/core/graph"
	"github.com/agenthands/textrank/internal/core/model"
	"github.com/agenthands/textrank/internal/export"
)

type Server struct {
	Engine    *core.Engine
	Annotator annotate.Annotator
}

// NewServer serves engine. A nil annotator falls back to the regex one.
func NewServer(engine *core.Engine, annotator annotate.Annotator) *Server {
	if annotator == nil {
		annotator = annotate.NewRegexAnnotator()
	}
	return &Server{
		Engine:    engine,
		Annotator: annotator,
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()

	r.GET("/health", s.Health)
	r.POST("/keywords", s.Keywords)
	r.POST("/sentences", s.Sentences)
	r.POST("/graph", s.Graph)

	return r
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"memgraph": s.Engine.Driver != nil,
	})
}

func (s *Server) Keywords(c *gin.Context) {
	var req RankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	engine, err := s.Engine.WithOptions(req.Options.apply(s.Engine.Options))
	if err != nil {
		writeError(c, err)
		return
	}
	tokens, err := s.tokens(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	res, err := engine.Keywords(c.Request.Context(), tokens)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) Sentences(c *gin.Context) {
	var req RankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	engine, err := s.Engine.WithOptions(req.Options.apply(s.Engine.Options))
	if err != nil {
		writeError(c, err)
		return
	}
	sentences, memberships, err := s.sentenceTables(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	res, err := engine.Sentences(c.Request.Context(), sentences, memberships)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// RunIDHeader carries the persisted run id, which DOT bodies cannot hold.
const RunIDHeader = "X-Run-ID"

// Graph returns the scored graph as JSON, or DOT with format=dot. With
// persist=true the export is also written to Memgraph once the response
// body has been produced.
func (s *Server) Graph(c *gin.Context) {
	var req GraphRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if f := c.Query("format"); f != "" {
		req.Format = f
	}
	if err := req.validate(); err != nil {
		writeError(c, err)
		return
	}

	engine, err := s.Engine.WithOptions(req.Options.apply(s.Engine.Options))
	if err != nil {
		writeError(c, err)
		return
	}

	ctx := c.Request.Context()
	var exp *model.GraphExport
	if req.Mode == graph.ModeSentence {
		sentences, memberships, err := s.sentenceTables(ctx, &req.RankRequest)
		if err != nil {
			writeError(c, err)
			return
		}
		exp, err = engine.SentenceGraph(ctx, sentences, memberships)
		if err != nil {
			writeError(c, err)
			return
		}
	} else {
		tokens, err := s.tokens(ctx, &req.RankRequest)
		if err != nil {
			writeError(c, err)
			return
		}
		exp, err = engine.KeywordGraph(ctx, tokens)
		if err != nil {
			writeError(c, err)
			return
		}
	}

	var dot string
	if req.Format == FormatDOT {
		if dot, err = export.DOT(ctx, exp); err != nil {
			writeError(c, err)
			return
		}
	}

	resp := GraphResponse{GraphExport: exp}
	if req.Persist {
		resp.RunID, err = engine.Persist(ctx, req.RunID, exp)
		if err != nil {
			writeError(c, err)
			return
		}
		c.Header(RunIDHeader, resp.RunID)
	}

	if req.Format == FormatDOT {
		c.Data(http.StatusOK, "text/vnd.graphviz; charset=utf-8", []byte(dot))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) tokens(ctx context.Context, req *RankRequest) ([]model.Token, error) {
	if len(req.Tokens) > 0 {
		return req.Tokens, nil
	}
	ann, err := s.annotate(ctx, req)
	if err != nil {
		return nil, err
	}
	return ann.Tokens, nil
}

func (s *Server) sentenceTables(ctx context.Context, req *RankRequest) ([]model.Sentence, []model.Membership, error) {
	switch {
	case len(req.Sentences) > 0:
		memberships := req.Memberships
		if len(memberships) == 0 && len(req.Tokens) > 0 {
			memberships = (&annotate.Annotation{Tokens: req.Tokens}).Memberships()
		}
		return req.Sentences, memberships, nil
	case len(req.Tokens) > 0:
		sentences, memberships := annotate.SentenceTables(req.Tokens)
		return sentences, memberships, nil
	}
	ann, err := s.annotate(ctx, req)
	if err != nil {
		return nil, nil, err
	}
	return ann.Sentences, ann.Memberships(), nil
}

func (s *Server) annotate(ctx context.Context, req *RankRequest) (*annotate.Annotation, error) {
	docs := req.Documents
	if req.Text != "" {
		docs = append([]model.Document{{ID: "doc", Text: req.Text}}, docs...)
	}
	if len(docs) == 0 {
		return &annotate.Annotation{}, nil
	}
	ann, err := annotate.AnnotateAll(ctx, s.Annotator, docs)
	if err != nil {
		return nil, fmt.Errorf("failed to annotate input: %w", err)
	}
	return ann, nil
}

func writeError(c *gin.Context, err error) {
	var empty *model.EmptyInputError
	var invalid *model.InvalidConfigurationError
	switch {
	case errors.As(err, &empty):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.As(err, &invalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "field": invalid.Field})
	case errors.Is(err, core.ErrNoDriver):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		log.Printf("Request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process request"})
	}
}
