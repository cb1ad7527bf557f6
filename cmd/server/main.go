package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/agenthands/textrank/internal/annotate"
	"github.com/agenthands/textrank/internal/config"
	"github.com/agenthands/textrank/internal/core"
	"github.com/agenthands/textrank/internal/driver"
	"github.com/agenthands/textrank/internal/llm"
	"github.com/agenthands/textrank/internal/server"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using defaults")
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Printf("Warning: could not load %s: %v. Using defaults", cfgPath, err)
		cfg = config.Default()
	}
	if err := cfg.ApplyEnv(); err != nil {
		log.Fatalf("Invalid environment: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	opts, err := cfg.Ranking.Options()
	if err != nil {
		log.Fatalf("Invalid ranking options: %v", err)
	}

	ctx := context.Background()

	var d driver.GraphDriver
	if cfg.Memgraph.Enabled {
		md, err := driver.NewMemgraphDriver(ctx, cfg.Memgraph.URI, cfg.Memgraph.User, cfg.Memgraph.Password)
		if err != nil {
			log.Fatalf("Failed to connect to Memgraph: %v", err)
		}
		defer md.Close(ctx)
		d = md
	}

	engine, err := core.NewEngine(opts, d)
	if err != nil {
		log.Fatalf("Failed to create engine: %v", err)
	}
	if d != nil {
		if err := engine.BuildIndices(ctx); err != nil {
			log.Printf("Warning: failed to build indices: %v", err)
		}
	}

	var annotator annotate.Annotator
	if cfg.Annotation.Annotator == "llm" {
		client, err := llm.NewClient(ctx, cfg.LLM)
		if err != nil {
			log.Fatalf("Failed to initialize LLM client: %v", err)
		}
		llmAnnotator, err := annotate.NewLLMAnnotator(client, cfg.Annotation.Prompt)
		if err != nil {
			log.Fatalf("Invalid annotation prompt: %v", err)
		}
		annotator = llmAnnotator
		log.Printf("Annotating raw text with %s/%s", cfg.LLM.Provider, cfg.LLM.Model)
	}

	srv := server.NewServer(engine, annotator)
	r := srv.SetupRouter()

	log.Printf("Starting server on port %s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatal(err)
	}
}
