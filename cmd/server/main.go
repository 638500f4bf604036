package main

import (
	"github.com/knowledge-engine/bigfive/internal/api"
	"github.com/knowledge-engine/bigfive/internal/artifact"
	"github.com/knowledge-engine/bigfive/internal/config"
	"github.com/knowledge-engine/bigfive/internal/engine"
	"github.com/knowledge-engine/bigfive/internal/extract"
	"github.com/knowledge-engine/bigfive/internal/logging"
	"github.com/knowledge-engine/bigfive/internal/storage"
)

func main() {
	// 1. Config
	cfg := config.Load()

	// Setup Logging
	entry := logging.New(cfg.Log, "bigfive-api")
	entry.Info("Starting Big Five Trait Estimator API Service")

	// 2. Artifact storage
	store, err := storage.NewFileStorage(cfg.Artifacts.Dir)
	if err != nil {
		entry.Fatalf("Failed to open artifact directory: %v", err)
	}
	defer store.Close()

	// 3. Artifacts are loaded here, once; a failure halts the API
	loader := artifact.NewLoader(store, cfg.Artifacts, entry)

	// 4. Engine
	eng := engine.NewEngine(loader, extract.NewExtractor(entry), entry)

	// 5. API Server
	server := api.NewServer(eng, cfg.Server, entry)
	if server.Halted() {
		entry.Warn("API is halted: every route reports the artifact load error")
	}

	entry.Infof("Big Five API ready on %s", cfg.Server.Addr)
	if err := server.Start(cfg.Server.Addr); err != nil {
		entry.Fatal(err)
	}
}
