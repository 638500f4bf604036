package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/knowledge-engine/bigfive/internal/artifact"
	"github.com/knowledge-engine/bigfive/internal/config"
	"github.com/knowledge-engine/bigfive/internal/engine"
	"github.com/knowledge-engine/bigfive/internal/extract"
	"github.com/knowledge-engine/bigfive/internal/logging"
	"github.com/knowledge-engine/bigfive/internal/storage"
)

const app = "bigfive"

var (
	// Used for flags.
	artifactDir string
	debug       bool
	jsonLog     bool

	rootCmd = &cobra.Command{
		Use:           app,
		Short:         "bigfive estimates Big Five personality trait scores from a CV or free text",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&artifactDir, "artifacts", "", "directory holding the vectorizer and model files (default $ARTIFACT_DIR or .)")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolVar(&jsonLog, "json-log", false, "json format for logging")
}

// loadConfig applies command line overrides on top of the environment.
// Quiet commands print results on stdout and only log warnings by default.
func loadConfig(quiet bool) *config.Config {
	cfg := config.Load()
	if artifactDir != "" {
		cfg.Artifacts.Dir = artifactDir
	}
	if debug {
		cfg.Log.Level = "debug"
	} else if quiet && cfg.Log.Level == "info" {
		cfg.Log.Level = "warn"
	}
	if jsonLog {
		cfg.Log.Format = "json"
	}
	return cfg
}

// newEngine wires storage, the artifact loader and the extractor. Artifact
// load errors surface on the first Ready or Analyze call.
func newEngine(cfg *config.Config, logger *logrus.Entry) (*engine.Engine, error) {
	store, err := storage.NewFileStorage(cfg.Artifacts.Dir)
	if err != nil {
		return nil, err
	}
	loader := artifact.NewLoader(store, cfg.Artifacts, logger)
	return engine.NewEngine(loader, extract.NewExtractor(logger), logger), nil
}

func newLogger(cfg *config.Config) *logrus.Entry {
	return logging.New(cfg.Log, app)
}
