// Package artifacttest provides a tiny fitted vectorizer/model pair for tests.
package artifacttest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/knowledge-engine/bigfive/internal/artifact"
	"github.com/knowledge-engine/bigfive/internal/config"
	"github.com/knowledge-engine/bigfive/internal/model"
	"github.com/knowledge-engine/bigfive/internal/search"
	"github.com/knowledge-engine/bigfive/internal/storage"
)

// Terms is the fixture vocabulary in column order. Trait i is driven by
// columns 2i and 2i+1.
var Terms = []string{
	"creative", "art",
	"organized", "plan",
	"party", "friends",
	"kind", "help",
	"worried", "stress",
}

// VectorizerConfig has unit IDF weights and l2 normalization
func VectorizerConfig() search.TFIDFConfig {
	vocab := make(map[string]int, len(Terms))
	idf := make([]float64, len(Terms))
	for i, term := range Terms {
		vocab[term] = i
		idf[i] = 1
	}
	return search.TFIDFConfig{Vocabulary: vocab, IDF: idf}
}

// ModelConfig predicts 0.5 for text without known terms. "art" pushes
// Openness above 1 and "kind" pushes Neuroticism below 0.
func ModelConfig() model.Config {
	coef := make([][]float64, 5)
	for i := range coef {
		coef[i] = make([]float64, len(Terms))
		coef[i][2*i] = 0.3
		coef[i][2*i+1] = 0.3
	}
	coef[0][1] = 0.9
	coef[4][6] = -1.0
	return model.Config{
		Outputs:   []string{"Openness", "Conscientiousness", "Extraversion", "Agreeableness", "Neuroticism"},
		Coef:      coef,
		Intercept: []float64{0.5, 0.5, 0.5, 0.5, 0.5},
	}
}

// ArtifactConfig uses the default file names
func ArtifactConfig(dir string) config.ArtifactConfig {
	return config.ArtifactConfig{
		Dir:            dir,
		VectorizerFile: "tfidf_b5.json",
		ModelFile:      "bigfive_ridge.json",
		ScalerFile:     "label_minmax.json",
	}
}

// Write stores the fixture artifacts in a fresh temp dir and returns it
func Write(t testing.TB) string {
	t.Helper()
	dir := t.TempDir()
	WriteTo(t, dir)
	return dir
}

// WriteTo stores the required fixture artifacts in dir
func WriteTo(t testing.TB, dir string) {
	t.Helper()
	writeJSON(t, filepath.Join(dir, "tfidf_b5.json"), VectorizerConfig())
	writeJSON(t, filepath.Join(dir, "bigfive_ridge.json"), ModelConfig())
}

// WriteScaler adds the optional label scaler to dir
func WriteScaler(t testing.TB, dir string) {
	t.Helper()
	writeJSON(t, filepath.Join(dir, "label_minmax.json"), artifact.LabelScaler{
		DataMin: []float64{0, 0, 0, 0, 0},
		DataMax: []float64{1, 1, 1, 1, 1},
	})
}

// Bundle loads the fixture the way the binaries do
func Bundle(t testing.TB) *artifact.Bundle {
	t.Helper()
	dir := Write(t)
	store, err := storage.NewFileStorage(dir)
	if err != nil {
		t.Fatalf("open fixture dir: %v", err)
	}
	bundle, err := artifact.Load(store, ArtifactConfig(dir))
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}
	return bundle
}

// Source is a fixed artifact source
type Source struct {
	Bundle *artifact.Bundle
	Err    error
}

func (s Source) Get() (*artifact.Bundle, error) {
	return s.Bundle, s.Err
}

func writeJSON(t testing.TB, path string, v interface{}) {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
