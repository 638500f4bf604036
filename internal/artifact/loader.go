// Package artifact loads the fitted vectorizer and regression model once per
// process and hands out the same read-only bundle afterwards.
package artifact

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/minio/highwayhash"
	"github.com/sirupsen/logrus"

	"github.com/knowledge-engine/bigfive/internal/config"
	"github.com/knowledge-engine/bigfive/internal/model"
	"github.com/knowledge-engine/bigfive/internal/predict"
	"github.com/knowledge-engine/bigfive/internal/search"
	"github.com/knowledge-engine/bigfive/internal/storage"
)

// ErrLoad wraps every failure to produce a usable bundle
var ErrLoad = errors.New("artifacts not loaded")

var fingerprintKey = []byte("bigfive-artifact-fingerprint-key")

// LabelScaler is the min/max scaler fitted on the training labels. It is not
// applied at inference.
type LabelScaler struct {
	DataMin []float64 `json:"data_min"`
	DataMax []float64 `json:"data_max"`
}

// Bundle is the immutable result of a successful load
type Bundle struct {
	Vectorizer  *search.TFIDFVectorizer
	Model       *model.Ridge
	Predictor   *predict.Predictor
	Scaler      *LabelScaler
	Fingerprint string
}

// Load reads and validates the artifacts named by cfg from store
func Load(store storage.ArtifactStorage, cfg config.ArtifactConfig) (*Bundle, error) {
	vecData, err := store.Read(cfg.VectorizerFile)
	if err != nil {
		return nil, fmt.Errorf("%w: vectorizer: %w", ErrLoad, err)
	}
	modelData, err := store.Read(cfg.ModelFile)
	if err != nil {
		return nil, fmt.Errorf("%w: model: %w", ErrLoad, err)
	}

	var vecCfg search.TFIDFConfig
	if err := json.Unmarshal(vecData, &vecCfg); err != nil {
		return nil, fmt.Errorf("%w: decode vectorizer: %w", ErrLoad, err)
	}
	vectorizer, err := search.NewTFIDFVectorizer(vecCfg)
	if err != nil {
		return nil, fmt.Errorf("%w: vectorizer: %w", ErrLoad, err)
	}

	var modelCfg model.Config
	if err := json.Unmarshal(modelData, &modelCfg); err != nil {
		return nil, fmt.Errorf("%w: decode model: %w", ErrLoad, err)
	}
	ridge, err := model.NewRidge(modelCfg)
	if err != nil {
		return nil, fmt.Errorf("%w: model: %w", ErrLoad, err)
	}

	predictor, err := predict.NewPredictor(vectorizer, ridge)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}

	fingerprint, err := Fingerprint(vecData, modelData)
	if err != nil {
		return nil, fmt.Errorf("%w: fingerprint: %w", ErrLoad, err)
	}

	bundle := &Bundle{
		Vectorizer:  vectorizer,
		Model:       ridge,
		Predictor:   predictor,
		Fingerprint: fingerprint,
	}

	// The scaler is optional; a missing or broken file leaves it nil.
	if cfg.ScalerFile != "" && store.Exists(cfg.ScalerFile) {
		if data, err := store.Read(cfg.ScalerFile); err == nil {
			var scaler LabelScaler
			if err := json.Unmarshal(data, &scaler); err == nil {
				bundle.Scaler = &scaler
			}
		}
	}

	return bundle, nil
}

// Fingerprint hashes the artifact contents so clients can tell model
// versions apart
func Fingerprint(parts ...[]byte) (string, error) {
	h, err := highwayhash.New(fingerprintKey)
	if err != nil {
		return "", err
	}
	for _, p := range parts {
		if _, err := h.Write(p); err != nil {
			return "", err
		}
	}
	return hex.EncodeToString(h.Sum(nil)[:16]), nil
}

// Loader caches the bundle for the process lifetime
type Loader struct {
	store  storage.ArtifactStorage
	cfg    config.ArtifactConfig
	logger *logrus.Entry

	once   sync.Once
	bundle *Bundle
	err    error
}

func NewLoader(store storage.ArtifactStorage, cfg config.ArtifactConfig, logger *logrus.Entry) *Loader {
	return &Loader{
		store:  store,
		cfg:    cfg,
		logger: logger.WithField("component", "artifact_loader"),
	}
}

// Get loads the artifacts on first call and returns the same bundle, or the
// same error, on every call after that. There is no reload.
func (l *Loader) Get() (*Bundle, error) {
	l.once.Do(func() {
		l.bundle, l.err = Load(l.store, l.cfg)
		if l.err != nil {
			l.logger.WithError(l.err).Error("Failed to load artifacts")
			return
		}
		l.logger.WithFields(logrus.Fields{
			"fingerprint": l.bundle.Fingerprint,
			"features":    l.bundle.Vectorizer.Dim(),
			"scaler":      l.bundle.Scaler != nil,
		}).Info("Artifacts loaded")
	})
	return l.bundle, l.err
}
