package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/knowledge-engine/bigfive/internal/artifact"
	"github.com/knowledge-engine/bigfive/internal/extract"
	"github.com/knowledge-engine/bigfive/internal/predict"
	"github.com/knowledge-engine/bigfive/internal/present"
	"github.com/knowledge-engine/bigfive/internal/textnorm"
)

// ErrEmptyInput is returned when there is nothing to analyze
var ErrEmptyInput = errors.New("please upload a file or paste text")

const (
	EmptyInputWarning = "Please upload a file or paste text."
	ArtifactsMissing  = "Artifacts not found. Make sure the vectorizer and model files are in the artifact directory."
)

// Input is what a user submits: either an uploaded file or pasted text
type Input interface {
	source() string
}

// FileInput is an uploaded document; its format comes from the file name
type FileInput struct {
	Name string
	Data []byte
}

func (f FileInput) source() string { return "file" }

// TextInput is pasted text
type TextInput struct {
	Text string
}

func (TextInput) source() string { return "text" }

// NewInput picks the upload when one was supplied, otherwise the pasted
// text. It returns nil when neither is present.
func NewInput(file *FileInput, text string) Input {
	if file != nil {
		return *file
	}
	if text != "" {
		return TextInput{Text: text}
	}
	return nil
}

// ArtifactSource hands out the loaded artifacts
type ArtifactSource interface {
	Get() (*artifact.Bundle, error)
}

// Engine runs extract -> normalize -> predict -> present for one request
type Engine struct {
	Artifacts ArtifactSource
	Extractor *extract.Extractor
	Logger    *logrus.Entry
}

// Result is the outcome of one analysis
type Result struct {
	RequestID   string         `json:"request_id"`
	Source      string         `json:"source"`
	FileName    string         `json:"file_name,omitempty"`
	Format      extract.Format `json:"format,omitempty"`
	Words       int            `json:"words"`
	Fingerprint string         `json:"model_fingerprint"`
	Report      present.Report `json:"report"`
}

// Status describes the loaded artifacts
type Status struct {
	Ready       bool            `json:"ready"`
	Error       string          `json:"error,omitempty"`
	Fingerprint string          `json:"model_fingerprint,omitempty"`
	Features    int             `json:"features,omitempty"`
	Traits      []predict.Trait `json:"traits"`
	Scaler      bool            `json:"label_scaler"`
	Formats     []string        `json:"formats"`
}

func NewEngine(artifacts ArtifactSource, extractor *extract.Extractor, logger *logrus.Entry) *Engine {
	return &Engine{
		Artifacts: artifacts,
		Extractor: extractor,
		Logger:    logger.WithField("component", "engine"),
	}
}

// Ready returns the artifact load error, if any. Surfaces call it once at
// start-up and halt when it is non-nil.
func (e *Engine) Ready() error {
	_, err := e.Artifacts.Get()
	return err
}

// Resolve turns an input into text. Files are extracted by format; nil or
// unknown inputs resolve to the empty string.
func (e *Engine) Resolve(in Input) (string, extract.Format) {
	switch v := in.(type) {
	case FileInput:
		format := extract.FormatFromName(v.Name)
		return e.Extractor.Extract(v.Data, format), format
	case TextInput:
		return v.Text, ""
	default:
		return "", ""
	}
}

// Analyze runs the full pipeline. It returns ErrEmptyInput when the input
// carries no usable text and wraps artifact.ErrLoad when the artifacts are
// unavailable.
func (e *Engine) Analyze(ctx context.Context, in Input) (*Result, error) {
	start := time.Now()
	result := &Result{RequestID: uuid.NewString()}
	log := e.Logger.WithField("request_id", result.RequestID)

	if in == nil {
		return nil, ErrEmptyInput
	}
	result.Source = in.source()
	if f, ok := in.(FileInput); ok {
		result.FileName = f.Name
	}

	bundle, err := e.Artifacts.Get()
	if err != nil {
		return nil, err
	}

	text, format := e.Resolve(in)
	result.Format = format
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	normalized := textnorm.Normalize(text)
	if normalized == "" {
		return nil, ErrEmptyInput
	}
	result.Words = strings.Count(normalized, " ") + 1

	scores, err := bundle.Predictor.Predict(normalized)
	if err != nil {
		return nil, fmt.Errorf("predict: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result.Fingerprint = bundle.Fingerprint
	result.Report = present.NewReport(scores)

	log.WithFields(logrus.Fields{
		"source":   result.Source,
		"format":   result.Format,
		"words":    result.Words,
		"duration": time.Since(start).String(),
	}).Info("Analysis complete")

	return result, nil
}

// Status reports artifact readiness for the status endpoint
func (e *Engine) Status() Status {
	status := Status{
		Traits:  append([]predict.Trait(nil), predict.Traits[:]...),
		Formats: append([]string(nil), extract.AcceptedExtensions...),
	}
	bundle, err := e.Artifacts.Get()
	if err != nil {
		status.Error = ArtifactsMissing
		return status
	}
	status.Ready = true
	status.Fingerprint = bundle.Fingerprint
	status.Features = bundle.Predictor.Dim()
	status.Scaler = bundle.Scaler != nil
	return status
}
