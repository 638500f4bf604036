package search

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// Vectorizer turns text into a fixed-width vector
type Vectorizer interface {
	Transform(text string) []float64
	Dim() int
}

// Norm selects the per-row normalization applied after weighting
type Norm string

const (
	NormL2   Norm = "l2"
	NormL1   Norm = "l1"
	NormNone Norm = ""
)

// TFIDFConfig is the fitted state of a term frequency - inverse document
// frequency vectorizer as exported from training. A missing norm means l2;
// an explicit null means no normalization.
type TFIDFConfig struct {
	Vocabulary   map[string]int `json:"vocabulary"`
	IDF          []float64      `json:"idf"`
	NGramRange   [2]int         `json:"ngram_range"`
	SublinearTF  bool           `json:"sublinear_tf"`
	Norm         *Norm          `json:"norm,omitempty"`
	StopWords    []string       `json:"stop_words,omitempty"`
	TokenPattern string         `json:"token_pattern,omitempty"`
	Lowercase    *bool          `json:"lowercase,omitempty"`

	// Options that change how features are built. Only the word analyzer
	// with raw counts and no accent stripping is supported.
	Binary       bool    `json:"binary,omitempty"`
	Analyzer     string  `json:"analyzer,omitempty"`
	StripAccents *string `json:"strip_accents,omitempty"`
}

func (c *TFIDFConfig) UnmarshalJSON(data []byte) error {
	type plain TFIDFConfig
	var raw struct {
		plain
		Norm json.RawMessage `json:"norm"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = TFIDFConfig(raw.plain)

	switch {
	case raw.Norm == nil:
		c.Norm = nil
	case bytes.Equal(bytes.TrimSpace(raw.Norm), []byte("null")):
		none := NormNone
		c.Norm = &none
	default:
		var norm Norm
		if err := json.Unmarshal(raw.Norm, &norm); err != nil {
			return fmt.Errorf("norm: %w", err)
		}
		c.Norm = &norm
	}
	return nil
}

// TFIDFVectorizer applies a fitted vocabulary and IDF weights. It is never
// refit; terms outside the vocabulary are dropped.
type TFIDFVectorizer struct {
	Vocabulary map[string]int
	IDF        []float64

	tokenizer   *Tokenizer
	minN, maxN  int
	sublinearTF bool
	norm        Norm
}

// NewTFIDFVectorizer validates cfg and builds a read-only vectorizer
func NewTFIDFVectorizer(cfg TFIDFConfig) (*TFIDFVectorizer, error) {
	if len(cfg.Vocabulary) == 0 {
		return nil, errors.New("vectorizer vocabulary is empty")
	}
	if len(cfg.IDF) != len(cfg.Vocabulary) {
		return nil, fmt.Errorf("idf length %d does not match vocabulary size %d", len(cfg.IDF), len(cfg.Vocabulary))
	}
	for term, idx := range cfg.Vocabulary {
		if idx < 0 || idx >= len(cfg.IDF) {
			return nil, fmt.Errorf("vocabulary term %q has column %d out of range", term, idx)
		}
	}

	if cfg.Binary {
		return nil, errors.New("binary term counts are not supported")
	}
	if cfg.Analyzer != "" && cfg.Analyzer != "word" {
		return nil, fmt.Errorf("unsupported analyzer %q", cfg.Analyzer)
	}
	if cfg.StripAccents != nil && *cfg.StripAccents != "" {
		return nil, fmt.Errorf("unsupported strip_accents %q", *cfg.StripAccents)
	}

	norm := NormL2
	if cfg.Norm != nil {
		norm = *cfg.Norm
	}
	if norm == "none" {
		norm = NormNone
	}
	switch norm {
	case NormL2, NormL1, NormNone:
	default:
		return nil, fmt.Errorf("unsupported norm %q", norm)
	}

	lowercase := true
	if cfg.Lowercase != nil {
		lowercase = *cfg.Lowercase
	}
	tokenizer, err := NewTokenizer(cfg.TokenPattern, lowercase, cfg.StopWords)
	if err != nil {
		return nil, fmt.Errorf("invalid token pattern: %w", err)
	}

	minN, maxN := cfg.NGramRange[0], cfg.NGramRange[1]
	if minN == 0 && maxN == 0 {
		minN, maxN = 1, 1
	}
	if minN < 1 || maxN < minN {
		return nil, fmt.Errorf("invalid ngram range [%d, %d]", minN, maxN)
	}

	return &TFIDFVectorizer{
		Vocabulary:  cfg.Vocabulary,
		IDF:         cfg.IDF,
		tokenizer:   tokenizer,
		minN:        minN,
		maxN:        maxN,
		sublinearTF: cfg.SublinearTF,
		norm:        norm,
	}, nil
}

// Dim is the width of every vector produced by Transform
func (v *TFIDFVectorizer) Dim() int {
	return len(v.IDF)
}

// Transform converts text to a vector based on the learned vocabulary
func (v *TFIDFVectorizer) Transform(text string) []float64 {
	vector := make([]float64, len(v.IDF))
	terms := NGrams(v.tokenizer.Tokenize(text), v.minN, v.maxN)

	// Raw term counts over known columns
	for _, term := range terms {
		if idx, exists := v.Vocabulary[term]; exists {
			vector[idx]++
		}
	}

	for idx, count := range vector {
		if count == 0 {
			continue
		}
		if v.sublinearTF {
			count = 1 + math.Log(count)
		}
		vector[idx] = count * v.IDF[idx]
	}

	normalize(vector, v.norm)
	return vector
}

func normalize(vector []float64, norm Norm) {
	var total float64
	switch norm {
	case NormL2:
		for _, x := range vector {
			total += x * x
		}
		total = math.Sqrt(total)
	case NormL1:
		for _, x := range vector {
			total += math.Abs(x)
		}
	default:
		return
	}
	if total == 0 {
		return
	}
	for i := range vector {
		vector[i] /= total
	}
}
