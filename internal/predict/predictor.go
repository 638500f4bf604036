package predict

import (
	"fmt"
	"math"
	"strings"

	"github.com/knowledge-engine/bigfive/internal/model"
	"github.com/knowledge-engine/bigfive/internal/search"
)

// Trait is one of the Big Five personality dimensions
type Trait string

const (
	Openness          Trait = "Openness"
	Conscientiousness Trait = "Conscientiousness"
	Extraversion      Trait = "Extraversion"
	Agreeableness     Trait = "Agreeableness"
	Neuroticism       Trait = "Neuroticism"
)

// Traits is the canonical order the model was trained with
var Traits = [5]Trait{Openness, Conscientiousness, Extraversion, Agreeableness, Neuroticism}

// Score pairs a trait with its clamped value
type Score struct {
	Trait Trait   `json:"trait"`
	Value float64 `json:"score"`
}

// Scores holds exactly one clamped value per trait, in canonical order
type Scores [5]Score

// Get returns the score for trait
func (s Scores) Get(trait Trait) (float64, bool) {
	for _, sc := range s {
		if sc.Trait == trait {
			return sc.Value, true
		}
	}
	return 0, false
}

// Map returns the scores keyed by trait name
func (s Scores) Map() map[Trait]float64 {
	m := make(map[Trait]float64, len(s))
	for _, sc := range s {
		m[sc.Trait] = sc.Value
	}
	return m
}

// Values returns the score values in canonical order
func (s Scores) Values() []float64 {
	out := make([]float64, len(s))
	for i, sc := range s {
		out[i] = sc.Value
	}
	return out
}

// Clamp limits v to [0, 1]. NaN maps to 0.
func Clamp(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// NewScores clamps five raw outputs given in canonical order
func NewScores(raw []float64) (Scores, error) {
	var s Scores
	if len(raw) != len(Traits) {
		return s, fmt.Errorf("expected %d raw outputs, got %d", len(Traits), len(raw))
	}
	for i, trait := range Traits {
		s[i] = Score{Trait: trait, Value: Clamp(raw[i])}
	}
	return s, nil
}

// Predictor maps normalized text to trait scores
type Predictor struct {
	vectorizer search.Vectorizer
	model      *model.Ridge
}

// NewPredictor checks that the vectorizer and model agree on the feature
// width and that the model predicts the five traits in canonical order.
func NewPredictor(v search.Vectorizer, m *model.Ridge) (*Predictor, error) {
	if v.Dim() != m.Dim() {
		return nil, fmt.Errorf("%w: vectorizer width %d, model width %d", model.ErrDimension, v.Dim(), m.Dim())
	}
	if m.NumOutputs() != len(Traits) {
		return nil, fmt.Errorf("model predicts %d outputs, want %d", m.NumOutputs(), len(Traits))
	}
	if names := m.Outputs(); len(names) > 0 {
		for i, trait := range Traits {
			if !strings.EqualFold(names[i], string(trait)) {
				return nil, fmt.Errorf("model output %d is %q, want %q", i, names[i], trait)
			}
		}
	}
	return &Predictor{vectorizer: v, model: m}, nil
}

// Predict vectorizes normalized text and returns clamped trait scores
func (p *Predictor) Predict(normalized string) (Scores, error) {
	features := p.vectorizer.Transform(normalized)
	raw, err := p.model.Predict(features)
	if err != nil {
		return Scores{}, err
	}
	return NewScores(raw)
}

// Dim is the feature vector width
func (p *Predictor) Dim() int {
	return p.vectorizer.Dim()
}
