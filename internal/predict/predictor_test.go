package predict_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knowledge-engine/bigfive/internal/artifact/artifacttest"
	"github.com/knowledge-engine/bigfive/internal/model"
	"github.com/knowledge-engine/bigfive/internal/predict"
	"github.com/knowledge-engine/bigfive/internal/search"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{-3.2, 0},
		{0, 0},
		{0.42, 0.42},
		{1, 1},
		{7.5, 1},
		{math.Inf(1), 1},
		{math.Inf(-1), 0},
		{math.NaN(), 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, predict.Clamp(tt.in), "clamp(%v)", tt.in)
	}
}

func TestNewScores(t *testing.T) {
	scores, err := predict.NewScores([]float64{-1, 0.3, 1.7, 0.65, 0.5})
	require.NoError(t, err)

	assert.Equal(t, []float64{0, 0.3, 1, 0.65, 0.5}, scores.Values())
	for i, s := range scores {
		assert.Equal(t, predict.Traits[i], s.Trait)
		assert.GreaterOrEqual(t, s.Value, 0.0)
		assert.LessOrEqual(t, s.Value, 1.0)
	}

	v, ok := scores.Get(predict.Extraversion)
	assert.True(t, ok)
	assert.Equal(t, 1.0, v)
	_, ok = scores.Get(predict.Trait("Honesty"))
	assert.False(t, ok)

	m := scores.Map()
	assert.Len(t, m, 5)
	assert.Equal(t, 0.65, m[predict.Agreeableness])

	_, err = predict.NewScores([]float64{1, 2})
	assert.Error(t, err)
}

func newPredictor(t *testing.T) *predict.Predictor {
	t.Helper()
	v, err := search.NewTFIDFVectorizer(artifacttest.VectorizerConfig())
	require.NoError(t, err)
	m, err := model.NewRidge(artifacttest.ModelConfig())
	require.NoError(t, err)
	p, err := predict.NewPredictor(v, m)
	require.NoError(t, err)
	return p
}

func TestPredictorPredict(t *testing.T) {
	p := newPredictor(t)
	assert.Equal(t, len(artifacttest.Terms), p.Dim())

	// "organized plan": both columns at 1/sqrt(2)
	scores, err := p.Predict("organized plan")
	require.NoError(t, err)
	c, _ := scores.Get(predict.Conscientiousness)
	assert.InDelta(t, 0.5+0.6/math.Sqrt(2), c, 1e-9)
	o, _ := scores.Get(predict.Openness)
	assert.InDelta(t, 0.5, o, 1e-9)
}

func TestPredictorClampsModelOutput(t *testing.T) {
	p := newPredictor(t)

	// art weighs 0.9 on Openness: 1.4 raw
	scores, err := p.Predict("art")
	require.NoError(t, err)
	o, _ := scores.Get(predict.Openness)
	assert.Equal(t, 1.0, o)

	// kind weighs -1 on Neuroticism: -0.5 raw
	scores, err = p.Predict("kind")
	require.NoError(t, err)
	n, _ := scores.Get(predict.Neuroticism)
	assert.Equal(t, 0.0, n)
	a, _ := scores.Get(predict.Agreeableness)
	assert.InDelta(t, 0.8, a, 1e-9)
}

func TestPredictorUnknownText(t *testing.T) {
	p := newPredictor(t)
	scores, err := p.Predict("completely unrelated words")
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.5, 0.5, 0.5, 0.5, 0.5}, scores.Values(), 1e-9)
}

func TestNewPredictorMismatch(t *testing.T) {
	v, err := search.NewTFIDFVectorizer(artifacttest.VectorizerConfig())
	require.NoError(t, err)

	narrow, err := model.NewRidge(model.Config{Coef: [][]float64{{1}, {1}, {1}, {1}, {1}}, Intercept: make([]float64, 5)})
	require.NoError(t, err)
	_, err = predict.NewPredictor(v, narrow)
	assert.ErrorIs(t, err, model.ErrDimension)

	cfg := artifacttest.ModelConfig()
	cfg.Coef, cfg.Intercept, cfg.Outputs = cfg.Coef[:4], cfg.Intercept[:4], cfg.Outputs[:4]
	four, err := model.NewRidge(cfg)
	require.NoError(t, err)
	_, err = predict.NewPredictor(v, four)
	assert.Error(t, err)

	cfg = artifacttest.ModelConfig()
	cfg.Outputs = []string{"Neuroticism", "Conscientiousness", "Extraversion", "Agreeableness", "Openness"}
	swapped, err := model.NewRidge(cfg)
	require.NoError(t, err)
	_, err = predict.NewPredictor(v, swapped)
	assert.Error(t, err)
}
