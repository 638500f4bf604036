// Package model holds the fitted multi-output linear regression applied to
// feature vectors.
package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ErrDimension is returned when a feature vector does not match the model width
var ErrDimension = errors.New("feature dimension mismatch")

// Config is the exported state of a fitted ridge regression. A scalar
// intercept (a model fitted without one exports 0.0) applies to every output.
type Config struct {
	Outputs   []string    `json:"traits"`
	Coef      [][]float64 `json:"coef"`
	Intercept []float64   `json:"intercept"`
}

func (c *Config) UnmarshalJSON(data []byte) error {
	type plain Config
	var raw struct {
		plain
		Intercept json.RawMessage `json:"intercept"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = Config(raw.plain)

	intercept := bytes.TrimSpace(raw.Intercept)
	switch {
	case len(intercept) == 0 || bytes.Equal(intercept, []byte("null")):
		c.Intercept = nil
	case intercept[0] == '[':
		if err := json.Unmarshal(intercept, &c.Intercept); err != nil {
			return fmt.Errorf("intercept: %w", err)
		}
	default:
		var v float64
		if err := json.Unmarshal(intercept, &v); err != nil {
			return fmt.Errorf("intercept: %w", err)
		}
		c.Intercept = make([]float64, len(c.Coef))
		for i := range c.Intercept {
			c.Intercept[i] = v
		}
	}
	return nil
}

// Ridge computes Coef·x + Intercept, one row per output
type Ridge struct {
	outputs   []string
	coef      *mat.Dense
	intercept *mat.VecDense
}

// NewRidge validates the coefficient matrix shape
func NewRidge(cfg Config) (*Ridge, error) {
	if len(cfg.Coef) == 0 {
		return nil, errors.New("model has no coefficient rows")
	}
	if len(cfg.Intercept) != len(cfg.Coef) {
		return nil, fmt.Errorf("intercept length %d does not match %d coefficient rows", len(cfg.Intercept), len(cfg.Coef))
	}
	if len(cfg.Outputs) != 0 && len(cfg.Outputs) != len(cfg.Coef) {
		return nil, fmt.Errorf("%d output names for %d coefficient rows", len(cfg.Outputs), len(cfg.Coef))
	}
	dim := len(cfg.Coef[0])
	if dim == 0 {
		return nil, errors.New("model has no feature columns")
	}
	data := make([]float64, 0, len(cfg.Coef)*dim)
	for i, row := range cfg.Coef {
		if len(row) != dim {
			return nil, fmt.Errorf("coefficient row %d has width %d, want %d", i, len(row), dim)
		}
		data = append(data, row...)
	}

	intercept := make([]float64, len(cfg.Intercept))
	copy(intercept, cfg.Intercept)
	return &Ridge{
		outputs:   cfg.Outputs,
		coef:      mat.NewDense(len(cfg.Coef), dim, data),
		intercept: mat.NewVecDense(len(intercept), intercept),
	}, nil
}

// Dim is the expected feature vector width
func (m *Ridge) Dim() int {
	_, c := m.coef.Dims()
	return c
}

// NumOutputs is the number of values Predict returns
func (m *Ridge) NumOutputs() int {
	r, _ := m.coef.Dims()
	return r
}

// Outputs returns the output names recorded at training time, if any
func (m *Ridge) Outputs() []string {
	out := make([]string, len(m.outputs))
	copy(out, m.outputs)
	return out
}

// Predict returns the raw, unclamped outputs for x
func (m *Ridge) Predict(x []float64) ([]float64, error) {
	if len(x) != m.Dim() {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrDimension, len(x), m.Dim())
	}
	var out mat.VecDense
	out.MulVec(m.coef, mat.NewVecDense(len(x), x))
	out.AddVec(&out, m.intercept)
	return out.RawVector().Data, nil
}
