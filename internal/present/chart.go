// Package present turns trait scores into chart series and labelled lines.
package present

import (
	"fmt"

	"github.com/knowledge-engine/bigfive/internal/predict"
)

// Band is a qualitative label derived from a clamped score
type Band string

const (
	BandHigher   Band = "higher tendency"
	BandBalanced Band = "balanced"
	BandLower    Band = "lower tendency"
)

const (
	HigherThreshold   = 0.65
	BalancedThreshold = 0.45
)

// BandFor thresholds a score: >= 0.65 higher, >= 0.45 balanced, else lower
func BandFor(score float64) Band {
	switch {
	case score >= HigherThreshold:
		return BandHigher
	case score >= BalancedThreshold:
		return BandBalanced
	default:
		return BandLower
	}
}

// Margin is the chart padding in pixels
type Margin struct {
	L int `json:"l"`
	R int `json:"r"`
	T int `json:"t"`
	B int `json:"b"`
}

// RadarChart is a closed polar series: the last point repeats the first
type RadarChart struct {
	R           []float64  `json:"r"`
	Theta       []string   `json:"theta"`
	Fill        string     `json:"fill"`
	RadialRange [2]float64 `json:"radial_range"`
	ShowLegend  bool       `json:"showlegend"`
	Margin      Margin     `json:"margin"`
	Height      int        `json:"height"`
}

// NewRadarChart builds the closed polygon for scores in canonical order
func NewRadarChart(scores predict.Scores) RadarChart {
	r := make([]float64, 0, len(scores)+1)
	theta := make([]string, 0, len(scores)+1)
	for _, s := range scores {
		r = append(r, s.Value)
		theta = append(theta, string(s.Trait))
	}
	r = append(r, r[0])
	theta = append(theta, theta[0])

	return RadarChart{
		R:           r,
		Theta:       theta,
		Fill:        "toself",
		RadialRange: [2]float64{0, 1},
		ShowLegend:  false,
		Margin:      Margin{L: 20, R: 20, T: 20, B: 20},
		Height:      420,
	}
}

// TraitLine is the per-trait result row
type TraitLine struct {
	Trait predict.Trait `json:"trait"`
	Score float64       `json:"score"`
	Band  Band          `json:"band"`
	Text  string        `json:"text"`
}

// Lines labels every score, in canonical order
func Lines(scores predict.Scores) []TraitLine {
	lines := make([]TraitLine, len(scores))
	for i, s := range scores {
		band := BandFor(s.Value)
		lines[i] = TraitLine{
			Trait: s.Trait,
			Score: s.Value,
			Band:  band,
			Text:  fmt.Sprintf("%s: %.2f — %s", s.Trait, s.Value, band),
		}
	}
	return lines
}

// Report bundles everything shown for one analysis
type Report struct {
	Scores predict.Scores `json:"scores"`
	Chart  RadarChart     `json:"chart"`
	Lines  []TraitLine    `json:"lines"`
}

func NewReport(scores predict.Scores) Report {
	return Report{
		Scores: scores,
		Chart:  NewRadarChart(scores),
		Lines:  Lines(scores),
	}
}
