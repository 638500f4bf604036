package present

import (
	"io"
	"math"

	"github.com/jung-kurt/gofpdf"
)

const (
	ReportTitle = "Personality Prediction from CV"
	Disclaimer  = "For research/education only — not for hiring decisions."
)

var gridLevels = []float64{0.25, 0.5, 0.75, 1}

// point maps a radial value on spoke i of n to page coordinates. The first
// spoke points up and spokes advance clockwise.
func point(cx, cy, radius, value float64, i, n int) (float64, float64) {
	angle := -math.Pi/2 + 2*math.Pi*float64(i)/float64(n)
	return cx + radius*value*math.Cos(angle), cy + radius*value*math.Sin(angle)
}

// RenderPDF writes a one-page A4 report with the radar chart and the trait
// lines.
func RenderPDF(w io.Writer, report Report) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(ReportTitle, true)
	pdf.SetCreator("bigfive", true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(ReportTitle), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "I", 10)
	pdf.CellFormat(0, 6, tr(Disclaimer), "", 1, "L", false, 0, "")

	drawRadar(pdf, tr, report.Chart, 105, 100, 55)

	pdf.SetY(175)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, "Results", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	for _, line := range report.Lines {
		pdf.CellFormat(0, 7, tr(line.Text), "", 1, "L", false, 0, "")
	}

	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}

func drawRadar(pdf *gofpdf.Fpdf, tr func(string) string, chart RadarChart, cx, cy, radius float64) {
	n := len(chart.Theta) - 1
	if n < 3 {
		return
	}
	span := chart.RadialRange[1] - chart.RadialRange[0]

	polygon := func(value func(int) float64) []gofpdf.PointType {
		pts := make([]gofpdf.PointType, n)
		for i := range pts {
			x, y := point(cx, cy, radius, value(i), i, n)
			pts[i] = gofpdf.PointType{X: x, Y: y}
		}
		return pts
	}

	pdf.SetLineWidth(0.2)
	pdf.SetDrawColor(208, 212, 220)
	for _, level := range gridLevels {
		pdf.Polygon(polygon(func(int) float64 { return level }), "D")
	}

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0, 0, 0)
	for i := 0; i < n; i++ {
		x, y := point(cx, cy, radius, 1, i, n)
		pdf.Line(cx, cy, x, y)

		label := tr(chart.Theta[i])
		lx, ly := point(cx, cy, radius, 1.18, i, n)
		width := pdf.GetStringWidth(label)
		pdf.Text(lx-width/2, ly+math.Copysign(1.5, ly-cy), label)
	}

	pdf.SetLineWidth(0.6)
	pdf.SetDrawColor(99, 110, 250)
	pdf.SetFillColor(99, 110, 250)
	pdf.SetAlpha(0.4, "Normal")
	pdf.Polygon(polygon(func(i int) float64 {
		if span <= 0 {
			return 0
		}
		return (chart.R[i] - chart.RadialRange[0]) / span
	}), "FD")
	pdf.SetAlpha(1, "Normal")
}
