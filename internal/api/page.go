package api

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/knowledge-engine/bigfive/internal/engine"
	"github.com/knowledge-engine/bigfive/internal/extract"
	"github.com/knowledge-engine/bigfive/internal/present"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type pageData struct {
	Title   string
	Caption string
	Accept  string
	Text    string
	Warning string
	Error   string
	Result  *pageResult
}

type pageResult struct {
	Asset        string
	ChartElement template.HTML
	ChartScript  template.HTML
	Lines        []present.TraitLine
}

// handleIndex serves the upload form and renders results of a form post
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	data := pageData{
		Title:   present.ReportTitle,
		Caption: present.Disclaimer,
		Accept:  strings.Join(extract.AcceptedExtensions, ","),
	}

	switch r.Method {
	case http.MethodGet:
		if s.halted != nil {
			data.Error = engine.ArtifactsMissing
			s.renderPage(w, http.StatusServiceUnavailable, data)
			return
		}
		s.renderPage(w, http.StatusOK, data)

	case http.MethodPost:
		if s.halted != nil {
			data.Error = engine.ArtifactsMissing
			s.renderPage(w, http.StatusServiceUnavailable, data)
			return
		}
		in, err := s.readInput(w, r)
		if err != nil {
			data.Warning = err.Error()
			s.renderPage(w, http.StatusBadRequest, data)
			return
		}
		if t, ok := in.(engine.TextInput); ok {
			data.Text = t.Text
		}

		result, err := s.Engine.Analyze(r.Context(), in)
		if err != nil {
			code, msg := s.errorStatus(err)
			data.Warning = msg
			if errors.Is(err, engine.ErrEmptyInput) {
				code = http.StatusOK
			}
			s.renderPage(w, code, data)
			return
		}

		widget := present.RenderWidget(result.Report.Chart)
		data.Result = &pageResult{
			Asset:        present.EChartsAsset,
			ChartElement: template.HTML(widget.Element),
			ChartScript:  template.HTML(widget.Script),
			Lines:        result.Report.Lines,
		}
		s.renderPage(w, http.StatusOK, data)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) renderPage(w http.ResponseWriter, code int, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	if err := indexTemplate.Execute(w, data); err != nil {
		s.Logger.WithError(err).Error("Failed to render page")
	}
}
