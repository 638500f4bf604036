package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/knowledge-engine/bigfive/internal/config"
	"github.com/knowledge-engine/bigfive/internal/engine"
	"github.com/knowledge-engine/bigfive/internal/present"
)

type Server struct {
	Engine *engine.Engine
	Logger *logrus.Entry
	Router *http.ServeMux
	Config config.ServerConfig

	// halted is set when the artifacts failed to load; every route then
	// answers with the load error.
	halted error
}

func NewServer(eng *engine.Engine, cfg config.ServerConfig, logger *logrus.Entry) *Server {
	s := &Server{
		Engine: eng,
		Logger: logger.WithField("component", "api"),
		Router: http.NewServeMux(),
		Config: cfg,
	}
	if err := eng.Ready(); err != nil {
		s.halted = err
		s.Logger.WithError(err).Error("Artifacts unavailable, serving error responses only")
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	if s.Config.EnableUI {
		s.Router.HandleFunc("/", s.handleIndex)
	}
	s.Router.HandleFunc("/api/v1/analyze", s.handleAnalyze)
	s.Router.HandleFunc("/api/v1/report", s.handleReport)
	s.Router.HandleFunc("/api/v1/status", s.handleStatus)
}

// Halted reports whether the server refuses to analyze
func (s *Server) Halted() bool {
	return s.halted != nil
}

func (s *Server) Start(addr string) error {
	s.Logger.Infof("Starting API Server on %s", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Router,
		ReadTimeout:  s.Config.ReadTimeout,
		WriteTimeout: s.Config.WriteTimeout,
	}
	return srv.ListenAndServe()
}

// Responses
type ErrorResponse struct {
	Error string `json:"error"`
}

type AnalyzeResponse struct {
	RequestID   string              `json:"request_id"`
	Source      string              `json:"source"`
	FileName    string              `json:"file_name,omitempty"`
	Words       int                 `json:"words"`
	Fingerprint string              `json:"model_fingerprint"`
	Scores      map[string]float64  `json:"scores"`
	Lines       []present.TraitLine `json:"lines"`
	Chart       present.RadarChart  `json:"chart"`
}

// analyzeRequest is the JSON body accepted by the analyze and report routes
type analyzeRequest struct {
	Text     string `json:"text"`
	FileName string `json:"file_name"`
	FileData []byte `json:"file_data"`
}

// Handlers

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	result, ok := s.analyze(w, r)
	if !ok {
		return
	}

	scores := make(map[string]float64, len(result.Report.Scores))
	for trait, v := range result.Report.Scores.Map() {
		scores[string(trait)] = v
	}

	jsonResponse(w, http.StatusOK, AnalyzeResponse{
		RequestID:   result.RequestID,
		Source:      result.Source,
		FileName:    result.FileName,
		Words:       result.Words,
		Fingerprint: result.Fingerprint,
		Scores:      scores,
		Lines:       result.Report.Lines,
		Chart:       result.Report.Chart,
	})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	result, ok := s.analyze(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "bigfive-"+result.RequestID+".pdf"))
	w.Header().Set("X-Request-ID", result.RequestID)
	if err := present.RenderPDF(w, result.Report); err != nil {
		s.Logger.WithError(err).WithField("request_id", result.RequestID).Error("Failed to render report")
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	status := s.Engine.Status()
	code := http.StatusOK
	if !status.Ready {
		code = http.StatusServiceUnavailable
	}
	jsonResponse(w, code, status)
}

// analyze decodes the request, runs the engine and writes any error
// response itself. It reports whether the caller should continue.
func (s *Server) analyze(w http.ResponseWriter, r *http.Request) (*engine.Result, bool) {
	if s.halted != nil {
		jsonResponse(w, http.StatusServiceUnavailable, ErrorResponse{Error: engine.ArtifactsMissing})
		return nil, false
	}

	in, err := s.readInput(w, r)
	if err != nil {
		code := http.StatusBadRequest
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			code = http.StatusRequestEntityTooLarge
		}
		jsonResponse(w, code, ErrorResponse{Error: err.Error()})
		return nil, false
	}

	result, err := s.Engine.Analyze(r.Context(), in)
	if err != nil {
		code, msg := s.errorStatus(err)
		jsonResponse(w, code, ErrorResponse{Error: msg})
		return nil, false
	}
	return result, true
}

func (s *Server) errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, engine.ErrEmptyInput):
		return http.StatusUnprocessableEntity, engine.EmptyInputWarning
	default:
		s.Logger.WithError(err).Error("Analysis failed")
		return http.StatusInternalServerError, err.Error()
	}
}

// readInput accepts multipart uploads, url-encoded forms and JSON bodies
func (s *Server) readInput(w http.ResponseWriter, r *http.Request) (engine.Input, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.Config.MaxUploadBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch {
	case mediaType == "application/json":
		var req analyzeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				return nil, err
			}
			return nil, errors.New("invalid JSON")
		}
		var file *engine.FileInput
		if len(req.FileData) > 0 {
			file = &engine.FileInput{Name: req.FileName, Data: req.FileData}
		}
		return engine.NewInput(file, req.Text), nil

	case strings.HasPrefix(mediaType, "multipart/"):
		if err := r.ParseMultipartForm(s.Config.MaxUploadBytes); err != nil {
			return nil, err
		}
		file, err := formFile(r)
		if err != nil {
			return nil, err
		}
		return engine.NewInput(file, r.FormValue("text")), nil

	default:
		if err := r.ParseForm(); err != nil {
			return nil, err
		}
		return engine.NewInput(nil, r.FormValue("text")), nil
	}
}

// formFile returns the uploaded "file" part, or nil when none was sent
func formFile(r *http.Request) (*engine.FileInput, error) {
	f, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if header.Filename == "" && header.Size == 0 {
		return nil, nil
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return &engine.FileInput{Name: header.Filename, Data: data}, nil
}

func jsonResponse(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
