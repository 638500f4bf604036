package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knowledge-engine/bigfive/internal/api"
	"github.com/knowledge-engine/bigfive/internal/artifact"
	"github.com/knowledge-engine/bigfive/internal/artifact/artifacttest"
	"github.com/knowledge-engine/bigfive/internal/config"
	"github.com/knowledge-engine/bigfive/internal/engine"
	"github.com/knowledge-engine/bigfive/internal/extract"
)

func serverConfig() config.ServerConfig {
	return config.ServerConfig{MaxUploadBytes: 1 << 20, EnableUI: true}
}

func setupServer(t *testing.T) *api.Server {
	t.Helper()
	logger := logrus.New().WithField("test", "api")
	source := artifacttest.Source{Bundle: artifacttest.Bundle(t)}
	eng := engine.NewEngine(source, extract.NewExtractor(logger), logger)
	return api.NewServer(eng, serverConfig(), logger)
}

func setupHaltedServer(t *testing.T) *api.Server {
	t.Helper()
	logger := logrus.New().WithField("test", "api")
	source := artifacttest.Source{Err: fmt.Errorf("%w: missing", artifact.ErrLoad)}
	eng := engine.NewEngine(source, extract.NewExtractor(logger), logger)
	return api.NewServer(eng, serverConfig(), logger)
}

func serve(s *api.Server, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)
	return rr
}

func multipartBody(t *testing.T, fileName string, data []byte, text string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	if fileName != "" {
		part, err := mw.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.WriteField("text", text))
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func TestHandleStatus(t *testing.T) {
	server := setupServer(t)

	req, _ := http.NewRequest("GET", "/api/v1/status", nil)
	rr := serve(server, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp engine.Status
	err := json.Unmarshal(rr.Body.Bytes(), &resp)
	assert.NoError(t, err)
	assert.True(t, resp.Ready)
	assert.Equal(t, len(artifacttest.Terms), resp.Features)
	assert.Len(t, resp.Traits, 5)
}

func TestHandleAnalyzeJSON(t *testing.T) {
	server := setupServer(t)

	body := strings.NewReader(`{"text": "Creative art lover"}`)
	req, _ := http.NewRequest("POST", "/api/v1/analyze", body)
	req.Header.Set("Content-Type", "application/json")
	rr := serve(server, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp api.AnalyzeResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "text", resp.Source)
	assert.Equal(t, 3, resp.Words)
	assert.Equal(t, 1.0, resp.Scores["Openness"])
	assert.Len(t, resp.Scores, 5)
	require.Len(t, resp.Lines, 5)
	assert.Equal(t, "Openness: 1.00 — higher tendency", resp.Lines[0].Text)
	assert.Len(t, resp.Chart.R, 6)
	assert.Equal(t, resp.Chart.R[0], resp.Chart.R[5])
}

func TestHandleAnalyzeJSONFile(t *testing.T) {
	server := setupServer(t)

	payload, err := json.Marshal(map[string]interface{}{
		"file_name": "cv.txt",
		"file_data": []byte("party friends"),
		"text":      "kind",
	})
	require.NoError(t, err)
	req, _ := http.NewRequest("POST", "/api/v1/analyze", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rr := serve(server, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp api.AnalyzeResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "file", resp.Source)
	assert.Equal(t, "cv.txt", resp.FileName)
	assert.Greater(t, resp.Scores["Extraversion"], 0.5)
}

func TestHandleAnalyzeMultipart(t *testing.T) {
	server := setupServer(t)

	body, contentType := multipartBody(t, "resume.TXT", []byte("organized plan"), "")
	req, _ := http.NewRequest("POST", "/api/v1/analyze", body)
	req.Header.Set("Content-Type", contentType)
	rr := serve(server, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp api.AnalyzeResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "resume.TXT", resp.FileName)
	assert.Greater(t, resp.Scores["Conscientiousness"], 0.5)
}

func TestHandleAnalyzeEmptyInput(t *testing.T) {
	server := setupServer(t)

	tests := []struct {
		name        string
		body        string
		contentType string
	}{
		{"Empty JSON", `{}`, "application/json"},
		{"Blank text", `{"text": "   "}`, "application/json"},
		{"Empty form", "", "application/x-www-form-urlencoded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest("POST", "/api/v1/analyze", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", tt.contentType)
			rr := serve(server, req)

			assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
			var resp api.ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, engine.EmptyInputWarning, resp.Error)
		})
	}
}

func TestHandleAnalyzeBadRequest(t *testing.T) {
	server := setupServer(t)

	req, _ := http.NewRequest("POST", "/api/v1/analyze", strings.NewReader(`{"text":`))
	req.Header.Set("Content-Type", "application/json")
	rr := serve(server, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "invalid JSON")
}

func TestHandleAnalyzeTooLarge(t *testing.T) {
	logger := logrus.New().WithField("test", "api")
	eng := engine.NewEngine(artifacttest.Source{Bundle: artifacttest.Bundle(t)}, extract.NewExtractor(logger), logger)
	server := api.NewServer(eng, config.ServerConfig{MaxUploadBytes: 16}, logger)

	req, _ := http.NewRequest("POST", "/api/v1/analyze", strings.NewReader(`{"text": "creative art and more creative art"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := serve(server, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
}

func TestHandleAnalyzeMethodNotAllowed(t *testing.T) {
	server := setupServer(t)

	for _, path := range []string{"/api/v1/analyze", "/api/v1/report"} {
		req, _ := http.NewRequest("GET", path, nil)
		assert.Equal(t, http.StatusMethodNotAllowed, serve(server, req).Code, path)
	}
	req, _ := http.NewRequest("POST", "/api/v1/status", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, serve(server, req).Code)
}

func TestHandleReport(t *testing.T) {
	server := setupServer(t)

	req, _ := http.NewRequest("POST", "/api/v1/report", strings.NewReader(`{"text": "kind help"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := serve(server, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/pdf", rr.Header().Get("Content-Type"))
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "attachment")
	assert.True(t, bytes.HasPrefix(rr.Body.Bytes(), []byte("%PDF-")))
}

func TestHaltedServer(t *testing.T) {
	server := setupHaltedServer(t)
	assert.True(t, server.Halted())

	req, _ := http.NewRequest("GET", "/api/v1/status", nil)
	rr := serve(server, req)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

	req, _ = http.NewRequest("POST", "/api/v1/analyze", strings.NewReader(`{"text": "kind"}`))
	req.Header.Set("Content-Type", "application/json")
	rr = serve(server, req)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	var resp api.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, engine.ArtifactsMissing, resp.Error)

	req, _ = http.NewRequest("GET", "/", nil)
	rr = serve(server, req)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Contains(t, rr.Body.String(), engine.ArtifactsMissing)
	assert.NotContains(t, rr.Body.String(), "<form")
}

func TestIndexPage(t *testing.T) {
	server := setupServer(t)

	req, _ := http.NewRequest("GET", "/", nil)
	rr := serve(server, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/html")
	body := rr.Body.String()
	assert.Contains(t, body, "Personality Prediction from CV")
	assert.Contains(t, body, `accept=".txt,.pdf,.docx"`)
	assert.Contains(t, body, `name="text"`)

	req, _ = http.NewRequest("GET", "/missing", nil)
	assert.Equal(t, http.StatusNotFound, serve(server, req).Code)
}

func TestIndexPagePost(t *testing.T) {
	server := setupServer(t)

	form := url.Values{"text": {"creative art"}}
	req, _ := http.NewRequest("POST", "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := serve(server, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "bigfive-radar")
	assert.Contains(t, body, "echarts.min.js")
	assert.Contains(t, body, "Results")
	assert.Contains(t, body, "<strong>Openness</strong>: 1.00 — higher tendency")
	assert.Contains(t, body, "creative art</textarea>")
}

func TestIndexPagePostEmpty(t *testing.T) {
	server := setupServer(t)

	body, contentType := multipartBody(t, "", nil, "")
	req, _ := http.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", contentType)
	rr := serve(server, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), engine.EmptyInputWarning)
	assert.NotContains(t, rr.Body.String(), "bigfive-radar")
}

func TestUIDisabled(t *testing.T) {
	logger := logrus.New().WithField("test", "api")
	eng := engine.NewEngine(artifacttest.Source{Bundle: artifacttest.Bundle(t)}, extract.NewExtractor(logger), logger)
	server := api.NewServer(eng, config.ServerConfig{MaxUploadBytes: 1 << 20}, logger)

	req, _ := http.NewRequest("GET", "/", nil)
	assert.Equal(t, http.StatusNotFound, serve(server, req).Code)
}
