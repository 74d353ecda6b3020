package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/openhelio/solar-motion/internal/adapter/http"
	"github.com/openhelio/solar-motion/internal/animation"
	"github.com/openhelio/solar-motion/internal/dataset"
	"github.com/openhelio/solar-motion/internal/domain"
	"github.com/openhelio/solar-motion/internal/observability"
	"github.com/openhelio/solar-motion/internal/pipeline"
)

const testShareLink = "https://movimento-solar.streamlit.app"

// --- mocks ---

type mockApp struct {
	result   *pipeline.Result
	err      error
	readyErr error

	lastFilename string
	lastReq      pipeline.Request
	lastContent  []byte
}

func (m *mockApp) RunFile(_ context.Context, src io.Reader, filename string, req pipeline.Request) (*pipeline.Result, error) {
	m.lastContent, _ = io.ReadAll(src)
	m.lastFilename = filename
	m.lastReq = req
	return m.result, m.err
}

func (m *mockApp) SeriesFile(ctx context.Context, src io.Reader, filename string, req pipeline.Request) (*pipeline.Result, error) {
	return m.RunFile(ctx, src, filename, req)
}

func (m *mockApp) Table() domain.CoefficientTable { return domain.DefaultTable() }

func (m *mockApp) ShareLink() string { return testShareLink }

func (m *mockApp) CheckReadiness(_ context.Context) error { return m.readyErr }

func sampleResult() *pipeline.Result {
	return &pipeline.Result{
		GIF: []byte("GIF89a-fake"),
		QR:  []byte{0x89, 0x50, 0x4e, 0x47},
		Regions: []pipeline.RegionResult{
			{
				Name:         "Brasil",
				Coefficients: domain.Coefficients{Slope: 0.021269, Intercept: -37.69},
				Stats:        domain.Stats{Count: 2, Min: -35.5631, Max: -33.4362, Mean: -34.49965, StdDev: 1.5},
				Values:       []float64{-35.5631, -33.4362},
			},
		},
		Angles:      []float64{0, 180},
		FrameCount:  2,
		Warnings:    []string{"Nenhuma calibração para Atlantis"},
		Source:      "bancada.csv",
		ShareLink:   testShareLink,
		GeneratedAt: time.Date(2024, time.September, 3, 14, 30, 0, 0, time.UTC),
	}
}

func newTestServer(app httpadapter.App) *httpadapter.Server {
	return httpadapter.NewServer(":0", app, 10<<20, 128, slog.Default())
}

// multipartBody builds an upload form with an optional file part and extra
// fields.
func multipartBody(t *testing.T, filename, content string, fields map[string][]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	for field, values := range fields {
		for _, v := range values {
			require.NoError(t, mw.WriteField(field, v))
		}
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func postUpload(t *testing.T, srv *httpadapter.Server, path, filename, content string, fields map[string][]string) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, filename, content, fields)
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

// --- tests ---

func TestIndexPage(t *testing.T) {
	srv := newTestServer(&mockApp{})
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Movimento do Sol")
	for _, name := range domain.DefaultTable().Regions() {
		assert.Contains(t, body, name)
	}
	// Default selection comes pre-checked.
	assert.Contains(t, body, `value="Brasil" checked`)
	assert.Contains(t, body, `value="Alemanha" checked`)
	assert.NotContains(t, body, `value="Cabula" checked`)
}

func TestVisualize_RendersResultPage(t *testing.T) {
	app := &mockApp{result: sampleResult()}
	srv := newTestServer(app)

	rec := postUpload(t, srv, "/visualize", "bancada.csv", "Região,ADC\nBrasil,100\n", map[string][]string{
		"regions": {"Brasil", "Alemanha,Egito"},
		"fps":     {"25"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "data:image/gif;base64,")
	assert.Contains(t, body, "Baixar GIF")
	assert.Contains(t, body, "Brasil")
	assert.Contains(t, body, "Nenhuma calibração para Atlantis")
	assert.Contains(t, body, testShareLink)

	assert.Equal(t, "bancada.csv", app.lastFilename)
	assert.Equal(t, []string{"Brasil", "Alemanha", "Egito"}, app.lastReq.Regions)
	assert.Equal(t, 25, app.lastReq.FPS)
	assert.Equal(t, "Região,ADC\nBrasil,100\n", string(app.lastContent))
}

func TestVisualize_NoValidRegions(t *testing.T) {
	app := &mockApp{err: &pipeline.NoValidRegionsError{Warnings: []string{"Nenhuma calibração para Atlantis"}}}
	srv := newTestServer(app)

	rec := postUpload(t, srv, "/visualize", "bancada.csv", "Região,ADC\n", nil)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Nenhuma das regiões selecionadas")
	assert.Contains(t, body, "Nenhuma calibração para Atlantis")
}

func TestVisualize_MissingFile(t *testing.T) {
	srv := newTestServer(&mockApp{})

	rec := postUpload(t, srv, "/visualize", "", "", map[string][]string{"regions": {"Brasil"}})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Envie um arquivo")
}

func TestVisualize_InvalidFPS(t *testing.T) {
	srv := newTestServer(&mockApp{result: sampleResult()})

	rec := postUpload(t, srv, "/visualize", "bancada.csv", "Região,ADC\n", map[string][]string{"fps": {"abc"}})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "FPS inválido")
}

func TestAnimationDownload(t *testing.T) {
	app := &mockApp{result: sampleResult()}
	srv := newTestServer(app)

	rec := postUpload(t, srv, "/api/animation", "bancada.csv", "Região,ADC\nBrasil,100\n", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/gif", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="movimento_solar.gif"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, []byte("GIF89a-fake"), rec.Body.Bytes())
}

func TestAnimation_UnsupportedFormat(t *testing.T) {
	app := &mockApp{err: fmt.Errorf("%w %q", dataset.ErrUnsupportedFormat, ".ods")}
	srv := newTestServer(app)

	rec := postUpload(t, srv, "/api/animation", "dados.ods", "x", nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "Formato não suportado")
}

func TestAnimation_MissingColumn(t *testing.T) {
	app := &mockApp{err: fmt.Errorf("%w %q", dataset.ErrMissingColumn, "ADC")}
	srv := newTestServer(app)

	rec := postUpload(t, srv, "/api/animation", "bancada.csv", "Regiao\n", nil)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestAnimation_InternalError(t *testing.T) {
	app := &mockApp{err: errors.New("renderer exploded")}
	srv := newTestServer(app)

	rec := postUpload(t, srv, "/api/animation", "bancada.csv", "Região,ADC\n", nil)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "Erro interno")
}

func TestSeriesJSON(t *testing.T) {
	app := &mockApp{result: sampleResult()}
	srv := newTestServer(app)

	rec := postUpload(t, srv, "/api/series", "bancada.csv", "Região,ADC\nBrasil,100\n", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotContains(t, body, "GIF")
	assert.Equal(t, float64(2), body["frame_count"])
	assert.Equal(t, testShareLink, body["share_link"])

	regions, ok := body["regions"].([]any)
	require.True(t, ok)
	require.Len(t, regions, 1)
	first, ok := regions[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Brasil", first["name"])
}

func TestReportDownload(t *testing.T) {
	app := &mockApp{result: sampleResult()}
	srv := newTestServer(app)

	rec := postUpload(t, srv, "/api/report", "bancada.csv", "Região,ADC\nBrasil,100\n", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "relatorio_movimento_solar.pdf")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))
}

func TestInteractiveView(t *testing.T) {
	app := &mockApp{result: sampleResult()}
	srv := newTestServer(app)

	rec := postUpload(t, srv, "/view", "bancada.csv", "Região,ADC\nBrasil,100\n", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	body := rec.Body.String()
	assert.Contains(t, body, "echarts")
	assert.Contains(t, body, "Brasil")
}

func TestRegionsEndpoint(t *testing.T) {
	srv := newTestServer(&mockApp{})
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/regions", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Regions []struct {
			Name      string  `json:"name"`
			Slope     float64 `json:"slope"`
			Intercept float64 `json:"intercept"`
		} `json:"regions"`
		Default      []string `json:"default"`
		MaxSelection int      `json:"max_selection"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Len(t, body.Regions, 11)
	assert.Equal(t, "Brasil", body.Regions[0].Name)
	assert.InDelta(t, 0.021269, body.Regions[0].Slope, 1e-9)
	assert.Equal(t, []string{"Brasil", "Alemanha", "Egito"}, body.Default)
	assert.Equal(t, 4, body.MaxSelection)
}

func TestQREndpoint(t *testing.T) {
	srv := newTestServer(&mockApp{})
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/qr.png", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, `inline; filename="qr.png"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 128, img.Bounds().Dx())
}

func TestUploadTooLarge(t *testing.T) {
	srv := httpadapter.NewServer(":0", &mockApp{result: sampleResult()}, 1<<10, 128, slog.Default())

	rec := postUpload(t, srv, "/api/animation", "bancada.csv", strings.Repeat("Brasil,100\n", 1000), nil)

	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "muito grande")
}

func TestHealthzReturns200(t *testing.T) {
	srv := newTestServer(&mockApp{})
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	srv := newTestServer(&mockApp{})
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ready", body["status"])
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	srv := newTestServer(&mockApp{readyErr: fmt.Errorf("renderer has not produced a frame yet")})
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, "renderer has not produced a frame yet", body["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(&mockApp{})
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

// stubRenderer produces tiny frames so end-to-end tests stay fast.
type stubRenderer struct{}

func (stubRenderer) RenderFrame(_ []animation.RegionFrame) (image.Image, error) {
	return image.NewRGBA(image.Rect(0, 0, 4, 4)), nil
}

func TestVisualize_EndToEnd(t *testing.T) {
	runner := pipeline.NewRunner(domain.DefaultTable(), stubRenderer{}, slog.Default(), observability.NewMetricsForTesting(), testShareLink, 10, 64)
	srv := newTestServer(runner)

	csv := "Região,ADC\nBrasil,100\nBrasil,200\nAlemanha,50\n"
	rec := postUpload(t, srv, "/visualize", "bancada.csv", csv, map[string][]string{
		"regions": {"Brasil", "Alemanha"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "data:image/gif;base64,")
	assert.Contains(t, body, "Brasil")
	assert.Contains(t, body, "Alemanha")
	assert.Contains(t, body, "2 quadros")
}
