package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/openhelio/solar-motion/internal/dataset"
	"github.com/openhelio/solar-motion/internal/domain"
	"github.com/openhelio/solar-motion/internal/export"
	"github.com/openhelio/solar-motion/internal/pipeline"
	"github.com/openhelio/solar-motion/internal/report"
)

// httpError is a user-facing failure: an HTTP status, a Portuguese message
// for the page or JSON body, and any run warnings worth showing alongside.
type httpError struct {
	status   int
	msg      string
	warnings []string
}

func (e *httpError) Error() string { return e.msg }

// upload is one parsed visualization request: the measurement file plus the
// selection and animation options that came with it.
type upload struct {
	file     multipart.File
	filename string
	req      pipeline.Request
}

func (u *upload) Close() error { return u.file.Close() }

const multipartMemory = 32 << 20

// parseUpload reads the multipart form shared by every POST route. The body
// is capped at the configured upload limit before any parsing happens.
func (s *Server) parseUpload(w http.ResponseWriter, r *http.Request) (*upload, *httpError) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return nil, &httpError{
				status: http.StatusRequestEntityTooLarge,
				msg:    fmt.Sprintf("Arquivo muito grande (limite de %d MB)", s.maxUpload>>20),
			}
		}
		return nil, &httpError{status: http.StatusBadRequest, msg: "Formulário inválido"}
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, &httpError{status: http.StatusBadRequest, msg: "Envie um arquivo CSV ou XLSX no campo \"file\""}
	}

	fps := 0
	if v := strings.TrimSpace(r.FormValue("fps")); v != "" {
		fps, err = strconv.Atoi(v)
		if err != nil || fps < 1 || fps > 100 {
			file.Close()
			return nil, &httpError{status: http.StatusBadRequest, msg: "FPS inválido: use um valor entre 1 e 100"}
		}
	}

	return &upload{
		file:     file,
		filename: header.Filename,
		req: pipeline.Request{
			Regions: splitRegions(r.Form["regions"]),
			FPS:     fps,
		},
	}, nil
}

// splitRegions accepts both repeated form fields and comma-separated values.
func splitRegions(values []string) []string {
	var out []string
	for _, v := range values {
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				out = append(out, name)
			}
		}
	}
	return out
}

// mapRunError translates pipeline and dataset failures into user-facing
// responses: wrong-shape files and empty selections are the client's to fix,
// everything else is ours.
func (s *Server) mapRunError(r *http.Request, err error) *httpError {
	var nvr *pipeline.NoValidRegionsError
	if errors.As(err, &nvr) {
		return &httpError{
			status:   http.StatusUnprocessableEntity,
			msg:      "Nenhuma das regiões selecionadas tem dados utilizáveis",
			warnings: nvr.Warnings,
		}
	}

	switch {
	case errors.Is(err, dataset.ErrMissingColumn):
		return &httpError{
			status: http.StatusUnprocessableEntity,
			msg:    "O arquivo precisa das colunas \"Região\" e \"ADC\"",
		}
	case errors.Is(err, dataset.ErrUnsupportedFormat):
		return &httpError{
			status: http.StatusBadRequest,
			msg:    "Formato não suportado: envie um arquivo .csv ou .xlsx",
		}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return &httpError{status: http.StatusServiceUnavailable, msg: "Requisição cancelada"}
	}

	s.logger.Error("visualization run failed", "error", err, "path", r.URL.Path)
	return &httpError{status: http.StatusInternalServerError, msg: "Erro interno ao gerar a visualização"}
}

func (s *Server) jsonError(w http.ResponseWriter, he *httpError) {
	writeJSON(w, he.status, map[string]any{
		"error":    he.msg,
		"warnings": he.warnings,
	})
}

// handleIndex serves the upload form.
func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	s.renderIndex(w, http.StatusOK, "", nil)
}

// handleVisualize runs the full pipeline and renders the result page with the
// animation inlined.
func (s *Server) handleVisualize(w http.ResponseWriter, r *http.Request) {
	up, he := s.parseUpload(w, r)
	if he != nil {
		s.renderIndex(w, he.status, he.msg, he.warnings)
		return
	}
	defer up.Close()

	res, err := s.app.RunFile(r.Context(), up.file, up.filename, up.req)
	if err != nil {
		he := s.mapRunError(r, err)
		s.renderIndex(w, he.status, he.msg, he.warnings)
		return
	}

	s.renderResult(w, res)
}

// handleInteractive computes the series and responds with a self-contained
// interactive chart page.
func (s *Server) handleInteractive(w http.ResponseWriter, r *http.Request) {
	up, he := s.parseUpload(w, r)
	if he != nil {
		s.renderIndex(w, he.status, he.msg, he.warnings)
		return
	}
	defer up.Close()

	res, err := s.app.SeriesFile(r.Context(), up.file, up.filename, up.req)
	if err != nil {
		he := s.mapRunError(r, err)
		s.renderIndex(w, he.status, he.msg, he.warnings)
		return
	}

	page, err := interactiveChart(res)
	if err != nil {
		s.logger.Error("interactive chart render failed", "error", err)
		s.renderIndex(w, http.StatusInternalServerError, "Erro interno ao gerar o gráfico interativo", nil)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page) //nolint:errcheck // client gone
}

// handleAnimation returns the GIF as a download.
func (s *Server) handleAnimation(w http.ResponseWriter, r *http.Request) {
	up, he := s.parseUpload(w, r)
	if he != nil {
		s.jsonError(w, he)
		return
	}
	defer up.Close()

	res, err := s.app.RunFile(r.Context(), up.file, up.filename, up.req)
	if err != nil {
		s.jsonError(w, s.mapRunError(r, err))
		return
	}

	w.Header().Set("Content-Type", "image/gif")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.AnimationFilename))
	w.Header().Set("Content-Length", strconv.Itoa(len(res.GIF)))
	w.Write(res.GIF) //nolint:errcheck // client gone
}

// handleSeries returns the computed series, statistics, and warnings as JSON
// without rendering anything.
func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	up, he := s.parseUpload(w, r)
	if he != nil {
		s.jsonError(w, he)
		return
	}
	defer up.Close()

	res, err := s.app.SeriesFile(r.Context(), up.file, up.filename, up.req)
	if err != nil {
		s.jsonError(w, s.mapRunError(r, err))
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// handleReport runs the pipeline and returns the PDF summary.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	up, he := s.parseUpload(w, r)
	if he != nil {
		s.jsonError(w, he)
		return
	}
	defer up.Close()

	res, err := s.app.RunFile(r.Context(), up.file, up.filename, up.req)
	if err != nil {
		s.jsonError(w, s.mapRunError(r, err))
		return
	}

	var buf bytes.Buffer
	if err := report.Build(&buf, report.FromResult(res)); err != nil {
		s.logger.Error("report build failed", "error", err)
		s.jsonError(w, &httpError{status: http.StatusInternalServerError, msg: "Erro interno ao gerar o relatório"})
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="relatorio_movimento_solar.pdf"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Write(buf.Bytes()) //nolint:errcheck // client gone
}

// handleRegions lists the calibration table, the default selection, and the
// advisory selection limit.
func (s *Server) handleRegions(w http.ResponseWriter, _ *http.Request) {
	table := s.app.Table()

	type regionJSON struct {
		Name      string  `json:"name"`
		Slope     float64 `json:"slope"`
		Intercept float64 `json:"intercept"`
	}
	regions := make([]regionJSON, 0, table.Len())
	for _, name := range table.Regions() {
		coeffs, _, _ := table.Lookup(name)
		regions = append(regions, regionJSON{Name: name, Slope: coeffs.Slope, Intercept: coeffs.Intercept})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"regions":       regions,
		"default":       domain.DefaultSelection(),
		"max_selection": domain.MaxSelection,
	})
}

// handleQR serves the share QR code. Not cached: the link is configuration
// and can change between deploys.
func (s *Server) handleQR(w http.ResponseWriter, _ *http.Request) {
	data, err := export.EncodeQR(s.app.ShareLink(), s.qrSize)
	if err != nil {
		s.logger.Error("qr encode failed", "error", err)
		s.jsonError(w, &httpError{status: http.StatusInternalServerError, msg: "Erro interno ao gerar o QR code"})
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", `inline; filename="qr.png"`)
	w.Header().Set("Cache-Control", "no-store")
	w.Write(data) //nolint:errcheck // client gone
}
