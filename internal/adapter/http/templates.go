package http

import (
	"embed"
	"encoding/base64"
	"html/template"
	"net/http"

	"github.com/openhelio/solar-motion/internal/domain"
	"github.com/openhelio/solar-motion/internal/pipeline"
)

//go:embed templates/*
var templateFS embed.FS

var (
	indexTemplate  = template.Must(template.ParseFS(templateFS, "templates/index.html.tmpl"))
	resultTemplate = template.Must(template.ParseFS(templateFS, "templates/result.html.tmpl"))
)

type regionOption struct {
	Name    string
	Checked bool
}

type indexView struct {
	Regions      []regionOption
	MaxSelection int
	Error        string
	Warnings     []string
}

type resultView struct {
	Result *pipeline.Result

	// Data URIs for the inlined artifacts. template.URL keeps html/template
	// from rejecting the data: scheme.
	GIFData template.URL
	QRData  template.URL
}

func (s *Server) renderIndex(w http.ResponseWriter, status int, errMsg string, warnings []string) {
	table := s.app.Table()
	defaults := make(map[string]bool, domain.MaxSelection)
	for _, name := range domain.DefaultSelection() {
		defaults[name] = true
	}

	regions := make([]regionOption, 0, table.Len())
	for _, name := range table.Regions() {
		regions = append(regions, regionOption{Name: name, Checked: defaults[name]})
	}

	view := indexView{
		Regions:      regions,
		MaxSelection: domain.MaxSelection,
		Error:        errMsg,
		Warnings:     warnings,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := indexTemplate.Execute(w, view); err != nil {
		s.logger.Error("index template failed", "error", err)
	}
}

func (s *Server) renderResult(w http.ResponseWriter, res *pipeline.Result) {
	view := resultView{
		Result:  res,
		GIFData: template.URL("data:image/gif;base64," + base64.StdEncoding.EncodeToString(res.GIF)),
		QRData:  template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(res.QR)),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := resultTemplate.Execute(w, view); err != nil {
		s.logger.Error("result template failed", "error", err)
	}
}
