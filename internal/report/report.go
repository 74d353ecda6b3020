// Package report builds the downloadable PDF summary of a visualization run:
// calibration and statistics per region, the warnings, the final chart frame,
// and the share QR code.
package report

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/openhelio/solar-motion/internal/domain"
)

const (
	pageMargin   = 12.0 // mm
	lineHeight   = 6.0  // mm
	contentWidth = 297 - 2*pageMargin
)

// Region is one row of the report's calibration table.
type Region struct {
	Name         string
	Coefficients domain.Coefficients
	Stats        domain.Stats
}

// Data is everything a report presents. Chart and QR are optional PNGs; a
// nil image leaves its section out.
type Data struct {
	Title       string
	GeneratedAt time.Time
	Source      string
	ShareLink   string
	Warnings    []string
	Regions     []Region
	Chart       []byte
	QR          []byte
}

type builder struct {
	pdf *gofpdf.Fpdf
	// tr maps UTF-8 to the cp1252 the core fonts use, so "Região" and
	// "Irradiância" print with their accents.
	tr func(string) string
}

// Build writes the PDF report for d to w.
func Build(w io.Writer, d Data) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.AddPage()

	b := &builder{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	b.header(d)
	b.warnings(d.Warnings)
	b.table(d.Regions)
	b.images(d)

	return pdf.Output(w)
}

func (b *builder) header(d Data) {
	title := d.Title
	if title == "" {
		title = "Movimento do Sol - Irradiância Solar"
	}

	b.pdf.SetFont("Arial", "B", 16)
	b.pdf.CellFormat(contentWidth, 10, b.tr(title), "", 1, "C", false, 0, "")

	b.pdf.SetFont("Arial", "", 9)
	b.pdf.SetTextColor(90, 90, 90)
	meta := fmt.Sprintf("Gerado em %s", d.GeneratedAt.Format("02/01/2006 15:04 MST"))
	if d.Source != "" {
		meta += fmt.Sprintf(" - arquivo %s", d.Source)
	}
	if d.ShareLink != "" {
		meta += fmt.Sprintf(" - %s", d.ShareLink)
	}
	b.pdf.CellFormat(contentWidth, lineHeight, b.tr(meta), "", 1, "C", false, 0, "")
	b.pdf.SetTextColor(0, 0, 0)
	b.pdf.Ln(4)
}

func (b *builder) warnings(warnings []string) {
	if len(warnings) == 0 {
		return
	}
	b.pdf.SetFont("Arial", "B", 10)
	b.pdf.CellFormat(contentWidth, lineHeight, b.tr("Avisos"), "", 1, "L", false, 0, "")
	b.pdf.SetFont("Arial", "", 9)
	b.pdf.SetTextColor(160, 80, 0)
	for _, w := range warnings {
		b.pdf.CellFormat(contentWidth, lineHeight-1, b.tr("- "+w), "", 1, "L", false, 0, "")
	}
	b.pdf.SetTextColor(0, 0, 0)
	b.pdf.Ln(4)
}

func (b *builder) table(regions []Region) {
	if len(regions) == 0 {
		b.pdf.SetFont("Arial", "", 10)
		b.pdf.CellFormat(contentWidth, lineHeight, b.tr("Nenhuma região processada."), "", 1, "L", false, 0, "")
		return
	}

	headers := []string{"Região", "Inclinação", "Intercepto", "Amostras", "Mín (W/m²)", "Máx (W/m²)", "Média (W/m²)", "Desvio"}
	widths := []float64{45, 32, 32, 24, 32, 32, 36, 32}

	b.pdf.SetFont("Arial", "B", 9)
	b.pdf.SetFillColor(204, 230, 255)
	for i, h := range headers {
		b.pdf.CellFormat(widths[i], lineHeight, b.tr(h), "1", 0, "C", true, 0, "")
	}
	b.pdf.Ln(-1)

	b.pdf.SetFont("Arial", "", 9)
	for _, r := range regions {
		cells := []string{
			r.Name,
			fmt.Sprintf("%.6f", r.Coefficients.Slope),
			fmt.Sprintf("%.2f", r.Coefficients.Intercept),
			fmt.Sprintf("%d", r.Stats.Count),
			fmt.Sprintf("%.1f", r.Stats.Min),
			fmt.Sprintf("%.1f", r.Stats.Max),
			fmt.Sprintf("%.1f", r.Stats.Mean),
			fmt.Sprintf("%.2f", r.Stats.StdDev),
		}
		for i, c := range cells {
			align := "R"
			if i == 0 {
				align = "L"
			}
			b.pdf.CellFormat(widths[i], lineHeight, b.tr(c), "1", 0, align, false, 0, "")
		}
		b.pdf.Ln(-1)
	}
}

func (b *builder) images(d Data) {
	if len(d.Chart) == 0 && len(d.QR) == 0 {
		return
	}
	b.pdf.AddPage()

	if len(d.Chart) > 0 {
		b.pdf.RegisterImageOptionsReader("chart", gofpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(d.Chart))
		// The chart is rendered 2:1, so full content width keeps it sharp.
		w := contentWidth
		h := w / 2
		b.pdf.ImageOptions("chart", pageMargin, pageMargin, w, h, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
		b.pdf.SetY(pageMargin + h + 4)
	}

	if len(d.QR) > 0 {
		b.pdf.RegisterImageOptionsReader("qr", gofpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(d.QR))
		const qrSide = 38.0
		y := b.pdf.GetY()
		b.pdf.ImageOptions("qr", pageMargin, y, qrSide, qrSide, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")

		b.pdf.SetXY(pageMargin+qrSide+4, y+qrSide/2-lineHeight/2)
		b.pdf.SetFont("Arial", "", 10)
		b.pdf.CellFormat(contentWidth-qrSide-4, lineHeight, b.tr("Aponte a câmera para abrir a visualização compartilhada."), "", 1, "L", false, 0, "")
	}
}
