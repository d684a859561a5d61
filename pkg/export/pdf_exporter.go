package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

const (
	pageWidthLandscape = 277.0
	lineHeight         = 4.5
)

// PDFExporter renders datasets into a landscape timetable grid.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// ContentType reports the MIME type of rendered output.
func (e *PDFExporter) ContentType() string {
	return "application/pdf"
}

// Render creates a PDF document with an optional title and a grid body.
func (e *PDFExporter) Render(data Dataset, title string) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 12, 10)
	pdf.SetAutoPageBreak(true, 12)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	if title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, tr(strings.ToUpper(title)), "", 1, "C", false, 0, "")
		pdf.Ln(3)
	}

	colWidth := pageWidthLandscape / float64(len(data.Headers))

	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(230, 230, 240)
	for _, header := range data.Headers {
		pdf.CellFormat(colWidth, 8, tr(header), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for _, row := range data.Rows {
		lines := 1
		cells := make([][]string, len(data.Headers))
		for i, header := range data.Headers {
			var split []string
			for _, part := range strings.Split(row[header], "\n") {
				for _, chunk := range pdf.SplitLines([]byte(tr(part)), colWidth-2) {
					split = append(split, string(chunk))
				}
			}
			cells[i] = split
			if len(split) > lines {
				lines = len(split)
			}
		}
		height := float64(lines)*lineHeight + 2
		if pdf.GetY()+height > 198 {
			pdf.AddPage()
		}
		x, y := pdf.GetXY()
		for i := range data.Headers {
			pdf.Rect(x+float64(i)*colWidth, y, colWidth, height, "D")
			for j, line := range cells[i] {
				pdf.SetXY(x+float64(i)*colWidth+1, y+1+float64(j)*lineHeight)
				pdf.CellFormat(colWidth-2, lineHeight, line, "", 0, "L", false, 0, "")
			}
		}
		pdf.SetXY(x, y+height)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
