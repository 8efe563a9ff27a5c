package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const pageContentWidth = 190.0

// Field is a labelled value rendered in a report summary block.
type Field struct {
	Label string
	Value string
}

// Report is a multi-section PDF document.
type Report struct {
	Title    string
	Subtitle string
	Summary  []Field
	Tables   []Dataset
	Footer   string
}

// PDFExporter renders datasets and reports into A4 PDFs.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates a PDF document with an optional title and a single table.
func (e *PDFExporter) Render(data Dataset, title string) ([]byte, error) {
	return e.RenderReport(Report{Title: title, Tables: []Dataset{data}})
}

// RenderReport lays out the summary block followed by each table.
func (e *PDFExporter) RenderReport(report Report) ([]byte, error) {
	if len(report.Tables) == 0 && len(report.Summary) == 0 {
		return nil, fmt.Errorf("pdf requires a summary or at least one table")
	}
	for _, table := range report.Tables {
		if len(table.Headers) == 0 {
			return nil, fmt.Errorf("pdf table %q requires at least one header", table.Caption)
		}
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.SetAutoPageBreak(true, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	if report.Title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, tr(report.Title), "", 1, "C", false, 0, "")
	}
	if report.Subtitle != "" {
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 6, tr(report.Subtitle), "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	if len(report.Summary) > 0 {
		for _, field := range report.Summary {
			pdf.SetFont("Arial", "B", 10)
			pdf.CellFormat(50, 6, tr(field.Label), "", 0, "", false, 0, "")
			pdf.SetFont("Arial", "", 10)
			pdf.MultiCell(pageContentWidth-50, 6, tr(field.Value), "", "", false)
		}
		pdf.Ln(4)
	}

	for _, table := range report.Tables {
		if table.Caption != "" {
			pdf.SetFont("Arial", "B", 11)
			pdf.CellFormat(0, 8, tr(table.Caption), "", 1, "", false, 0, "")
		}
		widths := columnWidths(table)
		pdf.SetFont("Arial", "B", 9)
		for i, header := range table.Headers {
			pdf.CellFormat(widths[i], 8, tr(header), "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Arial", "", 8)
		for _, row := range table.Rows {
			lineHeight := 5.0
			lines := 1
			for i, header := range table.Headers {
				if n := len(pdf.SplitLines([]byte(tr(row[header])), widths[i]-2)); n > lines {
					lines = n
				}
			}
			height := lineHeight * float64(lines)
			_, pageHeight := pdf.GetPageSize()
			_, _, _, bottom := pdf.GetMargins()
			if pdf.GetY()+height > pageHeight-bottom {
				pdf.AddPage()
			}
			x, y := pdf.GetXY()
			for i, header := range table.Headers {
				pdf.Rect(x, y, widths[i], height, "D")
				pdf.MultiCell(widths[i], lineHeight, tr(row[header]), "", "", false)
				x += widths[i]
				pdf.SetXY(x, y)
			}
			pdf.SetXY(pdf.GetX()-sum(widths), y+height)
		}
		pdf.Ln(4)
	}

	if report.Footer != "" {
		pdf.SetFont("Arial", "I", 8)
		pdf.MultiCell(0, 5, tr(report.Footer), "", "", false)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func columnWidths(table Dataset) []float64 {
	widths := make([]float64, len(table.Headers))
	if len(table.Widths) != len(table.Headers) {
		for i := range widths {
			widths[i] = pageContentWidth / float64(len(widths))
		}
		return widths
	}
	total := sum(table.Widths)
	for i, w := range table.Widths {
		widths[i] = pageContentWidth * w / total
	}
	return widths
}

func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}
