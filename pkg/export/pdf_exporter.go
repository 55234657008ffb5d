package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const (
	fontFamily = "Arial"
	// ptToMM converts font points to millimetres.
	ptToMM = 25.4 / 72
)

// Column describes one table column. Width is in millimetres.
type Column struct {
	Header string
	Width  float64
}

// Table is a titled tabular document.
type Table struct {
	Title     string
	Subtitles []string
	Summary   string
	Columns   []Column
	Rows      [][]string
}

// PDFOptions tunes the generated PDF stream.
type PDFOptions struct {
	// DisableCompression leaves content streams readable, which helps when
	// inspecting output.
	DisableCompression bool
}

// PDFExporter renders tables into landscape A4 PDFs with a header row that
// repeats on every page.
type PDFExporter struct {
	opts PDFOptions
}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter(opts PDFOptions) *PDFExporter {
	return &PDFExporter{opts: opts}
}

var (
	headerFill = [3]int{31, 120, 219}
	stripeFill = [3]int{238, 244, 252}
)

const (
	tableMargin    = 10.0
	tableRowHeight = 6.0
	tableFontSize  = 8.0
)

// Render lays out the table. Exactly the rows given are drawn.
func (e *PDFExporter) Render(t Table) ([]byte, error) {
	if len(t.Columns) == 0 {
		return nil, fmt.Errorf("pdf requires at least one column")
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetCompression(!e.opts.DisableCompression)
	pdf.SetMargins(tableMargin, tableMargin, tableMargin)
	pdf.SetAutoPageBreak(false, tableMargin)
	pdf.AliasNbPages("{nb}")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(t.Title, true)

	_, pageHeight := pdf.GetPageSize()
	bottom := pageHeight - tableMargin - 6

	pdf.SetFooterFunc(func() {
		pdf.SetY(-tableMargin - 2)
		pdf.SetFont(fontFamily, "I", 7)
		pdf.SetTextColor(110, 110, 110)
		pdf.CellFormat(0, 4, tr(fmt.Sprintf("Página %d de {nb}", pdf.PageNo())), "", 0, "R", false, 0, "")
	})

	pdf.AddPage()

	if t.Title != "" {
		pdf.SetFont(fontFamily, "B", 16)
		pdf.SetTextColor(0, 0, 0)
		pdf.CellFormat(0, 9, tr(t.Title), "", 1, "L", false, 0, "")
	}
	pdf.SetFont(fontFamily, "", 10)
	for _, line := range t.Subtitles {
		pdf.CellFormat(0, 5, tr(line), "", 1, "L", false, 0, "")
	}
	if t.Summary != "" {
		pdf.SetFont(fontFamily, "B", 10)
		pdf.CellFormat(0, 6, tr(t.Summary), "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)

	drawHeader := func() {
		pdf.SetFont(fontFamily, "B", tableFontSize)
		pdf.SetFillColor(headerFill[0], headerFill[1], headerFill[2])
		pdf.SetTextColor(255, 255, 255)
		pdf.SetDrawColor(200, 200, 200)
		for _, col := range t.Columns {
			pdf.CellFormat(col.Width, tableRowHeight+1, fitText(pdf, tr(col.Header), col.Width), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont(fontFamily, "", tableFontSize)
		pdf.SetTextColor(0, 0, 0)
	}
	drawHeader()

	for i, row := range t.Rows {
		if pdf.GetY()+tableRowHeight > bottom {
			pdf.AddPage()
			drawHeader()
		}
		striped := i%2 == 1
		if striped {
			pdf.SetFillColor(stripeFill[0], stripeFill[1], stripeFill[2])
		}
		for j, col := range t.Columns {
			value := ""
			if j < len(row) {
				value = tr(row[j])
			}
			pdf.CellFormat(col.Width, tableRowHeight, fitText(pdf, value, col.Width), "1", 0, "L", striped, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// fitText shortens already-translated text so it fits a cell of width w with
// the current font.
func fitText(pdf *gofpdf.Fpdf, text string, w float64) string {
	avail := w - 2*pdf.GetCellMargin()
	if pdf.GetStringWidth(text) <= avail {
		return text
	}
	const ellipsis = "..."
	cut := len(text)
	for cut > 0 && pdf.GetStringWidth(text[:cut]+ellipsis) > avail {
		cut--
	}
	return text[:cut] + ellipsis
}
