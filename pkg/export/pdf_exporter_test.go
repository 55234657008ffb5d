package export

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reportColumns() []Column {
	return []Column{
		{Header: "Fecha ingreso", Width: 30},
		{Header: "Ciudadano", Width: 45},
		{Header: "Identificación", Width: 28},
	}
}

func TestPDFExporterRendersEmptyTable(t *testing.T) {
	exporter := NewPDFExporter(PDFOptions{DisableCompression: true})

	out, err := exporter.Render(Table{
		Title:     "Reporte de Visitas",
		Subtitles: []string{"Rango: (hoy) a (hoy)"},
		Summary:   "Total de visitas: 0",
		Columns:   reportColumns(),
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
	body := string(out)
	assert.Contains(t, body, "Reporte de Visitas")
	assert.Contains(t, body, "Total de visitas: 0")
	assert.Contains(t, body, "Fecha ingreso")
}

func TestPDFExporterRepeatsHeaderOnEveryPage(t *testing.T) {
	exporter := NewPDFExporter(PDFOptions{DisableCompression: true})
	rows := make([][]string, 120)
	for i := range rows {
		rows[i] = []string{"2024-05-10 10:00", fmt.Sprintf("Visitante %d", i), "1234567"}
	}

	out, err := exporter.Render(Table{Title: "Reporte de Visitas", Columns: reportColumns(), Rows: rows})
	require.NoError(t, err)

	pages := strings.Count(string(out), "/Type /Page\n")
	require.Greater(t, pages, 1)
	assert.Equal(t, pages, strings.Count(string(out), "(Fecha ingreso)"))
	assert.Contains(t, string(out), "Visitante 119")
}

func TestPDFExporterTruncatesWideCells(t *testing.T) {
	exporter := NewPDFExporter(PDFOptions{DisableCompression: true})

	out, err := exporter.Render(Table{
		Columns: reportColumns(),
		Rows:    [][]string{{"2024-05-10", strings.Repeat("Nombre ", 30), "X"}},
	})
	require.NoError(t, err)
	assert.Contains(t, string(out), "...")
}

func TestPDFExporterRequiresColumns(t *testing.T) {
	_, err := NewPDFExporter(PDFOptions{}).Render(Table{})
	assert.Error(t, err)
}
