package export

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleBadge() BadgeData {
	loc := time.FixedZone("CST", -6*60*60)
	return BadgeData{
		VisitorName: "Ana Lucia Perez",
		TopicLabel:  "LIC - Licencias",
		TargetUnit:  "Ventanilla 3",
		BadgeCode:   "VIS-2024-000042",
		CheckinAt:   time.Date(2024, 5, 10, 16, 5, 0, 0, time.UTC),
		Location:    loc,
	}
}

func measure(text string, style string, size float64) float64 {
	pdf := newBadgeDocument()
	pdf.SetFont(fontFamily, style, size)
	return pdf.GetStringWidth(text)
}

func TestComputeBadgeLayoutBlocksDoNotOverlap(t *testing.T) {
	layout := ComputeBadgeLayout(sampleBadge())

	blocks := map[string]Rect{
		"header": layout.Header,
		"photo":  layout.Photo,
		"text":   layout.TextColumn,
		"qr":     layout.QRBox,
		"footer": layout.Footer,
	}
	for a, ra := range blocks {
		assert.True(t, layout.Page.Contains(ra), a)
		for b, rb := range blocks {
			if a < b {
				assert.False(t, ra.Overlaps(rb), "%s overlaps %s", a, b)
			}
		}
	}
	assert.True(t, layout.QRBox.Contains(layout.QR))
	assert.InDelta(t, 17.0, layout.QR.W, 1e-9)
	assert.True(t, layout.Frame.Contains(layout.Footer))
}

func TestComputeBadgeLayoutKeepsTextInsideColumn(t *testing.T) {
	data := sampleBadge()
	data.VisitorName = "Maria de los Angeles Gutierrez Hernandez de la Cruz Villatoro"
	data.TopicLabel = "REG-CIV - Registro civil y tramites relacionados con actas de nacimiento y defuncion"
	data.TargetUnit = "Direccion general de atencion al vecino, segundo nivel, oficina 214"

	layout := ComputeBadgeLayout(data)

	require.NotEmpty(t, layout.Name)
	assert.LessOrEqual(t, len(layout.Name), 2)
	for _, line := range append(append([]TextLine{}, layout.Name...), layout.Details...) {
		assert.True(t, layout.TextColumn.Contains(line.Box), line.Text)
		assert.LessOrEqual(t, measure(line.Text, line.Style, line.Size), layout.TextColumn.W+0.05, line.Text)
	}
	assert.GreaterOrEqual(t, layout.Name[0].Size, 8.0)
	assert.LessOrEqual(t, layout.Name[0].Size, 12.0)
}

func TestComputeBadgeLayoutShortNameUsesLargestSize(t *testing.T) {
	layout := ComputeBadgeLayout(sampleBadge())

	require.NotEmpty(t, layout.Name)
	assert.Equal(t, 12.0, layout.Name[0].Size)
	require.NotEmpty(t, layout.Details)
	assert.Equal(t, 8.0, layout.Details[0].Size)
	assert.Zero(t, layout.DroppedLines)
	assert.True(t, strings.HasPrefix(layout.Details[0].Text, "Tema: LIC - Licencias"))
}

func TestComputeBadgeLayoutDropsOverflowingDetails(t *testing.T) {
	data := sampleBadge()
	data.TargetUnit = strings.Repeat("Unidad muy larga ", 40)

	layout := ComputeBadgeLayout(data)

	assert.Positive(t, layout.DroppedLines)
	assert.Equal(t, 6.0, layout.Details[0].Size)
	last := layout.Details[len(layout.Details)-1]
	assert.LessOrEqual(t, last.Box.Bottom(), layout.TextColumn.Bottom()+1e-9)
}

func TestComputeBadgeLayoutFooterUsesDeploymentTimezone(t *testing.T) {
	layout := ComputeBadgeLayout(sampleBadge())

	assert.Equal(t, "Entrada: 2024-05-10 10:05", layout.Entry.Text)
	assert.Contains(t, layout.Code.Text, "VIS-2024-000042")
	assert.Equal(t, 12.0, layout.Code.Size)
}

func TestBadgeRendererRendersWithoutPhoto(t *testing.T) {
	renderer := NewBadgeRenderer(BadgeOptions{PDFOptions: PDFOptions{DisableCompression: true}})

	out, err := renderer.Render(sampleBadge())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
	assert.Contains(t, string(out), "Sin foto")
	assert.Contains(t, string(out), "SisVisitas - Gafete")
	assert.Contains(t, string(out), "VIS-2024-000042")
}

func TestBadgeRendererFallsBackOnCorruptPhoto(t *testing.T) {
	renderer := NewBadgeRenderer(BadgeOptions{PDFOptions: PDFOptions{DisableCompression: true}})
	data := sampleBadge()
	data.Photo = []byte("\x89PNG\r\n\x1a\nnot really a png")

	out, err := renderer.Render(data)
	require.NoError(t, err)
	assert.Contains(t, string(out), "Sin foto")
}

func TestBadgeRendererEmbedsPhoto(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 30, 40))
	for x := 0; x < 30; x++ {
		for y := 0; y < 40; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	buf := &bytes.Buffer{}
	require.NoError(t, png.Encode(buf, img))

	renderer := NewBadgeRenderer(BadgeOptions{PDFOptions: PDFOptions{DisableCompression: true}})
	data := sampleBadge()
	data.Photo = buf.Bytes()

	out, err := renderer.Render(data)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "Sin foto")
}

func TestBadgeRendererHandlesNonLatinText(t *testing.T) {
	renderer := NewBadgeRenderer(BadgeOptions{})
	data := sampleBadge()
	data.VisitorName = "José Ñúñez 王小明"

	out, err := renderer.Render(data)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestSplitTextBreaksLongWords(t *testing.T) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCellMargin(0)
	pdf.SetFont(fontFamily, "", 10)

	lines := splitText(pdf, strings.Repeat("X", 60), 20)
	assert.Greater(t, len(lines), 1)
	for _, l := range lines {
		assert.LessOrEqual(t, pdf.GetStringWidth(l), 20.05)
	}
}
