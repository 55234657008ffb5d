package export

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // register decoders for DecodeConfig
	_ "image/png"
	"strings"
	"time"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
	"github.com/jung-kurt/gofpdf"
	fpdfbarcode "github.com/jung-kurt/gofpdf/contrib/barcode"
)

// Badge geometry in millimetres.
const (
	BadgeWidth  = 90.0
	BadgeHeight = 60.0

	badgeHeaderHeight = 16.0
	badgeInset        = 4.0
	badgeContentTop   = 19.0
	badgePhotoX       = 8.0
	badgePhotoW       = 20.0
	badgePhotoH       = 26.0
	badgeTextX        = 31.0
	badgeTextW        = 32.0
	badgeQRX          = 66.0
	badgeQRBox        = 19.0
	badgeQRSize       = 17.0
	badgeFooterY      = 46.0
	badgeFooterH      = 10.0

	badgeNameMaxLines = 2
	badgeBlockGap     = 1.5
	badgeLineSpacing  = 1.2
)

var (
	badgeNameSizes   = []float64{12, 11, 10, 9, 8}
	badgeDetailSizes = []float64{8, 7, 6}
	badgeCodeSizes   = []float64{12, 11, 10, 9, 8}
	badgeHeaderFill  = [3]int{31, 120, 219}
)

// BadgeData is the content printed on a visitor badge.
type BadgeData struct {
	Title       string
	VisitorName string
	// TopicLabel is rendered as "Tema: <label>", typically "CODE - Name".
	TopicLabel string
	TargetUnit string
	BadgeCode  string
	CheckinAt  time.Time
	Location   *time.Location
	// Photo holds raw JPEG or PNG bytes. Anything unreadable falls back to a
	// placeholder.
	Photo []byte
}

// Rect is an axis-aligned box in millimetres.
type Rect struct {
	X, Y, W, H float64
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Contains reports whether o lies entirely within r.
func (r Rect) Contains(o Rect) bool {
	const eps = 1e-9
	return o.X >= r.X-eps && o.Y >= r.Y-eps && o.Right() <= r.Right()+eps && o.Bottom() <= r.Bottom()+eps
}

// Overlaps reports whether r and o share any interior area.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.Right() && o.X < r.Right() && r.Y < o.Bottom() && o.Y < r.Bottom()
}

// TextLine is a single positioned line. Text is already encoded for the
// core PDF fonts (cp1252).
type TextLine struct {
	Text  string
	Box   Rect
	Size  float64
	Style string
	Align string
}

// BadgeLayout is the resolved position of every badge element.
type BadgeLayout struct {
	Page       Rect
	Header     Rect
	Frame      Rect
	Photo      Rect
	TextColumn Rect
	QRBox      Rect
	QR         Rect
	Footer     Rect

	Title   TextLine
	Name    []TextLine
	Details []TextLine
	Entry   TextLine
	Code    TextLine

	// DroppedLines counts detail lines that did not fit the text column.
	DroppedLines int
}

// BadgeOptions configures a BadgeRenderer.
type BadgeOptions struct {
	Title string
	PDFOptions
}

// BadgeRenderer draws the fixed-size visitor badge.
type BadgeRenderer struct {
	opts BadgeOptions
}

// NewBadgeRenderer constructs a badge renderer.
func NewBadgeRenderer(opts BadgeOptions) *BadgeRenderer {
	if opts.Title == "" {
		opts.Title = "SisVisitas - Gafete"
	}
	return &BadgeRenderer{opts: opts}
}

// ComputeBadgeLayout resolves the badge layout without drawing anything.
func ComputeBadgeLayout(data BadgeData) BadgeLayout {
	pdf := newBadgeDocument()
	return computeBadgeLayout(pdf, pdf.UnicodeTranslatorFromDescriptor(""), data)
}

// Render produces the badge PDF. A missing or unreadable photo never fails
// the render.
func (r *BadgeRenderer) Render(data BadgeData) ([]byte, error) {
	if data.Title == "" {
		data.Title = r.opts.Title
	}

	pdf := newBadgeDocument()
	pdf.SetCompression(!r.opts.DisableCompression)
	pdf.SetTitle("Gafete "+data.BadgeCode, true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	layout := computeBadgeLayout(pdf, tr, data)

	pdf.AddPage()

	pdf.SetDrawColor(150, 150, 150)
	pdf.SetLineWidth(0.3)
	drawRect(pdf, layout.Frame, "D")

	pdf.SetFillColor(badgeHeaderFill[0], badgeHeaderFill[1], badgeHeaderFill[2])
	drawRect(pdf, layout.Header, "F")
	pdf.SetTextColor(255, 255, 255)
	drawLine(pdf, layout.Title)

	pdf.SetTextColor(0, 0, 0)
	drawPhoto(pdf, tr, layout.Photo, data.Photo)

	for _, line := range layout.Name {
		drawLine(pdf, line)
	}
	pdf.SetTextColor(40, 40, 40)
	for _, line := range layout.Details {
		drawLine(pdf, line)
	}

	pdf.SetDrawColor(150, 150, 150)
	drawRect(pdf, layout.QRBox, "D")
	drawQR(pdf, layout.QR, data.BadgeCode)

	pdf.SetFillColor(242, 242, 242)
	drawRect(pdf, layout.Footer, "FD")
	pdf.SetTextColor(0, 0, 0)
	drawLine(pdf, layout.Entry)
	drawLine(pdf, layout.Code)

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render badge: %w", err)
	}
	return buf.Bytes(), nil
}

func newBadgeDocument() *gofpdf.Fpdf {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: BadgeWidth, Ht: BadgeHeight},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCellMargin(0)
	return pdf
}

func computeBadgeLayout(pdf *gofpdf.Fpdf, tr func(string) string, data BadgeData) BadgeLayout {
	layout := BadgeLayout{
		Page:       Rect{0, 0, BadgeWidth, BadgeHeight},
		Header:     Rect{0, 0, BadgeWidth, badgeHeaderHeight},
		Frame:      Rect{badgeInset, badgeInset, BadgeWidth - 2*badgeInset, BadgeHeight - 2*badgeInset},
		Photo:      Rect{badgePhotoX, badgeContentTop, badgePhotoW, badgePhotoH},
		TextColumn: Rect{badgeTextX, badgeContentTop, badgeTextW, badgeFooterY - badgeContentTop - 1},
		QRBox:      Rect{badgeQRX, badgeContentTop, badgeQRBox, badgeQRBox},
		QR:         Rect{badgeQRX + 1, badgeContentTop + 1, badgeQRSize, badgeQRSize},
		Footer:     Rect{badgeInset, badgeFooterY, BadgeWidth - 2*badgeInset, badgeFooterH},
	}

	pdf.SetFont(fontFamily, "B", 11)
	layout.Title = TextLine{
		Text:  fitText(pdf, tr(data.Title), BadgeWidth-2*badgeInset),
		Box:   Rect{badgeInset, badgeInset + 2, BadgeWidth - 2*badgeInset, 6},
		Size:  11,
		Style: "B",
		Align: "C",
	}

	col := layout.TextColumn
	name := strings.TrimSpace(data.VisitorName)
	nameLines, nameSize := wrapName(pdf, tr(name), col.W)
	lh := lineHeight(nameSize)
	y := col.Y
	for _, text := range nameLines {
		layout.Name = append(layout.Name, TextLine{Text: text, Box: Rect{col.X, y, col.W, lh}, Size: nameSize, Style: "B", Align: "C"})
		y += lh
	}

	details := []string{
		tr("Tema: " + strings.TrimSpace(data.TopicLabel)),
		tr("Unidad destino: " + strings.TrimSpace(data.TargetUnit)),
	}
	top := y + badgeBlockGap
	budget := col.Bottom() - top
	var detailLines []string
	var detailSize float64
	for _, size := range badgeDetailSizes {
		detailSize = size
		pdf.SetFont(fontFamily, "", size)
		detailLines = detailLines[:0]
		for _, text := range details {
			detailLines = append(detailLines, splitText(pdf, text, col.W)...)
		}
		if float64(len(detailLines))*lineHeight(size) <= budget {
			break
		}
	}
	dlh := lineHeight(detailSize)
	fit := len(detailLines)
	if budget <= 0 {
		fit = 0
	} else if capacity := int(budget / dlh); capacity < fit {
		fit = capacity
	}
	layout.DroppedLines = len(detailLines) - fit
	y = top
	for _, text := range detailLines[:fit] {
		layout.Details = append(layout.Details, TextLine{Text: text, Box: Rect{col.X, y, col.W, dlh}, Size: detailSize, Align: "L"})
		y += dlh
	}

	footer := layout.Footer
	inner := footer.W - 4
	pdf.SetFont(fontFamily, "", 7)
	layout.Entry = TextLine{
		Text:  fitText(pdf, tr("Entrada: "+formatCheckin(data.CheckinAt, data.Location)), inner),
		Box:   Rect{footer.X + 2, footer.Y + 0.8, inner, 3.2},
		Size:  7,
		Align: "L",
	}

	codeText := tr("Código visitante: " + data.BadgeCode)
	codeSize := badgeCodeSizes[len(badgeCodeSizes)-1]
	for _, size := range badgeCodeSizes {
		pdf.SetFont(fontFamily, "B", size)
		if pdf.GetStringWidth(codeText) <= inner {
			codeSize = size
			break
		}
	}
	pdf.SetFont(fontFamily, "B", codeSize)
	layout.Code = TextLine{
		Text:  fitText(pdf, codeText, inner),
		Box:   Rect{footer.X + 2, footer.Y + 4, inner, footer.Bottom() - footer.Y - 4.5},
		Size:  codeSize,
		Style: "B",
		Align: "C",
	}

	return layout
}

// wrapName picks the largest size at which the name fits in two lines. At the
// smallest size the remainder is truncated.
func wrapName(pdf *gofpdf.Fpdf, name string, w float64) ([]string, float64) {
	if name == "" {
		return nil, badgeNameSizes[0]
	}
	var lines []string
	var size float64
	for _, size = range badgeNameSizes {
		pdf.SetFont(fontFamily, "B", size)
		lines = splitText(pdf, name, w)
		if len(lines) <= badgeNameMaxLines {
			return lines, size
		}
	}
	last := fitText(pdf, strings.Join(lines[badgeNameMaxLines-1:], " "), w)
	return append(lines[:badgeNameMaxLines-1], last), size
}

// splitText wraps cp1252 text with the current font. SplitLines works on
// single-byte text, which is what tr produces.
func splitText(pdf *gofpdf.Fpdf, text string, w float64) []string {
	raw := pdf.SplitLines([]byte(text), w)
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if trimmed := strings.TrimSpace(string(line)); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}

func lineHeight(size float64) float64 {
	return size * ptToMM * badgeLineSpacing
}

func formatCheckin(at time.Time, loc *time.Location) string {
	if at.IsZero() {
		return "-"
	}
	if loc == nil {
		loc = time.UTC
	}
	return at.In(loc).Format("2006-01-02 15:04")
}

func drawRect(pdf *gofpdf.Fpdf, r Rect, style string) {
	pdf.Rect(r.X, r.Y, r.W, r.H, style)
}

func drawLine(pdf *gofpdf.Fpdf, l TextLine) {
	if l.Text == "" {
		return
	}
	pdf.SetFont(fontFamily, l.Style, l.Size)
	pdf.SetXY(l.Box.X, l.Box.Y)
	pdf.CellFormat(l.Box.W, l.Box.H, l.Text, "", 0, l.Align, false, 0, "")
}

func drawPhoto(pdf *gofpdf.Fpdf, tr func(string) string, box Rect, photo []byte) {
	pdf.SetDrawColor(150, 150, 150)
	if placePhoto(pdf, box, photo) {
		drawRect(pdf, box, "D")
		return
	}
	pdf.SetFillColor(235, 235, 235)
	drawRect(pdf, box, "FD")
	pdf.SetTextColor(120, 120, 120)
	drawLine(pdf, TextLine{Text: tr("Sin foto"), Box: box, Size: 7, Style: "I", Align: "CM"})
	pdf.SetTextColor(0, 0, 0)
}

// placePhoto draws the photo scaled to fit box. Any decoding problem leaves
// the document without an error and returns false.
func placePhoto(pdf *gofpdf.Fpdf, box Rect, photo []byte) (ok bool) {
	if len(photo) == 0 {
		return false
	}
	defer func() {
		if rec := recover(); rec != nil {
			pdf.ClearError()
			ok = false
		}
	}()

	cfg, format, err := image.DecodeConfig(bytes.NewReader(photo))
	if err != nil || cfg.Width <= 0 || cfg.Height <= 0 {
		return false
	}
	if format != "jpeg" && format != "png" {
		return false
	}

	opts := gofpdf.ImageOptions{ImageType: format}
	pdf.RegisterImageOptionsReader("visitor-photo", opts, bytes.NewReader(photo))
	if !pdf.Ok() {
		pdf.ClearError()
		return false
	}

	w, h := box.W, box.H
	ratio := float64(cfg.Width) / float64(cfg.Height)
	if ratio > w/h {
		h = w / ratio
	} else {
		w = h * ratio
	}
	x := box.X + (box.W-w)/2
	y := box.Y + (box.H-h)/2
	pdf.ImageOptions("visitor-photo", x, y, w, h, false, opts, 0, "")
	if !pdf.Ok() {
		pdf.ClearError()
		return false
	}
	return true
}

func drawQR(pdf *gofpdf.Fpdf, r Rect, code string) {
	if code == "" {
		return
	}
	encoded, err := qr.Encode(code, qr.M, qr.Auto)
	if err != nil {
		return
	}
	scaled, err := barcode.Scale(encoded, 256, 256)
	if err != nil {
		return
	}
	key := fpdfbarcode.Register(scaled)
	fpdfbarcode.Barcode(pdf, key, r.X, r.Y, r.W, r.H, false)
}
