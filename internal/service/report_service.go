package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sisvisitas-api/internal/models"
	appErrors "github.com/noah-isme/sisvisitas-api/pkg/errors"
	"github.com/noah-isme/sisvisitas-api/pkg/export"
)

const (
	reportTitle      = "Reporte de Visitas"
	reportDateLayout = "2006-01-02"
	reportTimeLayout = "2006-01-02 15:04"
)

var visitReportColumns = []export.Column{
	{Header: "Fecha ingreso", Width: 30},
	{Header: "Ciudadano", Width: 45},
	{Header: "Identificación", Width: 28},
	{Header: "Tema", Width: 55},
	{Header: "Unidad destino", Width: 40},
	{Header: "Badge", Width: 36},
	{Header: "Salida", Width: 35},
}

type visitReportRepository interface {
	ListForReport(ctx context.Context, filter models.VisitFilter) ([]models.VisitDetail, error)
	CountForReport(ctx context.Context, filter models.VisitFilter) (int, error)
}

// ReportServiceConfig bounds synchronous report rendering.
type ReportServiceConfig struct {
	MaxRows  int
	Location *time.Location
}

// ReportService renders visit listings as PDF, CSV or XLSX.
type ReportService struct {
	repo    visitReportRepository
	pdf     *export.PDFExporter
	csv     *export.CSVExporter
	xlsx    *export.XLSXExporter
	metrics *MetricsService
	logger  *zap.Logger
	cfg     ReportServiceConfig
	now     func() time.Time
}

// NewReportService constructs a ReportService.
func NewReportService(repo visitReportRepository, pdf *export.PDFExporter, metrics *MetricsService, logger *zap.Logger, cfg ReportServiceConfig) *ReportService {
	if pdf == nil {
		pdf = export.NewPDFExporter(export.PDFOptions{})
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxRows <= 0 {
		cfg.MaxRows = 2000
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &ReportService{
		repo:    repo,
		pdf:     pdf,
		csv:     export.NewCSVExporter(),
		xlsx:    export.NewXLSXExporter(),
		metrics: metrics,
		logger:  logger,
		cfg:     cfg,
		now:     time.Now,
	}
}

// BuildFilter turns the query string into a visit filter. Missing dates mean
// today, a malformed date is rejected, and an inverted range collapses to the
// from day.
func (s *ReportService) BuildFilter(query models.VisitReportQuery) (models.VisitFilter, error) {
	today := s.now().In(s.cfg.Location)
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, s.cfg.Location)

	from, err := s.parseDay(query.From, today)
	if err != nil {
		return models.VisitFilter{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "from must use YYYY-MM-DD")
	}
	to, err := s.parseDay(query.To, today)
	if err != nil {
		return models.VisitFilter{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "to must use YYYY-MM-DD")
	}
	if to.Before(from) {
		to = from
	}

	filter := models.VisitFilter{From: from, To: to.AddDate(0, 0, 1), Limit: s.cfg.MaxRows}
	citizen := strings.TrimSpace(query.Citizen)
	if citizen != "" {
		if id, err := strconv.ParseInt(citizen, 10, 64); err == nil {
			filter.CitizenID = &id
		} else {
			filter.CitizenName = citizen
		}
	}
	return filter, nil
}

// VisitReport renders the visits matching query. At most MaxRows rows are
// drawn while the summary reports the full total.
func (s *ReportService) VisitReport(ctx context.Context, query models.VisitReportQuery) (*models.Document, error) {
	format := strings.ToLower(strings.TrimSpace(query.Format))
	if format == "" {
		format = models.ReportFormatPDF
	}
	if format != models.ReportFormatPDF && format != models.ReportFormatCSV && format != models.ReportFormatXLSX {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be pdf, csv or xlsx")
	}

	filter, err := s.BuildFilter(query)
	if err != nil {
		return nil, err
	}

	visits, err := s.repo.ListForReport(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load report visits")
	}
	total, err := s.repo.CountForReport(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count report visits")
	}
	if len(visits) > s.cfg.MaxRows {
		visits = visits[:s.cfg.MaxRows]
	}

	rows := make([][]string, 0, len(visits))
	for _, v := range visits {
		rows = append(rows, s.reportRow(v))
	}

	start := time.Now()
	var (
		body        []byte
		contentType string
	)
	switch format {
	case models.ReportFormatCSV:
		body, err = s.csv.Render(s.dataset(rows))
		contentType = "text/csv; charset=utf-8"
	case models.ReportFormatXLSX:
		body, err = s.xlsx.Render("Visitas", s.dataset(rows), columnWidths())
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		body, err = s.pdf.Render(export.Table{
			Title:     reportTitle,
			Subtitles: reportSubtitles(query),
			Summary:   fmt.Sprintf("Total de visitas: %d", total),
			Columns:   visitReportColumns,
			Rows:      rows,
		})
		contentType = "application/pdf"
	}
	s.metrics.ObserveRender("report_"+format, time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
	}

	if total > len(rows) {
		s.logger.Info("visit report truncated", zap.Int("rows", len(rows)), zap.Int("total", total))
	}

	return &models.Document{
		Filename:    ReportFilename(query, format),
		ContentType: contentType,
		Body:        body,
		Rows:        len(rows),
		Total:       total,
	}, nil
}

// ReportFilename names the downloaded file after the requested range.
func ReportFilename(query models.VisitReportQuery, format string) string {
	from := strings.TrimSpace(query.From)
	if from == "" {
		from = "hoy"
	}
	to := strings.TrimSpace(query.To)
	if to == "" {
		to = "hoy"
	}
	return fmt.Sprintf("reporte-visitas-%s_%s.%s", from, to, format)
}

func reportSubtitles(query models.VisitReportQuery) []string {
	from := strings.TrimSpace(query.From)
	if from == "" {
		from = "(hoy)"
	}
	to := strings.TrimSpace(query.To)
	if to == "" {
		to = "(hoy)"
	}
	lines := []string{fmt.Sprintf("Rango: %s a %s", from, to)}
	if citizen := strings.TrimSpace(query.Citizen); citizen != "" {
		lines = append(lines, "Filtro ciudadano: "+citizen)
	}
	return lines
}

func (s *ReportService) parseDay(raw string, fallback time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	return time.ParseInLocation(reportDateLayout, raw, s.cfg.Location)
}

func (s *ReportService) reportRow(v models.VisitDetail) []string {
	checkout := ""
	if v.CheckoutAt != nil {
		checkout = v.CheckoutAt.In(s.cfg.Location).Format(reportTimeLayout)
	}
	return []string{
		v.CheckinAt.In(s.cfg.Location).Format(reportTimeLayout),
		v.Citizen.Name,
		v.Citizen.Identifier(),
		v.Topic.Label(),
		v.TargetUnit,
		v.Badge(),
		checkout,
	}
}

func (s *ReportService) dataset(rows [][]string) export.Dataset {
	headers := make([]string, len(visitReportColumns))
	for i, col := range visitReportColumns {
		headers[i] = col.Header
	}
	return export.Dataset{Headers: headers, Rows: rows}
}

func columnWidths() []float64 {
	widths := make([]float64, len(visitReportColumns))
	for i, col := range visitReportColumns {
		// Spreadsheet widths are in characters, roughly half a millimetre each.
		widths[i] = col.Width / 2
	}
	return widths
}
