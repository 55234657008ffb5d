package service

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/sisvisitas-api/internal/models"
	appErrors "github.com/noah-isme/sisvisitas-api/pkg/errors"
	"github.com/noah-isme/sisvisitas-api/pkg/export"
)

type mockReportRepo struct {
	visits     []models.VisitDetail
	total      int
	lastFilter models.VisitFilter
}

func (m *mockReportRepo) ListForReport(ctx context.Context, filter models.VisitFilter) ([]models.VisitDetail, error) {
	m.lastFilter = filter
	return m.visits, nil
}

func (m *mockReportRepo) CountForReport(ctx context.Context, filter models.VisitFilter) (int, error) {
	return m.total, nil
}

func reportVisits(n int) []models.VisitDetail {
	out := make([]models.VisitDetail, 0, n)
	for i := 1; i <= n; i++ {
		code := fmt.Sprintf("VIS-2024-%06d", i)
		out = append(out, models.VisitDetail{
			Visit:   models.Visit{ID: int64(i), CheckinAt: time.Date(2024, 5, 10, 16, i, 0, 0, time.UTC), TargetUnit: "Caja", BadgeCode: &code},
			Citizen: models.Citizen{Name: fmt.Sprintf("Visitante %d", i), NationalID: strPtr("123456")},
			Topic:   models.Topic{Code: "PAG", Name: "Pagos"},
		})
	}
	return out
}

func newReportService(repo *mockReportRepo, maxRows int, loc *time.Location) *ReportService {
	svc := NewReportService(repo, export.NewPDFExporter(export.PDFOptions{DisableCompression: true}), nil, zap.NewNop(), ReportServiceConfig{MaxRows: maxRows, Location: loc})
	svc.now = func() time.Time { return time.Date(2024, 5, 10, 3, 0, 0, 0, time.UTC) }
	return svc
}

func TestReportServiceBuildFilter(t *testing.T) {
	loc := time.FixedZone("CST", -6*3600)
	svc := newReportService(&mockReportRepo{}, 2000, loc)

	filter, err := svc.BuildFilter(models.VisitReportQuery{})
	require.NoError(t, err)
	today := time.Date(2024, 5, 9, 0, 0, 0, 0, loc)
	assert.True(t, filter.From.Equal(today))
	assert.True(t, filter.To.Equal(today.AddDate(0, 0, 1)))
	assert.Equal(t, 2000, filter.Limit)

	filter, err = svc.BuildFilter(models.VisitReportQuery{From: "2024-05-03", To: "2024-05-01", Citizen: "42"})
	require.NoError(t, err)
	from := time.Date(2024, 5, 3, 0, 0, 0, 0, loc)
	assert.True(t, filter.From.Equal(from))
	assert.True(t, filter.To.Equal(from.AddDate(0, 0, 1)))
	require.NotNil(t, filter.CitizenID)
	assert.Equal(t, int64(42), *filter.CitizenID)

	filter, err = svc.BuildFilter(models.VisitReportQuery{Citizen: " ana "})
	require.NoError(t, err)
	assert.Nil(t, filter.CitizenID)
	assert.Equal(t, "ana", filter.CitizenName)

	_, err = svc.BuildFilter(models.VisitReportQuery{From: "10/05/2024"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestReportServiceEmptyPDF(t *testing.T) {
	svc := newReportService(&mockReportRepo{}, 2000, time.UTC)

	doc, err := svc.VisitReport(context.Background(), models.VisitReportQuery{})
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", doc.ContentType)
	assert.Equal(t, "reporte-visitas-hoy_hoy.pdf", doc.Filename)
	body := string(doc.Body)
	assert.Contains(t, body, "Reporte de Visitas")
	assert.Contains(t, body, `Rango: \(hoy\) a \(hoy\)`)
	assert.Contains(t, body, "Total de visitas: 0")
}

func TestReportServiceCapsRowsButReportsTotal(t *testing.T) {
	repo := &mockReportRepo{visits: reportVisits(3), total: 5}
	svc := newReportService(repo, 2, time.UTC)

	doc, err := svc.VisitReport(context.Background(), models.VisitReportQuery{From: "2024-05-10", To: "2024-05-10", Citizen: "Visitante"})
	require.NoError(t, err)
	assert.Equal(t, 2, doc.Rows)
	assert.Equal(t, 5, doc.Total)
	assert.Equal(t, 2, repo.lastFilter.Limit)
	body := string(doc.Body)
	assert.Contains(t, body, "Total de visitas: 5")
	assert.Contains(t, body, "Filtro ciudadano: Visitante")
	assert.Contains(t, body, "VIS-2024-000002")
	assert.NotContains(t, body, "VIS-2024-000003")
	assert.Equal(t, "reporte-visitas-2024-05-10_2024-05-10.pdf", doc.Filename)
}

func TestReportServiceSpreadsheetFormats(t *testing.T) {
	repo := &mockReportRepo{visits: reportVisits(1), total: 1}
	svc := newReportService(repo, 10, time.UTC)

	csvDoc, err := svc.VisitReport(context.Background(), models.VisitReportQuery{Format: "CSV"})
	require.NoError(t, err)
	assert.Equal(t, "reporte-visitas-hoy_hoy.csv", csvDoc.Filename)
	assert.True(t, bytes.HasPrefix(csvDoc.Body, []byte("\xEF\xBB\xBF")))
	assert.Contains(t, string(csvDoc.Body), "Fecha ingreso,Ciudadano")
	assert.Contains(t, string(csvDoc.Body), "2024-05-10 16:01,Visitante 1,123456,PAG - Pagos,Caja,VIS-2024-000001,")

	xlsxDoc, err := svc.VisitReport(context.Background(), models.VisitReportQuery{Format: "xlsx"})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(xlsxDoc.Body, []byte("PK")))
	assert.Contains(t, xlsxDoc.ContentType, "spreadsheetml")

	_, err = svc.VisitReport(context.Background(), models.VisitReportQuery{Format: "docx"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}
