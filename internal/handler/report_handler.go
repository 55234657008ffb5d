package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sisvisitas-api/internal/models"
	appErrors "github.com/noah-isme/sisvisitas-api/pkg/errors"
	"github.com/noah-isme/sisvisitas-api/pkg/response"
)

type reportService interface {
	VisitReport(ctx context.Context, query models.VisitReportQuery) (*models.Document, error)
}

// ReportHandler exposes reporting endpoints.
type ReportHandler struct {
	reports reportService
}

// NewReportHandler constructs handler.
func NewReportHandler(reports reportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Visits godoc
// @Summary Visit report
// @Description Renders visits checked in within the date range as PDF, CSV or XLSX
// @Tags Reports
// @Produce application/pdf
// @Param from query string false "Start date (YYYY-MM-DD), defaults to today"
// @Param to query string false "End date (YYYY-MM-DD), defaults to today"
// @Param citizen query string false "Citizen id or part of the name"
// @Param format query string false "pdf, csv or xlsx"
// @Param download query string false "1, true or yes to force a download"
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Router /reports/visits [get]
func (h *ReportHandler) Visits(c *gin.Context) {
	var query models.VisitReportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid report query"))
		return
	}
	query.Download = wantsDownload(c.Query("download"))

	doc, err := h.reports.VisitReport(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("X-Report-Rows", strconv.Itoa(doc.Rows))
	c.Header("X-Report-Total", strconv.Itoa(doc.Total))
	response.Document(c, doc.ContentType, doc.Filename, doc.Body, query.Download)
}
