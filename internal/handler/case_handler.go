package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sisvisitas-api/internal/models"
	appErrors "github.com/noah-isme/sisvisitas-api/pkg/errors"
	"github.com/noah-isme/sisvisitas-api/pkg/response"
)

type caseService interface {
	Close(ctx context.Context, caseID int64, reason string, meta models.ActionMeta) (*models.VisitCase, error)
}

// CaseHandler exposes case administration.
type CaseHandler struct {
	cases caseService
}

// NewCaseHandler constructs the handler.
func NewCaseHandler(cases caseService) *CaseHandler {
	return &CaseHandler{cases: cases}
}

// Close godoc
// @Summary Close a case
// @Tags Cases
// @Accept json
// @Produce json
// @Param id path int true "Case ID"
// @Param payload body models.CloseCaseRequest true "Closing reason"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /cases/{id}/close [patch]
func (h *CaseHandler) Close(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req models.CloseCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid close payload"))
		return
	}

	vc, err := h.cases.Close(c.Request.Context(), id, req.Reason, actionMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, vc, nil)
}
