package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sisvisitas-api/internal/models"
	"github.com/noah-isme/sisvisitas-api/pkg/response"
)

type citizenService interface {
	Lookup(ctx context.Context, nationalID, passport string) (*models.CitizenLookup, error)
}

// CitizenHandler serves the intake prefill lookup.
type CitizenHandler struct {
	citizens citizenService
}

// NewCitizenHandler constructs the handler.
func NewCitizenHandler(citizens citizenService) *CitizenHandler {
	return &CitizenHandler{citizens: citizens}
}

// Lookup godoc
// @Summary Find a citizen by identifier
// @Tags Citizens
// @Produce json
// @Param national_id query string false "National ID"
// @Param passport query string false "Passport number"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /citizens/lookup [get]
func (h *CitizenHandler) Lookup(c *gin.Context) {
	result, err := h.citizens.Lookup(c.Request.Context(), strings.TrimSpace(c.Query("national_id")), strings.TrimSpace(c.Query("passport")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
