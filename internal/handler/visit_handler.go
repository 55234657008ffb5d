package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sisvisitas-api/internal/models"
	appErrors "github.com/noah-isme/sisvisitas-api/pkg/errors"
	"github.com/noah-isme/sisvisitas-api/pkg/response"
)

type visitService interface {
	Register(ctx context.Context, req models.VisitRequest, meta models.ActionMeta) (*models.VisitDetail, error)
	CheckOut(ctx context.Context, id int64, meta models.ActionMeta) (*models.VisitDetail, error)
	CheckOutByBadge(ctx context.Context, badgeCode string, meta models.ActionMeta) (*models.VisitDetail, error)
	Get(ctx context.Context, id int64) (*models.VisitDetail, error)
	Active(ctx context.Context, limit int) ([]models.VisitDetail, error)
	Recent(ctx context.Context, limit int) ([]models.VisitDetail, error)
}

type statsService interface {
	Today(ctx context.Context) (*models.VisitStats, error)
}

type badgeService interface {
	Render(ctx context.Context, visitID int64) (*models.Document, error)
}

// VisitHandler exposes the front-desk visit endpoints.
type VisitHandler struct {
	visits visitService
	stats  statsService
	badges badgeService
}

// NewVisitHandler constructs the handler.
func NewVisitHandler(visits visitService, stats statsService, badges badgeService) *VisitHandler {
	return &VisitHandler{visits: visits, stats: stats, badges: badges}
}

// Create godoc
// @Summary Register a visit
// @Description Upserts the citizen, resolves the case for the topic and checks the visitor in
// @Tags Visits
// @Accept json
// @Produce json
// @Param payload body models.VisitRequest true "Visit payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /visits [post]
func (h *VisitHandler) Create(c *gin.Context) {
	var req models.VisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid visit payload"))
		return
	}

	visit, err := h.visits.Register(c.Request.Context(), req, actionMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, visit)
}

// Active godoc
// @Summary Visitors still inside
// @Tags Visits
// @Produce json
// @Param limit query int false "Maximum rows"
// @Success 200 {object} response.Envelope
// @Router /visits/active [get]
func (h *VisitHandler) Active(c *gin.Context) {
	visits, err := h.visits.Active(c.Request.Context(), queryLimit(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, visits, nil, map[string]interface{}{"count": len(visits)})
}

// Recent godoc
// @Summary Latest visits
// @Tags Visits
// @Produce json
// @Param limit query int false "Maximum rows"
// @Success 200 {object} response.Envelope
// @Router /visits/recent [get]
func (h *VisitHandler) Recent(c *gin.Context) {
	visits, err := h.visits.Recent(c.Request.Context(), queryLimit(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, visits, nil, map[string]interface{}{"count": len(visits)})
}

// Stats godoc
// @Summary Same-day counters
// @Tags Visits
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /visits/stats [get]
func (h *VisitHandler) Stats(c *gin.Context) {
	stats, err := h.stats.Today(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}

// Get godoc
// @Summary Visit detail
// @Tags Visits
// @Produce json
// @Param id path int true "Visit ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /visits/{id} [get]
func (h *VisitHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	visit, err := h.visits.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, visit, nil)
}

// Checkout godoc
// @Summary Check a visitor out
// @Tags Visits
// @Produce json
// @Param id path int true "Visit ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /visits/{id}/checkout [patch]
func (h *VisitHandler) Checkout(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	visit, err := h.visits.CheckOut(c.Request.Context(), id, actionMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, visit, nil)
}

// CheckoutByBadge godoc
// @Summary Check a visitor out by badge code
// @Tags Visits
// @Accept json
// @Produce json
// @Param payload body models.CheckoutByBadgeRequest true "Badge code"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /visits/checkout [patch]
func (h *VisitHandler) CheckoutByBadge(c *gin.Context) {
	var req models.CheckoutByBadgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid checkout payload"))
		return
	}
	visit, err := h.visits.CheckOutByBadge(c.Request.Context(), req.BadgeCode, actionMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, visit, nil)
}

// Badge godoc
// @Summary Printable visitor badge
// @Tags Visits
// @Produce application/pdf
// @Param id path int true "Visit ID"
// @Param download query string false "1, true or yes to force a download"
// @Success 200 {file} binary
// @Failure 404 {object} response.Envelope
// @Router /visits/{id}/badge [get]
func (h *VisitHandler) Badge(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	doc, err := h.badges.Render(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Document(c, doc.ContentType, doc.Filename, doc.Body, wantsDownload(c.Query("download")))
}
