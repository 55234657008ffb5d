package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sisvisitas-api/internal/models"
)

type auditListerMock struct {
	filter models.AuditLogFilter
}

func (m *auditListerMock) List(ctx context.Context, filter models.AuditLogFilter) ([]models.AuditLog, *models.Pagination, error) {
	m.filter = filter
	return []models.AuditLog{{ID: 1, Action: models.AuditActionLogin, Entity: models.AuditEntityUser}}, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: 1}, nil
}

func TestAuditHandlerList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &auditListerMock{}

	c, w := newGinContext(http.MethodGet, "/audit-logs?action=login&actor=user-1&page=2&page_size=10", nil)
	NewAuditHandler(svc).List(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "login", svc.filter.Action)
	assert.Equal(t, "user-1", svc.filter.ActorID)
	assert.Equal(t, 2, svc.filter.Page)
	assert.Equal(t, 10, svc.filter.PageSize)
	assert.Contains(t, w.Body.String(), `"pagination"`)
}
