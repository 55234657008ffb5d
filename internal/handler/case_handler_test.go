package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sisvisitas-api/internal/models"
	appErrors "github.com/noah-isme/sisvisitas-api/pkg/errors"
)

type caseServiceMock struct {
	id     int64
	reason string
	meta   models.ActionMeta
	err    error
}

func (m *caseServiceMock) Close(ctx context.Context, caseID int64, reason string, meta models.ActionMeta) (*models.VisitCase, error) {
	m.id, m.reason, m.meta = caseID, reason, meta
	if m.err != nil {
		return nil, m.err
	}
	return &models.VisitCase{ID: caseID, Code: "CASE-3-1", State: models.CaseStateClosed, ClosedReason: reason}, nil
}

func TestCaseHandlerClose(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &caseServiceMock{}

	c, w := newGinContext(http.MethodPatch, "/cases/7/close", []byte(`{"reason":"Resuelto"}`))
	c.Params = gin.Params{{Key: "id", Value: "7"}}
	withOperator(c, models.GroupSupervisor)
	NewCaseHandler(svc).Close(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(7), svc.id)
	assert.Equal(t, "Resuelto", svc.reason)
	assert.Equal(t, "user-1", svc.meta.ActorID)
	assert.Contains(t, w.Body.String(), `"state":"CLOSED"`)
}

func TestCaseHandlerCloseErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, w := newGinContext(http.MethodPatch, "/cases/7/close", []byte(`{}`))
	c.Params = gin.Params{{Key: "id", Value: "7"}}
	NewCaseHandler(&caseServiceMock{err: appErrors.Clone(appErrors.ErrValidation, "reason is required")}).Close(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c, w = newGinContext(http.MethodPatch, "/cases/7/close", []byte(`{"reason":"x"}`))
	c.Params = gin.Params{{Key: "id", Value: "7"}}
	NewCaseHandler(&caseServiceMock{err: appErrors.Clone(appErrors.ErrConflict, "case already closed")}).Close(c)
	assert.Equal(t, http.StatusConflict, w.Code)
}
