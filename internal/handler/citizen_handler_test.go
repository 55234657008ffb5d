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

type citizenServiceMock struct {
	nationalID string
	passport   string
}

func (m *citizenServiceMock) Lookup(ctx context.Context, nationalID, passport string) (*models.CitizenLookup, error) {
	m.nationalID, m.passport = nationalID, passport
	if nationalID == "" && passport == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "national_id or passport is required")
	}
	if nationalID != "1234567890101" {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "citizen not found")
	}
	return &models.CitizenLookup{Citizen: models.Citizen{ID: 3, Name: "Ana López"}}, nil
}

func TestCitizenHandlerLookup(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &citizenServiceMock{}
	handler := NewCitizenHandler(svc)

	c, w := newGinContext(http.MethodGet, "/citizens/lookup?national_id=%201234567890101%20", nil)
	handler.Lookup(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1234567890101", svc.nationalID)

	c, w = newGinContext(http.MethodGet, "/citizens/lookup?passport=X1", nil)
	handler.Lookup(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "X1", svc.passport)

	c, w = newGinContext(http.MethodGet, "/citizens/lookup", nil)
	handler.Lookup(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
