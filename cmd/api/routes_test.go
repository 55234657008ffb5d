package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/noah-isme/sisvisitas-api/internal/handler"
	"github.com/noah-isme/sisvisitas-api/internal/models"
	"github.com/noah-isme/sisvisitas-api/internal/service"
	"github.com/noah-isme/sisvisitas-api/pkg/config"
	appErrors "github.com/noah-isme/sisvisitas-api/pkg/errors"
)

type tokenStub struct{}

func (tokenStub) ValidateToken(token string) (*models.JWTClaims, error) {
	switch token {
	case "reception":
		return &models.JWTClaims{UserID: "u1", Groups: []string{models.GroupReception}}, nil
	case "admin":
		return &models.JWTClaims{UserID: "u2", Groups: []string{models.GroupAdmin}}, nil
	default:
		return nil, appErrors.ErrUnauthorized
	}
}

type discardAudit struct{}

func (discardAudit) Record(ctx context.Context, event service.AuditEvent) {}

func testRouter() http.Handler {
	cfg := &config.Config{Env: config.EnvDevelopment, APIPrefix: "/api/v1"}
	handlers := routeHandlers{
		auth:     handler.NewAuthHandler(nil),
		visits:   handler.NewVisitHandler(nil, nil, nil),
		reports:  handler.NewReportHandler(nil),
		cases:    handler.NewCaseHandler(nil),
		citizens: handler.NewCitizenHandler(nil),
		photos:   handler.NewPhotoHandler(nil, cfg.APIPrefix),
		audit:    handler.NewAuditHandler(nil),
		metrics:  handler.NewMetricsHandler(service.NewMetricsService(), nil),
	}
	return newRouter(cfg, zap.NewNop(), nil, tokenStub{}, discardAudit{}, handlers)
}

func TestRouterGuardsRoutesByGroup(t *testing.T) {
	router := testRouter()

	cases := []struct {
		name   string
		method string
		path   string
		token  string
		status int
	}{
		{"health is public", http.MethodGet, "/health", "", http.StatusOK},
		{"visits need a token", http.MethodGet, "/api/v1/visits/active", "", http.StatusUnauthorized},
		{"reception cannot close cases", http.MethodPatch, "/api/v1/cases/1/close", "reception", http.StatusForbidden},
		{"reception cannot read audit", http.MethodGet, "/api/v1/audit-logs", "reception", http.StatusForbidden},
		{"unknown route", http.MethodGet, "/api/v1/nope", "admin", http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			if tc.token != "" {
				req.Header.Set("Authorization", "Bearer "+tc.token)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tc.status, w.Code)
		})
	}
}
