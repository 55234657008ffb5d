package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sisvisitas-api/internal/models"
	"github.com/noah-isme/sisvisitas-api/internal/service"
)

type captureRecorder struct {
	events []service.AuditEvent
}

func (r *captureRecorder) Record(ctx context.Context, event service.AuditEvent) {
	r.events = append(r.events, event)
}

func reportRouter(recorder *captureRecorder, status int, contentType string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(ContextUserKey, &models.JWTClaims{UserID: "sup-1"})
		c.Next()
	})
	router.GET("/reports/visits", AuditReportDownload(recorder), func(c *gin.Context) {
		c.Data(status, contentType, []byte("body"))
	})
	return router
}

func TestAuditReportDownloadRecordsSuccessfulPDF(t *testing.T) {
	recorder := &captureRecorder{}
	router := reportRouter(recorder, http.StatusOK, "application/pdf")

	req := httptest.NewRequest(http.MethodGet, "/reports/visits?from=2024-05-01&download=1", nil)
	router.ServeHTTP(httptest.NewRecorder(), req)

	if len(recorder.events) != 1 {
		t.Fatalf("expected one audit event, got %d", len(recorder.events))
	}
	event := recorder.events[0]
	if event.Action != models.AuditActionReportDownload || event.Entity != models.AuditEntityReport || event.EntityID != "visits" {
		t.Fatalf("unexpected event: %+v", event)
	}
	if event.ActorID != "sup-1" {
		t.Fatalf("unexpected actor: %s", event.ActorID)
	}
	payload := event.Payload.(map[string]interface{})
	query := payload["query"].(map[string]string)
	if query["from"] != "2024-05-01" {
		t.Fatalf("unexpected query payload: %+v", query)
	}
}

func TestAuditReportDownloadSkipsOtherResponses(t *testing.T) {
	recorder := &captureRecorder{}

	reportRouter(recorder, http.StatusOK, "text/csv").ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/reports/visits?format=csv", nil))
	reportRouter(recorder, http.StatusBadRequest, "application/pdf").ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/reports/visits", nil))

	if len(recorder.events) != 0 {
		t.Fatalf("expected no audit events, got %d", len(recorder.events))
	}
}
