package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sisvisitas-api/internal/models"
	"github.com/noah-isme/sisvisitas-api/internal/service"
)

// AuditRecorder is the slice of the audit service the middleware needs.
type AuditRecorder interface {
	Record(ctx context.Context, event service.AuditEvent)
}

// AuditDocumentDownload records an audit entry after a successful PDF response.
func AuditDocumentDownload(recorder AuditRecorder, action, entity, entityID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Status() != http.StatusOK {
			return
		}
		if !strings.Contains(strings.ToLower(c.Writer.Header().Get("Content-Type")), "application/pdf") {
			return
		}

		var actorID string
		if claims := Claims(c); claims != nil {
			actorID = claims.UserID
		}

		query := make(map[string]string, len(c.Request.URL.Query()))
		for key, values := range c.Request.URL.Query() {
			if len(values) > 0 {
				query[key] = values[0]
			}
		}

		recorder.Record(c.Request.Context(), service.AuditEvent{
			ActorID:  actorID,
			Action:   action,
			Entity:   entity,
			EntityID: entityID,
			Payload:  map[string]interface{}{"query": query},
			IP:       c.ClientIP(),
		})
	}
}

// AuditReportDownload audits visit report PDFs.
func AuditReportDownload(recorder AuditRecorder) gin.HandlerFunc {
	return AuditDocumentDownload(recorder, models.AuditActionReportDownload, models.AuditEntityReport, "visits")
}
