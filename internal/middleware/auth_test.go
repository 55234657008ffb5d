package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sisvisitas-api/internal/models"
	appErrors "github.com/noah-isme/sisvisitas-api/pkg/errors"
)

type stubValidator struct {
	claims *models.JWTClaims
}

func (s stubValidator) ValidateToken(token string) (*models.JWTClaims, error) {
	if token != "good" {
		return nil, appErrors.Wrap(errors.New("bad signature"), appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}
	return s.claims, nil
}

func groupRouter(claims *models.JWTClaims, groups ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(JWT(stubValidator{claims: claims}), RequireGroup(groups...))
	router.GET("/", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return router
}

func serve(router *gin.Engine, authorization string) int {
	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	router.ServeHTTP(recorder, req)
	return recorder.Code
}

func TestJWTRejectsMissingOrInvalidTokens(t *testing.T) {
	router := groupRouter(&models.JWTClaims{Groups: []string{models.GroupReception}}, models.GroupReception)

	if code := serve(router, ""); code != http.StatusUnauthorized {
		t.Fatalf("missing header: unexpected status %d", code)
	}
	if code := serve(router, "Token good"); code != http.StatusUnauthorized {
		t.Fatalf("wrong scheme: unexpected status %d", code)
	}
	if code := serve(router, "Bearer bad"); code != http.StatusUnauthorized {
		t.Fatalf("bad token: unexpected status %d", code)
	}
	if code := serve(router, "Bearer good"); code != http.StatusNoContent {
		t.Fatalf("good token: unexpected status %d", code)
	}
}

func TestRequireGroup(t *testing.T) {
	reception := &models.JWTClaims{UserID: "u1", Groups: []string{models.GroupReception}}
	superuser := &models.JWTClaims{UserID: "root", IsSuperuser: true}

	if code := serve(groupRouter(reception, models.GroupSupervisor, models.GroupAdmin), "Bearer good"); code != http.StatusForbidden {
		t.Fatalf("reception on supervisor route: unexpected status %d", code)
	}
	if code := serve(groupRouter(reception, models.GroupReception, models.GroupAdmin), "Bearer good"); code != http.StatusNoContent {
		t.Fatalf("reception on reception route: unexpected status %d", code)
	}
	if code := serve(groupRouter(superuser, models.GroupAdmin), "Bearer good"); code != http.StatusNoContent {
		t.Fatalf("superuser: unexpected status %d", code)
	}
}

func TestRequireGroupWithoutClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequireGroup(models.GroupAdmin))
	router.GET("/", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	if code := serve(router, ""); code != http.StatusUnauthorized {
		t.Fatalf("unexpected status %d", code)
	}
}
