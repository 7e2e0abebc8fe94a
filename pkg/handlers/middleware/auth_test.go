package middleware

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/avantpro-core/pkg/handlers/exception"
	"github.com/rafabene/avantpro-core/pkg/infrastructure/i18n"
	"github.com/rafabene/avantpro-core/pkg/infrastructure/logging"
	"github.com/rafabene/avantpro-core/pkg/security"
)

func TestAuthenticate(t *testing.T) {
	gin.SetMode(gin.TestMode)

	parser, err := security.NewTokenParser("test-secret", "avantpro")
	if err != nil {
		t.Fatalf("falha ao criar parser: %v", err)
	}

	service, err := i18n.NewDefaultService("en")
	if err != nil {
		t.Fatalf("falha ao inicializar i18n: %v", err)
	}
	logger := logging.NewSlogLoggerWithWriter(io.Discard, "error", "json")
	exceptions := NewExceptionMiddleware(
		exception.NewGlobalExceptionHandler(i18n.NewMessageResolver(service), logger), nil)

	router := gin.New()
	router.Use(exceptions.Handle())
	blacklist := security.NewBlacklistStore(security.NewMemoryKV(), "")
	protected := router.Group("/", Authenticate(parser, blacklist))
	protected.GET("/me", func(c *gin.Context) {
		principal, _ := GetPrincipal(c)
		auditor := security.AuditorFromContext(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"id": principal.UserID(), "auditor": auditor.UserID()})
	})
	protected.DELETE("/users/:id", RequirePermission(security.PermissionUserDelete), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	adminToken, _ := parser.Issue(security.Principal{ID: "1", Roles: []security.Role{security.RoleAdmin}}, time.Hour)
	userToken, _ := parser.Issue(security.Principal{ID: "2", Roles: []security.Role{security.RoleUser}}, time.Hour)
	revokedToken, _ := parser.Issue(security.Principal{ID: "2", Roles: []security.Role{security.RoleUser}}, time.Hour)
	revoked, _ := parser.Parse(revokedToken)
	if err := blacklist.Revoke(context.Background(), revoked.TokenID, revoked.ExpiresAt); err != nil {
		t.Fatalf("falha ao revogar: %v", err)
	}

	tests := []struct {
		name           string
		method         string
		target         string
		authorization  string
		expectedStatus int
		expectedCode   string
	}{
		{name: "sem token", method: "GET", target: "/me", expectedStatus: http.StatusUnauthorized, expectedCode: "COMMON_411"},
		{name: "token inválido", method: "GET", target: "/me", authorization: "Bearer garbage", expectedStatus: http.StatusUnauthorized, expectedCode: "COMMON_411"},
		{name: "esquema diferente de bearer", method: "GET", target: "/me", authorization: "Basic dXNlcjpwYXNz", expectedStatus: http.StatusUnauthorized, expectedCode: "COMMON_411"},
		{name: "token revogado", method: "GET", target: "/me", authorization: "Bearer " + revokedToken, expectedStatus: http.StatusUnauthorized, expectedCode: "COMMON_411"},
		{name: "token válido", method: "GET", target: "/me", authorization: "Bearer " + userToken, expectedStatus: http.StatusOK},
		{name: "sem permissão", method: "DELETE", target: "/users/3", authorization: "Bearer " + userToken, expectedStatus: http.StatusForbidden, expectedCode: "COMMON_412"},
		{name: "admin com permissão", method: "DELETE", target: "/users/3", authorization: "Bearer " + adminToken, expectedStatus: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, nil)
			if tt.authorization != "" {
				req.Header.Set("Authorization", tt.authorization)
			}
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Fatalf("esperava status %d, obteve %d (%s)", tt.expectedStatus, w.Code, w.Body.String())
			}
			if tt.expectedCode != "" {
				if body := decodeEnvelope(t, w); body.Code != tt.expectedCode {
					t.Errorf("esperava código '%s', obteve '%s'", tt.expectedCode, body.Code)
				}
			}
		})
	}

	t.Run("principal disponível no context.Context", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set("Authorization", "Bearer "+adminToken)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		expected := `{"auditor":"1","id":"1"}`
		if w.Body.String() != expected {
			t.Errorf("esperava '%s', obteve '%s'", expected, w.Body.String())
		}
	})
}

type failingBlacklist struct{}

func (failingBlacklist) Revoke(context.Context, string, time.Time) error { return nil }
func (failingBlacklist) IsRevoked(context.Context, string) (bool, error) {
	return false, stderrors.New("redis: connection refused")
}

func TestAuthenticate_FalhaNoBlacklist(t *testing.T) {
	gin.SetMode(gin.TestMode)

	parser, _ := security.NewTokenParser("test-secret", "avantpro")
	service, err := i18n.NewDefaultService("en")
	if err != nil {
		t.Fatalf("falha ao inicializar i18n: %v", err)
	}
	logger := logging.NewSlogLoggerWithWriter(io.Discard, "error", "json")
	exceptions := NewExceptionMiddleware(
		exception.NewGlobalExceptionHandler(i18n.NewMessageResolver(service), logger), nil)

	router := gin.New()
	router.Use(exceptions.Handle())
	router.GET("/me", Authenticate(parser, failingBlacklist{}), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	token, _ := parser.Issue(security.Principal{ID: "1", Roles: []security.Role{security.RoleUser}}, time.Hour)
	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("esperava status 500, obteve %d", w.Code)
	}
	body := decodeEnvelope(t, w)
	if body.Code != "COMMON_500" || strings.Contains(body.Message, "redis") {
		t.Errorf("resposta inesperada: %+v", body)
	}
}
