package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/horario-admin-api/internal/models"
	"github.com/noah-isme/horario-admin-api/internal/service"
	appErrors "github.com/noah-isme/horario-admin-api/pkg/errors"
)

type tokenValidatorStub struct {
	claims *models.JWTClaims
}

func (s tokenValidatorStub) ValidateToken(token string) (*models.JWTClaims, error) {
	if token != "good" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
	}
	return s.claims, nil
}

func newProtectedRouter(role models.UserRole, allowed ...models.UserRole) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", JWT(tokenValidatorStub{claims: &models.JWTClaims{UserID: "u-1", Role: role}}), RequireRoles(allowed...), func(c *gin.Context) {
		claims, _ := Claims(c)
		c.String(http.StatusOK, claims.UserID)
	})
	return r
}

func TestJWTAndRoles(t *testing.T) {
	cases := []struct {
		name   string
		header string
		role   models.UserRole
		status int
	}{
		{"missing header", "", models.RoleAdmin, http.StatusUnauthorized},
		{"wrong scheme", "Basic good", models.RoleAdmin, http.StatusUnauthorized},
		{"bad token", "Bearer nope", models.RoleAdmin, http.StatusUnauthorized},
		{"forbidden role", "Bearer good", models.RoleTeacher, http.StatusForbidden},
		{"allowed", "bearer good", models.RoleCoordinator, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newProtectedRouter(tc.role, models.RoleAdmin, models.RoleCoordinator)
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.status, w.Code)
		})
	}
}

func TestRequireRolesWithoutClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", RequireRoles(models.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMetricsMiddlewareLabelsRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := service.NewMetricsService()
	r := gin.New()
	r.Use(Metrics(metrics, "/health"))
	r.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items/42", nil))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	families, err := metrics.Registry().Gather()
	assert.NoError(t, err)
	var labels []string
	for _, mf := range families {
		if mf.GetName() != "http_requests_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "path" {
					labels = append(labels, lp.GetValue())
				}
			}
		}
	}
	assert.ElementsMatch(t, []string{"/items/:id", "unmatched"}, labels)
	count, err := testutil.GatherAndCount(metrics.Registry(), "http_requests_total")
	assert.NoError(t, err)
	assert.Equal(t, 2, count)
}
