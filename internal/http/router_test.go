package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fleetmove/internal/auth"
	intconfig "fleetmove/internal/config"
	"fleetmove/internal/domain/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func testDeps() Deps {
	return Deps{
		Env:    intconfig.Env{CORSAllowedOrigins: []string{"http://localhost:3000"}},
		Loc:    time.UTC,
		Tokens: auth.NewTokens("test-secret", time.Hour),
	}
}

func TestHealthAndNoRoute(t *testing.T) {
	r := NewRouter(testDeps())

	w := serve(r, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(r, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "request_id")
}

func TestMoveRoutesRequireToken(t *testing.T) {
	d := testDeps()
	r := NewRouter(d)

	w := serve(r, http.MethodGet, "/api/move/transport-requests", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	driverToken, err := d.Tokens.Issue(9, models.RoleDriver, 3)
	require.NoError(t, err)
	w = serve(r, http.MethodGet, "/api/move/transport-requests", driverToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAPIOffLeavesOnlyFallback(t *testing.T) {
	d := testDeps()
	d.APIOff = true
	r := NewRouter(d)

	w := serve(r, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NotContains(t, routeSummary(r), "/api/")
}

func TestRouteSummaryListsMoveRoutes(t *testing.T) {
	s := routeSummary(NewRouter(testDeps()))
	assert.Contains(t, s, "PATCH /api/move/transport-requests/:id")
	assert.Contains(t, s, "GET /api/move/drivers/:id/board")
	assert.Contains(t, s, "POST /api/auth/login")
	assert.Contains(t, s, "DELETE /api/move/vehicles/:id")
}

func TestVehicleRoutesAreOfficeOnly(t *testing.T) {
	d := testDeps()
	r := NewRouter(d)

	driverToken, err := d.Tokens.Issue(9, models.RoleDriver, 3)
	require.NoError(t, err)
	w := serve(r, http.MethodGet, "/api/move/vehicles", driverToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
