package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"qr-table-service/internal/auth"
	"qr-table-service/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRouter(tokens *auth.TokenManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/staff", RequireAuth(tokens), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": CurrentSession(c).UserID})
	})
	r.GET("/admin", RequireAuth(tokens), RequireRole(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func issueToken(t *testing.T, tokens *auth.TokenManager, role models.Role) string {
	t.Helper()
	token, err := tokens.Issue(auth.Session{
		UserID:       "u-1",
		Username:     "budi",
		Role:         role,
		RestaurantID: "r-1",
	})
	require.NoError(t, err)
	return token
}

func TestRequireAuthRejectsMissingToken(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	router := testRouter(tokens)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/staff", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthAcceptsCookie(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	router := testRouter(tokens)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/staff", nil)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: issueToken(t, tokens, models.RoleWaiter)})
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "u-1")
}

func TestRequireAuthAcceptsBearerHeader(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	router := testRouter(tokens)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/staff", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, tokens, models.RoleWaiter))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAuthRejectsForeignToken(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	other := auth.NewTokenManager("other-secret", time.Hour)
	router := testRouter(tokens)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/staff", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, other, models.RoleWaiter))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	router := testRouter(tokens)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, tokens, models.RoleWaiter))
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, tokens, models.RoleAdmin))
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTenantResolutionFromQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/public", func(c *gin.Context) {
		id, ok := requireTenant(c)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"restaurant_id": id})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/public?restaurant_id=r-9", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "r-9")

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/public", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
