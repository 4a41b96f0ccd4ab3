package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/TheNoah-BaseApps/legal-application-legal-8203ea17/config"
	"github.com/TheNoah-BaseApps/legal-application-legal-8203ea17/db"
	"github.com/TheNoah-BaseApps/legal-application-legal-8203ea17/models"
	"github.com/TheNoah-BaseApps/legal-application-legal-8203ea17/services"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testSecret = "middleware-test-secret-0123456789"

func setupMiddlewareTest(t *testing.T) *gorm.DB {
	dbName := "mem_" + uuid.New().String()
	testDB, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared&_busy_timeout=5000"), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, testDB.AutoMigrate(&models.User{}))
	db.DB = testDB
	return testDB
}

func newAuthContext(t *testing.T, token string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/cases", nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(ContextKeyConfig, &config.Config{Environment: "test", JWTSecret: testSecret})
	return c, rec
}

func TestRequireAuth(t *testing.T) {
	database := setupMiddlewareTest(t)

	user := &models.User{
		Name:     "Auth User",
		Email:    "auth@example.com",
		Password: "hashed",
		Role:     models.RoleStaff,
	}
	assert.NoError(t, database.Create(user).Error)

	handler := RequireAuth()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	t.Run("Valid token loads the user", func(t *testing.T) {
		token, err := services.GenerateToken(user, testSecret)
		assert.NoError(t, err)

		c, rec := newAuthContext(t, token)
		assert.NoError(t, handler(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		current := GetCurrentUser(c)
		assert.NotNil(t, current)
		assert.Equal(t, user.ID, current.ID)
	})

	t.Run("Missing token rejected", func(t *testing.T) {
		c, _ := newAuthContext(t, "")
		err := handler(c)
		assert.Error(t, err)
		assert.Equal(t, http.StatusUnauthorized, err.(*echo.HTTPError).Code)
	})

	t.Run("Garbage token rejected", func(t *testing.T) {
		c, _ := newAuthContext(t, "not-a-token")
		err := handler(c)
		assert.Error(t, err)
		assert.Equal(t, http.StatusUnauthorized, err.(*echo.HTTPError).Code)
	})

	t.Run("Token for a deleted user rejected", func(t *testing.T) {
		ghost := &models.User{
			Name:     "Ghost",
			Email:    "ghost@example.com",
			Password: "hashed",
			Role:     models.RoleStaff,
		}
		assert.NoError(t, database.Create(ghost).Error)
		token, err := services.GenerateToken(ghost, testSecret)
		assert.NoError(t, err)
		assert.NoError(t, database.Delete(ghost).Error)

		c, _ := newAuthContext(t, token)
		err = handler(c)
		assert.Error(t, err)
		assert.Equal(t, http.StatusUnauthorized, err.(*echo.HTTPError).Code)
	})
}

func TestRequireRole(t *testing.T) {
	handler := RequireRole(models.RoleAdmin)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	t.Run("Matching role passes", func(t *testing.T) {
		c, rec := newAuthContext(t, "")
		c.Set(ContextKeyUser, &models.User{ID: "u1", Role: models.RoleAdmin})

		assert.NoError(t, handler(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Other role forbidden", func(t *testing.T) {
		c, _ := newAuthContext(t, "")
		c.Set(ContextKeyUser, &models.User{ID: "u2", Role: models.RoleViewer})

		err := handler(c)
		assert.Error(t, err)
		assert.Equal(t, http.StatusForbidden, err.(*echo.HTTPError).Code)
	})

	t.Run("No user unauthorized", func(t *testing.T) {
		c, _ := newAuthContext(t, "")
		err := handler(c)
		assert.Error(t, err)
		assert.Equal(t, http.StatusUnauthorized, err.(*echo.HTTPError).Code)
	})
}
