package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/arnold/manifest-api/internal/database"
	"github.com/arnold/manifest-api/internal/middleware"
	"github.com/arnold/manifest-api/internal/models"
	"github.com/arnold/manifest-api/internal/routes"
	"github.com/arnold/manifest-api/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupApp wires the full route table against a throwaway SQLite database.
func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	database.DB = db
	require.NoError(t, database.Migrate())

	services.InitPush("")

	app := fiber.New()
	routes.Setup(app)
	return app
}

func createTestUser(t *testing.T, email string) (models.User, string) {
	t.Helper()

	user := models.User{Email: email, Name: "Test User"}
	require.NoError(t, database.DB.Create(&user).Error)

	token, err := middleware.GenerateToken(user.ID, user.Email)
	require.NoError(t, err)

	return user, token
}

func doJSON(t *testing.T, app *fiber.App, method, url, token string, body interface{}) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
}
