package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"tally/cache"
	"tally/config"
	"tally/database"
	"tally/handlers"
	"tally/middleware"
	"tally/models"
	"tally/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// setupApp wires the full route table against a fresh in-memory database.
// Each test gets its own named shared-cache DB so tests stay isolated.
func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	database.DB = db
	cache.Client = nil

	cfg := &config.Config{
		JWTSecret:          "test-secret-key",
		TokenExpireMinutes: 60,
	}
	handlers.InitAuthHandlers(cfg)
	middleware.InitMiddleware(cfg)

	app := fiber.New()
	routes.Setup(app)

	t.Cleanup(func() {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			_ = sqlDB.Close()
		}
	})

	return app
}

func request(t *testing.T, app *fiber.App, method, path string, body interface{}, token string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func loginRequest(t *testing.T, app *fiber.App, email, password string) *http.Response {
	t.Helper()

	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dest interface{}) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

const testPassword = "password123"

func createTestUser(t *testing.T, app *fiber.App, email string) models.User {
	t.Helper()

	resp := request(t, app, http.MethodPost, "/users",
		map[string]interface{}{"email": email, "password": testPassword}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var user models.User
	decodeBody(t, resp, &user)
	return user
}

func authToken(t *testing.T, userID uint) string {
	t.Helper()

	token, err := handlers.GenerateToken(userID)
	require.NoError(t, err)
	return token
}

func createTestPost(t *testing.T, app *fiber.App, token, title, content string) models.Post {
	t.Helper()

	resp := request(t, app, http.MethodPost, "/posts",
		map[string]interface{}{"title": title, "content": content}, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var post models.Post
	decodeBody(t, resp, &post)
	return post
}

// voteCount reads a post's current vote count through the API.
func voteCount(t *testing.T, app *fiber.App, token string, postID uint) int64 {
	t.Helper()

	resp := request(t, app, http.MethodGet, fmt.Sprintf("/posts/%d", postID), nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var post models.PostWithVotes
	decodeBody(t, resp, &post)
	return post.Votes
}
