package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/NoelOsiro/tuma-task-api/internal/config"
	"github.com/NoelOsiro/tuma-task-api/internal/domain"
	"github.com/NoelOsiro/tuma-task-api/internal/infrastructure/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	testJWTSecret = "test-jwt-secret"
	testUserID    = "22222222-2222-2222-2222-222222222222"
)

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.Task{}, &domain.Profile{}))

	cfg := &config.Config{
		Server: config.ServerConfig{Host: "localhost", Port: 8080},
		Auth:   config.AuthConfig{JWTSecret: testJWTSecret},
		Storage: config.StorageConfig{
			RootDir:       t.TempDir(),
			SigningSecret: "test-signing-secret",
			UploadTTL:     time.Hour,
			RefreshTTL:    5 * time.Minute,
		},
	}

	app := fiber.New()
	require.NoError(t, SetupRoutes(app, RouterConfig{
		DB:     conn,
		Logger: logger.NewNop(),
		Config: cfg,
	}))
	return app, conn
}

func mintToken(t *testing.T, subject string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": subject,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return signed
}

func doJSON(t *testing.T, app *fiber.App, method, target string, body interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeEnvelope(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	require.NoError(t, json.Unmarshal(env.Data, out))
}

func createTask(t *testing.T, app *fiber.App, title string) domain.Task {
	t.Helper()
	resp := doJSON(t, app, fiber.MethodPost, "/api/tasks/create", fiber.Map{"title": title})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var created []domain.Task
	decodeEnvelope(t, resp, &created)
	require.Len(t, created, 1)
	return created[0]
}

func TestCreateTaskEndpoint(t *testing.T) {
	app, _ := newTestApp(t)

	task := createTask(t, app, "Paint the fence")
	assert.NotEmpty(t, task.ID)
	assert.Equal(t, "Paint the fence", task.Title)
	assert.Equal(t, domain.TaskStatusOpen, task.Status)
}

func TestCreateTaskValidation(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doJSON(t, app, fiber.MethodPost, "/api/tasks/create", fiber.Map{"title": "  "})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, fiber.MethodPost, "/api/tasks/create", fiber.Map{
		"title":  "Paid task",
		"reward": -10,
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestListTasksEnvelope(t *testing.T) {
	app, _ := newTestApp(t)
	createTask(t, app, "first")
	createTask(t, app, "second")

	resp := doJSON(t, app, fiber.MethodGet, "/api/tasks/", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var tasks []domain.Task
	decodeEnvelope(t, resp, &tasks)
	assert.Len(t, tasks, 2)
}

func TestGetTaskNotFoundEndpoint(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doJSON(t, app, fiber.MethodGet, "/api/tasks/00000000-0000-0000-0000-000000000404", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestUpdateTaskEndpoint(t *testing.T) {
	app, _ := newTestApp(t)
	task := createTask(t, app, "old title")

	resp := doJSON(t, app, fiber.MethodPut, "/api/tasks/update", fiber.Map{
		"id":     task.ID,
		"status": "assigned",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var updated []domain.Task
	decodeEnvelope(t, resp, &updated)
	require.Len(t, updated, 1)
	assert.Equal(t, domain.TaskStatusAssigned, updated[0].Status)
	assert.Equal(t, "old title", updated[0].Title)
}

func TestUpdateTaskRequiresID(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doJSON(t, app, fiber.MethodPut, "/api/tasks/update", fiber.Map{"status": "assigned"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestDeleteTaskEndpoint(t *testing.T) {
	app, _ := newTestApp(t)
	task := createTask(t, app, "doomed")

	resp := doJSON(t, app, fiber.MethodDelete, "/api/tasks/?id="+task.ID, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var deleted []domain.Task
	decodeEnvelope(t, resp, &deleted)
	require.Len(t, deleted, 1)
	assert.Equal(t, task.ID, deleted[0].ID)

	resp = doJSON(t, app, fiber.MethodDelete, "/api/tasks/?id="+task.ID, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestSearchTasksEndpoint(t *testing.T) {
	app, _ := newTestApp(t)
	createTask(t, app, "Fix leaking tap")
	createTask(t, app, "Walk the dog")

	resp := doJSON(t, app, fiber.MethodPost, "/api/tasks/search", fiber.Map{"q": "leaking"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var results []domain.Task
	decodeEnvelope(t, resp, &results)
	require.Len(t, results, 1)
	assert.Equal(t, "Fix leaking tap", results[0].Title)
}

func TestProfileRoutesRequireToken(t *testing.T) {
	app, _ := newTestApp(t)

	req := httptest.NewRequest(fiber.MethodPatch, "/api/profile/onboarding", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	req = httptest.NewRequest(fiber.MethodPatch, "/api/profile/onboarding", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestOnboardingEndpoint(t *testing.T) {
	app, conn := newTestApp(t)
	require.NoError(t, conn.Create(&domain.Profile{ID: testUserID}).Error)

	body, err := json.Marshal(fiber.Map{
		"full_name": "Amina Odhiambo",
		"phone":     "+254700000000",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(fiber.MethodPatch, "/api/profile/onboarding", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+mintToken(t, testUserID))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var profile domain.Profile
	decodeEnvelope(t, resp, &profile)
	assert.True(t, profile.Onboarding, "omitted onboarding flag defaults to true")
	assert.Equal(t, "Amina Odhiambo", profile.FullName)
	assert.Equal(t, "+254700000000", profile.Phone)
}

func TestAvatarUploadAndSignedDownload(t *testing.T) {
	app, conn := newTestApp(t)
	require.NoError(t, conn.Create(&domain.Profile{ID: testUserID}).Error)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("avatar", "me.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(fiber.MethodPost, "/api/profile/avatar", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+mintToken(t, testUserID))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var upload struct {
		SignedURL string `json:"signedUrl"`
		Path      string `json:"path"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&upload))
	resp.Body.Close()

	assert.True(t, strings.HasPrefix(upload.Path, testUserID+"/"), "got %q", upload.Path)
	require.NotEmpty(t, upload.SignedURL)

	// The signed URL is absolute; replay just its path+query against the app.
	target := upload.SignedURL[strings.Index(upload.SignedURL, "/storage/"):]
	req = httptest.NewRequest(fiber.MethodGet, target, nil)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "png-bytes", string(data))

	// A tampered token is turned away.
	req = httptest.NewRequest(fiber.MethodGet, target+"ff", nil)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// So is the same token replayed against a different bucket segment.
	foreign := strings.Replace(target, "/storage/avatars/", "/storage/other/", 1)
	req = httptest.NewRequest(fiber.MethodGet, foreign, nil)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestAvatarURLEndpoint(t *testing.T) {
	app, conn := newTestApp(t)
	require.NoError(t, conn.Create(&domain.Profile{
		ID:         testUserID,
		AvatarPath: fmt.Sprintf("%s/123_me.png", testUserID),
	}).Error)

	req := httptest.NewRequest(fiber.MethodGet, "/api/profile/avatar-url?ttl=120", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, testUserID))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var signed struct {
		SignedURL string `json:"signedUrl"`
		ExpiresIn int    `json:"expiresIn"`
	}
	decodeEnvelope(t, resp, &signed)
	assert.Equal(t, 120, signed.ExpiresIn)
	assert.Contains(t, signed.SignedURL, "expires=")
	assert.Contains(t, signed.SignedURL, "token=")
}

func TestAvatarURLWithoutAvatarAnswersNull(t *testing.T) {
	app, conn := newTestApp(t)
	require.NoError(t, conn.Create(&domain.Profile{ID: testUserID}).Error)

	req := httptest.NewRequest(fiber.MethodGet, "/api/profile/avatar-url", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, testUserID))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	defer resp.Body.Close()
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	assert.Equal(t, "null", strings.TrimSpace(string(env.Data)))
}
