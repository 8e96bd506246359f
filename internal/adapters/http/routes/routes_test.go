package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"opspulse/internal/adapters/http/middleware"
	"opspulse/internal/adapters/persistence/models"
	"opspulse/internal/config"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testServer struct {
	app *fiber.App
	db  *gorm.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, models.AutoMigrate(db))

	cfg := &config.Config{
		AppMode: "dev",
		Port:    "0",
		JWT: config.JWTConfig{
			Secret:           "test-secret",
			AccessTokenHours: 1,
		},
		Export: config.ExportConfig{
			Dir:        t.TempDir(),
			PublicPath: "/downloads",
		},
	}
	config.AppConfig = cfg

	app := fiber.New(fiber.Config{ErrorHandler: middleware.CustomErrorHandler})
	Setup(app, db, cfg)

	return &testServer{app: app, db: db}
}

type apiResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func (s *testServer) request(t *testing.T, method, target, token string, body interface{}) (*http.Response, apiResponse) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)

	var parsed apiResponse
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &parsed)
	}
	return resp, parsed
}

func (s *testServer) register(t *testing.T, email string) string {
	t.Helper()
	resp, body := s.request(t, fiber.MethodPost, "/api/v1/auth/register", "", fiber.Map{
		"email":    email,
		"name":     "Test User",
		"password": "correct-horse",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}

// promote rewrites the stored role; the next request picks it up because
// authorization reads the stored principal, not the token.
func (s *testServer) promote(t *testing.T, email, role string) {
	t.Helper()
	require.NoError(t, s.db.Model(&models.User{}).
		Where("email = ?", email).
		Updates(map[string]interface{}{"role": role}).Error)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)

	resp, _ := s.request(t, fiber.MethodGet, "/api/v1/reports", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, _ = s.request(t, fiber.MethodGet, "/api/v1/auth/me", "garbage-token", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestReportingLifecycleAcrossRoles(t *testing.T) {
	s := newTestServer(t)
	token := s.register(t, "alice@bt.com")

	// 1. A fresh user can read but not write
	resp, _ := s.request(t, fiber.MethodGet, "/api/v1/reports", token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = s.request(t, fiber.MethodPost, "/api/v1/metrics", token, fiber.Map{
		"name": "Availability", "baseline": 90, "target": 95, "unit": "%",
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// 2. Promotion to dashboard admin unlocks the pipeline mid-session
	s.promote(t, "alice@bt.com", "SDadmin")

	resp, body := s.request(t, fiber.MethodPost, "/api/v1/metrics", token, fiber.Map{
		"name": "Availability", "baseline": 90, "target": 95, "unit": "%",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var metric models.MetricDefinition
	require.NoError(t, json.Unmarshal(body.Data, &metric))

	// 3. Commit a weekly report and check the derived status
	resp, body = s.request(t, fiber.MethodPost, "/api/v1/reports", token, fiber.Map{
		"fy": "FY25", "quarter": "Q1", "week_date": "05-04-2025",
		"metrics": []fiber.Map{{"metric_id": metric.ID, "value": 96.5}},
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var report models.WeeklyReport
	require.NoError(t, json.Unmarshal(body.Data, &report))
	require.Len(t, report.Metrics, 1)
	assert.Equal(t, models.StatusGreen, report.Metrics[0].Status)

	// 4. Same week twice is a conflict
	resp, _ = s.request(t, fiber.MethodPost, "/api/v1/reports", token, fiber.Map{
		"fy": "FY25", "quarter": "Q1", "week_date": "05-04-2025",
		"metrics": []fiber.Map{{"metric_id": metric.ID, "value": 96.5}},
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	// 5. Dashboard snapshot sees the committed week
	resp, body = s.request(t, fiber.MethodGet, "/api/v1/reports/dashboard", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var snapshot struct {
		WeekInfo struct {
			Date string `json:"date"`
		} `json:"week_info"`
		Summary struct {
			Green int `json:"green"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &snapshot))
	assert.Equal(t, "05-04-2025", snapshot.WeekInfo.Date)
	assert.Equal(t, 1, snapshot.Summary.Green)
}

func TestDraftAutosaveFlow(t *testing.T) {
	s := newTestServer(t)
	token := s.register(t, "alice@bt.com")
	s.promote(t, "alice@bt.com", "SDadmin")

	resp, body := s.request(t, fiber.MethodPost, "/api/v1/metrics", token, fiber.Map{
		"name": "Availability", "baseline": 90, "target": 95,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var metric models.MetricDefinition
	require.NoError(t, json.Unmarshal(body.Data, &metric))

	// Autosave twice, second wins
	draft := fiber.Map{
		"fy": "FY25", "quarter": "Q1", "week_date": "05-04-2025",
		"metrics": []fiber.Map{{"metric_id": metric.ID, "value": 80}},
	}
	resp, _ = s.request(t, fiber.MethodPut, "/api/v1/reports/draft", token, draft)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	draft["metrics"] = []fiber.Map{{"metric_id": metric.ID, "value": 96}}
	resp, _ = s.request(t, fiber.MethodPut, "/api/v1/reports/draft", token, draft)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, body = s.request(t, fiber.MethodGet,
		"/api/v1/reports/draft?fy=FY25&quarter=Q1&week_date=05-04-2025", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var stored models.ReportDraft
	require.NoError(t, json.Unmarshal(body.Data, &stored))
	assert.InDelta(t, 96, stored.Metrics[0].Value, 1e-9)

	// Committing the week supersedes the draft
	resp, _ = s.request(t, fiber.MethodPost, "/api/v1/reports", token, draft)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, body = s.request(t, fiber.MethodGet,
		"/api/v1/reports/draft?fy=FY25&quarter=Q1&week_date=05-04-2025", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, body.Data)
}

func TestUserManagementIsGlobalAdminOnly(t *testing.T) {
	s := newTestServer(t)
	token := s.register(t, "alice@bt.com")

	resp, _ := s.request(t, fiber.MethodGet, "/api/v1/users", token, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// Dashboard admin is not enough either
	s.promote(t, "alice@bt.com", "SDadmin")
	resp, _ = s.request(t, fiber.MethodGet, "/api/v1/users", token, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	s.promote(t, "alice@bt.com", "appadmin")
	resp, _ = s.request(t, fiber.MethodGet, "/api/v1/users", token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Role reassignment stays superadmin-only
	resp, _ = s.request(t, fiber.MethodPut, "/api/v1/users/1/roles", token, fiber.Map{"role": "SDadmin"})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	s.promote(t, "alice@bt.com", "superadmin")
	resp, _ = s.request(t, fiber.MethodPut, "/api/v1/users/1/roles", token, fiber.Map{"role": "SDadmin"})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRoleRequestFlow(t *testing.T) {
	s := newTestServer(t)
	userToken := s.register(t, "bob@bt.com")
	adminToken := s.register(t, "admin@bt.com")
	s.promote(t, "admin@bt.com", "appadmin")

	// Bob asks for SDadmin
	resp, body := s.request(t, fiber.MethodPost, "/api/v1/roles/requests", userToken, fiber.Map{
		"role": "SDadmin", "notes": "weekly reporting duty",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var req models.RoleRequest
	require.NoError(t, json.Unmarshal(body.Data, &req))

	// Duplicate pending request is rejected
	resp, _ = s.request(t, fiber.MethodPost, "/api/v1/roles/requests", userToken, fiber.Map{"role": "SDadmin"})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	// Bob cannot browse the review queue
	resp, _ = s.request(t, fiber.MethodGet, "/api/v1/roles/requests", userToken, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// But he can see his own requests
	resp, _ = s.request(t, fiber.MethodGet, "/api/v1/roles/requests/mine", userToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Admin approves; Bob can now commit reports
	resp, _ = s.request(t, fiber.MethodPatch,
		"/api/v1/roles/requests/"+itoa(req.ID), adminToken, fiber.Map{"decision": "approve"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = s.request(t, fiber.MethodPost, "/api/v1/metrics", userToken, fiber.Map{
		"name": "Availability", "baseline": 90, "target": 95,
	})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
