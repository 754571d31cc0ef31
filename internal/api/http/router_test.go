package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/department-service/internal/api/http/handlers"
	"github.com/spec-kit/department-service/internal/auth"
	"github.com/spec-kit/department-service/internal/events"
	"github.com/spec-kit/department-service/internal/observability"
	"github.com/spec-kit/department-service/internal/repository"
	"github.com/spec-kit/department-service/internal/service"
)

type stubPinger struct {
	enabled bool
	err     error
}

func (p stubPinger) Enabled() bool                { return p.enabled }
func (p stubPinger) Ping(_ context.Context) error { return p.err }

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

type departmentBody struct {
	ID                    int64  `json:"id"`
	DepartmentName        string `json:"departmentName"`
	DepartmentDescription string `json:"departmentDescription"`
}

type testApp struct {
	app     *fiber.App
	metrics *observability.Metrics
}

func newTestApp(t *testing.T, authMiddleware *auth.AuthMiddleware, deps map[string]handlers.Pinger) *testApp {
	t.Helper()
	logger := zap.NewNop()
	metrics := observability.NewMetrics()

	departmentService := service.NewDepartmentService(service.DepartmentDependencies{
		Transactor: repository.NewMemoryStore(),
		Dispatcher: events.NewInMemoryDispatcher(),
		Logger:     logger,
	})

	app := fiber.New()
	RegisterMiddlewares(app, logger, metrics, 5*time.Second)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("department-service", "test", deps),
		Departments:    handlers.NewDepartmentHandler(departmentService),
		Metrics:        metrics,
		AuthMiddleware: authMiddleware,
	})
	return &testApp{app: app, metrics: metrics}
}

func (a *testApp) do(t *testing.T, method, path, body string, headers map[string]string) (int, envelope, *httptest.ResponseRecorder) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	for k, v := range resp.Header {
		rec.Header()[k] = v
	}
	_, _ = rec.Body.Write(raw)

	var env envelope
	if strings.HasPrefix(resp.Header.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(raw, &env))
	}
	return resp.StatusCode, env, rec
}

func decodeDepartment(t *testing.T, env envelope) departmentBody {
	t.Helper()
	var out departmentBody
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func TestDepartmentRoutes_Lifecycle(t *testing.T) {
	a := newTestApp(t, nil, nil)

	status, env, _ := a.do(t, fiber.MethodGet, "/api/departments", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `[]`, string(env.Data))

	status, env, _ = a.do(t, fiber.MethodPost, "/api/departments",
		`{"id":99,"departmentName":"Engineering","departmentDescription":"Builds things"}`, nil)
	require.Equal(t, fiber.StatusCreated, status)
	created := decodeDepartment(t, env)
	assert.Equal(t, departmentBody{ID: 1, DepartmentName: "Engineering", DepartmentDescription: "Builds things"}, created)

	status, env, _ = a.do(t, fiber.MethodGet, "/api/departments/1", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, created, decodeDepartment(t, env))

	status, env, _ = a.do(t, fiber.MethodPut, "/api/departments/1",
		`{"departmentName":"Platform","departmentDescription":"Runs things"}`, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, departmentBody{ID: 1, DepartmentName: "Platform", DepartmentDescription: "Runs things"}, decodeDepartment(t, env))

	status, env, _ = a.do(t, fiber.MethodGet, "/api/departments", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `[{"id":1,"departmentName":"Platform","departmentDescription":"Runs things"}]`, string(env.Data))

	status, env, _ = a.do(t, fiber.MethodDelete, "/api/departments/1", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{"message":"Department deleted successfully!"}`, string(env.Data))

	status, env, _ = a.do(t, fiber.MethodDelete, "/api/departments/1", "", nil)
	require.Equal(t, fiber.StatusNotFound, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "Department is not exists with a given id: 1", env.Error.Message)
}

func TestDepartmentRoutes_NotFound(t *testing.T) {
	a := newTestApp(t, nil, nil)

	for _, method := range []string{fiber.MethodGet, fiber.MethodPut, fiber.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			body := ""
			if method == fiber.MethodPut {
				body = `{"departmentName":"x"}`
			}
			status, env, _ := a.do(t, method, "/api/departments/42", body, nil)

			assert.Equal(t, fiber.StatusNotFound, status)
			require.NotNil(t, env.Error)
			assert.Equal(t, "NOT_FOUND", env.Error.Code)
			assert.Equal(t, "Department is not exists with a given id: 42", env.Error.Message)
			assert.EqualValues(t, 42, env.Error.Details["id"])
		})
	}
}

func TestDepartmentRoutes_BadRequests(t *testing.T) {
	a := newTestApp(t, nil, nil)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{name: "non numeric id", method: fiber.MethodGet, path: "/api/departments/abc"},
		{name: "zero id", method: fiber.MethodDelete, path: "/api/departments/0"},
		{name: "negative id", method: fiber.MethodPut, path: "/api/departments/-3", body: `{}`},
		{name: "malformed create body", method: fiber.MethodPost, path: "/api/departments", body: `{"departmentName":`},
		{name: "malformed update body", method: fiber.MethodPut, path: "/api/departments/1", body: `[1,2`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env, _ := a.do(t, tt.method, tt.path, tt.body, nil)

			assert.Equal(t, fiber.StatusBadRequest, status)
			require.NotNil(t, env.Error)
			assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)
		})
	}
}

func TestUnknownRouteRendersErrorEnvelope(t *testing.T) {
	a := newTestApp(t, nil, nil)

	status, env, _ := a.do(t, fiber.MethodGet, "/api/nothing-here", "", nil)

	assert.Equal(t, fiber.StatusNotFound, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestRequestIDIsEchoed(t *testing.T) {
	a := newTestApp(t, nil, nil)

	_, _, rec := a.do(t, fiber.MethodGet, "/health/live", "", map[string]string{observability.RequestIDHeader: "req-123"})
	assert.Equal(t, "req-123", rec.Header().Get(observability.RequestIDHeader))

	_, _, rec = a.do(t, fiber.MethodGet, "/health/live", "", nil)
	assert.NotEmpty(t, rec.Header().Get(observability.RequestIDHeader))
}

func TestMetricsEndpoint(t *testing.T) {
	a := newTestApp(t, nil, nil)

	a.do(t, fiber.MethodGet, "/api/departments/7", "", nil)
	status, _, rec := a.do(t, fiber.MethodGet, "/metrics", "", nil)

	require.Equal(t, fiber.StatusOK, status)
	body := rec.Body.String()
	assert.Contains(t, body, `http_requests_total{method="GET",path="/api/departments/:id",status="404"} 1`)
	assert.Contains(t, body, `http_request_errors_total{code="NOT_FOUND",method="GET",path="/api/departments/:id"} 1`)
}

func TestHealthRoutes(t *testing.T) {
	t.Run("disabled dependencies are skipped", func(t *testing.T) {
		a := newTestApp(t, nil, map[string]handlers.Pinger{"postgres": stubPinger{}, "redis": stubPinger{}})

		status, env, rec := a.do(t, fiber.MethodGet, "/health/ready", "", nil)

		assert.Equal(t, fiber.StatusOK, status)
		assert.Nil(t, env.Error)
		assert.JSONEq(t, `{"status":"ready","dependencies":{"postgres":"disabled","redis":"disabled"}}`, rec.Body.String())
	})

	t.Run("failing dependency", func(t *testing.T) {
		a := newTestApp(t, nil, map[string]handlers.Pinger{
			"postgres": stubPinger{enabled: true},
			"redis":    stubPinger{enabled: true, err: errors.New("dial tcp: refused")},
		})

		status, env, _ := a.do(t, fiber.MethodGet, "/health/ready", "", nil)

		assert.Equal(t, fiber.StatusServiceUnavailable, status)
		require.NotNil(t, env.Error)
		assert.Equal(t, "DEPENDENCY_UNAVAILABLE", env.Error.Code)
		assert.Equal(t, "ok", env.Error.Details["postgres"])
		assert.Equal(t, "dial tcp: refused", env.Error.Details["redis"])
	})

	t.Run("live", func(t *testing.T) {
		a := newTestApp(t, nil, nil)

		_, _, rec := a.do(t, fiber.MethodGet, "/health/live", "", nil)

		assert.JSONEq(t, `{"status":"alive","service":"department-service","version":"test"}`, rec.Body.String())
	})
}

func TestDepartmentRoutes_Auth(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", 5)
	a := newTestApp(t, auth.NewAuthMiddleware(tokens), nil)

	bearer := func(role auth.Role) map[string]string {
		token, _, err := tokens.GenerateToken("tester", role)
		require.NoError(t, err)
		return map[string]string{fiber.HeaderAuthorization: "Bearer " + token}
	}
	const body = `{"departmentName":"Security"}`

	status, env, _ := a.do(t, fiber.MethodGet, "/api/departments", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)

	status, _, _ = a.do(t, fiber.MethodGet, "/api/departments", "", map[string]string{fiber.HeaderAuthorization: "Bearer garbage"})
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _, _ = a.do(t, fiber.MethodGet, "/api/departments", "", bearer(auth.RoleViewer))
	assert.Equal(t, fiber.StatusOK, status)

	status, env, _ = a.do(t, fiber.MethodPost, "/api/departments", body, bearer(auth.RoleViewer))
	assert.Equal(t, fiber.StatusForbidden, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)

	status, _, _ = a.do(t, fiber.MethodPost, "/api/departments", body, bearer(auth.RoleEditor))
	assert.Equal(t, fiber.StatusCreated, status)

	status, _, _ = a.do(t, fiber.MethodDelete, "/api/departments/1", "", bearer(auth.RoleAdmin))
	assert.Equal(t, fiber.StatusOK, status)

	status, _, _ = a.do(t, fiber.MethodGet, "/health/live", "", nil)
	assert.Equal(t, fiber.StatusOK, status)
}
