package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/yieldbook/internal/authorization"
	"github.com/smallbiznis/yieldbook/internal/clock"
	"github.com/smallbiznis/yieldbook/internal/config"
	earningsdomain "github.com/smallbiznis/yieldbook/internal/earnings/domain"
	"github.com/smallbiznis/yieldbook/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type mockEarningsService struct {
	mock.Mock
}

func (m *mockEarningsService) ListEarnings(ctx context.Context, req earningsdomain.ListEarningsRequest) (earningsdomain.ListEarningsResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(earningsdomain.ListEarningsResponse), args.Error(1)
}

func (m *mockEarningsService) GetStats(ctx context.Context, role earningsdomain.Role) (earningsdomain.Stats, error) {
	args := m.Called(ctx, role)
	return args.Get(0).(earningsdomain.Stats), args.Error(1)
}

func (m *mockEarningsService) GetChartData(ctx context.Context, role earningsdomain.Role, rng earningsdomain.Range) ([]earningsdomain.ChartPoint, error) {
	args := m.Called(ctx, role, rng)
	points, _ := args.Get(0).([]earningsdomain.ChartPoint)
	return points, args.Error(1)
}

var testNow = time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T, svc earningsdomain.Service, authz authorization.Service) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	engine.Use(ErrorHandlingMiddleware())

	cfg := config.DefaultEarningsConfig()
	cfg.Timezone = "UTC"

	return NewServer(ServerParams{
		Gin:         engine,
		Cfg:         config.Config{AuthUserHeader: "X-User-ID"},
		Log:         zaptest.NewLogger(t),
		EarningsCfg: config.NewStaticEarningsConfigHolder(cfg),
		Clock:       clock.NewFakeClock(testNow),
		EarningsSvc: svc,
		AuthzSvc:    authz,
	})
}

func doRequest(t *testing.T, srv *Server, target string, userID string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)

	var body map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func errorType(body map[string]any) string {
	payload, _ := body["error"].(map[string]any)
	value, _ := payload["type"].(string)
	return value
}

func TestListEarningsHandler(t *testing.T) {
	svc := &mockEarningsService{}
	svc.On("ListEarnings", mock.Anything, mock.MatchedBy(func(req earningsdomain.ListEarningsRequest) bool {
		return req.Role == "provider" &&
			req.Pagination.Page == 2 &&
			req.Pagination.PageSize == 5 &&
			req.Filter.Status != nil && *req.Filter.Status == earningsdomain.StatusPaid &&
			req.Filter.Search == "crane"
	})).Return(earningsdomain.ListEarningsResponse{
		Records:    []earningsdomain.Record{{ID: 1, Amount: decimal.NewFromInt(100), Status: earningsdomain.StatusPaid}},
		TotalCount: 6,
		TotalPages: 2,
		Filtered:   1,
	}, nil).Once()

	rec, body := doRequest(t, newTestServer(t, svc, nil), "/api/earnings/provider?page=2&page_size=5&status=paid&search=crane", "42")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 6, body["total_count"])
	assert.EqualValues(t, 2, body["total_pages"])
	assert.Len(t, body["records"], 1)
	svc.AssertExpectations(t)
}

func TestListEarningsHandlerPassesUserToService(t *testing.T) {
	svc := &mockEarningsService{}
	svc.On("ListEarnings", mock.Anything, mock.Anything).
		Return(earningsdomain.ListEarningsResponse{}, earningsdomain.ErrAuthRequired).Once()

	rec, body := doRequest(t, newTestServer(t, svc, nil), "/api/earnings/provider", "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthorized", errorType(body))
	svc.AssertExpectations(t)
}

func TestEarningsHandlersRejectBadInput(t *testing.T) {
	svc := &mockEarningsService{}
	srv := newTestServer(t, svc, nil)

	cases := []struct {
		name   string
		target string
		user   string
		status int
		kind   string
	}{
		{"unknown status filter", "/api/earnings/provider?status=settled", "42", http.StatusBadRequest, "validation_error"},
		{"non numeric page", "/api/earnings/provider?page=two", "42", http.StatusBadRequest, "validation_error"},
		{"unknown chart range", "/api/earnings/provider/chart?range=decade", "42", http.StatusBadRequest, "validation_error"},
		{"unknown dashboard range", "/api/earnings/labour/dashboard?range=day", "42", http.StatusBadRequest, "validation_error"},
		{"malformed user header", "/api/earnings/provider/stats", "abc", http.StatusUnauthorized, "unauthorized"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, body := doRequest(t, srv, tc.target, tc.user)
			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.kind, errorType(body))
		})
	}
	svc.AssertNotCalled(t, "ListEarnings", mock.Anything, mock.Anything)
	svc.AssertNotCalled(t, "GetStats", mock.Anything, mock.Anything)
	svc.AssertNotCalled(t, "GetChartData", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetEarningsStatsHandler(t *testing.T) {
	svc := &mockEarningsService{}
	svc.On("GetStats", mock.Anything, earningsdomain.Role("labour")).
		Return(earningsdomain.Stats{CompletedJobs: 3, TotalEarnings: decimal.NewFromInt(900)}, nil).Once()

	rec, body := doRequest(t, newTestServer(t, svc, nil), "/api/earnings/labour/stats", "42")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 3, body["completed_jobs"])
	svc.AssertExpectations(t)
}

func TestGetEarningsChartHandlerDefaultsToWeek(t *testing.T) {
	svc := &mockEarningsService{}
	svc.On("GetChartData", mock.Anything, earningsdomain.Role("provider"), earningsdomain.RangeWeek).
		Return(make([]earningsdomain.ChartPoint, 7), nil).Once()

	rec, body := doRequest(t, newTestServer(t, svc, nil), "/api/earnings/provider/chart", "42")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "week", body["range"])
	assert.Len(t, body["data"], 7)
	svc.AssertExpectations(t)
}

func TestEarningsDashboard(t *testing.T) {
	okList := earningsdomain.ListEarningsResponse{
		Records:    []earningsdomain.Record{{ID: 9, Status: earningsdomain.StatusPending}},
		TotalCount: 1,
		TotalPages: 1,
		Filtered:   1,
	}

	t.Run("all sections", func(t *testing.T) {
		svc := &mockEarningsService{}
		svc.On("ListEarnings", mock.Anything, mock.Anything).Return(okList, nil).Once()
		svc.On("GetStats", mock.Anything, earningsdomain.RoleProvider).Return(earningsdomain.Stats{CompletedJobs: 4}, nil).Once()
		svc.On("GetChartData", mock.Anything, earningsdomain.RoleProvider, earningsdomain.RangeMonth).
			Return(make([]earningsdomain.ChartPoint, 30), nil).Once()

		rec, body := doRequest(t, newTestServer(t, svc, nil), "/api/earnings/provider/dashboard?range=month", "42")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "month", body["range"])
		assert.Len(t, body["chart"], 30)
		assert.Nil(t, body["degraded"])
		stats := body["stats"].(map[string]any)
		assert.EqualValues(t, 4, stats["completed_jobs"])
		svc.AssertExpectations(t)
	})

	t.Run("failed sections fall back independently", func(t *testing.T) {
		svc := &mockEarningsService{}
		svc.On("ListEarnings", mock.Anything, mock.Anything).Return(okList, nil).Once()
		svc.On("GetStats", mock.Anything, earningsdomain.RoleProvider).Return(earningsdomain.Stats{}, errors.New("boom")).Once()
		svc.On("GetChartData", mock.Anything, earningsdomain.RoleProvider, earningsdomain.RangeWeek).
			Return(nil, errors.New("boom")).Once()

		rec, body := doRequest(t, newTestServer(t, svc, nil), "/api/earnings/provider/dashboard", "42")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.ElementsMatch(t, []any{"stats", "chart"}, body["degraded"])

		transactions := body["transactions"].(map[string]any)
		assert.Len(t, transactions["records"], 1)

		chart := body["chart"].([]any)
		require.Len(t, chart, 7)
		assert.Equal(t, "09 Mar", chart[0].(map[string]any)["date"])
		assert.Equal(t, "15 Mar", chart[6].(map[string]any)["date"])

		stats := body["stats"].(map[string]any)
		assert.EqualValues(t, 0, stats["completed_jobs"])
	})

	t.Run("missing user fails the whole dashboard", func(t *testing.T) {
		svc := &mockEarningsService{}
		svc.On("ListEarnings", mock.Anything, mock.Anything).Return(earningsdomain.ListEarningsResponse{}, earningsdomain.ErrAuthRequired)
		svc.On("GetStats", mock.Anything, mock.Anything).Return(earningsdomain.Stats{}, earningsdomain.ErrAuthRequired)
		svc.On("GetChartData", mock.Anything, mock.Anything, mock.Anything).Return(nil, earningsdomain.ErrAuthRequired)

		rec, body := doRequest(t, newTestServer(t, svc, nil), "/api/earnings/provider/dashboard", "")

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "unauthorized", errorType(body))
	})
}

func TestRequireEarningsAccess(t *testing.T) {
	conn, err := db.NewTest()
	require.NoError(t, err)
	enforcer, err := authorization.NewEnforcer(conn)
	require.NoError(t, err)
	authz := authorization.NewService(authorization.Params{Log: zaptest.NewLogger(t), Enforcer: enforcer})
	require.NoError(t, authz.Suspend(context.Background(), "user:7", authorization.ObjectLabourEarnings, authorization.ActionView))

	svc := &mockEarningsService{}
	svc.On("GetStats", mock.Anything, earningsdomain.Role("labour")).Return(earningsdomain.Stats{}, nil).Once()
	srv := newTestServer(t, svc, authz)

	rec, _ := doRequest(t, srv, "/api/earnings/labour/stats", "42")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, body := doRequest(t, srv, "/api/earnings/labour/stats", "7")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "forbidden", errorType(body))

	rec, body = doRequest(t, srv, "/api/earnings/renter/stats", "42")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation_error", errorType(body))

	svc.AssertExpectations(t)
}

func TestMapError(t *testing.T) {
	status, payload := mapError(earningsdomain.ErrInvalidRange)
	assert.Equal(t, http.StatusBadRequest, status)
	require.Len(t, payload.Errors, 1)
	assert.Equal(t, "range", payload.Errors[0].Field)

	status, _ = mapError(ErrRateLimited)
	assert.Equal(t, http.StatusTooManyRequests, status)

	status, _ = mapError(errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, status)

	kind, code := classifyErrorForLog(earningsdomain.ErrInvalidStatus)
	assert.Equal(t, "validation_error", kind)
	assert.Equal(t, "invalid_status", code)
}
