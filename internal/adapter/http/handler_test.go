package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecb-rate-service/internal/domain/model"
	"ecb-rate-service/internal/fixtures/ecb"
	"ecb-rate-service/internal/metrics"
	"ecb-rate-service/internal/service"
	"ecb-rate-service/pkg/clock"
	"ecb-rate-service/pkg/logger"
)

type MockExchangeService struct {
	SendFunc     func(ctx context.Context, req model.Request) (*model.Success, error)
	SupportsFunc func(req model.Request) bool
	WarmFunc     func(ctx context.Context) error
}

func (m *MockExchangeService) Send(ctx context.Context, req model.Request) (*model.Success, error) {
	return m.SendFunc(ctx, req)
}

func (m *MockExchangeService) Supports(req model.Request) bool {
	return m.SupportsFunc(req)
}

func (m *MockExchangeService) Warm(ctx context.Context) error {
	return m.WarmFunc(ctx)
}

type decodedResponse struct {
	Success bool     `json:"success"`
	Data    RateData `json:"data"`
	Error   string   `json:"error"`
}

func newTestRouter(svc *MockExchangeService) http.Handler {
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)
	log := logger.Discard()
	return NewRouter(NewHandler(svc, log), log, m, reg).SetupRoutes()
}

func serve(t *testing.T, h http.Handler, target string) (*httptest.ResponseRecorder, decodedResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	var body decodedResponse
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestHandler_StatusMapping(t *testing.T) {
	pair := model.CurrencyPair{BaseCurrency: model.EUR, TargetCurrency: "KZT"}

	testCases := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "Rate not found",
			err:         model.NewRateNotFound(pair, nil),
			wantStatus:  http.StatusNotFound,
			wantMessage: "Unable to find exchange rate for EUR/KZT",
		},
		{
			name:        "Not supported",
			err:         &model.UnsupportedRequestError{Request: struct{}{}},
			wantStatus:  http.StatusBadRequest,
			wantMessage: `Unsupported request type: "struct {}"`,
		},
		{
			name:        "Upstream HTTP failure",
			err:         &model.HTTPFailureError{StatusCode: 503, Body: "down"},
			wantStatus:  http.StatusBadGateway,
			wantMessage: "Bad Gateway",
		},
		{
			name:        "Malformed document",
			err:         fmt.Errorf("%w: empty document", model.ErrMalformedDocument),
			wantStatus:  http.StatusBadGateway,
			wantMessage: "Bad Gateway",
		},
		{
			name:        "Cache failure",
			err:         fmt.Errorf("%w: set: timeout", model.ErrCacheFailure),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "Internal Server Error",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &MockExchangeService{
				SendFunc: func(ctx context.Context, req model.Request) (*model.Success, error) {
					return nil, tc.err
				},
			}

			rec, body := serve(t, newTestRouter(svc), "/api/v1/rates?from=EUR&to=KZT")

			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.False(t, body.Success)
			assert.Equal(t, tc.wantMessage, body.Error)
		})
	}
}

func TestHandler_BadParameters(t *testing.T) {
	svc := &MockExchangeService{
		SendFunc: func(ctx context.Context, req model.Request) (*model.Success, error) {
			t.Fatalf("service must not be called, got %#v", req)
			return nil, nil
		},
	}
	router := newTestRouter(svc)

	targets := []string{
		"/api/v1/rates",
		"/api/v1/rates?from=EUR",
		"/api/v1/rates?from=EURO&to=USD",
		"/api/v1/rates?from=EUR&to=U1D",
		"/api/v1/historical?from=EUR&to=USD",
		"/api/v1/historical?from=EUR&to=USD&date=15-05-2025",
		"/api/v1/historical?from=EUR&to=USD&date=2025-02-30",
	}

	for _, target := range targets {
		t.Run(target, func(t *testing.T) {
			rec, body := serve(t, router, target)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.False(t, body.Success)
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestHandler_BuildsRequests(t *testing.T) {
	var got model.Request
	svc := &MockExchangeService{
		SendFunc: func(ctx context.Context, req model.Request) (*model.Success, error) {
			got = req
			return &model.Success{Base: model.EUR, Quote: "USD", Rate: "1.1194", Date: civil.Date{Year: 2025, Month: time.May, Day: 16}}, nil
		},
	}
	router := newTestRouter(svc)

	rec, body := serve(t, router, "/api/v1/historical?from=eur&to=usd&date=2025-05-17")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.HistoricalRequest{Base: model.EUR, Quote: "USD", Date: civil.Date{Year: 2025, Month: time.May, Day: 17}}, got)
	assert.True(t, body.Success)
	assert.Equal(t, RateData{Base: model.EUR, Quote: "USD", Rate: "1.1194", Date: "2025-05-16", RequestedDate: "2025-05-17"}, body.Data)

	rec, _ = serve(t, router, "/api/v1/rates?from=EUR&to=USD")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.CurrentRequest{Base: model.EUR, Quote: "USD"}, got)
}

func TestHandler_EndToEnd(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)
	svc := service.NewExchangeService(service.Options{
		Transport: ecb.NewMockClient(),
		Clock:     clock.MustParseDate("2025-06-18"),
		Metrics:   m,
	})
	router := NewRouter(NewHandler(svc, logger.Discard()), logger.Discard(), m, reg).SetupRoutes()

	rec, body := serve(t, router, "/api/v1/rates?from=EUR&to=USD")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1.1508", body.Data.Rate)
	assert.Equal(t, "2025-06-18", body.Data.Date)

	rec, body = serve(t, router, "/api/v1/historical?from=EUR&to=KZT&date=2025-05-15")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Unable to find exchange rate for EUR/KZT on 2025-05-15", body.Error)

	rec, body = serve(t, router, "/api/v1/historical?from=EUR&to=USD&date=2025-06-19")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Date seems to be in future", body.Error)
}

func TestRouter_RequestID(t *testing.T) {
	svc := &MockExchangeService{
		SendFunc: func(ctx context.Context, req model.Request) (*model.Success, error) {
			assert.Equal(t, "abc-123", RequestID(ctx))
			return nil, errors.New("boom")
		},
	}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/rates?from=EUR&to=USD", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec, _ = serve(t, router, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
	assert.Len(t, rec.Header().Get(RequestIDHeader), 36)
}

func TestRouter_Metrics(t *testing.T) {
	svc := &MockExchangeService{}
	router := newTestRouter(svc)

	_, _ = serve(t, router, "/health")
	rec, _ := serve(t, router, "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `http_requests_total{method="GET",path="/health",status_code="2xx"} 1`)
}

func TestRouter_MetricsUnknownPathsShareOneSeries(t *testing.T) {
	router := newTestRouter(&MockExchangeService{})

	for _, target := range []string{"/nope/1", "/nope/2", "/wp-admin.php"} {
		rec, _ := serve(t, router, target)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	}
	rec, _ := serve(t, router, "/metrics")

	body := rec.Body.String()
	assert.Contains(t, body, `http_requests_total{method="GET",path="other",status_code="4xx"} 3`)
	assert.NotContains(t, body, "/nope/1")
	assert.NotContains(t, body, "wp-admin")
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	router := newTestRouter(&MockExchangeService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/rates?from=EUR&to=USD", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
