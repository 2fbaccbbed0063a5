package httptransport

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"personalinfo/internal/personalinfo/handler"
	"personalinfo/internal/personalinfo/metrics"
	"personalinfo/internal/personalinfo/service"
	platformmetrics "personalinfo/internal/platform/metrics"
	"personalinfo/internal/platform/middleware"
	"personalinfo/internal/prefs/memory"
	"personalinfo/internal/prefs/mocks"
	"personalinfo/pkg/platform/sentinel"
	"personalinfo/pkg/testutil"
)

func TestRouter(t *testing.T) {
	testutil.Given(t, "the HTTP router over an in-memory backend", func(t *testing.T) {
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		reg := prometheus.NewRegistry()
		m := metrics.New(reg)
		backend := memory.New()
		svc := service.New(backend, service.WithMetrics(m))
		router := NewRouter(RouterConfig{
			Logger:      logger,
			Health:      backend,
			Gatherer:    reg,
			HTTPMetrics: platformmetrics.New(reg),
		}, handler.New(svc, logger, m))

		testutil.When(t, "calling GET /healthz", func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			testutil.Then(t, "it reports ok with a request id", func(t *testing.T) {
				assert.Equal(t, http.StatusOK, rec.Code)
				assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
				assert.NotEmpty(t, rec.Header().Get(middleware.HeaderRequestID))
			})
		})

		testutil.When(t, "saving then scraping /metrics", func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPut, "/personal-info",
				strings.NewReader(`{"name":"n","date_of_birth":"1990-02-01","email":"name@email.com"}`))
			router.ServeHTTP(httptest.NewRecorder(), req)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

			testutil.Then(t, "the save counter is exported", func(t *testing.T) {
				assert.Equal(t, http.StatusOK, rec.Code)
				assert.Contains(t, rec.Body.String(), `personalinfo_saves_total{outcome="saved"} 1`)
				assert.Contains(t, rec.Body.String(),
					`personalinfo_http_requests_total{method="GET",route="/healthz",status="200"} 1`)
			})
		})

		testutil.When(t, "calling GET /personal-info", func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/personal-info", nil))

			testutil.Then(t, "it responds with JSON", func(t *testing.T) {
				assert.Equal(t, http.StatusOK, rec.Code)
				assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			})
		})
	})
}

func TestRouter_UnhealthyBackend(t *testing.T) {
	ctrl := gomock.NewController(t)
	pinger := mocks.NewMockPinger(ctrl)
	pinger.EXPECT().Ping(gomock.Any()).Return(sentinel.ErrUnavailable)

	router := NewRouter(RouterConfig{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Health: pinger,
	})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "unavailable")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code, "metrics disabled without a gatherer")
}
