package health

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(context.Context) error {
	return p.err
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func serve(t *testing.T, s *Server, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var body map[string]interface{}
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestHealthAndLive(t *testing.T) {
	s := NewServer(Config{ServiceName: "finrisk", Version: "1.0.0", Commit: "abc", Logger: quietLogger()})

	rec, body := serve(t, s, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "finrisk", body["service"])
	assert.Equal(t, "1.0.0", body["version"])

	rec, body = serve(t, s, "/live")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, body["version"])
}

func TestReadyStates(t *testing.T) {
	tests := []struct {
		name     string
		ready    bool
		pingErr  error
		status   int
		database string
	}{
		{name: "ready with database", ready: true, status: http.StatusOK, database: "ok"},
		{name: "not marked ready", ready: false, status: http.StatusServiceUnavailable, database: "ok"},
		{name: "database down", ready: true, pingErr: errors.New("connection refused"), status: http.StatusServiceUnavailable, database: "error: connection refused"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewServer(Config{ServiceName: "finrisk", Logger: quietLogger(), DB: stubPinger{err: tt.pingErr}})
			s.SetReady(tt.ready)

			rec, body := serve(t, s, "/ready")
			assert.Equal(t, tt.status, rec.Code)
			checks := body["checks"].(map[string]interface{})
			assert.Equal(t, tt.database, checks["database"])
		})
	}
}

func TestReadyCustomCheck(t *testing.T) {
	s := NewServer(Config{Logger: quietLogger()})
	s.SetReady(true)
	s.AddCheck("policy", func(context.Context) error { return errors.New("weights do not sum to 1") })

	rec, body := serve(t, s, "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "not_ready", body["status"])
}

func TestMetricsMounted(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("finrisk_up 1\n"))
	})
	s := NewServer(Config{Logger: quietLogger(), MetricsPath: "/prom", MetricsHandler: metrics})

	rec, _ := serve(t, s, "/prom")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "finrisk_up")
}

func TestShutdownWithoutStart(t *testing.T) {
	assert.NoError(t, NewServer(Config{}).Shutdown())
}
