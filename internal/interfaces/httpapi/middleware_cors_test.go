package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/riskibarqy/prediction-league/internal/platform/logging"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name       string
		allowed    []string
		method     string
		origin     string
		wantStatus int
		wantOrigin string
	}{
		{name: "configured origin", allowed: []string{"https://tippspiel.example.com"}, method: http.MethodGet, origin: "https://tippspiel.example.com", wantStatus: http.StatusOK, wantOrigin: "https://tippspiel.example.com"},
		{name: "wildcard preflight", allowed: []string{"*"}, method: http.MethodOptions, origin: "https://tippspiel.example.com", wantStatus: http.StatusNoContent, wantOrigin: "*"},
		{name: "unconfigured origin", allowed: []string{"https://allowed.example.com"}, method: http.MethodGet, origin: "https://not-allowed.example.com", wantStatus: http.StatusOK},
		{name: "no origin header", allowed: []string{"*"}, method: http.MethodGet, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/v1/seasons/2022/table", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rec := httptest.NewRecorder()
			CORS(tt.allowed, okHandler()).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status=%d want=%d", rec.Code, tt.wantStatus)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Fatalf("Access-Control-Allow-Origin=%q want=%q", got, tt.wantOrigin)
			}
		})
	}
}

func TestRequestLogging_LevelFollowsStatus(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := logging.FromZap(zap.New(core))

	for _, status := range []int{http.StatusOK, http.StatusNotFound, http.StatusBadGateway} {
		handler := RequestLogging(logger, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(status)
			_, _ = w.Write([]byte("body"))
		}))
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/seasons/2022/table", nil))
	}

	entries := logs.All()
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	want := []zapcore.Level{zapcore.InfoLevel, zapcore.WarnLevel, zapcore.ErrorLevel}
	for i, entry := range entries {
		if entry.Level != want[i] {
			t.Fatalf("entry %d level=%s want=%s", i, entry.Level, want[i])
		}
		if entry.ContextMap()["bytes"] != int64(4) {
			t.Fatalf("entry %d bytes=%v", i, entry.ContextMap()["bytes"])
		}
	}
}

func TestRecoverPanic_WritesInternalError(t *testing.T) {
	handler := recoverPanic(logging.NewNop(), http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/seasons/2022/table", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
