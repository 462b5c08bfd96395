package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// TestNormalizePath — нормализация путей для лейблов метрик.
func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"/health/live", "/health/live"},
		{"/metrics", "/metrics"},
		{"/api/v1/departments", "/api/v1/departments"},
		{"/api/v1/files", "/api/v1/files"},
		{"/api/v1/files/42", "/api/v1/files/{id}"},
		{"/api/v1/files/42/history", "/api/v1/files/{id}/history"},
		{"/api/v1/files/42/issues", "/api/v1/files/{id}/issues"},
		{"/api/v1/files/42/status", "/api/v1/files/{id}/status"},
		{"/api/v1/files/42/location", "/api/v1/files/{id}/location"},
		{"/api/v1/issues/issue-1", "/api/v1/issues/{id}"},
		{"/api/v1/issues/issue-1/close", "/api/v1/issues/{id}/close"},
		{"/api/v1/requests/counts", "/api/v1/requests/counts"},
		{"/api/v1/requests/req-1", "/api/v1/requests/{id}"},
		{"/api/v1/requests/req-1/decision", "/api/v1/requests/{id}/decision"},
		{"/api/v1/files/42/unknown/deep", "/api/v1/files/{id}"},
		{"/unknown", "/unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := normalizePath(tt.path); got != tt.expected {
				t.Errorf("normalizePath(%q) = %q, ожидалось %q", tt.path, got, tt.expected)
			}
		})
	}
}

// TestMetricsMiddleware_PassesThrough — middleware не меняет ответ.
func TestMetricsMiddleware_PassesThrough(t *testing.T) {
	handler := MetricsMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("body"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/files/1", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusTeapot {
		t.Errorf("ожидался статус 418, получен %d", rec.Code)
	}
	if rec.Body.String() != "body" {
		t.Errorf("тело ответа искажено: %q", rec.Body.String())
	}
}
