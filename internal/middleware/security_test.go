package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func TestSecurityHeaders(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/", nil)
	rr := httptest.NewRecorder()

	SecurityHeaders(handler).ServeHTTP(rr, req)

	want := map[string]string{
		"X-Frame-Options":        "DENY",
		"X-Content-Type-Options": "nosniff",
		"Referrer-Policy":        "no-referrer",
	}
	for header, value := range want {
		if got := rr.Header().Get(header); got != value {
			t.Errorf("%s = %q, want %q", header, got, value)
		}
	}
}

func TestRequestTracing(t *testing.T) {
	var capturedRequestID string

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedRequestID = r.Header.Get("X-Request-ID")
		w.WriteHeader(http.StatusOK)
	})

	traced := RequestTracing(handler)

	t.Run("generates request ID", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		rr := httptest.NewRecorder()

		traced.ServeHTTP(rr, req)

		responseID := rr.Header().Get("X-Request-ID")
		if responseID == "" {
			t.Error("X-Request-ID header not set on response")
		}
		if capturedRequestID == "" {
			t.Error("X-Request-ID not passed to handler")
		}
		if responseID != capturedRequestID {
			t.Errorf("Request ID mismatch: response=%s, handler=%s", responseID, capturedRequestID)
		}
	})

	t.Run("preserves existing request ID", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("X-Request-ID", "existing-id-123")
		rr := httptest.NewRecorder()

		traced.ServeHTTP(rr, req)

		if got := rr.Header().Get("X-Request-ID"); got != "existing-id-123" {
			t.Errorf("Should preserve existing ID, got %s", got)
		}
	})

	t.Run("unique IDs for different requests", func(t *testing.T) {
		rr1 := httptest.NewRecorder()
		traced.ServeHTTP(rr1, httptest.NewRequest("GET", "/", nil))

		rr2 := httptest.NewRecorder()
		traced.ServeHTTP(rr2, httptest.NewRequest("GET", "/", nil))

		if rr1.Header().Get("X-Request-ID") == rr2.Header().Get("X-Request-ID") {
			t.Error("Different requests should have different IDs")
		}
	})
}

func TestGenerateRequestID(t *testing.T) {
	id1 := generateRequestID()
	if id1 == "" {
		t.Error("generateRequestID() returned empty string")
	}

	// 8 random bytes hex-encoded
	if len(id1) != 16 {
		t.Errorf("Request ID length = %d, want 16", len(id1))
	}

	if id2 := generateRequestID(); id1 == id2 {
		t.Error("generateRequestID() should generate unique IDs")
	}
}

func TestRecovery(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	req := httptest.NewRequest("GET", "/", nil)
	rr := httptest.NewRecorder()

	Recovery(zap.NewNop())(handler).ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusInternalServerError)
	}
}

func TestRequestLoggerPassesThrough(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest("GET", "/", nil)
	rr := httptest.NewRecorder()

	RequestLogger(zap.NewNop())(handler).ServeHTTP(rr, req)

	if rr.Code != http.StatusTeapot {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusTeapot)
	}
}
