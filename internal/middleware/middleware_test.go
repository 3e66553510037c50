package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/user/moovie-reviews/internal/logging"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestLoggerRequestID(t *testing.T) {
	r := gin.New()
	r.Use(Logger())
	var seen string
	r.GET("/ping", func(c *gin.Context) {
		seen = logging.RequestIDFromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})

	t.Run("generated", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		id := w.Header().Get(RequestIDHeader)
		if id == "" || id != seen {
			t.Errorf("header = %q, context = %q", id, seen)
		}
	})

	t.Run("propagated", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(RequestIDHeader, "abc")
		r.ServeHTTP(w, req)
		if got := w.Header().Get(RequestIDHeader); got != "abc" || seen != "abc" {
			t.Errorf("header = %q, context = %q, want abc", got, seen)
		}
	})
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:5173"}), Security())
	r.POST("/api/reviews", func(c *gin.Context) { c.Status(http.StatusCreated) })

	tests := []struct {
		name            string
		method          string
		origin          string
		wantStatus      int
		wantAllowOrigin string
		wantCredentials string
	}{
		{"allowed preflight", http.MethodOptions, "http://localhost:5173", http.StatusNoContent, "http://localhost:5173", "true"},
		{"allowed request", http.MethodPost, "http://localhost:5173", http.StatusCreated, "http://localhost:5173", "true"},
		{"foreign preflight", http.MethodOptions, "https://evil.example", http.StatusForbidden, "", ""},
		{"foreign request", http.MethodPost, "https://evil.example", http.StatusCreated, "", ""},
		{"same origin", http.MethodPost, "", http.StatusCreated, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, "/api/reviews", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if got := w.Header().Get("Access-Control-Allow-Origin"); got != tt.wantAllowOrigin {
				t.Errorf("allow origin = %q, want %q", got, tt.wantAllowOrigin)
			}
			if got := w.Header().Get("Access-Control-Allow-Credentials"); got != tt.wantCredentials {
				t.Errorf("allow credentials = %q, want %q", got, tt.wantCredentials)
			}
		})
	}
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(Security())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
}
