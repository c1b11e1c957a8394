package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireKeyOpenMode(t *testing.T) {
	handler := RequireKey(nil)(okHandler())

	req := httptest.NewRequest("GET", "/api/state", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestRequireKey(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("orange-slices"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash key: %v", err)
	}
	handler := RequireKey(hash)(okHandler())

	tests := []struct {
		name   string
		header string
		query  string
		want   int
	}{
		{"missing key", "", "", http.StatusUnauthorized},
		{"wrong key", "guess", "", http.StatusUnauthorized},
		{"valid header", "orange-slices", "", http.StatusOK},
		{"valid query param", "", "orange-slices", http.StatusOK},
		{"header wins over query", "orange-slices", "wrong", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := "/api/state"
			if tt.query != "" {
				target += "?key=" + tt.query
			}
			req := httptest.NewRequest("GET", target, nil)
			if tt.header != "" {
				req.Header.Set("X-Access-Key", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}
