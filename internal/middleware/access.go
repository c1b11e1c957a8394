package middleware

import (
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const accessKeyHeader = "X-Access-Key"

// RequireKey gates requests behind a shared access key. keyHash is the
// bcrypt hash of the configured key; with no key configured (nil hash)
// every request passes, which is the default for a daemon bound to
// localhost. Clients send the key in the X-Access-Key header, or as a
// "key" query parameter for WebSocket upgrades where custom headers are
// not available.
func RequireKey(keyHash []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(keyHash) == 0 {
				next.ServeHTTP(w, r)
				return
			}

			key := strings.TrimSpace(r.Header.Get(accessKeyHeader))
			if key == "" {
				key = strings.TrimSpace(r.URL.Query().Get("key"))
			}
			if key == "" || bcrypt.CompareHashAndPassword(keyHash, []byte(key)) != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
