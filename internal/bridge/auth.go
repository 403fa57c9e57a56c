package bridge

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// checkAuth accepts a bearer header or a token query parameter. The query
// form exists for websocket clients that cannot set headers.
func checkAuth(r *http.Request, token string) bool {
	if token == "" {
		return true
	}

	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		if tokenEqual(strings.TrimPrefix(auth, "Bearer "), token) {
			return true
		}
	}

	return tokenEqual(r.URL.Query().Get("token"), token)
}

func tokenEqual(got, want string) bool {
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}
