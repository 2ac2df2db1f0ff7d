package middleware

import (
	"io"
	"net/http"
)

// maxDrainBytes bounds how much of an unread body is drained before close.
// Bigger leftovers are dropped with the connection instead of being read.
const maxDrainBytes = 256 << 10

// DrainAndCloseRequest drains what the handler left unread, so the
// connection can be reused, then closes the request body
func DrainAndCloseRequest() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)
			if r.Body == nil || r.Body == http.NoBody {
				return
			}
			_, _ = io.CopyN(io.Discard, r.Body, maxDrainBytes)
			_ = r.Body.Close()
		})
	}
}
