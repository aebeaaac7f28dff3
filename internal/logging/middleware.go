package logging

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// RequestLogger logs one line per request with its status, size and latency.
func RequestLogger(l *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				kv := []any{
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"duration", time.Since(start),
				}
				if id := chimw.GetReqID(r.Context()); id != "" {
					kv = append(kv, "request_id", id)
				}
				if ww.Status() >= http.StatusInternalServerError {
					l.Error("request", kv...)
					return
				}
				l.Info("request", kv...)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
