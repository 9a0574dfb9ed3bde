package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/airtimehq/airtime/internal/server/auth"
	"github.com/google/uuid"
)

// withBearerSubject verifies an Authorization: Bearer token and stores its
// subject in the request context. Requests without a token pass through
// unauthenticated; the engine rejects them where authentication is required.
// A token that is present but invalid fails the request outright.
func (r *Router) withBearerSubject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		header := req.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, req)
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "malformed authorization header"})
			return
		}

		subject, err := auth.GetSubjectFromToken(token, []byte(r.secretKey))
		if err != nil {
			writeError(w, err)
			return
		}

		next.ServeHTTP(w, req.WithContext(auth.ContextWithSubject(req.Context(), subject)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// withRequestLog tags each request with an id and logs method, path, status
// and latency.
func (r *Router) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, req)

		r.logger.Info(req.Context(), "http request",
			"request_id", uuid.NewString(),
			"method", req.Method,
			"path", req.URL.Path,
			"status", rec.status,
			"duration", time.Since(start).String(),
		)
	})
}
