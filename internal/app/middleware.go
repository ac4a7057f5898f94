package app

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"blogstats/internal/blog"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type contextKey int

const requestIDKey contextKey = iota

// RequestIDFromContext returns the request ID set by the logging middleware.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// withCommonHeaders adds CORS and common headers.
func (s *Server) withCommonHeaders(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Server", "blogstats")
		h.ServeHTTP(w, r)
	})
}

// withRequestLogging tags each request with an X-Request-ID and logs it once
// it completes. 5xx logs at Error, 4xx at Warn.
func (s *Server) withRequestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		r = r.WithContext(context.WithValue(r.Context(), requestIDKey, requestID))
		w.Header().Set("X-Request-ID", requestID)

		rw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)

		took := time.Since(start)
		s.metrics.observeRequest(r.URL.Path, rw.status, took)

		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("query", r.URL.RawQuery),
			zap.Int("status", rw.status),
			zap.Int("bytes", rw.bytes),
			zap.Duration("took", took),
		}
		switch {
		case rw.status >= 500:
			s.log.Error("Request", fields...)
		case rw.status >= 400:
			s.log.Warn("Request", fields...)
		default:
			s.log.Info("Request", fields...)
		}
	})
}

// withDataset loads the dataset through the fetch cache for every request
// and attaches it to the request context. If no dataset can be obtained the
// request ends with 401 and the fetch error message.
func (s *Server) withDataset(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ds, err := s.fetchCache.Get(r.Context())
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"err": err.Error()})
			return
		}
		next.ServeHTTP(w, r.WithContext(blog.NewContext(r.Context(), ds)))
	})
}

// statusWriter captures the status code and bytes written.
type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

func (w *statusWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
