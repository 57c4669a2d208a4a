package api

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/felixgeelhaar/taskboard/pkg/observability"
	"github.com/rs/cors"
)

// Middleware wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

// Chain applies middlewares so the first one listed is the outermost.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// maxLoggedBody bounds request and response bodies written at debug level.
const maxLoggedBody = 4 << 10

type responseRecorder struct {
	http.ResponseWriter
	status int
	body   *bytes.Buffer
}

func (rw *responseRecorder) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseRecorder) Write(p []byte) (int, error) {
	if rw.body != nil && rw.body.Len() < maxLoggedBody {
		rw.body.Write(p[:min(len(p), maxLoggedBody-rw.body.Len())])
	}
	return rw.ResponseWriter.Write(p)
}

// Recover turns a panic into a generic 500 response.
func Recover(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					logger.ErrorContext(r.Context(), "panic serving request",
						"method", r.Method,
						"path", r.URL.Path,
						"panic", rec,
					)
					writeError(w, http.StatusInternalServerError, "Internal server error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// RequestID accepts an incoming X-Request-ID or generates one, echoes it on
// the response and stores it in the request context.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := observability.NewRequestContext(r.Context(),
				r.Header.Get(observability.RequestIDHeader),
				r.Header.Get(observability.CorrelationIDHeader),
			)
			w.Header().Set(observability.RequestIDHeader, observability.RequestIDFromContext(ctx))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Logging records one line per request and the request metrics. At debug
// level the request and response bodies are logged too.
func Logging(logger *slog.Logger, metrics observability.Metrics) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ctx := r.Context()
			debug := logger.Enabled(ctx, slog.LevelDebug)

			rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
			if debug {
				rec.body = &bytes.Buffer{}
				if r.Body != nil && r.Body != http.NoBody {
					reqBody, _ := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
					r.Body = io.NopCloser(bytes.NewReader(reqBody))
					logger.DebugContext(ctx, "request body",
						"method", r.Method,
						"path", r.URL.Path,
						"body", truncate(reqBody),
					)
				}
			}

			next.ServeHTTP(rec, r)

			duration := time.Since(start)
			tags := []observability.Tag{
				observability.T("method", r.Method),
				observability.T("status", strconv.Itoa(rec.status)),
			}
			metrics.Counter(observability.MetricHTTPRequests, 1, tags...)
			metrics.Timing(observability.MetricHTTPRequestDuration, duration, tags...)

			if debug && rec.body.Len() > 0 {
				logger.DebugContext(ctx, "response body",
					"status", rec.status,
					"body", rec.body.String(),
				)
			}

			logger.InfoContext(ctx, "request completed",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration_ms", duration.Milliseconds(),
				"remote_ip", r.RemoteAddr,
			)
		})
	}
}

func truncate(b []byte) string {
	if len(b) > maxLoggedBody {
		return string(b[:maxLoggedBody]) + "..."
	}
	return string(b)
}

// CORS allows cross-origin calls from the given origins.
func CORS(allowedOrigins []string) Middleware {
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"Content-Type", observability.RequestIDHeader, observability.CorrelationIDHeader},
		ExposedHeaders: []string{observability.RequestIDHeader},
	})
	return c.Handler
}
