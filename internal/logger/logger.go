// Package logger provides structured logging for the service on top of
// Uber's zap, plus an HTTP middleware that logs every request.
package logger

import (
	"errors"
	"net/http"
	"os"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Log is the global SugaredLogger. It is a no-op logger until Init is called.
var Log = zap.NewNop().Sugar()

// Init builds the global logger for the given level name ("debug", "info", ...).
func Init(level string) error {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return err
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = lvl
	zl, err := cfg.Build()
	if err != nil {
		return err
	}
	Log = zl.Sugar()

	return nil
}

// Sync flushes buffered entries. Errors from syncing a terminal are ignored.
func Sync() error {
	err := Log.Sync()
	if err != nil && !errors.Is(err, os.ErrInvalid) && !errors.Is(err, syscall.ENOTTY) && !errors.Is(err, syscall.EINVAL) {
		return err
	}

	return nil
}

// servedResponse is what a request line reports about the response: the
// status the tracker answered with and the bytes sent after gzip.
type servedResponse struct {
	http.ResponseWriter
	status int
	size   int
}

func (r *servedResponse) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	size, err := r.ResponseWriter.Write(b)
	r.size += size
	return size, err
}

func (r *servedResponse) WriteHeader(statusCode int) {
	r.ResponseWriter.WriteHeader(statusCode)
	r.status = statusCode
}

// requestFields adds the chi route pattern and, for the per-user endpoints,
// the user id. Both are known only once the router has matched the request.
func requestFields(r *http.Request, fields []interface{}) []interface{} {
	routeCtx := chi.RouteContext(r.Context())
	if routeCtx == nil {
		return fields
	}

	if pattern := routeCtx.RoutePattern(); pattern != "" {
		fields = append(fields, "route", pattern)
	}
	if userID := routeCtx.URLParam("id"); userID != "" {
		fields = append(fields, "user_id", userID)
	}

	return fields
}

// WithLoggingHTTPMiddleware logs one "request served" line per call with
// method, uri, route, user id, status, duration and size. It must be mounted
// with chi's Use so that the route context is shared with the handler.
func WithLoggingHTTPMiddleware(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		served := &servedResponse{ResponseWriter: w}
		h.ServeHTTP(served, r)

		Log.Infow("request served", requestFields(r, []interface{}{
			"uri", r.RequestURI,
			"method", r.Method,
			"status", served.status,
			"duration", time.Since(start),
			"size", served.size,
		})...)
	})
}
