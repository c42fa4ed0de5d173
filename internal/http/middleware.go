package httpapi

import (
	"net/http"
	"time"

	"dcmonitor/internal/metrics"
	"dcmonitor/internal/service"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}

// accessLog records method, route, status and duration of every matched request.
func accessLog(logger *zap.Logger, m *metrics.Metrics) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			route := routeTemplate(r)
			elapsed := time.Since(start)
			m.ObserveHTTP(route, rec.status, elapsed)
			logger.Debug("HTTP request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("route", route),
				zap.Int("status", rec.status),
				zap.Duration("duration", elapsed),
			)
		})
	}
}

// requireAuth rejects requests without a valid session cookie.
func requireAuth(auth *service.AuthService) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !auth.Authenticated(r) {
				writeJSON(w, http.StatusUnauthorized, Fail("authentication required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
