package web

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
)

// Chain wraps h with middlewares; the first one is the outermost.
func Chain(h http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// RequestLogging attaches a request scoped zerolog logger (with request id
// and remote address) and writes one access log line per request.
func RequestLogging() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return Chain(next,
			hlog.NewHandler(log.Logger),
			hlog.RequestIDHandler("req_id", "X-Request-Id"),
			hlog.RemoteAddrHandler("remote_addr"),
			hlog.AccessHandler(accessLog),
		)
	}
}

func accessLog(r *http.Request, status, size int, duration time.Duration) {
	level := zerolog.InfoLevel
	if status >= http.StatusInternalServerError {
		level = zerolog.WarnLevel
	}

	hlog.FromRequest(r).WithLevel(level).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Int("size", size).
		Dur("duration", duration).
		Msg("HTTP request")
}
