package web

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/rs/zerolog/hlog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/sentoz/schema-server/internal/document"
	"github.com/sentoz/schema-server/internal/metrics"
	"github.com/sentoz/schema-server/internal/tracing"
)

const tracerName = "github.com/sentoz/schema-server/internal/web"

// DocumentLoader loads the value served on the schema route.
type DocumentLoader interface {
	Load(ctx context.Context) (any, error)
}

// SchemaHandler reads the document on every request and writes it back as
// JSON. Any load or encode failure results in a bare 500.
func SchemaHandler(loader DocumentLoader, m *metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := otel.Tracer(tracerName).Start(r.Context(), "document.load")

		start := time.Now()
		body, err := loadAndEncode(ctx, loader)
		reason := document.Reason(err)
		m.ObserveLoad(time.Since(start).Seconds(), reason)

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, reason)
			span.End()

			hlog.FromRequest(r).Error().
				Err(err).
				Str("reason", reason).
				Msg("Failed to load document")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		span.SetAttributes(attribute.Int("document.size", len(body)))
		span.End()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(body); err != nil {
			hlog.FromRequest(r).Debug().Err(err).Msg("Failed to write document response")
		}
	}
}

func loadAndEncode(ctx context.Context, loader DocumentLoader) ([]byte, error) {
	v, err := loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	return document.Encode(v)
}

// literalRoute matches clean paths made of literal segments. Such a route
// is a ServeMux pattern that matches exactly one path.
var literalRoute = regexp.MustCompile(`^(/([A-Za-z0-9_~-]|[.][A-Za-z0-9_~-]|[.][.][A-Za-z0-9._~-])[A-Za-z0-9._~-]*)+$`)

// NewPublicHandler returns the handler of the public listener: the schema
// route and nothing else, wrapped in logging, tracing and metrics middleware.
// The route only answers GET and HEAD; other methods get 405.
func NewPublicHandler(route string, loader DocumentLoader, m *metrics.Metrics, t *tracing.Tracer) (http.Handler, error) {
	if !literalRoute.MatchString(route) {
		return nil, fmt.Errorf("web: route %q must be a literal path without a trailing slash", route)
	}

	mux := http.NewServeMux()
	mux.Handle("GET "+route, SchemaHandler(loader, m))

	return Chain(m.InstrumentHandler(mux), RequestLogging(), tracing.Middleware(t)), nil
}
