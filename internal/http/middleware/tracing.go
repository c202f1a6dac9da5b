package middleware

import (
	"context"
	"net/http"

	"go.opencensus.io/plugin/ochttp"
	"go.opencensus.io/trace"

	"github.com/Pledgebase/pledgebase/internal/domain"
)

// TracingMiddleware wraps the handler in an OpenCensus server span named after
// the RPC route
func TracingMiddleware(next http.Handler) http.Handler {
	annotated := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if span := trace.FromContext(ctx); span != nil {
			span.AddAttributes(
				trace.StringAttribute("http.route", r.URL.Path),
				trace.StringAttribute("http.method", r.Method),
			)
			if teamID := r.URL.Query().Get("team_id"); teamID != "" {
				span.AddAttributes(trace.StringAttribute("team_id", teamID))
			}
			if requestID := r.Header.Get("X-Request-ID"); requestID != "" {
				span.AddAttributes(trace.StringAttribute("http.request_id", requestID))
			}
		}

		next.ServeHTTP(&traceResponseWriter{ResponseWriter: w, ctx: ctx}, r)
	})

	return &ochttp.Handler{
		Handler: annotated,
		FormatSpanName: func(r *http.Request) string {
			return r.Method + " " + r.URL.Path
		},
		IsPublicEndpoint: true,
	}
}

// ActorSpanAttributes tags the current span with the authenticated user.
// RequireAuth applies it once the actor is known.
func ActorSpanAttributes(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if actor, ok := domain.ActorFromContext(r.Context()); ok {
			if span := trace.FromContext(r.Context()); span != nil {
				span.AddAttributes(
					trace.StringAttribute("user_id", actor.UserID),
					trace.BoolAttribute("user.admin", actor.IsAdmin()),
				)
			}
		}
		next.ServeHTTP(w, r)
	})
}

// traceResponseWriter records the status code on the request span
type traceResponseWriter struct {
	http.ResponseWriter
	ctx        context.Context
	statusCode int
}

func (trw *traceResponseWriter) WriteHeader(code int) {
	trw.statusCode = code

	if span := trace.FromContext(trw.ctx); span != nil {
		span.AddAttributes(trace.Int64Attribute("http.status_code", int64(code)))
		if code >= 500 {
			span.SetStatus(trace.Status{
				Code:    trace.StatusCodeInternal,
				Message: http.StatusText(code),
			})
		} else if code >= 400 {
			span.SetStatus(trace.Status{
				Code:    trace.StatusCodeInvalidArgument,
				Message: http.StatusText(code),
			})
		}
	}

	trw.ResponseWriter.WriteHeader(code)
}

var _ http.ResponseWriter = (*traceResponseWriter)(nil)
