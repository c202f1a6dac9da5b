package tracing

import (
	"context"
	"errors"
	"fmt"

	"go.opencensus.io/trace"
)

// StartServiceSpan starts a span named "<service>.<method>"
func StartServiceSpan(ctx context.Context, serviceName, methodName string) (context.Context, *trace.Span) {
	return trace.StartSpan(ctx, serviceName+"."+methodName)
}

// StartTeamSpan is StartServiceSpan with the tenant recorded on the span
func StartTeamSpan(ctx context.Context, serviceName, methodName, teamID string) (context.Context, *trace.Span) {
	ctx, span := StartServiceSpan(ctx, serviceName, methodName)
	span.AddAttributes(trace.StringAttribute("team_id", teamID))
	return ctx, span
}

// AddAttribute adds an attribute to the current span, if any
func AddAttribute(ctx context.Context, key string, value interface{}) {
	span := trace.FromContext(ctx)
	if span == nil {
		return
	}

	switch v := value.(type) {
	case string:
		span.AddAttributes(trace.StringAttribute(key, v))
	case int:
		span.AddAttributes(trace.Int64Attribute(key, int64(v)))
	case int64:
		span.AddAttributes(trace.Int64Attribute(key, v))
	case float64:
		span.AddAttributes(trace.Float64Attribute(key, v))
	case bool:
		span.AddAttributes(trace.BoolAttribute(key, v))
	default:
		span.AddAttributes(trace.StringAttribute(key, fmt.Sprintf("%v", v)))
	}
}

// MarkSpanError marks the current span as failed. A cancelled request is
// recorded as such rather than as an unknown failure.
func MarkSpanError(ctx context.Context, err error) {
	if err == nil {
		return
	}
	span := trace.FromContext(ctx)
	if span == nil {
		return
	}

	code := int32(trace.StatusCodeUnknown)
	switch {
	case errors.Is(err, context.Canceled):
		code = trace.StatusCodeCancelled
	case errors.Is(err, context.DeadlineExceeded):
		code = trace.StatusCodeDeadlineExceeded
	}
	span.SetStatus(trace.Status{Code: code, Message: err.Error()})
}
