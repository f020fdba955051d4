package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	geoerrors "github.com/kbukum/geokit/errors"
)

const instrumentationName = "github.com/kbukum/geokit"

// Span attribute keys.
const (
	AttrProvider  = attribute.Key("geocode.provider")
	AttrMethod    = attribute.Key("geocode.method")
	AttrOutcome   = attribute.Key("geocode.outcome")
	AttrErrorCode = attribute.Key("error.code")
)

// StartQuerySpan opens a client span named "<service>.<provider>" for one
// dispatch.
func StartQuerySpan(ctx context.Context, service, provider, method string) (context.Context, trace.Span) {
	return otel.Tracer(instrumentationName).Start(ctx, service+"."+provider,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(AttrProvider.String(provider), AttrMethod.String(method)),
	)
}

// EndQuerySpan stamps the outcome on span and ends it. A failure marks the
// span as errored and carries its code when it has one.
func EndQuerySpan(span trace.Span, outcome string, err error) {
	span.SetAttributes(AttrOutcome.String(outcome))
	if err != nil {
		if appErr, ok := geoerrors.AsAppError(err); ok {
			span.SetAttributes(AttrErrorCode.String(string(appErr.Code)))
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
