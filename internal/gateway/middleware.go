package gateway

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/pharmacy-backend/pkg/logger"
)

// TracingMiddleware starts a server span and injects its context into the
// request headers forwarded upstream
func TracingMiddleware() fiber.Handler {
	tracer := otel.Tracer("pharmacy-gateway")

	return func(c *fiber.Ctx) error {
		carrier := propagation.HeaderCarrier{}
		c.Request().Header.VisitAll(func(key, value []byte) {
			carrier.Set(string(key), string(value))
		})
		parent := otel.GetTextMapPropagator().Extract(c.UserContext(), carrier)

		ctx, span := tracer.Start(
			parent,
			c.Method()+" "+c.Path(),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", c.Method()),
				attribute.String("http.url", c.OriginalURL()),
				attribute.String("http.target", c.Path()),
				attribute.String("http.client_ip", c.IP()),
				attribute.String("http.user_agent", c.Get("User-Agent")),
			),
		)
		defer span.End()

		c.SetUserContext(ctx)

		out := propagation.HeaderCarrier{}
		otel.GetTextMapPropagator().Inject(ctx, out)
		for key := range out {
			c.Request().Header.Set(key, out.Get(key))
		}

		if span.SpanContext().HasTraceID() {
			c.Set("X-Trace-Id", span.SpanContext().TraceID().String())
		}

		err := c.Next()

		status := c.Response().StatusCode()
		span.SetAttributes(attribute.Int("http.status_code", status))
		switch {
		case err != nil:
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		case status >= 500:
			span.SetStatus(codes.Error, "Server Error")
		default:
			span.SetStatus(codes.Ok, "")
		}
		return err
	}
}

// LoggingMiddleware logs one line per completed request
func LoggingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		duration := time.Since(start)
		status := c.Response().StatusCode()

		event := logger.WithContext(c.UserContext()).Info()
		if status >= 500 || err != nil {
			event = logger.WithContext(c.UserContext()).Error().Err(err)
		} else if status >= 400 {
			event = logger.WithContext(c.UserContext()).Warn()
		}

		traceID := ""
		if span := trace.SpanFromContext(c.UserContext()); span.SpanContext().IsValid() {
			traceID = span.SpanContext().TraceID().String()
		}

		event.
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("ip", c.IP()).
			Int("status", status).
			Int64("duration_ms", duration.Milliseconds()).
			Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
			Str("trace_id", traceID).
			Msg("Gateway request completed")

		return err
	}
}
