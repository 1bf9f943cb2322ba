package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName      = "workroll/api"
	spanName        = "workroll.http"
	metricsEvent    = "http.request.metrics"
	errorStageKey   = "error_stage"
	requestErrorKey = "request_error"
)

func setErrorStage(c echo.Context, stage string) {
	if stage == "" {
		return
	}
	if _, set := c.Get(errorStageKey).(string); set {
		return
	}
	c.Set(errorStageKey, stage)
}

// RequestMetrics wraps each request in a server span and logs one summary
// line with the route, status, latency and failing stage.
func RequestMetrics(logger *log.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()
			ctx, span := otel.Tracer(tracerName).Start(req.Context(), spanName, trace.WithSpanKind(trace.SpanKindServer))
			defer span.End()
			c.SetRequest(req.WithContext(ctx))

			err := next(c)
			if err != nil {
				c.Error(err)
			}
			status := c.Response().Status
			stage, _ := c.Get(errorStageKey).(string)
			if err == nil {
				err, _ = c.Get(requestErrorKey).(error)
			}

			attrs := []attribute.KeyValue{
				attribute.String("http.method", req.Method),
				attribute.String("http.route", c.Path()),
				attribute.Int("http.status_code", status),
			}
			if stage != "" {
				attrs = append(attrs, attribute.String("workroll.error_stage", stage))
			}
			span.SetAttributes(attrs...)
			if err != nil || status >= http.StatusInternalServerError {
				msg := http.StatusText(status)
				if err != nil {
					span.RecordError(err)
					msg = err.Error()
				}
				span.SetStatus(codes.Error, msg)
			}

			if logger == nil {
				return nil
			}
			fields := log.Fields{
				"route":    c.Path(),
				"method":   req.Method,
				"status":   status,
				"total_ms": durationToMillis(time.Since(start)),
			}
			if stage != "" {
				fields["error_stage"] = stage
			}
			if err != nil {
				fields["error"] = err.Error()
			}
			logger.WithFields(fields).Log(levelForStatus(status, err), metricsEvent)
			return nil
		}
	}
}

func levelForStatus(status int, err error) log.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return log.ErrorLevel
	case status >= http.StatusBadRequest:
		return log.WarnLevel
	case err != nil:
		return log.ErrorLevel
	}
	return log.InfoLevel
}

func durationToMillis(d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(d) / float64(time.Millisecond)
}
