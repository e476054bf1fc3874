package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracing returns the otelgin server-span handler followed by a handler that
// tags the span with the request and operator IDs. 5xx responses mark the
// span failed. Register with router.Use(Tracing(...)...).
func Tracing(serviceName string, opts ...otelgin.Option) gin.HandlersChain {
	return gin.HandlersChain{otelgin.Middleware(serviceName, opts...), annotateSpan}
}

// annotateSpan runs inside the otelgin span; otelgin ends the span and
// restores the original request context once the chain returns
func annotateSpan(c *gin.Context) {
	span := trace.SpanFromContext(c.Request.Context())
	if id := GetRequestID(c); id != "" {
		span.SetAttributes(attribute.String("request_id", id))
	}

	c.Next()

	if !span.IsRecording() {
		return
	}
	if id := c.GetString(JWTOperatorIDKey); id != "" {
		span.SetAttributes(attribute.String("operator_id", id))
	}
	if status := c.Writer.Status(); status >= http.StatusInternalServerError {
		span.SetStatus(codes.Error, http.StatusText(status))
	}
}
