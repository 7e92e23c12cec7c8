package tracing

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HTTPMiddleware assigns every request an ID and logs it as a span.
// A well-formed incoming X-Request-ID is kept; anything else is replaced.
func HTTPMiddleware(tracer *Tracer) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if incoming := c.GetHeader(Header); incoming != "" {
			if _, err := uuid.Parse(incoming); err == nil {
				ctx = WithRequestID(ctx, incoming)
			}
		}

		name := c.FullPath()
		if name == "" {
			name = c.Request.URL.Path
		}
		span, ctx := tracer.StartSpan(ctx, name)
		span.Method = c.Request.Method

		c.Request = c.Request.WithContext(ctx)
		c.Set("request_id", span.RequestID)
		c.Header(Header, span.RequestID)

		c.Next()

		span.StatusCode = c.Writer.Status()
		if len(c.Errors) > 0 {
			span.Error = c.Errors.Last()
		}
		tracer.Finish(span)
	}
}
