/*
Package tracing tags API requests with a request ID and logs each one as a span.

# Usage

	tracer := tracing.New(logger, 500*time.Millisecond)
	router.Use(tracing.HTTPMiddleware(tracer))

Handlers read the ID with tracing.RequestID(c.Request.Context()). Clients
may send their own X-Request-ID (a UUID) to correlate calls; the response
always echoes the ID that was used.
*/
package tracing
