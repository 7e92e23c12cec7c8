package tracing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/PhoneSim/backend/internal/infrastructure/logging"
)

// Header carries the request ID in and out of the API
const Header = "X-Request-ID"

type contextKey string

const requestIDKey contextKey = "request_id"

// Span is one traced request
type Span struct {
	RequestID  string
	Name       string
	Method     string
	StartTime  time.Time
	Duration   time.Duration
	StatusCode int
	Error      error
}

// Tracer writes finished spans to the log
type Tracer struct {
	logger *logging.Logger
	slow   time.Duration
}

// New creates a tracer. Requests slower than slow are logged at warn level;
// zero disables that.
func New(logger *logging.Logger, slow time.Duration) *Tracer {
	return &Tracer{logger: logger.Named("trace"), slow: slow}
}

// StartSpan begins a span for name, reusing the request ID already on ctx
func (t *Tracer) StartSpan(ctx context.Context, name string) (*Span, context.Context) {
	requestID := RequestID(ctx)
	if requestID == "" {
		requestID = NewRequestID()
		ctx = WithRequestID(ctx, requestID)
	}
	return &Span{RequestID: requestID, Name: name, StartTime: time.Now()}, ctx
}

// Finish records the span
func (t *Tracer) Finish(span *Span) {
	if span.Duration == 0 {
		span.Duration = time.Since(span.StartTime)
	}

	fields := []zap.Field{
		zap.String("request_id", span.RequestID),
		zap.String("span", span.Name),
		zap.Duration("duration", span.Duration),
	}
	if span.Method != "" {
		fields = append(fields, zap.String("method", span.Method))
	}
	if span.StatusCode != 0 {
		fields = append(fields, zap.Int("status", span.StatusCode))
	}

	switch {
	case span.Error != nil:
		t.logger.Warn("Request failed", append(fields, zap.Error(span.Error))...)
	case t.slow > 0 && span.Duration > t.slow:
		t.logger.Warn("Slow request", fields...)
	default:
		t.logger.Debug("Request completed", fields...)
	}
}

// NewRequestID returns a fresh random request ID
func NewRequestID() string {
	return uuid.NewString()
}

// WithRequestID attaches a request ID to ctx
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestID returns the request ID on ctx, or ""
func RequestID(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey).(string)
	return v
}
